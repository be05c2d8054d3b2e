// Package usartxtest provides an in-memory usartx.Programmer for unit tests.
package usartxtest

import (
	"github.com/pkg/errors"

	"github.com/jangala-dev/tinygo-usartx/usartx"
)

// ErrRejected is returned by Commit when Reject is set.
var ErrRejected = errors.New("rejected by fake")

// Programmer records commits and holds the last committed configuration per
// instance as its "hardware".
type Programmer struct {
	// MaxBaud rejects faster rates with ReasonInvalidBaud when non-zero.
	MaxBaud uint32
	// Reject, when non-nil, is returned (wrapped) by every Commit.
	Reject  error
	// Live is the status reported for every instance.
	Live    usartx.Status
	// Corrupt, when set, alters the read-back configuration.
	Corrupt func(*usartx.Config)

	Commits []usartx.Config
	hw      map[string]usartx.Config
}

var _ usartx.Programmer = (*Programmer)(nil)

// New returns a fake accepting any rate up to maxBaud.
func New(maxBaud uint32) *Programmer {
	return &Programmer{MaxBaud: maxBaud, hw: make(map[string]usartx.Config)}
}

func (p *Programmer) Commit(inst usartx.Instance, cfg usartx.Config) error {
	if p.hw == nil {
		p.hw = make(map[string]usartx.Config)
	}
	if p.Reject != nil {
		delete(p.hw, inst.Name)
		return &usartx.Error{Op: "commit", Instance: inst.Name, Kind: usartx.ErrConfigurationRejected, Reason: usartx.ReasonHardwareFault, Err: p.Reject}
	}
	if p.MaxBaud != 0 && cfg.BaudRate > p.MaxBaud {
		return &usartx.Error{
			Op: "commit", Instance: inst.Name, Kind: usartx.ErrConfigurationRejected, Reason: usartx.ReasonInvalidBaud,
			Err: errors.Errorf("baud %d exceeds %d", cfg.BaudRate, p.MaxBaud),
		}
	}
	p.Commits = append(p.Commits, cfg)
	p.hw[inst.Name] = cfg
	return nil
}

func (p *Programmer) ReadBack(inst usartx.Instance) (usartx.Config, error) {
	cfg, ok := p.hw[inst.Name]
	if !ok {
		return usartx.Config{}, errors.Errorf("%s: not configured", inst.Name)
	}
	if p.Corrupt != nil {
		p.Corrupt(&cfg)
	}
	return cfg, nil
}

func (p *Programmer) Status(usartx.Instance) usartx.Status { return p.Live }
