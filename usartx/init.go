package usartx

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Programmer commits a Config to a peripheral's registers. Implementations
// are synchronous and bounded in time: a stalled ready bit is reported as a
// rejection, never waited on forever.
type Programmer interface {
	// Commit programs cfg into inst, fully replacing any prior configuration.
	Commit(inst Instance, cfg Config) error
	// ReadBack decodes the configuration currently held by the hardware.
	// The returned BaudRate is the rate the divisor actually produces.
	ReadBack(inst Instance) (Config, error)
	// Status reports the live peripheral status.
	Status(inst Instance) Status
}

// DefaultBaudTolerance is the largest read-back baud deviation, in parts per
// thousand, that Init still treats as a faithful commit.
const DefaultBaudTolerance = 20

type initOptions struct {
	logger    *zap.Logger
	tolerance uint32
}

// Option configures a single Init call.
type Option func(*initOptions)

// WithLogger logs commit progress to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *initOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBaudTolerance sets the read-back baud tolerance in parts per thousand.
// The programmer accepts divisors up to MaxBaudError; a tighter tolerance can
// reject a read-back after Commit already enabled the new configuration, in
// which case h is Failed while the hardware runs. Verify on h uses the same
// tolerance.
func WithBaudTolerance(permille uint32) Option {
	return func(o *initOptions) { o.tolerance = permille }
}

// Init commits cfg to the peripheral bound to h through p.
//
// On success h is Ready and Config returns cfg. When the configuration is
// invalid, or p rejects it, or the read-back does not match, h is Failed and
// the returned error matches ErrConfigurationRejected; the previous
// configuration survives only as LastGood. If h was initialized before
// (Ready or Failed) and p reports a transfer in flight, Init returns an error
// matching ErrAlreadyBusy and leaves h and the hardware untouched.
//
// Init must not race with itself or with data-path code on the same Handle.
func Init(h *Handle, p Programmer, cfg Config, opts ...Option) error {
	o := initOptions{logger: zap.NewNop(), tolerance: DefaultBaudTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With(zap.String("instance", h.inst.Name))

	if err := cfg.Validate(); err != nil {
		return h.fail(log, reject("init", h.inst.Name, ReasonInvalidFormat, err))
	}

	// Once anything has been committed the hardware may still be running it,
	// even if a later Init on h failed validation.
	if h.state != StateUninitialized {
		if st := p.Status(h.inst); st.Busy() {
			log.Warn("re-init while busy", zap.Stringer("status", st))
			return &Error{Op: "init", Instance: h.inst.Name, Kind: ErrAlreadyBusy, Err: errors.Errorf("status %s", st)}
		}
	}

	log.Debug("commit", zap.Stringer("config", cfg))
	if err := p.Commit(h.inst, cfg); err != nil {
		return h.fail(log, reject("commit", h.inst.Name, ReasonOf(err), err))
	}

	got, err := p.ReadBack(h.inst)
	if err != nil {
		return h.fail(log, reject("readback", h.inst.Name, ReasonHardwareFault, err))
	}
	if err := compare(cfg, got, o.tolerance); err != nil {
		return h.fail(log, reject("readback", h.inst.Name, ReasonHardwareFault, err))
	}

	h.state = StateReady
	h.cfg = cfg
	h.lastGood = cfg
	h.hasGood = true
	h.err = nil
	h.tolerance = o.tolerance
	h.commits++
	log.Info("ready", zap.Stringer("config", cfg), zap.Uint32("actual_baud", got.BaudRate))
	return nil
}

// fail marks h Failed. A rejected commit may have left the registers half
// written, so the prior configuration is never kept as effective.
func (h *Handle) fail(log *zap.Logger, err *Error) error {
	h.state = StateFailed
	h.cfg = Config{}
	h.err = err
	log.Error("init failed", zap.Error(err))
	return err
}

// compare checks that the hardware holds want. Format, mode and flow control
// must match exactly; the baud rate must be within tolerance permille.
func compare(want, got Config, tolerance uint32) error {
	if want.WordLength != got.WordLength || want.Parity != got.Parity || want.StopBits != got.StopBits {
		return errors.Errorf("format: want %s, hardware %s", want.Frame(), got.Frame())
	}
	if want.Mode != got.Mode {
		return errors.Errorf("mode: want %s, hardware %s", want.Mode, got.Mode)
	}
	if want.FlowControl != got.FlowControl {
		return errors.Errorf("flow: want %s, hardware %s", want.FlowControl, got.FlowControl)
	}
	if !baudWithin(want.BaudRate, got.BaudRate, tolerance) {
		return errors.Errorf("baud: want %d, hardware %d", want.BaudRate, got.BaudRate)
	}
	return nil
}

// baudWithin reports |actual-want|/want <= permille/1000.
func baudWithin(want, actual, permille uint32) bool {
	if want == 0 {
		return actual == 0
	}
	diff := uint64(want) - uint64(actual)
	if actual > want {
		diff = uint64(actual) - uint64(want)
	}
	return diff*1000 <= uint64(want)*uint64(permille)
}
