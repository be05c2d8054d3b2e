// usartx/programmer.go

package usartx

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
)

// DefaultReadyPolls bounds the wait for an in-progress frame (SR.TC) before
// the peripheral is disabled for reprogramming.
const DefaultReadyPolls = 100_000

// ClockSource reports the current peripheral clock of a bus. The clock tree
// itself is configured elsewhere.
type ClockSource func(Bus) physic.Frequency

// FixedClocks returns a ClockSource for constant APB1/APB2 frequencies.
func FixedClocks(apb1, apb2 physic.Frequency) ClockSource {
	return func(b Bus) physic.Frequency {
		switch b {
		case APB1:
			return apb1
		case APB2:
			return apb2
		}
		return 0
	}
}

// RegisterProgrammer programs F1 USART register blocks directly.
type RegisterProgrammer struct {
	blocks map[string]*RegisterBlock
	clock  ClockSource
	polls  int
	logger *zap.Logger
}

var _ Programmer = (*RegisterProgrammer)(nil)

// ProgrammerOption configures a RegisterProgrammer.
type ProgrammerOption func(*RegisterProgrammer)

// WithReadyPolls sets the bounded SR.TC poll count.
func WithReadyPolls(n int) ProgrammerOption {
	return func(p *RegisterProgrammer) { p.polls = n }
}

// WithProgrammerLogger logs register writes at debug level.
func WithProgrammerLogger(l *zap.Logger) ProgrammerOption {
	return func(p *RegisterProgrammer) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewRegisterProgrammer returns a programmer with no instances attached.
func NewRegisterProgrammer(clock ClockSource, opts ...ProgrammerOption) *RegisterProgrammer {
	p := &RegisterProgrammer{
		blocks: make(map[string]*RegisterBlock),
		clock:  clock,
		polls:  DefaultReadyPolls,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Attach binds inst to its register block.
func (p *RegisterProgrammer) Attach(inst Instance, regs *RegisterBlock) {
	p.blocks[inst.Name] = regs
}

// Block returns the register block bound to inst, or nil.
func (p *RegisterProgrammer) Block(inst Instance) *RegisterBlock {
	return p.blocks[inst.Name]
}

// Commit disables the peripheral, fully rewrites CR2, CR3, BRR and CR1 for
// cfg and re-enables it. No register is written if cfg cannot be encoded.
func (p *RegisterProgrammer) Commit(inst Instance, cfg Config) error {
	regs := p.blocks[inst.Name]
	if regs == nil {
		return reject("commit", inst.Name, ReasonUnknownInstance, errors.New("no register block attached"))
	}
	if err := cfg.Validate(); err != nil {
		return reject("commit", inst.Name, ReasonInvalidFormat, err)
	}
	if cfg.FlowControl != FlowNone && !inst.HasFlowControl() {
		return reject("commit", inst.Name, ReasonUnsupported, errors.Errorf("no RTS/CTS lines for flow %s", cfg.FlowControl))
	}

	fck := p.clock(inst.Bus)
	brr, actual, err := Divisor(fck, cfg.BaudRate)
	if err != nil {
		return reject("commit", inst.Name, ReasonInvalidBaud, err)
	}

	// 1) Let an in-progress frame finish before cutting the transmitter.
	if regs.CR1.HasBits(cr1UE) && regs.CR1.HasBits(cr1TE) {
		if !p.waitBits(regs.SR, srTC) {
			return reject("commit", inst.Name, ReasonNotReady, errors.Errorf("SR.TC not set after %d polls", p.polls))
		}
	}

	// 2) Disable while reconfiguring; CR1 is rewritten whole below.
	regs.CR1.Set(0)

	// 3) Full writes so nothing of a previous configuration survives.
	// Async mode also requires CR2.LINEN/CLKEN and CR3.SCEN/HDSEL/IREN cleared.
	regs.CR2.Set(encodeCR2(cfg))
	regs.CR3.Set(encodeCR3(cfg))
	regs.BRR.Set(brr)
	cr1 := encodeCR1(cfg)
	regs.CR1.Set(cr1)

	// 4) Enable and confirm the enable latched.
	regs.CR1.SetBits(cr1UE)
	if !regs.CR1.HasBits(cr1UE) {
		regs.CR1.Set(0)
		return reject("commit", inst.Name, ReasonHardwareFault, errors.New("CR1.UE did not latch"))
	}

	p.logger.Debug("committed",
		zap.String("instance", inst.Name),
		zap.Stringer("fck", fck),
		zap.Uint32("brr", brr),
		zap.Uint32("actual_baud", actual),
		zap.Uint32("cr1", regs.CR1.Get()),
		zap.Uint32("cr2", regs.CR2.Get()),
		zap.Uint32("cr3", regs.CR3.Get()),
	)
	return nil
}

// ReadBack decodes the configuration held by inst's registers.
func (p *RegisterProgrammer) ReadBack(inst Instance) (Config, error) {
	regs := p.blocks[inst.Name]
	if regs == nil {
		return Config{}, reject("readback", inst.Name, ReasonUnknownInstance, errors.New("no register block attached"))
	}
	cr1 := regs.CR1.Get()
	if cr1&cr1UE == 0 {
		return Config{}, errors.Errorf("%s: peripheral disabled", inst.Name)
	}

	var cfg Config
	if cr1&cr1M != 0 {
		cfg.WordLength = WordLength9
	}
	if cr1&cr1PCE != 0 {
		cfg.Parity = ParityEven
		if cr1&cr1PS != 0 {
			cfg.Parity = ParityOdd
		}
	}
	switch {
	case cr1&cr1TE != 0 && cr1&cr1RE != 0:
		cfg.Mode = ModeTXRX
	case cr1&cr1TE != 0:
		cfg.Mode = ModeTX
	case cr1&cr1RE != 0:
		cfg.Mode = ModeRX
	default:
		return Config{}, errors.Errorf("%s: neither transmitter nor receiver enabled", inst.Name)
	}

	switch regs.CR2.Get() & cr2StopMask {
	case cr2Stop1:
		cfg.StopBits = StopBits1
	case cr2Stop2:
		cfg.StopBits = StopBits2
	default:
		return Config{}, errors.Errorf("%s: unsupported CR2.STOP %#x", inst.Name, regs.CR2.Get()&cr2StopMask)
	}

	cr3 := regs.CR3.Get()
	switch {
	case cr3&cr3RTSE != 0 && cr3&cr3CTSE != 0:
		cfg.FlowControl = FlowRTSCTS
	case cr3&cr3RTSE != 0:
		cfg.FlowControl = FlowRTS
	case cr3&cr3CTSE != 0:
		cfg.FlowControl = FlowCTS
	}

	cfg.BaudRate = BaudFromDivisor(p.clock(inst.Bus), regs.BRR.Get()&brrMax)
	return cfg, nil
}

// Status decodes SR and CR1. Error flags take precedence over activity.
func (p *RegisterProgrammer) Status(inst Instance) Status {
	regs := p.blocks[inst.Name]
	if regs == nil {
		return StatusError
	}
	sr, cr1 := regs.SR.Get(), regs.CR1.Get()
	switch {
	case sr&srErrors != 0:
		return StatusError
	case cr1&cr1UE == 0:
		return StatusIdle
	case cr1&cr1TE != 0 && sr&srTC == 0:
		return StatusBusyTX
	case cr1&cr1RE != 0 && sr&srRXNE != 0:
		return StatusBusyRX
	}
	return StatusIdle
}

// waitBits polls r until any of bits is set, at most p.polls times.
func (p *RegisterProgrammer) waitBits(r Register, bits uint32) bool {
	for i := 0; i < p.polls; i++ {
		if r.HasBits(bits) {
			return true
		}
	}
	return false
}

func encodeCR1(cfg Config) uint32 {
	var v uint32
	if cfg.WordLength == WordLength9 {
		v |= cr1M
	}
	switch cfg.Parity {
	case ParityEven:
		v |= cr1PCE
	case ParityOdd:
		v |= cr1PCE | cr1PS
	}
	switch cfg.Mode {
	case ModeTXRX:
		v |= cr1TE | cr1RE
	case ModeTX:
		v |= cr1TE
	case ModeRX:
		v |= cr1RE
	}
	return v
}

func encodeCR2(cfg Config) uint32 {
	if cfg.StopBits == StopBits2 {
		return cr2Stop2
	}
	return cr2Stop1
}

func encodeCR3(cfg Config) uint32 {
	switch cfg.FlowControl {
	case FlowRTS:
		return cr3RTSE
	case FlowCTS:
		return cr3CTSE
	case FlowRTSCTS:
		return cr3RTSE | cr3CTSE
	}
	return 0
}

// Regs is a snapshot of an instance's registers.
type Regs struct {
	SR   uint32
	BRR  uint32
	CR1  uint32
	CR2  uint32
	CR3  uint32
	GTPR uint32
}

// DebugRegs snapshots inst's registers. DR is not read since reading it
// clears RXNE.
func (p *RegisterProgrammer) DebugRegs(inst Instance) Regs {
	regs := p.blocks[inst.Name]
	if regs == nil {
		return Regs{}
	}
	return Regs{
		SR:   regs.SR.Get(),
		BRR:  regs.BRR.Get(),
		CR1:  regs.CR1.Get(),
		CR2:  regs.CR2.Get(),
		CR3:  regs.CR3.Get(),
		GTPR: regs.GTPR.Get(),
	}
}
