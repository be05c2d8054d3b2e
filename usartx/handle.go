package usartx

// Bus is the peripheral clock domain an instance hangs off.
type Bus uint8

const (
	APB1 Bus = iota + 1
	APB2
)

func (b Bus) String() string {
	switch b {
	case APB1:
		return "APB1"
	case APB2:
		return "APB2"
	default:
		return "unknown"
	}
}

// Instance is the fixed binding to one physical peripheral.
type Instance struct {
	Name string
	Base uintptr
	Bus  Bus
}

// HasFlowControl reports whether the instance has RTS/CTS lines. UART4 and
// UART5 are asynchronous-only and lack them.
func (i Instance) HasFlowControl() bool {
	return i.Name != InstanceUART4.Name && i.Name != InstanceUART5.Name
}

// Peripheral instances of the STM32F1 connectivity and high-density lines.
var (
	InstanceUSART1 = Instance{Name: "USART1", Base: 0x4001_3800, Bus: APB2}
	InstanceUSART2 = Instance{Name: "USART2", Base: 0x4000_4400, Bus: APB1}
	InstanceUSART3 = Instance{Name: "USART3", Base: 0x4000_4800, Bus: APB1}
	InstanceUART4  = Instance{Name: "UART4", Base: 0x4000_4C00, Bus: APB1}
	InstanceUART5  = Instance{Name: "UART5", Base: 0x4000_5000, Bus: APB1}

	Instances = []Instance{InstanceUSART1, InstanceUSART2, InstanceUSART3, InstanceUART4, InstanceUART5}
)

// LookupInstance finds a known instance by name, e.g. "USART2".
func LookupInstance(name string) (Instance, bool) {
	for _, inst := range Instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instance{}, false
}

// State is the Handle lifecycle as governed by Init.
type State uint8

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// Status is the runtime peripheral status. It is owned by the programmer and
// the data-path collaborators, never written by this package.
type Status uint8

const (
	StatusIdle Status = iota
	StatusBusyTX
	StatusBusyRX
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusBusyTX:
		return "busy_tx"
	case StatusBusyRX:
		return "busy_rx"
	case StatusError:
		return "error"
	default:
		return "invalid"
	}
}

// Busy reports whether a transfer is in flight.
func (s Status) Busy() bool { return s == StatusBusyTX || s == StatusBusyRX }

// Handle represents one USART peripheral and its committed configuration.
// Only Init mutates it. Data-path and diagnostics code read it.
type Handle struct {
	inst Instance

	state    State
	cfg      Config // effective; meaningful only in StateReady
	lastGood Config
	hasGood  bool
	err      error
	commits  uint32

	tolerance uint32 // read-back baud tolerance of the last commit, permille
}

// Public handles bound to the on-chip instances, zero-initialized until Init.
var (
	USART1 = &_USART1
	USART2 = &_USART2
	USART3 = &_USART3

	_USART1 = Handle{inst: InstanceUSART1}
	_USART2 = Handle{inst: InstanceUSART2}
	_USART3 = Handle{inst: InstanceUSART3}
)

// NewHandle returns an uninitialized handle bound to inst.
func NewHandle(inst Instance) *Handle {
	return &Handle{inst: inst}
}

func (h *Handle) Instance() Instance { return h.inst }

func (h *Handle) State() State { return h.state }

// Ready reports whether the last Init committed successfully.
func (h *Handle) Ready() bool { return h.state == StateReady }

// Config returns the effective configuration. ok is false unless Ready.
func (h *Handle) Config() (cfg Config, ok bool) {
	if h.state != StateReady {
		return Config{}, false
	}
	return h.cfg, true
}

// LastGood returns the most recent configuration that committed successfully,
// even when a later Init failed. It is not the effective configuration once
// the Handle is Failed.
func (h *Handle) LastGood() (Config, bool) { return h.lastGood, h.hasGood }

// Err returns the error of the last Init, or nil when Ready or never initialized.
func (h *Handle) Err() error { return h.err }

// Commits returns the number of successful commits since boot.
func (h *Handle) Commits() uint32 { return h.commits }
