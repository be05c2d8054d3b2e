// usartx/usartx.go

// Package usartx brings up an STM32F1 USART/UART peripheral: a process-wide
// Handle per physical instance and an Init call that commits a Config (baud
// rate, frame format, mode, flow control) to the peripheral's registers.
//
// Init must run before interrupts are unmasked and before any data-path code
// touches the Handle. The package holds no locks; callers own that ordering.
package usartx

import (
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// WordLength is the frame length programmed into CR1.M. As on the vendor HAL
// it includes the parity bit when parity is enabled.
type WordLength uint8

const (
	// WordLength8 is an 8-bit frame (8 data bits, or 7 plus parity).
	WordLength8 WordLength = iota
	// WordLength9 is a 9-bit frame (9 data bits, or 8 plus parity).
	WordLength9
)

func (w WordLength) String() string {
	switch w {
	case WordLength8:
		return "8bit"
	case WordLength9:
		return "9bit"
	default:
		return "invalid"
	}
}

// Parity defines the parity setting used for USART communication.
type Parity uint8

const (
	// ParityNone disables parity generation and checking (the most common setting).
	ParityNone Parity = iota
	// ParityEven sets even parity (total number of 1 bits is even).
	ParityEven
	// ParityOdd sets odd parity (total number of 1 bits is odd).
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "invalid"
	}
}

// StopBits is the number of stop bits. The half and one-and-a-half settings
// of CR2.STOP are smartcard-only on F1 and are not offered.
type StopBits uint8

const (
	StopBits1 StopBits = iota
	StopBits2
)

func (s StopBits) String() string {
	switch s {
	case StopBits1:
		return "1"
	case StopBits2:
		return "2"
	default:
		return "invalid"
	}
}

// Mode selects which directions are enabled (CR1.TE/RE).
type Mode uint8

const (
	ModeTXRX Mode = iota
	ModeTX
	ModeRX
)

func (m Mode) String() string {
	switch m {
	case ModeTXRX:
		return "txrx"
	case ModeTX:
		return "tx"
	case ModeRX:
		return "rx"
	default:
		return "invalid"
	}
}

// FlowControl selects the hardware flow-control lines (CR3.RTSE/CTSE).
type FlowControl uint8

const (
	FlowNone FlowControl = iota
	FlowRTS
	FlowCTS
	FlowRTSCTS
)

func (f FlowControl) String() string {
	switch f {
	case FlowNone:
		return "none"
	case FlowRTS:
		return "rts"
	case FlowCTS:
		return "cts"
	case FlowRTSCTS:
		return "rtscts"
	default:
		return "invalid"
	}
}

// Config is the set of communication parameters committed by Init.
// It is a plain value; the Handle only ever hands out copies.
type Config struct {
	BaudRate    uint32
	WordLength  WordLength
	Parity      Parity
	StopBits    StopBits
	Mode        Mode
	FlowControl FlowControl
}

// Build-time defaults: 115200 8N1, both directions, no flow control.
const (
	DefaultBaudRate    uint32      = 115200
	DefaultWordLength  WordLength  = WordLength8
	DefaultParity      Parity      = ParityNone
	DefaultStopBits    StopBits    = StopBits1
	DefaultMode        Mode        = ModeTXRX
	DefaultFlowControl FlowControl = FlowNone
)

// DefaultConfig returns the configuration InitUSART1 commits.
func DefaultConfig() Config {
	return Config{
		BaudRate:    DefaultBaudRate,
		WordLength:  DefaultWordLength,
		Parity:      DefaultParity,
		StopBits:    DefaultStopBits,
		Mode:        DefaultMode,
		FlowControl: DefaultFlowControl,
	}
}

// DataBits returns the number of payload bits per frame.
func (c Config) DataBits() uint8 {
	bits := uint8(8)
	if c.WordLength == WordLength9 {
		bits = 9
	}
	if c.Parity != ParityNone {
		bits--
	}
	return bits
}

// Validate reports every field outside its supported range. It does not
// judge whether the baud rate is attainable; that depends on the clock the
// programmer sees.
func (c Config) Validate() error {
	var err error
	if c.BaudRate == 0 {
		err = multierr.Append(err, errors.New("baud rate must be non-zero"))
	}
	if c.WordLength > WordLength9 {
		err = multierr.Append(err, errors.Errorf("invalid word length %d", c.WordLength))
	}
	if c.Parity > ParityOdd {
		err = multierr.Append(err, errors.Errorf("invalid parity %d", c.Parity))
	}
	if c.StopBits > StopBits2 {
		err = multierr.Append(err, errors.Errorf("invalid stop bits %d", c.StopBits))
	}
	if c.Mode > ModeRX {
		err = multierr.Append(err, errors.Errorf("invalid mode %d", c.Mode))
	}
	if c.FlowControl > FlowRTSCTS {
		err = multierr.Append(err, errors.Errorf("invalid flow control %d", c.FlowControl))
	}
	return err
}

// Frame returns the "8N1" style shorthand of the format (payload bits).
func (c Config) Frame() string {
	p := byte('N')
	switch c.Parity {
	case ParityEven:
		p = 'E'
	case ParityOdd:
		p = 'O'
	}
	s := byte('1')
	if c.StopBits == StopBits2 {
		s = '2'
	}
	return string([]byte{'0' + c.DataBits(), p, s})
}

func (c Config) String() string {
	return strconv.FormatUint(uint64(c.BaudRate), 10) + " " + c.Frame() + " mode=" + c.Mode.String() + " flow=" + c.FlowControl.String()
}
