package usartx

import (
	"strings"

	"github.com/pkg/errors"
)

// ParseFrame parses "8N1" style shorthand into the format fields of a Config.
// Data bits 7 to 9 are accepted; 7 requires parity and 9 forbids it, since the
// frame (data plus parity) is at most nine bits.
func ParseFrame(s string) (WordLength, Parity, StopBits, error) {
	if len(s) != 3 {
		return 0, 0, 0, errors.Errorf("frame %q: want <data><parity><stop>, e.g. 8N1", s)
	}

	var parity Parity
	switch s[1] {
	case 'N', 'n':
		parity = ParityNone
	case 'E', 'e':
		parity = ParityEven
	case 'O', 'o':
		parity = ParityOdd
	default:
		return 0, 0, 0, errors.Errorf("frame %q: unknown parity %q", s, s[1])
	}

	var stop StopBits
	switch s[2] {
	case '1':
		stop = StopBits1
	case '2':
		stop = StopBits2
	default:
		return 0, 0, 0, errors.Errorf("frame %q: unsupported stop bits %q", s, s[2])
	}

	frameBits := int(s[0]-'0')
	if parity != ParityNone {
		frameBits++
	}
	switch frameBits {
	case 8:
		return WordLength8, parity, stop, nil
	case 9:
		return WordLength9, parity, stop, nil
	default:
		return 0, 0, 0, errors.Errorf("frame %q: unsupported data bits %q", s, s[0])
	}
}

// ParseMode parses "tx", "rx" or "txrx".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "txrx", "tx_rx", "both":
		return ModeTXRX, nil
	case "tx":
		return ModeTX, nil
	case "rx":
		return ModeRX, nil
	}
	return 0, errors.Errorf("unknown mode %q", s)
}

// ParseFlowControl parses "none", "rts", "cts" or "rtscts".
func ParseFlowControl(s string) (FlowControl, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return FlowNone, nil
	case "rts":
		return FlowRTS, nil
	case "cts":
		return FlowCTS, nil
	case "rtscts", "rts_cts":
		return FlowRTSCTS, nil
	}
	return 0, errors.Errorf("unknown flow control %q", s)
}
