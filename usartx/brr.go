package usartx

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
)

const (
	// brrMin is the smallest divisor with 16x oversampling (mantissa 1,
	// fraction 0), i.e. a baud rate of fck/16.
	brrMin = 16
	brrMax = 0xFFFF
)

// MaxBaudError is the divisor error, in parts per thousand, above which a
// baud rate is reported unattainable.
const MaxBaudError = 20

// Divisor computes the BRR value for baud at peripheral clock fck with 16x
// oversampling. BRR holds USARTDIV as a 12.4 fixed-point number, so its raw
// value is fck/baud rounded to nearest. actual is the rate the divisor yields.
func Divisor(fck physic.Frequency, baud uint32) (brr, actual uint32, err error) {
	if baud == 0 {
		return 0, 0, errors.New("baud rate must be non-zero")
	}
	if fck < physic.Hertz {
		return 0, 0, errors.Errorf("peripheral clock %s too low", fck)
	}
	hz := uint64(fck / physic.Hertz)

	div := (hz + uint64(baud)/2) / uint64(baud)
	if div < brrMin {
		return 0, 0, errors.Errorf("baud %d exceeds maximum %d at %s", baud, hz/brrMin, fck)
	}
	if div > brrMax {
		return 0, 0, errors.Errorf("baud %d below minimum %d at %s", baud, (hz+brrMax-1)/brrMax, fck)
	}

	brr = uint32(div)
	actual = uint32((hz + div/2) / div)
	if !baudWithin(baud, actual, MaxBaudError) {
		return 0, 0, errors.Errorf("baud %d unattainable at %s: nearest %d", baud, fck, actual)
	}
	return brr, actual, nil
}

// BaudFromDivisor returns the baud rate produced by brr at fck.
func BaudFromDivisor(fck physic.Frequency, brr uint32) uint32 {
	if brr == 0 || fck < physic.Hertz {
		return 0
	}
	hz := uint64(fck / physic.Hertz)
	return uint32((hz + uint64(brr)/2) / uint64(brr))
}
