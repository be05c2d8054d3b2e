package usartx

import (
	"testing"

	"go.viam.com/test"
	"periph.io/x/conn/v3/physic"
)

func TestDivisor_Table(t *testing.T) {
	cases := []struct {
		name   string
		fck    physic.Frequency
		baud   uint32
		brr    uint32
		actual uint32
	}{
		{"115200@72M", 72 * physic.MegaHertz, 115200, 625, 115200},
		{"9600@72M", 72 * physic.MegaHertz, 9600, 7500, 9600},
		{"9600@36M", 36 * physic.MegaHertz, 9600, 3750, 9600},
		{"115200@36M", 36 * physic.MegaHertz, 115200, 313, 115016},
		{"230400@72M", 72 * physic.MegaHertz, 230400, 313, 230032},
		{"max@72M", 72 * physic.MegaHertz, 4_500_000, 16, 4_500_000},
		{"115200@8M", 8 * physic.MegaHertz, 115200, 69, 115942},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			brr, actual, err := Divisor(c.fck, c.baud)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, brr, test.ShouldEqual, c.brr)
			test.That(t, actual, test.ShouldEqual, c.actual)
			test.That(t, BaudFromDivisor(c.fck, brr), test.ShouldEqual, c.actual)
		})
	}
}

func TestDivisor_Unattainable(t *testing.T) {
	cases := []struct {
		name string
		fck  physic.Frequency
		baud uint32
		msg  string
	}{
		{"zero", 72 * physic.MegaHertz, 0, "non-zero"},
		{"above fck/16", 72 * physic.MegaHertz, 5_000_000, "exceeds maximum"},
		{"divisor too large", 72 * physic.MegaHertz, 1000, "below minimum"},
		{"rounding error", 72 * physic.MegaHertz, 4_400_000, "unattainable"},
		{"no clock", 0, 9600, "too low"},
		{"negative clock", -72 * physic.MegaHertz, 9600, "too low"},
		{"sub-hertz clock", physic.Hertz / 2, 9600, "too low"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := Divisor(c.fck, c.baud)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, c.msg)
		})
	}
}

func TestBaudFromDivisor_NoClock(t *testing.T) {
	test.That(t, BaudFromDivisor(0, 625), test.ShouldEqual, uint32(0))
	test.That(t, BaudFromDivisor(-72*physic.MegaHertz, 625), test.ShouldEqual, uint32(0))
	test.That(t, BaudFromDivisor(72*physic.MegaHertz, 0), test.ShouldEqual, uint32(0))
}

func TestBaudWithin(t *testing.T) {
	test.That(t, baudWithin(115200, 115200, 0), test.ShouldBeTrue)
	test.That(t, baudWithin(100_000, 102_000, 20), test.ShouldBeTrue)
	test.That(t, baudWithin(100_000, 98_000, 20), test.ShouldBeTrue)
	test.That(t, baudWithin(100_000, 102_001, 20), test.ShouldBeFalse)
	test.That(t, baudWithin(0, 0, 20), test.ShouldBeTrue)
	test.That(t, baudWithin(0, 1, 20), test.ShouldBeFalse)
}
