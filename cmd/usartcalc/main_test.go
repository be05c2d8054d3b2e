package main

import (
	"math"
	"testing"

	"go.viam.com/test"
	"periph.io/x/conn/v3/physic"
)

func TestParseClock(t *testing.T) {
	fck, err := parseClock("72MHz")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fck, test.ShouldEqual, 72*physic.MegaHertz)

	for _, s := range []string{"-72MHz", "0Hz", "500mHz", "fast"} {
		_, err := parseClock(s)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, s)
	}
}

func TestBaudValue(t *testing.T) {
	baud, err := baudValue(115200)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, baud, test.ShouldEqual, uint32(115200))

	baud, err = baudValue(math.MaxUint32)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, baud, test.ShouldEqual, uint32(math.MaxUint32))

	baud, err = baudValue(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, baud, test.ShouldEqual, uint32(0))

	if math.MaxUint > math.MaxUint32 {
		v := uint(math.MaxUint32)
		v++
		_, err = baudValue(v)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "out of range")
	}
}
