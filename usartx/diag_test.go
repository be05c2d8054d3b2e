package usartx

import (
	"testing"

	"go.viam.com/test"
)

func TestVerify(t *testing.T) {
	p := newTestProgrammer(t)
	h := NewHandle(InstanceUSART1)

	err := Verify(h, p)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "uninitialized")

	test.That(t, Init(h, p, DefaultConfig()), test.ShouldBeNil)
	test.That(t, Verify(h, p), test.ShouldBeNil)

	// Something outside Init rewrote the format and the divisor.
	regs := p.Block(InstanceUSART1)
	regs.CR2.Set(cr2Stop2)
	regs.BRR.Set(7500)

	err = Verify(h, p)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "stop bits: want 1, hardware 2")
	test.That(t, err.Error(), test.ShouldContainSubstring, "baud: want 115200, hardware 9600")
	test.That(t, err.Error(), test.ShouldNotContainSubstring, "parity")
}

func TestVerify_DisabledPeripheral(t *testing.T) {
	p := newTestProgrammer(t)
	h := NewHandle(InstanceUSART2)
	test.That(t, Init(h, p, DefaultConfig()), test.ShouldBeNil)

	p.Block(InstanceUSART2).CR1.ClearBits(cr1UE)
	err := Verify(h, p)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "read back")
}

func TestInitUSART1_HostDefault(t *testing.T) {
	test.That(t, InitUSART1(), test.ShouldBeNil)
	test.That(t, USART1.Ready(), test.ShouldBeTrue)

	cfg, ok := USART1.Config()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cfg, test.ShouldResemble, DefaultConfig())
	test.That(t, Default.DebugRegs(InstanceUSART1).BRR, test.ShouldEqual, uint32(625))
	test.That(t, Verify(USART1, Default), test.ShouldBeNil)
	test.That(t, int32(CodeOf(InitUSART1())), test.ShouldEqual, int32(0))
}
