//go:build !stm32f103

package usartx

import "periph.io/x/conn/v3/physic"

// Host shim: memory-backed register blocks at the F103's default 72 MHz
// tree (APB1 36 MHz, APB2 72 MHz), no device/stm32 or machine deps.

// Clocks is the peripheral clock source seen by Default.
var Clocks = FixedClocks(36*physic.MegaHertz, 72*physic.MegaHertz)

// Default programs the simulated blocks of every instance.
var Default = newDefault()

func newDefault() *RegisterProgrammer {
	p := NewRegisterProgrammer(func(b Bus) physic.Frequency { return Clocks(b) })
	for _, inst := range Instances {
		p.Attach(inst, NewSimBlock())
	}
	return p
}
