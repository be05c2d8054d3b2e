//go:build stm32f103

package usartx

import (
	"device/stm32"
	"machine"

	"periph.io/x/conn/v3/physic"
)

// Clocks reads the running tree: APB2 at the core clock, APB1 at half of it,
// as set up by the runtime before main.
var Clocks ClockSource = func(b Bus) physic.Frequency {
	fck := physic.Frequency(machine.CPUFrequency()) * physic.Hertz
	if b == APB1 {
		return fck / 2
	}
	return fck
}

// Default programs the on-chip USART register blocks.
var Default = newDefault()

func newDefault() *RegisterProgrammer {
	p := NewRegisterProgrammer(func(b Bus) physic.Frequency { return Clocks(b) })
	p.Attach(InstanceUSART1, blockOf(stm32.USART1))
	p.Attach(InstanceUSART2, blockOf(stm32.USART2))
	p.Attach(InstanceUSART3, blockOf(stm32.USART3))
	return p
}

func blockOf(u *stm32.USART_Type) *RegisterBlock {
	return &RegisterBlock{
		SR:   &u.SR,
		DR:   &u.DR,
		BRR:  &u.BRR,
		CR1:  &u.CR1,
		CR2:  &u.CR2,
		CR3:  &u.CR3,
		GTPR: &u.GTPR,
	}
}
