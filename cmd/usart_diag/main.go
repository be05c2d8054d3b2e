//go:build stm32f103

package main

import (
	"time"

	"github.com/jangala-dev/tinygo-usartx/usartx"
)

/*
STM32F103 USART bring-up diagnostic.

Initializes USART1 at the build defaults, then walks the baud ladder on
USART2 and prints the register image and read-back after each commit.
Output goes to the default console (println).
*/

var ladder = []uint32{9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600, 2_250_000, 3_000_000}

// ---------- Minimal formatting helpers (no fmt) ----------
func u32hex(v uint32) string {
	const hd = "0123456789abcdef"
	var b [8]byte
	for i := 0; i < 8; i++ {
		shift := uint(28 - 4*i)
		b[i] = hd[(v>>shift)&0xF]
	}
	return string(b[:])
}

func printKV(k string, v string)  { print(k); print(": "); println(v) }
func printU32(k string, v uint32) { printKV(k, "0x"+u32hex(v)) }

func printRegs(inst usartx.Instance) {
	r := usartx.Default.DebugRegs(inst)
	printU32("  SR ", r.SR)
	printU32("  BRR", r.BRR)
	printU32("  CR1", r.CR1)
	printU32("  CR2", r.CR2)
	printU32("  CR3", r.CR3)
}

func main() {
	time.Sleep(500 * time.Millisecond)
	println("USART diagnostic start")

	if err := usartx.InitUSART1(); err != nil {
		println("USART1 init failed:", err.Error())
		halt()
	}
	cfg, _ := usartx.USART1.Config()
	printKV("USART1", cfg.String())
	printRegs(usartx.InstanceUSART1)

	h := usartx.USART2
	for _, baud := range ladder {
		cfg := usartx.DefaultConfig()
		cfg.BaudRate = baud
		err := usartx.Init(h, usartx.Default, cfg)
		if err != nil {
			printKV("USART2 "+cfg.String(), h.State().String()+" "+usartx.ReasonOf(err).String())
			continue
		}
		got, _ := usartx.Default.ReadBack(h.Instance())
		printKV("USART2 "+cfg.String(), "hw "+got.String())
		printRegs(h.Instance())
		if err := usartx.Verify(h, usartx.Default); err != nil {
			println("  verify:", err.Error())
		}
	}

	println("USART diagnostic done")
	halt()
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
