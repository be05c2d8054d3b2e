package usartx

// InitUSART1 commits DefaultConfig to USART1 through Default. Startup code
// calls it once before interrupts are enabled and must halt or fall back on
// error rather than use the peripheral.
func InitUSART1() error {
	return Init(USART1, Default, DefaultConfig())
}
