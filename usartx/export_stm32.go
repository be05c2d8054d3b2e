//go:build stm32f103

package usartx

// usartx_usart1_init is the C-ABI startup entry point. It returns CodeOK
// once USART1 is ready.
//
//export usartx_usart1_init
func usartx_usart1_init() int32 {
	return int32(CodeOf(InitUSART1()))
}
