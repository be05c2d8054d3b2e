package usartx

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Verify re-reads the hardware behind h and reports every field that no
// longer matches the Handle's effective configuration. The baud rate is
// judged with the tolerance of the commit that made h Ready.
func Verify(h *Handle, p Programmer) error {
	want, ok := h.Config()
	if !ok {
		return errors.Errorf("%s: handle %s", h.inst.Name, h.state)
	}
	got, err := p.ReadBack(h.inst)
	if err != nil {
		return errors.Wrapf(err, "%s: read back", h.inst.Name)
	}

	var errs error
	if want.WordLength != got.WordLength {
		errs = multierr.Append(errs, errors.Errorf("word length: want %s, hardware %s", want.WordLength, got.WordLength))
	}
	if want.Parity != got.Parity {
		errs = multierr.Append(errs, errors.Errorf("parity: want %s, hardware %s", want.Parity, got.Parity))
	}
	if want.StopBits != got.StopBits {
		errs = multierr.Append(errs, errors.Errorf("stop bits: want %s, hardware %s", want.StopBits, got.StopBits))
	}
	if want.Mode != got.Mode {
		errs = multierr.Append(errs, errors.Errorf("mode: want %s, hardware %s", want.Mode, got.Mode))
	}
	if want.FlowControl != got.FlowControl {
		errs = multierr.Append(errs, errors.Errorf("flow: want %s, hardware %s", want.FlowControl, got.FlowControl))
	}
	if !baudWithin(want.BaudRate, got.BaudRate, h.tolerance) {
		errs = multierr.Append(errs, errors.Errorf("baud: want %d, hardware %d", want.BaudRate, got.BaudRate))
	}
	return errors.Wrapf(errs, "%s", h.inst.Name)
}
