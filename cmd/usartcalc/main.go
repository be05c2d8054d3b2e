// Command usartcalc computes USART divisors and dry-runs Init against the
// host register model.
package main

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"

	"github.com/jangala-dev/tinygo-usartx/usartx"
)

func main() {
	app := &cli.App{
		Name:            "usartcalc",
		Usage:           "STM32F1 USART divisor and init calculator",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log register writes",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "brr",
				Usage:     "print BRR, actual baud and error for each baud rate",
				ArgsUsage: "<baud>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "clock",
						Value: "72MHz",
						Usage: "peripheral clock `FREQ`",
					},
				},
				Action: brrAction,
			},
			{
				Name:  "init",
				Usage: "run Init on a simulated instance and print its registers",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "instance", Value: "USART1", Usage: "USART1..UART5"},
					&cli.UintFlag{Name: "baud", Value: uint(usartx.DefaultBaudRate)},
					&cli.StringFlag{Name: "frame", Value: "8N1"},
					&cli.StringFlag{Name: "mode", Value: "txrx"},
					&cli.StringFlag{Name: "flow", Value: "none"},
				},
				Action: initAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("debug") {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

// parseClock parses a peripheral clock such as "72MHz". It must be at
// least 1Hz.
func parseClock(s string) (physic.Frequency, error) {
	var fck physic.Frequency
	if err := fck.Set(s); err != nil {
		return 0, errors.Wrapf(err, "clock %q", s)
	}
	if fck < physic.Hertz {
		return 0, errors.Errorf("clock %q: must be at least 1Hz", s)
	}
	return fck, nil
}

// baudValue narrows a --baud flag value to the register width. Zero passes
// through so that Init reports it.
func baudValue(v uint) (uint32, error) {
	if uint64(v) > math.MaxUint32 {
		return 0, errors.Errorf("baud %d out of range", v)
	}
	return uint32(v), nil
}

func brrAction(c *cli.Context) error {
	fck, err := parseClock(c.String("clock"))
	if err != nil {
		return err
	}
	if c.NArg() == 0 {
		return errors.New("no baud rates given")
	}
	for _, arg := range c.Args().Slice() {
		baud, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "baud %q", arg)
		}
		brr, actual, err := usartx.Divisor(fck, uint32(baud))
		if err != nil {
			fmt.Printf("%8d  unattainable: %v\n", baud, err)
			continue
		}
		errPct := float64(int64(actual)-int64(baud)) * 100 / float64(baud)
		fmt.Printf("%8d  BRR=0x%04X (mantissa %d, fraction %d/16)  actual=%d  error=%+.3f%%\n",
			baud, brr, brr>>4, brr&0xF, actual, errPct)
	}
	return nil
}

func initAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	inst, ok := usartx.LookupInstance(c.String("instance"))
	if !ok {
		return errors.Errorf("unknown instance %q", c.String("instance"))
	}
	baud, err := baudValue(c.Uint("baud"))
	if err != nil {
		return err
	}
	cfg := usartx.Config{BaudRate: baud}
	if cfg.WordLength, cfg.Parity, cfg.StopBits, err = usartx.ParseFrame(c.String("frame")); err != nil {
		return err
	}
	if cfg.Mode, err = usartx.ParseMode(c.String("mode")); err != nil {
		return err
	}
	if cfg.FlowControl, err = usartx.ParseFlowControl(c.String("flow")); err != nil {
		return err
	}

	p := usartx.NewRegisterProgrammer(usartx.Clocks, usartx.WithProgrammerLogger(logger))
	p.Attach(inst, usartx.NewSimBlock())
	h := usartx.NewHandle(inst)

	if err := usartx.Init(h, p, cfg, usartx.WithLogger(logger)); err != nil {
		fmt.Printf("%s: %s (%s)\n", inst.Name, h.State(), usartx.ReasonOf(err))
		return err
	}
	got, err := p.ReadBack(inst)
	if err != nil {
		return err
	}
	r := p.DebugRegs(inst)
	fmt.Printf("%s @ 0x%08X (%s): %s\n", inst.Name, inst.Base, inst.Bus, h.State())
	fmt.Printf("  requested: %s\n", cfg)
	fmt.Printf("  hardware:  %s\n", got)
	fmt.Printf("  SR=0x%04X BRR=0x%04X CR1=0x%04X CR2=0x%04X CR3=0x%04X\n", r.SR, r.BRR, r.CR1, r.CR2, r.CR3)
	return nil
}
