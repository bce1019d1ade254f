// Command avrsim runs a compiled AVR (ATmega8) firmware image against
// the avr package's cycle-driven emulator core.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user-none/go-avr-core"
	"github.com/user-none/go-avr-core/internal/firmware"
	"github.com/user-none/go-avr-core/internal/loglevel"
)

const defaultMemorySize = 1500

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int
	var frequency float64

	cmd := &cobra.Command{
		Use:   "avrsim FILE",
		Short: "Run an AVR ATmega8 Intel HEX firmware image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], verbosity, frequency)
		},
	}

	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "Verbose mode (-v, -vv, -vvv, -vvvv)")
	cmd.Flags().Float64VarP(&frequency, "frequency", "f", 1_000_000, "Clock frequency in Hz")

	return cmd
}

func run(path string, verbosity int, frequency float64) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: loglevel.FromVerbosity(verbosity),
	})))

	flash, err := firmware.Load(path)
	if err != nil {
		return err
	}

	emu, err := avr.New(flash, defaultMemorySize, frequency)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := emu.Run(ctx); err != nil {
		var unknown *avr.ErrUnknownOpcode
		if errors.As(err, &unknown) {
			fmt.Fprintln(os.Stderr, unknown)
			os.Exit(2)
		}
		return err
	}
	return nil
}
