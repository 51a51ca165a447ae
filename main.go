package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/kapitanov/chip8cpu/internal/audio"
	"github.com/kapitanov/chip8cpu/internal/machine"
	"github.com/kapitanov/chip8cpu/internal/statsview"
	"github.com/kapitanov/chip8cpu/internal/vm"
	"github.com/spf13/cobra"
)

const screenshotScale = 8

var errEmptyROM = errors.New("rom file is empty")

type runFlags struct {
	verbose bool

	entry    uint16
	fontAddr uint16
	quirks   vm.Quirks

	speed      int
	frontend   string
	frames     int
	mute       bool
	recordWav  string
	screenshot string
	statsview  bool
}

func main() {
	var flags runFlags

	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s PATH_TO_ROM_FILE", filepath.Base(os.Args[0])),
		Short:         "Run a CHIP-8 program",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(flags.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], flags)
		},
	}

	defaults := vm.DefaultConfig()

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")

	f := cmd.Flags()
	f.Uint16Var(&flags.entry, "entry", defaults.EntryAddress, "address the program is loaded at and started from")
	f.Uint16Var(&flags.fontAddr, "font-addr", defaults.SpriteTableAddress, "address of the built-in hex font")
	f.BoolVar(&flags.quirks.ShiftUsesVY, "quirk-shift-vy", defaults.Quirks.ShiftUsesVY, "8XY6/8XYE shift VY into VX")
	f.BoolVar(&flags.quirks.JumpOffsetUsesVX, "quirk-jump-vx", defaults.Quirks.JumpOffsetUsesVX, "BNNN jumps to XNN+VX")
	f.BoolVar(&flags.quirks.IOverflowSetsVF, "quirk-i-overflow", defaults.Quirks.IOverflowSetsVF, "FX1E sets VF when I overflows")
	f.BoolVar(&flags.quirks.LoadStoreIncrementsI, "quirk-load-store-i", defaults.Quirks.LoadStoreIncrementsI, "FX55/FX65 advance I")
	f.BoolVar(&flags.quirks.LogicResetsVF, "quirk-logic-vf", defaults.Quirks.LogicResetsVF, "8XY1/8XY2/8XY3 reset VF")
	f.IntVar(&flags.speed, "speed", machine.DefaultInstructionsPerSecond, "instructions per second")
	f.StringVar(&flags.frontend, "frontend", frontendSDL, "frontend to use: sdl, terminal or headless")
	f.IntVar(&flags.frames, "frames", 0, "stop after this many frames (0 runs until quit)")
	f.BoolVar(&flags.mute, "mute", false, "disable sound output")
	f.StringVar(&flags.recordWav, "record-wav", "", "record the sound output to a WAV file")
	f.StringVar(&flags.screenshot, "screenshot", "", "save the final screen to a PNG file")
	f.BoolVar(&flags.statsview, "statsview", false, "serve runtime charts at "+statsview.DefaultAddress)

	cmd.AddCommand(newDisasmCommand())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Error("fatal error", "err", err)
		cancel()
		os.Exit(1)
	}
}

func setupLogger(verbose bool) {
	loggerOpts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if verbose {
		loggerOpts.Level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, loggerOpts)))
}

func readROM(path string) ([]byte, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load file %q: %w", path, err)
	}
	if len(bs) == 0 {
		return nil, fmt.Errorf("unable to load file %q: %w", path, errEmptyROM)
	}
	return bs, nil
}

func run(ctx context.Context, path string, flags runFlags) error {
	bs, err := readROM(path)
	if err != nil {
		return err
	}

	if flags.statsview {
		stop := statsview.Launch(statsview.DefaultAddress)
		defer stop()
	}

	fe, err := openFrontend(flags.frontend, filepath.Base(path))
	if err != nil {
		return err
	}
	defer fe.shutdown()

	var buzzers []machine.Buzzer
	if !flags.mute && flags.frontend != frontendHeadless {
		buzzer, err := audio.NewBuzzer()
		if err != nil {
			slog.Warn("sound disabled", "err", err)
		} else {
			defer closeLogged("buzzer", buzzer.Close)
			buzzers = append(buzzers, buzzer)
		}
	}

	if flags.recordWav != "" {
		rec := audio.NewRecorder(flags.recordWav, machine.FrameRate)
		defer closeLogged("wav recorder", rec.Close)
		buzzers = append(buzzers, rec)
	}

	config := vm.Config{
		EntryAddress:       flags.entry,
		SpriteTableAddress: flags.fontAddr,
		Quirks:             flags.quirks,
	}

	m, err := machine.New(bs, config, fe.hal, machine.Options{
		InstructionsPerSecond: flags.speed,
		MaxFrames:             flags.frames,
	}, buzzers...)
	if err != nil {
		return fmt.Errorf("unable to start machine: %w", err)
	}

	for {
		err = m.Run(ctx)
		if !errors.Is(err, machine.ErrReboot) {
			break
		}

		slog.Info("rebooting")
		if err = m.Reset(); err != nil {
			break
		}
	}

	slog.Info("machine stopped", "state", m.VM().State(), "frames", m.Frames())

	if flags.screenshot != "" {
		if err := m.Screen().SavePNG(flags.screenshot, screenshotScale); err != nil {
			slog.Error("failed to save screenshot", "err", err)
		}
	}

	if errors.Is(err, machine.ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func closeLogged(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		slog.Error("failed to close "+name, "err", err)
	}
}
