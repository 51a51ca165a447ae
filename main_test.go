package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kapitanov/chip8cpu/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func writeROM(t *testing.T, bs []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, bs, 0o644))
	return path
}

func TestReadROMRejectsEmptyFile(t *testing.T) {
	_, err := readROM(writeROM(t, nil))
	assert.True(t, errors.Is(err, errEmptyROM))

	_, err = readROM(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
}

func TestRunHeadless(t *testing.T) {
	// LD V0, 0x0A; LD F, V0; DRW V1, V1, 5; LD ST, V0; JP 0x208
	path := writeROM(t, []byte{0x60, 0x0A, 0xF0, 0x29, 0xD1, 0x15, 0xF0, 0x18, 0x12, 0x08})
	dir := t.TempDir()

	defaults := vm.DefaultConfig()
	flags := runFlags{
		entry:      defaults.EntryAddress,
		fontAddr:   defaults.SpriteTableAddress,
		quirks:     defaults.Quirks,
		speed:      600,
		frontend:   frontendHeadless,
		frames:     5,
		recordWav:  filepath.Join(dir, "out.wav"),
		screenshot: filepath.Join(dir, "out.png"),
	}

	assert.NoError(t, run(context.Background(), path, flags))

	for _, name := range []string{"out.wav", "out.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
		assert.True(t, info.Size() > 0)
	}
}

func TestRunReportsCoreError(t *testing.T) {
	path := writeROM(t, []byte{0x00, 0x00})

	err := run(context.Background(), path, runFlags{
		entry:    vm.ProgramStart,
		speed:    600,
		frontend: frontendHeadless,
		frames:   1,
	})
	assert.True(t, errors.Is(err, vm.ErrUnknownInstruction))
}

func TestRunUnknownFrontend(t *testing.T) {
	path := writeROM(t, []byte{0x12, 0x00})

	err := run(context.Background(), path, runFlags{entry: vm.ProgramStart, frontend: "vga"})
	assert.Error(t, err)
}
