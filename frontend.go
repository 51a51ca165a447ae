package main

import (
	"fmt"
	"os"

	"github.com/kapitanov/chip8cpu/internal/hal"
	"github.com/kapitanov/chip8cpu/internal/machine"
	"github.com/kapitanov/chip8cpu/internal/termhal"
)

const (
	frontendSDL      = "sdl"
	frontendTerminal = "terminal"
	frontendHeadless = "headless"
)

type frontend struct {
	hal      machine.HAL
	shutdown func()
}

func openFrontend(name, title string) (*frontend, error) {
	switch name {
	case frontendSDL:
		h, err := hal.New("CHIP-8 - " + title)
		if err != nil {
			return nil, fmt.Errorf("unable to initialize hal: %w", err)
		}
		return &frontend{hal: h, shutdown: h.Shutdown}, nil

	case frontendTerminal:
		h := termhal.New(os.Stdin, os.Stdout)
		if err := h.EnterRaw(int(os.Stdin.Fd())); err != nil {
			return nil, fmt.Errorf("unable to initialize terminal: %w", err)
		}
		return &frontend{hal: h, shutdown: h.Shutdown}, nil

	case frontendHeadless:
		return &frontend{hal: &machine.Headless{}, shutdown: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown frontend %q", name)
	}
}
