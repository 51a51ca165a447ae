package main

import (
	"os"

	"github.com/kapitanov/chip8cpu/internal/disasm"
	"github.com/kapitanov/chip8cpu/internal/vm"
	"github.com/spf13/cobra"
)

func newDisasmCommand() *cobra.Command {
	var base uint16

	cmd := &cobra.Command{
		Use:   "disasm PATH_TO_ROM_FILE",
		Short: "Print a listing of a CHIP-8 program",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			bs, err := readROM(args[0])
			if err != nil {
				return err
			}

			return disasm.Write(os.Stdout, disasm.Disassemble(bs, base))
		},
	}

	cmd.Flags().Uint16Var(&base, "base", vm.ProgramStart, "address the program is loaded at")
	return cmd
}
