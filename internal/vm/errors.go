package vm

import "errors"

var (
	// ErrOutOfBounds is returned for a memory address outside 0x000-0xFFF or
	// a register index outside V0-VF.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrImageTooLarge is returned when an image does not fit into memory at
	// the requested offset. Nothing is copied in that case.
	ErrImageTooLarge = errors.New("image too large")

	// ErrStackOverflow is returned by a call when the stack already holds
	// StackSize return addresses.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is returned by a return with no caller on the stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrUnknownInstruction is returned for opcodes the interpreter cannot
	// execute.
	ErrUnknownInstruction = errors.New("unknown instruction")
)
