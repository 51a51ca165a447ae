package vm

import "fmt"

// Stack is the bounded return address stack used by call and return.
type Stack struct {
	frames [StackSize]uint16
	sp     int
}

// Push appends a return address. A full stack is left untouched.
func (s *Stack) Push(addr uint16) error {
	if s.sp >= StackSize {
		return fmt.Errorf("push 0x%04x at depth %d: %w", addr, s.sp, ErrStackOverflow)
	}

	s.frames[s.sp] = addr
	s.sp++
	return nil
}

// Pop removes the most recent return address. ok is false when the stack is
// empty.
func (s *Stack) Pop() (addr uint16, ok bool) {
	if s.sp == 0 {
		return 0, false
	}

	s.sp--
	addr = s.frames[s.sp]
	s.frames[s.sp] = 0
	return addr, true
}

func (s *Stack) Depth() int {
	return s.sp
}

// Frames returns a copy of the stack contents, oldest first.
func (s *Stack) Frames() []uint16 {
	frames := make([]uint16, s.sp)
	copy(frames, s.frames[:s.sp])
	return frames
}

func (s *Stack) clear() {
	s.frames = [StackSize]uint16{}
	s.sp = 0
}
