package vm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStackDepth(t *testing.T) {
	var s Stack

	for i := range StackSize {
		assert.NoError(t, s.Push(uint16(0x200+2*i)))
	}
	assert.Equal(t, 12, s.Depth())

	err := s.Push(0x0ABC)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, 12, s.Depth())

	for i := StackSize - 1; i >= 0; i-- {
		addr, ok := s.Pop()
		assert.True(t, ok)
		assert.Equal(t, uint16(0x200+2*i), addr)
	}
}

func TestStackPopEmpty(t *testing.T) {
	var s Stack

	addr, ok := s.Pop()
	assert.False(t, ok)
	assert.Equal(t, uint16(0), addr)
	assert.Equal(t, 0, s.Depth())
}

func TestStackFrames(t *testing.T) {
	var s Stack
	assert.NoError(t, s.Push(0x202))
	assert.NoError(t, s.Push(0x34E))

	frames := s.Frames()
	assert.Len(t, frames, 2)
	assert.Equal(t, uint16(0x202), frames[0])
	assert.Equal(t, uint16(0x34E), frames[1])

	frames[0] = 0
	addr, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x34E), addr)
	addr, ok = s.Pop()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x202), addr)
}
