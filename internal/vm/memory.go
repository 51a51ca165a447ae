package vm

import "fmt"

// Memory is the flat 4K address space of the interpreter.
type Memory struct {
	cells [MemorySize]uint8
}

// Size returns the number of addressable cells.
func (m *Memory) Size() int {
	return MemorySize
}

func (m *Memory) Read(addr uint16) (uint8, error) {
	if int(addr) >= MemorySize {
		return 0, fmt.Errorf("read 0x%04x: %w", addr, ErrOutOfBounds)
	}

	return m.cells[addr], nil
}

func (m *Memory) Write(addr uint16, value uint8) error {
	if int(addr) >= MemorySize {
		return fmt.Errorf("write 0x%04x: %w", addr, ErrOutOfBounds)
	}

	m.cells[addr] = value
	return nil
}

// ReadRange returns a copy of n bytes starting at addr. Either the whole
// range is readable or nothing is returned.
func (m *Memory) ReadRange(addr uint16, n int) ([]uint8, error) {
	if n < 0 || int(addr)+n > MemorySize {
		return nil, fmt.Errorf("read 0x%04x+%d: %w", addr, n, ErrOutOfBounds)
	}

	bs := make([]uint8, n)
	copy(bs, m.cells[addr:])
	return bs, nil
}

// Load copies image into memory starting at offset. The image is rejected
// before anything is copied if it does not fit.
func (m *Memory) Load(image []byte, offset uint16) error {
	if int(offset)+len(image) > MemorySize {
		return fmt.Errorf("load %d bytes at 0x%04x: %w", len(image), offset, ErrImageTooLarge)
	}

	copy(m.cells[offset:], image)
	return nil
}

func (m *Memory) clear() {
	m.cells = [MemorySize]uint8{}
}
