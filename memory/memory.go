// Package memory implements the flat, byte addressable store of the
// chip16 system.
//
// All multi-byte values are big-endian: the most significant byte is at
// the lowest address, the same order as the instruction word.
package memory

const (
	SIZE_MAX = 0x10000 // Largest addressable memory.
)

// Memory is a bounds checked byte array.
type Memory struct {
	data []byte
}

// New creates a zeroed memory of size bytes, clamped to SIZE_MAX.
func New(size uint) (mem *Memory) {
	if size > SIZE_MAX {
		size = SIZE_MAX
	}

	mem = &Memory{
		data: make([]byte, size),
	}

	return
}

// Size in bytes.
func (mem *Memory) Size() int {
	return len(mem.data)
}

// Reset zeros the memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// check verifies that width bytes starting at addr are inside the memory.
func (mem *Memory) check(addr uint16, width int) (err error) {
	if int(addr)+width > len(mem.data) {
		err = ErrOutOfBounds{Address: uint32(addr), Width: width, Size: len(mem.data)}
	}
	return
}

// ReadU8 reads a byte.
func (mem *Memory) ReadU8(addr uint16) (value uint8, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	value = mem.data[addr]
	return
}

// WriteU8 writes a byte.
func (mem *Memory) WriteU8(addr uint16, value uint8) (err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	mem.data[addr] = value
	return
}

// ReadU16 reads a big-endian 16-bit word.
func (mem *Memory) ReadU16(addr uint16) (value uint16, err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}

	n := int(addr)
	value = (uint16(mem.data[n]) << 8) | uint16(mem.data[n+1])
	return
}

// WriteU16 writes a big-endian 16-bit word.
// Neither byte is written if the word does not fit.
func (mem *Memory) WriteU16(addr uint16, value uint16) (err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}

	n := int(addr)
	mem.data[n] = uint8(value >> 8)
	mem.data[n+1] = uint8(value)
	return
}

// ReadU32 reads a big-endian 32-bit word, as used by instruction fetch.
func (mem *Memory) ReadU32(addr uint16) (value uint32, err error) {
	err = mem.check(addr, 4)
	if err != nil {
		return
	}

	n := int(addr)
	value = (uint32(mem.data[n]) << 24) |
		(uint32(mem.data[n+1]) << 16) |
		(uint32(mem.data[n+2]) << 8) |
		uint32(mem.data[n+3])
	return
}

// Load copies data into memory at addr. Nothing is copied unless all of
// data fits.
func (mem *Memory) Load(addr uint16, data []byte) (err error) {
	err = mem.check(addr, len(data))
	if err != nil {
		return
	}

	copy(mem.data[addr:], data)
	return
}

// Slice returns a copy of n bytes starting at addr.
func (mem *Memory) Slice(addr uint16, n int) (data []byte, err error) {
	err = mem.check(addr, n)
	if err != nil {
		return
	}

	data = make([]byte, n)
	copy(data, mem.data[addr:])
	return
}
