package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip16/memory"
)

func newStack(size uint) (s *Stack) {
	mem := memory.New(size)
	top, limit := stackBounds(mem.Size())
	s = &Stack{Memory: mem, Top: top, Limit: limit}
	s.Reset()
	return
}

func TestStack_Bounds(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		size  uint
		top   uint16
		limit uint16
	}{
		{0x10000, ARENA_STACK_TOP, ARENA_STACK_TOP - ARENA_STACK_SIZE},
		{0x1000, 0x1000, 0x1000 - ARENA_STACK_SIZE},
		{0x101, 0x100, 0},
		{1, 0, 0},
	}

	for _, entry := range table {
		top, limit := stackBounds(int(entry.size))
		assert.Equal(entry.top, top, entry.size)
		assert.Equal(entry.limit, limit, entry.size)
	}
}

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	assert.True(s.Empty())
	assert.False(s.Full())

	assert.NoError(s.Push(0x1234))
	assert.False(s.Empty())
	assert.Equal(1, s.Depth())
	assert.Equal(uint16(ARENA_STACK_TOP-2), s.Pointer)

	value, err := s.Memory.ReadU16(s.Pointer)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), value)
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	assert.NoError(s.Push(0x1234, 0xABCD))

	values, err := s.Pop(1)
	assert.NoError(err)
	assert.Equal([]uint16{0xABCD}, values)
	assert.Equal(1, s.Depth())

	values, err = s.Pop(1)
	assert.NoError(err)
	assert.Equal([]uint16{0x1234}, values)
	assert.True(s.Empty())
}

func TestStack_Pop_Many(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	assert.NoError(s.Push(1, 2, 3))

	values, err := s.Pop(3)
	assert.NoError(err)
	assert.Equal([]uint16{3, 2, 1}, values)
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	values, err := s.Pop(1)
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.ErrorIs(err, ErrStack)
	assert.Nil(values)
}

func TestStack_Pop_Short(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	assert.NoError(s.Push(1, 2))

	_, err := s.Pop(3)
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(2, s.Depth())
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	assert.NoError(s.Push(0x1234, 0xABCD))

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0xABCD), val)
	assert.Equal(2, s.Depth())
}

func TestStack_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	val, ok := s.Peek()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	assert.False(s.Full())

	for i := range ARENA_STACK_SIZE / 2 {
		assert.False(s.Full())
		assert.NoError(s.Push(uint16(i)))
	}

	assert.True(s.Full())
	assert.False(s.Empty())
	assert.Equal(ARENA_STACK_SIZE/2, s.Depth())

	err := s.Push(0xffff)
	assert.ErrorIs(err, ErrStackOverflow)
	assert.ErrorIs(err, ErrStack)
	assert.Equal(ARENA_STACK_SIZE/2, s.Depth())
}

func TestStack_Push_AllOrNothing(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	for i := range ARENA_STACK_SIZE/2 - 3 {
		assert.NoError(s.Push(uint16(i)))
	}
	pointer := s.Pointer

	err := s.Push(make([]uint16, REGISTER_COUNT)...)
	assert.ErrorIs(err, ErrStackOverflow)
	assert.Equal(pointer, s.Pointer)
	assert.Equal(3, s.Room())
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := newStack(0x10000)
	assert.NoError(s.Push(0x1234, 0xABCD))
	assert.Equal(2, s.Depth())

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(s.Top, s.Pointer)
}

func TestStack_SmallMemory(t *testing.T) {
	assert := assert.New(t)

	s := newStack(8)
	assert.Equal(4, s.Room())
	assert.NoError(s.Push(1, 2, 3, 4))
	assert.True(s.Full())

	mem, err := s.Memory.Slice(0, 8)
	assert.NoError(err)
	assert.Equal([]byte{0, 4, 0, 3, 0, 2, 0, 1}, mem)
}
