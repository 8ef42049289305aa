package cpu

import (
	"errors"

	"github.com/ezrec/chip16/memory"
)

// Stack is a descending stack of 16-bit words kept in memory.
// Push decrements Pointer then writes; Pop reads then increments.
// The stack occupies [Limit, Top).
type Stack struct {
	Memory  *memory.Memory
	Top     uint16 // Pointer of the empty stack.
	Limit   uint16 // Lowest address the stack may occupy.
	Pointer uint16
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.Pointer = s.Top
}

// Depth returns the number of words on the stack.
func (s *Stack) Depth() int {
	return (int(s.Top) - int(s.Pointer)) / 2
}

// Room returns the number of words that can still be pushed.
func (s *Stack) Room() int {
	return (int(s.Pointer) - int(s.Limit)) / 2
}

func (s *Stack) Empty() bool {
	return s.Depth() <= 0
}

func (s *Stack) Full() bool {
	return s.Room() <= 0
}

// Push writes values in order; the last value ends on top. Nothing is
// pushed unless there is room for all of them.
func (s *Stack) Push(values ...uint16) (err error) {
	if s.Room() < len(values) {
		err = errors.Join(ErrStack, ErrStackOverflow)
		return
	}

	sp := s.Pointer
	for _, value := range values {
		sp -= 2
		err = s.Memory.WriteU16(sp, value)
		if err != nil {
			err = errors.Join(ErrMemory, err)
			return
		}
	}
	s.Pointer = sp

	return
}

// Pop removes count words, returning them top first. Nothing is popped
// unless count words are on the stack.
func (s *Stack) Pop(count int) (values []uint16, err error) {
	if s.Depth() < count {
		err = errors.Join(ErrStack, ErrStackUnderflow)
		return
	}

	sp := s.Pointer
	values = make([]uint16, count)
	for n := range count {
		values[n], err = s.Memory.ReadU16(sp)
		if err != nil {
			values = nil
			err = errors.Join(ErrMemory, err)
			return
		}
		sp += 2
	}
	s.Pointer = sp

	return
}

// Peek returns the top word without removing it.
func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	value, err := s.Memory.ReadU16(s.Pointer)
	ok = err == nil
	return
}
