package cpu

import (
	"strings"
)

// Flags is the condition flag byte. The bit positions are those stored
// by PUSHF; all other bits always read as zero.
type Flags uint8

const (
	FLAG_CARRY    = Flags(1 << 1) // c
	FLAG_ZERO     = Flags(1 << 2) // z
	FLAG_OVERFLOW = Flags(1 << 6) // o
	FLAG_NEGATIVE = Flags(1 << 7) // n

	FLAG_MASK = FLAG_CARRY | FLAG_ZERO | FLAG_OVERFLOW | FLAG_NEGATIVE
)

func (flags Flags) Carry() bool    { return flags&FLAG_CARRY != 0 }
func (flags Flags) Zero() bool     { return flags&FLAG_ZERO != 0 }
func (flags Flags) Overflow() bool { return flags&FLAG_OVERFLOW != 0 }
func (flags Flags) Negative() bool { return flags&FLAG_NEGATIVE != 0 }

// With returns the flags with flag set or cleared.
func (flags Flags) With(flag Flags, set bool) Flags {
	if set {
		return flags | flag
	}
	return flags &^ flag
}

// withResult sets Zero and Negative from a 16-bit result.
func (flags Flags) withResult(result uint16) Flags {
	return flags.With(FLAG_ZERO, result == 0).With(FLAG_NEGATIVE, result&0x8000 != 0)
}

// String returns the flags as "cznv" style letters, '-' for clear bits.
func (flags Flags) String() string {
	var sb strings.Builder
	for _, bit := range []struct {
		flag Flags
		name byte
	}{
		{FLAG_CARRY, 'c'},
		{FLAG_ZERO, 'z'},
		{FLAG_OVERFLOW, 'o'},
		{FLAG_NEGATIVE, 'n'},
	} {
		if flags&bit.flag != 0 {
			sb.WriteByte(bit.name)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
