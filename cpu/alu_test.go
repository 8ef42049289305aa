package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAluAdd(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		a, b   uint16
		result uint16
		flags  Flags
	}{
		{0xFFFF, 0x0001, 0x0000, FLAG_CARRY | FLAG_ZERO},
		{0x0003, 0x0005, 0x0008, 0},
		{0x7FFF, 0x0001, 0x8000, FLAG_OVERFLOW | FLAG_NEGATIVE},
		{0x8000, 0x8000, 0x0000, FLAG_CARRY | FLAG_ZERO | FLAG_OVERFLOW},
		{0xFFFE, 0x0001, 0xFFFF, FLAG_NEGATIVE},
	}

	for _, entry := range table {
		name := fmt.Sprintf("0x%04x + 0x%04x", entry.a, entry.b)
		result, flags := Flags(0).Add(entry.a, entry.b)
		assert.Equal(entry.result, result, name)
		assert.Equal(entry.flags, flags, name)

		// Prior flags do not leak into the result.
		_, flags = FLAG_MASK.Add(entry.a, entry.b)
		assert.Equal(entry.flags, flags, name)
	}
}

func TestAluSub(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		a, b   uint16
		result uint16
		flags  Flags
	}{
		{0x0000, 0x0001, 0xFFFF, FLAG_CARRY | FLAG_NEGATIVE},
		{0x0005, 0x0005, 0x0000, FLAG_ZERO},
		{0x8000, 0x0001, 0x7FFF, FLAG_OVERFLOW},
		{0x7FFF, 0xFFFF, 0x8000, FLAG_CARRY | FLAG_OVERFLOW | FLAG_NEGATIVE},
		{0x0010, 0x0001, 0x000F, 0},
	}

	for _, entry := range table {
		name := fmt.Sprintf("0x%04x - 0x%04x", entry.a, entry.b)
		result, flags := Flags(0).Sub(entry.a, entry.b)
		assert.Equal(entry.result, result, name)
		assert.Equal(entry.flags, flags, name)
		assert.Equal(flags, Flags(0).Cmp(entry.a, entry.b), name)
	}
}

func TestAluLogic(t *testing.T) {
	assert := assert.New(t)

	// Carry is kept, overflow cleared.
	prior := FLAG_CARRY | FLAG_OVERFLOW

	result, flags := prior.And(0xF0F0, 0x0FF0)
	assert.Equal(uint16(0x00F0), result)
	assert.Equal(FLAG_CARRY, flags)

	result, flags = prior.And(0xF000, 0x0F00)
	assert.Equal(uint16(0), result)
	assert.Equal(FLAG_CARRY|FLAG_ZERO, flags)
	assert.Equal(flags, prior.Tst(0xF000, 0x0F00))

	result, flags = Flags(0).Or(0x8000, 0x0001)
	assert.Equal(uint16(0x8001), result)
	assert.Equal(FLAG_NEGATIVE, flags)

	result, flags = Flags(0).Xor(0x1234, 0x1234)
	assert.Equal(uint16(0), result)
	assert.Equal(FLAG_ZERO, flags)

	result, flags = prior.Not(0x0000)
	assert.Equal(uint16(0xFFFF), result)
	assert.Equal(FLAG_CARRY|FLAG_NEGATIVE, flags)

	result, flags = Flags(0).Neg(0x0001)
	assert.Equal(uint16(0xFFFF), result)
	assert.Equal(FLAG_NEGATIVE, flags)

	result, flags = Flags(0).Neg(0x0000)
	assert.Equal(uint16(0), result)
	assert.Equal(FLAG_ZERO, flags)

	result, flags = prior.Load(0x0000)
	assert.Equal(uint16(0), result)
	assert.Equal(FLAG_CARRY|FLAG_ZERO, flags)
}

func TestAluMul(t *testing.T) {
	assert := assert.New(t)

	result, flags := Flags(0).Mul(0x0100, 0x0100)
	assert.Equal(uint16(0), result)
	assert.Equal(FLAG_CARRY|FLAG_ZERO, flags)

	result, flags = Flags(0).Mul(7, 6)
	assert.Equal(uint16(42), result)
	assert.Equal(Flags(0), flags)

	result, flags = FLAG_CARRY.Mul(0xFFFF, 1)
	assert.Equal(uint16(0xFFFF), result)
	assert.Equal(FLAG_NEGATIVE, flags)
}

func TestAluDivide(t *testing.T) {
	assert := assert.New(t)

	neg := func(v int16) uint16 { return uint16(v) }

	table := []struct {
		a, b          uint16
		div, mod, rem uint16
	}{
		{7, 2, 3, 1, 1},
		{neg(-7), 2, neg(-3), 1, neg(-1)},
		{7, neg(-2), neg(-3), neg(-1), 1},
		{neg(-7), neg(-2), 3, neg(-1), neg(-1)},
		{6, 3, 2, 0, 0},
		{0x8000, neg(-1), 0x8000, 0, 0},
	}

	for _, entry := range table {
		name := fmt.Sprintf("%d / %d", int16(entry.a), int16(entry.b))

		div, _, err := Flags(0).Div(entry.a, entry.b)
		assert.NoError(err, name)
		assert.Equal(entry.div, div, name)

		mod, _, err := Flags(0).Mod(entry.a, entry.b)
		assert.NoError(err, name)
		assert.Equal(entry.mod, mod, name)

		rem, _, err := Flags(0).Rem(entry.a, entry.b)
		assert.NoError(err, name)
		assert.Equal(entry.rem, rem, name)
	}

	_, flags, _ := Flags(0).Div(7, 2)
	assert.Equal(FLAG_CARRY, flags)

	_, flags, _ = Flags(0).Div(0x8000, 0xFFFF)
	assert.Equal(FLAG_OVERFLOW|FLAG_NEGATIVE, flags)
}

func TestAluDivideByZero(t *testing.T) {
	assert := assert.New(t)

	prior := FLAG_CARRY | FLAG_NEGATIVE
	for _, fn := range []aluFunc{Flags.Div, Flags.Mod, Flags.Rem} {
		result, flags, err := fn(prior, 0x1234, 0)
		assert.ErrorIs(err, ErrDivisionByZero)
		assert.Equal(uint16(0), result)
		assert.Equal(prior, flags)
	}
}

func TestAluShift(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name   string
		fn     func(Flags, uint16, uint16) (uint16, Flags)
		a, n   uint16
		result uint16
		carry  bool
	}{
		{"shl", Flags.Shl, 0x8001, 1, 0x0002, true},
		{"shl", Flags.Shl, 0x4001, 1, 0x8002, false},
		{"shl", Flags.Shl, 0x0001, 15, 0x8000, false},
		{"shl", Flags.Shl, 0x0001, 16, 0x0000, true},
		{"shl", Flags.Shl, 0xFFFF, 0, 0xFFFF, false},
		{"shl", Flags.Shl, 0xFFFF, 17, 0x0000, false},
		{"shr", Flags.Shr, 0x8001, 1, 0x4000, true},
		{"shr", Flags.Shr, 0x8000, 15, 0x0001, false},
		{"shr", Flags.Shr, 0x8000, 16, 0x0000, true},
		{"shr", Flags.Shr, 0x0003, 0, 0x0003, false},
		{"sar", Flags.Sar, 0x8001, 1, 0xC000, true},
		{"sar", Flags.Sar, 0x8000, 15, 0xFFFF, false},
		{"sar", Flags.Sar, 0x8000, 20, 0xFFFF, true},
		{"sar", Flags.Sar, 0x4000, 20, 0x0000, false},
		{"sar", Flags.Sar, 0x7FFF, 4, 0x07FF, true},
	}

	for _, entry := range table {
		name := fmt.Sprintf("%v 0x%04x %d", entry.name, entry.a, entry.n)
		result, flags := entry.fn(0, entry.a, entry.n)
		assert.Equal(entry.result, result, name)
		assert.Equal(entry.carry, flags.Carry(), name)
		assert.Equal(result == 0, flags.Zero(), name)
		assert.Equal(result&0x8000 != 0, flags.Negative(), name)
		assert.False(flags.Overflow(), name)
	}
}

func TestConditionTest(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		flags Flags
		holds []Condition
	}{
		{0, []Condition{COND_NZ, COND_NN, COND_P, COND_NO, COND_A, COND_AE, COND_G, COND_GE, COND_ALWAYS}},
		{FLAG_ZERO, []Condition{COND_Z, COND_NN, COND_NO, COND_AE, COND_BE, COND_GE, COND_LE, COND_ALWAYS}},
		{FLAG_CARRY, []Condition{COND_NZ, COND_NN, COND_P, COND_NO, COND_B, COND_BE, COND_G, COND_GE, COND_ALWAYS}},
		{FLAG_NEGATIVE, []Condition{COND_NZ, COND_N, COND_NO, COND_A, COND_AE, COND_L, COND_LE, COND_ALWAYS}},
		{FLAG_NEGATIVE | FLAG_OVERFLOW, []Condition{COND_NZ, COND_N, COND_O, COND_A, COND_AE, COND_G, COND_GE, COND_ALWAYS}},
	}

	for _, entry := range table {
		for cond := range Condition(16) {
			expected := false
			for _, c := range entry.holds {
				if c == cond {
					expected = true
				}
			}
			assert.Equal(expected, cond.Test(entry.flags), "%v %v", cond, entry.flags)
		}
	}
}

func TestConditionParse(t *testing.T) {
	assert := assert.New(t)

	for cond := range Condition(16) {
		parsed, ok := parseCondition(cond.String())
		assert.True(ok, cond.String())
		assert.Equal(cond, parsed)
	}

	cond, ok := parseCondition("c")
	assert.True(ok)
	assert.Equal(COND_B, cond)

	_, ok = parseCondition("zz")
	assert.False(ok)

	_, ok = parseCondition("Condition(16)")
	assert.False(ok)
}

func TestConditionString(t *testing.T) {
	assert := assert.New(t)

	names := []string{}
	for cond := range COND_ALWAYS + 1 {
		names = append(names, cond.String())
	}
	assert.Equal([]string{
		"z", "nz", "n", "nn", "p", "o", "no", "a",
		"ae", "b", "be", "g", "ge", "l", "le", "al",
	}, names)
	assert.Equal("Condition(16)", Condition(16).String())
}

func TestWaveformString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("triangle", WAVE_TRIANGLE.String())
	assert.Equal("sawtooth", WAVE_SAWTOOTH.String())
	assert.Equal("pulse", WAVE_PULSE.String())
	assert.Equal("noise", WAVE_NOISE.String())
	assert.Equal("Waveform(10)", Waveform(0xA).String())
}

func TestFlags(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("----", Flags(0).String())
	assert.Equal("czon", FLAG_MASK.String())
	assert.Equal("-z-n", (FLAG_ZERO | FLAG_NEGATIVE).String())

	flags := Flags(0).With(FLAG_CARRY, true)
	assert.True(flags.Carry())
	assert.False(flags.With(FLAG_CARRY, false).Carry())

	assert.Equal(Flags(0x02), FLAG_CARRY)
	assert.Equal(Flags(0x04), FLAG_ZERO)
	assert.Equal(Flags(0x40), FLAG_OVERFLOW)
	assert.Equal(Flags(0x80), FLAG_NEGATIVE)
}
