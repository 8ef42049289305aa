package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandom_Repeat(t *testing.T) {
	assert := assert.New(t)

	sequence := func(seed uint64) (values []uint16) {
		rnd := &Random{Seed: seed}
		rnd.Reset()
		for range 32 {
			values = append(values, rnd.Next(0xffff))
		}
		return
	}

	assert.Equal(sequence(1), sequence(1))
	assert.NotEqual(sequence(1), sequence(2))

	rnd := &Random{Seed: 1}
	first := rnd.Next(0xffff)
	rnd.Next(0xffff)
	rnd.Reset()
	assert.Equal(first, rnd.Next(0xffff))
}

func TestRandom_Bound(t *testing.T) {
	assert := assert.New(t)

	rnd := &Random{}
	seen := map[uint16]bool{}
	for range 1000 {
		value := rnd.Next(3)
		assert.LessOrEqual(value, uint16(3))
		seen[value] = true
	}
	assert.Equal(4, len(seen))

	for range 10 {
		assert.Equal(uint16(0), rnd.Next(0))
	}
}
