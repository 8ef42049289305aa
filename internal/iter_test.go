package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := slices.All([]string{"a", "b"})
	second := slices.All([]string{"c"})

	var keys []int
	var values []string
	for key, value := range IterSeq2Concat(first, second) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]int{0, 1, 0}, keys)
	assert.Equal([]string{"a", "b", "c"}, values)

	// Later sequences win when collected into a map.
	merged := maps.Collect(IterSeq2Concat(first, second))
	assert.Equal(map[int]string{0: "c", 1: "b"}, merged)

	// Early stop.
	count := 0
	for range IterSeq2Concat(first, second) {
		count++
		break
	}
	assert.Equal(1, count)

	assert.Empty(maps.Collect(IterSeq2Concat[int, string]()))
}
