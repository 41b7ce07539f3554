package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocate(t *testing.T) {
	offsets := []int{3, 10, 42}

	t.Run("Should return the greatest offset at or before the position", func(t *testing.T) {
		cases := []struct {
			position int
			want     int
		}{
			{3, 3},
			{4, 3},
			{9, 3},
			{10, 10},
			{41, 10},
			{42, 42},
			{1000, 42},
		}
		for _, tc := range cases {
			got, ok := Locate(offsets, tc.position)
			assert.True(t, ok, "position %d", tc.position)
			assert.Equal(t, tc.want, got, "position %d", tc.position)
		}
	})

	t.Run("Should report not found before the first offset", func(t *testing.T) {
		_, ok := Locate(offsets, 2)
		assert.False(t, ok)
		_, ok = Locate(offsets, 0)
		assert.False(t, ok)
	})

	t.Run("Should report not found for an empty offset list", func(t *testing.T) {
		_, ok := Locate(nil, 7)
		assert.False(t, ok)
	})

	t.Run("Should be deterministic for identical inputs", func(t *testing.T) {
		a, okA := Locate(offsets, 17)
		b, okB := Locate(offsets, 17)
		assert.Equal(t, a, b)
		assert.Equal(t, okA, okB)
	})
}
