package stream

import (
	"testing"

	"gostreams/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShape(t *testing.T) {
	shape, err := ParseShape("2x3")
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, shape)

	shape, err = ParseShape("4,1")
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 1}, shape)

	for _, bad := range []string{"", "0", "2xa", "3x-1"} {
		_, err := ParseShape(bad)
		assert.ErrorIs(t, err, core.ErrInvalidShape, bad)
	}
}

func TestParseDrawSpec(t *testing.T) {
	tests := []struct {
		in   string
		want DrawSpec
	}{
		{"uniform:2x2", DrawSpec{Dist: DistUniform, Shape: Shape{2, 2}, Low: 0, High: 1}},
		{"uniform:3:-1:1", DrawSpec{Dist: DistUniform, Shape: Shape{3}, Low: -1, High: 1}},
		{"normal:5", DrawSpec{Dist: DistNormal, Shape: Shape{5}, Low: 0, High: 1}},
		{"normal:5:10:2.5", DrawSpec{Dist: DistNormal, Shape: Shape{5}, Low: 10, High: 2.5}},
		{"random_integers:2x3:0:9", DrawSpec{Dist: DistRandomIntegers, Shape: Shape{2, 3}, IntLow: 0, IntHigh: 9}},
		{"permutation:2:5", DrawSpec{Dist: DistPermutation, Shape: Shape{2}, N: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDrawSpec(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDrawSpecErrors(t *testing.T) {
	for _, bad := range []string{"uniform", "gamma:2", "uniform:2:1", "random_integers:2", "permutation:2:x", "normal:2:a:b"} {
		_, err := ParseDrawSpec(bad)
		assert.ErrorIs(t, err, core.ErrInvalidBounds, bad)
	}
	_, err := ParseDrawSpec("uniform:0")
	assert.ErrorIs(t, err, core.ErrInvalidShape)
}
