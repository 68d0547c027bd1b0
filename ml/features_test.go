package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeState(t *testing.T) {
	tests := []struct {
		state State
		code  int
	}{
		{California, 0},
		{Florida, 1},
		{NewYork, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			code, ok := EncodeState(tt.state)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
		})
	}

	for _, s := range []State{"Texas", "california", ""} {
		_, ok := EncodeState(s)
		assert.False(t, ok, "unexpected mapping for %q", s)
	}
	assert.Len(t, States(), 3)
}

func TestFeaturesVector(t *testing.T) {
	f := Features{
		RDSpend:        73721.62,
		Administration: 121344.64,
		MarketingSpend: 211025.10,
		State:          NewYork,
	}

	v, err := f.Vector()
	require.NoError(t, err)
	assert.Equal(t, Vector{73721.62, 121344.64, 211025.10, 2}, v)

	_, err = Features{State: "Ohio"}.Vector()
	assert.Error(t, err)
}

func TestNewFrame(t *testing.T) {
	frame := NewFrame(Vector{0, 0, 0, 1})

	assert.Equal(t, []string{"R&D Spend", "Administration", "Marketing Spend", "State_encoded"}, frame.Columns)
	rows, cols := frame.Data.Dims()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, []float64{0, 0, 0, 1}, frame.Row())
}
