package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorToHSV(t *testing.T) {
	tests := []struct {
		name    string
		c       color.RGBA
		h, s, v float64
	}{
		{"red", color.RGBA{R: 255, A: 255}, 0, 255, 255},
		{"green", color.RGBA{G: 255, A: 255}, 60, 255, 255},
		{"blue", color.RGBA{B: 255, A: 255}, 120, 255, 255},
		{"gray", color.RGBA{R: 128, G: 128, B: 128, A: 255}, 0, 0, 128},
		{"black", color.RGBA{A: 255}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := ColorToHSV(tt.c)
			assert.InDelta(t, tt.h, h, 0.5)
			assert.InDelta(t, tt.s, s, 0.5)
			assert.InDelta(t, tt.v, v, 0.5)
		})
	}
}

func TestColorToHSV_Orange(t *testing.T) {
	h, s, v := ColorToHSV(color.RGBA{R: 255, G: 128, B: 0, A: 255})
	assert.InDelta(t, 15, h, 0.5)
	assert.InDelta(t, 255, s, 0.5)
	assert.InDelta(t, 255, v, 0.5)
}

func TestAverageHSV(t *testing.T) {
	_, _, _, ok := AverageHSV(nil)
	assert.False(t, ok)

	h, s, v, ok := AverageHSV([]color.Color{
		color.RGBA{R: 0, G: 0, B: 200, A: 255},
		color.RGBA{R: 0, G: 0, B: 100, A: 255},
	})
	require.True(t, ok)
	assert.InDelta(t, 120, h, 0.5)
	assert.InDelta(t, 255, s, 0.5)
	assert.InDelta(t, 150, v, 0.5)
}
