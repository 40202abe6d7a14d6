package objects

import (
	"testing"

	"tabletop-guide/pkg/geometry"

	"github.com/stretchr/testify/assert"
)

func TestSelectBest_AreaFloor(t *testing.T) {
	p := ColorProfile{MinArea: 800}

	_, ok := SelectBest([]Candidate{{Area: 799, Box: geometry.RectInt{Width: 40, Height: 20}}}, p)
	assert.False(t, ok, "area below floor")

	got, ok := SelectBest([]Candidate{{Area: 800, Box: geometry.RectInt{X: 3, Width: 40, Height: 20}}}, p)
	assert.True(t, ok, "area at floor")
	assert.Equal(t, 3, got.Box.X)

	_, ok = SelectBest(nil, p)
	assert.False(t, ok)
}

func TestSelectBest_Aspect(t *testing.T) {
	p := DefaultProfiles().For(ClassPencil)

	tests := []struct {
		name string
		box  geometry.RectInt
		want bool
	}{
		{"long horizontal", geometry.RectInt{Width: 40, Height: 10}, true},
		{"long vertical", geometry.RectInt{Width: 10, Height: 40}, true},
		{"stubby", geometry.RectInt{Width: 40, Height: 30}, false},
		{"square", geometry.RectInt{Width: 20, Height: 20}, false},
		{"just under 2.5", geometry.RectInt{Width: 24, Height: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SelectBest([]Candidate{{Area: 400, Box: tt.box}}, p)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestSelectBest_PicksLargestSurvivor(t *testing.T) {
	p := DefaultProfiles().For(ClassPencil)

	cands := []Candidate{
		{Area: 5000, Box: geometry.RectInt{X: 0, Width: 80, Height: 70}}, // big but round
		{Area: 300, Box: geometry.RectInt{X: 10, Width: 60, Height: 8}},
		{Area: 100, Box: geometry.RectInt{X: 20, Width: 60, Height: 4}}, // too small
		{Area: 600, Box: geometry.RectInt{X: 30, Width: 90, Height: 9}},
	}
	got, ok := SelectBest(cands, p)
	assert.True(t, ok)
	assert.Equal(t, 30, got.Box.X)
}

func TestSelectBest_TieBreak(t *testing.T) {
	p := ColorProfile{MinArea: 10}
	box := func(x, y int) geometry.RectInt { return geometry.RectInt{X: x, Y: y, Width: 20, Height: 20} }

	orders := [][]Candidate{
		{{Area: 400, Box: box(90, 5)}, {Area: 400, Box: box(10, 50)}, {Area: 400, Box: box(10, 20)}},
		{{Area: 400, Box: box(10, 20)}, {Area: 400, Box: box(10, 50)}, {Area: 400, Box: box(90, 5)}},
		{{Area: 400, Box: box(10, 50)}, {Area: 400, Box: box(90, 5)}, {Area: 400, Box: box(10, 20)}},
	}
	for _, cands := range orders {
		got, ok := SelectBest(cands, p)
		assert.True(t, ok)
		assert.Equal(t, box(10, 20), got.Box)
	}
}
