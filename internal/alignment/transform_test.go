package alignment

import (
	"math/rand"
	"testing"

	"tabletop-guide/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perspectiveQuad is a table seen from an angle: the far edge is shorter.
var perspectiveQuad = CornerQuad{
	{X: 180, Y: 90},
	{X: 470, Y: 100},
	{X: 600, Y: 420},
	{X: 60, Y: 400},
}

func TestComputeHomography_MapsUnitSquareOntoQuad(t *testing.T) {
	quads := map[string]CornerQuad{
		"perspective": perspectiveQuad,
		"axis aligned": {{X: 0, Y: 0}, {X: 640, Y: 0}, {X: 640, Y: 480}, {X: 0, Y: 480}},
		"rotated":      {{X: 320, Y: 40}, {X: 600, Y: 240}, {X: 320, Y: 440}, {X: 40, Y: 240}},
	}

	for name, quad := range quads {
		t.Run(name, func(t *testing.T) {
			h, err := ComputeHomography(UnitSquare.Polygon(), quad.Polygon())
			require.NoError(t, err)

			for i, corner := range UnitSquare {
				got, ok := h.Apply(corner)
				require.True(t, ok)
				assert.InDelta(t, quad[i].X, got.X, 1e-6, "corner %d x", i)
				assert.InDelta(t, quad[i].Y, got.Y, 1e-6, "corner %d y", i)
			}
		})
	}
}

func TestComputeHomography_InverseRoundTrip(t *testing.T) {
	cal, err := NewCalibration(perspectiveQuad)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		p := geometry.Point2D{X: rng.Float64(), Y: rng.Float64()}
		img, ok := cal.ToImage(p)
		require.True(t, ok)
		back, ok := cal.ToTable(img)
		require.True(t, ok)
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestComputeHomography_Errors(t *testing.T) {
	_, err := ComputeHomography(UnitSquare.Polygon(), UnitSquare.Polygon()[:3])
	assert.Error(t, err)

	_, err = ComputeHomography(UnitSquare.Polygon()[:3], UnitSquare.Polygon()[:3])
	assert.Error(t, err)

	collinear := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}}
	_, err = ComputeHomography(UnitSquare.Polygon(), collinear)
	assert.ErrorIs(t, err, ErrDegenerate)

	same := []geometry.Point2D{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}
	_, err = ComputeHomography(UnitSquare.Polygon(), same)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestNewCalibration_Degenerate(t *testing.T) {
	tests := map[string]CornerQuad{
		"bow tie":   {{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}},
		"collinear": {{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}},
		"tiny":      {{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 0.5}, {X: 0, Y: 0.5}},
		"collapsed": {},
	}
	for name, quad := range tests {
		t.Run(name, func(t *testing.T) {
			cal, err := NewCalibration(quad)
			assert.Nil(t, cal)
			assert.ErrorIs(t, err, ErrDegenerate)
		})
	}
}

func TestCalibration_QuadContains(t *testing.T) {
	cal, err := NewCalibration(perspectiveQuad)
	require.NoError(t, err)

	center, ok := cal.ToImage(geometry.Point2D{X: 0.5, Y: 0.5})
	require.True(t, ok)
	assert.True(t, cal.Quad.Contains(center))
	assert.False(t, cal.Quad.Contains(geometry.Point2D{X: 5, Y: 5}))
}
