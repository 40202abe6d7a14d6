package objects

import (
	"testing"

	"tabletop-guide/internal/alignment"
	"tabletop-guide/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameQuad makes the table fill a 640x480 frame, so table coordinates are
// pixel coordinates divided by the frame size.
var frameQuad = alignment.CornerQuad{{X: 0, Y: 0}, {X: 640, Y: 0}, {X: 640, Y: 480}, {X: 0, Y: 480}}

func frameCalibration(t *testing.T) *alignment.Calibration {
	t.Helper()
	cal, err := alignment.NewCalibration(frameQuad)
	require.NoError(t, err)
	return cal
}

func TestAnchorPoint(t *testing.T) {
	box := geometry.RectInt{X: 100, Y: 50, Width: 40, Height: 80}

	center := AnchorPoint(box, ColorProfile{Anchor: AnchorCenter, GroundOffset: 9})
	assert.Equal(t, geometry.Point2D{X: 120, Y: 90}, center)

	ground := AnchorPoint(box, ColorProfile{Anchor: AnchorGround, GroundOffset: 5})
	assert.Equal(t, geometry.Point2D{X: 120, Y: 135}, ground)
}

func TestMapToTable(t *testing.T) {
	cal := frameCalibration(t)
	strict := ColorProfile{RequireInBoundary: true, RequireInUnitSquare: true}
	relaxed := ColorProfile{}

	tests := []struct {
		name   string
		pt     geometry.Point2D
		prof   ColorProfile
		want   geometry.Point2D
		wantOK bool
	}{
		{"center", geometry.Point2D{X: 320, Y: 240}, strict, geometry.Point2D{X: 0.5, Y: 0.5}, true},
		{"near corner", geometry.Point2D{X: 633.6, Y: 475.2}, strict, geometry.Point2D{X: 0.99, Y: 0.99}, true},
		{"below table strict", geometry.Point2D{X: 320, Y: 490}, strict, geometry.Point2D{}, false},
		{"below table relaxed", geometry.Point2D{X: 320, Y: 492}, relaxed, geometry.Point2D{X: 0.5, Y: 1.025}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapToTable(tt.pt, cal, tt.prof)
			require.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}

	_, ok := MapToTable(geometry.Point2D{X: 1, Y: 1}, nil, relaxed)
	assert.False(t, ok)
}
