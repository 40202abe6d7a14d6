package objects

import (
	"tabletop-guide/internal/alignment"
	"tabletop-guide/pkg/geometry"
)

// AnchorPoint returns the image point of box that represents the object's
// position on the table.
func AnchorPoint(box geometry.RectInt, p ColorProfile) geometry.Point2D {
	if p.Anchor == AnchorGround {
		bc := box.BottomCenter()
		return geometry.Point2D{X: bc.X, Y: bc.Y + float64(p.GroundOffset)}
	}
	return box.Center()
}

// MapToTable projects an image point into normalized table coordinates.
// It fails when the homography sends the point to infinity, or when the
// profile demands the point lie inside the table quad or the unit square
// and it does not.
func MapToTable(pt geometry.Point2D, cal *alignment.Calibration, p ColorProfile) (geometry.Point2D, bool) {
	if cal == nil {
		return geometry.Point2D{}, false
	}
	if p.RequireInBoundary && !cal.Quad.Contains(pt) {
		return geometry.Point2D{}, false
	}
	table, ok := cal.ToTable(pt)
	if !ok {
		return geometry.Point2D{}, false
	}
	if p.RequireInUnitSquare && !table.InUnitSquare() {
		return geometry.Point2D{}, false
	}
	return table, true
}
