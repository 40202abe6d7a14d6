package alignment

import (
	"fmt"

	"tabletop-guide/pkg/geometry"
)

// MinQuadArea is the smallest image-space area (px²) a corner quad may
// enclose before it is treated as degenerate.
const MinQuadArea = 1.0

// CornerQuad holds the table corners in image space.
// Order is always TL, TR, BR, BL (clockwise from top-left on screen), the
// same order as UnitSquare.
type CornerQuad [numCorners]geometry.Point2D

// UnitSquare is the canonical table-space reference for the four corners.
var UnitSquare = CornerQuad{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}

// Polygon returns the quad as an ordered point slice.
func (q CornerQuad) Polygon() []geometry.Point2D {
	return []geometry.Point2D{q[0], q[1], q[2], q[3]}
}

// At returns the image point for a table corner.
func (q CornerQuad) At(c TableCorner) geometry.Point2D {
	return q[c]
}

// Contains reports whether an image point lies inside the quad or on its edge.
func (q CornerQuad) Contains(p geometry.Point2D) bool {
	return geometry.PointInPolygon(p, q.Polygon())
}

// Calibration is the table-plane <-> image-plane mapping derived from one
// frame's markers. It is immutable once built; a newer frame replaces it
// wholesale.
type Calibration struct {
	Quad         CornerQuad          // Image-space corners, TL,TR,BR,BL
	TableToImage geometry.Homography // Unit square -> pixels
	ImageToTable geometry.Homography // Pixels -> unit square
}

// NewCalibration solves both directions of the homography for a quad.
// Degenerate quads (non-convex, self-intersecting, near-zero area or a
// singular transform) return an error wrapping ErrDegenerate.
func NewCalibration(quad CornerQuad) (*Calibration, error) {
	poly := quad.Polygon()
	if !geometry.IsConvex(poly) {
		return nil, fmt.Errorf("%w: corner quad is not convex", ErrDegenerate)
	}
	if area := geometry.PolygonArea(poly); area < MinQuadArea {
		return nil, fmt.Errorf("%w: corner quad area %.3f px²", ErrDegenerate, area)
	}

	h, err := ComputeHomography(UnitSquare.Polygon(), poly)
	if err != nil {
		return nil, err
	}
	inv, ok := h.Inverse()
	if !ok {
		return nil, fmt.Errorf("%w: transform not invertible", ErrDegenerate)
	}

	return &Calibration{Quad: quad, TableToImage: h, ImageToTable: inv}, nil
}

// ToImage projects a normalized table point into the image.
func (c *Calibration) ToImage(p geometry.Point2D) (geometry.Point2D, bool) {
	return c.TableToImage.Apply(p)
}

// ToTable projects an image point into normalized table coordinates.
func (c *Calibration) ToTable(p geometry.Point2D) (geometry.Point2D, bool) {
	return c.ImageToTable.Apply(p)
}

// QuadFromMarkers assigns each recognized marker's centroid to its table
// corner. Markers with ids outside the map are ignored. It fails when any
// corner is missing or claimed by more than one marker.
func QuadFromMarkers(markers []Marker, ids CornerIDs) (CornerQuad, bool) {
	var quad CornerQuad
	var seen [numCorners]int

	for _, m := range markers {
		corner, ok := ids.CornerFor(m.ID)
		if !ok {
			continue
		}
		seen[corner]++
		quad[corner] = m.Center()
	}

	for _, n := range seen {
		if n != 1 {
			return CornerQuad{}, false
		}
	}
	return quad, true
}

// CalibrationFromMarkers builds a Calibration from one frame's markers.
// It returns nil when the table cannot be located; this is an expected
// outcome, not an error.
func CalibrationFromMarkers(markers []Marker, ids CornerIDs) *Calibration {
	quad, ok := QuadFromMarkers(markers, ids)
	if !ok {
		return nil
	}
	cal, err := NewCalibration(quad)
	if err != nil {
		return nil
	}
	return cal
}
