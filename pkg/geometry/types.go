// Package geometry provides basic geometric types shared by the perception
// pipeline: image-space and table-space points, pixel boxes and projective
// transforms between the two planes.
package geometry

import (
	"image"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
// The same type carries image pixels and normalized table coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ChebyshevDistance returns the largest per-axis absolute difference.
func (p Point2D) ChebyshevDistance(other Point2D) float64 {
	return math.Max(math.Abs(p.X-other.X), math.Abs(p.Y-other.Y))
}

// InUnitSquare reports whether the point lies in [0,1]x[0,1].
func (p Point2D) InUnitSquare() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// ImagePoint rounds to the nearest integer pixel.
func (p Point2D) ImagePoint() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// RectInt represents an axis-aligned pixel box.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectFromImage converts an image.Rectangle.
func RectFromImage(r image.Rectangle) RectInt {
	return RectInt{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Image converts to an image.Rectangle.
func (r RectInt) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Center returns the center point of the box.
func (r RectInt) Center() Point2D {
	return Point2D{X: float64(r.X) + float64(r.Width)/2, Y: float64(r.Y) + float64(r.Height)/2}
}

// BottomCenter returns the horizontal midpoint of the bottom edge.
func (r RectInt) BottomCenter() Point2D {
	return Point2D{X: float64(r.X) + float64(r.Width)/2, Y: float64(r.Y + r.Height)}
}

// AspectRatio returns max(w,h)/(min(w,h)+eps). Orientation does not matter.
func (r RectInt) AspectRatio() float64 {
	const eps = 1e-5
	w, h := float64(r.Width), float64(r.Height)
	return math.Max(w, h) / (math.Min(w, h) + eps)
}

// Pad grows the box by n pixels on every side, clamping the origin at zero.
func (r RectInt) Pad(n int) RectInt {
	x, y := r.X-n, r.Y-n
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return RectInt{X: x, Y: y, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []Point2D) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point2D{X: sumX / n, Y: sumY / n}
}
