package geometry

import "math"

// Homography represents a 3x3 projective transform acting on homogeneous
// coordinates (x, y, 1).
//
//	[h00 h01 h02]
//	[h10 h11 h12]
//	[h20 h21 h22]
type Homography [3][3]float64

// Apply maps a point through the transform. It returns false when the point
// lands on the line at infinity.
func (h Homography) Apply(p Point2D) (Point2D, bool) {
	w := h[2][0]*p.X + h[2][1]*p.Y + h[2][2]
	if math.Abs(w) < 1e-12 {
		return Point2D{}, false
	}
	return Point2D{
		X: (h[0][0]*p.X + h[0][1]*p.Y + h[0][2]) / w,
		Y: (h[1][0]*p.X + h[1][1]*p.Y + h[1][2]) / w,
	}, true
}

// Det returns the determinant of the matrix.
func (h Homography) Det() float64 {
	return h[0][0]*(h[1][1]*h[2][2]-h[1][2]*h[2][1]) -
		h[0][1]*(h[1][0]*h[2][2]-h[1][2]*h[2][0]) +
		h[0][2]*(h[1][0]*h[2][1]-h[1][1]*h[2][0])
}

// Compose returns this transform composed with another (this * other), so
// the result applies other first.
func (h Homography) Compose(other Homography) Homography {
	var out Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += h[i][k] * other[k][j]
			}
		}
	}
	return out
}

// Normalize scales the matrix so h22 == 1. Matrices with h22 == 0 are
// returned unchanged.
func (h Homography) Normalize() Homography {
	if math.Abs(h[2][2]) < 1e-12 {
		return h
	}
	s := 1.0 / h[2][2]
	for i := range h {
		for j := range h[i] {
			h[i][j] *= s
		}
	}
	return h
}

// Inverse returns the inverse transform, if it exists.
func (h Homography) Inverse() (Homography, bool) {
	det := h.Det()
	if math.Abs(det) < 1e-12 {
		return Homography{}, false
	}

	invDet := 1.0 / det
	inv := Homography{
		{
			(h[1][1]*h[2][2] - h[1][2]*h[2][1]) * invDet,
			(h[0][2]*h[2][1] - h[0][1]*h[2][2]) * invDet,
			(h[0][1]*h[1][2] - h[0][2]*h[1][1]) * invDet,
		},
		{
			(h[1][2]*h[2][0] - h[1][0]*h[2][2]) * invDet,
			(h[0][0]*h[2][2] - h[0][2]*h[2][0]) * invDet,
			(h[0][2]*h[1][0] - h[0][0]*h[1][2]) * invDet,
		},
		{
			(h[1][0]*h[2][1] - h[1][1]*h[2][0]) * invDet,
			(h[0][1]*h[2][0] - h[0][0]*h[2][1]) * invDet,
			(h[0][0]*h[1][1] - h[0][1]*h[1][0]) * invDet,
		},
	}
	return inv.Normalize(), true
}
