package alignment

import (
	"errors"
	"fmt"
	"math"

	"tabletop-guide/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when a correspondence set cannot produce an
// invertible projective transform.
var ErrDegenerate = errors.New("degenerate homography")

// maxReprojectionError is the largest residual, relative to the spread of
// the destination points, the solved transform may leave on its own
// calibration points.
const maxReprojectionError = 1e-3

// ComputeHomography computes the projective transform mapping srcPoints onto
// dstPoints by linear least squares (direct linear transform with h22 fixed
// to 1). Both point sets are Hartley-normalized before solving.
func ComputeHomography(srcPoints, dstPoints []geometry.Point2D) (geometry.Homography, error) {
	if len(srcPoints) != len(dstPoints) {
		return geometry.Homography{}, fmt.Errorf("point count mismatch: %d vs %d", len(srcPoints), len(dstPoints))
	}
	if len(srcPoints) < 4 {
		return geometry.Homography{}, fmt.Errorf("need at least 4 points, got %d", len(srcPoints))
	}

	srcT, srcN, err := normalizePoints(srcPoints)
	if err != nil {
		return geometry.Homography{}, err
	}
	dstT, dstN, err := normalizePoints(dstPoints)
	if err != nil {
		return geometry.Homography{}, err
	}

	hn, err := solveDLT(srcN, dstN)
	if err != nil {
		return geometry.Homography{}, err
	}

	// Denormalize: H = inv(Tdst) * Hn * Tsrc
	dstInv, ok := dstT.Inverse()
	if !ok {
		return geometry.Homography{}, ErrDegenerate
	}
	h := dstInv.Compose(hn).Compose(srcT).Normalize()

	if math.Abs(h.Det()) < 1e-12 {
		return geometry.Homography{}, ErrDegenerate
	}

	// The solve is exact for four points in general position. A residual
	// there means the system was rank deficient.
	if len(srcPoints) == 4 {
		tol := maxReprojectionError * scaleOf(dstPoints)
		for i := range srcPoints {
			p, ok := h.Apply(srcPoints[i])
			if !ok || p.Distance(dstPoints[i]) > tol {
				return geometry.Homography{}, ErrDegenerate
			}
		}
	}

	return h, nil
}

// solveDLT builds the 2n x 8 system for h00..h21 and solves it with QR.
func solveDLT(src, dst []geometry.Point2D) (geometry.Homography, error) {
	n := len(src)

	A := mat.NewDense(n*2, 8, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		// u = h00*x + h01*y + h02 - h20*x*u - h21*y*u
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -x*u)
		A.Set(i*2, 7, -y*u)
		B.SetVec(i*2, u)

		// v = h10*x + h11*y + h12 - h20*x*v - h21*y*v
		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -x*v)
		A.Set(i*2+1, 7, -y*v)
		B.SetVec(i*2+1, v)
	}

	// Solve using QR decomposition
	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return geometry.Homography{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	return geometry.Homography{
		{params.AtVec(0), params.AtVec(1), params.AtVec(2)},
		{params.AtVec(3), params.AtVec(4), params.AtVec(5)},
		{params.AtVec(6), params.AtVec(7), 1},
	}, nil
}

// normalizePoints translates the centroid to the origin and scales so the
// mean distance from it is sqrt(2). Returns the similarity used and the
// transformed points.
func normalizePoints(points []geometry.Point2D) (geometry.Homography, []geometry.Point2D, error) {
	c := geometry.Centroid(points)

	var meanDist float64
	for _, p := range points {
		meanDist += p.Distance(c)
	}
	meanDist /= float64(len(points))
	if meanDist < 1e-12 {
		return geometry.Homography{}, nil, ErrDegenerate
	}

	s := math.Sqrt2 / meanDist
	t := geometry.Homography{
		{s, 0, -s * c.X},
		{0, s, -s * c.Y},
		{0, 0, 1},
	}

	out := make([]geometry.Point2D, len(points))
	for i, p := range points {
		out[i] = geometry.Point2D{X: s * (p.X - c.X), Y: s * (p.Y - c.Y)}
	}
	return t, out, nil
}

// scaleOf returns the mean distance of the points from their centroid.
func scaleOf(points []geometry.Point2D) float64 {
	c := geometry.Centroid(points)
	var d float64
	for _, p := range points {
		d += p.Distance(c)
	}
	return d / float64(len(points))
}
