package objects

import (
	"image"

	"tabletop-guide/pkg/geometry"

	"gocv.io/x/gocv"
)

// ClassDetector finds the single best region for one class in an HSV frame.
type ClassDetector interface {
	Detect(hsv gocv.Mat, p ColorProfile) (geometry.RectInt, bool)
}

// ContourDetector segments by HSV range, cleans the mask with morphology and
// picks the best external contour with SelectBest.
type ContourDetector struct{}

// Detect implements ClassDetector.
func (ContourDetector) Detect(hsv gocv.Mat, p ColorProfile) (geometry.RectInt, bool) {
	if hsv.Empty() {
		return geometry.RectInt{}, false
	}

	mask := ColorMask(hsv, p)
	defer mask.Close()

	best, ok := SelectBest(FindCandidates(mask), p)
	if !ok {
		return geometry.RectInt{}, false
	}
	return best.Box, true
}

// ColorMask thresholds hsv to the profile's range and applies its
// morphological cleanup. The caller owns the returned mask.
func ColorMask(hsv gocv.Mat, p ColorProfile) gocv.Mat {
	mask := gocv.NewMat()

	lower := gocv.NewScalar(p.HueMin, p.SatMin, p.ValMin, 0)
	upper := gocv.NewScalar(p.HueMax, p.SatMax, p.ValMax, 0)
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)

	k := p.KernelSize
	if k < 1 {
		k = 3
	}
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(k, k))
	defer kernel.Close()

	op := gocv.MorphOpen
	if p.Morph == MorphClose {
		op = gocv.MorphClose
	}
	gocv.MorphologyEx(mask, &mask, op, kernel)

	return mask
}

// FindCandidates extracts the external contours of a binary mask.
func FindCandidates(mask gocv.Mat) []Candidate {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	cands := make([]Candidate, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		cands = append(cands, Candidate{
			Area: gocv.ContourArea(contour),
			Box:  geometry.RectFromImage(gocv.BoundingRect(contour)),
		})
	}
	return cands
}
