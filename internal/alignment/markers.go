// Package alignment locates the table in a camera frame from four fiducial
// markers and maintains the table-plane <-> image-plane homography.
package alignment

import (
	"fmt"

	"tabletop-guide/pkg/geometry"

	"gocv.io/x/gocv"
)

// TableCorner identifies one corner of the table.
type TableCorner int

const (
	CornerTopLeft TableCorner = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft

	numCorners = 4
)

func (c TableCorner) String() string {
	switch c {
	case CornerTopLeft:
		return "TL"
	case CornerTopRight:
		return "TR"
	case CornerBottomRight:
		return "BR"
	case CornerBottomLeft:
		return "BL"
	default:
		return "Unknown"
	}
}

// Marker is one detected fiducial: its dictionary id and the four corners of
// its square in image space. Markers are produced fresh every frame.
type Marker struct {
	ID      int
	Corners [4]geometry.Point2D
}

// Center returns the mean of the marker's corner points.
func (m Marker) Center() geometry.Point2D {
	return geometry.Centroid(m.Corners[:])
}

// CornerIDs is the fixed marker-id lookup, indexed by TableCorner.
type CornerIDs [numCorners]int

// DefaultCornerIDs maps marker 0 to the top-left corner, 1 to top-right,
// 2 to bottom-right and 3 to bottom-left.
func DefaultCornerIDs() CornerIDs {
	return CornerIDs{0, 1, 2, 3}
}

// CornerFor returns the table corner a marker id is assigned to.
func (ids CornerIDs) CornerFor(id int) (TableCorner, bool) {
	for c, cid := range ids {
		if cid == id {
			return TableCorner(c), true
		}
	}
	return 0, false
}

// Validate checks that the ids are non-negative and distinct.
func (ids CornerIDs) Validate() error {
	for i, a := range ids {
		if a < 0 {
			return fmt.Errorf("marker id for %s is negative: %d", TableCorner(i), a)
		}
		for j := i + 1; j < len(ids); j++ {
			if ids[j] == a {
				return fmt.Errorf("marker id %d assigned to both %s and %s", a, TableCorner(i), TableCorner(j))
			}
		}
	}
	return nil
}

// MarkerDetector finds fiducial markers in a BGR frame.
type MarkerDetector interface {
	DetectMarkers(frame gocv.Mat) []Marker
}

// ArucoMarkerDetector detects markers from the 4x4_50 ArUco dictionary.
type ArucoMarkerDetector struct {
	detector gocv.ArucoDetector
}

// NewArucoMarkerDetector creates a detector for the DICT_4X4_50 dictionary
// with default detection parameters. Call Close when done.
func NewArucoMarkerDetector() *ArucoMarkerDetector {
	dict := gocv.GetPredefinedDictionary(gocv.ArucoDict4x4_50)
	params := gocv.NewArucoDetectorParameters()
	return &ArucoMarkerDetector{
		detector: gocv.NewArucoDetectorWithParams(dict, params),
	}
}

// DetectMarkers runs detection on the grayscale version of the frame.
// Returns nil when nothing is found or the frame is empty.
func (a *ArucoMarkerDetector) DetectMarkers(frame gocv.Mat) []Marker {
	if frame.Empty() {
		return nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	corners, ids, _ := a.detector.DetectMarkers(gray)
	if len(ids) == 0 {
		return nil
	}

	markers := make([]Marker, 0, len(ids))
	for i, id := range ids {
		if i >= len(corners) || len(corners[i]) != 4 {
			continue
		}
		m := Marker{ID: id}
		for j, pt := range corners[i] {
			m.Corners[j] = geometry.Point2D{X: float64(pt.X), Y: float64(pt.Y)}
		}
		markers = append(markers, m)
	}
	return markers
}

// Close releases the underlying OpenCV detector.
func (a *ArucoMarkerDetector) Close() error {
	a.detector.Close()
	return nil
}
