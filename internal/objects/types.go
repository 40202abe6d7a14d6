// Package objects detects the task objects (cup, bottle, pencil) in a camera
// frame by color and shape, and maps them into normalized table coordinates.
package objects

import (
	"fmt"
	"strings"

	"tabletop-guide/pkg/geometry"
)

// Class identifies one of the task objects.
type Class int

const (
	ClassBottle Class = iota
	ClassCup
	ClassPencil

	// NumClasses is the size of every per-class table.
	NumClasses = 3
)

// Classes lists every class in pipeline order.
var Classes = [NumClasses]Class{ClassBottle, ClassCup, ClassPencil}

func (c Class) String() string {
	switch c {
	case ClassBottle:
		return "bottle"
	case ClassCup:
		return "cup"
	case ClassPencil:
		return "pencil"
	default:
		return "unknown"
	}
}

// ParseClass converts a class name (case-insensitive) to a Class.
func ParseClass(name string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bottle":
		return ClassBottle, nil
	case "cup":
		return ClassCup, nil
	case "pencil":
		return ClassPencil, nil
	default:
		return 0, fmt.Errorf("unknown object class %q", name)
	}
}

// Detection is one class's result for one frame.
type Detection struct {
	Class  Class            `json:"class"`
	Box    geometry.RectInt `json:"box"`    // Image-space bounding box (pixels)
	Anchor geometry.Point2D `json:"anchor"` // Image point that was projected
	Table  geometry.Point2D `json:"table"`  // Normalized table coordinates
	Valid  bool             `json:"valid"`
}

// DetectionMap holds at most one detection per class, indexed by Class.
// A nil entry means the class was not detected this frame.
type DetectionMap [NumClasses]*Detection

// Get returns the detection for a class, if any.
func (m DetectionMap) Get(c Class) (*Detection, bool) {
	if c < 0 || int(c) >= NumClasses {
		return nil, false
	}
	d := m[c]
	return d, d != nil
}

// Count returns the number of detected classes.
func (m DetectionMap) Count() int {
	n := 0
	for _, d := range m {
		if d != nil {
			n++
		}
	}
	return n
}

// Candidate is one connected region extracted from a class mask.
type Candidate struct {
	Area float64          // Contour area (px²)
	Box  geometry.RectInt // Axis-aligned bounding box
}
