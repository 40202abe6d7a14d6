// Package task sequences the placement steps and tracks each object's
// target zone.
package task

import (
	"fmt"
	"math/rand"

	"tabletop-guide/internal/objects"
	"tabletop-guide/pkg/geometry"
)

// Default target sampling range. Keeps targets clear of the corner markers.
const (
	DefaultTargetMin = 0.15
	DefaultTargetMax = 0.85
)

// Sequence is the order in which objects are placed.
var Sequence = [objects.NumClasses]objects.Class{
	objects.ClassCup,
	objects.ClassBottle,
	objects.ClassPencil,
}

// Target is the zone one object must be moved to.
type Target struct {
	Class  objects.Class    `json:"class"`
	Point  geometry.Point2D `json:"point"` // Normalized table coordinates
	Placed bool             `json:"placed"`
}

// GenerateTargets samples n points with each coordinate uniform in [lo, hi].
func GenerateTargets(rng *rand.Rand, n int, lo, hi float64) ([]geometry.Point2D, error) {
	if lo < 0 || hi > 1 || lo > hi {
		return nil, fmt.Errorf("target range [%g, %g] must lie within [0, 1]", lo, hi)
	}
	if n < 0 {
		return nil, fmt.Errorf("negative target count %d", n)
	}

	span := hi - lo
	points := make([]geometry.Point2D, n)
	for i := range points {
		points[i] = geometry.Point2D{
			X: lo + rng.Float64()*span,
			Y: lo + rng.Float64()*span,
		}
	}
	return points, nil
}

// AssignTargets gives the points to the objects in placement order.
func AssignTargets(points []geometry.Point2D) ([objects.NumClasses]Target, error) {
	var targets [objects.NumClasses]Target
	if len(points) != len(Sequence) {
		return targets, fmt.Errorf("need %d target points, got %d", len(Sequence), len(points))
	}
	for i, class := range Sequence {
		targets[i] = Target{Class: class, Point: points[i]}
	}
	return targets, nil
}

// RandomTargets draws and assigns one set of targets.
func RandomTargets(rng *rand.Rand, lo, hi float64) ([objects.NumClasses]Target, error) {
	points, err := GenerateTargets(rng, len(Sequence), lo, hi)
	if err != nil {
		return [objects.NumClasses]Target{}, err
	}
	return AssignTargets(points)
}
