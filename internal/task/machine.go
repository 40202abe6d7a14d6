package task

import (
	"fmt"

	"tabletop-guide/internal/objects"
	"tabletop-guide/pkg/geometry"
)

// DefaultThreshold is the placement tolerance in table units.
const DefaultThreshold = 0.08

// State is the current step of the task.
type State int

const (
	StatePlaceCup State = iota
	StatePlaceBottle
	StatePlacePencil
	StateComplete
)

func (s State) String() string {
	switch s {
	case StatePlaceCup:
		return "place cup"
	case StatePlaceBottle:
		return "place bottle"
	case StatePlacePencil:
		return "place pencil"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// step describes what a non-terminal state waits for and where it goes next.
type step struct {
	index int // Position in Sequence
	next  State
}

var transitions = map[State]step{
	StatePlaceCup:    {index: 0, next: StatePlaceBottle},
	StatePlaceBottle: {index: 1, next: StatePlacePencil},
	StatePlacePencil: {index: 2, next: StateComplete},
}

// Machine walks the objects through their placements in Sequence order.
// It only moves forward: placed flags are never cleared, even if an object
// is later moved out of its zone.
type Machine struct {
	targets   [objects.NumClasses]Target
	state     State
	threshold float64
}

// NewMachine creates a machine in StatePlaceCup. Targets may come in any
// order; they are matched to their step by class, so each class must appear
// exactly once. A non-positive threshold selects DefaultThreshold.
func NewMachine(targets [objects.NumClasses]Target, threshold float64) (*Machine, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var ordered [objects.NumClasses]Target
	var seen [objects.NumClasses]bool
	for _, t := range targets {
		i := sequenceIndex(t.Class)
		if i < 0 {
			return nil, fmt.Errorf("target for unknown class %d", int(t.Class))
		}
		if seen[i] {
			return nil, fmt.Errorf("duplicate target for %s", t.Class)
		}
		seen[i] = true
		t.Placed = false
		ordered[i] = t
	}

	return &Machine{
		targets:   ordered,
		state:     StatePlaceCup,
		threshold: threshold,
	}, nil
}

// sequenceIndex returns the position of c in Sequence, or -1.
func sequenceIndex(c objects.Class) int {
	for i, s := range Sequence {
		if s == c {
			return i
		}
	}
	return -1
}

// Update checks the current object against its target and advances at most
// one step. It reports whether the state changed.
func (m *Machine) Update(detections objects.DetectionMap) bool {
	st, ok := transitions[m.state]
	if !ok {
		return false
	}

	target := &m.targets[st.index]
	det, found := detections.Get(target.Class)
	if !found || !det.Valid {
		return false
	}
	if !InZone(det.Table, target.Point, m.threshold) {
		return false
	}

	target.Placed = true
	m.state = st.next
	return true
}

// InZone reports whether p is within threshold of target on both axes.
func InZone(p, target geometry.Point2D, threshold float64) bool {
	return p.ChebyshevDistance(target) < threshold
}

// State returns the current step.
func (m *Machine) State() State { return m.state }

// Threshold returns the placement tolerance.
func (m *Machine) Threshold() float64 { return m.threshold }

// IsComplete reports whether every object has been placed.
func (m *Machine) IsComplete() bool { return m.state == StateComplete }

// CurrentObject returns the object being guided, or false once complete.
func (m *Machine) CurrentObject() (objects.Class, bool) {
	st, ok := transitions[m.state]
	if !ok {
		return 0, false
	}
	return m.targets[st.index].Class, true
}

// CurrentTarget returns where the current object must go, or false once
// complete.
func (m *Machine) CurrentTarget() (geometry.Point2D, bool) {
	st, ok := transitions[m.state]
	if !ok {
		return geometry.Point2D{}, false
	}
	return m.targets[st.index].Point, true
}

// Targets returns a copy of the targets, in Sequence order, with their
// placed flags.
func (m *Machine) Targets() [objects.NumClasses]Target {
	return m.targets
}

// PlacedCount returns how many objects have been placed.
func (m *Machine) PlacedCount() int {
	n := 0
	for _, t := range m.targets {
		if t.Placed {
			n++
		}
	}
	return n
}
