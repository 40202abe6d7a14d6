package task

import (
	"testing"

	"tabletop-guide/internal/objects"
	"tabletop-guide/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTargets(t *testing.T) [objects.NumClasses]Target {
	t.Helper()
	targets, err := AssignTargets([]geometry.Point2D{
		{X: 0.5, Y: 0.5}, // cup
		{X: 0.2, Y: 0.3}, // bottle
		{X: 0.8, Y: 0.7}, // pencil
	})
	require.NoError(t, err)
	return targets
}

func newMachine(t *testing.T, targets [objects.NumClasses]Target, threshold float64) *Machine {
	t.Helper()
	m, err := NewMachine(targets, threshold)
	require.NoError(t, err)
	return m
}

func detectionsAt(c objects.Class, x, y float64) objects.DetectionMap {
	var m objects.DetectionMap
	m[c] = &objects.Detection{Class: c, Table: geometry.Point2D{X: x, Y: y}, Valid: true}
	return m
}

func TestMachine_Initial(t *testing.T) {
	m := newMachine(t, fixedTargets(t), 0)

	assert.Equal(t, StatePlaceCup, m.State())
	assert.Equal(t, DefaultThreshold, m.Threshold())
	assert.False(t, m.IsComplete())

	obj, ok := m.CurrentObject()
	require.True(t, ok)
	assert.Equal(t, objects.ClassCup, obj)

	target, ok := m.CurrentTarget()
	require.True(t, ok)
	assert.Equal(t, geometry.Point2D{X: 0.5, Y: 0.5}, target)
	assert.Zero(t, m.PlacedCount())
}

func TestMachine_AdvancesOnlyInsideZone(t *testing.T) {
	m := newMachine(t, fixedTargets(t), 0.08)

	// Approaching the cup target along x: 0.6 and 0.59 are outside.
	for _, x := range []float64{0.9, 0.6, 0.59} {
		assert.False(t, m.Update(detectionsAt(objects.ClassCup, x, 0.52)), "x=%v", x)
		assert.Equal(t, StatePlaceCup, m.State())
	}

	assert.True(t, m.Update(detectionsAt(objects.ClassCup, 0.55, 0.52)))
	assert.Equal(t, StatePlaceBottle, m.State())

	// Same frame repeated does not advance again.
	assert.False(t, m.Update(detectionsAt(objects.ClassCup, 0.55, 0.52)))
	assert.Equal(t, StatePlaceBottle, m.State())
	assert.Equal(t, 1, m.PlacedCount())
}

func TestMachine_ThresholdIsStrict(t *testing.T) {
	m := newMachine(t, fixedTargets(t), 0.25)
	assert.False(t, m.Update(detectionsAt(objects.ClassCup, 0.75, 0.5)))
	assert.True(t, m.Update(detectionsAt(objects.ClassCup, 0.7, 0.5)))
}

func TestMachine_ChebyshevNotEuclidean(t *testing.T) {
	// (0.57, 0.57) is 0.099 away in Euclidean terms but within 0.08 on
	// each axis.
	m := newMachine(t, fixedTargets(t), 0.08)
	assert.True(t, m.Update(detectionsAt(objects.ClassCup, 0.57, 0.57)))

	assert.True(t, InZone(geometry.Point2D{X: 0.57, Y: 0.57}, geometry.Point2D{X: 0.5, Y: 0.5}, 0.08))
	assert.False(t, InZone(geometry.Point2D{X: 0.59, Y: 0.5}, geometry.Point2D{X: 0.5, Y: 0.5}, 0.08))
}

func TestMachine_IgnoresOtherObjects(t *testing.T) {
	m := newMachine(t, fixedTargets(t), 0.08)

	// The bottle sitting on the cup's target does not count.
	assert.False(t, m.Update(detectionsAt(objects.ClassBottle, 0.5, 0.5)))
	// Nor does the bottle on its own target before the cup is placed.
	assert.False(t, m.Update(detectionsAt(objects.ClassBottle, 0.2, 0.3)))
	assert.False(t, m.Update(objects.DetectionMap{}))

	var invalid objects.DetectionMap
	invalid[objects.ClassCup] = &objects.Detection{Class: objects.ClassCup, Table: geometry.Point2D{X: 0.5, Y: 0.5}}
	assert.False(t, m.Update(invalid))
	assert.Equal(t, StatePlaceCup, m.State())
}

func TestMachine_FullSequenceIsMonotonic(t *testing.T) {
	m := newMachine(t, fixedTargets(t), 0.08)

	frames := []objects.DetectionMap{
		detectionsAt(objects.ClassCup, 0.5, 0.5),
		detectionsAt(objects.ClassCup, 0.9, 0.9), // cup moved away again
		detectionsAt(objects.ClassBottle, 0.21, 0.29),
		detectionsAt(objects.ClassPencil, 0.1, 0.1),
		detectionsAt(objects.ClassPencil, 0.8, 0.7),
		detectionsAt(objects.ClassCup, 0.5, 0.5),
	}

	prev := m.State()
	for i, f := range frames {
		m.Update(f)
		require.GreaterOrEqual(t, m.State(), prev, "frame %d", i)
		prev = m.State()
	}

	assert.True(t, m.IsComplete())
	assert.Equal(t, StateComplete, m.State())
	assert.Equal(t, objects.NumClasses, m.PlacedCount())

	_, ok := m.CurrentObject()
	assert.False(t, ok)
	_, ok = m.CurrentTarget()
	assert.False(t, ok)

	for _, tg := range m.Targets() {
		assert.True(t, tg.Placed, "%s", tg.Class)
	}

	// Terminal.
	assert.False(t, m.Update(detectionsAt(objects.ClassPencil, 0.8, 0.7)))
}

func TestNewMachine_ClearsPlacedFlags(t *testing.T) {
	targets := fixedTargets(t)
	targets[0].Placed = true

	m := newMachine(t, targets, 0.08)
	assert.Zero(t, m.PlacedCount())
}

func TestNewMachine_OrdersTargetsByClass(t *testing.T) {
	in := fixedTargets(t)
	scrambled := [objects.NumClasses]Target{in[2], in[0], in[1]} // pencil, cup, bottle

	m := newMachine(t, scrambled, 0.08)

	obj, ok := m.CurrentObject()
	require.True(t, ok)
	assert.Equal(t, objects.ClassCup, obj)
	target, ok := m.CurrentTarget()
	require.True(t, ok)
	assert.Equal(t, geometry.Point2D{X: 0.5, Y: 0.5}, target)
	assert.Equal(t, in, m.Targets())

	assert.True(t, m.Update(detectionsAt(objects.ClassCup, 0.5, 0.5)))
	obj, _ = m.CurrentObject()
	assert.Equal(t, objects.ClassBottle, obj)
}

func TestNewMachine_RejectsBadTargets(t *testing.T) {
	in := fixedTargets(t)

	dup := in
	dup[2].Class = objects.ClassCup
	_, err := NewMachine(dup, 0.08)
	assert.ErrorContains(t, err, "duplicate target for cup")

	unknown := in
	unknown[1].Class = objects.Class(7)
	_, err = NewMachine(unknown, 0.08)
	assert.Error(t, err)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "place cup", StatePlaceCup.String())
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "unknown", State(42).String())
}
