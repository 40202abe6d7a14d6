package task

import (
	"math/rand"
	"testing"

	"tabletop-guide/internal/objects"
	"tabletop-guide/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTargets_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		points, err := GenerateTargets(rng, 3, DefaultTargetMin, DefaultTargetMax)
		require.NoError(t, err)
		require.Len(t, points, 3)
		for _, p := range points {
			assert.GreaterOrEqual(t, p.X, DefaultTargetMin)
			assert.LessOrEqual(t, p.X, DefaultTargetMax)
			assert.GreaterOrEqual(t, p.Y, DefaultTargetMin)
			assert.LessOrEqual(t, p.Y, DefaultTargetMax)
		}
	}
}

func TestGenerateTargets_Deterministic(t *testing.T) {
	a, err := GenerateTargets(rand.New(rand.NewSource(42)), 3, 0.2, 0.8)
	require.NoError(t, err)
	b, err := GenerateTargets(rand.New(rand.NewSource(42)), 3, 0.2, 0.8)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateTargets_BadRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, r := range [][2]float64{{-0.1, 0.5}, {0.5, 1.2}, {0.8, 0.2}} {
		_, err := GenerateTargets(rng, 3, r[0], r[1])
		assert.Error(t, err, "range %v", r)
	}
	_, err := GenerateTargets(rng, -1, 0, 1)
	assert.Error(t, err)
}

func TestAssignTargets(t *testing.T) {
	points := []geometry.Point2D{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.2}, {X: 0.3, Y: 0.3}}
	targets, err := AssignTargets(points)
	require.NoError(t, err)

	assert.Equal(t, objects.ClassCup, targets[0].Class)
	assert.Equal(t, objects.ClassBottle, targets[1].Class)
	assert.Equal(t, objects.ClassPencil, targets[2].Class)
	assert.Equal(t, points[1], targets[1].Point)

	_, err = AssignTargets(points[:2])
	assert.Error(t, err)
}

func TestRandomTargets(t *testing.T) {
	targets, err := RandomTargets(rand.New(rand.NewSource(3)), 0.15, 0.85)
	require.NoError(t, err)
	for _, tg := range targets {
		assert.False(t, tg.Placed)
		assert.True(t, tg.Point.InUnitSquare())
	}
}
