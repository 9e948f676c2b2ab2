package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Basics(t *testing.T) {
	a := Vec2{X: 3, Y: 4}
	assert.InDelta(t, 5.0, a.Length(), 1e-9)
	assert.InDelta(t, 5.0, Vec2{}.DistanceTo(a), 1e-9)
	assert.Equal(t, Vec2{X: 6, Y: 8}, a.Scale(2))
	assert.Equal(t, Vec2{X: 4, Y: 6}, a.Add(Vec2{X: 1, Y: 2}))
	assert.Equal(t, Vec2{X: 2, Y: 2}, a.Sub(Vec2{X: 1, Y: 2}))
}

func TestVec2NormalizedZeroSafe(t *testing.T) {
	assert.Equal(t, Vec2{}, Vec2{}.Normalized())

	n := Vec2{X: 3, Y: 4}.Normalized()
	assert.InDelta(t, 1.0, n.Length(), 1e-9)
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, Vec2{X: 25, Y: 5}, Midpoint(Vec2{X: 0, Y: 0}, Vec2{X: 50, Y: 10}))
}

func TestLerp(t *testing.T) {
	assert.InDelta(t, 0.0, Lerp(0, 10, 0), 1e-9)
	assert.InDelta(t, 10.0, Lerp(0, 10, 1), 1e-9)
	assert.InDelta(t, 2.5, Lerp(0, 10, 0.25), 1e-9)
}
