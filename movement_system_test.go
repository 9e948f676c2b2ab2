package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

func TestSeekMovesTowardTarget(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()
	movementSystem := NewMovementSystem(testConfig())

	chaser := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
	target := spawnTestSlime(w, Team2, Vec2{X: 300, Y: 0})
	donburi.Add(chaser, TargetComponent, &Target{Entity: target.Entity()})

	movementSystem.Update(w, buffer, 0.1)
	buffer.Flush(w)

	// 速度125 × 0.1秒 = 12.5 だけ近づく
	assert.InDelta(t, 12.5, PositionComponent.Get(chaser).X, 1e-9)
	assert.InDelta(t, 0.0, PositionComponent.Get(chaser).Y, 1e-9)
}

func TestSeekStopsInsideStopDistance(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()
	movementSystem := NewMovementSystem(testConfig())

	chaser := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
	// 停止距離50ちょうどは「到達済み」扱い
	target := spawnTestSlime(w, Team2, Vec2{X: 50, Y: 0})
	donburi.Add(chaser, TargetComponent, &Target{Entity: target.Entity()})

	before := *PositionComponent.Get(chaser)
	movementSystem.seek(w, buffer, 0.1)
	buffer.Flush(w)
	assert.Equal(t, before, *PositionComponent.Get(chaser))
}

func TestSeekClearsStaleTarget(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()
	movementSystem := NewMovementSystem(testConfig())

	chaser := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
	target := spawnTestSlime(w, Team2, Vec2{X: 300, Y: 0})
	donburi.Add(chaser, TargetComponent, &Target{Entity: target.Entity()})
	w.Remove(target.Entity())

	movementSystem.Update(w, buffer, 0.1)
	buffer.Flush(w)
	assert.False(t, chaser.HasComponent(TargetComponent), "消えたターゲットは外れる")
	assert.InDelta(t, 0.0, PositionComponent.Get(chaser).X, 1e-9, "その場から動かない")
}

func TestSeparationPushesApartSymmetrically(t *testing.T) {
	w := donburi.NewWorld()
	movementSystem := NewMovementSystem(testConfig())

	a := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
	b := spawnTestSlime(w, Team1, Vec2{X: 20, Y: 0})

	movementSystem.separate(w, 1.0/60.0)

	posA := *PositionComponent.Get(a)
	posB := *PositionComponent.Get(b)
	require.Less(t, posA.X, 0.0)
	require.Greater(t, posB.X, 20.0)

	// 等量逆向きなので中点は動かない
	assert.InDelta(t, 10.0, Midpoint(posA, posB).X, 1e-9)
	assert.Greater(t, posA.DistanceTo(posB), 20.0)
}

func TestSeparationIgnoresDistantPairs(t *testing.T) {
	w := donburi.NewWorld()
	movementSystem := NewMovementSystem(testConfig())

	a := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
	b := spawnTestSlime(w, Team1, Vec2{X: 80, Y: 0})

	movementSystem.separate(w, 1.0/60.0)
	assert.InDelta(t, 0.0, PositionComponent.Get(a).X, 1e-9)
	assert.InDelta(t, 80.0, PositionComponent.Get(b).X, 1e-9)
}

// 3体が一列に並んだ場合でも、力は全ペアぶん合算してから一度に適用されるので
// スナップショット時点の位置だけで結果が決まる
func TestSeparationOrderIndependent(t *testing.T) {
	w := donburi.NewWorld()
	movementSystem := NewMovementSystem(testConfig())

	left := spawnTestSlime(w, Team1, Vec2{X: -15, Y: 0})
	center := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
	right := spawnTestSlime(w, Team1, Vec2{X: 15, Y: 0})

	movementSystem.separate(w, 1.0/60.0)

	// 中央は左右から等しく押されて動かない
	assert.InDelta(t, 0.0, PositionComponent.Get(center).X, 1e-9)
	assert.InDelta(t, -PositionComponent.Get(right).X, PositionComponent.Get(left).X, 1e-9)
}
