package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yohamta/donburi"
)

func TestCommandBufferSkipsDespawnedTarget(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()

	slime := spawnTestSlime(w, Team1, Vec2{})
	called := false
	buffer.Defer(slime.Entity(), func(w donburi.World, e *donburi.Entry) {
		called = true
	})

	// Flush前に対象が消えたら積んだ操作は黙って読み飛ばされる
	w.Remove(slime.Entity())
	buffer.Flush(w)
	assert.False(t, called)
}

func TestCommandBufferAppliesInOrder(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()

	slime := spawnTestSlime(w, Team1, Vec2{})
	buffer.Defer(slime.Entity(), func(w donburi.World, e *donburi.Entry) {
		HealthComponent.Get(e).Current = 5
	})
	buffer.Defer(slime.Entity(), func(w donburi.World, e *donburi.Entry) {
		HealthComponent.Get(e).Current++
	})

	buffer.Flush(w)
	assert.Equal(t, 6, HealthComponent.Get(slime).Current)
	assert.Equal(t, 0, buffer.Len())
}

// Flush中に積まれた操作も同じFlushで処理される（合体実行が合体後の個体に
// 追加処理を積むような入れ子をそのまま許す）
func TestCommandBufferFlushesNestedCommands(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()

	slime := spawnTestSlime(w, Team1, Vec2{})
	buffer.Defer(slime.Entity(), func(w donburi.World, e *donburi.Entry) {
		buffer.Defer(e.Entity(), func(w donburi.World, e *donburi.Entry) {
			HealthComponent.Get(e).Current = 1
		})
	})

	buffer.Flush(w)
	assert.Equal(t, 1, HealthComponent.Get(slime).Current)
}

func TestCommandBufferRemoveComponentIdempotent(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()

	slime := spawnTestSlime(w, Team1, Vec2{})
	buffer.RemoveComponent(slime.Entity(), SpeedComponent)
	buffer.RemoveComponent(slime.Entity(), SpeedComponent) // 二重でも安全
	buffer.Flush(w)
	assert.False(t, slime.HasComponent(SpeedComponent))
}

func TestCommandBufferDespawn(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()

	slime := spawnTestSlime(w, Team1, Vec2{})
	entity := slime.Entity()
	buffer.Despawn(entity)
	buffer.Despawn(entity) // 二重despawnも安全
	buffer.Flush(w)
	assert.False(t, w.Valid(entity))
}
