package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

// 攻撃の1サイクル（開始→命中フレーム→効果→後片付け）を通しで確認する
func TestAttackCycle(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()
	rng := testRng()
	attackSystem := NewAttackSystem(rng, NewEffectResolver(rng))

	attacker := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
	target := spawnTestSlime(w, Team2, Vec2{X: 50, Y: 0})
	donburi.Add(attacker, TargetComponent, &Target{Entity: target.Entity()})

	// 射程65に対して距離50なので攻撃開始
	attackSystem.Select(w, buffer)
	buffer.Flush(w)
	require.True(t, attacker.HasComponent(ActiveAttackComponent))
	active := ActiveAttackComponent.Get(attacker)
	assert.Equal(t, ClipSlimeAttack, active.Attack.Clip)
	assert.Equal(t, active.Attack.Clip, AnimationComponent.Get(attacker).Clip)
	assert.False(t, active.HitTriggered)

	// 命中フレーム（3フレーム目・0.1秒/フレーム）までは効果なし
	UpdateAnimationSystem(w, 0.25)
	attackSystem.SyncHits(w, buffer)
	buffer.Flush(w)
	assert.Equal(t, 10, HealthComponent.Get(target).Current)

	// 命中フレーム到達でダメージ2
	UpdateAnimationSystem(w, 0.1)
	attackSystem.SyncHits(w, buffer)
	buffer.Flush(w)
	assert.Equal(t, 8, HealthComponent.Get(target).Current)
	assert.True(t, ActiveAttackComponent.Get(attacker).HitTriggered)

	// 同じ攻撃で二度命中しない
	UpdateAnimationSystem(w, 0.1)
	attackSystem.SyncHits(w, buffer)
	buffer.Flush(w)
	assert.Equal(t, 8, HealthComponent.Get(target).Current)

	// クリップ再生完了で待機に戻る
	UpdateAnimationSystem(w, 1.0)
	require.True(t, AnimationComponent.Get(attacker).Finished)
	attackSystem.Cleanup(w, buffer)
	buffer.Flush(w)
	assert.False(t, attacker.HasComponent(ActiveAttackComponent))
	assert.Equal(t, ClipSlimeJumpIdle, AnimationComponent.Get(attacker).Clip)
}

func TestAttackNotSelectedOutOfRange(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()
	rng := testRng()
	attackSystem := NewAttackSystem(rng, NewEffectResolver(rng))

	attacker := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
	target := spawnTestSlime(w, Team2, Vec2{X: 200, Y: 0})
	donburi.Add(attacker, TargetComponent, &Target{Entity: target.Entity()})

	attackSystem.Select(w, buffer)
	buffer.Flush(w)
	assert.False(t, attacker.HasComponent(ActiveAttackComponent))
}

func TestAttackNotSelectedWhileGated(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()
	rng := testRng()
	attackSystem := NewAttackSystem(rng, NewEffectResolver(rng))

	target := spawnTestSlime(w, Team2, Vec2{X: 50, Y: 0})
	for _, gate := range []donburi.IComponentType{
		InertComponent,
		DyingComponent,
		PreMergingComponent,
		MergingComponent,
	} {
		attacker := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
		donburi.Add(attacker, TargetComponent, &Target{Entity: target.Entity()})
		attacker.AddComponent(gate)

		attackSystem.Select(w, buffer)
		buffer.Flush(w)
		assert.False(t, attacker.HasComponent(ActiveAttackComponent))
		w.Remove(attacker.Entity())
	}
}

// 命中フレームまでにターゲットが消えていても攻撃自体は空振りで完走する
func TestAttackHitAfterTargetDespawned(t *testing.T) {
	w := donburi.NewWorld()
	buffer := NewCommandBuffer()
	rng := testRng()
	attackSystem := NewAttackSystem(rng, NewEffectResolver(rng))

	attacker := spawnTestSlime(w, Team1, Vec2{X: 0, Y: 0})
	target := spawnTestSlime(w, Team2, Vec2{X: 50, Y: 0})
	donburi.Add(attacker, TargetComponent, &Target{Entity: target.Entity()})

	attackSystem.Select(w, buffer)
	buffer.Flush(w)
	require.True(t, attacker.HasComponent(ActiveAttackComponent))

	w.Remove(target.Entity())

	UpdateAnimationSystem(w, 0.35)
	attackSystem.SyncHits(w, buffer)
	buffer.Flush(w)
	assert.True(t, ActiveAttackComponent.Get(attacker).HitTriggered)
}
