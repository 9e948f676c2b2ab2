package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

func TestAnimationAdvanceLooping(t *testing.T) {
	anim := newAnimationState(Clip{ID: ClipSlimeJumpIdle, FrameCount: 4, FrameSeconds: 0.1, Looping: true})

	anim.Advance(0.25)
	assert.Equal(t, 2, anim.CurrentFrame)
	assert.False(t, anim.Finished)

	// ループクリップは末尾で先頭に巻き戻り、Finishedにならない
	anim.Advance(0.2)
	assert.Equal(t, 0, anim.CurrentFrame)
	assert.False(t, anim.Finished)
}

func TestAnimationAdvanceOneShot(t *testing.T) {
	anim := newAnimationState(Clip{ID: ClipSlimeDeath, FrameCount: 4, FrameSeconds: 0.1, Looping: false})

	// 非ループは最終フレームで止まってFinishedになる
	anim.Advance(1.0)
	assert.Equal(t, 3, anim.CurrentFrame)
	assert.True(t, anim.Finished)

	anim.Advance(1.0)
	assert.Equal(t, 3, anim.CurrentFrame)
}

func TestAnimationFrozenHoldsFrame(t *testing.T) {
	anim := newAnimationState(Clip{ID: ClipSlimeAttack, FrameCount: 7, FrameSeconds: 0.1, Looping: false})
	anim.Advance(0.2)
	require.Equal(t, 2, anim.CurrentFrame)

	anim.Frozen = true
	anim.Advance(1.0)
	assert.Equal(t, 2, anim.CurrentFrame, "凍結中はフレームが進まない")

	anim.Frozen = false
	anim.Advance(0.1)
	assert.Equal(t, 3, anim.CurrentFrame)
}

// 大きなdtでもフレーム送りは1フレームずつ消化される
func TestAnimationAdvanceLargeDelta(t *testing.T) {
	anim := newAnimationState(Clip{ID: ClipSlimeJumpIdle, FrameCount: 6, FrameSeconds: 0.1, Looping: true})
	anim.Advance(0.95)
	assert.Equal(t, 3, anim.CurrentFrame) // 9フレーム送り → 9 mod 6
}

func TestSetAnimationUnknownClipKeepsCurrent(t *testing.T) {
	w := donburi.NewWorld()
	slime := spawnTestSlime(w, Team1, Vec2{})

	before := AnimationComponent.Get(slime).Clip
	SetAnimation(slime, ClipID("no_such_clip"))
	assert.Equal(t, before, AnimationComponent.Get(slime).Clip)
}

func TestSetAnimationResetsState(t *testing.T) {
	w := donburi.NewWorld()
	slime := spawnTestSlime(w, Team1, Vec2{})

	UpdateAnimationSystem(w, 0.35)
	require.NotEqual(t, 0, AnimationComponent.Get(slime).CurrentFrame)

	SetAnimation(slime, ClipSlimeAttack)
	anim := AnimationComponent.Get(slime)
	assert.Equal(t, ClipSlimeAttack, anim.Clip)
	assert.Equal(t, 0, anim.CurrentFrame)
	assert.False(t, anim.Finished)
	assert.False(t, anim.Frozen)
}
