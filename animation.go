package main

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// ClipID はアニメーションクリップの識別子。
// 戦闘コアはこのIDを書き換えるだけで、実際のスプライト表示は表示側の責務。
type ClipID string

const (
	ClipSlimeJumpIdle ClipID = "slime_jump_idle"
	ClipSlimeAttack   ClipID = "slime_attack"
	ClipSlimeHurt     ClipID = "slime_hurt"
	ClipSlimeDeath    ClipID = "slime_death"
	ClipSlimeVictory  ClipID = "slime_victory"

	ClipBigSlimeJumpIdle ClipID = "big_slime_jump_idle"
	ClipBigSlimeAttack   ClipID = "big_slime_attack"
	ClipBigSlimeDeath    ClipID = "big_slime_death"
	ClipBigSlimeVictory  ClipID = "big_slime_victory"
)

// Clip はクリップ1本の定義。フレーム数と1フレームあたりの秒数を持つ。
type Clip struct {
	ID           ClipID
	FrameCount   int
	FrameSeconds float64
	Looping      bool
}

// ClipSet はスライム1体が持つクリップ定義の束。
// 合体スライムは同じ構造でフレーム秒数の長い（＝動きの鈍い）クリップを持つ。
type ClipSet struct {
	Clips map[ClipID]Clip
}

func (cs *ClipSet) Lookup(id ClipID) (Clip, bool) {
	if cs == nil || cs.Clips == nil {
		return Clip{}, false
	}
	c, ok := cs.Clips[id]
	return c, ok
}

// AnimationState はクリップ再生の実行時状態。
// 戦闘システムはCurrentFrameを読んでヒットフレーム判定を行い、
// Finishedを読んで攻撃後処理や死亡despawnのタイミングを決める。
type AnimationState struct {
	Clip         ClipID
	CurrentFrame int
	FrameTimer   float64
	FrameSeconds float64
	TotalFrames  int
	Looping      bool
	Finished     bool
	Frozen       bool // 気絶中はtrue。進行が止まるだけで状態は保持される。
}

// Advance はdt秒ぶんフレームを進める
func (a *AnimationState) Advance(dt float64) {
	if a.Finished || a.Frozen || a.TotalFrames <= 0 || a.FrameSeconds <= 0 {
		return
	}

	a.FrameTimer += dt
	for a.FrameTimer >= a.FrameSeconds {
		a.FrameTimer -= a.FrameSeconds
		a.CurrentFrame++

		if a.CurrentFrame >= a.TotalFrames {
			if a.Looping {
				a.CurrentFrame = 0
			} else {
				a.CurrentFrame = a.TotalFrames - 1
				a.Finished = true
				return
			}
		}
	}
}

// newAnimationState はクリップ定義から再生状態を初期化する
func newAnimationState(c Clip) AnimationState {
	return AnimationState{
		Clip:         c.ID,
		FrameSeconds: c.FrameSeconds,
		TotalFrames:  c.FrameCount,
		Looping:      c.Looping,
	}
}

// SetAnimation はエンティティの再生クリップを切り替える。
// 未登録のクリップを指定された場合は何もしない（表示されないだけで致命傷ではない）。
func SetAnimation(entry *donburi.Entry, id ClipID) {
	if !entry.Valid() || !entry.HasComponent(ClipSetComponent) || !entry.HasComponent(AnimationComponent) {
		return
	}
	clip, ok := ClipSetComponent.Get(entry).Lookup(id)
	if !ok {
		return
	}
	AnimationComponent.SetValue(entry, newAnimationState(clip))
}

// UpdateAnimationSystem は全エンティティのアニメーションをdt秒ぶん進める。
// 凍結中（気絶）や、テレグラフでAnimationStateごと外されている個体は進まない。
func UpdateAnimationSystem(world donburi.World, dt float64) {
	donburi.NewQuery(filter.Contains(AnimationComponent)).Each(world, func(entry *donburi.Entry) {
		AnimationComponent.Get(entry).Advance(dt)
	})
}
