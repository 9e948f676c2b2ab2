package main

import (
	"math/rand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// EffectResolver は命中した攻撃の効果（ダメージ・ノックバック・気絶）を
// 対象に適用する。対象が命中の瞬間までに消えていたり死亡処理中なら空振り。
type EffectResolver struct {
	rng *rand.Rand
}

func NewEffectResolver(rng *rand.Rand) *EffectResolver {
	return &EffectResolver{rng: rng}
}

func (r *EffectResolver) Resolve(world donburi.World, buffer *CommandBuffer, attacker *donburi.Entry, target donburi.Entity, effect AttackEffect) {
	if !world.Valid(target) {
		return
	}
	targetEntry := world.Entry(target)
	if !targetEntry.HasComponent(HealthComponent) || targetEntry.HasComponent(DyingComponent) {
		return
	}

	// ダメージ。HPは0で止め、死亡判定そのものは死亡システムに任せる。
	health := HealthComponent.Get(targetEntry)
	if health.Current > 0 {
		health.Current -= effect.Damage
		if health.Current < 0 {
			health.Current = 0
		}
		DamagedEventType.Publish(world, DamagedEvent{Target: target, Amount: effect.Damage})
	}

	// ノックバック。攻撃者から見た方向へ瞬間的に位置をずらす。
	// 速度ではなく位置の即時補正なのでdtは掛けない。
	if effect.Knockback > 0 && attacker.HasComponent(PositionComponent) && targetEntry.HasComponent(PositionComponent) {
		from := *PositionComponent.Get(attacker)
		pos := PositionComponent.Get(targetEntry)
		dir := pos.Sub(from).Normalized()
		*pos = pos.Add(dir.Scale(effect.Knockback))
	}

	// 気絶判定。倒した相手は気絶させない。
	if health.Current > 0 && effect.StunChance > 0 && r.rng.Float64() < effect.StunChance {
		r.applyStun(world, buffer, target, effect.StunSeconds)
	}
}

// applyStun は対象を気絶させる。既に気絶中なら残り時間を上書きして延長する。
// 攻撃の中断・アニメ凍結・気絶エフェクトの生成まで一式ここで積む。
func (r *EffectResolver) applyStun(world donburi.World, buffer *CommandBuffer, target donburi.Entity, seconds float64) {
	buffer.Defer(target, func(w donburi.World, e *donburi.Entry) {
		if e.HasComponent(DyingComponent) {
			return
		}

		if e.HasComponent(StunTimerComponent) {
			StunTimerComponent.Get(e).Remaining = seconds
			return
		}

		donburi.Add(e, StunTimerComponent, &StunTimer{Remaining: seconds})
		if !e.HasComponent(InertComponent) {
			donburi.Add(e, InertComponent, &Inert{})
		}
		if e.HasComponent(ActiveAttackComponent) {
			e.RemoveComponent(ActiveAttackComponent)
		}
		if e.HasComponent(AnimationComponent) {
			AnimationComponent.Get(e).Frozen = true
		}
		CreateEffectVisualEntity(w, e.Entity(), EffectVisualStun)
	})
	StunnedEventType.Publish(world, StunnedEvent{Target: target, Seconds: seconds})
}

// StunSystem は気絶タイマーを進め、切れた個体を行動可能に戻す
type StunSystem struct{}

func NewStunSystem() *StunSystem {
	return &StunSystem{}
}

func (s *StunSystem) Update(world donburi.World, buffer *CommandBuffer, dt float64) {
	donburi.NewQuery(filter.Contains(StunTimerComponent)).Each(world, func(entry *donburi.Entry) {
		timer := StunTimerComponent.Get(entry)
		timer.Remaining -= dt
		if timer.Remaining > 0 {
			return
		}

		self := entry.Entity()
		buffer.Defer(self, func(w donburi.World, e *donburi.Entry) {
			if !e.HasComponent(StunTimerComponent) {
				return
			}
			e.RemoveComponent(StunTimerComponent)
			if e.HasComponent(InertComponent) {
				e.RemoveComponent(InertComponent)
			}
			if e.HasComponent(AnimationComponent) {
				AnimationComponent.Get(e).Frozen = false
			}
			if e.HasComponent(IdleClipComponent) {
				SetAnimation(e, IdleClipComponent.Get(e).Clip)
			}
			despawnEffectVisuals(w, self, EffectVisualStun)
		})
	})
}

// CleanupOrphanVisuals はオーナーを失ったエフェクトを掃除する。
// 通常はオーナーの状態遷移と一緒に消えるが、合体実行のように
// オーナーが別経路でdespawnされた場合の取りこぼしをここで拾う。
func CleanupOrphanVisuals(world donburi.World, buffer *CommandBuffer) {
	donburi.NewQuery(filter.Contains(EffectVisualComponent)).Each(world, func(entry *donburi.Entry) {
		if !world.Valid(EffectVisualComponent.Get(entry).Owner) {
			buffer.Despawn(entry.Entity())
		}
	})
}

// despawnEffectVisuals は指定オーナーに紐づく種別一致のエフェクトを消す。
// Flush中に呼ばれるので構造変更を直接行って構わない。
func despawnEffectVisuals(world donburi.World, owner donburi.Entity, kind EffectVisualKind) {
	doomed := make([]donburi.Entity, 0, 2)
	donburi.NewQuery(filter.Contains(EffectVisualComponent)).Each(world, func(entry *donburi.Entry) {
		v := EffectVisualComponent.Get(entry)
		if v.Owner == owner && v.Kind == kind {
			doomed = append(doomed, entry.Entity())
		}
	})
	for _, e := range doomed {
		world.Remove(e)
	}
}
