package main

import (
	"math/rand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// AttackSystem は攻撃の開始・命中フレーム同期・終了を司る。
// 1ティックの中で「終わった攻撃の後片付け」→「新しい攻撃の選択」の順に回すことで、
// 攻撃アニメが終わった個体が同じティックに次の攻撃へ移れる。
type AttackSystem struct {
	rng      *rand.Rand
	resolver *EffectResolver
}

func NewAttackSystem(rng *rand.Rand, resolver *EffectResolver) *AttackSystem {
	return &AttackSystem{rng: rng, resolver: resolver}
}

// Cleanup は攻撃クリップを再生し終えた個体からActiveAttackを外し、待機に戻す
func (s *AttackSystem) Cleanup(world donburi.World, buffer *CommandBuffer) {
	donburi.NewQuery(filter.Contains(ActiveAttackComponent, AnimationComponent)).Each(world, func(entry *donburi.Entry) {
		active := ActiveAttackComponent.Get(entry)
		anim := AnimationComponent.Get(entry)
		if anim.Clip != active.Attack.Clip || !anim.Finished {
			return
		}
		self := entry.Entity()
		buffer.Defer(self, func(w donburi.World, e *donburi.Entry) {
			if !e.HasComponent(ActiveAttackComponent) {
				return
			}
			e.RemoveComponent(ActiveAttackComponent)
			if e.HasComponent(IdleClipComponent) {
				SetAnimation(e, IdleClipComponent.Get(e).Clip)
			}
		})
	})
}

// Select は射程内にターゲットを捉えた個体に攻撃を開始させる。
// 射程内の攻撃が複数あれば無作為に1つ選ぶ。
func (s *AttackSystem) Select(world donburi.World, buffer *CommandBuffer) {
	donburi.NewQuery(filter.And(
		filter.Contains(TargetComponent, PositionComponent, KnownAttacksComponent, AnimationComponent),
		filter.Not(filter.Contains(ActiveAttackComponent)),
		filter.Not(filter.Contains(InertComponent)),
		filter.Not(filter.Contains(DyingComponent)),
		filter.Not(filter.Contains(PreMergingComponent)),
		filter.Not(filter.Contains(MergingComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		target := TargetComponent.Get(entry).Entity
		if !world.Valid(target) {
			return
		}
		targetEntry := world.Entry(target)
		if !targetEntry.HasComponent(PositionComponent) || targetEntry.HasComponent(DyingComponent) {
			return
		}

		dist := PositionComponent.Get(entry).DistanceTo(*PositionComponent.Get(targetEntry))
		known := KnownAttacksComponent.Get(entry)
		inRange := make([]Attack, 0, len(known.Attacks))
		for _, atk := range known.Attacks {
			if dist <= atk.Range {
				inRange = append(inRange, atk)
			}
		}
		if len(inRange) == 0 {
			return
		}
		chosen := inRange[s.rng.Intn(len(inRange))]

		self := entry.Entity()
		buffer.Defer(self, func(w donburi.World, e *donburi.Entry) {
			if e.HasComponent(ActiveAttackComponent) || e.HasComponent(DyingComponent) || e.HasComponent(InertComponent) {
				return
			}
			donburi.Add(e, ActiveAttackComponent, &ActiveAttack{
				Attack: chosen,
				Target: target,
			})
			SetAnimation(e, chosen.Clip)
		})
	})
}

// SyncHits は攻撃クリップが命中フレームに達した瞬間に効果を一度だけ適用する。
// HitTriggeredで多重適用を防ぐ。効果の適用自体は構造変更を含まないので
// 走査中にそのまま解決する（解決が積む構造変更はbuffer行き）。
func (s *AttackSystem) SyncHits(world donburi.World, buffer *CommandBuffer) {
	donburi.NewQuery(filter.Contains(ActiveAttackComponent, AnimationComponent, PositionComponent)).Each(world, func(entry *donburi.Entry) {
		active := ActiveAttackComponent.Get(entry)
		if active.HitTriggered {
			return
		}
		anim := AnimationComponent.Get(entry)
		if anim.Clip != active.Attack.Clip || anim.CurrentFrame < active.Attack.HitFrame {
			return
		}
		active.HitTriggered = true
		s.resolver.Resolve(world, buffer, entry, active.Target, active.Attack.Effect)
	})
}
