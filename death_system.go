package main

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// DeathSystem は死亡処理の2段階を扱う。
// Mark: HPが尽きた個体をDyingにして戦闘から切り離し、死亡クリップを再生する。
// Finish: 死亡クリップを再生し終えた個体を盤面から取り除く。
// Dying中の個体は攻撃もされず、合体相手にも選ばれず、誰のターゲットにもならない。
type DeathSystem struct{}

func NewDeathSystem() *DeathSystem {
	return &DeathSystem{}
}

// Mark はHP0の個体を死亡処理に入れる
func (s *DeathSystem) Mark(world donburi.World, buffer *CommandBuffer) {
	donburi.NewQuery(filter.And(
		filter.Contains(HealthComponent, SettingsComponent),
		filter.Not(filter.Contains(DyingComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		if HealthComponent.Get(entry).Current > 0 {
			return
		}

		settings := SettingsComponent.Get(entry)
		self := entry.Entity()
		buffer.Defer(self, func(w donburi.World, e *donburi.Entry) {
			if e.HasComponent(DyingComponent) || HealthComponent.Get(e).Current > 0 {
				return
			}
			donburi.Add(e, DyingComponent, &Dying{})

			// 行動に関わるコンポーネントを全て剥がし、倒れるだけの存在にする
			for _, ctype := range []donburi.IComponentType{
				SpeedComponent,
				TargetComponent,
				ActiveAttackComponent,
				StunTimerComponent,
				InertComponent,
				PreMergingComponent,
				MergingComponent,
			} {
				if e.HasComponent(ctype) {
					e.RemoveComponent(ctype)
				}
			}

			if !e.HasComponent(AnimationComponent) {
				e.AddComponent(AnimationComponent)
			}
			AnimationComponent.Get(e).Frozen = false
			if e.HasComponent(DeathClipComponent) {
				SetAnimation(e, DeathClipComponent.Get(e).Clip)
			}

			despawnEffectVisuals(w, self, EffectVisualStun)
			despawnEffectVisuals(w, self, EffectVisualMergeTelegraph)
			s.clearTargetsOn(w, self)

			SlimeDiedEventType.Publish(w, SlimeDiedEvent{
				Entity: self,
				Team:   settings.Team,
				Name:   settings.Name,
			})
		})
	})
}

// clearTargetsOn は死んだ個体を狙っていた全員のターゲットを外す。
// Flush中に呼ばれる前提で構造変更を直接行う。
func (s *DeathSystem) clearTargetsOn(world donburi.World, dead donburi.Entity) {
	stale := make([]donburi.Entity, 0, 4)
	donburi.NewQuery(filter.Contains(TargetComponent)).Each(world, func(entry *donburi.Entry) {
		if TargetComponent.Get(entry).Entity == dead {
			stale = append(stale, entry.Entity())
		}
	})
	for _, e := range stale {
		entry := world.Entry(e)
		if entry.HasComponent(TargetComponent) {
			entry.RemoveComponent(TargetComponent)
		}
	}
}

// Finish は死亡クリップを再生し終えた個体をdespawnする
func (s *DeathSystem) Finish(world donburi.World, buffer *CommandBuffer) {
	donburi.NewQuery(filter.Contains(DyingComponent, AnimationComponent)).Each(world, func(entry *donburi.Entry) {
		if !AnimationComponent.Get(entry).Finished {
			return
		}
		buffer.Despawn(entry.Entity())
	})
}
