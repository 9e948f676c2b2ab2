package main

import (
	"math/rand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// MergeSystem は同チーム2体の合体を扱う。
// 流れは 抽選 → 予備動作（テレグラフ）→ 合流歩行 → 実行 の4段階で、
// 途中で相方が倒れたり消えたりしたら残された側は通常戦闘に復帰する。
type MergeSystem struct {
	cfg       *Config
	rng       *rand.Rand
	library   *SlimeLibrary
	checkTime float64
}

func NewMergeSystem(cfg *Config, rng *rand.Rand, library *SlimeLibrary) *MergeSystem {
	return &MergeSystem{cfg: cfg, rng: rng, library: library}
}

func (s *MergeSystem) Update(world donburi.World, buffer *CommandBuffer, dt float64) {
	s.checkTime += dt
	if s.checkTime >= s.cfg.Balance.Merge.CheckIntervalSeconds {
		s.checkTime = 0
		s.check(world, buffer)
	}
	s.telegraph(world, buffer, dt)
	s.walk(world, dt)
	s.execute(world, buffer)
	s.cancelOrphans(world, buffer)
}

type mergeCandidate struct {
	entity donburi.Entity
	team   TeamID
	pos    Vec2
}

// check は合体の抽選を行う。抽選対象は自由に行動できる通常スライムのみ。
// 成立したペアは双方PreMergingに入り、ターゲットとアニメーションを失う
// （予備動作中は静止してぷるぷる震える想定。震え演出は表示側の責務）。
func (s *MergeSystem) check(world donburi.World, buffer *CommandBuffer) {
	mergeRange := s.cfg.Balance.Merge.Range
	chance := s.cfg.Balance.Merge.Chance

	candidates := make([]mergeCandidate, 0, 16)
	donburi.NewQuery(filter.And(
		filter.Contains(SettingsComponent, PositionComponent, HealthComponent),
		filter.Not(filter.Contains(InertComponent)),
		filter.Not(filter.Contains(DyingComponent)),
		filter.Not(filter.Contains(ActiveAttackComponent)),
		filter.Not(filter.Contains(PreMergingComponent)),
		filter.Not(filter.Contains(MergingComponent)),
		filter.Not(filter.Contains(MergedSlimeComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		candidates = append(candidates, mergeCandidate{
			entity: entry.Entity(),
			team:   SettingsComponent.Get(entry).Team,
			pos:    *PositionComponent.Get(entry),
		})
	})

	claimed := map[donburi.Entity]bool{}
	for i := 0; i < len(candidates); i++ {
		if claimed[candidates[i].entity] {
			continue
		}
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if claimed[a.entity] || claimed[b.entity] {
				continue
			}
			if a.team != b.team || a.pos.DistanceTo(b.pos) > mergeRange {
				continue
			}
			if s.rng.Float64() >= chance {
				continue
			}
			claimed[a.entity] = true
			claimed[b.entity] = true
			s.beginPreMerge(buffer, a.entity, b.entity, Midpoint(a.pos, b.pos))
			break
		}
	}
}

func (s *MergeSystem) beginPreMerge(buffer *CommandBuffer, a, b donburi.Entity, meetingPoint Vec2) {
	telegraph := s.cfg.Balance.Merge.TelegraphSeconds
	start := func(self, partner donburi.Entity) {
		buffer.Defer(self, func(w donburi.World, e *donburi.Entry) {
			// 抽選からFlushまでの間に攻撃や死亡が割り込んだら合体は流す
			if e.HasComponent(DyingComponent) || e.HasComponent(ActiveAttackComponent) ||
				e.HasComponent(PreMergingComponent) || e.HasComponent(MergingComponent) {
				return
			}
			donburi.Add(e, PreMergingComponent, &PreMerging{
				Remaining:    telegraph,
				Partner:      partner,
				MeetingPoint: meetingPoint,
			})
			if e.HasComponent(TargetComponent) {
				e.RemoveComponent(TargetComponent)
			}
			if e.HasComponent(AnimationComponent) {
				e.RemoveComponent(AnimationComponent)
			}
			CreateEffectVisualEntity(w, e.Entity(), EffectVisualMergeTelegraph)
		})
	}
	start(a, b)
	start(b, a)
}

// telegraph は予備動作の残り時間を進め、満了したらMergingに遷移させる。
// 遷移時にアニメーションを待機クリップで復元する。
func (s *MergeSystem) telegraph(world donburi.World, buffer *CommandBuffer, dt float64) {
	donburi.NewQuery(filter.Contains(PreMergingComponent)).Each(world, func(entry *donburi.Entry) {
		pre := PreMergingComponent.Get(entry)
		pre.Remaining -= dt
		if pre.Remaining > 0 {
			return
		}

		partner := pre.Partner
		meetingPoint := pre.MeetingPoint
		self := entry.Entity()
		buffer.Defer(self, func(w donburi.World, e *donburi.Entry) {
			if !e.HasComponent(PreMergingComponent) {
				return
			}
			e.RemoveComponent(PreMergingComponent)
			donburi.Add(e, MergingComponent, &Merging{
				Partner:      partner,
				MeetingPoint: meetingPoint,
			})
			s.restoreAnimation(e)
			despawnEffectVisuals(w, self, EffectVisualMergeTelegraph)
		})
	})
}

func (s *MergeSystem) restoreAnimation(entry *donburi.Entry) {
	if !entry.HasComponent(AnimationComponent) {
		entry.AddComponent(AnimationComponent)
	}
	if entry.HasComponent(IdleClipComponent) {
		SetAnimation(entry, IdleClipComponent.Get(entry).Clip)
	}
}

// walk は合流地点へ歩かせる。十分近づいたら止まって相方を待つ。
// 気絶中は歩けない（合流は気絶が明けてから再開する）。
func (s *MergeSystem) walk(world donburi.World, dt float64) {
	stopDistance := s.cfg.Balance.Merge.WalkStopDistance

	donburi.NewQuery(filter.And(
		filter.Contains(MergingComponent, PositionComponent, SpeedComponent),
		filter.Not(filter.Contains(InertComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		merging := MergingComponent.Get(entry)
		pos := PositionComponent.Get(entry)
		delta := merging.MeetingPoint.Sub(*pos)
		if delta.Length() <= stopDistance {
			return
		}
		speed := SpeedComponent.Get(entry).Value
		*pos = pos.Add(delta.Normalized().Scale(speed * dt))
	})
}

// execute は両者が十分近づいたペアを合体させる。
// 2体をdespawnし、中間地点に合体スライムを1体生成する。
// ペアの両側から同じ走査で見えるので、若い側だけが実行して二重生成を防ぐ。
func (s *MergeSystem) execute(world donburi.World, buffer *CommandBuffer) {
	executeDistance := s.cfg.Balance.Merge.ExecuteDistance

	donburi.NewQuery(filter.Contains(MergingComponent, PositionComponent, SettingsComponent)).Each(world, func(entry *donburi.Entry) {
		merging := MergingComponent.Get(entry)
		partner := merging.Partner
		if !world.Valid(partner) {
			return
		}
		partnerEntry := world.Entry(partner)
		if !partnerEntry.HasComponent(MergingComponent) || !partnerEntry.HasComponent(PositionComponent) {
			return
		}
		// 相方が自分を指していることを確認する（片側だけ別ペアに入り直した場合の保険）
		if MergingComponent.Get(partnerEntry).Partner != entry.Entity() {
			return
		}
		pos := *PositionComponent.Get(entry)
		partnerPos := *PositionComponent.Get(partnerEntry)
		if pos.DistanceTo(partnerPos) > executeDistance {
			return
		}

		self := entry.Entity()
		if partner.Id() < self.Id() {
			return // 実行役は若い方に譲る
		}

		team := SettingsComponent.Get(entry).Team
		spawnAt := Midpoint(pos, partnerPos)
		buffer.DeferWorld(func(w donburi.World) {
			// Flush時点で両方まだ生きているペアだけ実行する
			if !w.Valid(self) || !w.Valid(partner) {
				return
			}
			if !w.Entry(self).HasComponent(MergingComponent) || !w.Entry(partner).HasComponent(MergingComponent) {
				return
			}
			despawnEffectVisuals(w, self, EffectVisualMergeTelegraph)
			despawnEffectVisuals(w, partner, EffectVisualMergeTelegraph)
			w.Remove(self)
			w.Remove(partner)

			def, ok := s.library.Slimes[SlimeIDMerged]
			if !ok {
				return
			}
			merged := CreateMergedSlimeEntity(w, def, team, spawnAt)
			SlimesMergedEventType.Publish(w, SlimesMergedEvent{Merged: merged.Entity(), Team: team})
		})
	})
}

// cancelOrphans は相方を失った（消滅・死亡処理入り）側を通常戦闘に戻す
func (s *MergeSystem) cancelOrphans(world donburi.World, buffer *CommandBuffer) {
	cancel := func(entry *donburi.Entry, partner donburi.Entity, ctype donburi.IComponentType) {
		if world.Valid(partner) {
			partnerEntry := world.Entry(partner)
			if !partnerEntry.HasComponent(DyingComponent) {
				return
			}
		}
		self := entry.Entity()
		buffer.Defer(self, func(w donburi.World, e *donburi.Entry) {
			if !e.HasComponent(ctype) {
				return
			}
			e.RemoveComponent(ctype)
			s.restoreAnimation(e)
			despawnEffectVisuals(w, self, EffectVisualMergeTelegraph)
		})
	}

	donburi.NewQuery(filter.Contains(PreMergingComponent)).Each(world, func(entry *donburi.Entry) {
		cancel(entry, PreMergingComponent.Get(entry).Partner, PreMergingComponent)
	})
	donburi.NewQuery(filter.Contains(MergingComponent)).Each(world, func(entry *donburi.Entry) {
		cancel(entry, MergingComponent.Get(entry).Partner, MergingComponent)
	})
}
