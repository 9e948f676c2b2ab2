package main

import (
	"math/rand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// TargetingSystem はターゲットを持たないスライムに新しい相手を割り当てる。
// 毎ティック再評価されるので、割り当てに失敗してもリトライ処理は要らない。
type TargetingSystem struct {
	cfg *Config
	rng *rand.Rand
}

func NewTargetingSystem(cfg *Config, rng *rand.Rand) *TargetingSystem {
	return &TargetingSystem{cfg: cfg, rng: rng}
}

type targetCandidate struct {
	entity donburi.Entity
	team   TeamID
	pos    Vec2
}

func (s *TargetingSystem) Update(world donburi.World, buffer *CommandBuffer) {
	// 候補プールは全生存スライム。死亡処理中の個体は誰の目標にもなれない。
	candidates := make([]targetCandidate, 0, 16)
	donburi.NewQuery(filter.And(
		filter.Contains(SettingsComponent, PositionComponent, HealthComponent),
		filter.Not(filter.Contains(DyingComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		candidates = append(candidates, targetCandidate{
			entity: entry.Entity(),
			team:   SettingsComponent.Get(entry).Team,
			pos:    *PositionComponent.Get(entry),
		})
	})

	donburi.NewQuery(filter.And(
		filter.Contains(StrategyComponent, SettingsComponent, PositionComponent),
		filter.Not(filter.Contains(TargetComponent)),
		filter.Not(filter.Contains(InertComponent)),
		filter.Not(filter.Contains(DyingComponent)),
		filter.Not(filter.Contains(PreMergingComponent)),
		filter.Not(filter.Contains(MergingComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		team := SettingsComponent.Get(entry).Team
		pos := *PositionComponent.Get(entry)

		var picked donburi.Entity
		var ok bool
		switch StrategyComponent.Get(entry).Kind {
		case StrategyClose:
			picked, ok = s.pickClose(entry.Entity(), team, pos, candidates)
		}
		if !ok {
			return // 敵対チームの候補がいない。来ティックまた探す。
		}

		self := entry.Entity()
		buffer.Defer(self, func(w donburi.World, e *donburi.Entry) {
			if e.HasComponent(TargetComponent) {
				return
			}
			e.AddComponent(TargetComponent)
			TargetComponent.SetValue(e, Target{Entity: picked})
		})
	})
}

// pickClose は敵対チームの候補から最大SampleSize体を無作為に抽出し、
// その中の最短距離を選ぶ。毎回全体を距離ソートすると全員が同じ最寄りの敵に
// 殺到するうえO(n²)になるため、わざと視野を限定している。
func (s *TargetingSystem) pickClose(self donburi.Entity, team TeamID, pos Vec2, candidates []targetCandidate) (donburi.Entity, bool) {
	enemies := make([]targetCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.team != team && c.entity != self {
			enemies = append(enemies, c)
		}
	}
	if len(enemies) == 0 {
		var zero donburi.Entity
		return zero, false
	}

	sampleSize := s.cfg.Balance.Targeting.SampleSize
	if sampleSize <= 0 {
		sampleSize = 1
	}
	if sampleSize > len(enemies) {
		sampleSize = len(enemies)
	}

	// 先頭sampleSize件だけの部分Fisher-Yatesで無作為抽出
	for i := 0; i < sampleSize; i++ {
		j := i + s.rng.Intn(len(enemies)-i)
		enemies[i], enemies[j] = enemies[j], enemies[i]
	}

	best := enemies[0]
	bestDist := pos.DistanceTo(best.pos)
	for _, c := range enemies[1:sampleSize] {
		if d := pos.DistanceTo(c.pos); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best.entity, true
}
