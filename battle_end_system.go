package main

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// BattleEndSystem は決着判定を行う。
// 片方のチームの生存者（Dyingでない個体）が尽きたら、生き残り全員に
// 勝利ポーズを取らせてBattleEndedを一度だけ発行する。
// 出現演出や開戦前カウントの最中は全滅していても判定しない。
type BattleEndSystem struct {
	spawner *SpawnSystem
	ended   bool
	winner  TeamID
}

func NewBattleEndSystem(spawner *SpawnSystem) *BattleEndSystem {
	return &BattleEndSystem{spawner: spawner, winner: TeamNone}
}

func (s *BattleEndSystem) Ended() bool {
	return s.ended
}

func (s *BattleEndSystem) Winner() TeamID {
	return s.winner
}

func (s *BattleEndSystem) Update(world donburi.World, buffer *CommandBuffer) {
	if s.ended || s.spawner.Spawning() || !s.spawner.BattleStarted() {
		return
	}

	alive := map[TeamID]int{}
	donburi.NewQuery(filter.And(
		filter.Contains(SettingsComponent, HealthComponent),
		filter.Not(filter.Contains(DyingComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		alive[SettingsComponent.Get(entry).Team]++
	})

	if alive[Team1] > 0 && alive[Team2] > 0 {
		return
	}

	s.ended = true
	switch {
	case alive[Team1] > 0:
		s.winner = Team1
	case alive[Team2] > 0:
		s.winner = Team2
	default:
		s.winner = TeamNone // 相打ちで両軍全滅
	}

	if s.winner != TeamNone {
		s.celebrate(world, buffer, s.winner)
	}
	BattleEndedEventType.Publish(world, BattleEndedEvent{Winner: s.winner})
}

// celebrate は勝ったチームの生存者に勝利クリップを再生させる
func (s *BattleEndSystem) celebrate(world donburi.World, buffer *CommandBuffer, winner TeamID) {
	donburi.NewQuery(filter.And(
		filter.Contains(SettingsComponent, VictoryClipComponent),
		filter.Not(filter.Contains(DyingComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		if SettingsComponent.Get(entry).Team != winner {
			return
		}
		self := entry.Entity()
		buffer.Defer(self, func(w donburi.World, e *donburi.Entry) {
			for _, ctype := range []donburi.IComponentType{
				TargetComponent,
				ActiveAttackComponent,
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
			SetAnimation(e, VictoryClipComponent.Get(e).Clip)
		})
	})
}
