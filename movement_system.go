package main

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// MovementSystem はターゲットへの接近と、スライム同士の重なり解消を行う。
type MovementSystem struct {
	cfg *Config
}

func NewMovementSystem(cfg *Config) *MovementSystem {
	return &MovementSystem{cfg: cfg}
}

func (s *MovementSystem) Update(world donburi.World, buffer *CommandBuffer, dt float64) {
	s.seek(world, buffer, dt)
	s.separate(world, dt)
}

// seek はターゲットに向かって直進する。停止距離より近ければ動かない。
// ターゲットが消えていたらTargetを外すだけで、この場で取り直しはしない
// （次ティックのターゲット選定に任せる）。
func (s *MovementSystem) seek(world donburi.World, buffer *CommandBuffer, dt float64) {
	stopDistance := s.cfg.Balance.Movement.StopDistance

	donburi.NewQuery(filter.And(
		filter.Contains(TargetComponent, PositionComponent, SpeedComponent),
		filter.Not(filter.Contains(InertComponent)),
		filter.Not(filter.Contains(DyingComponent)),
		filter.Not(filter.Contains(PreMergingComponent)),
		filter.Not(filter.Contains(MergingComponent)),
		filter.Not(filter.Contains(ActiveAttackComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		target := TargetComponent.Get(entry).Entity
		if !world.Valid(target) {
			buffer.RemoveComponent(entry.Entity(), TargetComponent)
			return
		}
		targetEntry := world.Entry(target)
		if !targetEntry.HasComponent(PositionComponent) || targetEntry.HasComponent(DyingComponent) {
			buffer.RemoveComponent(entry.Entity(), TargetComponent)
			return
		}

		pos := PositionComponent.Get(entry)
		targetPos := *PositionComponent.Get(targetEntry)
		delta := targetPos.Sub(*pos)
		if delta.Length() <= stopDistance {
			return
		}

		speed := SpeedComponent.Get(entry).Value
		step := delta.Normalized().Scale(speed * dt)
		*pos = pos.Add(step)
	})
}

type separationBody struct {
	entry *donburi.Entry
	pos   Vec2
	push  Vec2
}

// separate は近すぎるスライム同士を押し離す。押す力は距離に反比例して強まり、
// 両者に等量逆向きでかかる。位置のスナップショットに対して全ペアの力を
// 合算してから一度に適用するので、走査順に結果が依存しない。
func (s *MovementSystem) separate(world donburi.World, dt float64) {
	minDistance := s.cfg.Balance.Movement.SeparationDistance
	strength := s.cfg.Balance.Movement.SeparationStrength

	bodies := make([]*separationBody, 0, 16)
	donburi.NewQuery(filter.And(
		filter.Contains(SettingsComponent, PositionComponent),
		filter.Not(filter.Contains(DyingComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		bodies = append(bodies, &separationBody{
			entry: entry,
			pos:   *PositionComponent.Get(entry),
		})
	})

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			delta := b.pos.Sub(a.pos)
			dist := delta.Length()
			if dist >= minDistance || dist == 0 {
				// 完全に重なった2体は方向が定まらないので押さない。
				// 実際にはスポーン位置が散っているのでまず起きない。
				continue
			}
			force := (1 - dist/minDistance) * strength * dt
			dir := delta.Normalized()
			a.push = a.push.Sub(dir.Scale(force))
			b.push = b.push.Add(dir.Scale(force))
		}
	}

	for _, body := range bodies {
		if body.push.X == 0 && body.push.Y == 0 {
			continue
		}
		pos := PositionComponent.Get(body.entry)
		*pos = pos.Add(body.push)
	}
}
