package main

import (
	"log"
	"math/rand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// SpawnSystem は開戦処理を担う。
// 両チームのスライムを一定間隔で1体ずつ交互に出現させ、全員揃ってから
// 開戦前カウントを数え、満了と同時に全員の行動停止を解いて戦闘開始となる。
type SpawnSystem struct {
	cfg     *Config
	rng     *rand.Rand
	library *SlimeLibrary

	team1Left  int
	team2Left  int
	spawnTimer float64
	spawnIndex int

	preBattleLeft float64
	released      bool
}

func NewSpawnSystem(cfg *Config, rng *rand.Rand, library *SlimeLibrary) *SpawnSystem {
	return &SpawnSystem{
		cfg:           cfg,
		rng:           rng,
		library:       library,
		team1Left:     cfg.Balance.Battle.Team1Slimes,
		team2Left:     cfg.Balance.Battle.Team2Slimes,
		preBattleLeft: cfg.Balance.Time.PreBattleSeconds,
	}
}

// Spawning は出現演出がまだ続いているかを返す。決着判定の抑止に使う。
func (s *SpawnSystem) Spawning() bool {
	return s.team1Left > 0 || s.team2Left > 0
}

// BattleStarted は開戦前カウントが明けて戦闘が始まっているかを返す
func (s *SpawnSystem) BattleStarted() bool {
	return s.released
}

func (s *SpawnSystem) Update(world donburi.World, buffer *CommandBuffer, dt float64) {
	if s.Spawning() {
		s.spawnTimer += dt
		interval := s.cfg.Balance.Time.SpawnIntervalSeconds
		for s.spawnTimer >= interval && s.Spawning() {
			s.spawnTimer -= interval
			s.spawnPair(world, buffer)
		}
		return
	}

	if s.released {
		return
	}
	s.preBattleLeft -= dt
	if s.preBattleLeft > 0 {
		return
	}
	s.released = true
	s.releaseAll(world, buffer)
	log.Print("開戦。両チームの行動を解除しました")
}

// spawnPair は両チームから1体ずつ出現させる
func (s *SpawnSystem) spawnPair(world donburi.World, buffer *CommandBuffer) {
	s.spawnIndex++
	index := s.spawnIndex
	if s.team1Left > 0 {
		s.team1Left--
		s.spawnOne(buffer, Team1, index)
	}
	if s.team2Left > 0 {
		s.team2Left--
		s.spawnOne(buffer, Team2, index)
	}
}

func (s *SpawnSystem) spawnOne(buffer *CommandBuffer, team TeamID, index int) {
	zone := s.cfg.Balance.SpawnZone
	xMin, xMax := zone.Team1XMin, zone.Team1XMax
	if team == Team2 {
		xMin, xMax = zone.Team2XMin, zone.Team2XMax
	}
	pos := Vec2{
		X: xMin + s.rng.Float64()*(xMax-xMin),
		Y: zone.YMin + s.rng.Float64()*(zone.YMax-zone.YMin),
	}

	buffer.DeferWorld(func(w donburi.World) {
		def, ok := s.library.Slimes[SlimeIDNormal]
		if !ok {
			log.Printf("スライム定義 %s が見つからないため出現をスキップします", SlimeIDNormal)
			return
		}
		entry := CreateSlimeEntity(w, def, team, pos, index, true)
		log.Printf("%s が出現しました", SettingsComponent.Get(entry).Name)
	})
}

// releaseAll は開戦前待機で止まっている全個体のInertを外す。
// 気絶由来のInert（StunTimer持ち）はこの時点では存在しない想定だが、
// 念のため気絶タイマー側の管理下にある個体には触らない。
func (s *SpawnSystem) releaseAll(world donburi.World, buffer *CommandBuffer) {
	donburi.NewQuery(filter.And(
		filter.Contains(InertComponent),
		filter.Not(filter.Contains(StunTimerComponent)),
	)).Each(world, func(entry *donburi.Entry) {
		buffer.RemoveComponent(entry.Entity(), InertComponent)
	})
}
