package main

import (
	"math/rand"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// BattleScene は1回の戦闘シミュレーションを丸ごと保持する。
// Updateを固定dtで呼び続けると戦闘が進行し、Over()がtrueになったら決着。
//
// ティック内のシステム実行順は結果に直結するため固定:
// 出現 → アニメ進行 → ターゲット選定 → 移動・分離 → 攻撃後片付け →
// 攻撃開始 → 命中同期と効果 → 死亡マーク → 気絶タイマー → 合体 →
// 死亡完了 → 決着判定。
// 構造変更は各システムの後にまとめてFlushする。
type BattleScene struct {
	world   donburi.World
	cfg     *Config
	library *SlimeLibrary
	rng     *rand.Rand
	buffer  *CommandBuffer

	spawnSystem     *SpawnSystem
	targetingSystem *TargetingSystem
	movementSystem  *MovementSystem
	attackSystem    *AttackSystem
	stunSystem      *StunSystem
	mergeSystem     *MergeSystem
	deathSystem     *DeathSystem
	endSystem       *BattleEndSystem

	logger *BattleLogger

	elapsed float64
}

func NewBattleScene(cfg *Config, library *SlimeLibrary, rng *rand.Rand) *BattleScene {
	world := donburi.NewWorld()
	resolver := NewEffectResolver(rng)
	spawnSystem := NewSpawnSystem(cfg, rng, library)

	scene := &BattleScene{
		world:           world,
		cfg:             cfg,
		library:         library,
		rng:             rng,
		buffer:          NewCommandBuffer(),
		spawnSystem:     spawnSystem,
		targetingSystem: NewTargetingSystem(cfg, rng),
		movementSystem:  NewMovementSystem(cfg),
		attackSystem:    NewAttackSystem(rng, resolver),
		stunSystem:      NewStunSystem(),
		mergeSystem:     NewMergeSystem(cfg, rng, library),
		deathSystem:     NewDeathSystem(),
		endSystem:       NewBattleEndSystem(spawnSystem),
		logger:          NewBattleLogger(world),
	}
	return scene
}

// Update は戦闘を1ティック進める
func (s *BattleScene) Update(dt float64) {
	s.elapsed += dt

	s.spawnSystem.Update(s.world, s.buffer, dt)
	s.flush()

	UpdateAnimationSystem(s.world, dt)

	s.targetingSystem.Update(s.world, s.buffer)
	s.flush()

	s.movementSystem.Update(s.world, s.buffer, dt)
	s.flush()

	s.attackSystem.Cleanup(s.world, s.buffer)
	s.flush()
	s.attackSystem.Select(s.world, s.buffer)
	s.flush()
	s.attackSystem.SyncHits(s.world, s.buffer)
	s.flush()

	s.deathSystem.Mark(s.world, s.buffer)
	s.flush()

	s.stunSystem.Update(s.world, s.buffer, dt)
	s.flush()

	s.mergeSystem.Update(s.world, s.buffer, dt)
	s.flush()

	s.deathSystem.Finish(s.world, s.buffer)
	s.flush()

	CleanupOrphanVisuals(s.world, s.buffer)
	s.flush()

	s.endSystem.Update(s.world, s.buffer)
	s.flush()
}

// flush は構造変更を適用し、そこまでに発行されたイベントを購読者へ流す
func (s *BattleScene) flush() {
	s.buffer.Flush(s.world)
	events.ProcessAllEvents(s.world)
}

// Over は決着していればtrueを返す
func (s *BattleScene) Over() bool {
	return s.endSystem.Ended()
}

// Winner は勝利チームを返す。未決着・相打ちはTeamNone。
func (s *BattleScene) Winner() TeamID {
	if !s.endSystem.Ended() {
		return TeamNone
	}
	return s.endSystem.Winner()
}

// Elapsed は開始からの経過秒数を返す
func (s *BattleScene) Elapsed() float64 {
	return s.elapsed
}

// World はテストや表示側向けにワールドを公開する
func (s *BattleScene) World() donburi.World {
	return s.world
}
