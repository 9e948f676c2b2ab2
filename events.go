package main

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// 戦闘コアが発行するイベント群。
// 発行側（戦闘システム）は購読者を知らない。音声・演出・UIなどの
// 消費者はここを購読するだけで、戦闘ロジックに手を入れずに反応できる。
// イベントはティック内の決まった地点で同期的に処理される（次ティック回しにしない）。

// DamagedEvent はダメージ適用のたびに発行される
type DamagedEvent struct {
	Target donburi.Entity
	Amount int
}

// StunnedEvent は気絶の成立時に発行される
type StunnedEvent struct {
	Target  donburi.Entity
	Seconds float64
}

// SlimeDiedEvent は死亡処理の開始時（Dying付与時）に発行される
type SlimeDiedEvent struct {
	Entity donburi.Entity
	Team   TeamID
	Name   string
}

// SlimesMergedEvent は合体の実行時に発行される
type SlimesMergedEvent struct {
	Merged donburi.Entity
	Team   TeamID
}

// BattleEndedEvent は片方のチームが全滅した時に一度だけ発行される
type BattleEndedEvent struct {
	Winner TeamID // 両軍全滅の場合は TeamNone
}

var (
	DamagedEventType      = events.NewEventType[DamagedEvent]()
	StunnedEventType      = events.NewEventType[StunnedEvent]()
	SlimeDiedEventType    = events.NewEventType[SlimeDiedEvent]()
	SlimesMergedEventType = events.NewEventType[SlimesMergedEvent]()
	BattleEndedEventType  = events.NewEventType[BattleEndedEvent]()
)
