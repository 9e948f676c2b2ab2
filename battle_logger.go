package main

import (
	"log"

	"github.com/yohamta/donburi"
)

// BattleLogger は戦闘イベントを購読して実況ログを吐く。
// 戦闘システム側はイベントを発行するだけで、文言はここに集約する。
type BattleLogger struct {
	world donburi.World
}

func NewBattleLogger(world donburi.World) *BattleLogger {
	l := &BattleLogger{world: world}

	DamagedEventType.Subscribe(world, func(w donburi.World, ev DamagedEvent) {
		log.Printf("%s に %d ダメージ（残りHP %d）", l.name(ev.Target), ev.Amount, l.hp(ev.Target))
	})
	StunnedEventType.Subscribe(world, func(w donburi.World, ev StunnedEvent) {
		log.Printf("%s は気絶した（%.1f秒）", l.name(ev.Target), ev.Seconds)
	})
	SlimeDiedEventType.Subscribe(world, func(w donburi.World, ev SlimeDiedEvent) {
		log.Printf("%s は倒れた", ev.Name)
	})
	SlimesMergedEventType.Subscribe(world, func(w donburi.World, ev SlimesMergedEvent) {
		log.Printf("%sのスライム2体が合体して %s になった", ev.Team, l.name(ev.Merged))
	})
	BattleEndedEventType.Subscribe(world, func(w donburi.World, ev BattleEndedEvent) {
		if ev.Winner == TeamNone {
			log.Print("相打ちで両軍全滅。勝者なし")
			return
		}
		log.Printf("%s の勝利！", ev.Winner)
	})

	return l
}

// name はイベント処理時点での表示名を引く。既に消えていたら伏せ字。
func (l *BattleLogger) name(e donburi.Entity) string {
	if !l.world.Valid(e) {
		return "（消滅済み）"
	}
	entry := l.world.Entry(e)
	if !entry.HasComponent(SettingsComponent) {
		return "（名無し）"
	}
	return SettingsComponent.Get(entry).Name
}

func (l *BattleLogger) hp(e donburi.Entity) int {
	if !l.world.Valid(e) {
		return 0
	}
	entry := l.world.Entry(e)
	if !entry.HasComponent(HealthComponent) {
		return 0
	}
	return HealthComponent.Get(entry).Current
}
