package main

import (
	"fmt"

	"github.com/yohamta/donburi"
)

// CreateSlimeEntity は定義からスライム1体ぶんのエンティティを生成する。
// inertがtrueの場合は開戦前待機として行動停止状態で出現する。
func CreateSlimeEntity(world donburi.World, def *SlimeDefinition, team TeamID, pos Vec2, index int, inert bool) *donburi.Entry {
	entry := world.Entry(world.Create(
		SettingsComponent,
		PositionComponent,
		HealthComponent,
		SpeedComponent,
		StrategyComponent,
		KnownAttacksComponent,
		IdleClipComponent,
		DeathClipComponent,
		VictoryClipComponent,
		ClipSetComponent,
		AnimationComponent,
	))

	SettingsComponent.SetValue(entry, Settings{
		Name:  fmt.Sprintf("%s%s%d号", team, def.Name, index),
		Team:  team,
		Scale: def.Scale,
	})
	PositionComponent.SetValue(entry, pos)
	HealthComponent.SetValue(entry, Health{Current: def.Health, Max: def.Health})
	SpeedComponent.SetValue(entry, Speed{Value: def.Speed})
	StrategyComponent.SetValue(entry, PickTargetStrategy{Kind: StrategyClose})
	KnownAttacksComponent.SetValue(entry, def.BuildAttacks())
	IdleClipComponent.SetValue(entry, IdleClip{Clip: ClipID(def.Idle.Clip)})
	DeathClipComponent.SetValue(entry, DeathClip{Clip: ClipID(def.Death.Clip)})
	VictoryClipComponent.SetValue(entry, VictoryClip{Clip: ClipID(def.Victory.Clip)})
	ClipSetComponent.SetValue(entry, def.BuildClipSet())
	SetAnimation(entry, ClipID(def.Idle.Clip))

	if inert {
		entry.AddComponent(InertComponent)
	}

	return entry
}

// CreateMergedSlimeEntity は合体実行時の新個体を生成する。
// 開戦前待機は付けない（出現した瞬間から戦闘に参加する）。
// MergedSlimeマーカーにより再合体の対象にはならない。
func CreateMergedSlimeEntity(world donburi.World, def *SlimeDefinition, team TeamID, pos Vec2) *donburi.Entry {
	entry := CreateSlimeEntity(world, def, team, pos, 1, false)
	entry.AddComponent(MergedSlimeComponent)
	return entry
}

// CreateEffectVisualEntity は気絶マークなどの付随演出エンティティを生成する
func CreateEffectVisualEntity(world donburi.World, owner donburi.Entity, kind EffectVisualKind) *donburi.Entry {
	entry := world.Entry(world.Create(EffectVisualComponent))
	EffectVisualComponent.SetValue(entry, EffectVisual{Owner: owner, Kind: kind})
	return entry
}
