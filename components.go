package main

import (
	"github.com/yohamta/donburi"
)

// --- Componentの型定義 ---
// 各Componentにユニークな型情報を持たせる
var (
	SettingsComponent     = donburi.NewComponentType[Settings]()
	PositionComponent     = donburi.NewComponentType[Vec2]()
	HealthComponent       = donburi.NewComponentType[Health]()
	SpeedComponent        = donburi.NewComponentType[Speed]()
	TargetComponent       = donburi.NewComponentType[Target]()
	StrategyComponent     = donburi.NewComponentType[PickTargetStrategy]()
	KnownAttacksComponent = donburi.NewComponentType[KnownAttacks]()
	ActiveAttackComponent = donburi.NewComponentType[ActiveAttack]()
	IdleClipComponent     = donburi.NewComponentType[IdleClip]()
	DeathClipComponent    = donburi.NewComponentType[DeathClip]()
	VictoryClipComponent  = donburi.NewComponentType[VictoryClip]()
	AnimationComponent    = donburi.NewComponentType[AnimationState]()
	ClipSetComponent      = donburi.NewComponentType[ClipSet]()

	// --- 一時マーカー ---
	// 付いているか否か自体が状態を表すコンポーネント群。
	InertComponent      = donburi.NewComponentType[Inert]()
	StunTimerComponent  = donburi.NewComponentType[StunTimer]()
	DyingComponent      = donburi.NewComponentType[Dying]()
	PreMergingComponent = donburi.NewComponentType[PreMerging]()
	MergingComponent    = donburi.NewComponentType[Merging]()

	// --- 永続マーカー ---
	MergedSlimeComponent = donburi.NewComponentType[MergedSlime]()

	// --- 付随エンティティ ---
	EffectVisualComponent = donburi.NewComponentType[EffectVisual]()
)

// --- Componentの構造体定義 ---

// Settings はスライムの不変的な設定を保持する
type Settings struct {
	Name  string
	Team  TeamID
	Scale float64 // 表示側が参照する見た目の倍率
}

// Health は現在HPと最大HPを保持する。Currentは0未満にならない。
type Health struct {
	Current int
	Max     int
}

// Speed は移動速度（ユニット/秒）を保持する
type Speed struct {
	Value float64
}

// Target は現在追跡中の相手を弱参照で保持する。
// 相手は既にdespawn済みの可能性があるため、読む側は毎回 world.Valid で
// 生存確認をしなければならない。
type Target struct {
	Entity donburi.Entity
}

// PickTargetStrategy はターゲット選択アルゴリズムの種別
type PickTargetStrategy struct {
	Kind StrategyKind
}

type StrategyKind int

const (
	// StrategyClose は近距離優先。候補から最大3体をランダム抽出し、
	// その中の最短距離を選ぶ。全体ソートはしない。
	StrategyClose StrategyKind = iota
)

// KnownAttacks はスライムが使える攻撃の定義一覧。実行時には変化しない。
type KnownAttacks struct {
	Attacks []Attack
}

// Attack は攻撃1種の定義
type Attack struct {
	Clip     ClipID  // 攻撃アニメーション
	HitFrame int     // このフレームに達した時点でダメージが発生する（0始まり）
	Effect   AttackEffect
	Range    float64
}

// AttackEffect は攻撃が命中した際の効果
type AttackEffect struct {
	Damage      int
	Knockback   float64 // 即時に加算される押し戻し距離（速度積分ではない）
	StunChance  float64 // 0-1
	StunSeconds float64
}

// ActiveAttack は攻撃動作中にのみ存在する。
// HitTriggeredにより1回の攻撃で効果が二重適用されるのを防ぐ。
// 1体につき最大1つ。外れていること＝次の攻撃を選べる状態。
type ActiveAttack struct {
	Attack       Attack
	Target       donburi.Entity
	HitTriggered bool
}

// IdleClip は待機アニメーションをスライムごとに保持する。
// ここに持たせることで新しいスライム種別を特別扱いなしで追加できる。
type IdleClip struct {
	Clip ClipID
}

// DeathClip は死亡時に再生するアニメーション
type DeathClip struct {
	Clip ClipID
}

// VictoryClip はラウンド勝利時に再生するアニメーション
type VictoryClip struct {
	Clip ClipID
}

// Inert は行動停止マーカー。付いている間はターゲット選択・移動・攻撃選択の
// いずれからも除外される。気絶と開戦前の待機の両方で使う。
type Inert struct{}

// StunTimer は気絶の残り時間。0になった時点でInertと一緒に外れる。
type StunTimer struct {
	Remaining float64
}

// Dying は死亡処理中マーカー。死亡アニメーションの完了を待っている状態。
type Dying struct{}

// PreMerging は合体の予備動作（テレグラフ）フェーズ。
// 相方のPreMergingは必ずこちらを指し返していなければならない（相互参照）。
// MeetingPointはペア成立時に一度だけ計算した固定値。
type PreMerging struct {
	Remaining    float64
	Partner      donburi.Entity
	MeetingPoint Vec2
}

// Merging は合体の歩行フェーズ。合流地点へ向かって歩く。
type Merging struct {
	Partner      donburi.Entity
	MeetingPoint Vec2
}

// MergedSlime は合体済みスライムの永続マーカー。再合体の対象から外すために使う。
type MergedSlime struct{}

// EffectVisual は気絶マークや合体テレグラフなど、スライムに付随する
// 演出用の子エンティティ。Ownerが消えたら一緒にdespawnされる。
type EffectVisual struct {
	Owner donburi.Entity
	Kind  EffectVisualKind
}

type EffectVisualKind int

const (
	EffectVisualStun EffectVisualKind = iota
	EffectVisualMergeTelegraph
)
