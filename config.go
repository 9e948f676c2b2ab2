package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// TeamID は所属チームの識別子
type TeamID int

const (
	Team1 TeamID = iota // プレイヤー側
	Team2               // 敵側
	TeamNone TeamID = -1
)

func (t TeamID) String() string {
	switch t {
	case Team1:
		return "チーム1"
	case Team2:
		return "チーム2"
	}
	return "なし"
}

// Opponent は敵対チームを返す
func (t TeamID) Opponent() TeamID {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// BalanceConfig は戦闘の調整値一式。game_settings.json の構造と一致する。
// 数値はすべて調整パラメータであり、アルゴリズムの形だけが契約。
type BalanceConfig struct {
	Time struct {
		PreBattleSeconds     float64 // 開戦前の待機時間
		SpawnIntervalSeconds float64 // 1体ごとの出現間隔
	}
	Targeting struct {
		SampleSize int // 近距離戦略が無作為抽出する候補数
	}
	Movement struct {
		StopDistance       float64 // ターゲットへの接近をやめる距離
		SeparationDistance float64 // これより近いペアは押し離される
		SeparationStrength float64
	}
	Merge struct {
		CheckIntervalSeconds float64 // 合体判定の間隔
		Range                float64 // 合体候補ペアの距離上限
		Chance               float64 // 判定1回・1ペアあたりの成立確率
		TelegraphSeconds     float64 // 予備動作の長さ
		WalkStopDistance     float64 // 合流地点への歩行をやめる距離
		ExecuteDistance      float64 // 両者がこの距離まで近づいたら合体実行
	}
	Battle struct {
		Team1Slimes int
		Team2Slimes int
	}
	SpawnZone struct {
		Team1XMin, Team1XMax float64
		Team2XMin, Team2XMax float64
		YMin, YMax           float64
	}
}

// Config はゲーム全体の設定
type Config struct {
	Balance BalanceConfig
}

// DefaultConfig は設定ファイルが無い場合に使う既定値を返す。
// テストと素の実行はこの値で動く。
func DefaultConfig() Config {
	var c Config
	b := &c.Balance

	b.Time.PreBattleSeconds = 3.0
	b.Time.SpawnIntervalSeconds = 0.1

	b.Targeting.SampleSize = 3

	b.Movement.StopDistance = 50.0
	b.Movement.SeparationDistance = 50.0
	b.Movement.SeparationStrength = 100.0

	b.Merge.CheckIntervalSeconds = 0.5
	b.Merge.Range = 100.0
	b.Merge.Chance = 0.05
	b.Merge.TelegraphSeconds = 0.6
	b.Merge.WalkStopDistance = 15.0
	b.Merge.ExecuteDistance = 40.0

	b.Battle.Team1Slimes = 5
	b.Battle.Team2Slimes = 5

	b.SpawnZone.Team1XMin = -500.0
	b.SpawnZone.Team1XMax = -100.0
	b.SpawnZone.Team2XMin = 100.0
	b.SpawnZone.Team2XMax = 500.0
	b.SpawnZone.YMin = -300.0
	b.SpawnZone.YMax = 300.0

	return c
}

// LoadConfig は game_settings.json から設定をロードする。
// ファイルが存在しない場合は既定値をそのまま返す（エラーにしない）。
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}
	if err := json.Unmarshal(data, &cfg.Balance); err != nil {
		return cfg, fmt.Errorf("game_settingsの解析に失敗しました: %w", err)
	}
	return cfg, nil
}
