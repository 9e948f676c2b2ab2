package main

import (
	"flag"
	"log"
	"math/rand"
	"time"
)

const tickSeconds = 1.0 / 60.0

func main() {
	var (
		seed       = flag.Int64("seed", 0, "乱数シード（0なら現在時刻）")
		configPath = flag.String("config", "game_settings.json", "バランス設定JSONのパス")
		slimesPath = flag.String("slimes", "slimes.yaml", "スライム定義YAMLのパス")
		maxSeconds = flag.Float64("max-seconds", 300, "シミュレーション打ち切り秒数")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	log.Printf("乱数シード: %d", *seed)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	library, err := LoadSlimeLibrary(*slimesPath)
	if err != nil {
		log.Fatalf("スライム定義の読み込みに失敗しました: %v", err)
	}

	scene := NewBattleScene(&cfg, library, rng)
	for !scene.Over() && scene.Elapsed() < *maxSeconds {
		scene.Update(tickSeconds)
	}

	if !scene.Over() {
		log.Printf("%.0f秒経過しても決着しなかったため打ち切ります", *maxSeconds)
		return
	}
	log.Printf("決着まで %.2f 秒", scene.Elapsed())
}
