package main

import (
	"flag"
	"log"

	"codepet/config"
	"codepet/internal/game"
	"codepet/internal/store"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfgPath := flag.String("config", config.DefaultFile, "配置文件路径 (YAML)")
	flag.Parse()

	// 1. 读配置，读不到就用默认的
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("[main] %v (using defaults)", err)
		cfg = config.NewDefault()
	}
	if err := cfg.Validate(); err != nil {
		// 放不下宠物就不启动，不算错误
		log.Printf("[main] pet not started: %v", err)
		return
	}

	// 2. 基础窗口设置
	ebiten.SetWindowDecorated(false) // 无边框
	ebiten.SetWindowFloating(true)   // 始终置顶
	ebiten.SetWindowTitle("codepet")

	// 3. 初始化逻辑
	mgr, err := game.NewManager(cfg, *cfgPath, store.Open())
	if err != nil {
		log.Printf("[main] pet not started: %v", err)
		return
	}
	mgr.Init() // 这里面会设置窗口大小和位置

	// 4. 启动（透明背景）
	err = ebiten.RunGameWithOptions(mgr, &ebiten.RunGameOptions{ScreenTransparent: true})
	mgr.Close()
	if err != nil {
		log.Fatal(err)
	}
}
