// termpet 在终端里养宠物：鼠标靠近就跟过来，点一下会跳，Esc / q 退出
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"codepet/config"
	"codepet/internal/ascii"
	"codepet/internal/term"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfgPath := flag.String("config", config.DefaultFile, "配置文件路径 (YAML)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("[termpet] %v (using defaults)", err)
		cfg = config.NewDefault()
	}
	if err := cfg.ValidateTuning(); err != nil {
		log.Printf("[termpet] pet not started: %v", err)
		return
	}

	// 终端初始化之后再打日志会把画面搞花，所以图片先读
	sprite, err := ascii.Load(cfg.ImagePath, term.SpriteWidth)
	if err != nil {
		log.Printf("[termpet] pet image not found, using fallback drawing: %v", err)
		sprite = term.FallbackSprite()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	pet, err := term.New(screen, cfg, sprite)
	if err != nil {
		screen.Fini()
		log.Printf("[termpet] pet not started: %v", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	pet.Run(ctx)
	stop()
	screen.Fini()
}
