package game

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"time"

	_ "image/png" // 必加，否则 image: unknown format

	"codepet/config"
	"codepet/internal/behavior"
	"codepet/internal/monitor"
	"codepet/internal/sound"
	"codepet/internal/store"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// 监控数据多久采一次
const monitorInterval = 2 * time.Second

type Manager struct {
	cfg     *config.Config
	cfgPath string

	MyPet  *behavior.Animator
	sprite *ebiten.Image // nil 表示图片没加载成功，画圆代替

	session *store.SessionStore
	watcher *config.Watcher
	chirper *sound.Chirper

	sampler       *monitor.Sampler
	stopMonitor   context.CancelFunc
	width, height int

	pointer    pointerTracker
	isDragging bool // 是否正在拖拽
	dragStartX int  // 拖拽开始时，鼠标相对于窗口的X
	dragStartY int  // 拖拽开始时，鼠标相对于窗口的Y
}

// NewManager 根据配置创建宠物；容器放不下宠物时返回 behavior.ErrNoContainer
func NewManager(cfg *config.Config, cfgPath string, session *store.SessionStore) (*Manager, error) {
	pet, err := behavior.New(float64(cfg.Width), float64(cfg.Height), behavior.TuningFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	if session == nil {
		session = store.NewSessionStore(nil)
	}

	return &Manager{
		cfg:     cfg,
		cfgPath: cfgPath,
		MyPet:   pet,
		session: session,
		width:   cfg.Width,
		height:  cfg.Height,
	}, nil
}

func (g *Manager) Init() {
	// 1. 读取图片，失败就用圆形代替
	img, err := loadSprite(g.cfg.ImagePath)
	if err != nil {
		log.Printf("[Manager] pet image not found, using fallback drawing: %v", err)
	} else {
		g.sprite = ebiten.NewImageFromImage(img)
	}

	// 2. 设置窗口：窗口就是宠物活动的容器
	ebiten.SetWindowSize(g.width, g.height)
	if x, y, ok := g.session.WindowPosition(); ok && g.cfg.RememberPosition {
		ebiten.SetWindowPosition(x, y)
	} else {
		ebiten.SetWindowPosition(200, 200)
	}

	// 3. 配置热更新
	if g.cfgPath != "" {
		w, err := config.NewWatcher(g.cfgPath)
		if err != nil {
			log.Printf("[Manager] config watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.applyOptions()
	g.MyPet.Start()
}

func loadSprite(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// applyOptions 按配置打开/关闭监控和声音（启动时和热更新后调用）
func (g *Manager) applyOptions() {
	switch {
	case g.cfg.ShowMonitor && g.sampler == nil:
		ctx, cancel := context.WithCancel(context.Background())
		g.sampler = monitor.NewSampler(monitorInterval)
		g.stopMonitor = cancel
		go g.sampler.Run(ctx)
	case !g.cfg.ShowMonitor && g.sampler != nil:
		g.stopMonitor()
		g.sampler, g.stopMonitor = nil, nil
	}

	if g.cfg.Sound && g.chirper == nil {
		ctx := audio.CurrentContext()
		if ctx == nil {
			ctx = audio.NewContext(sound.SampleRate)
		}
		g.chirper = sound.NewChirper(ctx)
	}
}

// chirp 点中宠物时叫一声；热更新关掉 sound 后 chirper 还在，这里要再看一次开关
func (g *Manager) chirp() {
	if g.cfg.Sound {
		g.chirper.Play()
	}
}

// Close 停下宠物和后台任务，保存会话
func (g *Manager) Close() {
	g.MyPet.Stop()

	if g.stopMonitor != nil {
		g.stopMonitor()
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if err := g.session.Save(); err != nil {
		log.Printf("[Manager] Warning: %v", err)
	}
}

func (g *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	// 告诉 Ebiten 画布大小就是容器大小
	return g.width, g.height
}
