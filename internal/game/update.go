package game

import (
	"log"

	"codepet/config"
	"codepet/internal/behavior"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type pointerEvent int

const (
	pointerNone pointerEvent = iota
	pointerMove
	pointerLeave
)

// pointerTracker 把每帧的鼠标坐标变成"移动 / 离开"事件
// 鼠标不动就不发事件
type pointerTracker struct {
	inside bool
	x, y   int
}

func (p *pointerTracker) step(x, y, w, h int) pointerEvent {
	inside := x >= 0 && x < w && y >= 0 && y < h
	switch {
	case inside && (!p.inside || x != p.x || y != p.y):
		p.inside, p.x, p.y = true, x, y
		return pointerMove
	case !inside && p.inside:
		p.inside = false
		return pointerLeave
	}
	return pointerNone
}

func (g *Manager) Update() error {
	// 1. ESC 关闭程序
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.rememberWindow()
		return ebiten.Termination
	}

	g.applyReload()

	// 2. 鼠标：靠近就跟随，离开窗口就回去闲逛
	mx, my := ebiten.CursorPosition()
	switch g.pointer.step(mx, my, g.width, g.height) {
	case pointerMove:
		g.MyPet.PointerMove(float64(mx), float64(my))
	case pointerLeave:
		g.MyPet.PointerLeave()
	}

	// 3. 左键点宠物：弹一下
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if g.MyPet.Click(float64(mx), float64(my)) {
			g.session.AddClick()
			g.chirp()
		}
	}

	// 4. 右键拖拽窗口
	g.drag(mx, my)

	g.MyPet.Tick()
	return nil
}

func (g *Manager) drag(mx, my int) {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		if !g.isDragging {
			// 刚按下的瞬间，记录鼠标相对于窗口的偏移量
			g.isDragging = true
			g.dragStartX = mx
			g.dragStartY = my
		} else {
			// 新窗口位置 = 当前窗口位置 + 鼠标位移
			wx, wy := ebiten.WindowPosition()
			ebiten.SetWindowPosition(wx+mx-g.dragStartX, wy+my-g.dragStartY)
		}
		return
	}

	if g.isDragging {
		g.isDragging = false
		g.rememberWindow()
	}
}

func (g *Manager) rememberWindow() {
	if g.cfg.RememberPosition {
		g.session.SetWindowPosition(ebiten.WindowPosition())
	}
}

// applyReload 配置文件改了就重新读；容器尺寸只在启动时读一次，这里忽略
func (g *Manager) applyReload() {
	if g.watcher == nil {
		return
	}

	select {
	case name, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		cfg, err := config.Load(name)
		if err == nil {
			cfg.Width, cfg.Height = g.width, g.height
			err = cfg.Validate()
		}
		if err == nil {
			err = g.MyPet.SetTuning(behavior.TuningFromConfig(cfg))
		}
		if err != nil {
			log.Printf("[Manager] reload %s ignored: %v", name, err)
			return
		}
		g.cfg = cfg
		g.applyOptions()
		log.Printf("[Manager] config reloaded")
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("[Manager] config watch: %v", err)
		}
	default:
	}
}
