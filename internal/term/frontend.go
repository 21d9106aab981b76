// Package term 在终端里用字符画养宠物，运动模型和桌面版共用 behavior.Animator。
package term

import (
	"context"
	"image/color"
	"math"
	"time"

	"codepet/config"
	"codepet/internal/ascii"
	"codepet/internal/behavior"

	"github.com/gdamore/tcell/v2"
)

// 一个字符格对应多少个动画单位。字符高大约是宽的 2 倍
const (
	CellW = 8.0
	CellH = 16.0
)

// SpriteWidth 图片转成字符画的宽度（字符数）
const SpriteWidth = 12

const frameRate = 60

// 没有图片时的保底字符画
var fallbackLines = []string{
	` /\_/\ `,
	`( o.o )`,
	` > ^ < `,
}

var fallbackColor = color.RGBA{0x2c, 0x98, 0xf0, 0xff}

// FallbackSprite 图片加载失败时用的字符画
func FallbackSprite() ascii.Sprite {
	return ascii.FromLines(fallbackLines, fallbackColor)
}

type Frontend struct {
	screen tcell.Screen
	pet    *behavior.Animator

	sprite   ascii.Sprite
	mirrored ascii.Sprite
	color    bool

	lastX, lastY int
	hasPointer   bool
	pressed      bool
}

// New 以当前终端大小为容器创建宠物；参数不合法时返回 config.ErrInvalid，
// 终端太小时返回 behavior.ErrNoContainer。
// 宠物尺寸按字符画的大小算，cfg.Size 在终端里不用。
func New(screen tcell.Screen, cfg *config.Config, sprite ascii.Sprite, opts ...behavior.Option) (*Frontend, error) {
	if err := cfg.ValidateTuning(); err != nil {
		return nil, err
	}
	cols, rows := screen.Size()

	t := behavior.TuningFromConfig(cfg)
	t.Size = math.Max(float64(sprite.Width())*CellW, float64(sprite.Height())*CellH)

	pet, err := behavior.New(float64(cols)*CellW, float64(rows)*CellH, t, opts...)
	if err != nil {
		return nil, err
	}

	return &Frontend{
		screen:   screen,
		pet:      pet,
		sprite:   sprite,
		mirrored: sprite.Mirror(),
		color:    cfg.ShowColor,
	}, nil
}

// Pet 给调用方检查状态用
func (f *Frontend) Pet() *behavior.Animator { return f.pet }

// toUnits 字符格中心对应的动画坐标
func toUnits(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * CellW, (float64(row) + 0.5) * CellH
}

// HandleEvent 处理一个终端事件，返回 true 表示该退出了
func (f *Frontend) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return true
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return true
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := toUnits(col, row)
		if !f.hasPointer || col != f.lastX || row != f.lastY {
			f.hasPointer, f.lastX, f.lastY = true, col, row
			f.pet.PointerMove(x, y)
		}

		down := ev.Buttons()&tcell.Button1 != 0
		if down && !f.pressed {
			f.pet.Click(x, y)
		}
		f.pressed = down

	case *tcell.EventFocus:
		// 终端失去焦点就当鼠标离开了
		if !ev.Focused {
			f.hasPointer = false
			f.pet.PointerLeave()
		}

	case *tcell.EventResize:
		f.screen.Sync()
	}
	return false
}

// Draw 把宠物画到屏幕上（终端里画不出倾斜，只有镜像）
func (f *Frontend) Draw() {
	f.screen.Clear()

	op := f.pet.DrawOp()
	sprite := f.sprite
	if op.Flip {
		sprite = f.mirrored
	}

	left := int(math.Round(op.X/CellW - float64(sprite.Width())/2))
	top := int(math.Round(op.Y/CellH - float64(sprite.Height())/2))

	for dy, row := range sprite.Rows {
		for dx, c := range row {
			if c.Blank() {
				continue
			}
			style := tcell.StyleDefault
			if f.color {
				style = style.Foreground(tcell.NewRGBColor(int32(c.Color.R), int32(c.Color.G), int32(c.Color.B)))
			}
			f.screen.SetContent(left+dx, top+dy, c.Char, nil, style)
		}
	}

	f.screen.Show()
}

// Run 帧循环：事件和 Tick 都在这个 goroutine 里处理，ctx 结束或按退出键返回
func (f *Frontend) Run(ctx context.Context) {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return // Fini 之后
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	f.pet.Start()
	defer f.pet.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if f.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			f.pet.Tick()
			f.Draw()
		}
	}
}
