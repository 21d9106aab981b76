package game

import (
	"fmt"
	"image/color"

	"codepet/internal/behavior"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// 图片加载失败时画的圆
var fallbackColor = color.RGBA{0x2c, 0x98, 0xf0, 0xff}

var (
	monitorColor  = color.RGBA{0, 255, 0, 255}
	stressedColor = color.RGBA{255, 64, 64, 255}
)

func (g *Manager) Draw(screen *ebiten.Image) {
	op := g.MyPet.DrawOp()

	if g.sprite == nil {
		// 圆是对称的，不用管翻转和旋转
		vector.DrawFilledCircle(screen, float32(op.X), float32(op.Y), float32(op.Size/2), fallbackColor, true)
	} else {
		b := g.sprite.Bounds()
		opts := &ebiten.DrawImageOptions{}
		opts.GeoM = spriteGeoM(op, b.Dx(), b.Dy())
		opts.Filter = ebiten.FilterNearest // 像素风，别糊
		screen.DrawImage(g.sprite, opts)
	}

	g.drawMonitor(screen)
}

// spriteGeoM 图片的变换：先把中心挪到原点，缩放到 Size 宽（保持比例），
// 倾斜 Rotation，朝左时镜像，最后平移到宠物位置
func spriteGeoM(op behavior.DrawOp, imgW, imgH int) ebiten.GeoM {
	w, h := float64(imgW), float64(imgH)
	aspect := w / h
	drawW := op.Size
	drawH := op.Size / aspect

	var m ebiten.GeoM
	m.Translate(-w/2, -h/2)
	m.Scale(drawW/w, drawH/h)
	m.Rotate(op.Rotation)
	if op.Flip {
		m.Scale(-1, 1)
	}
	m.Translate(op.X, op.Y)
	return m
}

func (g *Manager) drawMonitor(screen *ebiten.Image) {
	if !g.cfg.ShowMonitor || g.sampler == nil {
		return
	}
	s := g.sampler.Stats()
	clr := monitorColor
	if s.Stressed {
		clr = stressedColor
	}
	// 文字是从基线开始画的，Y=11 防止头被切掉
	text.Draw(screen, fmt.Sprintf("CPU %.1f%%  MEM %.1f%%", s.CPU, s.Mem), basicfont.Face7x13, 2, 11, clr)
}
