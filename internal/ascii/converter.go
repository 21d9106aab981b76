package ascii

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	_ "image/png" // 必加，否则 image: unknown format
)

// ASCII 字符集 (从黑到白)
const asciiChars = "@%#*+=-:. "

// Cell 单个字符的数据单元
type Cell struct {
	Char  rune
	Color color.RGBA
}

// Blank 透明像素对应的空格
func (c Cell) Blank() bool { return c.Char == ' ' }

// Sprite 转换好的字符画，Rows[y][x]
type Sprite struct {
	Rows [][]Cell
}

// Width 最长一行的字符数
func (s Sprite) Width() int {
	w := 0
	for _, row := range s.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func (s Sprite) Height() int { return len(s.Rows) }

// Lines 去掉颜色，只要字符
func (s Sprite) Lines() []string {
	lines := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		var line strings.Builder
		for _, c := range row {
			line.WriteRune(c.Char)
		}
		lines = append(lines, line.String())
	}
	return lines
}

// Mirror 水平翻转（宠物朝左时用）
func (s Sprite) Mirror() Sprite {
	rows := make([][]Cell, len(s.Rows))
	for y, row := range s.Rows {
		flipped := make([]Cell, len(row))
		for x, c := range row {
			flipped[len(row)-1-x] = c
		}
		rows[y] = flipped
	}
	return Sprite{Rows: rows}
}

// Convert 将图片转换为字符画
// img: 原始图片对象
// targetWidth: 希望生成的宠物宽度（字符数），比如 12 或 50
func Convert(img image.Image, targetWidth int) Sprite {
	bounds := img.Bounds()

	// 1. 计算缩放步长
	stepX := bounds.Dx() / targetWidth
	if stepX < 1 {
		stepX = 1
	}

	// 矫正纵横比：终端字符的高通常是宽的 2 倍，所以 Y 轴采样步长要翻倍
	stepY := stepX * 2

	var rows [][]Cell

	// 2. 遍历像素 (采样)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		var row []Cell
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			row = append(row, pixelToCell(img.At(x, y)))
		}
		rows = append(rows, row)
	}

	return Sprite{Rows: rows}
}

func pixelToCell(c color.Color) Cell {
	r, g, b, a := c.RGBA()
	// 透明背景直接留空，不然整块都是 '@'
	if a < 0x8000 {
		return Cell{Char: ' '}
	}

	// Go 的 RGBA 返回 16bit (0-65535)，右移 8 位变成 0-255
	gray := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)

	// 映射到字符集索引
	idx := int(gray / 255 * float64(len(asciiChars)-1))
	if idx >= len(asciiChars) {
		idx = len(asciiChars) - 1
	}

	return Cell{
		Char:  rune(asciiChars[idx]),
		Color: color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255},
	}
}

// FromLines 用现成的字符画（没有图片时的保底）
func FromLines(lines []string, fg color.RGBA) Sprite {
	rows := make([][]Cell, 0, len(lines))
	for _, line := range lines {
		row := make([]Cell, 0, len(line))
		for _, ch := range line {
			row = append(row, Cell{Char: ch, Color: fg})
		}
		rows = append(rows, row)
	}
	return Sprite{Rows: rows}
}

// Load 读取图片并直接转成字符画
func Load(path string, targetWidth int) (Sprite, error) {
	file, err := os.Open(path)
	if err != nil {
		return Sprite{}, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return Sprite{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return Convert(img, targetWidth), nil
}
