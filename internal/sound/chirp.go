package sound

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleRate 音频采样率
const SampleRate = 48000

// 叫声：从 880Hz 滑到 1320Hz，短促一下
const (
	chirpFrom     = 880.0
	chirpTo       = 1320.0
	chirpDuration = 90 * time.Millisecond
	chirpVolume   = 0.25
)

// Chirper 被点击时"喵"一声
type Chirper struct {
	ctx *audio.Context
	pcm []byte
}

// NewChirper ctx 为 nil 时 Play 什么都不做
func NewChirper(ctx *audio.Context) *Chirper {
	return &Chirper{
		ctx: ctx,
		pcm: Chirp(SampleRate, chirpDuration),
	}
}

// Play 每次新建一个 player，叫声之间可以叠在一起
func (c *Chirper) Play() {
	if c == nil || c.ctx == nil {
		return
	}
	p := c.ctx.NewPlayerFromBytes(c.pcm)
	p.SetVolume(chirpVolume)
	p.Play()
}

// Chirp 生成 16bit 小端立体声 PCM：线性扫频的正弦波，带淡入淡出防止爆音
func Chirp(sampleRate int, d time.Duration) []byte {
	n := int(float64(sampleRate) * d.Seconds())
	buf := make([]byte, n*4)

	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		freq := chirpFrom + (chirpTo-chirpFrom)*t
		phase += 2 * math.Pi * freq / float64(sampleRate)

		// 前后各 10% 做包络
		env := 1.0
		switch {
		case t < 0.1:
			env = t / 0.1
		case t > 0.9:
			env = (1 - t) / 0.1
		}

		v := int16(math.Sin(phase) * env * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}
