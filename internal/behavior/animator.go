// Package behavior 宠物的运动模型：闲逛、发呆、跟随鼠标、点击弹跳。
//
// Animator 只在一个 goroutine（帧循环）里使用，不加锁。
// 渲染交给宿主（ebiten 窗口或终端），这里只产出 DrawOp。
package behavior

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"codepet/internal/entity"
)

// ErrNoContainer 容器太小（或者根本没有），放不下宠物
var ErrNoContainer = errors.New("behavior: container cannot hold the pet")

// Clock 返回当前时间，测试里可以换成假的
type Clock func() time.Time

type Option func(*Animator)

// WithClock 替换时钟
func WithClock(c Clock) Option {
	return func(a *Animator) { a.now = c }
}

// WithRand 替换随机源
func WithRand(r *rand.Rand) Option {
	return func(a *Animator) { a.rng = r }
}

// DrawOp 一帧的绘制指令：平移到 (X, Y)，朝左时水平镜像，再旋转 Rotation
type DrawOp struct {
	X, Y     float64
	Flip     bool
	Rotation float64
	Size     float64
}

type Animator struct {
	pet    entity.Pet
	tuning Tuning

	width, height float64

	now Clock
	rng *rand.Rand

	running  bool
	lastTick time.Time
}

// New 在 width x height 的容器里创建一只宠物，放在正中间并马上选一个目的地。
// 返回的 Animator 处于停止状态，需要调用 Start。
func New(width, height float64, t Tuning, opts ...Option) (*Animator, error) {
	if err := fits(width, height, t); err != nil {
		return nil, err
	}

	a := &Animator{
		tuning: t,
		width:  width,
		height: height,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		seed := uint64(a.now().UnixNano())
		a.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	a.pet = entity.Pet{
		X:       width / 2,
		Y:       height / 2,
		TargetX: width / 2,
		TargetY: height / 2,
		State:   entity.StateWandering,
		Facing:  entity.FacingRight,
	}
	a.PickDestination()

	return a, nil
}

func fits(width, height float64, t Tuning) error {
	if t.Size <= 0 || width < 2*t.Size || height < 2*t.Size {
		return fmt.Errorf("%.0fx%.0f with size %.0f: %w", width, height, t.Size, ErrNoContainer)
	}
	return nil
}

// Start 开始响应 Tick 和输入事件
func (a *Animator) Start() {
	a.running = true
	a.lastTick = time.Time{}
}

// Stop 停下来，没触发的弹跳第二段一起丢掉
func (a *Animator) Stop() {
	a.running = false
	a.pet.Bounce = entity.Bounce{}
}

func (a *Animator) Running() bool { return a.running }

// Snapshot 返回宠物状态的拷贝，调试用
func (a *Animator) Snapshot() entity.Pet { return a.pet }

func (a *Animator) Tuning() Tuning { return a.tuning }

// SetTuning 热更新参数；新尺寸放不进容器时保持原参数
func (a *Animator) SetTuning(t Tuning) error {
	if err := fits(a.width, a.height, t); err != nil {
		return err
	}
	a.tuning = t
	a.clampPosition()
	return nil
}

// Container 容器尺寸
func (a *Animator) Container() (float64, float64) { return a.width, a.height }

// Tick 每帧调用一次：处理发呆/闲逛计时，朝目标加速，积分位置，夹紧边界，更新朝向
func (a *Animator) Tick() {
	if !a.running {
		return
	}

	p := &a.pet
	now := a.now()
	elapsed := a.elapsed(now)
	a.lastTick = now
	p.Frame++

	a.resolveBounce(now)

	// 1. 发呆中：只倒计时，不动
	if p.Paused {
		if p.PauseLeft > 0 {
			p.PauseLeft -= elapsed
		} else {
			p.Paused = false
			a.PickDestination()
		}
		return
	}

	// 2. 自己逛的时候，隔一段时间换个目的地
	wandering := p.State == entity.StateWandering && !p.MouseNearby
	if wandering {
		if p.WanderMark.IsZero() {
			p.WanderMark = now
		} else if now.Sub(p.WanderMark) > a.tuning.WanderInterval {
			a.PickDestination()
			p.WanderMark = now
		}
	}

	// 3. 已经到了就原地等，等够 WanderInterval 再走（上面的计时负责），避免在终点抖
	dx := p.TargetX - p.X
	dy := p.TargetY - p.Y
	arrived := wandering && math.Hypot(dx, dy) < a.tuning.ArriveThreshold

	// 5. 加速 + 摩擦 + 积分
	if !arrived && !p.Paused {
		speed := a.tuning.WanderSpeed
		if p.State == entity.StateFollowing {
			speed = a.tuning.FollowSpeed
		}
		p.VX += dx * speed
		p.VY += dy * speed
	}
	p.VX *= a.tuning.Damping
	p.VY *= a.tuning.Damping
	p.X += p.VX
	p.Y += p.VY

	// 6. 不许跑出去
	a.clampPosition()

	// 7. 速度够大才转身
	if math.Abs(p.VX) > a.tuning.FacingThreshold {
		if p.VX > 0 {
			p.Facing = entity.FacingRight
		} else {
			p.Facing = entity.FacingLeft
		}
	}
}

// elapsed 本帧发呆倒计时要减掉的时间
func (a *Animator) elapsed(now time.Time) time.Duration {
	if !a.tuning.WallClock || a.lastTick.IsZero() {
		return a.tuning.FrameStep
	}
	if d := now.Sub(a.lastTick); d > 0 {
		return d
	}
	return 0
}

// PickDestination 选下一个去处：有 PauseChance 的概率原地发呆，否则在容器内部随机选一个点
func (a *Animator) PickDestination() {
	p := &a.pet
	t := a.tuning

	if a.rng.Float64() < t.PauseChance {
		p.Paused = true
		p.PauseLeft = t.PauseMin + time.Duration(a.rng.Float64()*float64(t.PauseMax-t.PauseMin))
		return
	}

	inset := t.Size
	a.retarget(
		inset+a.rng.Float64()*(a.width-2*inset),
		inset+a.rng.Float64()*(a.height-2*inset),
	)
	p.Paused = false
}

// retarget 换目标；任何外部换目标都会取消还没触发的弹跳第二段
func (a *Animator) retarget(x, y float64) {
	a.pet.TargetX = x
	a.pet.TargetY = y
	a.pet.Bounce = entity.Bounce{}
}

func (a *Animator) clampPosition() {
	m := a.tuning.margin()
	a.pet.X = clamp(a.pet.X, m, a.width-m)
	a.pet.Y = clamp(a.pet.Y, m, a.height-m)
}

// DrawOp 当前帧的绘制指令
func (a *Animator) DrawOp() DrawOp {
	p := a.pet
	return DrawOp{
		X:        p.X,
		Y:        p.Y,
		Flip:     p.Facing == entity.FacingLeft,
		Rotation: math.Atan2(p.VY, p.VX) * a.tuning.LeanScale,
		Size:     a.tuning.Size,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
