package behavior

import (
	"math"
	"time"

	"codepet/internal/entity"
)

// PointerMove 鼠标在容器里移动，(x, y) 是容器坐标
func (a *Animator) PointerMove(x, y float64) {
	if !a.running {
		return
	}

	p := &a.pet
	if math.Hypot(x-p.X, y-p.Y) < a.tuning.ProximityRadius {
		// 鼠标在附近：跟着走
		m := a.tuning.margin()
		a.retarget(clamp(x, m, a.width-m), clamp(y, m, a.height-m))
		p.State = entity.StateFollowing
		p.MouseNearby = true
		p.WanderMark = time.Time{}
		return
	}

	// 鼠标走远了：回去闲逛
	p.MouseNearby = false
	if p.State == entity.StateFollowing {
		p.State = entity.StateWandering
		a.PickDestination()
	}
}

// PointerLeave 鼠标离开容器
func (a *Animator) PointerLeave() {
	if !a.running {
		return
	}
	a.pet.MouseNearby = false
	a.pet.State = entity.StateWandering
	a.PickDestination()
}

// Click 在 (x, y) 点了一下，点中宠物就弹一下
func (a *Animator) Click(x, y float64) bool {
	if !a.running {
		return false
	}
	if math.Hypot(x-a.pet.X, y-a.pet.Y) > a.tuning.margin() {
		return false
	}
	a.Bounce()
	return true
}

// Bounce 弹跳第一段：目标立刻往上挪 BounceDistance；
// 到了 BounceDelay 之后的第一帧再往下挪（见 resolveBounce）
func (a *Animator) Bounce() {
	if !a.running {
		return
	}
	p := &a.pet
	p.TargetY = p.Y - a.tuning.BounceDistance
	p.Bounce = entity.Bounce{
		Active:   true,
		Deadline: a.now().Add(a.tuning.BounceDelay),
	}
}

func (a *Animator) resolveBounce(now time.Time) {
	p := &a.pet
	if !p.Bounce.Active || now.Before(p.Bounce.Deadline) {
		return
	}
	p.TargetY = p.Y + a.tuning.BounceDistance
	p.Bounce = entity.Bounce{}
}
