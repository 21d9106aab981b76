package entity

import "time"

// State 宠物当前的行为状态
type State int

const (
	StateWandering State = iota // 没人理它，自己到处逛
	StateFollowing              // 鼠标在附近，跟着鼠标走

	// 预留：长时间没人互动后的状态，目前不会进入
	StateIdle
	StateSleeping
)

func (s State) String() string {
	switch s {
	case StateWandering:
		return "wandering"
	case StateFollowing:
		return "following"
	case StateIdle:
		return "idle"
	case StateSleeping:
		return "sleeping"
	}
	return "unknown"
}

// 朝向：1 朝右，-1 朝左
const (
	FacingRight = 1
	FacingLeft  = -1
)

// Bounce 点击后的弹跳：先往上，到 Deadline 再往下
type Bounce struct {
	Active   bool
	Deadline time.Time
}

type Pet struct {
	X, Y             float64 // 当前位置（容器坐标，图片中心）
	VX, VY           float64 // 速度
	TargetX, TargetY float64 // 正在追的目标点

	State       State
	MouseNearby bool // 鼠标是否在附近

	Paused    bool          // 是否在发呆
	PauseLeft time.Duration // 还要发呆多久

	Facing int // 朝向，只在 |vx| 足够大时更新

	// 上一次开始等待换目的地的时间，零值表示还没开始计时
	WanderMark time.Time

	Bounce Bounce

	Frame uint64 // 动画帧计数
}
