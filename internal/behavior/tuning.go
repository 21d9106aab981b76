package behavior

import (
	"time"

	"codepet/config"
)

// Tuning 动画器用到的全部常量
type Tuning struct {
	Size float64 // 图片边长；边界留白 = Size/2，随机目的地留白 = Size

	WanderSpeed float64
	FollowSpeed float64

	PauseChance    float64
	PauseMin       time.Duration
	PauseMax       time.Duration
	WanderInterval time.Duration

	BounceDistance float64
	BounceDelay    time.Duration

	ProximityRadius float64
	ArriveThreshold float64
	Damping         float64
	FacingThreshold float64
	LeanScale       float64

	// WallClock 为 true 时发呆倒计时按真实时间走，否则每帧固定减 FrameStep
	WallClock bool
	FrameStep time.Duration
}

// TuningFromConfig 从配置文件里取出动画参数
func TuningFromConfig(c *config.Config) Tuning {
	return Tuning{
		Size:            float64(c.Size),
		WanderSpeed:     c.WanderSpeed,
		FollowSpeed:     c.FollowSpeed,
		PauseChance:     c.PauseChance,
		PauseMin:        c.PauseMin,
		PauseMax:        c.PauseMax,
		WanderInterval:  c.WanderInterval,
		BounceDistance:  c.BounceDistance,
		BounceDelay:     c.BounceDelay,
		ProximityRadius: c.ProximityRadius,
		ArriveThreshold: c.ArriveThreshold,
		Damping:         c.Damping,
		FacingThreshold: c.FacingThreshold,
		LeanScale:       c.LeanScale,
		WallClock:       c.PauseClock == config.PauseClockWall,
		FrameStep:       c.FrameStep,
	}
}

// DefaultTuning 默认参数，等同于 config.NewDefault()
func DefaultTuning() Tuning {
	return TuningFromConfig(config.NewDefault())
}

func (t Tuning) margin() float64 { return t.Size / 2 }
