package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile 默认配置文件名
const DefaultFile = "codepet.yaml"

// 暂停计时方式
const (
	PauseClockFrame = "frame" // 每帧固定减 FrameStep（假定 60fps）
	PauseClockWall  = "wall"  // 按两帧之间真实流逝的时间减
)

// ErrInvalid 配置校验失败
var ErrInvalid = errors.New("invalid config")

// Config 结构体：对应 codepet.yaml 的内容
type Config struct {
	ImagePath string `yaml:"image_path"` // 宠物图片路径

	// 容器（窗口）尺寸，只在启动时读一次
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Size   int `yaml:"size"` // 宠物图片边长

	WanderSpeed float64 `yaml:"wander_speed"` // 闲逛时的追踪系数
	FollowSpeed float64 `yaml:"follow_speed"` // 跟随鼠标时的追踪系数

	PauseChance    float64       `yaml:"pause_chance"` // 选新目的地时改为发呆的概率 (0-1)
	PauseMin       time.Duration `yaml:"pause_min"`
	PauseMax       time.Duration `yaml:"pause_max"`
	WanderInterval time.Duration `yaml:"wander_interval"` // 多久换一次目的地

	BounceDistance float64       `yaml:"bounce_distance"`
	BounceDelay    time.Duration `yaml:"bounce_delay"`

	ProximityRadius float64 `yaml:"proximity_radius"` // 鼠标进入这个半径就开始跟随
	ArriveThreshold float64 `yaml:"arrive_threshold"`
	Damping         float64 `yaml:"damping"`          // 摩擦力
	FacingThreshold float64 `yaml:"facing_threshold"` // |vx| 超过它才转身，防止来回闪
	LeanScale       float64 `yaml:"lean_scale"`

	PauseClock string        `yaml:"pause_clock"`
	FrameStep  time.Duration `yaml:"frame_step"`

	ShowMonitor      bool `yaml:"show_monitor"`      // 是否开启监控文字
	ShowColor        bool `yaml:"show_color"`        // 终端模式是否彩色
	Sound            bool `yaml:"sound"`             // 点击时叫一声
	RememberPosition bool `yaml:"remember_position"` // 记住上次窗口位置
}

// NewDefault 生成一份默认配置
// 当找不到配置文件，或者读取失败时，用这个"保底"
func NewDefault() *Config {
	return &Config{
		ImagePath: "assets/pet.png",
		Width:     260, // 窄长的竖条，贴在屏幕边上
		Height:    600,
		Size:      80,

		WanderSpeed: 0.05,
		FollowSpeed: 0.12,

		PauseChance:    0.6,
		PauseMin:       2 * time.Second,
		PauseMax:       5 * time.Second,
		WanderInterval: 8 * time.Second,

		BounceDistance: 20,
		BounceDelay:    200 * time.Millisecond,

		ProximityRadius: 100,
		ArriveThreshold: 5,
		Damping:         0.85,
		FacingThreshold: 0.5,
		LeanScale:       0.1,

		PauseClock: PauseClockFrame,
		FrameStep:  16 * time.Millisecond, // ~60fps

		ShowMonitor:      false,
		ShowColor:        true,
		Sound:            false,
		RememberPosition: true,
	}
}

// Load 从硬盘读取配置
// 文件里没写的字段保持默认值
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		// 如果文件不存在，直接返回默认配置，不算报错
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", filename, err)
	}

	cfg := NewDefault()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		// 如果 YAML 格式坏了，也返回默认配置
		return NewDefault(), nil
	}

	return cfg, nil
}

// Save 把当前配置写入硬盘
func Save(cfg *Config, filename string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", filename, err)
	}
	return nil
}

// Validate 检查配置是否能跑起来
func (c *Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d: %w", c.Size, ErrInvalid)
	}
	if c.Width < 2*c.Size || c.Height < 2*c.Size {
		return fmt.Errorf("container %dx%d cannot hold a %d sprite: %w", c.Width, c.Height, c.Size, ErrInvalid)
	}
	return c.ValidateTuning()
}

// ValidateTuning 只检查动画参数，不管容器尺寸（终端版的容器是终端大小）
func (c *Config) ValidateTuning() error {
	switch {
	case c.WanderSpeed < 0 || c.FollowSpeed < 0:
		return fmt.Errorf("speeds must not be negative, got %v/%v: %w", c.WanderSpeed, c.FollowSpeed, ErrInvalid)
	case c.PauseChance < 0 || c.PauseChance > 1:
		return fmt.Errorf("pause_chance %v outside [0,1]: %w", c.PauseChance, ErrInvalid)
	case c.PauseMin < 0 || c.PauseMin > c.PauseMax:
		return fmt.Errorf("pause range [%v, %v] is empty: %w", c.PauseMin, c.PauseMax, ErrInvalid)
	case c.WanderInterval < 0:
		return fmt.Errorf("wander_interval %v is negative: %w", c.WanderInterval, ErrInvalid)
	case c.BounceDistance < 0 || c.BounceDelay < 0:
		return fmt.Errorf("bounce %v/%v is negative: %w", c.BounceDistance, c.BounceDelay, ErrInvalid)
	case c.ProximityRadius < 0 || c.ArriveThreshold < 0:
		return fmt.Errorf("proximity_radius %v / arrive_threshold %v is negative: %w", c.ProximityRadius, c.ArriveThreshold, ErrInvalid)
	case c.Damping <= 0 || c.Damping > 1:
		return fmt.Errorf("damping %v outside (0,1]: %w", c.Damping, ErrInvalid)
	case c.FacingThreshold < 0:
		return fmt.Errorf("facing_threshold %v is negative: %w", c.FacingThreshold, ErrInvalid)
	case c.PauseClock != PauseClockFrame && c.PauseClock != PauseClockWall:
		return fmt.Errorf("unknown pause_clock %q: %w", c.PauseClock, ErrInvalid)
	case c.FrameStep < 0, c.PauseClock == PauseClockFrame && c.FrameStep == 0:
		// 帧模式下 frame_step 为 0 会让发呆永远结束不了
		return fmt.Errorf("frame_step must be positive, got %v: %w", c.FrameStep, ErrInvalid)
	}
	return nil
}
