package behavior

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"codepet/internal/entity"
)

const (
	testW = 260.0
	testH = 600.0
)

// fakeClock 手动推进的时钟
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAnimator(t *testing.T, pauseChance float64) (*Animator, *fakeClock) {
	t.Helper()

	tuning := DefaultTuning()
	tuning.PauseChance = pauseChance
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	a, err := New(testW, testH, tuning, WithClock(clock.now), WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	a.Start()
	return a, clock
}

// rest 让宠物停在 (x, y)，目标就是自己，速度为 0
func rest(a *Animator, x, y float64) {
	a.pet.X, a.pet.Y = x, y
	a.pet.TargetX, a.pet.TargetY = x, y
	a.pet.VX, a.pet.VY = 0, 0
	a.pet.Paused = false
	a.pet.PauseLeft = 0
}

func TestNewRejectsSmallContainer(t *testing.T) {
	_, err := New(100, 600, DefaultTuning())
	if !errors.Is(err, ErrNoContainer) {
		t.Fatalf("New(100, 600) error = %v, want ErrNoContainer", err)
	}

	_, err = New(0, 0, DefaultTuning())
	if !errors.Is(err, ErrNoContainer) {
		t.Fatalf("New(0, 0) error = %v, want ErrNoContainer", err)
	}
}

// TestNewStartsAtCentre 初始位置在中间，第一次选点如果是发呆，目标不动
func TestNewStartsAtCentre(t *testing.T) {
	a, _ := newTestAnimator(t, 1)
	p := a.Snapshot()

	if p.X != testW/2 || p.Y != testH/2 {
		t.Errorf("position = (%v, %v), want centre (%v, %v)", p.X, p.Y, testW/2, testH/2)
	}
	if p.TargetX != p.X || p.TargetY != p.Y {
		t.Errorf("target = (%v, %v), want unchanged centre", p.TargetX, p.TargetY)
	}
	if !p.Paused {
		t.Error("Paused = false, want true with pause chance 1")
	}
	if p.State != entity.StateWandering {
		t.Errorf("State = %v, want wandering", p.State)
	}
}

func TestStoppedAnimatorIgnoresEverything(t *testing.T) {
	a, clock := newTestAnimator(t, 0)
	a.Stop()
	before := a.Snapshot()

	a.PointerMove(before.X, before.Y)
	a.Bounce()
	clock.advance(time.Second)
	a.Tick()
	a.PointerLeave()

	if after := a.Snapshot(); after != before {
		t.Errorf("stopped animator changed state: %+v -> %+v", before, after)
	}
	if a.Click(before.X, before.Y) {
		t.Error("Click() on stopped animator returned true")
	}
}

// TestPositionStaysInBounds 随便怎么折腾，位置都在 [margin, size-margin] 内
func TestPositionStaysInBounds(t *testing.T) {
	a, clock := newTestAnimator(t, 0.3)
	a.tuning.FollowSpeed = 2 // 故意调大，让它冲过头
	a.tuning.WanderInterval = 50 * time.Millisecond

	rng := rand.New(rand.NewPCG(7, 7))
	m := a.tuning.Size / 2

	for i := 0; i < 5000; i++ {
		switch rng.IntN(10) {
		case 0:
			a.PointerMove(rng.Float64()*testW*2-testW/2, rng.Float64()*testH*2-testH/2)
		case 1:
			p := a.Snapshot()
			a.PointerMove(p.X+rng.Float64()*100-50, p.Y+rng.Float64()*100-50)
		case 2:
			a.PointerLeave()
		case 3:
			a.Bounce()
		}
		clock.advance(16 * time.Millisecond)
		a.Tick()

		p := a.Snapshot()
		if p.X < m || p.X > testW-m || p.Y < m || p.Y > testH-m {
			t.Fatalf("tick %d: position (%v, %v) out of bounds", i, p.X, p.Y)
		}
	}
}

func TestPauseDurationsInRange(t *testing.T) {
	a, _ := newTestAnimator(t, 1)
	tuning := a.Tuning()

	for i := 0; i < 1000; i++ {
		a.PickDestination()
		p := a.Snapshot()
		if !p.Paused {
			t.Fatal("Paused = false, want true with pause chance 1")
		}
		if p.PauseLeft < tuning.PauseMin || p.PauseLeft > tuning.PauseMax {
			t.Fatalf("PauseLeft = %v, want within [%v, %v]", p.PauseLeft, tuning.PauseMin, tuning.PauseMax)
		}
	}
}

func TestDestinationsInInterior(t *testing.T) {
	a, _ := newTestAnimator(t, 0)
	size := a.Tuning().Size

	for i := 0; i < 1000; i++ {
		a.PickDestination()
		p := a.Snapshot()
		if p.Paused {
			t.Fatal("Paused = true, want false with pause chance 0")
		}
		if p.TargetX < size || p.TargetX > testW-size || p.TargetY < size || p.TargetY > testH-size {
			t.Fatalf("target (%v, %v) outside interior", p.TargetX, p.TargetY)
		}
	}
}

// TestRestDoesNotDrift 目标就在脚下、速度为 0 时，反复 Tick 不会漂移
func TestRestDoesNotDrift(t *testing.T) {
	a, clock := newTestAnimator(t, 0)
	rest(a, 100, 200)

	for i := 0; i < 100; i++ {
		clock.advance(16 * time.Millisecond)
		a.Tick()
	}

	p := a.Snapshot()
	if p.X != 100 || p.Y != 200 {
		t.Errorf("position = (%v, %v), want (100, 200)", p.X, p.Y)
	}
	if p.VX != 0 || p.VY != 0 {
		t.Errorf("velocity = (%v, %v), want 0", p.VX, p.VY)
	}
	if p.TargetX != 100 || p.TargetY != 200 {
		t.Errorf("target moved to (%v, %v) before the wander interval", p.TargetX, p.TargetY)
	}
}

// TestNearTargetCoastsWithoutSteering 离目标不到 ArriveThreshold 就算到了：
// 只剩摩擦，不再加速，等够 WanderInterval 才换目的地
func TestNearTargetCoastsWithoutSteering(t *testing.T) {
	a, clock := newTestAnimator(t, 0)
	rest(a, 100, 200)
	a.pet.TargetX = 103 // 距离 3 < 5
	a.pet.VX = 0.2

	damping := a.Tuning().Damping
	for i := 0; i < 10; i++ {
		prevVX := a.pet.VX
		clock.advance(16 * time.Millisecond)
		a.Tick()

		p := a.Snapshot()
		if p.VX != prevVX*damping {
			t.Fatalf("tick %d: VX = %v, want %v (no steering)", i, p.VX, prevVX*damping)
		}
		if p.VY != 0 {
			t.Fatalf("tick %d: VY = %v, want 0", i, p.VY)
		}
		if p.TargetX != 103 || p.TargetY != 200 {
			t.Fatalf("tick %d: target moved to (%v, %v) before the wander interval", i, p.TargetX, p.TargetY)
		}
	}

	clock.advance(a.Tuning().WanderInterval)
	a.Tick()
	if p := a.Snapshot(); p.TargetX == 103 && p.TargetY == 200 {
		t.Error("target unchanged after the wander interval")
	}
}

func TestWanderIntervalPicksNewDestination(t *testing.T) {
	a, clock := newTestAnimator(t, 0)
	rest(a, 100, 200)

	a.Tick() // 开始计时
	clock.advance(a.Tuning().WanderInterval)
	a.Tick()
	if p := a.Snapshot(); p.TargetX != 100 || p.TargetY != 200 {
		t.Fatalf("target changed at exactly the interval: (%v, %v)", p.TargetX, p.TargetY)
	}

	clock.advance(time.Millisecond)
	a.Tick()
	if p := a.Snapshot(); p.TargetX == 100 && p.TargetY == 200 {
		t.Fatal("target unchanged after the wander interval")
	}
}

func TestSteeringMovesTowardTarget(t *testing.T) {
	a, _ := newTestAnimator(t, 0)
	rest(a, 100, 200)
	a.pet.TargetX = 200

	a.Tick()

	p := a.Snapshot()
	want := 100 * a.Tuning().WanderSpeed * a.Tuning().Damping
	if math.Abs(p.VX-want) > 1e-9 {
		t.Errorf("VX = %v, want %v", p.VX, want)
	}
	if math.Abs(p.X-(100+want)) > 1e-9 {
		t.Errorf("X = %v, want %v", p.X, 100+want)
	}
	if p.VY != 0 {
		t.Errorf("VY = %v, want 0", p.VY)
	}
}

// TestPauseCountdownFrameMode 每帧减 16ms，减到 0 之后的下一帧才选新目的地
func TestPauseCountdownFrameMode(t *testing.T) {
	a, _ := newTestAnimator(t, 1)
	a.tuning.PauseMin = 48 * time.Millisecond
	a.tuning.PauseMax = 48 * time.Millisecond
	a.PickDestination()
	a.pet.VX = 10 // 发呆时速度不生效

	x := a.Snapshot().X
	for i := 0; i < 3; i++ {
		a.Tick()
	}
	p := a.Snapshot()
	if !p.Paused || p.PauseLeft != 0 {
		t.Fatalf("after 3 ticks: Paused=%v PauseLeft=%v, want paused with 0 left", p.Paused, p.PauseLeft)
	}
	if p.X != x {
		t.Errorf("X moved while paused: %v -> %v", x, p.X)
	}

	a.tuning.PauseChance = 0
	a.Tick()
	if p := a.Snapshot(); p.Paused {
		t.Error("still paused after countdown finished")
	}
	if got := a.Snapshot().Frame; got != 4 {
		t.Errorf("Frame = %d, want 4", got)
	}
}

func TestPauseCountdownWallClock(t *testing.T) {
	a, clock := newTestAnimator(t, 1)
	a.tuning.WallClock = true
	a.tuning.PauseMin = time.Second
	a.tuning.PauseMax = time.Second
	a.PickDestination()

	a.Tick() // 第一帧没有上一帧可比，按 FrameStep 算
	clock.advance(400 * time.Millisecond)
	a.Tick()

	want := time.Second - a.Tuning().FrameStep - 400*time.Millisecond
	if got := a.Snapshot().PauseLeft; got != want {
		t.Errorf("PauseLeft = %v, want %v", got, want)
	}
}

func TestFacingHysteresis(t *testing.T) {
	a, _ := newTestAnimator(t, 0)

	tests := []struct {
		name string
		vx   float64
		want int
	}{
		{"small left drift keeps right", -0.55, entity.FacingRight}, // 0.55*0.85 < 0.5
		{"fast left turns left", -1, entity.FacingLeft},
		{"small right drift keeps left", 0.3, entity.FacingLeft},
		{"tiny wobble keeps left", -0.1, entity.FacingLeft},
		{"fast right turns right", 2, entity.FacingRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest(a, 130, 300)
			a.pet.VX = tt.vx
			a.Tick()
			if got := a.Snapshot().Facing; got != tt.want {
				t.Errorf("Facing = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDrawOp(t *testing.T) {
	a, _ := newTestAnimator(t, 0)
	rest(a, 120, 240)
	a.pet.VX, a.pet.VY = -3, 3
	a.pet.Facing = entity.FacingLeft

	op := a.DrawOp()
	if op.X != 120 || op.Y != 240 {
		t.Errorf("DrawOp position = (%v, %v), want (120, 240)", op.X, op.Y)
	}
	if !op.Flip {
		t.Error("Flip = false, want true when facing left")
	}
	want := math.Atan2(3, -3) * 0.1
	if math.Abs(op.Rotation-want) > 1e-12 {
		t.Errorf("Rotation = %v, want %v", op.Rotation, want)
	}
	if op.Size != 80 {
		t.Errorf("Size = %v, want 80", op.Size)
	}
}

func TestSetTuning(t *testing.T) {
	a, _ := newTestAnimator(t, 0)

	big := a.Tuning()
	big.Size = 200
	if err := a.SetTuning(big); !errors.Is(err, ErrNoContainer) {
		t.Fatalf("SetTuning(size 200) error = %v, want ErrNoContainer", err)
	}
	if a.Tuning().Size != 80 {
		t.Errorf("Size = %v after rejected SetTuning, want 80", a.Tuning().Size)
	}

	small := a.Tuning()
	small.Size = 40
	small.FollowSpeed = 0.5
	if err := a.SetTuning(small); err != nil {
		t.Fatalf("SetTuning() error: %v", err)
	}
	if got := a.Tuning(); got.Size != 40 || got.FollowSpeed != 0.5 {
		t.Errorf("Tuning() = %+v, want size 40 follow 0.5", got)
	}
}
