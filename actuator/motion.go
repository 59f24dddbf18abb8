package actuator

import (
	"time"

	logger "github.com/d2r2/go-logger"
	"golang.org/x/exp/constraints"
)

var lg = logger.NewPackageLogger("motion", logger.InfoLevel)

// Clock lets motion loops run against a fake time source in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type sysClock struct{}

func (sysClock) Now() time.Time        { return time.Now() }
func (sysClock) Sleep(d time.Duration) { time.Sleep(d) }

func SystemClock() Clock { return sysClock{} }

// CancelFn is polled between bursts of steps. Returning true stops
// the motion loop before it reaches its target.
type CancelFn func() bool

// Result reports how a motion loop ended.
type Result struct {
	Steps     int
	Cancelled bool
}

// Generator produces step pulses for a fixed duration or step count.
// It asserts motor enable before the first pulse and always leaves
// the driver idle on return, cancelled or not.
type Generator struct {
	Motor Motor
	Clock Clock

	// Steps between cancellation polls.
	PollEvery int
}

const defaultPollEvery = 100

func NewGenerator(m Motor, c Clock) *Generator {
	return &Generator{
		Motor:     m,
		Clock:     c,
		PollEvery: defaultPollEvery,
	}
}

// Step rate bounds. The lower bound keeps the delay division sane,
// the upper one is past anything the driver's pulse width allows.
const (
	minStepRate = 1
	maxStepRate = 100_000
)

// StepDelay converts a speed in steps per second to the delay
// between pulses.
func StepDelay(speed int) time.Duration {
	speed = clamp(speed, minStepRate, maxStepRate)
	return time.Duration(1_000_000/speed) * time.Microsecond
}

func clamp[T constraints.Ordered](val, lo, hi T) T {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// RunTimed pulses at constant speed until duration elapses or cancel
// fires. Speed is in steps per second.
func (g *Generator) RunTimed(dir Direction, speed int, duration time.Duration, cancel CancelFn) Result {
	g.Motor.SetDirection(dir)
	g.Motor.SetEnable(true)
	defer g.Motor.SetEnable(false)

	delay := StepDelay(speed)
	deadline := g.Clock.Now().Add(duration)
	var res Result
	for g.Clock.Now().Before(deadline) {
		if res.Steps > 0 && res.Steps%g.PollEvery == 0 && cancel != nil && cancel() {
			res.Cancelled = true
			lg.Debugf("timed move cancelled after %d steps", res.Steps)
			return res
		}
		g.Motor.Pulse()
		res.Steps++
		g.Clock.Sleep(delay)
	}
	lg.Debugf("timed move complete dir=%s steps=%d", dir, res.Steps)
	return res
}

// RunTrapezoid executes a fixed number of steps with a trapezoidal
// velocity profile: the first quarter ramps linearly from minSpeed
// to maxSpeed, the middle half cruises, the last quarter ramps back
// down. Speeds are in steps per second.
func (g *Generator) RunTrapezoid(dir Direction, steps, minSpeed, maxSpeed int, cancel CancelFn) Result {
	g.Motor.SetDirection(dir)
	g.Motor.SetEnable(true)
	defer g.Motor.SetEnable(false)

	ramp := steps / 4
	var res Result
	for i := 0; i < steps; i++ {
		if i > 0 && i%g.PollEvery == 0 && cancel != nil && cancel() {
			res.Cancelled = true
			lg.Debugf("trapezoid move cancelled after %d steps", res.Steps)
			return res
		}
		speed := maxSpeed
		switch {
		case ramp == 0:
			// Too short to ramp, run at floor speed.
			speed = minSpeed
		case i < ramp:
			speed = minSpeed + (maxSpeed-minSpeed)*i/ramp
		case i >= steps-ramp:
			speed = minSpeed + (maxSpeed-minSpeed)*(steps-1-i)/ramp
		}
		g.Motor.Pulse()
		res.Steps++
		g.Clock.Sleep(StepDelay(speed))
	}
	lg.Debugf("trapezoid move complete dir=%s steps=%d", dir, res.Steps)
	return res
}
