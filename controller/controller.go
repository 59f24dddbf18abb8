package controller

import (
	"context"
	"time"

	"github.com/aliher1911/rollerblind/actuator"
	"github.com/aliher1911/rollerblind/ir"
	"github.com/aliher1911/rollerblind/store"

	logger "github.com/d2r2/go-logger"
)

var lg = logger.NewPackageLogger("controller", logger.InfoLevel)

// State of the dispatcher. Moving and Calibrating are held for the
// duration of their synchronous motion loops, so they can never
// overlap.
type State int

const (
	Idle State = iota
	Moving
	Calibrating
)

type Config struct {
	Keymap ir.Keymap

	// Constant speed for rolls and timed nudges, steps per second.
	Speed int
	// Trapezoid profile bounds for stepped nudges.
	MinSpeed int
	MaxSpeed int

	// Length of a timed nudge.
	Nudge time.Duration
	// When non-zero, nudges run a trapezoid of this many steps
	// instead of a timed burst.
	NudgeSteps int

	// Decoder poll pacing: wall clock while idle, step counts while
	// the motor runs.
	IdlePoll        time.Duration
	CancelPollSteps int
	CalPollSteps    int

	// Triple stop gesture resetting the stored travel duration.
	StopResetCount  int
	StopResetWindow time.Duration
}

func Defaults() Config {
	return Config{
		Keymap:          ir.DefaultKeymap(),
		Speed:           800,
		MinSpeed:        250,
		MaxSpeed:        1000,
		Nudge:           time.Second,
		IdlePoll:        10 * time.Millisecond,
		CancelPollSteps: 100,
		CalPollSteps:    500,
		StopResetCount:  3,
		StopResetWindow: 2 * time.Second,
	}
}

// Controller routes decoded remote commands to motion and settings.
// All state lives here and is touched only from the Run goroutine;
// the motion loops it calls poll back into the decoder instead of
// running concurrently.
type Controller struct {
	Config

	motor    actuator.Motor
	gen      *actuator.Generator
	dec      ir.Decoder
	settings *store.Store
	clock    actuator.Clock

	state  State
	filter ir.Filter

	orientation Orientation
	travel      time.Duration

	// Best effort open loop position hints, trustworthy only after
	// an uninterrupted full roll. At most one is ever set.
	fullyUp   bool
	fullyDown bool

	stopPresses   int
	lastStopPress time.Time
}

func New(m actuator.Motor, dec ir.Decoder, settings *store.Store, cfg Config, clk actuator.Clock) *Controller {
	return &Controller{
		Config:   cfg,
		motor:    m,
		gen:      &actuator.Generator{Motor: m, Clock: clk, PollEvery: cfg.CancelPollSteps},
		dec:      dec,
		settings: settings,
		clock:    clk,
	}
}

func (c *Controller) State() State             { return c.state }
func (c *Controller) Travel() time.Duration    { return c.travel }
func (c *Controller) Orientation() Orientation { return c.orientation }

func (c *Controller) PositionHint() (up, down bool) {
	return c.fullyUp, c.fullyDown
}

// load caches persisted settings. Range recovery already happened in
// the store, a failure here only costs durability of this session.
func (c *Controller) load() {
	s, err := c.settings.Load()
	if err != nil {
		lg.Warnf("failed to load settings, using defaults: %s", err)
	}
	c.travel = s.Travel
	c.orientation = Normal
	if s.Reversed {
		c.orientation = Reversed
	}
}

// Run loads persisted settings and drives the dispatch loop until
// ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	c.load()
	lg.Infof("starting: travel=%s orientation=%s", c.travel, c.orientation)

	for {
		select {
		case <-ctx.Done():
			c.motor.SetEnable(false)
			return ctx.Err()
		default:
		}
		if cmd, ok := c.dec.Poll(); ok {
			c.handle(ctx, cmd)
		} else {
			c.clock.Sleep(c.IdlePoll)
		}
	}
}

// handle dispatches one decode received while idle.
func (c *Controller) handle(ctx context.Context, cmd ir.Command) {
	now := c.clock.Now()
	if !cmd.Valid() {
		lg.Debugf("dropping invalid decode code=0x%04x addr=0x%04x", cmd.Code, cmd.Addr)
		return
	}
	if cmd.Addr != c.Keymap.Addr {
		lg.Debugf("ignoring command for address 0x%04x", cmd.Addr)
		return
	}
	if !c.filter.Accept(cmd, now, ir.NormalWindow, false) {
		lg.Debugf("debounced repeat of 0x%02x", cmd.Code)
		return
	}

	switch cmd.Code {
	case c.Keymap.Up:
		c.move(ctx, RollUp, true)
	case c.Keymap.Down:
		c.move(ctx, RollDown, true)
	case c.Keymap.Left:
		c.move(ctx, NudgeUp, false)
	case c.Keymap.Right:
		c.move(ctx, NudgeDown, false)
	case c.Keymap.Stop:
		// Motor is already idle, the press only counts toward the
		// reset gesture.
		c.noteStopPress(now)
	case c.Keymap.Calibrate:
		c.runCalibration(ctx)
	case c.Keymap.Reverse:
		c.orientation = c.orientation.Flip()
		lg.Infof("orientation flipped to %s", c.orientation)
		if err := c.settings.SaveReversed(c.orientation == Reversed); err != nil {
			lg.Errorf("failed to persist orientation: %s", err)
		}
	default:
		lg.Infof("unknown command 0x%02x", cmd.Code)
	}
}

func (c *Controller) move(ctx context.Context, a Action, full bool) {
	dir := Resolve(a, c.orientation)
	lg.Infof("%s: dir=%s", a, dir)

	c.state = Moving
	var res actuator.Result
	switch {
	case full:
		res = c.gen.RunTimed(dir, c.Speed, c.travel, c.cancelPoll(ctx))
	case c.NudgeSteps > 0:
		res = c.gen.RunTrapezoid(dir, c.NudgeSteps, c.MinSpeed, c.MaxSpeed, c.cancelPoll(ctx))
	default:
		res = c.gen.RunTimed(dir, c.Speed, c.Nudge, c.cancelPoll(ctx))
	}
	c.state = Idle

	if full && !res.Cancelled {
		c.fullyUp = a == RollUp
		c.fullyDown = a == RollDown
	} else {
		c.fullyUp = false
		c.fullyDown = false
	}
	lg.Debugf("%s done: steps=%d cancelled=%t", a, res.Steps, res.Cancelled)
}

// cancelPoll builds the predicate the motion loops poll between step
// bursts. Only a verifiable emergency stop cancels motion; a stop
// code arriving with a zero address and protocol is receiver noise,
// not a press.
func (c *Controller) cancelPoll(ctx context.Context) actuator.CancelFn {
	return func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
		}
		cmd, ok := c.dec.Poll()
		if !ok {
			return false
		}
		if cmd.Code == c.Keymap.Stop && cmd.Addr != 0 && cmd.Proto != ir.ProtocolUnknown {
			now := c.clock.Now()
			c.filter.Accept(cmd, now, ir.NormalWindow, true)
			c.noteStopPress(now)
			lg.Infof("emergency stop")
			return true
		}
		lg.Debugf("ignoring command 0x%02x during motion", cmd.Code)
		return false
	}
}

// noteStopPress counts consecutive stop presses. Three presses with
// no more than StopResetWindow between them clear the calibrated
// travel back to the default.
func (c *Controller) noteStopPress(now time.Time) {
	if c.stopPresses > 0 && now.Sub(c.lastStopPress) <= c.StopResetWindow {
		c.stopPresses++
	} else {
		c.stopPresses = 1
	}
	c.lastStopPress = now

	if c.stopPresses >= c.StopResetCount {
		c.stopPresses = 0
		c.travel = store.DefaultTravel
		lg.Infof("travel reset to default %s", store.DefaultTravel)
		if err := c.settings.ClearTravel(); err != nil {
			lg.Errorf("failed to clear stored travel: %s", err)
		}
	}
}

// runCalibration drives the blind toward fully down while timing the
// run, until the calibrate key stops the clock or the stop key
// aborts. Total time is unknown up front, so this loop emits single
// steps itself instead of delegating to the duration bound
// generator.
func (c *Controller) runCalibration(ctx context.Context) {
	dir := Resolve(Calibrate, c.orientation)
	start := c.clock.Now()
	lg.Infof("calibration started, dir=%s", dir)

	c.state = Calibrating
	defer func() { c.state = Idle }()

	c.motor.SetDirection(dir)
	c.motor.SetEnable(true)
	defer c.motor.SetEnable(false)

	delay := actuator.StepDelay(c.Speed)
	for steps := 0; ; steps++ {
		select {
		case <-ctx.Done():
			lg.Infof("calibration aborted by shutdown")
			return
		default:
		}
		if steps > 0 && steps%c.CalPollSteps == 0 {
			if cmd, ok := c.dec.Poll(); ok && c.handleCalibrating(cmd, start) {
				return
			}
		}
		c.motor.Pulse()
		c.clock.Sleep(delay)
	}
}

// handleCalibrating processes a decode that arrived while timing.
// Returns true when calibration is over, saved or aborted.
func (c *Controller) handleCalibrating(cmd ir.Command, start time.Time) bool {
	now := c.clock.Now()
	// Only the calibrate and stop keys are considered here, nothing
	// else reaches the filter.
	if cmd.Addr != c.Keymap.Addr || (cmd.Code != c.Keymap.Calibrate && cmd.Code != c.Keymap.Stop) {
		lg.Debugf("ignoring command 0x%02x while calibrating", cmd.Code)
		return false
	}
	if !c.filter.Accept(cmd, now, ir.CalibrationWindow, false) {
		return false
	}
	if cmd.Code == c.Keymap.Stop {
		lg.Infof("calibration aborted, keeping travel=%s", c.travel)
		return true
	}

	elapsed := now.Sub(start)
	c.travel = elapsed
	c.fullyDown = true
	c.fullyUp = false
	lg.Infof("calibration finished, travel=%s", elapsed)
	if err := c.settings.SaveTravel(elapsed); err != nil {
		lg.Errorf("failed to persist travel: %s", err)
	}
	return true
}
