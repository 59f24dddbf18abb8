package actuator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

type fakeMotor struct {
	enabled   bool
	enableLog []bool
	dir       Direction
	pulses    int
}

func (m *fakeMotor) SetEnable(on bool) {
	m.enabled = on
	m.enableLog = append(m.enableLog, on)
}

func (m *fakeMotor) SetDirection(d Direction) { m.dir = d }

func (m *fakeMotor) Pulse() { m.pulses++ }

func TestRunTimedConstant(t *testing.T) {
	m := &fakeMotor{}
	clk := &fakeClock{}
	g := NewGenerator(m, clk)

	// 1000 steps/s is 1ms per step, so 100ms of travel is 100 steps.
	res := g.RunTimed(CCW, 1000, 100*time.Millisecond, nil)

	require.Equal(t, 100, res.Steps)
	require.False(t, res.Cancelled)
	require.Equal(t, 100, m.pulses)
	require.Equal(t, CCW, m.dir)
	require.Equal(t, []bool{true, false}, m.enableLog)
	require.False(t, m.enabled)
}

func TestRunTimedCancel(t *testing.T) {
	m := &fakeMotor{}
	clk := &fakeClock{}
	g := NewGenerator(m, clk)
	g.PollEvery = 10

	res := g.RunTimed(CW, 1000, time.Second, func() bool { return true })

	require.True(t, res.Cancelled)
	require.Equal(t, 10, res.Steps)
	// Driver must be idle after an early return too.
	require.False(t, m.enabled)
}

func TestRunTimedCancelLatency(t *testing.T) {
	m := &fakeMotor{}
	clk := &fakeClock{}
	g := NewGenerator(m, clk)

	// Cancellation raised mid-flight is observed on the next poll
	// boundary, within PollEvery steps.
	var stop bool
	res := g.RunTimed(CW, 1000, time.Second, func() bool { return stop })
	require.False(t, res.Cancelled)

	m2 := &fakeMotor{}
	g2 := NewGenerator(m2, &fakeClock{})
	calls := 0
	res = g2.RunTimed(CW, 1000, time.Second, func() bool {
		calls++
		return calls == 3
	})
	require.True(t, res.Cancelled)
	require.Equal(t, 3*g2.PollEvery, res.Steps)
}

func TestTrapezoidProfile(t *testing.T) {
	m := &fakeMotor{}
	clk := &fakeClock{}
	g := NewGenerator(m, clk)

	const steps = 40
	res := g.RunTrapezoid(CW, steps, 100, 200, nil)

	require.Equal(t, steps, res.Steps)
	require.False(t, res.Cancelled)
	require.Len(t, clk.sleeps, steps)

	// First step at floor speed, cruise at max speed.
	require.Equal(t, 10*time.Millisecond, clk.sleeps[0])
	require.Equal(t, 5*time.Millisecond, clk.sleeps[steps/2])
	// Ramp up and ramp down are symmetric.
	for i := 0; i < steps/4; i++ {
		require.Equal(t, clk.sleeps[i], clk.sleeps[steps-1-i], "step %d", i)
	}
	require.Equal(t, []bool{true, false}, m.enableLog)
}

func TestTrapezoidShortMove(t *testing.T) {
	m := &fakeMotor{}
	clk := &fakeClock{}
	g := NewGenerator(m, clk)

	// Too short to ramp, whole move runs at floor speed.
	res := g.RunTrapezoid(CCW, 3, 100, 200, nil)
	require.Equal(t, 3, res.Steps)
	for _, d := range clk.sleeps {
		require.Equal(t, 10*time.Millisecond, d)
	}
}

func TestTrapezoidCancel(t *testing.T) {
	m := &fakeMotor{}
	g := NewGenerator(m, &fakeClock{})
	g.PollEvery = 50

	res := g.RunTrapezoid(CW, 1000, 100, 200, func() bool { return true })
	require.True(t, res.Cancelled)
	require.Equal(t, 50, res.Steps)
	require.False(t, m.enabled)
}
