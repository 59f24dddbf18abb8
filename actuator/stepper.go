package actuator

import (
	"fmt"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// Direction is the physical rotation sense of the motor shaft,
// viewed from the blind axle side.
type Direction int

const (
	CW Direction = iota
	CCW
)

func (d Direction) Opposite() Direction {
	if d == CW {
		return CCW
	}
	return CW
}

func (d Direction) String() string {
	if d == CW {
		return "cw"
	}
	return "ccw"
}

// Motor is the pulse-level interface to a stepper driver. Motion
// loops talk to the hardware only through it.
type Motor interface {
	// SetEnable powers the driver stage on or off. The driver must be
	// left idle whenever no motion is in progress.
	SetEnable(on bool)
	SetDirection(d Direction)
	// Pulse emits a single step on the step line.
	Pulse()
}

type Pins struct {
	Step   int
	Dir    int
	Enable int
}

func DefaultPins() Pins {
	return Pins{Step: 16, Dir: 17, Enable: 18}
}

// Stepper drives a STEP/DIR/ENABLE stepper driver board (A4988 and
// friends) over GPIO.
type Stepper struct {
	step   rpio.Pin
	dir    rpio.Pin
	enable rpio.Pin

	// Minimum high time on the step line.
	pulseWidth time.Duration
}

const defaultPulseWidth = 2 * time.Microsecond

func NewStepper(p Pins) *Stepper {
	fmt.Printf("creating new stepper at pins step=%d dir=%d enable=%d\n", p.Step, p.Dir, p.Enable)
	s := &Stepper{
		step:       rpio.Pin(p.Step),
		dir:        rpio.Pin(p.Dir),
		enable:     rpio.Pin(p.Enable),
		pulseWidth: defaultPulseWidth,
	}
	s.step.Output()
	s.step.Low()
	s.dir.Output()
	s.dir.Low()
	s.enable.Output()
	// Enable is active low on these drivers, start powered off.
	s.enable.High()
	return s
}

func (s *Stepper) SetEnable(on bool) {
	if on {
		s.enable.Low()
	} else {
		s.enable.High()
	}
}

func (s *Stepper) SetDirection(d Direction) {
	if d == CW {
		s.dir.High()
	} else {
		s.dir.Low()
	}
}

func (s *Stepper) Pulse() {
	s.step.High()
	time.Sleep(s.pulseWidth)
	s.step.Low()
}

func (s *Stepper) PowerOff() {
	s.SetEnable(false)
}
