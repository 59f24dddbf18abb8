package controller

import "github.com/aliher1911/rollerblind/actuator"

// Action is a user intent from the remote, independent of how the
// motor is wired or which way the blind is mounted.
type Action int

const (
	RollUp Action = iota
	RollDown
	NudgeUp
	NudgeDown
	// Calibration always drives toward fully down.
	Calibrate
)

func (a Action) String() string {
	switch a {
	case RollUp:
		return "roll up"
	case RollDown:
		return "roll down"
	case NudgeUp:
		return "nudge up"
	case NudgeDown:
		return "nudge down"
	case Calibrate:
		return "calibrate"
	}
	return "unknown"
}

// Orientation reconciles the blind's physical mounting with logical
// actions. It is persisted and flipped only by the reverse key.
type Orientation int

const (
	Normal Orientation = iota
	Reversed
)

func (o Orientation) Flip() Orientation {
	if o == Normal {
		return Reversed
	}
	return Normal
}

func (o Orientation) String() string {
	if o == Normal {
		return "normal"
	}
	return "reversed"
}

// Resolve maps an action to the physical rotation sense. Under the
// normal orientation a full roll up winds clockwise; nudges run in
// the opposite sense of the full roll of the same name, they trim
// the winding back rather than continue it. Reversed mounting flips
// every row of the table.
func Resolve(a Action, o Orientation) actuator.Direction {
	var d actuator.Direction
	switch a {
	case RollUp, NudgeDown:
		d = actuator.CW
	case RollDown, NudgeUp, Calibrate:
		d = actuator.CCW
	}
	if o == Reversed {
		d = d.Opposite()
	}
	return d
}
