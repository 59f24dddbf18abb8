package ir

import "time"

// Debounce windows for repeated presses of the same key. The window
// widens during calibration so the finishing press of the start/stop
// pair is not mistaken for key bounce.
const (
	NormalWindow      = 200 * time.Millisecond
	CalibrationWindow = time.Second
)

// Filter suppresses auto-repeat frames and duplicate decodes from a
// single press. State is owned by the dispatcher and never expires
// beyond the time window.
type Filter struct {
	lastCode uint16
	lastTime time.Time
}

// Accept reports whether cmd should be dispatched. A repeat of the
// last code inside window is dropped. bypass skips the window check
// and is reserved for the emergency stop while the motor runs; motor
// safety beats debounce. Accepted commands always update the filter
// state, bypass included.
func (f *Filter) Accept(cmd Command, now time.Time, window time.Duration, bypass bool) bool {
	if !cmd.Valid() {
		return false
	}
	if !bypass && cmd.Code == f.lastCode && now.Sub(f.lastTime) <= window {
		return false
	}
	f.lastCode = cmd.Code
	f.lastTime = now
	return true
}
