package ir

import "time"

// Protocol identifiers attached to decoded commands. Zero means the
// decoder could not attribute the frame to any protocol.
const (
	ProtocolUnknown uint8 = iota
	ProtocolNEC
)

// InvalidCode marks a frame that failed decoding or verification.
const InvalidCode uint16 = 0xffff

// Command is one decoded remote press. Produced once per decode and
// consumed immediately by the dispatcher.
type Command struct {
	Code  uint16
	Addr  uint16
	Proto uint8
	At    time.Time
}

// Valid reports whether the decode looks like a real remote press
// rather than a receiver glitch. An all-bits-set code is the decoder
// failure sentinel; an all-zero code, address and protocol is noise.
func (c Command) Valid() bool {
	if c.Code == InvalidCode {
		return false
	}
	if c.Code == 0 && c.Addr == 0 && c.Proto == ProtocolUnknown {
		return false
	}
	return true
}

// Keymap is the static table of remote codes the device reacts to.
// Codes follow whatever remote the receiver is paired with; the
// defaults match a common NEC media remote.
type Keymap struct {
	// Remote address; frames from other addresses are ignored.
	Addr uint16

	Up    uint16 // full roll up
	Down  uint16 // full roll down
	Left  uint16 // nudge up
	Right uint16 // nudge down

	Stop      uint16 // emergency stop
	Calibrate uint16 // calibration start/finish toggle
	Reverse   uint16 // orientation flip
}

func DefaultKeymap() Keymap {
	return Keymap{
		Addr:      0xbf00,
		Up:        0x01,
		Down:      0x09,
		Left:      0x04,
		Right:     0x06,
		Stop:      0x05,
		Calibrate: 0x0e,
		Reverse:   0x1a,
	}
}

// Decoder is the non-blocking poll contract the dispatcher consumes.
// Poll returns at most one command per call. Auto-repeat frames are
// delivered as fresh presses; filtering them is the caller's job.
type Decoder interface {
	Poll() (Command, bool)
}
