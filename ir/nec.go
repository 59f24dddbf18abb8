package ir

import (
	"time"

	logger "github.com/d2r2/go-logger"
)

var lg = logger.NewPackageLogger("ir", logger.InfoLevel)

// TimePair is one mark/space interval pair as seen by the receiver
// pin. The demodulator output idles high and pulls low for a mark,
// so a pair is complete on each falling edge.
type TimePair struct {
	Mark  time.Duration
	Space time.Duration
}

// NEC frame timing. Real receivers show over ten percent of jitter
// on these, classification works on wide bands rather than points.
const (
	necLeadMark    = 9000 * time.Microsecond
	necLeadSpace   = 4500 * time.Microsecond
	necRepeatSpace = 2250 * time.Microsecond
	necBitMark     = 562 * time.Microsecond
	necZeroSpace   = 562 * time.Microsecond
	necOneSpace    = 1687 * time.Microsecond

	necFrameBits = 32
)

// near classifies a measured duration against a nominal one with
// +/-25% tolerance.
func near(d, ref time.Duration) bool {
	return d > ref*3/4 && d < ref*5/4
}

type necState int

const (
	necIdle necState = iota
	necData
)

// necDecoder assembles NEC frames from mark/space pairs. It is a
// pure state machine over durations so it can be driven from a GPIO
// sampling loop or from canned timings in tests.
type necDecoder struct {
	state necState
	bits  int
	value uint32

	// Last good frame, re-emitted for repeat bursts while a key is
	// held. Auto-repeats deliberately look like fresh presses.
	last    Command
	haveCmd bool

	emit func(Command)
	now  func() time.Time
}

func (d *necDecoder) feed(p TimePair) {
	if near(p.Mark, necLeadMark) {
		switch {
		case near(p.Space, necLeadSpace):
			d.state = necData
			d.bits = 0
			d.value = 0
		case near(p.Space, necRepeatSpace) && d.haveCmd:
			repeat := d.last
			repeat.At = d.now()
			d.emit(repeat)
		default:
			d.state = necIdle
		}
		return
	}

	if d.state != necData {
		return
	}
	if !near(p.Mark, necBitMark) {
		// Garbled mark, drop the frame.
		d.state = necIdle
		return
	}

	// Bits arrive LSB first.
	switch {
	case near(p.Space, necOneSpace):
		d.value |= 1 << d.bits
	case near(p.Space, necZeroSpace):
	default:
		d.state = necIdle
		return
	}
	d.bits++
	if d.bits == necFrameBits {
		d.state = necIdle
		d.finish()
	}
}

// finish verifies and emits an assembled 32-bit frame. Layout is
// address, address complement (or address high byte in the extended
// protocol), command, command complement.
func (d *necDecoder) finish() {
	b0 := uint8(d.value)
	b1 := uint8(d.value >> 8)
	b2 := uint8(d.value >> 16)
	b3 := uint8(d.value >> 24)

	addr := uint16(b0)
	if b1 != ^b0 {
		// Extended NEC carries a 16 bit address instead of the
		// complement check.
		addr = uint16(b0) | uint16(b1)<<8
	}

	cmd := Command{
		Code:  uint16(b2),
		Addr:  addr,
		Proto: ProtocolNEC,
		At:    d.now(),
	}
	if b3 != ^b2 {
		lg.Debugf("command verification failed: %08x", d.value)
		cmd.Code = InvalidCode
		d.haveCmd = false
	} else {
		d.last = cmd
		d.haveCmd = true
	}
	d.emit(cmd)
}
