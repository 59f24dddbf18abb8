package ir

import (
	"context"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

const DefaultPin = 19

// Sampling period for the demodulator output. Bit marks are 562us,
// so 50us sampling leaves plenty of margin for classification.
const sampleEvery = 50 * time.Microsecond

// Receiver decodes NEC frames from a 38kHz demodulator connected to
// a GPIO pin. Run samples the pin on its own goroutine; decoded
// commands are handed over through a small buffer so Poll never
// blocks the control loop.
type Receiver struct {
	pin  rpio.Pin
	outC chan Command
	dec  necDecoder
}

func NewReceiver(pinNum int) *Receiver {
	pin := rpio.Pin(pinNum)
	pin.Input()
	pin.Pull(rpio.PullUp)

	r := &Receiver{
		pin: pin,
		// A held key produces repeat frames faster than the
		// dispatcher drains them during a move, keep a few.
		outC: make(chan Command, 4),
	}
	r.dec = necDecoder{
		emit: r.push,
		now:  time.Now,
	}
	return r
}

func (r *Receiver) push(cmd Command) {
	select {
	case r.outC <- cmd:
	default:
		lg.Debugf("dropping command 0x%02x, queue full", cmd.Code)
	}
}

// Poll returns the next decoded command if one is pending. It never
// blocks.
func (r *Receiver) Poll() (Command, bool) {
	select {
	case cmd := <-r.outC:
		return cmd, true
	default:
		return Command{}, false
	}
}

// Run is the pin sampling loop and should be started in a separate
// goroutine. The demodulator idles high; a mark pulls the line low.
// Each falling edge completes a mark/space pair which is fed to the
// protocol state machine.
func (r *Receiver) Run(ctx context.Context) error {
	level := r.pin.Read()
	last := time.Now()
	var mark time.Duration

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cur := r.pin.Read()
		if cur != level {
			now := time.Now()
			d := now.Sub(last)
			last = now
			if level == rpio.Low {
				// Rising edge, a mark just ended.
				mark = d
			} else if mark > 0 {
				// Falling edge completes the pair.
				r.dec.feed(TimePair{Mark: mark, Space: d})
			}
			level = cur
		}
		time.Sleep(sampleEvery)
	}
}
