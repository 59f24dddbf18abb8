package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aliher1911/rollerblind/actuator"
	"github.com/aliher1911/rollerblind/controller"
	"github.com/aliher1911/rollerblind/ir"
	"github.com/aliher1911/rollerblind/store"
)

// Jog moves the motor a fixed number of steps without a remote.
// Positive steps run clockwise.
func Jog(steps int) {
	s := actuator.NewStepper(actuator.DefaultPins())
	defer s.PowerOff()

	dir := actuator.CW
	if steps < 0 {
		dir = actuator.CCW
		steps = -steps
	}

	cfg := controller.Defaults()
	g := actuator.NewGenerator(s, actuator.SystemClock())
	res := g.RunTrapezoid(dir, steps, cfg.MinSpeed, cfg.MaxSpeed, nil)
	fmt.Printf("jog done, %d steps %s\n", res.Steps, dir)
}

// Listen dumps decoded remote presses so key codes can be collected
// for the keymap.
func Listen(sigs <-chan os.Signal) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := ir.NewReceiver(ir.DefaultPin)
	go r.Run(ctx)

	fmt.Println("press remote keys, ctrl-c to stop")
	for {
		select {
		case s := <-sigs:
			fmt.Printf("stopping on signal %s\n", s)
			return
		default:
		}
		if cmd, ok := r.Poll(); ok {
			fmt.Printf("addr=0x%04x code=0x%02x proto=%d valid=%t\n",
				cmd.Addr, cmd.Code, cmd.Proto, cmd.Valid())
		}
		<-time.After(10 * time.Millisecond)
	}
}

func ShowSettings(bus uint) {
	ee, err := store.NewEEPROM(store.Default(bus))
	if err != nil {
		fmt.Printf("failed to open settings eeprom: %s\n", err)
		return
	}
	defer ee.Close()

	s, err := store.New(ee).Load()
	if err != nil {
		fmt.Printf("failed to load settings: %s\n", err)
		return
	}
	fmt.Printf("travel=%s reversed=%t\n", s.Travel, s.Reversed)
}

func ClearSettings(bus uint) {
	ee, err := store.NewEEPROM(store.Default(bus))
	if err != nil {
		fmt.Printf("failed to open settings eeprom: %s\n", err)
		return
	}
	defer ee.Close()

	if err := store.New(ee).ClearTravel(); err != nil {
		fmt.Printf("failed to clear travel: %s\n", err)
		return
	}
	fmt.Println("stored travel cleared")
}
