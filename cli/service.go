package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/aliher1911/rollerblind/actuator"
	"github.com/aliher1911/rollerblind/controller"
	"github.com/aliher1911/rollerblind/ir"
	"github.com/aliher1911/rollerblind/store"
)

// Service wires the receiver, dispatcher and settings store together
// and runs until a signal arrives.
func Service(bus uint, sigs <-chan os.Signal) {
	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := actuator.NewStepper(actuator.DefaultPins())
	defer s.PowerOff()

	ee, err := store.NewEEPROM(store.Default(bus))
	if err != nil {
		fmt.Printf("failed to open settings eeprom: %s\n", err)
		return
	}
	defer ee.Close()

	r := ir.NewReceiver(ir.DefaultPin)
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Run(ctx)
	}()

	ctrl := controller.New(s, r, store.New(ee), controller.Defaults(), actuator.SystemClock())
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.Run(ctx)
	}()

	<-sigs
	fmt.Println("service: Received interrupt signal. Aborting.")
}
