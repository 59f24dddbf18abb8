package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/aliher1911/rollerblind/cli"

	logger "github.com/d2r2/go-logger"
	rpio "github.com/stianeikeland/go-rpio/v4"
)

func main() {
	logger.ChangePackageLogLevel("i2c", logger.InfoLevel)

	bus := flag.Uint("bus", 1, "i2c bus with the settings eeprom")
	flag.Parse()

	fmt.Println("roller blind control")
	err := rpio.Open()
	if err != nil {
		fmt.Printf("failed to open GPIO: %s\n", err)
		return
	}
	defer rpio.Close()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	switch flag.Arg(0) {
	case "", "service":
		cli.Service(*bus, sigs)
	case "listen":
		cli.Listen(sigs)
	case "jog":
		steps, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			fmt.Printf("jog needs a step count: %s\n", err)
			return
		}
		cli.Jog(steps)
	case "settings":
		cli.ShowSettings(*bus)
	case "clear":
		cli.ClearSettings(*bus)
	default:
		fmt.Printf("unknown command %q\n", flag.Arg(0))
	}
}
