package store

import (
	"fmt"
	"time"

	i2c "github.com/aliher1911/go-i2c"
)

const defaultAddr = 0x50

// Internal write cycle time per the AT24C datasheet.
const writeCycle = 5 * time.Millisecond

type Conf struct {
	Bus  int
	Addr uint8
}

func Default(bus uint) Conf {
	return Conf{
		Bus:  int(bus),
		Addr: defaultAddr,
	}
}

// EEPROM exposes an AT24C-style I2C EEPROM as a BlockStore. The
// settings region is tiny and sits at the start of the first page,
// so page boundaries never come into play.
type EEPROM struct {
	bus *i2c.I2C
}

func NewEEPROM(c Conf) (*EEPROM, error) {
	bus, err := i2c.NewI2C(c.Addr, c.Bus)
	if err != nil {
		return nil, err
	}
	return &EEPROM{bus: bus}, nil
}

func (e *EEPROM) ReadRegion(off int, buf []byte) error {
	// Set the word address, then sequential read.
	if err := e.writeBytes([]byte{byte(off >> 8), byte(off)}); err != nil {
		return err
	}
	c, err := e.bus.ReadBytes(buf)
	if err != nil {
		return err
	}
	if exp := len(buf); exp != c {
		return fmt.Errorf("expected to read %d bytes, read %d", exp, c)
	}
	return nil
}

func (e *EEPROM) WriteRegion(off int, data []byte) error {
	b := make([]byte, 2, 2+len(data))
	b[0], b[1] = byte(off>>8), byte(off)
	b = append(b, data...)
	if err := e.writeBytes(b); err != nil {
		return err
	}
	// Block until the internal write cycle completes so the caller
	// can rely on durability when we return.
	time.Sleep(writeCycle)
	return nil
}

func (e *EEPROM) Close() {
	e.bus.Close()
}

func (e *EEPROM) writeBytes(b []byte) error {
	c, err := e.bus.WriteBytes(b)
	if err != nil {
		return err
	}
	if exp := len(b); exp != c {
		return fmt.Errorf("expected to write %d bytes, wrote %d", exp, c)
	}
	return nil
}
