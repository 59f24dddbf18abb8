package store

// MemStore is an in-memory BlockStore. It backs tests and lets the
// controller run on hardware without an EEPROM fitted, at the cost
// of losing calibration across restarts.
type MemStore struct {
	data [8]byte

	// Fail, when set, is returned by every region operation.
	Fail error
}

func (m *MemStore) ReadRegion(off int, buf []byte) error {
	if m.Fail != nil {
		return m.Fail
	}
	copy(buf, m.data[off:])
	return nil
}

func (m *MemStore) WriteRegion(off int, data []byte) error {
	if m.Fail != nil {
		return m.Fail
	}
	copy(m.data[off:], data)
	return nil
}
