package store

import (
	"encoding/binary"
	"time"

	logger "github.com/d2r2/go-logger"
)

var lg = logger.NewPackageLogger("store", logger.InfoLevel)

// BlockStore is a small random access persistence region. Writes are
// synchronous: when WriteRegion returns the data is durable.
type BlockStore interface {
	ReadRegion(off int, buf []byte) error
	WriteRegion(off int, data []byte) error
}

// Persisted layout. The travel field is a little endian uint32 of
// milliseconds, zero meaning unset. Orientation is a single byte,
// any non-zero value reads as reversed.
const (
	travelOff = 0
	travelLen = 4
	orientOff = 4
	orientLen = 1
)

const (
	// DefaultTravel is used when no calibrated travel duration is
	// stored or the stored one is out of range.
	DefaultTravel = 5 * time.Second
	// MaxTravel bounds stored durations. Valid range is
	// (0, MaxTravel], everything else falls back to DefaultTravel.
	MaxTravel = 60 * time.Second
)

// Settings is the in-memory copy of the persisted configuration.
// The dispatcher caches it at startup and writes fields back
// individually on explicit save events.
type Settings struct {
	Travel   time.Duration
	Reversed bool
}

type Store struct {
	b BlockStore
}

func New(b BlockStore) *Store {
	return &Store{b: b}
}

// Load reads both persisted fields. An out of range travel duration
// is replaced with DefaultTravel; the returned settings are always
// usable even when err is set.
func (s *Store) Load() (Settings, error) {
	out := Settings{Travel: DefaultTravel}

	buf := make([]byte, travelLen+orientLen)
	if err := s.b.ReadRegion(travelOff, buf); err != nil {
		return out, err
	}

	ms := binary.LittleEndian.Uint32(buf[travelOff : travelOff+travelLen])
	if d := time.Duration(ms) * time.Millisecond; d > 0 && d <= MaxTravel {
		out.Travel = d
	} else {
		lg.Infof("stored travel %dms out of range, using default %s", ms, DefaultTravel)
	}
	// Any bit pattern is a valid orientation.
	out.Reversed = buf[orientOff] != 0
	return out, nil
}

// SaveTravel persists a calibrated travel duration. Out of range
// values are stored as is and clamped on the next Load, matching
// the calibration flow.
func (s *Store) SaveTravel(d time.Duration) error {
	buf := make([]byte, travelLen)
	binary.LittleEndian.PutUint32(buf, uint32(d.Milliseconds()))
	return s.b.WriteRegion(travelOff, buf)
}

// ClearTravel writes the unset sentinel so the next Load falls back
// to DefaultTravel.
func (s *Store) ClearTravel() error {
	return s.SaveTravel(0)
}

func (s *Store) SaveReversed(rev bool) error {
	b := byte(0)
	if rev {
		b = 1
	}
	return s.b.WriteRegion(orientOff, []byte{b})
}
