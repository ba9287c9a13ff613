// Package logstore implements PersistenceSink over an in-memory
// chronological store, grounded on the corpus's ordered event store: each
// tick's LogRecord is appended as a Record, so the full flight log can be
// queried by range (Range, All, Len). The store is memory-only; it does
// not write the log to disk.
package logstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/highaltitude/cutdown/pkg/core"
)

// Record pairs a LogRecord with the power-relative second it was
// written, for ordered storage and range queries.
type Record struct {
	TPowerS uint32
	Log     core.LogRecord
}

// Store is a thread-safe, append-ordered flight log. Appends arrive in
// non-decreasing t_power_s order from a single tick loop, so the fast
// path never needs to search for an insertion point.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

// New returns an empty store.
func New() *Store {
	return &Store{records: make([]Record, 0, 1024)}
}

// Write appends rec to the log. Invalid numeric fields are encoded with
// a sentinel NaN before being stored, per section 6.
func (s *Store) Write(ctx context.Context, rec core.LogRecord) error {
	encodeInvalid(&rec.LatDeg)
	encodeInvalid(&rec.LonDeg)
	encodeInvalid(&rec.AltM)
	encodeInvalid(&rec.TempC)
	encodeInvalid(&rec.PressureHPa)
	encodeInvalid(&rec.HumidityPct)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, Record{TPowerS: rec.TPowerS, Log: rec})
	return nil
}

func encodeInvalid(v *core.Variable) {
	if !v.Valid {
		v.Value = float32(math.NaN())
	}
}

// Range returns every record with t_power_s in [fromS, toS).
func (s *Store) Range(fromS, toS uint32) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := sort.Search(len(s.records), func(i int) bool {
		return s.records[i].TPowerS >= fromS
	})
	end := sort.Search(len(s.records), func(i int) bool {
		return s.records[i].TPowerS >= toS
	})
	if end <= start {
		return nil
	}

	out := make([]Record, end-start)
	copy(out, s.records[start:end])
	return out
}

// All returns every stored record in chronological order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports how many records have been written.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
