package orbit

import (
	"fmt"
	"sort"
	"time"
)

// Store is the read-only ephemeris reference data behind the search
// operations. Implementations must be safe for concurrent readers.
//
// Template and Swaths return ErrNotFound for pass numbers the store has
// no data for; callers decide whether absence is an error (it is not, for
// the search operations). Any other error means the backing data is
// unreachable or corrupt and is wrapped as ErrDataUnavailable upstream.
type Store interface {
	// Mission describes the repeat orbit the store holds.
	Mission() (MissionInfo, error)

	// Cycles maps known cycle numbers to the time of their first
	// measurement. Cycles beyond the highest key are extrapolated by the
	// cycle axis at CycleDuration spacing.
	Cycles() (map[int]time.Time, error)

	// Templates returns every pass template in ascending pass-number
	// order.
	Templates() ([]*PassTemplate, error)

	// Template returns the template for one pass number.
	Template(pass int) (*PassTemplate, error)

	// Swaths returns the left/right swath footprints for one pass number.
	Swaths(pass int) (*SwathPair, error)

	Close() error
}

// MemStore is an in-memory Store. It backs the seed generator's output
// and substitutes for the SQLite store in tests.
type MemStore struct {
	Info       MissionInfo
	CycleTable map[int]time.Time
	Passes     map[int]*PassTemplate
	SwathTable map[int]*SwathPair
}

// NewMemStore returns an empty in-memory store for the given mission.
func NewMemStore(info MissionInfo) *MemStore {
	return &MemStore{
		Info:       info,
		CycleTable: make(map[int]time.Time),
		Passes:     make(map[int]*PassTemplate),
		SwathTable: make(map[int]*SwathPair),
	}
}

func (m *MemStore) Mission() (MissionInfo, error) {
	return m.Info, nil
}

func (m *MemStore) Cycles() (map[int]time.Time, error) {
	out := make(map[int]time.Time, len(m.CycleTable))
	for k, v := range m.CycleTable {
		out[k] = v
	}
	return out, nil
}

func (m *MemStore) Templates() ([]*PassTemplate, error) {
	out := make([]*PassTemplate, 0, len(m.Passes))
	for _, t := range m.Passes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *MemStore) Template(pass int) (*PassTemplate, error) {
	t, ok := m.Passes[pass]
	if !ok {
		return nil, fmt.Errorf("%w: pass %d", ErrNotFound, pass)
	}
	return t, nil
}

func (m *MemStore) Swaths(pass int) (*SwathPair, error) {
	s, ok := m.SwathTable[pass]
	if !ok {
		return nil, fmt.Errorf("%w: pass %d", ErrNotFound, pass)
	}
	return s, nil
}

func (m *MemStore) Close() error { return nil }
