// Package orbit implements pass selection, swath lookup, and crossing-time
// computation over a repeat-orbit mission's precomputed ephemeris. The
// ephemeris lives behind the Store interface: a cycle table (when each
// repeat cycle starts), one template per pass (its time offsets inside the
// cycle plus its nadir ground track), and one swath polygon pair per pass.
package orbit

import (
	"errors"
	"math"
	"time"

	"github.com/paulmach/orb"
)

var (
	// ErrDataUnavailable reports that the ephemeris reference data could
	// not be loaded. Fatal for the operation; no partial result is
	// returned alongside it.
	ErrDataUnavailable = errors.New("ephemeris data unavailable")

	// ErrNotFound reports a pass number absent from the backing store.
	// Store implementations return it from Template and Swaths; the
	// higher-level operations translate absence into omission.
	ErrNotFound = errors.New("pass not found")
)

// MissionInfo describes the repeat-orbit mission behind a store.
type MissionInfo struct {
	Name           string        `json:"name"`
	PassesPerCycle int           `json:"passes_per_cycle"`
	CycleDuration  time.Duration `json:"cycle_duration"`
}

// TrackPoint is one sample of a pass's nadir ground track. Offset is
// measured from the start of the repeat cycle the pass belongs to.
type TrackPoint struct {
	Offset time.Duration
	Lat    float64
	Lon    float64
}

// PassTemplate is the cycle-relative description of one half-orbit: when
// it runs within a cycle and where its nadir point is over time. The same
// template repeats every cycle.
type PassTemplate struct {
	Number      int
	StartOffset time.Duration
	EndOffset   time.Duration
	Track       []TrackPoint
}

// NadirLine returns the template's ground track as a line string,
// dropping non-finite samples.
func (t *PassTemplate) NadirLine() orb.LineString {
	ls := make(orb.LineString, 0, len(t.Track))
	for _, p := range t.Track {
		if !finite(p.Lon) || !finite(p.Lat) {
			continue
		}
		ls = append(ls, orb.Point{p.Lon, p.Lat})
	}
	return ls
}

// SwathPair holds the left and right swath footprints of one pass.
type SwathPair struct {
	Left  orb.Polygon
	Right orb.Polygon
}

// Pass is one row of a selection table: a specific half-orbit of a
// specific cycle with its absolute measurement window.
type Pass struct {
	CycleNumber      int       `json:"cycle_number"`
	PassNumber       int       `json:"pass_number"`
	FirstMeasurement time.Time `json:"first_measurement"`
	LastMeasurement  time.Time `json:"last_measurement"`
}

// SelectionTable is the ordered result of a pass search: ascending by
// first measurement, (cycle, pass) pairs unique.
type SelectionTable []Pass

// PassNumbers returns the table's pass numbers in row order, including
// repeats across cycles.
func (t SelectionTable) PassNumbers() []int {
	nums := make([]int, len(t))
	for i, p := range t {
		nums[i] = p.PassNumber
	}
	return nums
}

// CrossingInterval is the time window during which one selected pass's
// swath overlaps the search polygon. A pass crossing the polygon in two
// disjoint stretches produces two intervals.
type CrossingInterval struct {
	PassNumber int       `json:"pass_number"`
	Entry      time.Time `json:"entry_time"`
	Exit       time.Time `json:"exit_time"`
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
