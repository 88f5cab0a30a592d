package orbit

import (
	"fmt"
	"sort"
	"time"
)

// CycleAxis maps cycle numbers to cycle start times. Known starts come
// from the mission's reference table (measured first-measurement times);
// starts past the last known cycle are extrapolated at cycle-duration
// spacing from it, so searches can run beyond the published table.
type CycleAxis struct {
	known    map[int]time.Time
	lastNum  int
	lastTime time.Time
	duration time.Duration
}

// NewCycleAxis builds an axis from the known cycle table. The table must
// be non-empty and the cycle duration positive.
func NewCycleAxis(known map[int]time.Time, duration time.Duration) (*CycleAxis, error) {
	if len(known) == 0 {
		return nil, fmt.Errorf("%w: empty cycle table", ErrDataUnavailable)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: non-positive cycle duration %v", ErrDataUnavailable, duration)
	}

	nums := make([]int, 0, len(known))
	for n := range known {
		if n < 1 {
			return nil, fmt.Errorf("%w: cycle number %d out of range", ErrDataUnavailable, n)
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	last := nums[len(nums)-1]

	return &CycleAxis{
		known:    known,
		lastNum:  last,
		lastTime: known[last],
		duration: duration,
	}, nil
}

// Start returns the start time of cycle n (1-based). Cycles between known
// entries interpolate from the nearest earlier known cycle; cycles after
// the last known entry extrapolate from it.
func (a *CycleAxis) Start(n int) time.Time {
	if t, ok := a.known[n]; ok {
		return t
	}
	if n > a.lastNum {
		return a.lastTime.Add(time.Duration(n-a.lastNum) * a.duration)
	}
	// Gap inside the table: walk back to the nearest known cycle.
	for k := n - 1; k >= 1; k-- {
		if t, ok := a.known[k]; ok {
			return t.Add(time.Duration(n-k) * a.duration)
		}
	}
	// Before the first known cycle: extrapolate backward from it.
	for k := n + 1; ; k++ {
		if t, ok := a.known[k]; ok {
			return t.Add(-time.Duration(k-n) * a.duration)
		}
	}
}

// Covering returns the inclusive cycle-number range whose windows can
// overlap [from, to]. The lower bound is clamped to cycle 1.
func (a *CycleAxis) Covering(from, to time.Time) (int, int) {
	first := a.at(from) // cycle containing or preceding from
	if first < 1 {
		first = 1
	}
	last := a.at(to)
	if last < first {
		last = first
	}
	return first, last
}

// at returns the highest cycle whose start is not after t.
func (a *CycleAxis) at(t time.Time) int {
	// The known table is small (a few hundred cycles); linear probing
	// from cycle 1 would do, but extrapolation makes the axis unbounded
	// above, so bound the scan using the last known cycle first.
	if t.After(a.lastTime) {
		n := a.lastNum + int(t.Sub(a.lastTime)/a.duration)
		// Extrapolated spacing is exact, but guard the boundary.
		for a.Start(n+1).Before(t) || a.Start(n+1).Equal(t) {
			n++
		}
		return n
	}
	n := 0
	for c := 1; c <= a.lastNum; c++ {
		if a.Start(c).After(t) {
			break
		}
		n = c
	}
	return n
}
