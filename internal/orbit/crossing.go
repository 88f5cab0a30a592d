package orbit

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/paulmach/orb"

	"github.com/perigee-labs/swathfinder/internal/geo"
)

// CrossingTimes computes, for every row of the selection, the time
// window(s) during which that pass's ground track runs inside the region
// polygon. A pass that never enters the region contributes no rows; a
// pass that enters twice contributes two. Rows are ordered by ascending
// entry time, then pass number.
//
// A nil polygon means "no region restriction": each selected pass yields
// one interval covering its whole transit.
//
// Numeric policy: the ground track is sampled; entry and exit are found
// by linearly interpolating the track's time-versus-nadir-latitude curve
// at the clipped segment's boundary latitudes. Accuracy is therefore
// bounded by the track sample spacing.
func CrossingTimes(store Store, selection SelectionTable, region orb.Polygon) ([]CrossingInterval, error) {
	if region != nil {
		if err := geo.Validate(region); err != nil {
			return nil, err
		}
	}

	// Geometry is per pass number, not per cycle: clip each unique pass
	// once and reuse the offsets for every cycle it was selected in.
	type passWindows struct {
		template *PassTemplate
		windows  [][2]time.Duration // cycle-relative entry/exit offsets
	}
	unique := make(map[int]*passWindows)
	nums := make([]int, 0)
	for _, row := range selection {
		if _, ok := unique[row.PassNumber]; ok {
			continue
		}
		unique[row.PassNumber] = nil
		nums = append(nums, row.PassNumber)
	}
	sort.Ints(nums)

	for _, n := range nums {
		tpl, err := store.Template(n)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}

		pw := &passWindows{template: tpl}
		if region == nil {
			pw.windows = [][2]time.Duration{{tpl.StartOffset, tpl.EndOffset}}
		} else {
			curve := newLatCurve(tpl)
			if curve == nil {
				continue
			}
			for _, seg := range geo.ClipLine(tpl.NadirLine(), region) {
				o1 := curve.offsetAt(seg[0][1])
				o2 := curve.offsetAt(seg[len(seg)-1][1])
				if o2 < o1 {
					o1, o2 = o2, o1
				}
				pw.windows = append(pw.windows, [2]time.Duration{o1, o2})
			}
		}
		unique[n] = pw
	}

	var out []CrossingInterval
	for _, row := range selection {
		pw := unique[row.PassNumber]
		if pw == nil {
			continue
		}
		// Track offsets are cycle-relative; anchor them on the row's
		// absolute window.
		base := row.FirstMeasurement.Add(-pw.template.StartOffset)
		for _, w := range pw.windows {
			out = append(out, CrossingInterval{
				PassNumber: row.PassNumber,
				Entry:      base.Add(w[0]),
				Exit:       base.Add(w[1]),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Entry.Equal(out[j].Entry) {
			return out[i].Entry.Before(out[j].Entry)
		}
		return out[i].PassNumber < out[j].PassNumber
	})
	return out, nil
}

// latCurve maps nadir latitude to cycle-relative time offset for one pass
// template. Half-orbits run pole to pole, so latitude is monotonic along
// the track; the curve is stored ascending by latitude regardless of the
// pass direction.
type latCurve struct {
	lats    []float64
	offsets []time.Duration
}

func newLatCurve(tpl *PassTemplate) *latCurve {
	pts := make([]TrackPoint, 0, len(tpl.Track))
	for _, p := range tpl.Track {
		if finite(p.Lat) {
			pts = append(pts, p)
		}
	}
	if len(pts) < 2 {
		return nil
	}

	// Descending pass: reverse so latitude ascends.
	if pts[0].Lat > pts[len(pts)-1].Lat {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	c := &latCurve{
		lats:    make([]float64, len(pts)),
		offsets: make([]time.Duration, len(pts)),
	}
	for i, p := range pts {
		c.lats[i] = p.Lat
		c.offsets[i] = p.Offset
	}
	return c
}

// offsetAt linearly interpolates the time offset at the given latitude,
// clamping beyond the track's ends.
func (c *latCurve) offsetAt(lat float64) time.Duration {
	i := sort.SearchFloat64s(c.lats, lat)
	if i == 0 {
		return c.offsets[0]
	}
	if i >= len(c.lats) {
		return c.offsets[len(c.offsets)-1]
	}
	lo, hi := c.lats[i-1], c.lats[i]
	if hi == lo {
		return c.offsets[i-1]
	}
	frac := (lat - lo) / (hi - lo)
	d := c.offsets[i] - c.offsets[i-1]
	return c.offsets[i-1] + time.Duration(frac*float64(d))
}
