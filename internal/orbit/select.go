package orbit

import (
	"fmt"
	"sort"
	"time"
)

// SelectPasses returns every pass whose measurement window overlaps
// [start, start+duration], ordered by ascending first measurement.
//
// Policy: a zero or negative duration yields an empty table and no error.
// The caller asked for nothing and gets nothing; only unreadable
// reference data is an error.
func SelectPasses(store Store, start time.Time, duration time.Duration) (SelectionTable, error) {
	if duration <= 0 {
		return SelectionTable{}, nil
	}

	info, err := store.Mission()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	cycles, err := store.Cycles()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	axis, err := NewCycleAxis(cycles, info.CycleDuration)
	if err != nil {
		return nil, err
	}
	templates, err := store.Templates()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	end := start.Add(duration)
	firstCycle, lastCycle := axis.Covering(start, end)

	var table SelectionTable
	for c := firstCycle; c <= lastCycle; c++ {
		cs := axis.Start(c)
		for _, t := range templates {
			first := cs.Add(t.StartOffset)
			last := cs.Add(t.EndOffset)
			if last.Before(start) || first.After(end) {
				continue
			}
			table = append(table, Pass{
				CycleNumber:      c,
				PassNumber:       t.Number,
				FirstMeasurement: first,
				LastMeasurement:  last,
			})
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].FirstMeasurement.Before(table[j].FirstMeasurement)
	})
	if table == nil {
		table = SelectionTable{}
	}
	return table, nil
}
