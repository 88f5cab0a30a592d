package orbit

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/perigee-labs/swathfinder/internal/geo"
)

// SwathSet holds the left and right swath footprints of a set of passes,
// keyed by pass number. Order lists the pass numbers in first-occurrence
// input order so callers can iterate deterministically.
type SwathSet struct {
	Left  map[int]orb.Polygon
	Right map[int]orb.Polygon
	Order []int
}

// LoadSwaths looks up the swath polygon pair for each requested pass.
// Duplicates in the input are collapsed to their first occurrence. A pass
// number the store has no geometry for is omitted from the result; the
// caller sees "no swath data", not an error. Only an unreadable store is
// an error.
func LoadSwaths(store Store, passNumbers []int) (*SwathSet, error) {
	set := &SwathSet{
		Left:  make(map[int]orb.Polygon),
		Right: make(map[int]orb.Polygon),
	}

	seen := make(map[int]struct{}, len(passNumbers))
	for _, n := range passNumbers {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}

		pair, err := store.Swaths(n)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}
		set.Left[n] = pair.Left
		set.Right[n] = pair.Right
		set.Order = append(set.Order, n)
	}
	return set, nil
}

// FilterByRegion drops selection rows whose pass swath does not intersect
// the region polygon. A nil polygon keeps everything. Passes without
// swath geometry in the store are dropped: with no footprint there is
// nothing to intersect.
func FilterByRegion(store Store, table SelectionTable, region orb.Polygon) (SelectionTable, error) {
	if region == nil {
		return table, nil
	}
	if err := geo.Validate(region); err != nil {
		return nil, err
	}

	swaths, err := LoadSwaths(store, table.PassNumbers())
	if err != nil {
		return nil, err
	}

	hits := make(map[int]bool, len(swaths.Order))
	for _, n := range swaths.Order {
		hits[n] = len(geo.Intersect(swaths.Left[n], region)) > 0 ||
			len(geo.Intersect(swaths.Right[n], region)) > 0
	}

	out := make(SelectionTable, 0, len(table))
	for _, row := range table {
		if hits[row.PassNumber] {
			out = append(out, row)
		}
	}
	return out, nil
}
