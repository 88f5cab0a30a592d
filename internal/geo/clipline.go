package geo

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ClipLine restricts a line string (a pass's nadir ground track) to the
// interior of a polygon's outer ring. The result is zero or more line
// strings, one per contiguous run of the track inside the polygon; a
// track that enters and leaves the region twice yields two segments.
// Touch points with no interior extent are dropped.
func ClipLine(ls orb.LineString, p orb.Polygon) []orb.LineString {
	if len(ls) < 2 || len(p) == 0 {
		return nil
	}

	ring := openRing(unwrapRing(p[0]))
	if len(ring) < 3 {
		return nil
	}
	line := orb.LineString(alignRings(ring, orb.Ring(unwrapLine(ls))))
	closed := closedOrbRing(ring)

	var out []orb.LineString
	var cur orb.LineString

	flush := func() {
		if len(cur) >= 2 {
			out = append(out, cur)
		}
		cur = nil
	}

	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		if a == b {
			continue
		}

		// Split the segment at every ring crossing, then keep the pieces
		// whose midpoints are inside.
		ts := crossingParams(a, b, ring)
		prev := 0.0
		for _, t := range append(ts, 1.0) {
			if t-prev < 1e-12 {
				prev = t
				continue
			}
			mid := lerp(a, b, (prev+t)/2)
			if planar.RingContains(closed, mid) {
				start := lerp(a, b, prev)
				end := lerp(a, b, t)
				if len(cur) == 0 {
					cur = append(cur, start)
				}
				cur = append(cur, end)
			} else {
				flush()
			}
			prev = t
		}
	}
	flush()

	return out
}

// crossingParams returns the sorted parameters along segment a-b at which
// it crosses the ring's edges.
func crossingParams(a, b orb.Point, ring orb.Ring) []float64 {
	var ts []float64
	for i := range ring {
		e1 := ring[i]
		e2 := ring[(i+1)%len(ring)]
		if _, t, _, ok := edgeCrossing(a, b, e1, e2); ok {
			ts = append(ts, t)
		}
	}
	sort.Float64s(ts)
	return ts
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}
