package orbit

import (
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/perigee-labs/swathfinder/internal/geo"
)

// The test mission has a 4 hour repeat cycle with 4 back-to-back passes
// of one hour each. Tracks are straight meridian runs so entry and exit
// latitudes map to offsets exactly.
var t0 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

const testCycle = 4 * time.Hour

// linearTrack samples a meridian run at fixed longitude: latitude moves
// linearly from -60 to 60 (or back) over one hour, 12 minutes per step.
func linearTrack(startOffset time.Duration, lon float64, ascending bool) []TrackPoint {
	lats := []float64{-60, -36, -12, 12, 36, 60}
	pts := make([]TrackPoint, len(lats))
	for i, lat := range lats {
		if !ascending {
			lat = -lat
		}
		pts[i] = TrackPoint{
			Offset: startOffset + time.Duration(i)*12*time.Minute,
			Lat:    lat,
			Lon:    lon,
		}
	}
	return pts
}

// rect builds a closed axis-aligned polygon.
func rect(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
	}}
}

// testStore builds the fixture mission:
//
//	pass 1: ascending at lon 10 (over Europe)
//	pass 2: descending at lon -80
//	pass 3: ascending at lon ~170, right swath crossing the antimeridian
//	pass 4: descending at lon 100
func testStore() *MemStore {
	s := NewMemStore(MissionInfo{
		Name:           "TESTSAT",
		PassesPerCycle: 4,
		CycleDuration:  testCycle,
	})
	s.CycleTable[1] = t0
	s.CycleTable[2] = t0.Add(testCycle)

	type spec struct {
		lon       float64
		ascending bool
	}
	specs := []spec{{10, true}, {-80, false}, {170, true}, {100, false}}

	for i, sp := range specs {
		n := i + 1
		start := time.Duration(i) * time.Hour
		s.Passes[n] = &PassTemplate{
			Number:      n,
			StartOffset: start,
			EndOffset:   start + time.Hour,
			Track:       linearTrack(start, sp.lon, sp.ascending),
		}
	}

	s.SwathTable[1] = &SwathPair{
		Left:  rect(8.5, -60, 9.5, 60),
		Right: rect(10.5, -60, 11.5, 60),
	}
	s.SwathTable[2] = &SwathPair{
		Left:  rect(-81.5, -60, -80.5, 60),
		Right: rect(-79.5, -60, -78.5, 60),
	}
	s.SwathTable[3] = &SwathPair{
		Left: rect(168.5, -60, 169.5, 60),
		// Crosses the seam: lon 170.5 east through 180 to -168.5.
		Right: orb.Polygon{orb.Ring{
			{170.5, -60}, {-168.5, -60}, {-168.5, 60}, {170.5, 60}, {170.5, -60},
		}},
	}
	s.SwathTable[4] = &SwathPair{
		Left:  rect(98.5, -60, 99.5, 60),
		Right: rect(100.5, -60, 101.5, 60),
	}
	return s
}

// europe is the region used by the end-to-end scenarios.
const europeWKT = "POLYGON((-6 36,-6 60,36 60,36 36,-6 36))"

func mustRegion(t *testing.T, wkt string) orb.Polygon {
	t.Helper()
	p, err := geo.ParsePolygon(wkt)
	if err != nil {
		t.Fatalf("parse region: %v", err)
	}
	return p
}
