package seed

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/paulmach/orb"

	"github.com/perigee-labs/swathfinder/internal/config"
	"github.com/perigee-labs/swathfinder/internal/orbit"
)

// kmPerDegLat is the meridional arc length of one degree of latitude.
const kmPerDegLat = 111.195

// Options drives one ephemeris generation run.
type Options struct {
	MissionName      string
	Line1, Line2     string
	NoradID          int
	StepSeconds      int
	PassesPerCycle   int
	SwathHalfWidthKm float64
	SwathGapKm       float64
}

// FromConfig resolves the TLE through the tiered source and generates a
// store per the seed configuration.
func FromConfig(cfg config.Config) (*orbit.MemStore, error) {
	src := NewTLESource(cfg.Seed.TLEURL, cfg.Data.Root, cfg.Seed.NoradID, cfg.Seed.TLERefreshHours)
	l1, l2, err := src.Fetch()
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return Generate(Options{
		MissionName:      cfg.Mission.Name,
		Line1:            l1,
		Line2:            l2,
		NoradID:          cfg.Seed.NoradID,
		StepSeconds:      cfg.Seed.StepSeconds,
		PassesPerCycle:   cfg.Seed.PassesPerCycle,
		SwathHalfWidthKm: cfg.Seed.SwathHalfWidthKm,
		SwathGapKm:       cfg.Seed.SwathGapKm,
	})
}

// Generate propagates the TLE over one repeat cycle and builds the
// ephemeris store: cycle table, per-pass templates, and swath footprints.
// Cycle 1 starts at the TLE epoch; pass numbering follows time order
// within the cycle, one pass per half-orbit.
func Generate(opts Options) (*orbit.MemStore, error) {
	if err := validateLines(opts.Line1, opts.Line2); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	epoch, err := epochFromLine1(opts.Line1)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	meanMotion, err := meanMotionFromLine2(opts.Line2)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	orbitPeriod := time.Duration(86400/meanMotion*1e9) * time.Nanosecond
	cycleDuration := time.Duration(opts.PassesPerCycle/2) * orbitPeriod

	sat := satellite.TLEToSat(opts.Line1, opts.Line2, satellite.GravityWGS84)

	step := time.Duration(opts.StepSeconds) * time.Second
	samples := propagateTrack(sat, epoch, cycleDuration, step)
	if len(samples) < 3 {
		return nil, fmt.Errorf("seed: propagation produced %d samples", len(samples))
	}

	store := orbit.NewMemStore(orbit.MissionInfo{
		Name:           opts.MissionName,
		PassesPerCycle: opts.PassesPerCycle,
		CycleDuration:  cycleDuration,
	})
	store.CycleTable[1] = epoch

	for i, track := range splitHalfOrbits(samples, opts.PassesPerCycle) {
		n := i + 1
		store.Passes[n] = &orbit.PassTemplate{
			Number:      n,
			StartOffset: track[0].Offset,
			EndOffset:   track[len(track)-1].Offset,
			Track:       track,
		}
		left, right := swathRings(track, opts.SwathGapKm, opts.SwathHalfWidthKm)
		if left != nil && right != nil {
			store.SwathTable[n] = &orbit.SwathPair{Left: left, Right: right}
		}
	}

	if len(store.Passes) == 0 {
		return nil, fmt.Errorf("seed: no half-orbits found in %v of track", cycleDuration)
	}
	return store, nil
}

// validateLines performs basic format validation before handing the
// lines to go-satellite, which terminates the process on garbage input.
func validateLines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)
	if len(line1) != 69 {
		return fmt.Errorf("TLE line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("TLE line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("TLE line1 must start with '1'")
	}
	if line2[0] != '2' {
		return fmt.Errorf("TLE line2 must start with '2'")
	}
	return nil
}

// epochFromLine1 parses the TLE epoch (columns 19-32, YYDDD.dddddddd).
func epochFromLine1(line1 string) (time.Time, error) {
	f := strings.TrimSpace(line1[18:32])
	yy, err := strconv.Atoi(f[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("TLE epoch year: %v", err)
	}
	dayOfYear, err := strconv.ParseFloat(f[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("TLE epoch day: %v", err)
	}
	year := 2000 + yy
	if yy >= 57 { // TLE two-digit year convention
		year = 1900 + yy
	}
	base := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration((dayOfYear - 1) * 24 * float64(time.Hour))), nil
}

// meanMotionFromLine2 parses revolutions per day (columns 53-63).
func meanMotionFromLine2(line2 string) (float64, error) {
	mm, err := strconv.ParseFloat(strings.TrimSpace(line2[52:63]), 64)
	if err != nil {
		return 0, fmt.Errorf("TLE mean motion: %v", err)
	}
	if mm <= 0 {
		return 0, fmt.Errorf("TLE mean motion %f out of range", mm)
	}
	return mm, nil
}

// propagateTrack samples the sub-satellite point from start for the
// given span. Samples where propagation degenerates are skipped.
func propagateTrack(sat satellite.Satellite, start time.Time, span, step time.Duration) []orbit.TrackPoint {
	n := int(span/step) + 1
	out := make([]orbit.TrackPoint, 0, n)
	for i := 0; i < n; i++ {
		off := time.Duration(i) * step
		t := start.Add(off).UTC()

		y, mo, d := t.Date()
		h, mi, sec := t.Clock()
		pos, _ := satellite.Propagate(sat, y, int(mo), d, h, mi, sec)
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
			continue
		}
		mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
		if mag < 6200 || mag > 50000 {
			continue
		}

		gmst := satellite.GSTimeFromDate(y, int(mo), d, h, mi, sec)
		ecef := satellite.ECIToECEF(satellite.Vector3{X: pos.X, Y: pos.Y, Z: pos.Z}, gmst)

		lat := math.Atan2(ecef.Z, math.Hypot(ecef.X, ecef.Y)) * 180 / math.Pi
		lon := math.Atan2(ecef.Y, ecef.X) * 180 / math.Pi

		out = append(out, orbit.TrackPoint{Offset: off, Lat: lat, Lon: lon})
	}
	return out
}

// splitHalfOrbits cuts the track at latitude turning points. Each piece
// is one pass; latitude is monotonic within a piece, which the
// crossing-time interpolation relies on.
func splitHalfOrbits(samples []orbit.TrackPoint, maxPasses int) [][]orbit.TrackPoint {
	var out [][]orbit.TrackPoint
	begin := 0
	dir := 0

	for i := 1; i < len(samples); i++ {
		d := sign(samples[i].Lat - samples[i-1].Lat)
		if d == 0 {
			continue
		}
		if dir == 0 {
			dir = d
			continue
		}
		if d != dir {
			if i-begin >= 2 {
				out = append(out, samples[begin:i])
			}
			begin = i - 1
			dir = d
			if len(out) == maxPasses {
				return out
			}
		}
	}
	if len(samples)-begin >= 2 && len(out) < maxPasses {
		out = append(out, samples[begin:])
	}
	return out
}

func sign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// swathRings offsets the nadir track sideways to build the left and
// right swath footprints. Each ring runs up the inner swath edge and
// back down the outer edge. The track is thinned to keep rings small.
func swathRings(track []orbit.TrackPoint, gapKm, halfWidthKm float64) (orb.Polygon, orb.Polygon) {
	pts := thin(track, 64)
	if len(pts) < 2 {
		return nil, nil
	}

	leftInner := make(orb.Ring, 0, len(pts))
	leftOuter := make(orb.Ring, 0, len(pts))
	rightInner := make(orb.Ring, 0, len(pts))
	rightOuter := make(orb.Ring, 0, len(pts))

	for i, p := range pts {
		// Along-track direction in local km-space.
		var prev, next orbit.TrackPoint
		switch {
		case i == 0:
			prev, next = pts[0], pts[1]
		case i == len(pts)-1:
			prev, next = pts[len(pts)-2], pts[len(pts)-1]
		default:
			prev, next = pts[i-1], pts[i+1]
		}
		cosLat := math.Cos(p.Lat * math.Pi / 180)
		if math.Abs(cosLat) < 1e-6 {
			continue
		}
		dx := deltaLon(next.Lon, prev.Lon) * cosLat
		dy := next.Lat - prev.Lat
		norm := math.Hypot(dx, dy)
		if norm == 0 {
			continue
		}
		// Left-hand normal of the direction of travel.
		nx, ny := -dy/norm, dx/norm

		offset := func(km float64) orb.Point {
			return orb.Point{
				p.Lon + km*nx/(kmPerDegLat*cosLat),
				p.Lat + km*ny/kmPerDegLat,
			}
		}
		leftInner = append(leftInner, offset(gapKm))
		leftOuter = append(leftOuter, offset(halfWidthKm))
		rightInner = append(rightInner, offset(-gapKm))
		rightOuter = append(rightOuter, offset(-halfWidthKm))
	}

	return ringFromEdges(leftInner, leftOuter), ringFromEdges(rightInner, rightOuter)
}

// ringFromEdges joins an inner and outer edge into one closed ring.
func ringFromEdges(inner, outer orb.Ring) orb.Polygon {
	if len(inner) < 2 || len(outer) < 2 {
		return nil
	}
	ring := make(orb.Ring, 0, len(inner)+len(outer)+1)
	ring = append(ring, inner...)
	for i := len(outer) - 1; i >= 0; i-- {
		ring = append(ring, outer[i])
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// thin keeps roughly max points of the track, always retaining the ends.
func thin(track []orbit.TrackPoint, max int) []orbit.TrackPoint {
	if len(track) <= max {
		return track
	}
	stride := (len(track) + max - 1) / max
	out := make([]orbit.TrackPoint, 0, max+1)
	for i := 0; i < len(track); i += stride {
		out = append(out, track[i])
	}
	if out[len(out)-1].Offset != track[len(track)-1].Offset {
		out = append(out, track[len(track)-1])
	}
	return out
}

// deltaLon is the shortest signed longitude difference a-b.
func deltaLon(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	}
	if d < -180 {
		d += 360
	}
	return d
}
