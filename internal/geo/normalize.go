package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// NormalizeLon brings a longitude into [-180, 180). Points differing by a
// whole number of revolutions describe the same meridian.
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// NormalizePolygon returns a copy of p with every vertex longitude
// normalized into [-180, 180).
func NormalizePolygon(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, ring := range p {
		nr := make(orb.Ring, len(ring))
		for j, pt := range ring {
			nr[j] = orb.Point{NormalizeLon(pt[0]), pt[1]}
		}
		out[i] = nr
	}
	return out
}

// unwrapRing rewrites the ring's longitudes so consecutive vertices never
// jump by more than 180 degrees. A ring that crosses the antimeridian
// becomes a continuous coordinate run (some longitudes outside
// [-180, 180)), which lets the planar clipper treat it like any other
// ring. The companion for output is NormalizePolygon.
func unwrapRing(r orb.Ring) orb.Ring {
	if len(r) == 0 {
		return r
	}
	out := make(orb.Ring, len(r))
	out[0] = orb.Point{NormalizeLon(r[0][0]), r[0][1]}
	for i := 1; i < len(r); i++ {
		lon := NormalizeLon(r[i][0])
		prev := out[i-1][0]
		for lon-prev > 180 {
			lon -= 360
		}
		for prev-lon > 180 {
			lon += 360
		}
		out[i] = orb.Point{lon, r[i][1]}
	}
	return out
}

// unwrapLine applies the same continuity rewrite to an open line string.
func unwrapLine(ls orb.LineString) orb.LineString {
	return orb.LineString(unwrapRing(orb.Ring(ls)))
}

// alignRings shifts ring b by whole revolutions so that it occupies the
// same longitude frame as ring a. Two shapes straddling the antimeridian
// can otherwise end up unwrapped 360 degrees apart and falsely disjoint.
func alignRings(a, b orb.Ring) orb.Ring {
	ca, okA := ringCentroidLon(a)
	cb, okB := ringCentroidLon(b)
	if !okA || !okB {
		return b
	}
	shift := 360 * math.Round((ca-cb)/360)
	if shift == 0 {
		return b
	}
	out := make(orb.Ring, len(b))
	for i, pt := range b {
		out[i] = orb.Point{pt[0] + shift, pt[1]}
	}
	return out
}

func ringCentroidLon(r orb.Ring) (float64, bool) {
	if len(r) == 0 {
		return 0, false
	}
	var sum float64
	for _, pt := range r {
		sum += pt[0]
	}
	return sum / float64(len(r)), true
}
