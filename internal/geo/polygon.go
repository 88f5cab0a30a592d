// Package geo holds the polygon handling used by the pass search: parsing
// region polygons from WKT or GeoJSON, validating them, normalizing
// longitudes around the antimeridian, and clipping swath geometry against
// region geometry. All geometry is in geographic coordinates (longitude,
// latitude in degrees) on paulmach/orb types.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// ErrInvalidPolygon is returned for degenerate or self-intersecting rings.
// Callers are expected to reject such polygons before any clipping runs.
var ErrInvalidPolygon = errors.New("invalid polygon")

// ParsePolygon parses a region polygon from either WKT ("POLYGON((...))")
// or a GeoJSON geometry/feature document. The returned polygon has its
// longitudes normalized into [-180, 180) and has been validated.
func ParsePolygon(s string) (orb.Polygon, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidPolygon)
	}

	var poly orb.Polygon
	if strings.HasPrefix(s, "{") {
		p, err := parseGeoJSON([]byte(s))
		if err != nil {
			return nil, err
		}
		poly = p
	} else {
		p, err := wkt.UnmarshalPolygon(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
		}
		poly = p
	}

	poly = NormalizePolygon(poly)
	if err := Validate(poly); err != nil {
		return nil, err
	}
	return poly, nil
}

// parseGeoJSON accepts a bare geometry, a feature, or a feature collection
// holding a single polygon.
func parseGeoJSON(b []byte) (orb.Polygon, error) {
	// Peek at the "type" member to pick the right decoder.
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
	}

	var g orb.Geometry
	switch head.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
		}
		g = f.Geometry
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
		}
		if len(fc.Features) != 1 {
			return nil, fmt.Errorf("%w: expected exactly one feature, got %d", ErrInvalidPolygon, len(fc.Features))
		}
		g = fc.Features[0].Geometry
	default:
		gg, err := geojson.UnmarshalGeometry(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
		}
		g = gg.Geometry()
	}

	switch v := g.(type) {
	case orb.Polygon:
		return v, nil
	case orb.MultiPolygon:
		if len(v) == 1 {
			return v[0], nil
		}
		return nil, fmt.Errorf("%w: multipolygon with %d members", ErrInvalidPolygon, len(v))
	default:
		return nil, fmt.Errorf("%w: geometry type %s", ErrInvalidPolygon, g.GeoJSONType())
	}
}

// MarshalWKT serializes a polygon back to WKT. Parsing then serializing
// preserves the ordered outer-ring vertex sequence.
func MarshalWKT(p orb.Polygon) string {
	return wkt.MarshalString(p)
}

// MarshalGeoJSON serializes a polygon as a GeoJSON geometry document.
func MarshalGeoJSON(p orb.Polygon) ([]byte, error) {
	return geojson.NewGeometry(p).MarshalJSON()
}

// Validate checks that the polygon's outer ring is a usable simple ring:
// at least 3 distinct vertices and no self-intersections. Inner rings are
// held to the same standard. A closing vertex equal to the first is
// allowed and does not count as distinct.
func Validate(p orb.Polygon) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: no rings", ErrInvalidPolygon)
	}
	for i, ring := range p {
		if n := distinctVertices(ring); n < 3 {
			return fmt.Errorf("%w: ring %d has %d distinct vertices", ErrInvalidPolygon, i, n)
		}
		if selfIntersects(ring) {
			return fmt.Errorf("%w: ring %d self-intersects", ErrInvalidPolygon, i)
		}
	}
	return nil
}

func distinctVertices(r orb.Ring) int {
	seen := make(map[orb.Point]struct{}, len(r))
	for _, pt := range r {
		seen[pt] = struct{}{}
	}
	return len(seen)
}

// selfIntersects tests every non-adjacent edge pair of the closed ring for
// a proper crossing. O(n^2), fine for the ring sizes seen here (region
// polygons and swath footprints, tens to hundreds of vertices).
func selfIntersects(r orb.Ring) bool {
	edges := ringEdges(r)
	n := len(edges)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// Skip the adjacent pair that wraps around the ring end.
			if i == 0 && j == n-1 {
				continue
			}
			if _, ok := segmentIntersection(edges[i][0], edges[i][1], edges[j][0], edges[j][1]); ok {
				return true
			}
		}
	}
	return false
}

// ringEdges returns the ring's edges as point pairs, closing the ring if
// the input does not repeat its first vertex, and dropping zero-length
// edges.
func ringEdges(r orb.Ring) [][2]orb.Point {
	pts := closedRing(r)
	edges := make([][2]orb.Point, 0, len(pts))
	for i := 0; i+1 < len(pts); i++ {
		if pts[i] == pts[i+1] {
			continue
		}
		edges = append(edges, [2]orb.Point{pts[i], pts[i+1]})
	}
	return edges
}

// closedRing returns the ring with an explicit closing vertex.
func closedRing(r orb.Ring) []orb.Point {
	if len(r) == 0 {
		return nil
	}
	if r[0] == r[len(r)-1] {
		return r
	}
	out := make([]orb.Point, len(r)+1)
	copy(out, r)
	out[len(r)] = r[0]
	return out
}

// segmentIntersection returns the proper intersection point of segments
// a1-a2 and b1-b2. Collinear overlaps and shared endpoints do not count;
// those cases are handled by containment tests in the clipper instead.
func segmentIntersection(a1, a2, b1, b2 orb.Point) (orb.Point, bool) {
	d1x, d1y := a2[0]-a1[0], a2[1]-a1[1]
	d2x, d2y := b2[0]-b1[0], b2[1]-b1[1]

	denom := d1x*d2y - d1y*d2x
	if denom == 0 {
		return orb.Point{}, false
	}

	t := ((b1[0]-a1[0])*d2y - (b1[1]-a1[1])*d2x) / denom
	u := ((b1[0]-a1[0])*d1y - (b1[1]-a1[1])*d1x) / denom

	const eps = 1e-12
	if t <= eps || t >= 1-eps || u <= eps || u >= 1-eps {
		return orb.Point{}, false
	}
	return orb.Point{a1[0] + t*d1x, a1[1] + t*d1y}, true
}
