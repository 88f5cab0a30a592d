package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func box(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
	}}
}

func totalArea(ps []orb.Polygon) float64 {
	var sum float64
	for _, p := range ps {
		sum += math.Abs(planar.Area(p[0]))
	}
	return sum
}

func TestIntersectOverlap(t *testing.T) {
	a := box(0, 0, 10, 10)
	b := box(5, 5, 15, 15)

	got := Intersect(a, b)
	if len(got) != 1 {
		t.Fatalf("got %d polygons, want 1", len(got))
	}
	if area := totalArea(got); math.Abs(area-25) > 1e-9 {
		t.Errorf("area = %v, want 25", area)
	}
}

func TestIntersectDisjoint(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(5, 5, 6, 6)

	if got := Intersect(a, b); len(got) != 0 {
		t.Errorf("Intersect(a,b) = %v, want empty", got)
	}
	if got := Intersect(b, a); len(got) != 0 {
		t.Errorf("Intersect(b,a) = %v, want empty", got)
	}
}

func TestIntersectEmptinessSymmetric(t *testing.T) {
	pairs := []struct{ a, b orb.Polygon }{
		{box(0, 0, 10, 10), box(5, 5, 15, 15)},
		{box(0, 0, 1, 1), box(5, 5, 6, 6)},
		{box(0, 0, 10, 10), box(2, 2, 3, 3)},
	}
	for i, pr := range pairs {
		ab := len(Intersect(pr.a, pr.b)) == 0
		ba := len(Intersect(pr.b, pr.a)) == 0
		if ab != ba {
			t.Errorf("pair %d: emptiness differs by argument order", i)
		}
	}
}

func TestIntersectContainment(t *testing.T) {
	outer := box(0, 0, 10, 10)
	inner := box(2, 2, 3, 3)

	for _, order := range [][2]orb.Polygon{{outer, inner}, {inner, outer}} {
		got := Intersect(order[0], order[1])
		if len(got) != 1 {
			t.Fatalf("got %d polygons, want 1", len(got))
		}
		if area := totalArea(got); math.Abs(area-1) > 1e-9 {
			t.Errorf("area = %v, want 1 (the contained box)", area)
		}
	}
}

func TestIntersectTangentEdge(t *testing.T) {
	// Share an edge, no interior overlap.
	a := box(0, 0, 1, 1)
	b := box(1, 0, 2, 1)

	if got := Intersect(a, b); len(got) != 0 {
		t.Errorf("edge-touching boxes: got %v, want empty", got)
	}
}

func TestIntersectSharedBoundaryOverlap(t *testing.T) {
	// Partial overlap where the true intersection runs along the subject's
	// right edge: one collinear edge pair plus an endpoint contact.
	a := box(0, 0, 10, 10)
	b := box(5, 5, 10, 15)

	for _, order := range [][2]orb.Polygon{{a, b}, {b, a}} {
		got := Intersect(order[0], order[1])
		if len(got) != 1 {
			t.Fatalf("got %d polygons, want 1", len(got))
		}
		if area := totalArea(got); math.Abs(area-25) > 1e-5 {
			t.Errorf("area = %v, want 25", area)
		}
		// The result must stay inside the true overlap box(5,5,10,10).
		for _, pt := range got[0][0] {
			if pt[0] < 5-1e-6 || pt[0] > 10+1e-6 || pt[1] < 5-1e-6 || pt[1] > 10+1e-6 {
				t.Errorf("vertex %v outside the overlap box", pt)
			}
		}
	}
}

func TestIntersectSharedCornerContainment(t *testing.T) {
	// Contained box flush against the container's corner and edges.
	outer := box(0, 0, 10, 10)
	inner := box(5, 5, 10, 10)

	for _, order := range [][2]orb.Polygon{{outer, inner}, {inner, outer}} {
		got := Intersect(order[0], order[1])
		if len(got) != 1 {
			t.Fatalf("got %d polygons, want 1", len(got))
		}
		if area := totalArea(got); math.Abs(area-25) > 1e-5 {
			t.Errorf("area = %v, want 25 (the contained box)", area)
		}
	}
}

func TestIntersectIdenticalBoxes(t *testing.T) {
	a := box(0, 0, 10, 10)

	got := Intersect(a, a)
	if len(got) != 1 {
		t.Fatalf("got %d polygons, want 1", len(got))
	}
	if area := totalArea(got); math.Abs(area-100) > 1e-5 {
		t.Errorf("area = %v, want 100", area)
	}
}

func TestIntersectSplitsIntoTwo(t *testing.T) {
	// U-shaped subject: two prongs joined along the bottom.
	u := orb.Polygon{orb.Ring{
		{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 3}, {3, 3}, {3, 10}, {0, 10}, {0, 0},
	}}
	// A band across the prongs above the joining bar.
	band := box(-1, 5, 11, 12)

	got := Intersect(u, band)
	if len(got) != 2 {
		t.Fatalf("got %d polygons, want 2 (one per prong)", len(got))
	}
	// Each prong piece is 3 wide by 5 tall.
	if area := totalArea(got); math.Abs(area-30) > 1e-9 {
		t.Errorf("total area = %v, want 30", area)
	}
}

func TestIntersectAntimeridian(t *testing.T) {
	// Both shapes straddle the ±180° seam.
	swath := orb.Polygon{orb.Ring{
		{170, -10}, {-170, -10}, {-170, 10}, {170, 10}, {170, -10},
	}}
	region := orb.Polygon{orb.Ring{
		{175, -5}, {-175, -5}, {-175, 5}, {175, 5}, {175, -5},
	}}

	got := Intersect(swath, region)
	if len(got) != 1 {
		t.Fatalf("got %d polygons, want 1", len(got))
	}
	// 10 degrees of longitude across the seam, 10 of latitude.
	if area := totalArea(got); math.Abs(area-100) > 1e-9 {
		t.Errorf("area = %v, want 100", area)
	}
	// Normalized output stays in coordinate range.
	for _, pt := range NormalizePolygon(got[0])[0] {
		if pt[0] < -180 || pt[0] >= 180 {
			t.Errorf("normalized vertex %v out of range", pt)
		}
	}
}

func TestIntersectSeamAgainstFarSide(t *testing.T) {
	// A seam-straddling swath must not match a region near lon 0.
	swath := orb.Polygon{orb.Ring{
		{170, -10}, {-170, -10}, {-170, 10}, {170, 10}, {170, -10},
	}}
	region := box(-5, -5, 5, 5)

	if got := Intersect(swath, region); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
