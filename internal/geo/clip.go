package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// areaEps is the minimum absolute area (square degrees) for a clip result
// to count as a real region. Tangential contact produces slivers below
// this and is reported as no intersection.
const areaEps = 1e-10

const (
	// contactEps is the distance below which a vertex counts as lying on
	// the other ring's boundary.
	contactEps = 1e-10

	// contactDelta is the relative expansion applied to the clip ring to
	// separate boundary contact.
	contactDelta = 1e-9

	// contactAreaEps replaces areaEps after a contact expansion: the
	// expansion turns tangent contact into slivers of up to roughly the
	// ring perimeter times the expansion margin.
	contactAreaEps = 1e-6
)

// Intersect computes the planar intersection of two simple polygons in
// geographic coordinates and returns the disjoint regions it produces:
// zero when the polygons miss each other, one for a plain overlap, and
// several when one polygon crosses in and out of the other more than
// once. Only outer rings participate; holes in the inputs are ignored.
//
// Both inputs are unwrapped across the antimeridian and brought into a
// common longitude frame before clipping, so a region drawn across the
// ±180° seam intersects a swath that crosses the same seam.
//
// Inputs touching along shared boundary segments (collinear edges,
// vertices on edges) are separated by a relative expansion of b's ring
// before clipping; results are accurate to that margin.
func Intersect(a, b orb.Polygon) []orb.Polygon {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	subj := ccw(openRing(unwrapRing(a[0])))
	clip := ccw(openRing(alignRings(unwrapRing(a[0]), unwrapRing(b[0]))))
	if len(subj) < 3 || len(clip) < 3 {
		return nil
	}

	clip, touched := separateContact(subj, clip)

	rings := clipRings(subj, clip)

	minArea := areaEps
	if touched {
		minArea = contactAreaEps
	}

	out := make([]orb.Polygon, 0, len(rings))
	for _, r := range rings {
		if distinctVertices(r) < 3 {
			continue
		}
		if math.Abs(planar.Area(r)) < minArea {
			continue
		}
		out = append(out, orb.Polygon{canonicalRing(r)})
	}
	return out
}

// separateContact expands the clip ring away from the subject ring when
// the two touch along their boundaries. edgeCrossing admits only proper
// crossings, so collinear edges and vertices on edges lose crossings and
// break the entry/exit parity in the traversal; after expansion every
// surviving contact is a proper crossing.
func separateContact(subj, clip orb.Ring) (orb.Ring, bool) {
	if !boundaryContact(subj, clip) {
		return clip, false
	}
	delta := contactDelta
	for i := 0; i < 3; i++ {
		clip = expandRing(clip, delta)
		if !boundaryContact(subj, clip) {
			break
		}
		delta *= 10
	}
	return clip, true
}

// boundaryContact reports whether any vertex of one ring lies on the
// boundary of the other. Collinear overlapping edges always place at
// least one endpoint on the other edge, so vertex checks cover edge
// overlap as well.
func boundaryContact(a, b orb.Ring) bool {
	return anyVertexOnRing(a, b) || anyVertexOnRing(b, a)
}

func anyVertexOnRing(verts, ring orb.Ring) bool {
	n := len(ring)
	for _, v := range verts {
		for i := 0; i < n; i++ {
			if pointNearSegment(v, ring[i], ring[(i+1)%n], contactEps) {
				return true
			}
		}
	}
	return false
}

// pointNearSegment reports whether p is within eps of segment a-b.
func pointNearSegment(p, a, b orb.Point, eps float64) bool {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p[0]-a[0], p[1]-a[1]) <= eps
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(p[0]-(a[0]+t*dx), p[1]-(a[1]+t*dy)) <= eps
}

// expandRing scales the ring away from its centroid by 1+delta.
func expandRing(r orb.Ring, delta float64) orb.Ring {
	if len(r) == 0 {
		return r
	}
	var cx, cy float64
	for _, pt := range r {
		cx += pt[0]
		cy += pt[1]
	}
	cx /= float64(len(r))
	cy /= float64(len(r))

	out := make(orb.Ring, len(r))
	for i, pt := range r {
		out[i] = orb.Point{cx + (pt[0]-cx)*(1+delta), cy + (pt[1]-cy)*(1+delta)}
	}
	return out
}

// node is a vertex in the doubly linked rings used by the clipper.
// Intersection nodes exist in both rings and point at each other through
// neighbor.
type node struct {
	pt         orb.Point
	next, prev *node
	neighbor   *node
	intersect  bool
	entry      bool
	visited    bool
	t          float64 // position along the originating edge, for ordering
}

// clipRings runs a Greiner-Hormann style traversal over two
// counter-clockwise rings and returns the rings of their intersection.
func clipRings(subj, clip orb.Ring) []orb.Ring {
	sList := buildList(subj)
	cList := buildList(clip)

	crossings := insertIntersections(sList, cList, subj, clip)
	if crossings == 0 {
		// No edge crossings: one ring contains the other, or they are
		// disjoint. RingContains treats boundary points as inside, so a
		// single tangent vertex is not enough; every vertex must be in.
		if ringWithin(clip, subj) {
			return []orb.Ring{clip}
		}
		if ringWithin(subj, clip) {
			return []orb.Ring{subj}
		}
		return nil
	}

	markEntries(sList, clip)
	markEntries(cList, subj)

	return traverse(sList, crossings)
}

// buildList turns an open ring into a circular doubly linked list.
func buildList(r orb.Ring) *node {
	var head, tail *node
	for _, pt := range r {
		n := &node{pt: pt}
		if head == nil {
			head = n
			tail = n
			continue
		}
		tail.next = n
		n.prev = tail
		tail = n
	}
	tail.next = head
	head.prev = tail
	return head
}

// insertIntersections finds every proper edge crossing between the two
// rings and splices a linked pair of intersection nodes into both lists.
// Returns the number of crossings inserted.
func insertIntersections(sList, cList *node, subj, clip orb.Ring) int {
	count := 0
	sEdge := sList
	for {
		sNext := nextOriginal(sEdge)
		cEdge := cList
		for {
			cNext := nextOriginal(cEdge)

			if pt, t, u, ok := edgeCrossing(sEdge.pt, sNext.pt, cEdge.pt, cNext.pt); ok {
				sn := &node{pt: pt, intersect: true, t: t}
				cn := &node{pt: pt, intersect: true, t: u}
				sn.neighbor = cn
				cn.neighbor = sn
				spliceByT(sEdge, sNext, sn)
				spliceByT(cEdge, cNext, cn)
				count++
			}

			cEdge = cNext
			if cEdge == cList {
				break
			}
		}
		sEdge = sNext
		if sEdge == sList {
			break
		}
	}
	return count
}

// nextOriginal advances to the next non-intersection node, skipping any
// intersection nodes already spliced into the current edge.
func nextOriginal(n *node) *node {
	m := n.next
	for m.intersect {
		m = m.next
	}
	return m
}

// spliceByT inserts an intersection node between the edge endpoints,
// keeping intersection nodes on the same edge ordered by their parameter.
func spliceByT(from, to, in *node) {
	cur := from
	for cur.next != to && cur.next.intersect && cur.next.t < in.t {
		cur = cur.next
	}
	in.next = cur.next
	in.prev = cur
	cur.next.prev = in
	cur.next = in
}

// edgeCrossing intersects two edges, returning the crossing point and the
// parameters along each edge. Crossings at or extremely near an endpoint
// are rejected; the containment fallback in clipRings covers touch cases.
func edgeCrossing(a1, a2, b1, b2 orb.Point) (orb.Point, float64, float64, bool) {
	d1x, d1y := a2[0]-a1[0], a2[1]-a1[1]
	d2x, d2y := b2[0]-b1[0], b2[1]-b1[1]

	denom := d1x*d2y - d1y*d2x
	if denom == 0 {
		return orb.Point{}, 0, 0, false
	}

	t := ((b1[0]-a1[0])*d2y - (b1[1]-a1[1])*d2x) / denom
	u := ((b1[0]-a1[0])*d1y - (b1[1]-a1[1])*d1x) / denom

	const eps = 1e-12
	if t <= eps || t >= 1-eps || u <= eps || u >= 1-eps {
		return orb.Point{}, 0, 0, false
	}
	return orb.Point{a1[0] + t*d1x, a1[1] + t*d1y}, t, u, true
}

// markEntries walks a ring's list and flags each intersection node as an
// entry into (or exit out of) the other ring. Status alternates from the
// containment of the ring's first vertex.
func markEntries(list *node, other orb.Ring) {
	inside := planar.RingContains(closedOrbRing(other), list.pt)
	for n := list.next; ; n = n.next {
		if n.intersect {
			n.entry = !inside
			inside = !inside
		}
		if n == list {
			break
		}
	}
}

// traverse walks the linked rings from each unvisited crossing, switching
// lists at every intersection, and collects the resulting output rings.
func traverse(sList *node, crossings int) []orb.Ring {
	var out []orb.Ring
	maxSteps := crossings * 1000 // guard against pathological inputs

	for start := firstUnvisited(sList); start != nil; start = firstUnvisited(sList) {
		var ring orb.Ring
		cur := start
		steps := 0
		for {
			cur.visited = true
			if cur.neighbor != nil {
				cur.neighbor.visited = true
			}
			ring = append(ring, cur.pt)

			if cur.entry {
				for cur = cur.next; !cur.intersect; cur = cur.next {
					ring = append(ring, cur.pt)
					if steps++; steps > maxSteps {
						return out
					}
				}
			} else {
				for cur = cur.prev; !cur.intersect; cur = cur.prev {
					ring = append(ring, cur.pt)
					if steps++; steps > maxSteps {
						return out
					}
				}
			}

			cur = cur.neighbor
			if cur == start || cur.neighbor == start {
				break
			}
			if steps++; steps > maxSteps {
				return out
			}
		}
		if len(ring) >= 3 {
			out = append(out, ring)
		}
	}
	return out
}

// ringWithin reports whether every vertex of inner lies inside (or on the
// boundary of) outer.
func ringWithin(inner, outer orb.Ring) bool {
	closed := closedOrbRing(outer)
	for _, pt := range inner {
		if !planar.RingContains(closed, pt) {
			return false
		}
	}
	return true
}

func firstUnvisited(list *node) *node {
	for n := list; ; n = n.next {
		if n.intersect && !n.visited {
			return n
		}
		if n.next == list {
			return nil
		}
	}
}

// openRing drops the explicit closing vertex, if present, and any
// zero-length edges.
func openRing(r orb.Ring) orb.Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		r = r[:len(r)-1]
	}
	out := make(orb.Ring, 0, len(r))
	for i, pt := range r {
		if i > 0 && pt == out[len(out)-1] {
			continue
		}
		out = append(out, pt)
	}
	return out
}

// ccw returns the ring in counter-clockwise orientation.
func ccw(r orb.Ring) orb.Ring {
	if planar.Area(closedOrbRing(r)) >= 0 {
		return r
	}
	out := make(orb.Ring, len(r))
	for i, pt := range r {
		out[len(r)-1-i] = pt
	}
	return out
}

// closedOrbRing returns a closed copy suitable for orb/planar predicates.
func closedOrbRing(r orb.Ring) orb.Ring {
	return orb.Ring(closedRing(r))
}

// canonicalRing shifts an unwrapped ring back toward the canonical
// longitude frame by whole revolutions of its mean longitude, then closes
// it. Individual vertices of a seam-crossing ring may still sit just
// outside [-180, 180); normalizing them independently would tear the ring.
func canonicalRing(r orb.Ring) orb.Ring {
	mean, ok := ringCentroidLon(r)
	if !ok {
		return r
	}
	shift := -360 * math.Floor((mean+180)/360)
	out := make(orb.Ring, len(r))
	for i, pt := range r {
		out[i] = orb.Point{pt[0] + shift, pt[1]}
	}
	return closedOrbRing(out)
}
