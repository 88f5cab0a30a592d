package orbit

import (
	"math"
	"testing"
)

func TestNadirLineDropsNonFinite(t *testing.T) {
	tpl := &PassTemplate{Track: []TrackPoint{
		{Lat: 10, Lon: 20},
		{Lat: math.NaN(), Lon: 30},
		{Lat: 50, Lon: math.Inf(1)},
		{Lat: math.Inf(-1), Lon: 40},
		{Lat: -10, Lon: 40},
	}}

	ls := tpl.NadirLine()
	if len(ls) != 2 {
		t.Fatalf("got %d points, want 2", len(ls))
	}
	if ls[0][0] != 20 || ls[0][1] != 10 || ls[1][0] != 40 || ls[1][1] != -10 {
		t.Errorf("kept points = %v, want the two finite samples", ls)
	}
}
