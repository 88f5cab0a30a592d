package orbit

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLiteRoundTrip(t *testing.T) {
	src := testStore()
	path := filepath.Join(t.TempDir(), "orbit.db")

	if err := CreateSQLite(path, src); err != nil {
		t.Fatalf("CreateSQLite: %v", err)
	}
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	info, err := db.Mission()
	if err != nil {
		t.Fatalf("Mission: %v", err)
	}
	if info != src.Info {
		t.Errorf("mission = %+v, want %+v", info, src.Info)
	}

	cycles, err := db.Cycles()
	if err != nil {
		t.Fatalf("Cycles: %v", err)
	}
	if len(cycles) != len(src.CycleTable) {
		t.Fatalf("got %d cycles, want %d", len(cycles), len(src.CycleTable))
	}
	for n, want := range src.CycleTable {
		if got, ok := cycles[n]; !ok || !got.Equal(want) {
			t.Errorf("cycle %d = %v, want %v", n, got, want)
		}
	}

	tpl, err := db.Template(1)
	if err != nil {
		t.Fatalf("Template(1): %v", err)
	}
	want := src.Passes[1]
	if tpl.StartOffset != want.StartOffset || tpl.EndOffset != want.EndOffset {
		t.Errorf("offsets = [%v, %v], want [%v, %v]",
			tpl.StartOffset, tpl.EndOffset, want.StartOffset, want.EndOffset)
	}
	if len(tpl.Track) != len(want.Track) {
		t.Fatalf("got %d track points, want %d", len(tpl.Track), len(want.Track))
	}
	for i, pt := range tpl.Track {
		if pt != want.Track[i] {
			t.Errorf("track[%d] = %+v, want %+v", i, pt, want.Track[i])
		}
	}

	pair, err := db.Swaths(1)
	if err != nil {
		t.Fatalf("Swaths(1): %v", err)
	}
	for i, pt := range src.SwathTable[1].Left[0] {
		if pair.Left[0][i] != pt {
			t.Errorf("left[%d] = %v, want %v", i, pair.Left[0][i], pt)
		}
	}
}

func TestSQLiteSeamSwathSurvives(t *testing.T) {
	src := testStore()
	path := filepath.Join(t.TempDir(), "orbit.db")

	if err := CreateSQLite(path, src); err != nil {
		t.Fatalf("CreateSQLite: %v", err)
	}
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	// Pass 3's right swath crosses the antimeridian; the stored WKT must
	// restore the exact vertex run.
	pair, err := db.Swaths(3)
	if err != nil {
		t.Fatalf("Swaths(3): %v", err)
	}
	want := src.SwathTable[3].Right[0]
	if len(pair.Right[0]) != len(want) {
		t.Fatalf("got %d vertices, want %d", len(pair.Right[0]), len(want))
	}
	for i, pt := range want {
		if pair.Right[0][i] != pt {
			t.Errorf("right[%d] = %v, want %v", i, pair.Right[0][i], pt)
		}
	}
}

func TestSQLiteNotFound(t *testing.T) {
	src := testStore()
	path := filepath.Join(t.TempDir(), "orbit.db")

	if err := CreateSQLite(path, src); err != nil {
		t.Fatalf("CreateSQLite: %v", err)
	}
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	if _, err := db.Template(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Template(99): err = %v, want ErrNotFound", err)
	}
	if _, err := db.Swaths(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Swaths(99): err = %v, want ErrNotFound", err)
	}
}

func TestOpenSQLiteMissing(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "no-such.db"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestSQLiteSelectionMatchesMemory(t *testing.T) {
	src := testStore()
	path := filepath.Join(t.TempDir(), "orbit.db")

	if err := CreateSQLite(path, src); err != nil {
		t.Fatalf("CreateSQLite: %v", err)
	}
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	fromMem, err := SelectPasses(src, t0, 8*testCycle)
	if err != nil {
		t.Fatalf("SelectPasses(mem): %v", err)
	}
	fromDB, err := SelectPasses(db, t0, 8*testCycle)
	if err != nil {
		t.Fatalf("SelectPasses(db): %v", err)
	}
	if len(fromDB) != len(fromMem) {
		t.Fatalf("row counts differ: db %d, mem %d", len(fromDB), len(fromMem))
	}
	for i := range fromMem {
		a, b := fromMem[i], fromDB[i]
		if a.CycleNumber != b.CycleNumber || a.PassNumber != b.PassNumber ||
			!a.FirstMeasurement.Equal(b.FirstMeasurement) || !a.LastMeasurement.Equal(b.LastMeasurement) {
			t.Errorf("row %d differs: mem %+v, db %+v", i, a, b)
		}
	}
}
