package orbit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeORF(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cycles.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write orf: %v", err)
	}
	return path
}

func TestLoadORF(t *testing.T) {
	path := writeORF(t, `{"1": "2023-07-21T05:33:48Z", "2": "2023-08-11T02:22:17Z"}`)

	cycles, err := LoadORF(path)
	if err != nil {
		t.Fatalf("LoadORF: %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(cycles))
	}
	want := time.Date(2023, 7, 21, 5, 33, 48, 0, time.UTC)
	if !cycles[1].Equal(want) {
		t.Errorf("cycle 1 = %v, want %v", cycles[1], want)
	}
}

func TestLoadORFRejects(t *testing.T) {
	cases := map[string]string{
		"cycle zero":    `{"0": "2023-07-21T05:33:48Z"}`,
		"non-numeric":   `{"one": "2023-07-21T05:33:48Z"}`,
		"bad timestamp": `{"1": "yesterday"}`,
		"empty object":  `{}`,
		"not an object": `[1, 2, 3]`,
	}
	for name, body := range cases {
		path := writeORF(t, body)
		if _, err := LoadORF(path); !errors.Is(err, ErrDataUnavailable) {
			t.Errorf("%s: err = %v, want ErrDataUnavailable", name, err)
		}
	}
}

func TestLoadORFMissingFile(t *testing.T) {
	_, err := LoadORF(filepath.Join(t.TempDir(), "no-such.json"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestWithCycles(t *testing.T) {
	store := testStore()
	override := map[int]time.Time{1: t0.Add(30 * time.Minute)}

	wrapped := WithCycles(store, override)
	cycles, err := wrapped.Cycles()
	if err != nil {
		t.Fatalf("Cycles: %v", err)
	}
	if len(cycles) != 1 || !cycles[1].Equal(t0.Add(30*time.Minute)) {
		t.Errorf("cycles = %v, want the override table", cycles)
	}

	// Everything else still comes from the underlying store.
	info, err := wrapped.Mission()
	if err != nil {
		t.Fatalf("Mission: %v", err)
	}
	if info.Name != "TESTSAT" {
		t.Errorf("mission name = %q, want TESTSAT", info.Name)
	}
}
