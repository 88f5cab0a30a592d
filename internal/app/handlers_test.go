package app

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/perigee-labs/swathfinder/internal/config"
	"github.com/perigee-labs/swathfinder/internal/orbit"
)

var testEpoch = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

const europeWKT = "POLYGON((-6 36,-6 60,36 60,36 36,-6 36))"

// fixtureStore is a two-pass mission with a 2 hour repeat cycle. Pass 1
// ascends over Europe at lon 10; pass 2 descends far away at lon -80.
func fixtureStore() *orbit.MemStore {
	s := orbit.NewMemStore(orbit.MissionInfo{
		Name:           "TESTSAT",
		PassesPerCycle: 2,
		CycleDuration:  2 * time.Hour,
	})
	s.CycleTable[1] = testEpoch

	track := func(start time.Duration, lon float64, ascending bool) []orbit.TrackPoint {
		lats := []float64{-60, -36, -12, 12, 36, 60}
		pts := make([]orbit.TrackPoint, len(lats))
		for i, lat := range lats {
			if !ascending {
				lat = -lat
			}
			pts[i] = orbit.TrackPoint{Offset: start + time.Duration(i)*12*time.Minute, Lat: lat, Lon: lon}
		}
		return pts
	}
	rect := func(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
		return orb.Polygon{orb.Ring{
			{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
		}}
	}

	s.Passes[1] = &orbit.PassTemplate{
		Number: 1, StartOffset: 0, EndOffset: time.Hour,
		Track: track(0, 10, true),
	}
	s.Passes[2] = &orbit.PassTemplate{
		Number: 2, StartOffset: time.Hour, EndOffset: 2 * time.Hour,
		Track: track(time.Hour, -80, false),
	}
	s.SwathTable[1] = &orbit.SwathPair{
		Left:  rect(8.5, -60, 9.5, 60),
		Right: rect(10.5, -60, 11.5, 60),
	}
	s.SwathTable[2] = &orbit.SwathPair{
		Left:  rect(-81.5, -60, -80.5, 60),
		Right: rect(-79.5, -60, -78.5, 60),
	}
	return s
}

func newTestApp() *App {
	a := New(Options{
		Logger: log.New(io.Discard, "", 0),
		Cfg:    config.Default(),
	})
	a.store = fixtureStore()
	return a
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthzPlain(t *testing.T) {
	a := newTestApp()
	rec := httptest.NewRecorder()
	a.handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok\n" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok\n")
	}
}

func TestStatus(t *testing.T) {
	a := newTestApp()
	rec := httptest.NewRecorder()
	a.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	resp := decodeJSON(t, rec)
	if resp["name"] != "swathfinder" {
		t.Errorf("name = %v", resp["name"])
	}
	if resp["state"] != "BOOTING" {
		t.Errorf("state = %v, want BOOTING before Run", resp["state"])
	}
	if resp["store"] != "seeded" {
		t.Errorf("store = %v, want seeded for a memory store", resp["store"])
	}
}

func TestVersion(t *testing.T) {
	a := newTestApp()
	rec := httptest.NewRecorder()
	a.handleVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	resp := decodeJSON(t, rec)
	if resp["version"] != Version {
		t.Errorf("version = %v, want %v", resp["version"], Version)
	}
}

func TestMission(t *testing.T) {
	a := newTestApp()
	rec := httptest.NewRecorder()
	a.handleMission(rec, httptest.NewRequest(http.MethodGet, "/api/mission", nil))

	resp := decodeJSON(t, rec)
	if resp["name"] != "TESTSAT" {
		t.Errorf("name = %v, want TESTSAT", resp["name"])
	}
	if resp["passes_per_cycle"] != float64(2) {
		t.Errorf("passes_per_cycle = %v, want 2", resp["passes_per_cycle"])
	}
	if resp["first_cycle_start"] != testEpoch.Format(time.RFC3339) {
		t.Errorf("first_cycle_start = %v, want %v", resp["first_cycle_start"], testEpoch.Format(time.RFC3339))
	}
}

func TestPasses(t *testing.T) {
	a := newTestApp()
	target := "/api/passes?start=" + url.QueryEscape(testEpoch.Format(time.RFC3339)) + "&duration=3h30m"
	rec := httptest.NewRecorder()
	a.handlePasses(rec, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	// Two passes per 2 hour cycle; the 3.5 hour window reaches pass 2 of
	// cycle 2 but not cycle 3.
	if resp["count"] != float64(4) {
		t.Errorf("count = %v, want 4", resp["count"])
	}
	if a.state.Load().(string) != "IDLE" {
		t.Errorf("state = %v after search, want IDLE", a.state.Load())
	}
}

func TestPassesWithRegion(t *testing.T) {
	a := newTestApp()
	target := "/api/passes?start=" + url.QueryEscape(testEpoch.Format(time.RFC3339)) +
		"&duration=3h30m&polygon=" + url.QueryEscape(europeWKT)
	rec := httptest.NewRecorder()
	a.handlePasses(rec, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	// Only pass 1 covers Europe: one row per cycle.
	if resp["count"] != float64(2) {
		t.Errorf("count = %v, want 2", resp["count"])
	}
}

func TestPassesBadPolygon(t *testing.T) {
	a := newTestApp()
	target := "/api/passes?polygon=" + url.QueryEscape("POLYGON((0 0,2 2,2 0,0 2,0 0))")
	rec := httptest.NewRecorder()
	a.handlePasses(rec, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a self-intersecting polygon", rec.Code)
	}
	resp := decodeJSON(t, rec)
	if resp["ok"] != false {
		t.Errorf("ok = %v, want false", resp["ok"])
	}
}

func TestPassesBadStart(t *testing.T) {
	a := newTestApp()
	rec := httptest.NewRecorder()
	a.handlePasses(rec, httptest.NewRequest(http.MethodGet, "/api/passes?start=yesterday", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCrossings(t *testing.T) {
	a := newTestApp()
	body := `{"start":"` + testEpoch.Format(time.RFC3339) + `","duration":"1h30m","polygon":"` + europeWKT + `"}`
	rec := httptest.NewRecorder()
	a.handleCrossings(rec, httptest.NewRequest(http.MethodPost, "/api/crossings", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	if resp["count"] != float64(1) {
		t.Errorf("count = %v, want 1 crossing", resp["count"])
	}
	crossings := resp["crossings"].([]any)
	first := crossings[0].(map[string]any)
	if first["pass_number"] != float64(1) {
		t.Errorf("pass_number = %v, want 1", first["pass_number"])
	}
}

func TestCrossingsMethodNotAllowed(t *testing.T) {
	a := newTestApp()
	rec := httptest.NewRecorder()
	a.handleCrossings(rec, httptest.NewRequest(http.MethodGet, "/api/crossings", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestSwaths(t *testing.T) {
	a := newTestApp()
	rec := httptest.NewRecorder()
	a.handleSwaths(rec, httptest.NewRequest(http.MethodGet, "/api/swaths?passes=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	if resp["count"] != float64(1) {
		t.Errorf("count = %v, want 1", resp["count"])
	}
}

func TestSwathsWKTFormat(t *testing.T) {
	a := newTestApp()
	rec := httptest.NewRecorder()
	a.handleSwaths(rec, httptest.NewRequest(http.MethodGet, "/api/swaths?passes=1&format=wkt", nil))

	resp := decodeJSON(t, rec)
	swaths := resp["swaths"].([]any)
	entry := swaths[0].(map[string]any)
	left, ok := entry["left"].(string)
	if !ok || !strings.HasPrefix(left, "POLYGON") {
		t.Errorf("left = %v, want a WKT string", entry["left"])
	}
}

func TestSwathsParamValidation(t *testing.T) {
	a := newTestApp()

	rec := httptest.NewRecorder()
	a.handleSwaths(rec, httptest.NewRequest(http.MethodGet, "/api/swaths", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing passes: status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.handleSwaths(rec, httptest.NewRequest(http.MethodGet, "/api/swaths?passes=1,x", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad pass number: status = %d, want 400", rec.Code)
	}
}

func TestExportPassesCSV(t *testing.T) {
	a := newTestApp()
	target := "/api/export/passes.csv?start=" + url.QueryEscape(testEpoch.Format(time.RFC3339)) + "&duration=1h30m"
	rec := httptest.NewRecorder()
	a.handleExportPasses(rec, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if lines[0] != "cycle_number,pass_number,first_measurement,last_measurement" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("got %d lines, want header plus 2 rows", len(lines))
	}
}

func TestExportCrossingsCSV(t *testing.T) {
	a := newTestApp()
	target := "/api/export/crossings.csv?start=" + url.QueryEscape(testEpoch.Format(time.RFC3339)) +
		"&duration=1h30m&polygon=" + url.QueryEscape(europeWKT)
	rec := httptest.NewRecorder()
	a.handleExportCrossings(rec, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if lines[0] != "pass_number,entry_time,exit_time" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 2 {
		t.Errorf("got %d lines, want header plus 1 row", len(lines))
	}
}

func TestConfigEndpoint(t *testing.T) {
	a := newTestApp()
	rec := httptest.NewRecorder()
	a.handleConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	resp := decodeJSON(t, rec)
	mission := resp["mission"].(map[string]any)
	if mission["name"] != "SWOT" {
		t.Errorf("mission name = %v, want the default", mission["name"])
	}
}
