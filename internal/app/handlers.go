package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/perigee-labs/swathfinder/internal/config"
	"github.com/perigee-labs/swathfinder/internal/export"
	"github.com/perigee-labs/swathfinder/internal/geo"
	"github.com/perigee-labs/swathfinder/internal/metrics"
	"github.com/perigee-labs/swathfinder/internal/orbit"
	"github.com/perigee-labs/swathfinder/internal/telemetry"
)

// ---------------------------------------------------------------------------
// Core handlers
// ---------------------------------------------------------------------------

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	// If the client asks for JSON, return component-level health checks.
	if r.Header.Get("Accept") == "application/json" {
		a.handleHealthDetailed(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	checks := map[string]any{}
	allOK := true

	// Check data directory.
	tmpPath := filepath.Join(cfg.Data.Root, ".healthcheck")
	if err := os.WriteFile(tmpPath, []byte("ok"), 0o644); err != nil {
		checks["data_dir"] = map[string]any{"ok": false, "error": err.Error()}
		allOK = false
	} else {
		os.Remove(tmpPath)
		checks["data_dir"] = map[string]any{"ok": true, "path": cfg.Data.Root}
	}

	// Check the ephemeris store end to end.
	if info, err := a.getStore().Mission(); err != nil {
		checks["store"] = map[string]any{"ok": false, "error": err.Error()}
		allOK = false
	} else {
		checks["store"] = map[string]any{"ok": true, "mission": info.Name}
	}

	// Config file readable.
	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err != nil {
			checks["config_file"] = map[string]any{"ok": false, "error": err.Error()}
			allOK = false
		} else {
			checks["config_file"] = map[string]any{"ok": true, "path": a.configPath}
		}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"healthy": allOK,
		"checks":  checks,
	})
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	resp := map[string]any{
		"name":           "swathfinder",
		"state":          a.state.Load().(string),
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"mission":        cfg.Mission.Name,
		"data_root":      cfg.Data.Root,
	}

	if st, ok := a.getStore().(*orbit.SQLiteStore); ok {
		resp["store"] = "sqlite"
		resp["orbit_db"] = st.Path()
	} else if cfg.Mission.OrbitDB != "" {
		resp["store"] = "sqlite"
		resp["orbit_db"] = cfg.Mission.OrbitDB
	} else {
		resp["store"] = "seeded"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.getConfig())
}

func (a *App) handleConfigProfiles(w http.ResponseWriter, _ *http.Request) {
	profiles, err := config.ListProfiles(config.DefaultConfigDir())
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if profiles == nil {
		profiles = []config.ProfileInfo{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"config_dir": config.DefaultConfigDir(),
		"profiles":   profiles,
	})
}

func (a *App) handleMission(w http.ResponseWriter, _ *http.Request) {
	store := a.getStore()
	info, err := store.Mission()
	if err != nil {
		searchError(w, err)
		return
	}
	cycles, err := store.Cycles()
	if err != nil {
		searchError(w, err)
		return
	}

	nums := make([]int, 0, len(cycles))
	for n := range cycles {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	resp := map[string]any{
		"name":             info.Name,
		"passes_per_cycle": info.PassesPerCycle,
		"cycle_duration":   info.CycleDuration.String(),
		"known_cycles":     len(nums),
	}
	if len(nums) > 0 {
		resp["first_cycle"] = nums[0]
		resp["first_cycle_start"] = cycles[nums[0]].UTC().Format(time.RFC3339)
		resp["last_cycle"] = nums[len(nums)-1]
		resp["last_cycle_start"] = cycles[nums[len(nums)-1]].UTC().Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// ---------------------------------------------------------------------------
// Search handlers
// ---------------------------------------------------------------------------

// searchWindow is the parsed start/duration pair shared by the pass,
// crossing, and export endpoints.
type searchWindow struct {
	Start    time.Time
	Duration time.Duration
}

// parseWindow reads start (RFC 3339, default now) and duration (Go
// duration string, default from config) from URL query parameters.
func (a *App) parseWindow(r *http.Request) (searchWindow, error) {
	cfg := a.getConfig()
	win := searchWindow{
		Start:    time.Now().UTC(),
		Duration: time.Duration(cfg.Search.DefaultDurationHours) * time.Hour,
	}

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return win, fmt.Errorf("bad start %q: %v", s, err)
		}
		win.Start = t.UTC()
	}
	if d := r.URL.Query().Get("duration"); d != "" {
		dur, err := time.ParseDuration(d)
		if err != nil {
			return win, fmt.Errorf("bad duration %q: %v", d, err)
		}
		win.Duration = dur
	}
	return win, nil
}

// selectWindow runs the pass selection for the window and applies the
// optional region filter given as WKT or GeoJSON text.
func (a *App) selectWindow(win searchWindow, regionText string) (orbit.SelectionTable, orb.Polygon, error) {
	store := a.getStore()

	table, err := orbit.SelectPasses(store, win.Start, win.Duration)
	if err != nil {
		return nil, nil, err
	}

	var region orb.Polygon
	if regionText != "" {
		region, err = geo.ParsePolygon(regionText)
		if err != nil {
			return nil, nil, err
		}
		table, err = orbit.FilterByRegion(store, table, region)
		if err != nil {
			return nil, nil, err
		}
	}
	return table, region, nil
}

func (a *App) handlePasses(w http.ResponseWriter, r *http.Request) {
	win, err := a.parseWindow(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	a.transition("SEARCHING")
	defer a.transition("IDLE")
	began := time.Now()

	table, region, err := a.selectWindow(win, r.URL.Query().Get("polygon"))
	if err != nil {
		searchError(w, err)
		return
	}

	metrics.ObserveSearch(len(table))
	a.wsHub.BroadcastJSON(telemetry.SearchSummary{
		Event:      telemetry.Event{Type: telemetry.EventSearch, TS: telemetry.NowTS(), Component: "swathd"},
		Start:      win.Start.Format(time.RFC3339),
		Duration:   win.Duration.String(),
		HasRegion:  region != nil,
		PassCount:  len(table),
		ElapsedMs:  time.Since(began).Milliseconds(),
		RemoteAddr: r.RemoteAddr,
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"start":    win.Start.Format(time.RFC3339),
		"duration": win.Duration.String(),
		"count":    len(table),
		"passes":   table,
	})
}

func (a *App) handleSwaths(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("passes")
	if raw == "" {
		jsonError(w, "passes parameter required", http.StatusBadRequest)
		return
	}

	var nums []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			jsonError(w, fmt.Sprintf("bad pass number %q", part), http.StatusBadRequest)
			return
		}
		nums = append(nums, n)
	}

	set, err := orbit.LoadSwaths(a.getStore(), nums)
	if err != nil {
		searchError(w, err)
		return
	}

	asWKT := r.URL.Query().Get("format") == "wkt"

	type swathJSON struct {
		Pass  int `json:"pass"`
		Left  any `json:"left"`
		Right any `json:"right"`
	}
	out := make([]swathJSON, 0, len(set.Order))
	for _, n := range set.Order {
		entry := swathJSON{Pass: n}
		if asWKT {
			entry.Left = geo.MarshalWKT(set.Left[n])
			entry.Right = geo.MarshalWKT(set.Right[n])
		} else {
			lb, err := geo.MarshalGeoJSON(set.Left[n])
			if err != nil {
				searchError(w, err)
				return
			}
			rb, err := geo.MarshalGeoJSON(set.Right[n])
			if err != nil {
				searchError(w, err)
				return
			}
			entry.Left = json.RawMessage(lb)
			entry.Right = json.RawMessage(rb)
		}
		out = append(out, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"count":  len(out),
		"swaths": out,
	})
}

func (a *App) handleCrossings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Start    string `json:"start"`
		Duration string `json:"duration"`
		Polygon  string `json:"polygon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := a.getConfig()
	win := searchWindow{
		Start:    time.Now().UTC(),
		Duration: time.Duration(cfg.Search.DefaultDurationHours) * time.Hour,
	}
	if req.Start != "" {
		t, err := time.Parse(time.RFC3339, req.Start)
		if err != nil {
			jsonError(w, fmt.Sprintf("bad start %q: %v", req.Start, err), http.StatusBadRequest)
			return
		}
		win.Start = t.UTC()
	}
	if req.Duration != "" {
		d, err := time.ParseDuration(req.Duration)
		if err != nil {
			jsonError(w, fmt.Sprintf("bad duration %q: %v", req.Duration, err), http.StatusBadRequest)
			return
		}
		win.Duration = d
	}

	a.transition("SEARCHING")
	defer a.transition("IDLE")

	table, region, err := a.selectWindow(win, req.Polygon)
	if err != nil {
		searchError(w, err)
		return
	}

	intervals, err := orbit.CrossingTimes(a.getStore(), table, region)
	if err != nil {
		searchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"start":     win.Start.Format(time.RFC3339),
		"duration":  win.Duration.String(),
		"count":     len(intervals),
		"crossings": intervals,
	})
}

// ---------------------------------------------------------------------------
// Exports
// ---------------------------------------------------------------------------

func (a *App) handleExportPasses(w http.ResponseWriter, r *http.Request) {
	win, err := a.parseWindow(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	table, _, err := a.selectWindow(win, r.URL.Query().Get("polygon"))
	if err != nil {
		searchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="passes.csv"`)
	if err := export.WriteSelectionCSV(w, table); err != nil {
		a.log.Printf("passes.csv export failed: %v", err)
	}
}

func (a *App) handleExportCrossings(w http.ResponseWriter, r *http.Request) {
	win, err := a.parseWindow(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	table, region, err := a.selectWindow(win, r.URL.Query().Get("polygon"))
	if err != nil {
		searchError(w, err)
		return
	}

	intervals, err := orbit.CrossingTimes(a.getStore(), table, region)
	if err != nil {
		searchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="crossings.csv"`)
	if err := export.WriteCrossingsCSV(w, intervals); err != nil {
		a.log.Printf("crossings.csv export failed: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Reload
// ---------------------------------------------------------------------------

func (a *App) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Accept optional profile name in body: {"profile": "swot-cal"}
	var body struct {
		Profile string `json:"profile"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	loadPath := a.configPath
	if body.Profile != "" {
		// Resolve profile name to a file in the config directory.
		candidate := filepath.Join(config.DefaultConfigDir(), body.Profile+".toml")
		if _, err := os.Stat(candidate); err != nil {
			jsonError(w, fmt.Sprintf("profile %q not found at %s", body.Profile, candidate), http.StatusNotFound)
			return
		}
		loadPath = candidate
	}

	if loadPath == "" {
		jsonError(w, "no config file path set", http.StatusInternalServerError)
		return
	}

	newCfg, err := config.Load(loadPath)
	if err != nil {
		jsonError(w, "config reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	newStore, err := a.openStore(newCfg)
	if err != nil {
		jsonError(w, "store reopen failed: "+err.Error(), http.StatusInternalServerError)
		a.transition("IDLE")
		return
	}

	a.cfgMu.Lock()
	a.cfg = newCfg
	a.configPath = loadPath
	a.cfgMu.Unlock()

	a.storeMu.Lock()
	old := a.store
	a.store = newStore
	a.storeMu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	a.transition("IDLE")

	a.wsHub.BroadcastJSON(telemetry.LogLine{
		Event:   telemetry.Event{Type: telemetry.EventLog, TS: telemetry.NowTS(), Component: "swathd"},
		Level:   "info",
		Message: fmt.Sprintf("config reloaded from %s", loadPath),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":      true,
		"message": "configuration reloaded from " + loadPath,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// searchError maps domain errors to HTTP status codes: rejected polygons
// are client errors, missing reference data is a service failure.
func searchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, geo.ErrInvalidPolygon):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, orbit.ErrDataUnavailable):
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    false,
		"error": msg,
	})
}
