// Package app wires together the HTTP server, WebSocket hub, and the
// ephemeris store behind the search endpoints. It owns the daemon's
// lifecycle and is the single source of truth for the current operating
// state.
package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/perigee-labs/swathfinder/internal/config"
	"github.com/perigee-labs/swathfinder/internal/metrics"
	"github.com/perigee-labs/swathfinder/internal/orbit"
	"github.com/perigee-labs/swathfinder/internal/seed"
	"github.com/perigee-labs/swathfinder/internal/telemetry"
	"github.com/perigee-labs/swathfinder/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger     *log.Logger
	Cfg        config.Config
	ConfigPath string
	Bind       string
}

// App is the top-level daemon process. It manages the HTTP server, the
// WebSocket event hub, and the ephemeris store the search operations
// run against.
type App struct {
	log        *log.Logger
	cfgMu      sync.RWMutex
	cfg        config.Config
	configPath string
	bind       string
	server     *http.Server

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, SEEDING, IDLE, SEARCHING)

	storeMu sync.RWMutex
	store   orbit.Store

	wsHub *ws.Hub
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	a := &App{
		log:        opts.Logger,
		cfg:        opts.Cfg,
		configPath: opts.ConfigPath,
		bind:       opts.Bind,
		startedAt:  time.Now(),
		wsHub:      ws.NewHub(),
	}
	a.state.Store("BOOTING")
	return a
}

// Run opens the ephemeris store, starts the HTTP server, WebSocket hub,
// and heartbeat ticker, then blocks until the context is cancelled or
// the server returns an error.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	go a.wsHub.Run(ctx)

	store, err := a.openStore(a.cfg)
	if err != nil {
		return err
	}
	a.store = store

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/config/profiles", a.handleConfigProfiles)
	mux.HandleFunc("/api/mission", a.handleMission)
	mux.HandleFunc("/api/passes", a.handlePasses)
	mux.HandleFunc("/api/swaths", a.handleSwaths)
	mux.HandleFunc("/api/crossings", a.handleCrossings)
	mux.HandleFunc("/api/export/passes.csv", a.handleExportPasses)
	mux.HandleFunc("/api/export/crossings.csv", a.handleExportCrossings)
	mux.HandleFunc("/api/reload", a.handleReload)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/ws", a.wsHub.Handler())

	a.server = &http.Server{
		Addr:              bind,
		Handler:           metrics.Middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)

	a.transition("IDLE")
	go a.heartbeatLoop(ctx)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
		a.storeMu.Lock()
		if a.store != nil {
			_ = a.store.Close()
		}
		a.storeMu.Unlock()
	}()

	return a.server.Serve(ln)
}

// openStore builds the ephemeris store from the configuration: a bundled
// SQLite orbit database when one is configured, otherwise a TLE-seeded
// in-memory store. An ORF file, when set, overrides the cycle table.
func (a *App) openStore(cfg config.Config) (orbit.Store, error) {
	if cfg.Mission.OrbitDB != "" {
		st, err := orbit.OpenSQLite(cfg.Mission.OrbitDB)
		if err != nil {
			return nil, err
		}
		a.log.Printf("orbit database: %s", cfg.Mission.OrbitDB)

		if cfg.Mission.ORFFile != "" {
			cycles, err := orbit.LoadORF(cfg.Mission.ORFFile)
			if err != nil {
				_ = st.Close()
				return nil, err
			}
			a.log.Printf("cycle table overridden from %s (%d cycles)", cfg.Mission.ORFFile, len(cycles))
			return orbit.WithCycles(st, cycles), nil
		}
		return st, nil
	}

	a.transition("SEEDING")
	a.log.Printf("no orbit database configured, seeding from TLE (NORAD %d)", cfg.Seed.NoradID)

	ms, err := seed.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	a.log.Printf("seeded %d passes over one repeat cycle", len(ms.Passes))

	if cfg.Seed.SaveDB != "" {
		if err := orbit.CreateSQLite(cfg.Seed.SaveDB, ms); err != nil {
			// Persisting the seed is an optimization, not a requirement.
			a.log.Printf("save_db write failed: %v", err)
		} else {
			a.log.Printf("seeded orbit database written to %s", cfg.Seed.SaveDB)
		}
	}

	if cfg.Mission.ORFFile != "" {
		cycles, err := orbit.LoadORF(cfg.Mission.ORFFile)
		if err != nil {
			return nil, err
		}
		return orbit.WithCycles(ms, cycles), nil
	}
	return ms, nil
}

func (a *App) getConfig() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

func (a *App) getStore() orbit.Store {
	a.storeMu.RLock()
	defer a.storeMu.RUnlock()
	return a.store
}

// transition atomically updates the daemon state and broadcasts the
// change to all connected WebSocket clients.
func (a *App) transition(newState string) {
	old := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)

	a.wsHub.BroadcastJSON(telemetry.StateTransition{
		Event: telemetry.Event{Type: telemetry.EventState, TS: telemetry.NowTS(), Component: "swathd"},
		From:  old,
		To:    newState,
	})
}

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.BroadcastJSON(telemetry.Heartbeat{
				Event:         telemetry.Event{Type: telemetry.EventHeartbeat, TS: telemetry.NowTS()},
				State:         a.state.Load().(string),
				UptimeSeconds: int64(time.Since(a.startedAt).Seconds()),
			})
		}
	}
}
