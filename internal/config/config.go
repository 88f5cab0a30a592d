// Package config handles loading, defaulting, and validation of the
// swathfinder TOML configuration file. Every section maps to a typed
// struct so the rest of the codebase gets strong typing without manual
// key lookups.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Data    DataConfig    `toml:"data"    json:"data"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Server  ServerConfig  `toml:"server"  json:"server"`
	Mission MissionConfig `toml:"mission" json:"mission"`
	Search  SearchConfig  `toml:"search"  json:"search"`
	Seed    SeedConfig    `toml:"seed"    json:"seed"`
}

type DataConfig struct {
	Root string `toml:"root" json:"root"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

// MissionConfig names the repeat-orbit mission and points at its bundled
// reference data. ORFFile is optional: when set, its cycle table
// overrides the one in the orbit database.
type MissionConfig struct {
	Name    string `toml:"name"     json:"name"`
	OrbitDB string `toml:"orbit_db" json:"orbit_db"`
	ORFFile string `toml:"orf_file" json:"orf_file"`
}

type SearchConfig struct {
	DefaultDurationHours int `toml:"default_duration_hours" json:"default_duration_hours"`
}

// SeedConfig controls the TLE-based orbit database generator, used when
// no bundled orbit database is configured.
type SeedConfig struct {
	Enabled          bool    `toml:"enabled"             json:"enabled"`
	NoradID          int     `toml:"norad_id"            json:"norad_id"`
	TLEURL           string  `toml:"tle_url"             json:"tle_url"`
	TLERefreshHours  int     `toml:"tle_refresh_hours"   json:"tle_refresh_hours"`
	StepSeconds      int     `toml:"step_seconds"        json:"step_seconds"`
	PassesPerCycle   int     `toml:"passes_per_cycle"    json:"passes_per_cycle"`
	SwathHalfWidthKm float64 `toml:"swath_half_width_km" json:"swath_half_width_km"`
	SwathGapKm       float64 `toml:"swath_gap_km"        json:"swath_gap_km"`
	SaveDB           string  `toml:"save_db"             json:"save_db"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field. The seed defaults describe
// a SWOT-like swath: 584 passes per repeat cycle, a 10-50 km half-swath
// either side of the nadir track.
func Default() Config {
	return Config{
		Data: DataConfig{
			Root: "/var/lib/swathfinder",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Mission: MissionConfig{
			Name:    "SWOT",
			OrbitDB: "",
			ORFFile: "",
		},
		Search: SearchConfig{
			DefaultDurationHours: 24,
		},
		Seed: SeedConfig{
			Enabled:          true,
			NoradID:          54754,
			TLEURL:           "https://celestrak.org/NORAD/elements/gp.php?CATNR=54754&FORMAT=tle",
			TLERefreshHours:  24,
			StepSeconds:      10,
			PassesPerCycle:   584,
			SwathHalfWidthKm: 50,
			SwathGapKm:       10,
			SaveDB:           "",
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults,
// and validates the result. An error is returned if the file can't be
// read, parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Data.Root == "" {
		return errors.New("data.root must not be empty")
	}
	if cfg.Mission.Name == "" {
		return errors.New("mission.name must not be empty")
	}
	if cfg.Mission.OrbitDB == "" && !cfg.Seed.Enabled {
		return errors.New("either mission.orbit_db or seed.enabled is required")
	}
	if cfg.Search.DefaultDurationHours < 1 {
		return errors.New("search.default_duration_hours must be >= 1")
	}
	if cfg.Seed.Enabled {
		if cfg.Seed.NoradID <= 0 {
			return errors.New("seed.norad_id must be > 0")
		}
		if cfg.Seed.StepSeconds < 1 {
			return errors.New("seed.step_seconds must be >= 1")
		}
		if cfg.Seed.PassesPerCycle < 2 || cfg.Seed.PassesPerCycle%2 != 0 {
			return errors.New("seed.passes_per_cycle must be a positive even number")
		}
		if cfg.Seed.SwathHalfWidthKm <= 0 {
			return errors.New("seed.swath_half_width_km must be > 0")
		}
		if cfg.Seed.SwathGapKm < 0 || cfg.Seed.SwathGapKm >= cfg.Seed.SwathHalfWidthKm {
			return errors.New("seed.swath_gap_km must be in [0, swath_half_width_km)")
		}
		if cfg.Seed.TLERefreshHours < 1 {
			return errors.New("seed.tle_refresh_hours must be >= 1")
		}
	}
	return nil
}

// DefaultConfigDir is where named config profiles live.
func DefaultConfigDir() string {
	return "/etc/swathfinder"
}

// ProfileInfo describes one named configuration profile on disk.
type ProfileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ListProfiles returns the TOML profiles available in dir. A missing
// directory yields an empty list, not an error.
func ListProfiles(dir string) ([]ProfileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []ProfileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		out = append(out, ProfileInfo{
			Name: strings.TrimSuffix(e.Name(), ".toml"),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return out, nil
}
