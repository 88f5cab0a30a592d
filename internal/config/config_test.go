package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swathfinder.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
bind = "127.0.0.1:9000"

[mission]
name = "TESTSAT"
orbit_db = "/tmp/orbit.db"

[seed]
enabled = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Bind != "127.0.0.1:9000" {
		t.Errorf("bind = %q, want override", cfg.Server.Bind)
	}
	if cfg.Mission.Name != "TESTSAT" {
		t.Errorf("mission = %q, want TESTSAT", cfg.Mission.Name)
	}
	// Untouched sections keep their defaults.
	if cfg.Data.Root != "/var/lib/swathfinder" {
		t.Errorf("data root = %q, want default", cfg.Data.Root)
	}
	if cfg.Search.DefaultDurationHours != 24 {
		t.Errorf("default duration = %d, want 24", cfg.Search.DefaultDurationHours)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "no-such.toml")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := writeConfig(t, "[server\nbind = ")
	if _, err := Load(path); err == nil {
		t.Fatal("want error for malformed TOML")
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"no data source": `
[mission]
orbit_db = ""
[seed]
enabled = false
`,
		"odd passes per cycle": `
[seed]
passes_per_cycle = 583
`,
		"gap wider than swath": `
[seed]
swath_half_width_km = 10
swath_gap_km = 10
`,
		"zero step": `
[seed]
step_seconds = 0
`,
		"bad duration": `
[search]
default_duration_hours = 0
`,
		"empty mission name": `
[mission]
name = ""
`,
	}

	for name, body := range cases {
		path := writeConfig(t, body)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: want validation error", name)
		}
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestListProfiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"prod.toml", "staging.toml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(""), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "ignored.toml.d"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	profiles, err := ListProfiles(dir)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}
	names := map[string]bool{}
	for _, p := range profiles {
		names[p.Name] = true
		if filepath.Dir(p.Path) != dir {
			t.Errorf("profile path %q outside %q", p.Path, dir)
		}
	}
	if !names["prod"] || !names["staging"] {
		t.Errorf("profiles = %v, want prod and staging", names)
	}
}

func TestListProfilesMissingDir(t *testing.T) {
	profiles, err := ListProfiles(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("got %v, want empty", profiles)
	}
}
