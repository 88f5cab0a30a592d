package ctl

import (
	"fmt"
	"strings"
)

// Config dumps the daemon's running configuration as indented JSON.
func Config(baseURL string, jsonOutput bool) error {
	var cfg map[string]any
	if err := getJSON(baseURL, "/api/config", &cfg); err != nil {
		return err
	}
	// The config is structured data either way; always print JSON.
	_ = jsonOutput
	return printJSON(cfg)
}

// ConfigList shows the named configuration profiles available to reload.
func ConfigList(baseURL string, jsonOutput bool) error {
	var resp struct {
		ConfigDir string `json:"config_dir"`
		Profiles  []struct {
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"profiles"`
	}
	if err := getJSON(baseURL, "/api/config/profiles", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  CONFIG PROFILES"))
	fmt.Printf("  %s %s\n", colorize(dim, "Directory:"), resp.ConfigDir)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 44)))
	if len(resp.Profiles) == 0 {
		fmt.Println(colorize(dim, "  No profiles found."))
	}
	for _, p := range resp.Profiles {
		fmt.Printf("  %-20s %s\n", colorize(bold, p.Name), colorize(dim, p.Path))
	}
	fmt.Println()

	return nil
}
