package ctl

import (
	"fmt"
	"strings"
)

// CLI build-time variables set via -ldflags.
var (
	Version = "dev"
	BuiltAt = "unknown"
)

// VersionInfo prints the CLI version and queries the daemon for its own.
func VersionInfo(baseURL string, jsonOutput bool) error {
	var daemon struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
		BuiltAt   string `json:"built_at"`
	}
	daemonErr := getJSON(baseURL, "/api/version", &daemon)

	if jsonOutput {
		out := map[string]any{
			"cli": map[string]any{"version": Version, "built_at": BuiltAt},
		}
		if daemonErr == nil {
			out["daemon"] = daemon
		} else {
			out["daemon_error"] = daemonErr.Error()
		}
		return printJSON(out)
	}

	fmt.Println()
	fmt.Println(header("  VERSION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	fmt.Printf("  %-12s %s %s\n", colorize(dim, "swathctl:"), Version, colorize(dim, "("+BuiltAt+")"))
	if daemonErr == nil {
		fmt.Printf("  %-12s %s %s\n", colorize(dim, "swathd:"), daemon.Version, colorize(dim, "("+daemon.BuiltAt+")"))
		fmt.Printf("  %-12s %s\n", colorize(dim, "Go:"), daemon.GoVersion)
	} else {
		fmt.Printf("  %-12s %s\n", colorize(dim, "swathd:"), colorize(red, "unreachable"))
	}
	fmt.Println()

	return nil
}
