// Swathctl is the command-line client for a running swathd instance. It
// queries pass selections, swath footprints, and region crossing times
// over HTTP, and streams live events over WebSocket.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/perigee-labs/swathfinder/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Swathfinder daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,search)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --duration are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "config-list":
		err = ctl.ConfigList(*host, *jsonOut)

	case "mission":
		err = ctl.Mission(*host, *jsonOut)

	case "passes":
		opts := ctl.PassesOptions{JSON: *jsonOut}
		passFlags := pflag.NewFlagSet("passes", pflag.ContinueOnError)
		passFlags.StringVar(&opts.Start, "start", "", "Window start (RFC 3339, default now)")
		passFlags.StringVar(&opts.Duration, "duration", "", "Window length (e.g. 72h, default from daemon config)")
		passFlags.StringVar(&opts.Polygon, "polygon", "", "Region filter as WKT or GeoJSON")
		_ = passFlags.Parse(subArgs)
		err = ctl.Passes(*host, opts)

	case "swaths":
		opts := ctl.SwathsOptions{JSON: *jsonOut}
		swathFlags := pflag.NewFlagSet("swaths", pflag.ContinueOnError)
		swathFlags.StringVar(&opts.Passes, "passes", "", "Comma-separated pass numbers (e.g. 1,42,301)")
		swathFlags.BoolVar(&opts.WKT, "wkt", false, "Return rings as WKT instead of GeoJSON")
		_ = swathFlags.Parse(subArgs)
		if opts.Passes == "" && swathFlags.NArg() > 0 {
			opts.Passes = swathFlags.Arg(0)
		}
		err = ctl.Swaths(*host, opts)

	case "crossings":
		opts := ctl.CrossingsOptions{JSON: *jsonOut}
		crossFlags := pflag.NewFlagSet("crossings", pflag.ContinueOnError)
		crossFlags.StringVar(&opts.Start, "start", "", "Window start (RFC 3339, default now)")
		crossFlags.StringVar(&opts.Duration, "duration", "", "Window length (e.g. 72h, default from daemon config)")
		crossFlags.StringVar(&opts.Polygon, "polygon", "", "Region as WKT or GeoJSON (empty = whole transit windows)")
		_ = crossFlags.Parse(subArgs)
		err = ctl.Crossings(*host, opts)

	case "export":
		opts := ctl.ExportOptions{}
		exportFlags := pflag.NewFlagSet("export", pflag.ContinueOnError)
		exportFlags.StringVar(&opts.Start, "start", "", "Window start (RFC 3339, default now)")
		exportFlags.StringVar(&opts.Duration, "duration", "", "Window length (e.g. 72h)")
		exportFlags.StringVar(&opts.Polygon, "polygon", "", "Region filter as WKT or GeoJSON")
		exportFlags.StringVarP(&opts.Output, "output", "o", "", "Write CSV to file instead of stdout")
		_ = exportFlags.Parse(subArgs)
		if exportFlags.NArg() > 0 {
			opts.Kind = exportFlags.Arg(0)
		}
		err = ctl.Export(*host, opts)

	// ── Control commands ──────────────────────────────────────────
	case "reload":
		opts := ctl.ReloadOptions{JSON: *jsonOut}
		reloadFlags := pflag.NewFlagSet("reload", pflag.ContinueOnError)
		reloadFlags.StringVar(&opts.Profile, "profile", "", "Switch to a named config profile")
		_ = reloadFlags.Parse(subArgs)
		err = ctl.Reload(*host, opts)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  swathctl - swath pass-finder control CLI

  USAGE
    swathctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and store details
    health          Check daemon and component health
    version         Show CLI and daemon version information
    config          Show the daemon's running configuration
    config-list     List available config profiles
    mission         Show mission reference data (cycles, passes per cycle)
    passes          List passes overlapping a time window
    swaths          Show left/right swath footprints for passes
    crossings       Compute region entry/exit times for selected passes
    export          Download passes or crossings as CSV

  COMMANDS (control)
    reload          Reload configuration from disk

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    passes:
        --start TIME        Window start, RFC 3339 (default: now)
        --duration DUR      Window length, e.g. 72h (default: daemon config)
        --polygon GEOM      Region filter as WKT or GeoJSON

    swaths:
        --passes LIST       Comma-separated pass numbers (e.g. 1,42,301)
        --wkt               Return rings as WKT instead of GeoJSON

    crossings:
        --start TIME        Window start, RFC 3339 (default: now)
        --duration DUR      Window length, e.g. 72h
        --polygon GEOM      Region as WKT or GeoJSON (empty = full windows)

    export:
        --start TIME        Window start, RFC 3339
        --duration DUR      Window length
        --polygon GEOM      Region filter
    -o, --output FILE       Write CSV to a file instead of stdout

    reload:
        --profile NAME      Switch to a named config profile

  EXAMPLES
    swathctl status
    swathctl --json status
    swathctl mission
    swathctl passes --start 2026-03-01T00:00:00Z --duration 72h
    swathctl passes --duration 72h --polygon 'POLYGON((-6 36,-6 60,36 60,36 36,-6 36))'
    swathctl swaths --passes 1,42,301
    swathctl crossings --duration 72h --polygon 'POLYGON((-6 36,-6 60,36 60,36 36,-6 36))'
    swathctl export passes --duration 72h -o passes.csv
    swathctl export crossings --polygon 'POLYGON((-6 36,-6 60,36 60,36 36,-6 36))'
    swathctl config-list
    swathctl reload --profile swot-cal
    swathctl watch --filter state,search

`)
}
