package ctl

import (
	"fmt"
	"net/url"
	"os"
)

// ExportOptions controls the export command.
type ExportOptions struct {
	Kind     string // "passes" or "crossings"
	Start    string
	Duration string
	Polygon  string
	Output   string // output file; empty = stdout
}

// Export downloads a CSV table of passes or crossings from the daemon.
func Export(baseURL string, opts ExportOptions) error {
	var path string
	switch opts.Kind {
	case "passes":
		path = "/api/export/passes.csv"
	case "crossings":
		path = "/api/export/crossings.csv"
	default:
		return fmt.Errorf("unknown export kind %q (want passes or crossings)", opts.Kind)
	}

	params := url.Values{}
	if opts.Start != "" {
		params.Set("start", opts.Start)
	}
	if opts.Duration != "" {
		params.Set("duration", opts.Duration)
	}
	if opts.Polygon != "" {
		params.Set("polygon", opts.Polygon)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	status, body, err := getRaw(baseURL, path)
	if err != nil {
		return err
	}
	if status != 200 {
		return fmt.Errorf("HTTP %d: %s", status, string(body))
	}

	if opts.Output == "" {
		_, err := os.Stdout.Write(body)
		return err
	}

	if err := os.WriteFile(opts.Output, body, 0o644); err != nil {
		return err
	}
	fmt.Printf("  wrote %d bytes to %s\n", len(body), opts.Output)
	return nil
}
