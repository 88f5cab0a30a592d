package ctl

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// PassesOptions controls the passes command output.
type PassesOptions struct {
	Start    string // RFC 3339 window start; empty = now
	Duration string // Go duration string; empty = daemon default
	Polygon  string // WKT or GeoJSON region filter
	JSON     bool
}

// passRow mirrors one selection table row from the daemon.
type passRow struct {
	CycleNumber      int    `json:"cycle_number"`
	PassNumber       int    `json:"pass_number"`
	FirstMeasurement string `json:"first_measurement"`
	LastMeasurement  string `json:"last_measurement"`
}

func passesQuery(opts PassesOptions) string {
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
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// Passes lists the passes whose measurement windows overlap the search
// window, optionally filtered by a region polygon.
func Passes(baseURL string, opts PassesOptions) error {
	var resp struct {
		Start    string    `json:"start"`
		Duration string    `json:"duration"`
		Count    int       `json:"count"`
		Passes   []passRow `json:"passes"`
	}
	if err := getJSON(baseURL, "/api/passes"+passesQuery(opts), &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  SELECTED PASSES"))
	fmt.Printf("  %s %s + %s\n",
		colorize(dim, "Window:"),
		formatUTCTime(resp.Start),
		resp.Duration,
	)
	if opts.Polygon != "" {
		fmt.Printf("  %s region filter active\n", colorize(dim, "Filter:"))
	}
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 64)))

	if len(resp.Passes) == 0 {
		fmt.Println(colorize(dim, "  No passes in window."))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-7s %-6s %-21s %-21s %s\n",
		colorize(dim, "Cycle"),
		colorize(dim, "Pass"),
		colorize(dim, "First measurement"),
		colorize(dim, "Last measurement"),
		colorize(dim, "Length"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 64)))

	for _, p := range resp.Passes {
		length := ""
		if first, err := time.Parse(time.RFC3339, p.FirstMeasurement); err == nil {
			if last, err := time.Parse(time.RFC3339, p.LastMeasurement); err == nil {
				length = formatDuration(last.Sub(first))
			}
		}
		fmt.Printf("  %-7d %-6s %-21s %-21s %s\n",
			p.CycleNumber,
			colorize(bold, fmt.Sprintf("%d", p.PassNumber)),
			formatUTCTime(p.FirstMeasurement),
			formatUTCTime(p.LastMeasurement),
			colorize(dim, length),
		)
	}
	fmt.Println()

	return nil
}
