package ctl

import (
	"fmt"
	"strings"
	"time"
)

// CrossingsOptions controls the crossings command.
type CrossingsOptions struct {
	Start    string // RFC 3339 window start; empty = now
	Duration string // Go duration string; empty = daemon default
	Polygon  string // WKT or GeoJSON region; empty = whole transit windows
	JSON     bool
}

// Crossings asks the daemon when each selected pass enters and leaves
// the region of interest.
func Crossings(baseURL string, opts CrossingsOptions) error {
	req := map[string]string{}
	if opts.Start != "" {
		req["start"] = opts.Start
	}
	if opts.Duration != "" {
		req["duration"] = opts.Duration
	}
	if opts.Polygon != "" {
		req["polygon"] = opts.Polygon
	}

	var resp struct {
		Start     string `json:"start"`
		Duration  string `json:"duration"`
		Count     int    `json:"count"`
		Crossings []struct {
			PassNumber int    `json:"pass_number"`
			EntryTime  string `json:"entry_time"`
			ExitTime   string `json:"exit_time"`
		} `json:"crossings"`
	}
	if err := postJSON(baseURL, "/api/crossings", req, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  REGION CROSSINGS"))
	fmt.Printf("  %s %s + %s\n",
		colorize(dim, "Window:"),
		formatUTCTime(resp.Start),
		resp.Duration,
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 58)))

	if len(resp.Crossings) == 0 {
		fmt.Println(colorize(dim, "  No crossings in window."))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-6s %-21s %-21s %s\n",
		colorize(dim, "Pass"),
		colorize(dim, "Entry"),
		colorize(dim, "Exit"),
		colorize(dim, "Dwell"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 58)))

	for _, c := range resp.Crossings {
		dwell := ""
		if entry, err := time.Parse(time.RFC3339, c.EntryTime); err == nil {
			if exit, err := time.Parse(time.RFC3339, c.ExitTime); err == nil {
				dwell = formatDuration(exit.Sub(entry))
			}
		}
		fmt.Printf("  %-6s %-21s %-21s %s\n",
			colorize(bold, fmt.Sprintf("%d", c.PassNumber)),
			formatUTCTime(c.EntryTime),
			formatUTCTime(c.ExitTime),
			colorize(dim, dwell),
		)
	}
	fmt.Println()

	return nil
}
