package ctl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// SwathsOptions controls the swaths command output.
type SwathsOptions struct {
	Passes string // comma-separated pass numbers
	WKT    bool   // request WKT rings instead of GeoJSON
	JSON   bool
}

// Swaths fetches the left and right swath footprints for the given
// passes and prints them. GeoJSON output is always raw; the formatted
// view summarizes vertex counts per ring.
func Swaths(baseURL string, opts SwathsOptions) error {
	if opts.Passes == "" {
		return fmt.Errorf("at least one pass number is required")
	}

	params := url.Values{}
	params.Set("passes", opts.Passes)
	if opts.WKT {
		params.Set("format", "wkt")
	}

	var resp struct {
		Count  int `json:"count"`
		Swaths []struct {
			Pass  int             `json:"pass"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		} `json:"swaths"`
	}
	if err := getJSON(baseURL, "/api/swaths?"+params.Encode(), &resp); err != nil {
		return err
	}

	if opts.JSON || opts.WKT {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  SWATH FOOTPRINTS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 44)))

	if len(resp.Swaths) == 0 {
		fmt.Println(colorize(dim, "  No swath data for the requested passes."))
		fmt.Println()
		return nil
	}

	for _, s := range resp.Swaths {
		fmt.Printf("  %s %-6d %s %-4d %s %d\n",
			colorize(dim, "pass"),
			s.Pass,
			colorize(dim, "left vertices:"),
			ringVertexCount(s.Left),
			colorize(dim, "right vertices:"),
			ringVertexCount(s.Right),
		)
	}
	fmt.Println()
	fmt.Println(colorize(dim, "  Use --json for full GeoJSON output."))
	fmt.Println()

	return nil
}

// ringVertexCount counts the outer-ring vertices of a GeoJSON polygon.
func ringVertexCount(raw json.RawMessage) int {
	var g struct {
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &g); err != nil || len(g.Coordinates) == 0 {
		return 0
	}
	return len(g.Coordinates[0])
}
