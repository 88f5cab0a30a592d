package ctl

import (
	"fmt"
	"strings"
)

// Mission shows the mission reference data the daemon is serving.
func Mission(baseURL string, jsonOutput bool) error {
	var m struct {
		Name            string `json:"name"`
		PassesPerCycle  int    `json:"passes_per_cycle"`
		CycleDuration   string `json:"cycle_duration"`
		KnownCycles     int    `json:"known_cycles"`
		FirstCycle      int    `json:"first_cycle"`
		FirstCycleStart string `json:"first_cycle_start"`
		LastCycle       int    `json:"last_cycle"`
		LastCycleStart  string `json:"last_cycle_start"`
	}
	if err := getJSON(baseURL, "/api/mission", &m); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(m)
	}

	fmt.Println()
	fmt.Println(header("  MISSION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 44)))
	fmt.Printf("  %-18s %s\n", colorize(dim, "Name:"), colorize(bold, m.Name))
	fmt.Printf("  %-18s %d\n", colorize(dim, "Passes / cycle:"), m.PassesPerCycle)
	fmt.Printf("  %-18s %s\n", colorize(dim, "Cycle duration:"), m.CycleDuration)
	fmt.Printf("  %-18s %d\n", colorize(dim, "Known cycles:"), m.KnownCycles)
	if m.KnownCycles > 0 {
		fmt.Printf("  %-18s %d  %s\n", colorize(dim, "First cycle:"), m.FirstCycle, colorize(dim, formatUTCTime(m.FirstCycleStart)))
		fmt.Printf("  %-18s %d  %s\n", colorize(dim, "Last cycle:"), m.LastCycle, colorize(dim, formatUTCTime(m.LastCycleStart)))
	}
	fmt.Println()

	return nil
}
