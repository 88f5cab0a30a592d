// Package export renders selection and crossing tables as delimited text
// for downstream tooling. Timestamps are RFC 3339 UTC; the first row is
// always the header.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/perigee-labs/swathfinder/internal/orbit"
)

// WriteSelectionCSV writes a selection table as CSV.
// Columns: cycle_number, pass_number, first_measurement, last_measurement.
func WriteSelectionCSV(w io.Writer, table orbit.SelectionTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"cycle_number", "pass_number", "first_measurement", "last_measurement"}); err != nil {
		return err
	}
	for _, row := range table {
		rec := []string{
			strconv.Itoa(row.CycleNumber),
			strconv.Itoa(row.PassNumber),
			row.FirstMeasurement.UTC().Format(time.RFC3339),
			row.LastMeasurement.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCrossingsCSV writes crossing intervals as CSV.
// Columns: pass_number, entry_time, exit_time.
func WriteCrossingsCSV(w io.Writer, intervals []orbit.CrossingInterval) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pass_number", "entry_time", "exit_time"}); err != nil {
		return err
	}
	for _, iv := range intervals {
		rec := []string{
			strconv.Itoa(iv.PassNumber),
			iv.Entry.UTC().Format(time.RFC3339),
			iv.Exit.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
