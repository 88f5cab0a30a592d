// Package seed synthesizes an orbit ephemeris from a TLE when the daemon
// has no bundled orbit database: it propagates the satellite over one
// repeat cycle, splits the ground track into half-orbit passes at the
// latitude turning points, and derives left/right swath footprints by
// cross-track offset. The result is an in-memory store the search
// operations run against unchanged.
package seed

import (
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akhenakh/sgp4"
)

//go:embed swot_tle.txt
var embeddedTLE string

const tleCacheFile = "mission_tle.txt"

// TLESource fetches and caches the mission's Two-Line Element set. It
// uses a tiered fallback strategy: fresh disk cache, network fetch,
// stale disk cache, and finally embedded data baked into the binary.
type TLESource struct {
	url      string
	dataRoot string
	noradID  int
	maxAge   time.Duration
}

// NewTLESource returns a source that fetches the TLE for the given NORAD
// catalog number from tleURL and caches it under dataRoot.
func NewTLESource(tleURL, dataRoot string, noradID, refreshHours int) *TLESource {
	return &TLESource{
		url:      tleURL,
		dataRoot: dataRoot,
		noradID:  noradID,
		maxAge:   time.Duration(refreshHours) * time.Hour,
	}
}

// Fetch returns the mission TLE's two element lines. The raw text is
// validated through the SGP4 parser and matched against the configured
// NORAD catalog number before it is accepted.
func (s *TLESource) Fetch() (line1, line2 string, err error) {
	cachePath := filepath.Join(s.dataRoot, tleCacheFile)

	raw, err := s.loadOrFetch(cachePath)
	if err != nil {
		return "", "", err
	}
	return s.extract(raw)
}

// loadOrFetch walks the four-tier fallback chain to get raw TLE text:
// fresh cache -> network -> stale cache -> embedded data.
func (s *TLESource) loadOrFetch(cachePath string) (string, error) {
	// Tier 1: fresh disk cache
	info, err := os.Stat(cachePath)
	if err == nil && time.Since(info.ModTime()) < s.maxAge {
		if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
			return string(b), nil
		}
	}

	// Tier 2: network fetch
	body, fetchErr := s.fetchFromNetwork()
	if fetchErr == nil {
		// Cache write failure is non-fatal; we already have the data in memory.
		_ = s.writeCache(cachePath, body)
		return body, nil
	}

	// Tier 3: stale disk cache
	if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
		return string(b), nil
	}

	// Tier 4: embedded fallback baked into the binary
	if embeddedTLE != "" {
		return embeddedTLE, nil
	}

	return "", fmt.Errorf("all TLE sources exhausted: %w", fetchErr)
}

func (s *TLESource) fetchFromNetwork() (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(s.url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("TLE fetch returned HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeCache atomically writes data to cachePath via a temp file and
// rename so readers never see a half-written file.
func (s *TLESource) writeCache(cachePath, data string) error {
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "tle-*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), cachePath)
}

// extract pulls the configured satellite out of a TLE text dump. Input
// may be a bare 2-line set, a named 3-line set, or a bulk dump of
// several; each candidate is run through the SGP4 parser and matched by
// catalog number.
func (s *TLESource) extract(raw string) (string, string, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	for i := 0; i+1 < len(lines); i++ {
		if !strings.HasPrefix(lines[i], "1 ") || !strings.HasPrefix(lines[i+1], "2 ") {
			continue
		}
		name := "UNKNOWN"
		if i > 0 && !strings.HasPrefix(lines[i-1], "1 ") && !strings.HasPrefix(lines[i-1], "2 ") {
			name = lines[i-1]
		}
		group := name + "\n" + lines[i] + "\n" + lines[i+1]

		tle, err := sgp4.ParseTLE(group)
		if err != nil {
			continue
		}
		if tle.SatelliteNumber == s.noradID {
			return lines[i], lines[i+1], nil
		}
	}
	return "", "", fmt.Errorf("no TLE for NORAD %d in %d lines of input", s.noradID, len(lines))
}
