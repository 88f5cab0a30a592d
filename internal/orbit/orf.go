package orbit

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadORF reads an orbit revolution file: a JSON object mapping cycle
// numbers to the UTC time of the cycle's first measurement, e.g.
//
//	{"1": "2023-07-21T05:33:48Z", "2": "2023-08-11T02:22:17Z"}
//
// Timestamps are RFC 3339. The result feeds the cycle axis, optionally
// overriding the cycle table bundled in the orbit database.
func LoadORF(path string) (map[int]time.Time, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrDataUnavailable, path, err)
	}

	out := make(map[int]time.Time, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad cycle number %q in %s", ErrDataUnavailable, k, path)
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("%w: cycle %d: %v", ErrDataUnavailable, n, err)
		}
		out[n] = t.UTC()
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s holds no cycles", ErrDataUnavailable, path)
	}
	return out, nil
}

// WithCycles returns a store whose cycle table is replaced by the given
// map. Everything else is delegated to the underlying store.
func WithCycles(s Store, cycles map[int]time.Time) Store {
	return &cycleOverride{Store: s, cycles: cycles}
}

type cycleOverride struct {
	Store
	cycles map[int]time.Time
}

func (c *cycleOverride) Cycles() (map[int]time.Time, error) {
	out := make(map[int]time.Time, len(c.cycles))
	for k, v := range c.cycles {
		out[k] = v
	}
	return out, nil
}
