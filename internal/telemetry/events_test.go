package telemetry

import (
	"encoding/json"
	"testing"
	"time"
)

// The watch client decodes events by their JSON key names, so the struct
// tags are a wire contract.
func TestEventWireKeys(t *testing.T) {
	marshal := func(v any) map[string]any {
		t.Helper()
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return m
	}

	st := marshal(StateTransition{
		Event: Event{Type: EventState, TS: NowTS(), Component: "swathd"},
		From:  "IDLE",
		To:    "SEARCHING",
	})
	for _, key := range []string{"type", "ts", "component", "from", "to"} {
		if _, ok := st[key]; !ok {
			t.Errorf("state event missing %q: %v", key, st)
		}
	}
	if st["type"] != "state" {
		t.Errorf("type = %v, want state", st["type"])
	}

	hb := marshal(Heartbeat{
		Event:         Event{Type: EventHeartbeat, TS: NowTS()},
		State:         "IDLE",
		UptimeSeconds: 42,
	})
	for _, key := range []string{"type", "ts", "state", "uptime_seconds"} {
		if _, ok := hb[key]; !ok {
			t.Errorf("heartbeat missing %q: %v", key, hb)
		}
	}
	if _, ok := hb["component"]; ok {
		t.Errorf("heartbeat carries component, want omitted: %v", hb)
	}

	sm := marshal(SearchSummary{
		Event:     Event{Type: EventSearch, TS: NowTS(), Component: "swathd"},
		Start:     "2026-03-01T00:00:00Z",
		Duration:  "72h0m0s",
		HasRegion: true,
		PassCount: 7,
		ElapsedMs: 12,
	})
	for _, key := range []string{"type", "ts", "start", "duration", "has_region", "pass_count", "elapsed_ms"} {
		if _, ok := sm[key]; !ok {
			t.Errorf("search summary missing %q: %v", key, sm)
		}
	}

	ll := marshal(LogLine{
		Event:   Event{Type: EventLog, TS: NowTS(), Component: "swathd"},
		Level:   "info",
		Message: "config reloaded",
	})
	for _, key := range []string{"type", "ts", "component", "level", "message"} {
		if _, ok := ll[key]; !ok {
			t.Errorf("log line missing %q: %v", key, ll)
		}
	}
}

func TestNowTSFormat(t *testing.T) {
	if _, err := time.Parse(time.RFC3339Nano, NowTS()); err != nil {
		t.Errorf("NowTS not RFC 3339 nano: %v", err)
	}
}
