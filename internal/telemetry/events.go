// Package telemetry defines the typed events that flow over the
// WebSocket connection between swathd and its clients: heartbeats, state
// transitions, log lines, and search summaries. The daemon broadcasts
// these structs directly; swathctl's watch command decodes the same
// schema on the other end.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat EventType = "heartbeat"
	EventState     EventType = "state"
	EventLog       EventType = "log"
	EventSearch    EventType = "search"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type      EventType `json:"type"`
	TS        string    `json:"ts"`
	Component string    `json:"component,omitempty"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching
// the timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// StateTransition is emitted whenever the daemon moves between operating
// states (e.g. SEEDING -> IDLE).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SearchSummary reports a completed pass search: the request window, the
// region filter if any, and how many rows came back.
type SearchSummary struct {
	Event
	Start      string `json:"start"`
	Duration   string `json:"duration"`
	HasRegion  bool   `json:"has_region"`
	PassCount  int    `json:"pass_count"`
	ElapsedMs  int64  `json:"elapsed_ms"`
	RemoteAddr string `json:"remote_addr,omitempty"`
}
