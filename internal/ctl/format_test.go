package ctl

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{5 * time.Minute, "5m 0s"},
		{2*time.Hour + 14*time.Minute + 8*time.Second, "2h 14m 8s"},
		{26 * time.Hour, "26h 0m 0s"},
		{0, "0s"},
	}
	for _, c := range cases {
		if got := formatDuration(c.in); got != c.want {
			t.Errorf("formatDuration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	// Strings at or over width pass through.
	if got := padRight("abcdef", 5); got != "abcdef" {
		t.Errorf("padRight = %q", got)
	}
}

func TestFormatUTCTime(t *testing.T) {
	if got := formatUTCTime("2026-03-01T12:30:00Z"); got != "2026-03-01 12:30:00" {
		t.Errorf("formatUTCTime = %q", got)
	}
	// Unparseable input passes through untouched.
	if got := formatUTCTime("not-a-time"); got != "not-a-time" {
		t.Errorf("formatUTCTime = %q", got)
	}
}
