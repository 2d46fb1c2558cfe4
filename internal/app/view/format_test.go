package view

import (
	"strings"
	"testing"
	"time"

	"buzzportal/internal/app/model"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestDaysUntil(t *testing.T) {
	today := model.Event{Date: "2026-03-10"}
	if got := EventDaysUntil(today, fixedNow); got != 0 {
		t.Fatalf("expected 0 for today, got %d", got)
	}
	if got := EventDaysUntil(model.Event{Date: "2025-12-24"}, fixedNow); got != 0 {
		t.Fatalf("expected 0 for a past event, got %d", got)
	}
	if got := EventDaysUntil(model.Event{Date: "not a date"}, fixedNow); got != 0 {
		t.Fatalf("expected 0 for an unparseable date, got %d", got)
	}

	previous := 0
	for offset := 1; offset <= 30; offset++ {
		date := time.Date(2026, 3, 10+offset, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		got := EventDaysUntil(model.Event{Date: date}, fixedNow)
		if got != previous+1 {
			t.Fatalf("day +%d: expected %d, got %d", offset, previous+1, got)
		}
		previous = got
	}
}

func TestDaysUntilRoundsUp(t *testing.T) {
	if got := DaysUntil(fixedNow.Add(time.Minute), fixedNow); got != 1 {
		t.Fatalf("expected a minute ahead to round up to 1, got %d", got)
	}
	if got := DaysUntil(fixedNow.Add(48*time.Hour), fixedNow); got != 2 {
		t.Fatalf("expected exactly two days to be 2, got %d", got)
	}
}

func TestTimeAgoBoundaries(t *testing.T) {
	cases := map[int]string{
		0:      "0s ago",
		59:     "59s ago",
		60:     "1m ago",
		3599:   "59m ago",
		3600:   "1h ago",
		86399:  "23h ago",
		86400:  "1d ago",
		172799: "1d ago",
		172800: "2d ago",
	}
	for seconds, want := range cases {
		then := fixedNow.Add(-time.Duration(seconds) * time.Second)
		if got := TimeAgo(then, fixedNow); got != want {
			t.Fatalf("%ds: expected %q, got %q", seconds, want, got)
		}
	}
}

func TestTimeAgoFutureClampsToZero(t *testing.T) {
	if got := TimeAgo(fixedNow.Add(time.Hour), fixedNow); got != "0s ago" {
		t.Fatalf("expected future timestamps to read 0s ago, got %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"2026-03-10":               "Mar 10, 2026",
		"2026-11-02T00:00:00.000Z": "Nov 2, 2026",
		"garbage":                  "garbage",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Fatalf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatchesSearch(t *testing.T) {
	e := model.Event{Title: "Robotics Expo", Description: "Bots and drones", Venue: "Main Auditorium"}

	for _, q := range []string{"", "robot", "DRONES", "auditorium", "expo", "s and d"} {
		if !MatchesSearch(e, q) {
			t.Fatalf("expected %q to match", q)
		}
	}
	for _, q := range []string{"cricket", "expo ", " robotics"} {
		if MatchesSearch(e, q) {
			t.Fatalf("expected %q not to match", q)
		}
	}
	if MatchesSearch(model.Event{Category: "sports"}, "sports") {
		t.Fatalf("expected category not to be searched")
	}
}

func TestMarkdownOmitsRawHTML(t *testing.T) {
	out := string(Markdown("**Bring** your ID\n<script>alert(1)</script>"))
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected raw HTML to be dropped, got %s", out)
	}
	if !strings.Contains(out, "<strong>Bring</strong>") {
		t.Fatalf("expected markdown emphasis, got %s", out)
	}
}
