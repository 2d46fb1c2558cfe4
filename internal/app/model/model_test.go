package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEntitiesAcceptDocumentID(t *testing.T) {
	var events []Event
	body := `[{"_id":"e1","title":"Hackathon"},{"id":"e2","title":"Choir"}]`
	if err := json.Unmarshal([]byte(body), &events); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events[0].ID != "e1" || events[1].ID != "e2" {
		t.Fatalf("unexpected ids %q %q", events[0].ID, events[1].ID)
	}

	var reg Registration
	if err := json.Unmarshal([]byte(`{"_id":"r1","eventId":"e1"}`), &reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.ID != "r1" || reg.EventID != "e1" {
		t.Fatalf("unexpected registration %+v", reg)
	}

	var ann Announcement
	if err := json.Unmarshal([]byte(`{"_id":"a1","title":"Hi"}`), &ann); err != nil || ann.ID != "a1" {
		t.Fatalf("unexpected announcement %+v err=%v", ann, err)
	}

	var msg DiscussionMessage
	if err := json.Unmarshal([]byte(`{"_id":"d1","message":"hey"}`), &msg); err != nil || msg.ID != "d1" {
		t.Fatalf("unexpected message %+v err=%v", msg, err)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := map[string]time.Time{
		"2026-10-20":               time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		"2026-10-20T09:30:00Z":     time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC),
		"2026-10-20T09:30:00.000Z": time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC),
		"2026-10-20T09:30:00":      time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC),
	}
	for input, expect := range cases {
		got, ok := ParseTimestamp(input)
		if !ok || !got.Equal(expect) {
			t.Fatalf("ParseTimestamp(%q) = %v %v, expected %v", input, got, ok, expect)
		}
	}
	if _, ok := ParseTimestamp("next friday"); ok {
		t.Fatalf("expected free text to be rejected")
	}
}

func TestEventInputHelpers(t *testing.T) {
	in := EventInput{Title: " Hackathon ", Venue: "Hall", Date: "2026-10-20", Time: "10:00", Description: " code "}.Trimmed()
	if in.Title != "Hackathon" || in.Description != "code" {
		t.Fatalf("expected trimmed fields, got %+v", in)
	}
	if in.Missing() {
		t.Fatalf("expected all required fields present")
	}
	in.Venue = ""
	if !in.Missing() {
		t.Fatalf("expected missing venue to be reported")
	}

	edit := InputFrom(Event{Title: "Choir", Date: "2026-11-02T00:00:00.000Z"})
	if edit.Date != "2026-11-02" {
		t.Fatalf("expected date-only value, got %s", edit.Date)
	}
}
