// Package model defines the records exchanged with the remote events service.
//
// Records are snapshots: the portal never patches one in place. Every type accepts
// the identifier under either "id" or "_id".
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultEventImage is the cover used when an event is created without one.
const DefaultEventImage = "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=800&q=80"

// Categories lists the event categories offered by the filters and the event form.
var Categories = []string{"technical", "cultural", "sports", "workshop", "seminar"}

// Event is a campus event published by staff.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	aux := struct {
		*alias
		DocID string `json:"_id"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = aux.DocID
	}
	return nil
}

// Day parses the event date. Date-only values are midnight UTC.
func (e Event) Day() (time.Time, bool) {
	return ParseTimestamp(e.Date)
}

// DateOnly returns the YYYY-MM-DD part of the date, as used by date inputs.
func (e Event) DateOnly() string {
	date, _, _ := strings.Cut(e.Date, "T")
	return date
}

// Registration links a user to an event.
type Registration struct {
	ID        string `json:"id"`
	EventID   string `json:"eventId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

func (r *Registration) UnmarshalJSON(data []byte) error {
	type alias Registration
	aux := struct {
		*alias
		DocID string `json:"_id"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = aux.DocID
	}
	return nil
}

// Announcement is a staff broadcast to all students.
type Announcement struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

func (a *Announcement) UnmarshalJSON(data []byte) error {
	type alias Announcement
	aux := struct {
		*alias
		DocID string `json:"_id"`
	}{alias: (*alias)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = aux.DocID
	}
	return nil
}

// DiscussionMessage is one entry of the discussion feed.
type DiscussionMessage struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

func (d *DiscussionMessage) UnmarshalJSON(data []byte) error {
	type alias DiscussionMessage
	aux := struct {
		*alias
		DocID string `json:"_id"`
	}{alias: (*alias)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = aux.DocID
	}
	return nil
}

// EventInput is the body of event create and update calls.
type EventInput struct {
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Missing reports whether a required field is empty. Category and image are optional.
func (in EventInput) Missing() bool {
	return in.Title == "" || in.Venue == "" || in.Date == "" || in.Time == "" || in.Description == ""
}

// Trimmed returns a copy with surrounding whitespace removed from every text field.
func (in EventInput) Trimmed() EventInput {
	return EventInput{
		Title:       strings.TrimSpace(in.Title),
		Venue:       strings.TrimSpace(in.Venue),
		Date:        strings.TrimSpace(in.Date),
		Time:        strings.TrimSpace(in.Time),
		Category:    strings.TrimSpace(in.Category),
		Image:       strings.TrimSpace(in.Image),
		Description: strings.TrimSpace(in.Description),
	}
}

// InputFrom returns the editable fields of e.
func InputFrom(e Event) EventInput {
	return EventInput{
		Title:       e.Title,
		Venue:       e.Venue,
		Date:        e.DateOnly(),
		Time:        e.Time,
		Category:    e.Category,
		Image:       e.Image,
		Description: e.Description,
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 forms the remote service emits.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
