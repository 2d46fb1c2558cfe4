package view

import (
	"html/template"
	"time"

	"buzzportal/internal/app/model"
)

// EventFilter selects events for display.
type EventFilter func(e model.Event) bool

// All keeps every event.
func All(model.Event) bool { return true }

// Search keeps events matching query.
func Search(query string) EventFilter {
	return func(e model.Event) bool { return MatchesSearch(e, query) }
}

// Upcoming keeps events dated at or after now.
func Upcoming(now time.Time) EventFilter {
	return func(e model.Event) bool {
		date, ok := e.Day()
		return ok && !date.Before(now)
	}
}

// Past keeps events dated before now.
func Past(now time.Time) EventFilter {
	return func(e model.Event) bool {
		date, ok := e.Day()
		return ok && date.Before(now)
	}
}

// AdminFilter maps the admin list selector to a filter. Unknown values show all.
func AdminFilter(name string, now time.Time) EventFilter {
	switch name {
	case "upcoming":
		return Upcoming(now)
	case "past":
		return Past(now)
	default:
		return All
	}
}

// EventCard is one rendered event.
type EventCard struct {
	ID          string
	Title       string
	Category    string
	Venue       string
	DateLabel   string
	Time        string
	Image       string
	Description template.HTML
	DaysAway    int

	// Registered is set on the student view when the user holds a registration.
	Registered bool

	// Registrations counts registrations on the admin view.
	Registrations int
}

// eventCards renders the events kept by filter, in the given order.
// registered marks event ids the user is registered for; counts holds per-event totals.
func eventCards(events []model.Event, filter EventFilter, now time.Time, registered map[string]bool, counts map[string]int) []EventCard {
	cards := []EventCard{}
	for _, e := range events {
		if !filter(e) {
			continue
		}
		cards = append(cards, EventCard{
			ID:            e.ID,
			Title:         e.Title,
			Category:      e.Category,
			Venue:         e.Venue,
			DateLabel:     FormatDate(e.Date),
			Time:          e.Time,
			Image:         e.Image,
			Description:   Markdown(e.Description),
			DaysAway:      EventDaysUntil(e, now),
			Registered:    registered[e.ID],
			Registrations: counts[e.ID],
		})
	}
	return cards
}

// registeredSet returns the event ids present in regs.
func registeredSet(regs []model.Registration) map[string]bool {
	set := make(map[string]bool, len(regs))
	for _, r := range regs {
		set[r.EventID] = true
	}
	return set
}

// registrationCounts returns the number of registrations per event id.
func registrationCounts(regs []model.Registration) map[string]int {
	counts := make(map[string]int)
	for _, r := range regs {
		counts[r.EventID]++
	}
	return counts
}

// findEvent returns the event with the given id.
func findEvent(events []model.Event, id string) (model.Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}
