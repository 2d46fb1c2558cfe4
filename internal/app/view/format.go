package view

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"buzzportal/internal/app/model"
)

const day = 24 * time.Hour

// DaysUntil is the ceiling of the whole days from now to date, never negative.
func DaysUntil(date, now time.Time) int {
	diff := date.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(float64(diff) / float64(day)))
}

// EventDaysUntil applies DaysUntil to an event date; unparseable dates count as 0.
func EventDaysUntil(e model.Event, now time.Time) int {
	date, ok := e.Day()
	if !ok {
		return 0
	}
	return DaysUntil(date, now)
}

// TimeAgo renders the elapsed time from then to now in the largest whole unit:
// seconds below a minute, minutes below an hour, hours below a day, then days.
func TimeAgo(then, now time.Time) string {
	seconds := int64(now.Sub(then) / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds ago", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	default:
		return fmt.Sprintf("%dd ago", seconds/86400)
	}
}

// timestampAgo applies TimeAgo to a service timestamp; unparseable values render empty.
func timestampAgo(raw string, now time.Time) string {
	then, ok := model.ParseTimestamp(raw)
	if !ok {
		return ""
	}
	return TimeAgo(then, now)
}

// FormatDate renders a service date as "Jan 2, 2006", or returns it unchanged if unparseable.
func FormatDate(raw string) string {
	t, ok := model.ParseTimestamp(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 2006")
}

// MatchesSearch reports whether query is a case-insensitive substring of the event's
// title, description or venue. Whitespace in the query is significant; an empty query
// matches everything.
func MatchesSearch(e model.Event, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		strings.Contains(strings.ToLower(e.Venue), q)
}

// markdown renders user text as HTML. Raw HTML in the input is omitted.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Markdown converts src to safe HTML, falling back to escaped text.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
