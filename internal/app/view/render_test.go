package view

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"buzzportal/internal/app/session"
)

func render(t *testing.T, name string, layout Layout) string {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, name, layout); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return buf.String()
}

func TestRenderEveryPage(t *testing.T) {
	pages := map[string]any{
		PageLanding: Landing(true, "/student"),
		PageLogin:   Login("ada@college.edu", "student"),
		PageSignup:  Signup("Ada", "ada@college.edu", "student"),
		PageStudent: StudentDashboard(studentInput()),
		PageAdmin:   AdminDashboard(AdminInput{Events: sampleEvents(), Now: fixedNow, Form: func() *EventFormPage { f := NewEventForm(); return &f }()}),
	}

	for name, page := range pages {
		out := render(t, name, Layout{Title: "T", User: &student, CSRFField: template.HTML(`<input type="hidden" name="gorilla.csrf.Token" value="x">`), Page: page})
		if !strings.Contains(out, "</html>") {
			t.Fatalf("%s: expected a complete document", name)
		}
	}
}

func TestRenderShowsNoticesAndEscapes(t *testing.T) {
	in := studentInput()
	in.Events[0].Title = "<b>Hack</b>"

	out := render(t, PageStudent, Layout{
		Title:   "Dashboard",
		User:    &student,
		Notices: []session.Notice{session.Success("Registration successful!")},
		Page:    StudentDashboard(in),
	})

	if !strings.Contains(out, "Registration successful!") || !strings.Contains(out, "notice-success") {
		t.Fatalf("expected the notice to render")
	}
	if strings.Contains(out, "<b>Hack</b>") {
		t.Fatalf("expected the title to be escaped")
	}
}

func TestRenderAdminLinksEscapeIDs(t *testing.T) {
	events := sampleEvents()
	events[0].ID = "evt/../1"

	out := render(t, PageAdmin, Layout{User: &student, Page: AdminDashboard(AdminInput{Events: events, Now: fixedNow})})
	if !strings.Contains(out, `/admin/events/evt%2F..%2F1/edit`) {
		t.Fatalf("expected escaped event id in the edit link")
	}
	if strings.Contains(out, "/admin/events/evt/../1/") {
		t.Fatalf("expected no raw event id in links")
	}
}

func TestRenderEmptyStates(t *testing.T) {
	out := render(t, PageStudent, Layout{User: &student, Page: StudentDashboard(StudentInput{User: student, Now: fixedNow})})
	for _, text := range []string{EmptyEvents, EmptyRegistrations, EmptyAnnouncements, EmptyDiscussions} {
		if !strings.Contains(out, text) {
			t.Fatalf("expected empty state %q", text)
		}
	}
}

func TestRenderLandingNavigation(t *testing.T) {
	signedIn := render(t, PageLanding, Layout{Page: Landing(true, "/admin")})
	if !strings.Contains(signedIn, "Go to Dashboard") || !strings.Contains(signedIn, `href="/admin"`) {
		t.Fatalf("expected a dashboard link")
	}

	anonymous := render(t, PageLanding, Layout{Page: Landing(false, "")})
	if strings.Contains(anonymous, "Go to Dashboard") || !strings.Contains(anonymous, `href="/signup"`) {
		t.Fatalf("expected sign-in links")
	}
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Render(&bytes.Buffer{}, "missing.html", Layout{}); err == nil {
		t.Fatalf("expected an error for an unknown page")
	}
}
