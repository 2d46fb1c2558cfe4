/*
Package view builds the portal's pages.

Builders are pure: they take cache snapshots, filter state and a single "now" and return
page models, so the same inputs always give the same page. Renderer turns a page model
into HTML with the embedded templates.
*/
package view

import (
	"fmt"
	"html/template"
	"net/url"
	"time"

	"buzzportal/internal/app/model"
	"buzzportal/internal/app/ticket"
	"buzzportal/internal/app/user"
)

const (
	EmptyEvents        = "No events found"
	EmptyRegistrations = "No registrations yet"
	EmptyAnnouncements = "No announcements yet"
	EmptyDiscussions   = "No comments yet"
	EmptyParticipants  = "No registrations for this event yet."

	studentRegistrationLimit = 5
	studentAnnouncementLimit = 3
	adminAnnouncementLimit   = 5
)

// AnnouncementItem is one rendered announcement.
type AnnouncementItem struct {
	ID    string
	Title string
	Body  template.HTML
	Ago   string
}

// DiscussionItem is one rendered discussion message.
type DiscussionItem struct {
	ID       string
	UserName string
	Message  string
	Ago      string
}

// RegistrationItem is one entry of "My registrations".
type RegistrationItem struct {
	ID         string
	EventTitle string
	DateLabel  string
	Time       string
}

func announcementItems(items []model.Announcement, limit int, now time.Time) []AnnouncementItem {
	out := []AnnouncementItem{}
	for i, a := range items {
		if i == limit {
			break
		}
		out = append(out, AnnouncementItem{ID: a.ID, Title: a.Title, Body: Markdown(a.Body), Ago: timestampAgo(a.CreatedAt, now)})
	}
	return out
}

func discussionItems(items []model.DiscussionMessage, now time.Time) []DiscussionItem {
	out := []DiscussionItem{}
	for _, d := range items {
		out = append(out, DiscussionItem{ID: d.ID, UserName: d.UserName, Message: d.Message, Ago: timestampAgo(d.CreatedAt, now)})
	}
	return out
}

// LandingPage is the public home page.
type LandingPage struct {
	SignedIn     bool
	DashboardURL string
}

// Landing builds the home page. A signed-in visitor gets a dashboard link instead of sign-in links.
func Landing(signedIn bool, dashboardURL string) LandingPage {
	if !signedIn {
		return LandingPage{}
	}
	return LandingPage{SignedIn: true, DashboardURL: dashboardURL}
}

// LoginPage is the sign-in form.
type LoginPage struct {
	Email string
	Role  user.Role
}

// Login builds the sign-in form, keeping the entered email and selected role.
func Login(email string, role user.Role) LoginPage {
	if !role.Valid() {
		role = user.RoleStudent
	}
	return LoginPage{Email: email, Role: role}
}

// SignupPage is the account creation form.
type SignupPage struct {
	Name  string
	Email string
	Role  user.Role
}

// Signup builds the signup form, keeping the entered name, email and role.
func Signup(name, email string, role user.Role) SignupPage {
	if !role.Valid() {
		role = user.RoleStudent
	}
	return SignupPage{Name: name, Email: email, Role: role}
}

// StudentInput is everything the student dashboard shows.
type StudentInput struct {
	User          user.Identity
	Events        []model.Event
	Registrations []model.Registration
	Announcements []model.Announcement
	Discussions   []model.DiscussionMessage

	Search   string
	Category string
	Sort     string

	// Ticket is the registration whose ticket modal is open, if any.
	Ticket string

	Now time.Time
}

// StudentStats are the dashboard counters.
type StudentStats struct {
	Registered int
	Upcoming   int
}

// TicketModal describes an open ticket dialog.
type TicketModal struct {
	RegistrationID string
	Title          string
	Info           string
	ImageURL       string
	FileName       string
}

// StudentPage is the student dashboard.
type StudentPage struct {
	User      user.Identity
	FirstName string

	Search     string
	Category   string
	Sort       string
	Categories []string

	Events            []EventCard
	MyRegistrations   []RegistrationItem
	RegistrationBadge int
	Announcements     []AnnouncementItem
	Discussions       []DiscussionItem
	Stats             StudentStats
	Ticket            *TicketModal
}

// StudentDashboard builds the student dashboard.
func StudentDashboard(in StudentInput) StudentPage {
	page := StudentPage{
		User:       in.User,
		FirstName:  in.User.FirstName(),
		Search:     in.Search,
		Category:   in.Category,
		Sort:       in.Sort,
		Categories: model.Categories,

		Events:            eventCards(in.Events, Search(in.Search), in.Now, registeredSet(in.Registrations), nil),
		MyRegistrations:   []RegistrationItem{},
		RegistrationBadge: len(in.Registrations),
		Announcements:     announcementItems(in.Announcements, studentAnnouncementLimit, in.Now),
		Discussions:       discussionItems(in.Discussions, in.Now),
		Stats:             StudentStats{Registered: len(in.Registrations)},
	}

	for i, reg := range in.Registrations {
		event, ok := findEvent(in.Events, reg.EventID)
		if !ok {
			continue
		}
		if date, ok := event.Day(); ok && date.After(in.Now) {
			page.Stats.Upcoming++
		}
		if i < studentRegistrationLimit {
			page.MyRegistrations = append(page.MyRegistrations, RegistrationItem{
				ID:         reg.ID,
				EventTitle: event.Title,
				DateLabel:  FormatDate(event.Date),
				Time:       event.Time,
			})
		}
	}

	if in.Ticket != "" {
		if modal, ok := Ticket(in.Ticket, in.Registrations, in.Events); ok {
			page.Ticket = &modal
		}
	}
	return page
}

// Ticket builds the ticket dialog for a cached registration whose event is cached too.
func Ticket(registrationID string, regs []model.Registration, events []model.Event) (TicketModal, bool) {
	for _, reg := range regs {
		if reg.ID != registrationID {
			continue
		}
		event, ok := findEvent(events, reg.EventID)
		if !ok {
			return TicketModal{}, false
		}
		return TicketModal{
			RegistrationID: reg.ID,
			Title:          event.Title + " - QR Ticket",
			Info:           fmt.Sprintf("%s • %s • %s", FormatDate(event.Date), event.Time, event.Venue),
			ImageURL:       "/student/tickets/" + url.PathEscape(reg.ID),
			FileName:       ticket.FileName(event.Title),
		}, true
	}
	return TicketModal{}, false
}

// AdminInput is everything the admin dashboard shows.
type AdminInput struct {
	User          user.Identity
	Events        []model.Event
	Registrations []model.Registration
	Announcements []model.Announcement
	Discussions   []model.DiscussionMessage
	Students      []user.Identity

	// Filter is "all", "upcoming" or "past".
	Filter string

	// Form is the open event form, if any.
	Form *EventFormPage

	// Participants is the open participants list, if any.
	Participants *ParticipantsPage

	// Confirm is the pending confirmation, if any.
	Confirm *Confirmation

	Now time.Time
}

// AdminStats are the dashboard counters.
type AdminStats struct {
	TotalEvents        int
	TotalRegistrations int
	TotalStudents      int
	UpcomingWeek       int
}

// AdminPage is the staff dashboard.
type AdminPage struct {
	User          user.Identity
	Filter        string
	Events        []EventCard
	Announcements []AnnouncementItem
	Discussions   []DiscussionItem
	Stats         AdminStats
	Form          *EventFormPage
	Participants  *ParticipantsPage
	Confirm       *Confirmation
}

// AdminDashboard builds the staff dashboard.
func AdminDashboard(in AdminInput) AdminPage {
	filter := in.Filter
	if filter != "upcoming" && filter != "past" {
		filter = "all"
	}

	page := AdminPage{
		User:          in.User,
		Filter:        filter,
		Events:        eventCards(in.Events, AdminFilter(filter, in.Now), in.Now, nil, registrationCounts(in.Registrations)),
		Announcements: announcementItems(in.Announcements, adminAnnouncementLimit, in.Now),
		Discussions:   discussionItems(in.Discussions, in.Now),
		Stats: AdminStats{
			TotalEvents:        len(in.Events),
			TotalRegistrations: len(in.Registrations),
			TotalStudents:      len(in.Students),
		},
		Form:         in.Form,
		Participants: in.Participants,
		Confirm:      in.Confirm,
	}

	weekAhead := in.Now.Add(7 * day)
	for _, e := range in.Events {
		if date, ok := e.Day(); ok && !date.Before(in.Now) && !date.After(weekAhead) {
			page.Stats.UpcomingWeek++
		}
	}
	return page
}

// EventFormPage is the create/edit event form.
type EventFormPage struct {
	Editing     bool
	ID          string
	Values      model.EventInput
	Categories  []string
	Action      string
	SubmitLabel string
}

// NewEventForm builds an empty create form.
func NewEventForm() EventFormPage {
	return EventFormPage{
		Values:      model.EventInput{Category: model.Categories[0]},
		Categories:  model.Categories,
		Action:      "/admin/events",
		SubmitLabel: "Create Event",
	}
}

// EditEventForm builds an edit form populated from a cached event.
func EditEventForm(e model.Event) EventFormPage {
	return EventFormPage{
		Editing:     true,
		ID:          e.ID,
		Values:      model.InputFrom(e),
		Categories:  model.Categories,
		Action:      "/admin/events/" + url.PathEscape(e.ID),
		SubmitLabel: "Update Event",
	}
}

// ParticipantsPage lists the registrations of one event.
type ParticipantsPage struct {
	EventID    string
	EventTitle string
	Lines      []string
	Empty      string
}

// Participants lists "name (email)" for every cached registration of the event.
func Participants(event model.Event, regs []model.Registration) ParticipantsPage {
	page := ParticipantsPage{EventID: event.ID, EventTitle: event.Title, Lines: []string{}}
	for _, r := range regs {
		if r.EventID == event.ID {
			page.Lines = append(page.Lines, fmt.Sprintf("%s (%s)", r.UserName, r.UserEmail))
		}
	}
	if len(page.Lines) == 0 {
		page.Empty = EmptyParticipants
	}
	return page
}

// Confirmation is a pending destructive action awaiting the user's go-ahead.
type Confirmation struct {
	Prompt string
	Action string
}

// ConfirmDeleteEvent asks before deleting an event.
func ConfirmDeleteEvent(id string) *Confirmation {
	return &Confirmation{Prompt: "Are you sure you want to delete this event?", Action: "/admin/events/" + url.PathEscape(id) + "/delete"}
}

// ConfirmDeleteAnnouncement asks before deleting an announcement.
func ConfirmDeleteAnnouncement(id string) *Confirmation {
	return &Confirmation{Prompt: "Delete this announcement?", Action: "/admin/announcements/" + url.PathEscape(id) + "/delete"}
}

// ConfirmDeleteDiscussion asks before deleting a discussion message.
func ConfirmDeleteDiscussion(id string) *Confirmation {
	return &Confirmation{Prompt: "Delete this comment?", Action: "/admin/discussions/" + url.PathEscape(id) + "/delete"}
}
