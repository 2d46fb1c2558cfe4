package apitest

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"buzzportal/internal/app/model"
	"buzzportal/internal/app/user"
)

// Wire shapes use "_id" like the production service.
type (
	wireUser struct {
		ID    string    `json:"_id"`
		Name  string    `json:"name"`
		Email string    `json:"email"`
		Role  user.Role `json:"role"`
	}
	wireEvent struct {
		ID string `json:"_id"`
		model.EventInput
	}
	wireRegistration struct {
		ID        string `json:"_id"`
		EventID   string `json:"eventId"`
		UserID    string `json:"userId"`
		UserName  string `json:"userName"`
		UserEmail string `json:"userEmail"`
	}
	wireAnnouncement struct {
		ID        string `json:"_id"`
		Title     string `json:"title"`
		Body      string `json:"body"`
		CreatedAt string `json:"createdAt"`
	}
	wireDiscussion struct {
		ID        string `json:"_id"`
		UserName  string `json:"userName"`
		Message   string `json:"message"`
		CreatedAt string `json:"createdAt"`
	}
)

func toWireUser(i user.Identity) wireUser {
	return wireUser{ID: i.ID, Name: i.Name, Email: i.Email, Role: i.Role}
}

func toWireEvent(e model.Event) wireEvent {
	return wireEvent{ID: e.ID, EventInput: model.InputFrom(e)}
}

func toWireRegistration(r model.Registration) wireRegistration {
	return wireRegistration(r)
}

func contextWithUser(r *http.Request, userID string) context.Context {
	return context.WithValue(r.Context(), userIDKey, userID)
}

// caller returns the identity behind the request's token. Callers hold mu.
func (s *Server) caller(r *http.Request) user.Identity {
	userID, _ := r.Context().Value(userIDKey).(string)
	for _, a := range s.accounts {
		if a.identity.ID == userID {
			return a.identity
		}
	}
	return user.Identity{}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string    `json:"email"`
		Password string    `json:"password"`
		Role     user.Role `json:"role"`
	}
	if !readJSON(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.identity.Email, in.Email) && a.password == in.Password {
			if in.Role != "" && a.identity.Role != in.Role {
				writeJSON(w, http.StatusForbidden, map[string]string{"message": "Account is not registered as " + string(in.Role)})
				return
			}
			token := uuid.NewString()
			s.tokens[token] = a.identity.ID
			writeJSON(w, http.StatusOK, map[string]any{"user": toWireUser(a.identity), "token": token})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string    `json:"name"`
		Email    string    `json:"email"`
		Password string    `json:"password"`
		Role     user.Role `json:"role"`
	}
	if !readJSON(r, &in) || in.Email == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.identity.Email, in.Email) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered"})
			return
		}
	}

	identity := user.Identity{ID: uuid.NewString(), Name: in.Name, Email: in.Email, Role: user.ParseRole(string(in.Role))}
	s.accounts = append(s.accounts, account{identity: identity, password: in.Password})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created"})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	sortBy := r.URL.Query().Get("sort")

	s.mu.Lock()
	events := slices.Clone(s.events)
	s.mu.Unlock()

	if category != "" && category != "all" {
		events = slices.DeleteFunc(events, func(e model.Event) bool { return e.Category != category })
	}
	switch sortBy {
	case "date":
		slices.SortStableFunc(events, func(a, b model.Event) int { return strings.Compare(a.Date, b.Date) })
	case "title":
		slices.SortStableFunc(events, func(a, b model.Event) int { return strings.Compare(a.Title, b.Title) })
	}

	out := make([]wireEvent, 0, len(events))
	for _, e := range events {
		out = append(out, toWireEvent(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in model.EventInput
	if !readJSON(r, &in) || in.Missing() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing event fields"})
		return
	}

	e := s.AddEvent(model.Event{
		Title: in.Title, Venue: in.Venue, Date: in.Date, Time: in.Time,
		Category: in.Category, Image: in.Image, Description: in.Description,
	})
	writeJSON(w, http.StatusCreated, toWireEvent(e))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in model.EventInput
	if !readJSON(r, &in) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.events {
		if e.ID == id {
			s.events[i] = model.Event{
				ID: id, Title: in.Title, Venue: in.Venue, Date: in.Date, Time: in.Time,
				Category: in.Category, Image: in.Image, Description: in.Description,
			}
			writeJSON(w, http.StatusOK, toWireEvent(s.events[i]))
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Event not found"})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.events)
	s.events = slices.DeleteFunc(s.events, func(e model.Event) bool { return e.ID == id })
	if len(s.events) == before {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Event not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}

func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]wireRegistration, 0, len(s.registrations))
	for _, reg := range s.registrations {
		out = append(out, toWireRegistration(reg))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	me := s.caller(r)
	out := []wireRegistration{}
	for _, reg := range s.registrations {
		if reg.UserID == me.ID {
			out = append(out, toWireRegistration(reg))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		EventID string `json:"eventId"`
	}
	if !readJSON(r, &in) || in.EventID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "eventId is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	me := s.caller(r)
	if !slices.ContainsFunc(s.events, func(e model.Event) bool { return e.ID == in.EventID }) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Event not found"})
		return
	}
	for _, reg := range s.registrations {
		if reg.UserID == me.ID && reg.EventID == in.EventID {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Already registered for this event"})
			return
		}
	}

	reg := model.Registration{
		ID: uuid.NewString(), EventID: in.EventID,
		UserID: me.ID, UserName: me.Name, UserEmail: me.Email,
	}
	s.registrations = append(s.registrations, reg)
	writeJSON(w, http.StatusCreated, toWireRegistration(reg))
}

func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first.
	out := make([]wireAnnouncement, 0, len(s.announcements))
	for i := len(s.announcements) - 1; i >= 0; i-- {
		out = append(out, wireAnnouncement(s.announcements[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePostAnnouncement(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if !readJSON(r, &in) || in.Title == "" || in.Body == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title and body are required"})
		return
	}

	a := s.AddAnnouncement(in.Title, in.Body)
	writeJSON(w, http.StatusCreated, wireAnnouncement(a))
}

func (s *Server) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.announcements = slices.DeleteFunc(s.announcements, func(a model.Announcement) bool { return a.ID == id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Announcement deleted"})
}

func (s *Server) handleListDiscussions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]wireDiscussion, 0, len(s.discussions))
	for _, d := range s.discussions {
		out = append(out, wireDiscussion(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePostDiscussion(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if !readJSON(r, &in) || strings.TrimSpace(in.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Message is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := model.DiscussionMessage{
		ID: uuid.NewString(), UserName: s.caller(r).Name, Message: in.Message,
		CreatedAt: s.Now().UTC().Format(time.RFC3339),
	}
	s.discussions = append(s.discussions, d)
	writeJSON(w, http.StatusCreated, wireDiscussion(d))
}

func (s *Server) handleDeleteDiscussion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.discussions = slices.DeleteFunc(s.discussions, func(d model.DiscussionMessage) bool { return d.ID == id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []wireUser{}
	for _, a := range s.accounts {
		if role == "" || string(a.identity.Role) == role {
			out = append(out, toWireUser(a.identity))
		}
	}
	writeJSON(w, http.StatusOK, out)
}
