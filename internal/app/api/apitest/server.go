/*
Package apitest runs an in-memory stand-in for the remote events service.

It serves the same routes under /api, issues opaque bearer tokens, encodes records with
document-store "_id" keys and rejects duplicate registrations, which is enough to drive
the portal end to end in tests. Individual routes can be made to fail on demand.
*/
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"buzzportal/internal/app/model"
	"buzzportal/internal/app/user"
)

type account struct {
	identity user.Identity
	password string
}

// Server is the fake remote service.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	accounts      []account
	tokens        map[string]string
	events        []model.Event
	registrations []model.Registration
	announcements []model.Announcement
	discussions   []model.DiscussionMessage

	faults map[string]int
	hits   map[string]int

	// Now stamps createdAt fields.
	Now func() time.Time
}

// NewServer starts a fake service. Close it when done.
func NewServer() *Server {
	s := &Server{
		tokens: make(map[string]string),
		faults: make(map[string]int),
		hits:   make(map[string]int),
		Now:    time.Now,
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// BaseURL is the API root to hand to api.New.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.faultInjector)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/signup", s.handleSignup)

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)

			r.Get("/events", s.handleListEvents)
			r.Post("/events", s.handleCreateEvent)
			r.Put("/events/{id}", s.handleUpdateEvent)
			r.Delete("/events/{id}", s.handleDeleteEvent)

			r.Get("/registrations", s.handleListRegistrations)
			r.Get("/registrations/my", s.handleListMyRegistrations)
			r.Post("/registrations", s.handleRegister)

			r.Get("/announcements", s.handleListAnnouncements)
			r.Post("/announcements", s.handlePostAnnouncement)
			r.Delete("/announcements/{id}", s.handleDeleteAnnouncement)

			r.Get("/discussions", s.handleListDiscussions)
			r.Post("/discussions", s.handlePostDiscussion)
			r.Delete("/discussions/{id}", s.handleDeleteDiscussion)

			r.Get("/users", s.handleListUsers)
		})
	})
	return r
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Fail makes method+path (e.g. "GET", "/api/announcements") answer with status.
// A status of 0 removes the fault.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == 0 {
		delete(s.faults, routeKey(method, path))
		return
	}
	s.faults[routeKey(method, path)] = status
}

// Hits reports how many requests reached method+path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hits[routeKey(method, path)]
}

func (s *Server) faultInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, r.URL.Path)

		s.mu.Lock()
		s.hits[key]++
		status, failing := s.faults[key]
		s.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]string{"message": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AddAccount registers an account directly and returns its identity.
func (s *Server) AddAccount(name, email, password string, role user.Role) user.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity := user.Identity{ID: uuid.NewString(), Name: name, Email: email, Role: role}
	s.accounts = append(s.accounts, account{identity: identity, password: password})
	return identity
}

// IssueToken returns a valid bearer credential for the account with the given id.
func (s *Server) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

// AddEvent stores an event directly and returns it with its id.
// An event without an id gets a generated one.
func (s *Server) AddEvent(e model.Event) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.events = append(s.events, e)
	return e
}

// AddAnnouncement stores an announcement directly.
func (s *Server) AddAnnouncement(title, body string) model.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := model.Announcement{ID: uuid.NewString(), Title: title, Body: body, CreatedAt: s.Now().UTC().Format(time.RFC3339)}
	s.announcements = append(s.announcements, a)
	return a
}

// Events returns a copy of the stored events.
func (s *Server) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.events)
}

// Registrations returns a copy of the stored registrations.
func (s *Server) Registrations() []model.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.registrations)
}

type contextKey string

const userIDKey contextKey = "user_id"

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")

		s.mu.Lock()
		userID, known := s.tokens[token]
		s.mu.Unlock()

		if !ok || !known {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithUser(r, userID)))
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func readJSON(r *http.Request, dst any) bool {
	return json.NewDecoder(r.Body).Decode(dst) == nil
}
