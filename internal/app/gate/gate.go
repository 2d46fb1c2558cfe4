/*
Package gate decides, per request, whether a session may open a role's dashboard.

The decision is a three-way partition: no session goes to the login page, a session of
another role goes to its own dashboard, and a matching session proceeds.
*/
package gate

import (
	"context"
	"net/http"

	"buzzportal/internal/app/session"
	"buzzportal/internal/app/user"
	"buzzportal/internal/pkg/auth/jwt"
	"buzzportal/internal/pkg/logx"
)

const (
	LoginPath            = "/login"
	StudentDashboardPath = "/student"
	StaffDashboardPath   = "/admin"
)

// Outcome is the result of a gate decision.
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectDashboard
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDashboard:
		return "redirect_dashboard"
	default:
		return "unknown"
	}
}

// Decision is an Outcome plus where to send the browser, if anywhere.
type Decision struct {
	Outcome  Outcome
	Location string
}

// DashboardFor returns the dashboard path of a role.
func DashboardFor(role user.Role) string {
	if role == user.RoleStaff {
		return StaffDashboardPath
	}
	return StudentDashboardPath
}

// Decide applies the gate to an optional session.
func Decide(s session.Session, ok bool, expected user.Role) Decision {
	if !ok {
		return Decision{Outcome: RedirectLogin, Location: LoginPath}
	}
	if s.Identity.Role != expected {
		return Decision{Outcome: RedirectDashboard, Location: DashboardFor(s.Identity.Role)}
	}
	return Decision{Outcome: Allow}
}

// SessionReader is the part of the session store the gate needs.
type SessionReader interface {
	Get(id string) (session.Session, bool)
}

type contextKey string

const sessionKey contextKey = "gate_session"

// WithSession returns a copy of ctx carrying the allowed session.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session stored by RequireRole.
func FromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(session.Session)
	return s, ok
}

// RequireRole returns a middleware that lets only sessions of the given role through.
// Every other request is redirected with 303 and the wrapped handler never runs.
func RequireRole(store SessionReader, role user.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := store.Get(jwt.GetSessionID(r))

			d := Decide(s, ok, role)
			if d.Outcome != Allow {
				logx.Info("Gate redirected request",
					"outcome", d.Outcome.String(),
					"expected_role", string(role),
					"location", d.Location)
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RedirectSignedIn sends a browser that already holds a valid session to its dashboard.
// It guards the login and signup pages.
func RedirectSignedIn(store SessionReader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, ok := store.Get(jwt.GetSessionID(r)); ok {
				http.Redirect(w, r, DashboardFor(s.Identity.Role), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
