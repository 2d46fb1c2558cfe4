/*
Package handler provides the HTTP handlers and routing setup for the events portal.

This file defines the main Router. Global middleware covers CORS, request ids, logging and
panic recovery; page routes additionally get the session cookie and CSRF protection, and
the sign-in forms are rate limited per client IP. Dashboards sit behind the role gate.
*/
package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"buzzportal/internal/app/gate"
	"buzzportal/internal/app/user"
	"buzzportal/internal/configs"
	"buzzportal/internal/pkg/auth/jwt"
	"buzzportal/internal/pkg/errs"
	"buzzportal/internal/pkg/limiter"
	"buzzportal/internal/pkg/logx"
	"buzzportal/internal/pkg/req"
	"buzzportal/internal/pkg/resp"
)

// Router sets up the portal's routing table.
// The returned stop function ends the rate limiter's background cleanup.
func Router(deps *AppDeps) (http.Handler, func()) {
	signInLimiter := limiter.NewIPRateLimiter(rate.Limit(deps.Config.LoginRate), deps.Config.LoginBurst)

	r := chi.NewRouter()

	c := cors.New(corsOptions(deps.Config))
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "BuZZ Events Portal",
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(pages chi.Router) {
		pages.Use(middleware.RequestSize(req.MaxMultipartSize))
		pages.Use(jwt.SessionCookieMiddleware(deps.Config.SessionSecret, deps.Config.SecureCookies))
		pages.Use(csrfProtection(deps))

		pages.Get("/", HandleLanding(deps))
		pages.Get("/api/session", HandleSessionInfo(deps))
		pages.Post("/logout", HandleLogout(deps))

		pages.Group(func(auth chi.Router) {
			auth.With(gate.RedirectSignedIn(deps.Sessions)).Get("/login", HandleLoginPage(deps))
			auth.With(gate.RedirectSignedIn(deps.Sessions)).Get("/signup", HandleSignupPage(deps))
			auth.With(signInLimiter.Middleware).Post("/login", HandleLogin(deps))
			auth.With(signInLimiter.Middleware).Post("/signup", HandleSignup(deps))
		})

		pages.Route(gate.StudentDashboardPath, func(student chi.Router) {
			student.Use(gate.RequireRole(deps.Sessions, user.RoleStudent))

			student.Get("/", HandleStudentDashboard(deps))
			student.Get("/view", HandleStudentView(deps))
			student.Get("/events", HandleStudentFilter(deps))
			student.Post("/registrations", HandleRegister(deps))
			student.Post("/discussions", HandlePostDiscussion(deps))
			student.Get("/tickets/{id}", HandleTicketImage(deps))
		})

		pages.Route(gate.StaffDashboardPath, func(admin chi.Router) {
			admin.Use(gate.RequireRole(deps.Sessions, user.RoleStaff))

			admin.Get("/", HandleAdminDashboard(deps))
			admin.Get("/view", HandleAdminView(deps))

			admin.Get("/events/new", HandleNewEventForm(deps))
			admin.Post("/events", HandleCreateEvent(deps))
			admin.Get("/events/{id}/edit", HandleEditEventForm(deps))
			admin.Post("/events/{id}", HandleUpdateEvent(deps))
			admin.Get("/events/{id}/participants", HandleParticipants(deps))
			admin.Get("/events/{id}/delete", HandleConfirmDeleteEvent(deps))
			admin.Post("/events/{id}/delete", HandleDeleteEvent(deps))

			admin.Post("/announcements", HandlePostAnnouncement(deps))
			admin.Get("/announcements/{id}/delete", HandleConfirmDeleteAnnouncement(deps))
			admin.Post("/announcements/{id}/delete", HandleDeleteAnnouncement(deps))

			admin.Get("/discussions/{id}/delete", HandleConfirmDeleteDiscussion(deps))
			admin.Post("/discussions/{id}/delete", HandleDeleteDiscussion(deps))
		})
	})

	return r, signInLimiter.Stop
}

// csrfProtection guards every page form with a per-session token.
// Over plain HTTP the request is marked as such so the origin check does not demand TLS.
func csrfProtection(deps *AppDeps) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		[]byte(deps.Config.CSRFKey),
		csrf.Secure(deps.Config.SecureCookies),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(originHosts(deps.Config.AllowedOrigins)),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logx.Ctx(r.Context()).Warn().AnErr("reason", csrf.FailureReason(r)).Msg("CSRF check failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrFormExpired))
		})),
	)

	if deps.Config.SecureCookies {
		return protect
	}
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// originHosts reduces configured origins to the host[:port] form the CSRF origin check compares.
func originHosts(origins []string) []string {
	hosts := []string{}
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}

// corsOptions allows credentialed cross-origin calls only from the configured origins.
// Without any, development answers every origin without credentials and other
// environments answer none.
func corsOptions(cfg *configs.AppConfig) cors.Options {
	opts := cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders: []string{},
		MaxAge:         300,
	}

	switch {
	case len(cfg.AllowedOrigins) > 0:
		opts.AllowedOrigins = cfg.AllowedOrigins
		opts.AllowCredentials = true
	case cfg.IsDevelopment():
		opts.AllowedOrigins = []string{"*"}
	default:
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return opts
}
