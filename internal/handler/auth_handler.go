/*
Package handler provides HTTP handler functions for the public pages and sign-in flow.
*/
package handler

import (
	"net/http"

	"buzzportal/internal/app/gate"
	"buzzportal/internal/app/portal"
	"buzzportal/internal/app/user"
	"buzzportal/internal/app/view"
	"buzzportal/internal/pkg/auth/jwt"
	"buzzportal/internal/pkg/errs"
	"buzzportal/internal/pkg/logx"
	"buzzportal/internal/pkg/randx"
	"buzzportal/internal/pkg/req"
	"buzzportal/internal/pkg/resp"
)

// HandleLanding renders the home page, linking a signed-in visitor to their dashboard.
func HandleLanding(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := deps.Sessions.Get(jwt.GetSessionID(r))

		var identity *user.Identity
		dashboard := ""
		if ok {
			identity = &s.Identity
			dashboard = gate.DashboardFor(s.Identity.Role)
		}

		renderPage(deps, w, r, http.StatusOK, view.PageLanding, "The BuZZ", identity, view.Landing(ok, dashboard))
	}
}

// HandleLoginPage renders the empty sign-in form.
func HandleLoginPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := user.ParseRole(r.URL.Query().Get("role"))
		renderPage(deps, w, r, http.StatusOK, view.PageLogin, "Login", nil, view.Login("", role))
	}
}

// HandleLogin signs the visitor in and redirects to their dashboard.
// A failed attempt re-renders the form with the entered email and role kept.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.ParseForm(w, r); customErr != nil {
			rejectForm(deps, w, r, gate.LoginPath, customErr)
			return
		}

		form := portal.LoginForm{
			Email:    req.Field(r, "email"),
			Password: r.FormValue("password"),
			Role:     user.ParseRole(r.FormValue("role")),
		}

		// The signed-in session always gets a new id; the anonymous one is dropped.
		previousID := jwt.GetSessionID(r)
		sessionID := randx.SessionID()

		location, notice := deps.Portal.Login(r.Context(), sessionID, form)
		if location == "" {
			notify(deps, r, notice)
			renderPage(deps, w, r, http.StatusUnprocessableEntity, view.PageLogin, "Login", nil, view.Login(form.Email, form.Role))
			return
		}

		if err := jwt.IssueSessionCookie(w, sessionID, deps.Config.SessionSecret, deps.Config.SecureCookies); err != nil {
			deps.Sessions.Clear(sessionID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		deps.Sessions.Clear(previousID)
		deps.Sessions.PushNotice(sessionID, notice)

		resp.SeeOther(w, r, location)
	}
}

// HandleSignupPage renders the empty account form.
func HandleSignupPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(deps, w, r, http.StatusOK, view.PageSignup, "Sign Up", nil, view.Signup("", "", user.RoleStudent))
	}
}

// HandleSignup creates an account and sends the visitor to the sign-in form.
func HandleSignup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.ParseForm(w, r); customErr != nil {
			rejectForm(deps, w, r, "/signup", customErr)
			return
		}

		form := portal.SignupForm{
			Name:            req.Field(r, "fullname"),
			Email:           req.Field(r, "email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirm_password"),
			Role:            user.ParseRole(r.FormValue("role")),
			TermsAccepted:   req.Checked(r, "terms"),
		}

		notice, ok := deps.Portal.Signup(r.Context(), form)
		notify(deps, r, notice)

		if !ok {
			renderPage(deps, w, r, http.StatusUnprocessableEntity, view.PageSignup, "Sign Up", nil, view.Signup(form.Name, form.Email, form.Role))
			return
		}
		resp.SeeOther(w, r, gate.LoginPath+"?role="+string(form.Role))
	}
}

// HandleLogout clears the session and returns to the sign-in form.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logx.Ctx(r.Context()).Info().Msg("Visitor signed out")
		signOut(deps, w, r)
	}
}

// HandleSessionInfo reports the signed-in identity as JSON for scripts on the page.
func HandleSessionInfo(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := deps.Sessions.Get(jwt.GetSessionID(r))
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user":      s.Identity,
			"dashboard": gate.DashboardFor(s.Identity.Role),
		})
	}
}
