package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"buzzportal/internal/app/gate"
	"buzzportal/internal/app/portal"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/user"
	"buzzportal/internal/app/view"
	"buzzportal/internal/pkg/auth/jwt"
	"buzzportal/internal/pkg/errs"
	"buzzportal/internal/pkg/logx"
	"buzzportal/internal/pkg/resp"
)

// renderPage drains the session's notices into the layout and writes the page.
// The page is rendered into a buffer first so a template error never leaves half a page.
func renderPage(deps *AppDeps, w http.ResponseWriter, r *http.Request, status int, name, title string, identity *user.Identity, page any) {
	layout := view.Layout{
		Title:         title,
		User:          identity,
		Notices:       deps.Sessions.DrainNotices(jwt.GetSessionID(r)),
		CSRFField:     csrf.TemplateField(r),
		CoversEnabled: deps.Portal.CoversEnabled(),
		Page:          page,
	}

	var buf bytes.Buffer
	if err := deps.Renderer.Render(&buf, name, layout); err != nil {
		logx.Ctx(r.Context()).Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, errs.NewError(errs.ErrUnknown).Message, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// visitor returns the request's session as admitted by gate.RequireRole.
func visitor(r *http.Request) portal.Visitor {
	s, _ := gate.FromContext(r.Context())
	return portal.Visitor{SessionID: jwt.GetSessionID(r), Session: s}
}

// notify queues a notice for the next page of the request's session.
func notify(deps *AppDeps, r *http.Request, n session.Notice) {
	deps.Sessions.PushNotice(jwt.GetSessionID(r), n)
}

// finish ends a page action: ErrSignedOut clears the session and goes to the login page,
// anything else queues the notice and redirects to location.
func finish(deps *AppDeps, w http.ResponseWriter, r *http.Request, location string, n session.Notice, err error) {
	if errors.Is(err, portal.ErrSignedOut) {
		signOut(deps, w, r)
		return
	}
	notify(deps, r, n)
	resp.SeeOther(w, r, location)
}

// signOut forgets the session and sends the browser to the login page.
func signOut(deps *AppDeps, w http.ResponseWriter, r *http.Request) {
	deps.Portal.Logout(jwt.GetSessionID(r))
	resp.SeeOther(w, r, gate.LoginPath)
}

// rejectForm answers a form that could not be parsed.
func rejectForm(deps *AppDeps, w http.ResponseWriter, r *http.Request, location string, customErr *errs.CustomError) {
	logx.Ctx(r.Context()).Warn().Int("code", customErr.Code).Msg("Form rejected")
	notify(deps, r, session.Failure(customErr.Message))
	resp.SeeOther(w, r, location)
}

// pathID returns the unescaped {id} route parameter. chi matches on the raw path, so an
// escaped id arrives still escaped.
func pathID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}
