package handler

import (
	"net/http"
	"net/url"

	"buzzportal/internal/app/api"
	"buzzportal/internal/app/cache"
	"buzzportal/internal/app/gate"
	"buzzportal/internal/app/portal"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/view"
	"buzzportal/internal/pkg/errs"
	"buzzportal/internal/pkg/logx"
	"buzzportal/internal/pkg/req"
	"buzzportal/internal/pkg/resp"
)

const studentViewPath = gate.StudentDashboardPath + "/view"

// reportLoad logs the collections that could not be refreshed. An unreachable service is
// also shown to the user once; the page still renders whatever is cached.
func reportLoad(deps *AppDeps, r *http.Request, failed map[cache.Collection]error) {
	unreachable := false
	for name, err := range failed {
		logx.Ctx(r.Context()).Warn().Err(err).Str("collection", string(name)).Msg("Collection load failed; showing cached snapshot")
		if api.KindOf(err) == api.Unreachable {
			unreachable = true
		}
	}
	if unreachable {
		notify(deps, r, session.Failure(errs.NewError(errs.ErrServiceUnreachable).Message))
	}
}

func renderStudent(deps *AppDeps, w http.ResponseWriter, r *http.Request, v portal.Visitor, search, ticketID string) {
	page := deps.Portal.StudentPage(v, search, ticketID)
	renderPage(deps, w, r, http.StatusOK, view.PageStudent, "Student Dashboard", &v.Identity, page)
}

// HandleStudentDashboard loads every collection and renders the student dashboard.
func HandleStudentDashboard(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := visitor(r)
		q := portal.EventQuery{Category: r.URL.Query().Get("category"), Sort: r.URL.Query().Get("sort")}

		reportLoad(deps, r, deps.Portal.LoadStudent(r.Context(), v, q))
		renderStudent(deps, w, r, v, "", "")
	}
}

// HandleStudentView renders the dashboard from the cache, applying the search box and
// opening a ticket dialog when asked. It loads first only if nothing is cached yet.
func HandleStudentView(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := visitor(r)
		if !deps.Portal.StudentLoaded(v) {
			reportLoad(deps, r, deps.Portal.LoadStudent(r.Context(), v, portal.EventQuery{}))
		}

		query := r.URL.Query()
		renderStudent(deps, w, r, v, query.Get("search"), query.Get("ticket"))
	}
}

// HandleStudentFilter reloads the events list with the chosen category and sort.
func HandleStudentFilter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := visitor(r)
		q := portal.EventQuery{Category: r.URL.Query().Get("category"), Sort: r.URL.Query().Get("sort")}

		if !deps.Portal.StudentLoaded(v) {
			reportLoad(deps, r, deps.Portal.LoadStudent(r.Context(), v, q))
		} else if err := deps.Portal.FilterEvents(r.Context(), v, q); err != nil {
			reportLoad(deps, r, map[cache.Collection]error{cache.Events: err})
		}
		renderStudent(deps, w, r, v, "", "")
	}
}

// HandleRegister registers the student for an event and opens the new ticket.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.ParseForm(w, r); customErr != nil {
			rejectForm(deps, w, r, studentViewPath, customErr)
			return
		}

		eventID := req.Field(r, "event_id")
		if eventID == "" {
			rejectForm(deps, w, r, studentViewPath, errs.NewError(errs.ErrEventNotFound))
			return
		}

		registrationID, notice, err := deps.Portal.Register(r.Context(), visitor(r), eventID)

		location := studentViewPath
		if registrationID != "" {
			location += "?ticket=" + url.QueryEscape(registrationID)
		}
		finish(deps, w, r, location, notice, err)
	}
}

// HandlePostDiscussion adds a message to the discussion feed.
func HandlePostDiscussion(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.ParseForm(w, r); customErr != nil {
			rejectForm(deps, w, r, studentViewPath, customErr)
			return
		}

		notice, err := deps.Portal.PostDiscussion(r.Context(), visitor(r), r.FormValue("message"))
		finish(deps, w, r, studentViewPath+"#discussions", notice, err)
	}
}

// HandleTicketImage serves the QR ticket of one of the student's registrations.
// With ?download=1 the browser saves it under the event's ticket file name.
func HandleTicketImage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		image, fileName, customErr := deps.Portal.Ticket(visitor(r), pathID(r))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondPNG(w, r, image, fileName, r.URL.Query().Get("download") == "1")
	}
}
