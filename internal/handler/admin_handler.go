package handler

import (
	"errors"
	"io"
	"net/http"

	"buzzportal/internal/app/gate"
	"buzzportal/internal/app/model"
	"buzzportal/internal/app/portal"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/storage"
	"buzzportal/internal/app/view"
	"buzzportal/internal/pkg/errs"
	"buzzportal/internal/pkg/req"
)

const adminViewPath = gate.StaffDashboardPath + "/view"

// renderAdmin renders the staff dashboard from the cache, loading it first if nothing is cached.
func renderAdmin(deps *AppDeps, w http.ResponseWriter, r *http.Request, status int, state portal.AdminView) {
	v := visitor(r)
	if !deps.Portal.AdminLoaded(v) {
		reportLoad(deps, r, deps.Portal.LoadAdmin(r.Context(), v))
	}
	writeAdmin(deps, w, r, status, v, state)
}

func writeAdmin(deps *AppDeps, w http.ResponseWriter, r *http.Request, status int, v portal.Visitor, state portal.AdminView) {
	if state.Filter == "" {
		state.Filter = r.URL.Query().Get("filter")
	}

	page := deps.Portal.AdminPage(v, state)
	renderPage(deps, w, r, status, view.PageAdmin, "Staff Dashboard", &v.Identity, page)
}

// HandleAdminDashboard loads every collection and renders the staff dashboard.
func HandleAdminDashboard(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := visitor(r)
		reportLoad(deps, r, deps.Portal.LoadAdmin(r.Context(), v))
		writeAdmin(deps, w, r, http.StatusOK, v, portal.AdminView{})
	}
}

// HandleAdminView renders the staff dashboard from the cache with the chosen date filter.
func HandleAdminView(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderAdmin(deps, w, r, http.StatusOK, portal.AdminView{})
	}
}

// HandleNewEventForm opens the empty event form.
func HandleNewEventForm(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := view.NewEventForm()
		renderAdmin(deps, w, r, http.StatusOK, portal.AdminView{Form: &form})
	}
}

// HandleEditEventForm opens the event form filled with a cached event.
func HandleEditEventForm(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := deps.Portal.EditForm(visitor(r), pathID(r))
		if !ok {
			rejectForm(deps, w, r, adminViewPath, errs.NewError(errs.ErrEventNotFound))
			return
		}
		renderAdmin(deps, w, r, http.StatusOK, portal.AdminView{Form: &form})
	}
}

// readEventForm collects the submitted event fields and, when uploads are enabled, the cover.
// The returned closer releases the cover file and is never nil.
func readEventForm(deps *AppDeps, r *http.Request) (portal.EventForm, io.Closer) {
	form := portal.EventForm{Input: model.EventInput{
		Title:       r.FormValue("title"),
		Venue:       r.FormValue("venue"),
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Category:    r.FormValue("category"),
		Image:       r.FormValue("image"),
		Description: r.FormValue("description"),
	}}

	if !deps.Portal.CoversEnabled() {
		return form, io.NopCloser(nil)
	}
	file, header, ok := req.File(r, "cover")
	if !ok {
		return form, io.NopCloser(nil)
	}

	form.Cover = &portal.CoverUpload{
		Cover: storage.Cover{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
		},
		Body: file,
	}
	return form, file
}

// submitEvent runs a create or update. A rejected form stays open with what was entered.
func submitEvent(deps *AppDeps, w http.ResponseWriter, r *http.Request, formPage view.EventFormPage,
	save func(portal.EventForm) (session.Notice, bool, error)) {
	if customErr := req.SetupMultipart(w, r); customErr != nil {
		rejectForm(deps, w, r, adminViewPath, customErr)
		return
	}

	form, closer := readEventForm(deps, r)
	defer closer.Close()

	notice, ok, err := save(form)
	if errors.Is(err, portal.ErrSignedOut) {
		signOut(deps, w, r)
		return
	}
	if !ok {
		notify(deps, r, notice)
		formPage.Values = form.Input.Trimmed()
		renderAdmin(deps, w, r, http.StatusUnprocessableEntity, portal.AdminView{Form: &formPage})
		return
	}
	finish(deps, w, r, adminViewPath, notice, nil)
}

// HandleCreateEvent publishes a new event.
func HandleCreateEvent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := visitor(r)
		submitEvent(deps, w, r, view.NewEventForm(), func(form portal.EventForm) (session.Notice, bool, error) {
			return deps.Portal.CreateEvent(r.Context(), v, form)
		})
	}
}

// HandleUpdateEvent saves an edited event.
func HandleUpdateEvent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := visitor(r)
		id := pathID(r)
		submitEvent(deps, w, r, view.EditEventForm(model.Event{ID: id}), func(form portal.EventForm) (session.Notice, bool, error) {
			return deps.Portal.UpdateEvent(r.Context(), v, id, form)
		})
	}
}

// HandleParticipants opens the participants list of a cached event.
func HandleParticipants(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := deps.Portal.Participants(visitor(r), pathID(r))
		if !ok {
			rejectForm(deps, w, r, adminViewPath, errs.NewError(errs.ErrEventNotFound))
			return
		}
		renderAdmin(deps, w, r, http.StatusOK, portal.AdminView{Participants: &page})
	}
}

// HandleConfirmDeleteEvent asks before deleting an event.
func HandleConfirmDeleteEvent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderAdmin(deps, w, r, http.StatusOK, portal.AdminView{Confirm: view.ConfirmDeleteEvent(pathID(r))})
	}
}

// HandleDeleteEvent deletes an event once confirmed.
func HandleDeleteEvent(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notice, err := deps.Portal.DeleteEvent(r.Context(), visitor(r), pathID(r))
		finish(deps, w, r, adminViewPath, notice, err)
	}
}

// HandlePostAnnouncement broadcasts an announcement.
func HandlePostAnnouncement(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.ParseForm(w, r); customErr != nil {
			rejectForm(deps, w, r, adminViewPath, customErr)
			return
		}

		notice, _, err := deps.Portal.PostAnnouncement(r.Context(), visitor(r), r.FormValue("title"), r.FormValue("body"))
		finish(deps, w, r, adminViewPath+"#announcements", notice, err)
	}
}

// HandleConfirmDeleteAnnouncement asks before deleting an announcement.
func HandleConfirmDeleteAnnouncement(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderAdmin(deps, w, r, http.StatusOK, portal.AdminView{Confirm: view.ConfirmDeleteAnnouncement(pathID(r))})
	}
}

// HandleDeleteAnnouncement deletes an announcement once confirmed.
func HandleDeleteAnnouncement(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notice, err := deps.Portal.DeleteAnnouncement(r.Context(), visitor(r), pathID(r))
		finish(deps, w, r, adminViewPath+"#announcements", notice, err)
	}
}

// HandleConfirmDeleteDiscussion asks before deleting a discussion message.
func HandleConfirmDeleteDiscussion(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderAdmin(deps, w, r, http.StatusOK, portal.AdminView{Confirm: view.ConfirmDeleteDiscussion(pathID(r))})
	}
}

// HandleDeleteDiscussion deletes a discussion message once confirmed.
func HandleDeleteDiscussion(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notice, err := deps.Portal.DeleteDiscussion(r.Context(), visitor(r), pathID(r))
		finish(deps, w, r, adminViewPath+"#discussions", notice, err)
	}
}
