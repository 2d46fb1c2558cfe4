package portal

import (
	"context"
	"io"
	"net/url"
	"strings"

	"buzzportal/internal/app/api"
	"buzzportal/internal/app/cache"
	"buzzportal/internal/app/model"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/storage"
	"buzzportal/internal/app/user"
	"buzzportal/internal/app/view"
	"buzzportal/internal/pkg/errs"
)

// AdminView is the dialog state of the staff dashboard.
type AdminView struct {
	Filter       string
	Form         *view.EventFormPage
	Participants *view.ParticipantsPage
	Confirm      *view.Confirmation
}

// CoverUpload is a cover file submitted with the event form.
type CoverUpload struct {
	storage.Cover
	Body io.Reader
}

// EventForm is the submitted create/edit event form.
type EventForm struct {
	Input model.EventInput
	Cover *CoverUpload
}

func (p *Portal) allEventsJob(v Visitor) cache.Job {
	return cache.Job{
		Name: cache.Events,
		Fetch: cache.Fetcher(func(ctx context.Context, query url.Values) ([]model.Event, error) {
			return p.remote.ListEvents(ctx, v.Credential, query)
		}),
	}
}

func (p *Portal) allRegistrationsJob(v Visitor) cache.Job {
	return cache.Job{
		Name: cache.Registrations,
		Fetch: cache.Fetcher(func(ctx context.Context, _ url.Values) ([]model.Registration, error) {
			return p.remote.ListRegistrations(ctx, v.Credential)
		}),
	}
}

func (p *Portal) studentsJob(v Visitor) cache.Job {
	return cache.Job{
		Name:  cache.Users,
		Query: url.Values{"role": {string(user.RoleStudent)}},
		Fetch: cache.Fetcher(func(ctx context.Context, _ url.Values) ([]user.Identity, error) {
			return p.remote.ListUsers(ctx, v.Credential, user.RoleStudent)
		}),
	}
}

// LoadAdmin reloads every collection of the staff dashboard concurrently.
// Failed collections keep their previous snapshot and are reported, never raised.
func (p *Portal) LoadAdmin(ctx context.Context, v Visitor) map[cache.Collection]error {
	return p.sessions.Cache(v.SessionID).ReloadAll(ctx,
		p.allEventsJob(v),
		p.allRegistrationsJob(v),
		p.announcementsJob(v),
		p.discussionsJob(v),
		p.studentsJob(v),
	)
}

// AdminLoaded reports whether the dashboard has been loaded for this session.
func (p *Portal) AdminLoaded(v Visitor) bool {
	return p.sessions.Cache(v.SessionID).Loaded(cache.Events)
}

// AdminPage builds the staff dashboard from the cache without touching the network.
func (p *Portal) AdminPage(v Visitor, state AdminView) view.AdminPage {
	c := p.sessions.Cache(v.SessionID)

	return view.AdminDashboard(view.AdminInput{
		User:          v.Identity,
		Events:        cache.List[model.Event](c, cache.Events),
		Registrations: cache.List[model.Registration](c, cache.Registrations),
		Announcements: cache.List[model.Announcement](c, cache.Announcements),
		Discussions:   cache.List[model.DiscussionMessage](c, cache.Discussions),
		Students:      cache.List[user.Identity](c, cache.Users),
		Filter:        state.Filter,
		Form:          state.Form,
		Participants:  state.Participants,
		Confirm:       state.Confirm,
		Now:           p.now(),
	})
}

// cachedEvent finds an event in the session's snapshot.
func (p *Portal) cachedEvent(v Visitor, id string) (model.Event, bool) {
	for _, e := range cache.List[model.Event](p.sessions.Cache(v.SessionID), cache.Events) {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

// EditForm returns the edit form of a cached event.
func (p *Portal) EditForm(v Visitor, id string) (view.EventFormPage, bool) {
	e, ok := p.cachedEvent(v, id)
	if !ok {
		return view.EventFormPage{}, false
	}
	return view.EditEventForm(e), true
}

// Participants lists the cached registrations of a cached event.
func (p *Portal) Participants(v Visitor, id string) (view.ParticipantsPage, bool) {
	e, ok := p.cachedEvent(v, id)
	if !ok {
		return view.ParticipantsPage{}, false
	}
	regs := cache.List[model.Registration](p.sessions.Cache(v.SessionID), cache.Registrations)
	return view.Participants(e, regs), true
}

// uploadCover stores a submitted cover and returns its object, or nothing when no cover
// was submitted or uploads are disabled.
func (p *Portal) uploadCover(ctx context.Context, cover *CoverUpload) (*storage.Object, *errs.CustomError) {
	if cover == nil || p.covers == nil {
		return nil, nil
	}
	if customErr := cover.Validate(); customErr != nil {
		return nil, customErr
	}

	obj, err := p.covers.Upload(ctx, cover.Cover, cover.Body)
	if err != nil {
		p.logger.Error().Err(err).Str("file", cover.Name).Msg("Cover upload failed.")
		return nil, errs.NewError(errs.ErrCoverStorageFailed)
	}
	return &obj, nil
}

// discardCover removes a cover whose event was not saved.
func (p *Portal) discardCover(obj *storage.Object) {
	if obj == nil {
		return
	}
	if err := p.covers.Delete(context.Background(), obj.Key); err != nil {
		p.logger.Warn().Err(err).Str("key", obj.Key).Msg("Orphaned cover could not be deleted.")
	}
}

// prepareEvent validates the form and uploads its cover.
func (p *Portal) prepareEvent(ctx context.Context, form EventForm) (model.EventInput, *storage.Object, *errs.CustomError) {
	in := form.Input.Trimmed()
	if in.Missing() {
		return in, nil, errs.NewError(errs.ErrEventFieldsMissing)
	}

	obj, customErr := p.uploadCover(ctx, form.Cover)
	if customErr != nil {
		return in, nil, customErr
	}
	if obj != nil {
		in.Image = obj.URL
	}
	return in, obj, nil
}

// CreateEvent publishes a new event and reloads the events list.
// ok reports whether the event was created; when false the form should stay open.
func (p *Portal) CreateEvent(ctx context.Context, v Visitor, form EventForm) (notice session.Notice, ok bool, err error) {
	in, cover, customErr := p.prepareEvent(ctx, form)
	if customErr != nil {
		return invalid(customErr), false, nil
	}
	if in.Image == "" {
		in.Image = model.DefaultEventImage
	}

	if err := p.remote.CreateEvent(ctx, v.Credential, in); err != nil {
		p.discardCover(cover)
		notice, err = failure(err, "Failed to create event")
		return notice, false, err
	}

	p.reloadAfterWrite(ctx, v, p.allEventsJob(v))
	return session.Success("Event created successfully!"), true, nil
}

// UpdateEvent saves an edited event and reloads the events list.
func (p *Portal) UpdateEvent(ctx context.Context, v Visitor, id string, form EventForm) (notice session.Notice, ok bool, err error) {
	in, cover, customErr := p.prepareEvent(ctx, form)
	if customErr != nil {
		return invalid(customErr), false, nil
	}

	if err := p.remote.UpdateEvent(ctx, v.Credential, id, in); err != nil {
		p.discardCover(cover)
		notice, err = failure(err, "Failed to update event")
		return notice, false, err
	}

	p.reloadAfterWrite(ctx, v, p.allEventsJob(v))
	return session.Success("Event updated successfully!"), true, nil
}

// DeleteEvent removes an event and reloads the events list.
func (p *Portal) DeleteEvent(ctx context.Context, v Visitor, id string) (session.Notice, error) {
	if err := p.remote.DeleteEvent(ctx, v.Credential, id); err != nil {
		if api.KindOf(err) == api.Rejected {
			return session.Failure("Failed to delete event"), nil
		}
		return failure(err, "Failed to delete event")
	}

	p.reloadAfterWrite(ctx, v, p.allEventsJob(v))
	return session.Success("Event deleted successfully!"), nil
}

// PostAnnouncement broadcasts an announcement and reloads the announcements.
func (p *Portal) PostAnnouncement(ctx context.Context, v Visitor, title, body string) (notice session.Notice, ok bool, err error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return invalid(errs.NewError(errs.ErrAnnouncementFieldsMissing)), false, nil
	}

	if err := p.remote.PostAnnouncement(ctx, v.Credential, title, body); err != nil {
		if api.KindOf(err) == api.Rejected {
			return session.Failure("Failed to post announcement"), false, nil
		}
		notice, err = failure(err, "Failed to post announcement")
		return notice, false, err
	}

	p.reloadAfterWrite(ctx, v, p.announcementsJob(v))
	return session.Success("Announcement posted successfully!"), true, nil
}

// DeleteAnnouncement removes an announcement and reloads the announcements.
func (p *Portal) DeleteAnnouncement(ctx context.Context, v Visitor, id string) (session.Notice, error) {
	if err := p.remote.DeleteAnnouncement(ctx, v.Credential, id); err != nil {
		return failure(err, "Failed to delete announcement")
	}

	p.reloadAfterWrite(ctx, v, p.announcementsJob(v))
	return session.Notice{}, nil
}

// DeleteDiscussion removes a discussion message and reloads the feed.
func (p *Portal) DeleteDiscussion(ctx context.Context, v Visitor, id string) (session.Notice, error) {
	if err := p.remote.DeleteDiscussion(ctx, v.Credential, id); err != nil {
		return failure(err, "Failed to delete comment")
	}

	p.reloadAfterWrite(ctx, v, p.discussionsJob(v))
	return session.Notice{}, nil
}

// reloadAfterWrite refreshes the collection a successful write changed.
// The write already happened, so a failed reload is only logged.
func (p *Portal) reloadAfterWrite(ctx context.Context, v Visitor, job cache.Job) {
	if err := p.sessions.Cache(v.SessionID).Reload(ctx, job); err != nil {
		p.logger.Warn().Err(err).Str("collection", string(job.Name)).Msg("Reload after write failed; keeping previous snapshot.")
	}
}
