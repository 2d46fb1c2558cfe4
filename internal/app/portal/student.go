package portal

import (
	"context"
	"net/url"
	"strings"

	"buzzportal/internal/app/cache"
	"buzzportal/internal/app/model"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/ticket"
	"buzzportal/internal/app/view"
	"buzzportal/internal/pkg/errs"
)

// EventQuery is the server-side filter of the student events list.
type EventQuery struct {
	Category string
	Sort     string
}

// Values returns the query parameters sent to the service. Missing values take the
// list's defaults: every category, sorted by date.
func (q EventQuery) Values() url.Values {
	category := strings.TrimSpace(q.Category)
	if category == "" {
		category = "all"
	}
	sort := strings.TrimSpace(q.Sort)
	if sort == "" {
		sort = "date"
	}
	return url.Values{"category": {category}, "sort": {sort}}
}

func (p *Portal) eventsJob(v Visitor, q EventQuery) cache.Job {
	return cache.Job{
		Name:  cache.Events,
		Query: q.Values(),
		Fetch: cache.Fetcher(func(ctx context.Context, query url.Values) ([]model.Event, error) {
			return p.remote.ListEvents(ctx, v.Credential, query)
		}),
	}
}

func (p *Portal) myRegistrationsJob(v Visitor) cache.Job {
	return cache.Job{
		Name: cache.Registrations,
		Fetch: cache.Fetcher(func(ctx context.Context, _ url.Values) ([]model.Registration, error) {
			return p.remote.ListMyRegistrations(ctx, v.Credential)
		}),
	}
}

func (p *Portal) announcementsJob(v Visitor) cache.Job {
	return cache.Job{
		Name: cache.Announcements,
		Fetch: cache.Fetcher(func(ctx context.Context, _ url.Values) ([]model.Announcement, error) {
			return p.remote.ListAnnouncements(ctx, v.Credential)
		}),
	}
}

func (p *Portal) discussionsJob(v Visitor) cache.Job {
	return cache.Job{
		Name: cache.Discussions,
		Fetch: cache.Fetcher(func(ctx context.Context, _ url.Values) ([]model.DiscussionMessage, error) {
			return p.remote.ListDiscussions(ctx, v.Credential)
		}),
	}
}

// LoadStudent reloads every collection of the student dashboard concurrently.
// Failed collections keep their previous snapshot and are reported, never raised.
func (p *Portal) LoadStudent(ctx context.Context, v Visitor, q EventQuery) map[cache.Collection]error {
	return p.sessions.Cache(v.SessionID).ReloadAll(ctx,
		p.eventsJob(v, q),
		p.myRegistrationsJob(v),
		p.announcementsJob(v),
		p.discussionsJob(v),
	)
}

// FilterEvents reloads only the events list with a new category and sort.
func (p *Portal) FilterEvents(ctx context.Context, v Visitor, q EventQuery) error {
	if err := p.sessions.Cache(v.SessionID).Reload(ctx, p.eventsJob(v, q)); err != nil {
		p.logger.Warn().Err(err).Msg("Events reload failed; keeping previous snapshot.")
		return err
	}
	return nil
}

// StudentPage builds the student dashboard from the cache without touching the network.
// search filters the cached events; ticketID opens the ticket dialog of a registration.
func (p *Portal) StudentPage(v Visitor, search, ticketID string) view.StudentPage {
	c := p.sessions.Cache(v.SessionID)
	query := c.Query(cache.Events)

	return view.StudentDashboard(view.StudentInput{
		User:          v.Identity,
		Events:        cache.List[model.Event](c, cache.Events),
		Registrations: cache.List[model.Registration](c, cache.Registrations),
		Announcements: cache.List[model.Announcement](c, cache.Announcements),
		Discussions:   cache.List[model.DiscussionMessage](c, cache.Discussions),
		Search:        search,
		Category:      query.Get("category"),
		Sort:          query.Get("sort"),
		Ticket:        ticketID,
		Now:           p.now(),
	})
}

// StudentLoaded reports whether the dashboard has been loaded for this session.
func (p *Portal) StudentLoaded(v Visitor) bool {
	return p.sessions.Cache(v.SessionID).Loaded(cache.Events)
}

// Register signs the visitor up for an event. The service decides whether the
// registration is allowed; a rejection leaves the cache untouched. On success the
// registrations are reloaded and the new registration's id is returned for its ticket.
func (p *Portal) Register(ctx context.Context, v Visitor, eventID string) (registrationID string, notice session.Notice, err error) {
	reg, err := p.remote.Register(ctx, v.Credential, eventID)
	if err != nil {
		notice, err = failure(err, "Registration failed")
		return "", notice, err
	}

	if err := p.sessions.Cache(v.SessionID).Reload(ctx, p.myRegistrationsJob(v)); err != nil {
		p.logger.Warn().Err(err).Msg("Registrations reload after registering failed.")
	}

	p.logger.Info().Str("user_id", v.Identity.ID).Str("event_id", eventID).Msg("Registered for event.")
	return reg.ID, session.Success("Registration successful!"), nil
}

// PostDiscussion adds a message to the discussion feed and reloads it.
func (p *Portal) PostDiscussion(ctx context.Context, v Visitor, message string) (session.Notice, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return invalid(errs.NewError(errs.ErrDiscussionEmpty)), nil
	}

	if err := p.remote.PostDiscussion(ctx, v.Credential, message); err != nil {
		return failure(err, "Failed to post message")
	}

	if err := p.sessions.Cache(v.SessionID).Reload(ctx, p.discussionsJob(v)); err != nil {
		p.logger.Warn().Err(err).Msg("Discussions reload after posting failed.")
	}
	return session.Notice{}, nil
}

// Ticket encodes the ticket of a cached registration whose event is cached too.
func (p *Portal) Ticket(v Visitor, registrationID string) (png []byte, fileName string, customErr *errs.CustomError) {
	c := p.sessions.Cache(v.SessionID)
	regs := cache.List[model.Registration](c, cache.Registrations)
	events := cache.List[model.Event](c, cache.Events)

	for _, reg := range regs {
		if reg.ID != registrationID {
			continue
		}
		for _, event := range events {
			if event.ID != reg.EventID {
				continue
			}
			image, err := p.tickets.Encode(ticket.NewPayload(reg, event, v.Identity))
			if err != nil {
				p.logger.Error().Err(err).Str("registration_id", reg.ID).Msg("Ticket encoding failed.")
				return nil, "", errs.NewError(errs.ErrTicketEncodingFailed)
			}
			return image, ticket.FileName(event.Title), nil
		}
		return nil, "", errs.NewError(errs.ErrEventNotFound)
	}
	return nil, "", errs.NewError(errs.ErrRegistrationNotFound)
}
