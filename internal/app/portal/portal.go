/*
Package portal holds the page controllers of the events portal.

Controllers orchestrate one page each: they read the session, call the remote service,
reload the affected cache collections and hand snapshots to the view builders. Every
user-facing outcome comes back as a session.Notice; nothing here blocks on the user.
*/
package portal

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"buzzportal/internal/app/api"
	"buzzportal/internal/app/model"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/storage"
	"buzzportal/internal/app/ticket"
	"buzzportal/internal/app/user"
	"buzzportal/internal/pkg/errs"
	"buzzportal/internal/pkg/logx"
)

// ErrSignedOut is returned when an action needs a credential the session does not hold.
// Callers send the browser to the login page.
var ErrSignedOut = errors.New("portal: signed out")

// Remote is the part of the events service client the controllers use.
type Remote interface {
	Login(ctx context.Context, in api.Credentials) (api.LoginResult, error)
	Signup(ctx context.Context, in api.SignupInput) (api.SignupResult, error)

	ListEvents(ctx context.Context, credential string, query url.Values) ([]model.Event, error)
	CreateEvent(ctx context.Context, credential string, in model.EventInput) error
	UpdateEvent(ctx context.Context, credential, id string, in model.EventInput) error
	DeleteEvent(ctx context.Context, credential, id string) error

	ListRegistrations(ctx context.Context, credential string) ([]model.Registration, error)
	ListMyRegistrations(ctx context.Context, credential string) ([]model.Registration, error)
	Register(ctx context.Context, credential, eventID string) (model.Registration, error)

	ListAnnouncements(ctx context.Context, credential string) ([]model.Announcement, error)
	PostAnnouncement(ctx context.Context, credential, title, body string) error
	DeleteAnnouncement(ctx context.Context, credential, id string) error

	ListDiscussions(ctx context.Context, credential string) ([]model.DiscussionMessage, error)
	PostDiscussion(ctx context.Context, credential, message string) error
	DeleteDiscussion(ctx context.Context, credential, id string) error

	ListUsers(ctx context.Context, credential string, role user.Role) ([]user.Identity, error)
}

// Visitor is a request's browser session together with its signed-in session.
type Visitor struct {
	SessionID string
	session.Session
}

// Portal owns the page controllers.
type Portal struct {
	remote   Remote
	sessions *session.Store
	covers   storage.CoverStore
	tickets  ticket.Encoder
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures a Portal.
type Option func(*Portal)

// WithClock replaces the wall clock used for rendering.
func WithClock(now func() time.Time) Option {
	return func(p *Portal) { p.now = now }
}

// WithCoverStore enables event cover uploads.
func WithCoverStore(covers storage.CoverStore) Option {
	return func(p *Portal) { p.covers = covers }
}

// WithTicketEncoder replaces the QR ticket encoder.
func WithTicketEncoder(enc ticket.Encoder) Option {
	return func(p *Portal) { p.tickets = enc }
}

// New creates a Portal.
func New(remote Remote, sessions *session.Store, opts ...Option) *Portal {
	p := &Portal{
		remote:   remote,
		sessions: sessions,
		tickets:  ticket.NewQREncoder(),
		now:      time.Now,
		logger:   logx.Component("portal"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CoversEnabled reports whether cover uploads are available.
func (p *Portal) CoversEnabled() bool {
	return p.covers != nil
}

// Sessions returns the session store.
func (p *Portal) Sessions() *session.Store {
	return p.sessions
}

// failure turns a failed remote call into the notice the user sees.
// It returns ErrSignedOut instead when the call never left for lack of a credential.
func failure(err error, fallback string) (session.Notice, error) {
	switch api.KindOf(err) {
	case api.Unauthenticated:
		return session.Notice{}, ErrSignedOut
	case api.Unreachable:
		return session.Failure(errs.NewError(errs.ErrServiceUnreachable).Message), nil
	case api.Rejected:
		return session.Failure(api.MessageOf(err, fallback)), nil
	default:
		return session.Failure(errs.NewError(errs.ErrUnknown, err).Message), nil
	}
}

// invalid turns a portal-side validation error into a notice.
func invalid(customErr *errs.CustomError) session.Notice {
	return session.Failure(customErr.Message)
}
