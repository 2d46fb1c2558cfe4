/*
Package session implements the portal's session store.

Each browser session owns one slot holding the serialized identity under "currentUser"
and the bearer credential under "token". The slot also carries the session's entity cache and its pending notices.
Slots live in memory only and are swept once idle, so nothing survives a restart.
*/
package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"buzzportal/internal/app/cache"
	"buzzportal/internal/app/user"
	"buzzportal/internal/pkg/auth/jwt"
	"buzzportal/internal/pkg/logx"
)

const (
	// KeyCurrentUser stores the JSON-encoded Identity.
	KeyCurrentUser = "currentUser"

	// KeyToken stores the bearer credential.
	KeyToken = "token"

	// sweepInterval is how often idle slots are looked for.
	sweepInterval = time.Minute
)

// ErrIncompleteIdentity is returned by Set for identities the gate could never accept.
var ErrIncompleteIdentity = errors.New("session: identity or credential incomplete")

// Session is the authenticated identity paired with its credential.
type Session struct {
	Identity   user.Identity
	Credential string
}

// slot is the storage of one browser session.
type slot struct {
	values   map[string]string
	cache    *cache.Cache
	notices  []Notice
	lastSeen time.Time
}

// Store keeps one slot per browser session id.
type Store struct {
	// mu protects slots.
	mu sync.Mutex

	slots map[string]*slot

	// idleTimeout is how long an untouched slot survives.
	idleTimeout time.Duration

	now func() time.Time

	// stop ends the sweep loop; wg waits for it.
	stop chan struct{}
	wg   sync.WaitGroup

	logger zerolog.Logger
}

// NewStore creates a Store and starts its sweep loop.
func NewStore(idleTimeout time.Duration) *Store {
	s := &Store{
		slots:       make(map[string]*slot),
		idleTimeout: idleTimeout,
		now:         time.Now,
		stop:        make(chan struct{}),
		logger:      logx.Component("session"),
	}

	s.wg.Add(1)
	go s.runSweepLoop()

	return s
}

// touch returns the slot for id, creating it when create is set. Callers hold mu.
func (s *Store) touch(id string, create bool) *slot {
	sl, ok := s.slots[id]
	if !ok {
		if !create {
			return nil
		}
		sl = &slot{values: make(map[string]string), cache: cache.New()}
		s.slots[id] = sl
	}
	sl.lastSeen = s.now()
	return sl
}

// Set stores identity and credential for the session, replacing any previous pair.
// The entity cache is reset so nothing loaded for an earlier identity leaks into the new one.
func (s *Store) Set(id string, identity user.Identity, credential string) error {
	if !identity.Complete() || credential == "" {
		return ErrIncompleteIdentity
	}

	encoded, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.touch(id, true)
	sl.values[KeyCurrentUser] = string(encoded)
	sl.values[KeyToken] = credential
	sl.cache = cache.New()

	s.logger.Info().Str("user_id", identity.ID).Str("role", string(identity.Role)).Msg("Session established.")
	return nil
}

// Get returns the session's identity and credential.
// It fails closed: ok is false unless both values are present, the identity decodes and is
// complete, and the credential is not a JWT that has already expired.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	sl := s.touch(id, false)
	var rawUser, credential string
	if sl != nil {
		rawUser = sl.values[KeyCurrentUser]
		credential = sl.values[KeyToken]
	}
	now := s.now()
	s.mu.Unlock()

	if rawUser == "" || credential == "" {
		return Session{}, false
	}

	var identity user.Identity
	if err := json.Unmarshal([]byte(rawUser), &identity); err != nil || !identity.Complete() {
		s.logger.Warn().Str("session_id", id).Msg("Stored identity is malformed; treating session as absent.")
		return Session{}, false
	}

	if expiresAt, ok := jwt.CredentialExpiry(credential); ok && !now.Before(expiresAt) {
		s.logger.Info().Str("user_id", identity.ID).Msg("Stored credential has expired; treating session as absent.")
		return Session{}, false
	}

	return Session{Identity: identity, Credential: credential}, true
}

// Clear drops everything stored for the session.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, id)
}

// setValue writes a raw key/value pair. Used to model tampered or partial storage.
func (s *Store) setValue(id, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(id, true).values[key] = value
}

// Cache returns the session's entity cache, creating the slot if needed.
func (s *Store) Cache(id string) *cache.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.touch(id, true).cache
}

// runSweepLoop removes idle slots until Shutdown is called.
func (s *Store) runSweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

// sweep deletes slots not touched within the idle timeout.
func (s *Store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTimeout)
	removed := 0
	for id, sl := range s.slots {
		if sl.lastSeen.Before(cutoff) {
			delete(s.slots, id)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Int("remaining", len(s.slots)).Msg("Idle sessions swept.")
	}
	return removed
}

// Shutdown stops the sweep loop and waits for it to exit.
func (s *Store) Shutdown() {
	select {
	case <-s.stop:
		return
	default:
		close(s.stop)
	}
	s.wg.Wait()
	s.logger.Info().Msg("Session store stopped.")
}
