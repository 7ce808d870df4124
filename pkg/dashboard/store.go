package dashboard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/seasonx/seasonx/pkg/market"
)

// DefaultSessionID names the session that always exists.
const DefaultSessionID = "default"

var (
	// ErrSessionNotFound is returned for an unknown session ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrDefaultSession is returned when removing the default session.
	ErrDefaultSession = errors.New("the default session cannot be removed")
)

// Store owns every live session.
type Store struct {
	provider market.Provider

	mu       sync.RWMutex
	sector   string
	loc      *time.Location
	sessions map[string]*Session
}

// NewStore creates a store holding only the default session.
func NewStore(provider market.Provider, defaultSector string, loc *time.Location) *Store {
	st := &Store{
		provider: provider,
		sector:   defaultSector,
		loc:      loc,
		sessions: make(map[string]*Session),
	}
	st.sessions[DefaultSessionID] = NewSession(DefaultSessionID, provider, defaultSector, loc)
	return st
}

// SetDefaults changes the sector and time zone of sessions created from now
// on. Live sessions keep theirs.
func (st *Store) SetDefaults(sector string, loc *time.Location) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sector = sector
	st.loc = loc
}

// Create adds a session with a random ID and loads its rows.
func (st *Store) Create(ctx context.Context) (*Session, error) {
	st.mu.RLock()
	sector, loc := st.sector, st.loc
	st.mu.RUnlock()

	s := NewSession(uuid.NewString(), st.provider, sector, loc)
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.mu.Unlock()

	logrus.WithField("session", s.ID()).Info("session created")
	return s, nil
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (st *Store) Delete(id string) error {
	if id == DefaultSessionID {
		return ErrDefaultSession
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	logrus.WithField("session", id).Info("session removed")
	return nil
}

// IDs returns the session IDs, default first, the rest sorted.
func (st *Store) IDs() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		if id != DefaultSessionID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return append([]string{DefaultSessionID}, ids...)
}

// RefreshAll reloads the rows of every session. It keeps going after a
// failure and returns the errors joined.
func (st *Store) RefreshAll(ctx context.Context) error {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.RUnlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Refresh(ctx); err != nil {
			logrus.WithField("session", s.ID()).Errorf("refresh failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
