package tripview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Factory builds the session for a freshly allocated id.
type Factory func(id string) *Session

// Store keeps the live sessions of the web API and expires the idle ones.
type Store struct {
	TTL time.Duration

	factory Factory

	mutex    sync.Mutex
	sessions map[string]*Session
}

func NewStore(ttl time.Duration, factory Factory) *Store {
	return &Store{
		TTL:      ttl,
		factory:  factory,
		sessions: map[string]*Session{},
	}
}

func (st *Store) Create() *Session {
	id := uuid.NewString()
	session := st.factory(id)
	session.ID = id

	st.mutex.Lock()
	st.sessions[id] = session
	st.mutex.Unlock()

	log.Debug().Str("session", id).Msg("Session created")

	return session
}

// Get returns the session and marks it as active.
func (st *Store) Get(id string) (*Session, bool) {
	st.mutex.Lock()
	session, ok := st.sessions[id]
	st.mutex.Unlock()

	if ok {
		session.Touch()
	}

	return session, ok
}

func (st *Store) Delete(id string) bool {
	st.mutex.Lock()
	session, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mutex.Unlock()

	if ok {
		session.Close()
	}

	return ok
}

func (st *Store) Len() int {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	return len(st.sessions)
}

// Sweep closes every session idle for longer than the TTL and returns how many
// were removed.
func (st *Store) Sweep(now time.Time) int {
	var expired []*Session

	st.mutex.Lock()
	for id, session := range st.sessions {
		if session.IdleSince(now) > st.TTL {
			expired = append(expired, session)
			delete(st.sessions, id)
		}
	}
	st.mutex.Unlock()

	for _, session := range expired {
		session.Close()
	}

	if len(expired) > 0 {
		log.Info().Int("length", len(expired)).Msg("Expired idle sessions")
	}

	return len(expired)
}

// Run sweeps on every interval until ctx is done, then closes what is left.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st.CloseAll()
			return
		case now := <-ticker.C:
			st.Sweep(now)
		}
	}
}

func (st *Store) CloseAll() {
	st.mutex.Lock()
	sessions := st.sessions
	st.sessions = map[string]*Session{}
	st.mutex.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
