package session

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"maldamingle/config"
	"maldamingle/internal/domain"
	"maldamingle/internal/repository"
	"maldamingle/pkg/gemini"
)

// Manager owns the live sessions, keyed by session ID (the JWT subject).
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg    config.MingleConfig
	store  repository.ProfileStore
	text   gemini.Service
	notify Notifier
}

func NewManager(cfg config.MingleConfig, store repository.ProfileStore, text gemini.Service, notify Notifier) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		store:    store,
		text:     text,
		notify:   notify,
	}
}

func (m *Manager) newSession(id string) *Session {
	return &Session{
		id:      id,
		cfg:     m.cfg,
		store:   m.store,
		text:    m.text,
		notify:  m.notify,
		view:    domain.ViewLanding,
		tab:     domain.TabPublic,
		msgMode: domain.ModeDiscover,
	}
}

// Create starts a fresh anonymous session on the landing view.
func (m *Manager) Create() *Session {
	s := m.newSession(uuid.New().String())
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s
}

// Get returns the live session for id, rebuilding it from the profile store
// when the process restarted since the token was issued. A stored profile
// restores straight to the dashboard; a corrupt one is discarded with a
// warning and the session starts over on landing. The session is published
// only after the restore finishes, so no request can act on it in the
// half-restored landing state.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	s := m.newSession(id)
	p, err := m.store.Load(id)
	switch {
	case err == nil:
		s.mu.Lock()
		s.enterDashboardLocked(p)
		s.mu.Unlock()
	case errors.Is(err, repository.ErrCorruptProfile):
		log.Printf("[session] stored profile for %s is corrupt, discarding: %v", id, err)
		if err := m.store.Clear(id); err != nil {
			log.Printf("[session] discard corrupt profile %s: %v", id, err)
		}
	case errors.Is(err, repository.ErrNotFound):
		// nothing stored; stay on landing
	default:
		log.Printf("[session] load stored profile %s: %v", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		// Another request restored the same id first. Tear down the loser so
		// its arrival timer can never fire for the published session's id.
		s.mu.Lock()
		s.teardownLocked()
		s.mu.Unlock()
		return existing
	}
	m.sessions[id] = s
	return s
}
