// Package session owns all per-user state: the view-state machine, the
// onboarding draft, the social graph and the conversation state. Nothing in
// here is durable except the completed profile, which goes through the
// ProfileStore. Each Session is the single owner of its timers; every timer
// is cancelled when the state it would mutate is torn down.
package session

import (
	"errors"
	"log"
	"sync"
	"time"

	"maldamingle/config"
	"maldamingle/internal/directory"
	"maldamingle/internal/domain"
	"maldamingle/internal/repository"
	"maldamingle/pkg/gemini"
)

var (
	ErrBadTransition = errors.New("invalid view transition")
	ErrNotDashboard  = errors.New("not on dashboard")
	ErrInvalidValue  = errors.New("invalid value")
)

// Notifier pushes server-simulated events (request arrivals, match results,
// scripted replies) out to the client. May be nil in tests.
type Notifier interface {
	Notify(sessionID, event string, payload interface{})
}

// Session is the explicit session-state object: one per session token,
// created on first touch and destroyed at logout.
type Session struct {
	mu sync.Mutex

	id     string
	cfg    config.MingleConfig
	store  repository.ProfileStore
	text   gemini.Service
	notify Notifier

	view    domain.ViewState
	tab     domain.DashboardTab
	msgMode domain.MessageViewMode

	user  *domain.Profile
	draft *Draft

	friends  []string
	incoming []string
	sent     []string

	lounge     []domain.Message
	activeChat *domain.ChatSession
	searching  bool

	arrivalTimer *time.Timer
	searchTimer  *time.Timer
	replyTimers  []*time.Timer

	// epoch is bumped on logout so late callbacks from a previous life of
	// this session (timers, in-flight text generation) become no-ops.
	epoch uint64
}

// View is a read-only snapshot of the state the client renders from.
type View struct {
	View       domain.ViewState       `json:"view"`
	Tab        domain.DashboardTab    `json:"tab"`
	Mode       domain.MessageViewMode `json:"message_view_mode"`
	Badge      int                    `json:"badge"`
	Searching  bool                   `json:"searching"`
	ChatActive bool                   `json:"chat_active"`
	User       *domain.Profile        `json:"user,omitempty"`
}

func (s *Session) ID() string { return s.id }

// Snapshot returns the current view state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		View:       s.view,
		Tab:        s.tab,
		Mode:       s.msgMode,
		Badge:      len(s.incoming),
		Searching:  s.searching,
		ChatActive: s.activeChat != nil,
		User:       s.user,
	}
}

// Profile returns the active profile, or nil before onboarding completes.
func (s *Session) Profile() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Enter moves landing -> onboarding and opens a fresh draft.
func (s *Session) Enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewLanding {
		return ErrBadTransition
	}
	s.view = domain.ViewOnboarding
	s.draft = NewDraft()
	return nil
}

// SetTab switches the active dashboard tab. Unrelated state is untouched:
// coming back to messages finds the same message view mode.
func (s *Session) SetTab(t domain.DashboardTab) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return ErrNotDashboard
	}
	if !t.Valid() {
		return ErrInvalidValue
	}
	s.tab = t
	return nil
}

// SetMessageViewMode switches the discover/chats/requests sub-view.
func (s *Session) SetMessageViewMode(m domain.MessageViewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return ErrNotDashboard
	}
	if !m.Valid() {
		return ErrInvalidValue
	}
	s.msgMode = m
	return nil
}

// Logout clears the stored profile and every piece of session state, cancels
// all pending timers and returns to the landing view. A later restart will
// not restore this session.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(s.id); err != nil {
		log.Printf("[session] clear stored profile %s: %v", s.id, err)
	}
	s.teardownLocked()
	return nil
}

// teardownLocked resets to the landing state. Caller holds the lock.
func (s *Session) teardownLocked() {
	s.epoch++
	s.cancelArrivalLocked()
	s.cancelSearchLocked()
	s.cancelRepliesLocked()
	s.user = nil
	s.draft = nil
	s.view = domain.ViewLanding
	s.tab = domain.TabPublic
	s.msgMode = domain.ModeDiscover
	s.friends = nil
	s.incoming = nil
	s.sent = nil
	s.lounge = nil
	s.activeChat = nil
	s.searching = false
}

// enterDashboardLocked installs a profile and moves to the dashboard: default
// tab, seeded lounge, simulated request arrival armed. Caller holds the lock.
func (s *Session) enterDashboardLocked(p *domain.Profile) {
	s.user = p
	s.draft = nil
	s.view = domain.ViewDashboard
	s.tab = domain.TabPublic
	s.msgMode = domain.ModeDiscover
	s.lounge = directory.SeedLoungeMessages(time.Now())
	s.maybeArmArrivalLocked()
}

func (s *Session) emit(event string, payload interface{}) {
	if s.notify != nil {
		s.notify.Notify(s.id, event, payload)
	}
}
