package session

import (
	"errors"
	"time"

	"maldamingle/internal/directory"
	"maldamingle/internal/domain"
)

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrNotRequested = errors.New("no pending request from this user")
	ErrNotEligible  = errors.New("user is not eligible for a request")
)

// SocialView is what the messages tab renders from: the three ID lists plus
// the resolved discover pool.
type SocialView struct {
	Friends  []domain.Profile `json:"friends"`
	Incoming []domain.Profile `json:"incoming_requests"`
	Sent     []string         `json:"sent_requests"`
	Discover []DiscoverEntry  `json:"discover"`
}

// DiscoverEntry pairs a candidate with whether a request was already sent,
// so the client can flip Connect to Sent.
type DiscoverEntry struct {
	User      domain.Profile `json:"user"`
	Requested bool           `json:"requested"`
}

// Social returns the current social graph snapshot.
func (s *Session) Social() (SocialView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return SocialView{}, ErrNotDashboard
	}
	v := SocialView{Sent: append([]string(nil), s.sent...)}
	for _, id := range s.friends {
		if u, ok := directory.Get(id); ok {
			v.Friends = append(v.Friends, u)
		}
	}
	for _, id := range s.incoming {
		if u, ok := directory.Get(id); ok {
			v.Incoming = append(v.Incoming, u)
		}
	}
	for _, u := range directory.DiscoverPool(s.user.ID, s.friends, s.incoming) {
		v.Discover = append(v.Discover, DiscoverEntry{User: u, Requested: contains(s.sent, u.ID)})
	}
	return v, nil
}

// SendRequest records an outgoing friend request. Duplicates are harmless
// and collapse to a single entry.
func (s *Session) SendRequest(targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return ErrNotDashboard
	}
	if _, ok := directory.Get(targetID); !ok {
		return ErrUnknownUser
	}
	if targetID == s.user.ID || contains(s.friends, targetID) {
		return ErrNotEligible
	}
	s.sent = appendUnique(s.sent, targetID)
	return nil
}

// AcceptRequest moves a pending incoming request into friends. Sent requests
// are untouched; there is no mutual-request reconciliation.
func (s *Session) AcceptRequest(requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return ErrNotDashboard
	}
	if !contains(s.incoming, requesterID) {
		return ErrNotRequested
	}
	s.friends = appendUnique(s.friends, requesterID)
	s.incoming = remove(s.incoming, requesterID)
	s.maybeArmArrivalLocked()
	s.emit("badge", len(s.incoming))
	return nil
}

// DeclineRequest drops a pending incoming request. Friends and sent requests
// are unchanged.
func (s *Session) DeclineRequest(requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return ErrNotDashboard
	}
	if !contains(s.incoming, requesterID) {
		return ErrNotRequested
	}
	s.incoming = remove(s.incoming, requesterID)
	s.maybeArmArrivalLocked()
	s.emit("badge", len(s.incoming))
	return nil
}

// maybeArmArrivalLocked schedules the simulated incoming request. At most one
// timer exists; it is armed whenever the dashboard is active, no request is
// pending and an eligible candidate remains. Caller holds the lock.
func (s *Session) maybeArmArrivalLocked() {
	if s.view != domain.ViewDashboard || s.arrivalTimer != nil || len(s.incoming) > 0 {
		return
	}
	if len(directory.DiscoverPool(s.user.ID, s.friends, s.incoming)) == 0 {
		return
	}
	epoch := s.epoch
	s.arrivalTimer = time.AfterFunc(s.cfg.RequestArrivalDelay, func() {
		s.deliverSimulatedRequest(epoch)
	})
}

func (s *Session) deliverSimulatedRequest(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arrivalTimer = nil
	// The precondition may have been invalidated while the timer was pending.
	if epoch != s.epoch || s.view != domain.ViewDashboard || len(s.incoming) > 0 {
		return
	}
	pool := directory.DiscoverPool(s.user.ID, s.friends, s.incoming)
	if len(pool) == 0 {
		return
	}
	requester := pool[0]
	s.incoming = appendUnique(s.incoming, requester.ID)
	s.emit("request.arrived", requester)
	s.emit("badge", len(s.incoming))
}

func (s *Session) cancelArrivalLocked() {
	if s.arrivalTimer != nil {
		s.arrivalTimer.Stop()
		s.arrivalTimer = nil
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func appendUnique(ids []string, id string) []string {
	if contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
