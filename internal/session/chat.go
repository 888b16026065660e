package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"maldamingle/internal/directory"
	"maldamingle/internal/domain"
)

var (
	ErrEmptyMessage     = errors.New("message text is empty")
	ErrNoActiveChat     = errors.New("no active chat")
	ErrSearchInProgress = errors.New("already searching for a match")
)

const autoReplyText = "That sounds interesting! Tell me more about yourself."

// Lounge returns the public message log.
func (s *Session) Lounge() ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return nil, ErrNotDashboard
	}
	return append([]domain.Message(nil), s.lounge...), nil
}

// PostLounge appends one message from the current user to the public log.
// Whitespace-only text is rejected without mutating anything.
func (s *Session) PostLounge(text string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return nil, ErrNotDashboard
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	msg := domain.Message{
		ID:         uuid.New().String(),
		SenderID:   s.user.ID,
		SenderName: s.user.Name,
		Text:       text,
		Timestamp:  time.Now().UnixMilli(),
	}
	s.lounge = append(s.lounge, msg)
	s.emit("lounge.message", msg)
	return &msg, nil
}

// ActiveChat returns a copy of the open private chat, or nil.
func (s *Session) ActiveChat() *domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeChat == nil {
		return nil
	}
	c := *s.activeChat
	c.Messages = append([]domain.Message(nil), s.activeChat.Messages...)
	return &c
}

// OpenChat starts a direct chat with a known user, replacing any chat that
// was already open. The old chat's pending reply is cancelled with it. Every
// chat gets a fresh ID: a reply whose timer already fired against an earlier
// chat with the same participant must not pass the delivery guard here.
func (s *Session) OpenChat(participantID string) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return nil, ErrNotDashboard
	}
	participant, ok := directory.Get(participantID)
	if !ok {
		return nil, ErrUnknownUser
	}
	s.cancelRepliesLocked()
	s.activeChat = &domain.ChatSession{
		ID:          uuid.New().String(),
		Participant: participant,
		Messages:    []domain.Message{},
	}
	c := *s.activeChat
	return &c, nil
}

// OpenRandomChat kicks off the simulated match search: after the search
// delay a random known user is picked, an icebreaker is fetched (with a
// fixed fallback on failure) and a chat opens seeded with one system
// message. The result is dropped if the session was torn down meanwhile.
func (s *Session) OpenRandomChat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return ErrNotDashboard
	}
	if s.searching {
		return ErrSearchInProgress
	}
	s.searching = true
	epoch := s.epoch
	s.searchTimer = time.AfterFunc(s.cfg.MatchSearchDelay, func() {
		s.resolveRandomMatch(epoch)
	})
	return nil
}

func (s *Session) resolveRandomMatch(epoch uint64) {
	s.mu.Lock()
	if epoch != s.epoch || !s.searching {
		s.mu.Unlock()
		return
	}
	s.searchTimer = nil
	match := directory.Random()
	s.mu.Unlock()

	// The text call must not hold the lock: the session stays interactive
	// while the icebreaker request is in flight.
	icebreaker := s.text.GenerateIcebreaker(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || !s.searching {
		return
	}
	s.searching = false
	s.cancelRepliesLocked()
	s.activeChat = &domain.ChatSession{
		ID:          uuid.New().String(),
		Participant: match,
		Messages: []domain.Message{{
			ID:         "sys",
			SenderID:   domain.SystemSenderID,
			SenderName: domain.SystemSenderName,
			Text:       fmt.Sprintf("Matched with %s from %s. Icebreaker: %s", match.Name, match.Station, icebreaker),
			Timestamp:  time.Now().UnixMilli(),
			IsSystem:   true,
		}},
	}
	c := *s.activeChat
	s.emit("match.found", c)
}

// SendPrivate appends the user's message to the active chat and schedules
// the participant's scripted reply. The reply only lands if the same chat is
// still open when its delay elapses.
func (s *Session) SendPrivate(text string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewDashboard {
		return nil, ErrNotDashboard
	}
	if s.activeChat == nil {
		return nil, ErrNoActiveChat
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	msg := domain.Message{
		ID:         uuid.New().String(),
		SenderID:   s.user.ID,
		SenderName: s.user.Name,
		Text:       text,
		Timestamp:  time.Now().UnixMilli(),
	}
	s.activeChat.Messages = append(s.activeChat.Messages, msg)

	chatID := s.activeChat.ID
	epoch := s.epoch
	s.replyTimers = append(s.replyTimers, time.AfterFunc(s.cfg.AutoReplyDelay, func() {
		s.deliverAutoReply(epoch, chatID)
	}))
	return &msg, nil
}

func (s *Session) deliverAutoReply(epoch uint64, chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || s.activeChat == nil || s.activeChat.ID != chatID {
		return
	}
	reply := domain.Message{
		ID:         uuid.New().String(),
		SenderID:   s.activeChat.Participant.ID,
		SenderName: s.activeChat.Participant.Name,
		Text:       autoReplyText,
		Timestamp:  time.Now().UnixMilli(),
	}
	s.activeChat.Messages = append(s.activeChat.Messages, reply)
	s.emit("chat.message", reply)
}

// CloseChat discards the active chat and cancels any pending scripted reply.
func (s *Session) CloseChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelRepliesLocked()
	s.activeChat = nil
}

func (s *Session) cancelRepliesLocked() {
	for _, t := range s.replyTimers {
		t.Stop()
	}
	s.replyTimers = nil
}

func (s *Session) cancelSearchLocked() {
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
	s.searching = false
}
