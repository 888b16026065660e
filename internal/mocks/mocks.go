package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"maldamingle/internal/domain"
	"maldamingle/internal/repository"
)

// MemStore is an in-memory ProfileStore. It serializes like the real one so
// corrupt-value recovery can be exercised by seeding garbage.
type MemStore struct {
	mu   sync.Mutex
	data map[string]string

	LoadErr  error
	SaveErr  error
	ClearErr error
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (s *MemStore) Load(key string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	raw, ok := s.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var p domain.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCorruptProfile, err)
	}
	if p.ID == "" {
		return nil, repository.ErrCorruptProfile
	}
	return &p, nil
}

func (s *MemStore) Save(key string, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	s.data[key] = string(raw)
	return nil
}

func (s *MemStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClearErr != nil {
		return s.ClearErr
	}
	delete(s.data, key)
	return nil
}

// SeedRaw stores an unvalidated value, e.g. corrupt JSON.
func (s *MemStore) SeedRaw(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Has reports whether anything is stored under key.
func (s *MemStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// StaticTextService returns fixed strings without any network.
type StaticTextService struct {
	Bio        string
	Icebreaker string
}

func (s *StaticTextService) GenerateBio(ctx context.Context, interests, station, name string) string {
	return s.Bio
}

func (s *StaticTextService) GenerateIcebreaker(ctx context.Context) string {
	return s.Icebreaker
}

// TextServiceMock is a testify mock for tests asserting on call arguments.
type TextServiceMock struct {
	mock.Mock
}

func (m *TextServiceMock) GenerateBio(ctx context.Context, interests, station, name string) string {
	args := m.Called(ctx, interests, station, name)
	return args.String(0)
}

func (m *TextServiceMock) GenerateIcebreaker(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

// RecordedEvent is one Notify call seen by RecordingNotifier.
type RecordedEvent struct {
	SessionID string
	Event     string
	Payload   interface{}
}

// RecordingNotifier captures pushed events for assertions.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []RecordedEvent
}

func (n *RecordingNotifier) Notify(sessionID, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, RecordedEvent{SessionID: sessionID, Event: event, Payload: payload})
}

func (n *RecordingNotifier) Events(event string) []RecordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []RecordedEvent
	for _, e := range n.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
