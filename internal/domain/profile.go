package domain

import "errors"

var (
	ErrUnderage     = errors.New("must be 18 or older")
	ErrNoPhotos     = errors.New("at least 1 photo required")
	ErrTooManyPhoto = errors.New("at most 4 photos allowed")
)

// Profile is the active user's profile. Immutable for the session once
// onboarding completes.
type Profile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	Gender       Gender   `json:"gender"`
	Station      Station  `json:"police_station"`
	Bio          string   `json:"bio"`
	Interests    []string `json:"interests"`
	Photos       []string `json:"photos"` // opaque image references (upload URLs)
	PhoneNumber  string   `json:"phone_number,omitempty"`
	PasswordHash string   `json:"-"` // never serialized; the profile store keeps it separately
}

// Validate checks the profile invariants: adult age, 1-4 photos, known
// gender and station, non-empty name.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New("name required")
	}
	if p.Age < MinAge {
		return ErrUnderage
	}
	if !p.Gender.Valid() {
		return errors.New("invalid gender")
	}
	if !p.Station.Valid() {
		return errors.New("invalid police station")
	}
	if len(p.Photos) < MinPhotos {
		return ErrNoPhotos
	}
	if len(p.Photos) > MaxPhotos {
		return ErrTooManyPhoto
	}
	return nil
}

// Message is a single chat entry, public or private. Immutable once created.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"` // unix milliseconds
	IsSystem   bool   `json:"is_system,omitempty"`
}

// ChatSession is the single active private conversation. At most one exists
// per session; discarded on close, never persisted.
type ChatSession struct {
	ID          string    `json:"id"`
	Participant Profile   `json:"participant"`
	Messages    []Message `json:"messages"`
}
