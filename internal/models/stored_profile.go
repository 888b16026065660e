package models

import "time"

// StoredProfile is the single durable record per session: the serialized
// profile under its session key. Everything else (friends, requests, chats)
// is session-only and never reaches the database.
type StoredProfile struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"-"` // JSON-encoded domain.Profile
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StoredProfile) TableName() string {
	return "stored_profiles"
}
