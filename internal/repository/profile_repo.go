package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"maldamingle/internal/domain"
	"maldamingle/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means no profile is stored under the key.
	ErrNotFound = errors.New("profile not found")
	// ErrCorruptProfile means a value is stored but cannot be decoded.
	// Callers recover by discarding the value, not by failing.
	ErrCorruptProfile = errors.New("stored profile is corrupt")
)

// ProfileStore persists the serialized profile under a session key. The rest
// of the system treats it as an opaque key-value store.
type ProfileStore interface {
	Load(key string) (*domain.Profile, error)
	Save(key string, p *domain.Profile) error
	Clear(key string) error
}

// storedValue is the persisted JSON shape. The password hash is excluded
// from the profile's own serialization, so the envelope carries it.
type storedValue struct {
	domain.Profile
	PasswordHash string `json:"password_hash,omitempty"`
}

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Load(key string) (*domain.Profile, error) {
	var rec models.StoredProfile
	err := r.db.First(&rec, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var v storedValue
	if err := json.Unmarshal([]byte(rec.Value), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptProfile, err)
	}
	if v.ID == "" {
		return nil, ErrCorruptProfile
	}
	p := v.Profile
	p.PasswordHash = v.PasswordHash
	return &p, nil
}

func (r *ProfileRepository) Save(key string, p *domain.Profile) error {
	raw, err := json.Marshal(storedValue{Profile: *p, PasswordHash: p.PasswordHash})
	if err != nil {
		return err
	}
	rec := models.StoredProfile{Key: key, Value: string(raw)}
	return r.db.Save(&rec).Error
}

func (r *ProfileRepository) Clear(key string) error {
	return r.db.Delete(&models.StoredProfile{}, "`key` = ?", key).Error
}
