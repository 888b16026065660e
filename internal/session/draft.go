package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"maldamingle/internal/domain"
)

var (
	ErrNotOnboarding     = errors.New("not onboarding")
	ErrStepIncomplete    = errors.New("name, age and police station are required first")
	ErrBioInputs         = errors.New("enter your name and some interests first")
	ErrBioInFlight       = errors.New("bio generation already in progress")
	ErrPhotoLimit        = errors.New("at most 4 photos allowed")
	ErrPhotoIndex        = errors.New("no photo at that index")
	ErrPhotosRequired    = errors.New("upload at least 1 photo to continue")
	ErrProfileIncomplete = errors.New("complete all required fields first")
)

// Draft is the in-progress onboarding form. Step 0 collects identity, step 1
// enrichment; going back from step 1 keeps everything entered so far.
type Draft struct {
	Step          int             `json:"step"`
	Name          string          `json:"name"`
	Age           int             `json:"age"`
	Gender        domain.Gender   `json:"gender"`
	Station       domain.Station  `json:"police_station"`
	Bio           string          `json:"bio"`
	Interests     string          `json:"interests"` // raw comma-separated input
	Photos        []string        `json:"photos"`
	PhoneNumber   string          `json:"phone_number,omitempty"`
	password      string
	GeneratingBio bool `json:"generating_bio"`
}

func NewDraft() *Draft {
	return &Draft{Gender: domain.GenderMale}
}

// identityComplete is the step-0 gate: name, adult age and a valid station.
func (d *Draft) identityComplete() bool {
	return d.Name != "" && d.Age >= domain.MinAge && d.Station.Valid()
}

// DraftPatch carries partial form updates; nil fields are left alone.
type DraftPatch struct {
	Step        *int            `json:"step"`
	Name        *string         `json:"name"`
	Age         *int            `json:"age"`
	Gender      *domain.Gender  `json:"gender"`
	Station     *domain.Station `json:"police_station"`
	Bio         *string         `json:"bio"`
	Interests   *string         `json:"interests"`
	PhoneNumber *string         `json:"phone_number"`
	Password    *string         `json:"password"`
}

// Draft returns a copy of the current onboarding form.
func (s *Session) Draft() (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewOnboarding || s.draft == nil {
		return Draft{}, ErrNotOnboarding
	}
	d := *s.draft
	d.Photos = append([]string(nil), s.draft.Photos...)
	return d, nil
}

// UpdateDraft applies a partial form update. Advancing to step 1 requires the
// identity fields; going back to step 0 is always allowed and destroys
// nothing. Bio edits are accepted even while generation is in flight. The
// patch is staged on a copy and committed whole: a rejected patch leaves the
// draft exactly as it was, including fields that were valid on their own.
func (s *Session) UpdateDraft(patch DraftPatch) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewOnboarding || s.draft == nil {
		return Draft{}, ErrNotOnboarding
	}
	d := *s.draft
	if patch.Name != nil {
		d.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Age != nil {
		d.Age = *patch.Age
	}
	if patch.Gender != nil {
		if !patch.Gender.Valid() {
			return Draft{}, ErrInvalidValue
		}
		d.Gender = *patch.Gender
	}
	if patch.Station != nil {
		if !patch.Station.Valid() {
			return Draft{}, ErrInvalidValue
		}
		d.Station = *patch.Station
	}
	if patch.Bio != nil {
		d.Bio = *patch.Bio
	}
	if patch.Interests != nil {
		d.Interests = *patch.Interests
	}
	if patch.PhoneNumber != nil {
		d.PhoneNumber = strings.TrimSpace(*patch.PhoneNumber)
	}
	if patch.Password != nil {
		d.password = *patch.Password
	}
	if patch.Step != nil {
		switch *patch.Step {
		case 0:
			d.Step = 0
		case 1:
			if !d.identityComplete() {
				return Draft{}, ErrStepIncomplete
			}
			d.Step = 1
		default:
			return Draft{}, ErrInvalidValue
		}
	}
	*s.draft = d
	out := d
	out.Photos = append([]string(nil), d.Photos...)
	return out, nil
}

// AddPhoto appends an uploaded image reference, up to the limit of 4.
func (s *Session) AddPhoto(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewOnboarding || s.draft == nil {
		return ErrNotOnboarding
	}
	if len(s.draft.Photos) >= domain.MaxPhotos {
		return ErrPhotoLimit
	}
	s.draft.Photos = append(s.draft.Photos, ref)
	return nil
}

// RemovePhoto drops the photo at index, preserving the order of the rest.
func (s *Session) RemovePhoto(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewOnboarding || s.draft == nil {
		return ErrNotOnboarding
	}
	if index < 0 || index >= len(s.draft.Photos) {
		return ErrPhotoIndex
	}
	s.draft.Photos = append(s.draft.Photos[:index], s.draft.Photos[index+1:]...)
	return nil
}

// GenerateDraftBio fills the bio from the text service. The call runs
// without the lock so other field edits are never blocked; the result is
// dropped if the draft went away or a newer session epoch started meanwhile.
func (s *Session) GenerateDraftBio(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.view != domain.ViewOnboarding || s.draft == nil {
		s.mu.Unlock()
		return "", ErrNotOnboarding
	}
	if s.draft.GeneratingBio {
		s.mu.Unlock()
		return "", ErrBioInFlight
	}
	if s.draft.Name == "" || strings.TrimSpace(s.draft.Interests) == "" {
		s.mu.Unlock()
		return "", ErrBioInputs
	}
	s.draft.GeneratingBio = true
	epoch := s.epoch
	name, interests, station := s.draft.Name, s.draft.Interests, s.draft.Station
	s.mu.Unlock()

	bio := s.text.GenerateBio(ctx, interests, string(station), name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || s.draft == nil {
		return "", ErrNotOnboarding
	}
	s.draft.GeneratingBio = false
	s.draft.Bio = bio
	return bio, nil
}

// CompleteOnboarding validates the draft, assembles and persists the profile
// and moves the session to the dashboard. Validation failures leave every
// piece of state untouched.
func (s *Session) CompleteOnboarding() (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != domain.ViewOnboarding || s.draft == nil {
		return nil, ErrNotOnboarding
	}
	d := s.draft
	if !d.identityComplete() {
		return nil, ErrProfileIncomplete
	}
	if d.Age < domain.MinAge {
		return nil, domain.ErrUnderage
	}
	if len(d.Photos) < domain.MinPhotos {
		return nil, ErrPhotosRequired
	}
	p := &domain.Profile{
		ID:          uuid.New().String(),
		Name:        d.Name,
		Age:         d.Age,
		Gender:      d.Gender,
		Station:     d.Station,
		Bio:         d.Bio,
		Interests:   SplitInterests(d.Interests),
		Photos:      append([]string(nil), d.Photos...),
		PhoneNumber: d.PhoneNumber,
	}
	if d.password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = string(hash)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Save(s.id, p); err != nil {
		return nil, err
	}
	s.enterDashboardLocked(p)
	return p, nil
}

// SplitInterests turns the raw comma-separated input into the ordered
// interest list: split, trim, drop empties, keep duplicates.
func SplitInterests(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
