package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{
		ID:      "u-1",
		Name:    "Test",
		Age:     20,
		Gender:  GenderFemale,
		Station: StationChanchal,
		Photos:  []string{"ref"},
	}
}

func TestProfileValidate(t *testing.T) {
	p := validProfile()
	require.NoError(t, p.Validate())

	p = validProfile()
	p.Age = 17
	assert.ErrorIs(t, p.Validate(), ErrUnderage)

	p = validProfile()
	p.Photos = nil
	assert.ErrorIs(t, p.Validate(), ErrNoPhotos)

	p = validProfile()
	p.Photos = []string{"a", "b", "c", "d", "e"}
	assert.ErrorIs(t, p.Validate(), ErrTooManyPhoto)

	p = validProfile()
	p.Name = ""
	assert.Error(t, p.Validate())

	p = validProfile()
	p.Station = "Kolkata"
	assert.Error(t, p.Validate())

	p = validProfile()
	p.Gender = "x"
	assert.Error(t, p.Validate())
}

func TestStations(t *testing.T) {
	assert.Len(t, Stations, 13)
	for _, s := range Stations {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Station("Siliguri").Valid())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, ViewDashboard.Valid())
	assert.False(t, ViewState("home").Valid())
	assert.True(t, TabMessages.Valid())
	assert.False(t, DashboardTab("settings").Valid())
	assert.True(t, ModeRequests.Valid())
	assert.False(t, MessageViewMode("archive").Valid())
}

func TestProfileJSONRoundTrip(t *testing.T) {
	p := validProfile()
	p.Interests = []string{"Cricket", "Music"}
	p.PasswordHash = "bcrypt-digest"

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"police_station":"Chanchal"`)
	// The hash stays out of every serialized profile.
	assert.NotContains(t, string(b), "password_hash")
	assert.NotContains(t, string(b), "bcrypt-digest")

	var got Profile
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Empty(t, got.PasswordHash)
	p.PasswordHash = ""
	assert.Equal(t, p, got)
}
