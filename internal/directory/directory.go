// Package directory holds the static registry of known Malda Mingle users.
// There is no federated backend; these profiles stand in for the wider
// network and feed the discover pool, random matching and simulated
// friend requests.
package directory

import (
	"math/rand"
	"time"

	"maldamingle/internal/domain"
)

var users = []domain.Profile{
	{
		ID:        "m1",
		Name:      "Rahul Roy",
		Age:       24,
		Gender:    domain.GenderMale,
		Station:   domain.StationEnglishBazar,
		Bio:       "Loves cricket and evening walks near Mahananda river.",
		Interests: []string{"Cricket", "Music"},
		Photos: []string{
			"https://picsum.photos/400/600?random=1",
			"https://picsum.photos/400/600?random=2",
			"https://picsum.photos/400/600?random=3",
		},
	},
	{
		ID:        "f1",
		Name:      "Priya Das",
		Age:       22,
		Gender:    domain.GenderFemale,
		Station:   domain.StationOldMalda,
		Bio:       "Foodie. Looking for someone to share momos with.",
		Interests: []string{"Food", "Travel"},
		Photos: []string{
			"https://picsum.photos/400/600?random=4",
			"https://picsum.photos/400/600?random=5",
			"https://picsum.photos/400/600?random=6",
		},
	},
	{
		ID:        "m2",
		Name:      "Amit Sk",
		Age:       26,
		Gender:    domain.GenderMale,
		Station:   domain.StationKaliachak,
		Bio:       "Simple living, high thinking.",
		Interests: []string{"Reading", "Tech"},
		Photos: []string{
			"https://picsum.photos/400/600?random=7",
			"https://picsum.photos/400/600?random=8",
			"https://picsum.photos/400/600?random=9",
		},
	},
	{
		ID:        "f2",
		Name:      "Sneha Mondal",
		Age:       23,
		Gender:    domain.GenderFemale,
		Station:   domain.StationGazole,
		Bio:       "Nature lover. Mango season is my favorite season.",
		Interests: []string{"Nature", "Photography"},
		Photos: []string{
			"https://picsum.photos/400/600?random=10",
			"https://picsum.photos/400/600?random=11",
			"https://picsum.photos/400/600?random=12",
		},
	},
}

// All returns every known user in registry order.
func All() []domain.Profile {
	out := make([]domain.Profile, len(users))
	copy(out, users)
	return out
}

// Get looks up a known user by ID.
func Get(id string) (domain.Profile, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.Profile{}, false
}

// Random returns a uniformly random known user.
func Random() domain.Profile {
	return users[rand.Intn(len(users))]
}

// DiscoverPool returns the users eligible for a new friend request: everyone
// except self, existing friends and anyone with a pending incoming request.
func DiscoverPool(selfID string, friends, incoming []string) []domain.Profile {
	excluded := func(id string) bool {
		if id == selfID {
			return true
		}
		for _, f := range friends {
			if f == id {
				return true
			}
		}
		for _, r := range incoming {
			if r == id {
				return true
			}
		}
		return false
	}
	var pool []domain.Profile
	for _, u := range users {
		if !excluded(u.ID) {
			pool = append(pool, u)
		}
	}
	return pool
}

// SeedLoungeMessages returns the two welcome messages the public lounge
// starts with, timestamped relative to now.
func SeedLoungeMessages(now time.Time) []domain.Message {
	ms := now.UnixMilli()
	return []domain.Message{
		{ID: "1", SenderID: "m1", SenderName: "Rahul Roy", Text: "Anyone up for a chat?", Timestamp: ms - 100000},
		{ID: "2", SenderID: "f1", SenderName: "Priya Das", Text: "Hello everyone from Old Malda!", Timestamp: ms - 50000},
	}
}
