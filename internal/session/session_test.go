package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"maldamingle/config"
	"maldamingle/internal/domain"
	"maldamingle/internal/mocks"
)

var testCfg = config.MingleConfig{
	RequestArrivalDelay: 30 * time.Millisecond,
	MatchSearchDelay:    20 * time.Millisecond,
	AutoReplyDelay:      15 * time.Millisecond,
}

func newTestManager() (*Manager, *mocks.MemStore, *mocks.RecordingNotifier) {
	store := mocks.NewMemStore()
	notifier := &mocks.RecordingNotifier{}
	text := &mocks.StaticTextService{Bio: "Generated bio.", Icebreaker: "What's your favorite place in Malda?"}
	return NewManager(testCfg, store, text, notifier), store, notifier
}

// completeOnboarding walks a fresh session through the whole flow.
func completeOnboarding(t *testing.T, s *Session) *domain.Profile {
	t.Helper()
	require.NoError(t, s.Enter())

	name, age := "Test", 20
	station := domain.StationKaliachak
	_, err := s.UpdateDraft(DraftPatch{Name: &name, Age: &age, Station: &station})
	require.NoError(t, err)

	step := 1
	_, err = s.UpdateDraft(DraftPatch{Step: &step})
	require.NoError(t, err)

	require.NoError(t, s.AddPhoto("https://images.example/1.jpg"))
	p, err := s.CompleteOnboarding()
	require.NoError(t, err)
	return p
}

func TestOnboardingCompletesToDashboard(t *testing.T) {
	m, store, _ := newTestManager()
	s := m.Create()

	p := completeOnboarding(t, s)
	require.NotEmpty(t, p.ID)
	assert.Equal(t, "Test", p.Name)
	assert.Equal(t, 20, p.Age)
	assert.Equal(t, domain.StationKaliachak, p.Station)
	require.NoError(t, p.Validate())

	v := s.Snapshot()
	assert.Equal(t, domain.ViewDashboard, v.View)
	assert.Equal(t, domain.TabPublic, v.Tab)
	assert.Equal(t, domain.ModeDiscover, v.Mode)
	assert.True(t, store.Has(s.ID()))
}

func TestEnterOnlyFromLanding(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)
	assert.ErrorIs(t, s.Enter(), ErrBadTransition)
}

func TestStepGateRequiresIdentity(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	require.NoError(t, s.Enter())

	step := 1
	_, err := s.UpdateDraft(DraftPatch{Step: &step})
	assert.ErrorIs(t, err, ErrStepIncomplete)

	// Underage blocks the gate too.
	name, age := "Kid", 17
	station := domain.StationRatua
	_, err = s.UpdateDraft(DraftPatch{Name: &name, Age: &age, Station: &station})
	require.NoError(t, err)
	_, err = s.UpdateDraft(DraftPatch{Step: &step})
	assert.ErrorIs(t, err, ErrStepIncomplete)
}

func TestBackToStepZeroKeepsEverything(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	require.NoError(t, s.Enter())

	name, age := "Test", 22
	station := domain.StationChanchal
	_, err := s.UpdateDraft(DraftPatch{Name: &name, Age: &age, Station: &station})
	require.NoError(t, err)
	step := 1
	_, err = s.UpdateDraft(DraftPatch{Step: &step})
	require.NoError(t, err)
	require.NoError(t, s.AddPhoto("p1"))

	step = 0
	d, err := s.UpdateDraft(DraftPatch{Step: &step})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Step)
	assert.Equal(t, "Test", d.Name)
	assert.Len(t, d.Photos, 1)
}

func TestRejectedPatchLeavesDraftUntouched(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	require.NoError(t, s.Enter())

	name := "Original"
	_, err := s.UpdateDraft(DraftPatch{Name: &name})
	require.NoError(t, err)

	// One patch mixing a valid field with an invalid one commits nothing.
	newName := "Applied"
	badGender := domain.Gender("bogus")
	_, err = s.UpdateDraft(DraftPatch{Name: &newName, Gender: &badGender})
	assert.ErrorIs(t, err, ErrInvalidValue)

	d, err := s.Draft()
	require.NoError(t, err)
	assert.Equal(t, "Original", d.Name)
	assert.Equal(t, domain.GenderMale, d.Gender)

	// Same for a patch rejected by the step gate.
	step := 1
	_, err = s.UpdateDraft(DraftPatch{Name: &newName, Step: &step})
	assert.ErrorIs(t, err, ErrStepIncomplete)
	d, err = s.Draft()
	require.NoError(t, err)
	assert.Equal(t, "Original", d.Name)
	assert.Equal(t, 0, d.Step)
}

func TestCompleteRequiresPhoto(t *testing.T) {
	m, store, _ := newTestManager()
	s := m.Create()
	require.NoError(t, s.Enter())

	name, age := "Test", 20
	station := domain.StationKaliachak
	_, err := s.UpdateDraft(DraftPatch{Name: &name, Age: &age, Station: &station})
	require.NoError(t, err)

	_, err = s.CompleteOnboarding()
	assert.ErrorIs(t, err, ErrPhotosRequired)
	// Nothing moved: still onboarding, nothing persisted.
	assert.Equal(t, domain.ViewOnboarding, s.Snapshot().View)
	assert.False(t, store.Has(s.ID()))
}

func TestPhotoLimitAndRemoval(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	require.NoError(t, s.Enter())

	for _, ref := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.AddPhoto(ref))
	}
	assert.ErrorIs(t, s.AddPhoto("e"), ErrPhotoLimit)

	require.NoError(t, s.RemovePhoto(1))
	d, err := s.Draft()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, d.Photos)

	assert.ErrorIs(t, s.RemovePhoto(3), ErrPhotoIndex)
	assert.ErrorIs(t, s.RemovePhoto(-1), ErrPhotoIndex)
}

func TestSplitInterests(t *testing.T) {
	assert.Equal(t, []string{"Cricket", "Mangoes", "Music"}, SplitInterests("Cricket, Mangoes , Music"))
	assert.Equal(t, []string{"a", "a"}, SplitInterests("a,,a,"))
	assert.Nil(t, SplitInterests("  ,  "))
}

func TestGenerateDraftBio(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	require.NoError(t, s.Enter())

	_, err := s.GenerateDraftBio(context.Background())
	assert.ErrorIs(t, err, ErrBioInputs)

	name, interests := "Test", "Cricket, Music"
	_, err = s.UpdateDraft(DraftPatch{Name: &name, Interests: &interests})
	require.NoError(t, err)

	bio, err := s.GenerateDraftBio(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Generated bio.", bio)

	d, err := s.Draft()
	require.NoError(t, err)
	assert.Equal(t, "Generated bio.", d.Bio)
	assert.False(t, d.GeneratingBio)
}

func TestGenerateDraftBioPassesInputs(t *testing.T) {
	text := &mocks.TextServiceMock{}
	text.On("GenerateBio", mock.Anything, "Cricket", "Ratua", "Priya").Return("A bio.")
	m := NewManager(testCfg, mocks.NewMemStore(), text, nil)
	s := m.Create()
	require.NoError(t, s.Enter())

	name, interests := "Priya", "Cricket"
	station := domain.StationRatua
	_, err := s.UpdateDraft(DraftPatch{Name: &name, Interests: &interests, Station: &station})
	require.NoError(t, err)

	bio, err := s.GenerateDraftBio(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A bio.", bio)
	text.AssertExpectations(t)
}

func TestSocialGraphAlgebra(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)

	// Wait for the simulated request so there is something to accept.
	require.Eventually(t, func() bool {
		return s.Snapshot().Badge == 1
	}, time.Second, 5*time.Millisecond)

	v, err := s.Social()
	require.NoError(t, err)
	require.Len(t, v.Incoming, 1)
	requester := v.Incoming[0].ID

	require.NoError(t, s.SendRequest("f2"))
	require.NoError(t, s.SendRequest("f2")) // duplicate collapses

	require.NoError(t, s.AcceptRequest(requester))
	v, err = s.Social()
	require.NoError(t, err)
	require.Len(t, v.Friends, 1)
	assert.Equal(t, requester, v.Friends[0].ID)
	assert.Equal(t, []string{"f2"}, v.Sent)
	for _, u := range v.Incoming {
		assert.NotEqual(t, requester, u.ID)
	}

	// Accepting again fails; declining an absent request fails.
	assert.ErrorIs(t, s.AcceptRequest(requester), ErrNotRequested)
	assert.ErrorIs(t, s.DeclineRequest(requester), ErrNotRequested)
}

func TestDeclineOnlyTouchesIncoming(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)
	require.NoError(t, s.SendRequest("m2"))

	require.Eventually(t, func() bool {
		return s.Snapshot().Badge == 1
	}, time.Second, 5*time.Millisecond)

	v, _ := s.Social()
	requester := v.Incoming[0].ID
	require.NoError(t, s.DeclineRequest(requester))

	v, err := s.Social()
	require.NoError(t, err)
	assert.Empty(t, v.Friends)
	assert.Equal(t, []string{"m2"}, v.Sent)
	assert.Equal(t, 0, s.Snapshot().Badge)
}

func TestDiscoverPoolExclusions(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)

	require.Eventually(t, func() bool {
		return s.Snapshot().Badge == 1
	}, time.Second, 5*time.Millisecond)

	v, err := s.Social()
	require.NoError(t, err)
	requester := v.Incoming[0].ID
	require.NoError(t, s.AcceptRequest(requester))

	v, err = s.Social()
	require.NoError(t, err)
	self := s.Profile().ID
	for _, e := range v.Discover {
		assert.NotEqual(t, self, e.User.ID)
		assert.NotEqual(t, requester, e.User.ID)
		for _, u := range v.Incoming {
			assert.NotEqual(t, u.ID, e.User.ID)
		}
	}
}

func TestArrivalTimerCancelledOnLogout(t *testing.T) {
	m, _, notifier := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)
	require.NoError(t, s.Logout())

	time.Sleep(3 * testCfg.RequestArrivalDelay)
	assert.Empty(t, notifier.Events("request.arrived"))
	assert.Equal(t, domain.ViewLanding, s.Snapshot().View)
}

func TestLoungeSemantics(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	p := completeOnboarding(t, s)

	seeded, err := s.Lounge()
	require.NoError(t, err)
	require.Len(t, seeded, 2)

	_, err = s.PostLounge("")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = s.PostLounge("   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	msg, err := s.PostLounge("hi")
	require.NoError(t, err)
	assert.Equal(t, p.ID, msg.SenderID)
	assert.Equal(t, p.Name, msg.SenderName)

	all, err := s.Lounge()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "hi", all[2].Text)
}

func TestOpenChatReplacesSession(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)

	_, err := s.OpenChat("m1")
	require.NoError(t, err)
	_, err = s.SendPrivate("hello m1")
	require.NoError(t, err)

	chatB, err := s.OpenChat("f1")
	require.NoError(t, err)
	assert.Empty(t, chatB.Messages)

	// The reply scheduled in chat A must never land in chat B.
	time.Sleep(3 * testCfg.AutoReplyDelay)
	active := s.ActiveChat()
	require.NotNil(t, active)
	assert.Equal(t, "f1", active.Participant.ID)
	assert.Empty(t, active.Messages)
}

func TestSendPrivateGetsScriptedReply(t *testing.T) {
	m, _, notifier := newTestManager()
	s := m.Create()
	p := completeOnboarding(t, s)

	_, err := s.SendPrivate("x")
	assert.ErrorIs(t, err, ErrNoActiveChat)

	_, err = s.OpenChat("m1")
	require.NoError(t, err)
	_, err = s.SendPrivate("  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = s.SendPrivate("hello")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		c := s.ActiveChat()
		return c != nil && len(c.Messages) == 2
	}, time.Second, 5*time.Millisecond)

	c := s.ActiveChat()
	assert.Equal(t, p.ID, c.Messages[0].SenderID)
	assert.Equal(t, "m1", c.Messages[1].SenderID)
	assert.Equal(t, autoReplyText, c.Messages[1].Text)
	assert.Len(t, notifier.Events("chat.message"), 1)
}

func TestReopenSameParticipantStartsClean(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)

	_, err := s.OpenChat("m1")
	require.NoError(t, err)
	_, err = s.SendPrivate("hello")
	require.NoError(t, err)
	s.CloseChat()

	// Reopening the same participant immediately must not inherit the reply
	// scheduled in the closed chat.
	chat, err := s.OpenChat("m1")
	require.NoError(t, err)
	assert.Empty(t, chat.Messages)

	time.Sleep(3 * testCfg.AutoReplyDelay)
	active := s.ActiveChat()
	require.NotNil(t, active)
	assert.Empty(t, active.Messages)
}

func TestCloseChatCancelsPendingReply(t *testing.T) {
	m, _, notifier := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)

	_, err := s.OpenChat("m1")
	require.NoError(t, err)
	_, err = s.SendPrivate("hello")
	require.NoError(t, err)
	s.CloseChat()

	time.Sleep(3 * testCfg.AutoReplyDelay)
	assert.Nil(t, s.ActiveChat())
	assert.Empty(t, notifier.Events("chat.message"))
}

func TestRandomChatMatches(t *testing.T) {
	m, _, notifier := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)

	require.NoError(t, s.OpenRandomChat())
	assert.True(t, s.Snapshot().Searching)
	assert.ErrorIs(t, s.OpenRandomChat(), ErrSearchInProgress)

	require.Eventually(t, func() bool {
		return s.ActiveChat() != nil
	}, time.Second, 5*time.Millisecond)

	c := s.ActiveChat()
	require.Len(t, c.Messages, 1)
	sys := c.Messages[0]
	assert.True(t, sys.IsSystem)
	assert.Equal(t, domain.SystemSenderID, sys.SenderID)
	assert.True(t, strings.HasPrefix(sys.Text, "Matched with "+c.Participant.Name))
	assert.Contains(t, sys.Text, "Icebreaker: What's your favorite place in Malda?")
	assert.False(t, s.Snapshot().Searching)
	assert.Len(t, notifier.Events("match.found"), 1)
}

func TestRandomChatDiscardedAfterLogout(t *testing.T) {
	m, _, notifier := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)

	require.NoError(t, s.OpenRandomChat())
	require.NoError(t, s.Logout())

	time.Sleep(3 * testCfg.MatchSearchDelay)
	assert.Nil(t, s.ActiveChat())
	assert.Empty(t, notifier.Events("match.found"))
}

func TestTabSwitchPreservesMessageMode(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)

	require.NoError(t, s.SetMessageViewMode(domain.ModeRequests))
	require.NoError(t, s.SetTab(domain.TabProfile))
	require.NoError(t, s.SetTab(domain.TabMessages))
	assert.Equal(t, domain.ModeRequests, s.Snapshot().Mode)

	assert.ErrorIs(t, s.SetTab(domain.DashboardTab("bogus")), ErrInvalidValue)
}

func TestLogoutResetsEverything(t *testing.T) {
	m, store, _ := newTestManager()
	s := m.Create()
	completeOnboarding(t, s)

	require.NoError(t, s.SendRequest("f1"))
	_, err := s.OpenChat("m1")
	require.NoError(t, err)
	_, err = s.PostLounge("bye")
	require.NoError(t, err)

	require.NoError(t, s.Logout())

	v := s.Snapshot()
	assert.Equal(t, domain.ViewLanding, v.View)
	assert.Equal(t, domain.TabPublic, v.Tab)
	assert.Equal(t, 0, v.Badge)
	assert.False(t, v.ChatActive)
	assert.Nil(t, s.Profile())
	assert.False(t, store.Has(s.ID()), "logout must forget the stored profile")
}

func TestManagerRestoresStoredProfile(t *testing.T) {
	m, store, _ := newTestManager()
	p := &domain.Profile{
		ID:      "u-1",
		Name:    "Test",
		Age:     20,
		Gender:  domain.GenderFemale,
		Station: domain.StationKaliachak,
		Photos:  []string{"ref"},
	}
	require.NoError(t, store.Save("sess-1", p))

	s := m.Get("sess-1")
	v := s.Snapshot()
	assert.Equal(t, domain.ViewDashboard, v.View)
	require.NotNil(t, s.Profile())
	assert.Equal(t, "u-1", s.Profile().ID)
	assert.Equal(t, domain.StationKaliachak, s.Profile().Station)
}

func TestManagerDiscardsCorruptProfile(t *testing.T) {
	m, store, _ := newTestManager()
	store.SeedRaw("sess-2", "{not json")

	s := m.Get("sess-2")
	assert.Equal(t, domain.ViewLanding, s.Snapshot().View)
	assert.False(t, store.Has("sess-2"), "corrupt value must be discarded")
}

// gatedStore delays Load until released, so tests can hold a restore open.
type gatedStore struct {
	*mocks.MemStore
	gate chan struct{}
}

func (g *gatedStore) Load(key string) (*domain.Profile, error) {
	<-g.gate
	return g.MemStore.Load(key)
}

func TestConcurrentRestoreConvergesToOneSession(t *testing.T) {
	store := &gatedStore{MemStore: mocks.NewMemStore(), gate: make(chan struct{})}
	require.NoError(t, store.MemStore.Save("sess-1", &domain.Profile{
		ID:      "u-1",
		Name:    "Test",
		Age:     20,
		Gender:  domain.GenderFemale,
		Station: domain.StationKaliachak,
		Photos:  []string{"ref"},
	}))
	text := &mocks.StaticTextService{}
	m := NewManager(testCfg, store, text, nil)

	results := make(chan *Session, 2)
	for i := 0; i < 2; i++ {
		go func() { results <- m.Get("sess-1") }()
	}
	close(store.gate)

	s1, s2 := <-results, <-results
	assert.Same(t, s1, s2)
	assert.Equal(t, domain.ViewDashboard, s1.Snapshot().View)
	require.NotNil(t, s1.Profile())
	assert.Equal(t, "u-1", s1.Profile().ID)
}

func TestManagerReturnsSameLiveSession(t *testing.T) {
	m, _, _ := newTestManager()
	s := m.Create()
	assert.Same(t, s, m.Get(s.ID()))
}
