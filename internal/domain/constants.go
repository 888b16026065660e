package domain

// Gender is the closed set of profile genders.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Station is the fixed set of Malda district police-station localities used as
// the profile location field.
type Station string

const (
	StationEnglishBazar     Station = "English Bazar"
	StationOldMalda         Station = "Old Malda"
	StationKaliachak        Station = "Kaliachak"
	StationChanchal         Station = "Chanchal"
	StationRatua            Station = "Ratua"
	StationGazole           Station = "Gazole"
	StationManikchak        Station = "Manikchak"
	StationBamangola        Station = "Bamangola"
	StationHabibpur         Station = "Habibpur"
	StationHarishchandrapur Station = "Harishchandrapur"
	StationPukhuria         Station = "Pukhuria"
	StationVaishnavnagar    Station = "Vaishnavnagar"
	StationMothabari        Station = "Mothabari"
)

// Stations lists every station in display order.
var Stations = []Station{
	StationEnglishBazar,
	StationOldMalda,
	StationKaliachak,
	StationChanchal,
	StationRatua,
	StationGazole,
	StationManikchak,
	StationBamangola,
	StationHabibpur,
	StationHarishchandrapur,
	StationPukhuria,
	StationVaishnavnagar,
	StationMothabari,
}

func (s Station) Valid() bool {
	for _, st := range Stations {
		if s == st {
			return true
		}
	}
	return false
}

// ViewState is the top-level screen: landing, onboarding or dashboard.
type ViewState string

const (
	ViewLanding    ViewState = "landing"
	ViewOnboarding ViewState = "onboarding"
	ViewDashboard  ViewState = "dashboard"
)

func (v ViewState) Valid() bool {
	switch v {
	case ViewLanding, ViewOnboarding, ViewDashboard:
		return true
	}
	return false
}

// DashboardTab is the active bottom-navigation tab.
type DashboardTab string

const (
	TabPublic   DashboardTab = "public"
	TabRandom   DashboardTab = "random"
	TabMessages DashboardTab = "messages"
	TabProfile  DashboardTab = "profile"
)

func (t DashboardTab) Valid() bool {
	switch t {
	case TabPublic, TabRandom, TabMessages, TabProfile:
		return true
	}
	return false
}

// MessageViewMode is the sub-view of the messages tab.
type MessageViewMode string

const (
	ModeDiscover MessageViewMode = "discover"
	ModeChats    MessageViewMode = "chats"
	ModeRequests MessageViewMode = "requests"
)

func (m MessageViewMode) Valid() bool {
	switch m {
	case ModeDiscover, ModeChats, ModeRequests:
		return true
	}
	return false
}

// Onboarding/profile limits.
const (
	MinAge    = 18
	MinPhotos = 1
	MaxPhotos = 4
)

// System messages (match announcements) are attributed to the bot.
const (
	SystemSenderID   = "system"
	SystemSenderName = "Malda Bot"
)
