package model

// SessionType can be one of:
//   - practice, team_practice, personal_practice, bullpen, lesson
//   - game, live_scrimmage
//   - rehab_session
type SessionType string

const (
	SessionTypePractice         SessionType = "practice"
	SessionTypeTeamPractice     SessionType = "team_practice"
	SessionTypePersonalPractice SessionType = "personal_practice"
	SessionTypeBullpen          SessionType = "bullpen"
	SessionTypeLesson           SessionType = "lesson"
	SessionTypeGame             SessionType = "game"
	SessionTypeLiveScrimmage    SessionType = "live_scrimmage"
	SessionTypeRehab            SessionType = "rehab_session"
)

func (st SessionType) String() string {
	return string(st)
}

func (st SessionType) IsValid() bool {
	switch st {
	case SessionTypePractice,
		SessionTypeTeamPractice,
		SessionTypePersonalPractice,
		SessionTypeBullpen,
		SessionTypeLesson,
		SessionTypeGame,
		SessionTypeLiveScrimmage,
		SessionTypeRehab:
		return true
	default:
		return false
	}
}

// Tier groups session types by how their indices are weighted.
type Tier int

const (
	TierStandard Tier = iota
	TierGame
	TierRehab
)

func (t Tier) String() string {
	switch t {
	case TierGame:
		return "game"
	case TierRehab:
		return "rehab"
	default:
		return "standard"
	}
}

// Tier maps the session type onto its weighting tier. Types the logger adds
// later without telling us are weighted as standard sessions.
func (st SessionType) Tier() Tier {
	switch st {
	case SessionTypeGame, SessionTypeLiveScrimmage:
		return TierGame
	case SessionTypeRehab:
		return TierRehab
	default:
		return TierStandard
	}
}

func (st SessionType) IsGame() bool {
	return st.Tier() == TierGame
}
