package model

import "time"

// FlagType is one of the seven governance heuristics.
type FlagType string

const (
	FlagInflatedGrading      FlagType = "inflated_grading"
	FlagVolumeSpike          FlagType = "volume_spike"
	FlagFatigueInconsistency FlagType = "fatigue_inconsistency_hrv"
	FlagRetroactiveAbuse     FlagType = "retroactive_abuse"
	FlagGradeConsistency     FlagType = "grade_consistency"
	FlagRapidImprovement     FlagType = "rapid_improvement"
	FlagGameInflation        FlagType = "game_inflation"
)

func (ft FlagType) String() string {
	return string(ft)
}

func (ft FlagType) IsValid() bool {
	switch ft {
	case FlagInflatedGrading,
		FlagVolumeSpike,
		FlagFatigueInconsistency,
		FlagRetroactiveAbuse,
		FlagGradeConsistency,
		FlagRapidImprovement,
		FlagGameInflation:
		return true
	default:
		return false
	}
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// GovernanceFlag is an append-only evidence record; never mutated once stored.
type GovernanceFlag struct {
	ID              int64          `json:"id"`
	UserID          string         `json:"user_id"`
	FlagType        FlagType       `json:"flag_type"`
	Severity        Severity       `json:"severity"`
	SourceSessionID string         `json:"source_session_id"`
	Details         map[string]any `json:"details"`
	CreatedAt       time.Time      `json:"created_at"`
}
