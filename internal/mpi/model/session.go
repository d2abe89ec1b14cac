package model

import (
	"time"
)

const (
	DefaultExecutionGrade = 50.0
	DefaultVolume         = 1

	// DateLayout is used wherever a session date travels as text.
	DateLayout = "2006-01-02"
)

// DrillBlock is one scored unit of work within a session: a drill, an at-bat
// or a pitch group.
type DrillBlock struct {
	ExecutionGrade *float64 `json:"execution_grade,omitempty"`
	Volume         *int     `json:"volume,omitempty"`
	Intent         string   `json:"intent,omitempty"`
	Outcomes       []string `json:"outcomes,omitempty"`
}

// Grade returns the execution grade, or the default one when not logged.
func (b DrillBlock) Grade() float64 {
	if b.ExecutionGrade == nil {
		return DefaultExecutionGrade
	}
	return *b.ExecutionGrade
}

// Reps returns the block volume; a missing or non-positive volume counts as one rep.
func (b DrillBlock) Reps() int {
	if b.Volume == nil || *b.Volume <= 0 {
		return DefaultVolume
	}
	return *b.Volume
}

func (b DrillBlock) HasIntent() bool {
	return b.Intent != ""
}

// FatigueState is the subjective readiness snapshot (1-5 scale) taken at session time.
type FatigueState struct {
	Body    *int `json:"body,omitempty"`
	Mind    *int `json:"mind,omitempty"`
	Overall *int `json:"overall,omitempty"`
}

// CompositeIndexes are the six indices written back onto a scored session.
type CompositeIndexes struct {
	BQI                  float64 `json:"bqi"`
	FQI                  float64 `json:"fqi"`
	PEI                  float64 `json:"pei"`
	Decision             float64 `json:"decision"`
	CompetitiveExecution float64 `json:"competitive_execution"`
	VolumeAdjusted       float64 `json:"volume_adjusted"`
}

// Mean is the average of the five bounded indices (volume_adjusted is a count, not a score).
func (ci CompositeIndexes) Mean() float64 {
	return (ci.BQI + ci.FQI + ci.PEI + ci.Decision + ci.CompetitiveExecution) / 5
}

// Session (DB level type) is one logged training or competition entry.
type Session struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	SessionDate   time.Time      `json:"session_date"`
	Type          SessionType    `json:"session_type"`
	DrillBlocks   []DrillBlock   `json:"drill_blocks"`
	PlayerGrade   *float64       `json:"player_grade,omitempty"`
	CoachGrade    *float64       `json:"coach_grade,omitempty"`
	IsRetroactive bool           `json:"is_retroactive"`
	Fatigue       *FatigueState  `json:"fatigue_state_at_session,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     *time.Time     `json:"deleted_at,omitempty"`
	Computed      ComputedFields `json:"computed"`
}

func (s *Session) IsDeleted() bool {
	return s.DeletedAt != nil
}

// TotalReps sums the block volumes the same way the index calculator does.
func (s *Session) TotalReps() int {
	total := 0
	for _, block := range s.DrillBlocks {
		total += block.Reps()
	}
	return total
}

// ComputedFields are owned by the scorer; nil until the session is scored.
type ComputedFields struct {
	CompositeIndexes    *CompositeIndexes `json:"composite_indexes,omitempty"`
	IntentCompliancePct *float64          `json:"intent_compliance_pct,omitempty"`
	EffectiveGrade      *float64          `json:"effective_grade,omitempty"`
	DataDensityLevel    *int              `json:"data_density_level,omitempty"`
}

// AthleteSettings holds streak state and logging density for one athlete.
type AthleteSettings struct {
	UserID           string `json:"user_id"`
	StreakCurrent    int    `json:"streak_current"`
	StreakBest       int    `json:"streak_best"`
	DataDensityLevel int    `json:"data_density_level"`
}

// CompositeSnapshot is the mean composite score recorded each time a session is scored.
type CompositeSnapshot struct {
	UserID       string    `json:"user_id"`
	SessionID    string    `json:"session_id"`
	Score        float64   `json:"score"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// Date truncates t to its UTC calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
