// Package indexes derives the composite performance indices of a session from
// its drill blocks and session type.
package indexes

import (
	"math"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
)

const (
	minIndexValue = 0
	maxIndexValue = 100

	// raw execution grades in [rawGradeFloor, rawGradeFloor+rawGradeSpan] map onto 0..100
	rawGradeFloor = 20.0
	rawGradeSpan  = 60.0

	fqiWeight = 0.9
	peiWeight = 1.05
)

// Multipliers are the per-tier weights applied on top of the normalized score.
type Multipliers struct {
	Competitive float64
	Decision    float64
	Volume      float64
}

// MultipliersFor returns the weights of a session tier.
func MultipliersFor(tier model.Tier) Multipliers {
	switch tier {
	case model.TierGame:
		return Multipliers{Competitive: 1.25, Decision: 1.18, Volume: 0.7}
	case model.TierRehab:
		return Multipliers{Competitive: 0.3, Decision: 0.3, Volume: 0.3}
	case model.TierStandard:
		return Multipliers{Competitive: 1.0, Decision: 1.0, Volume: 1.0}
	default:
		panic("indexes: unhandled session tier " + tier.String())
	}
}

// Result holds the composite indices together with the intermediate values
// the governance rules look at.
type Result struct {
	Indexes             model.CompositeIndexes
	TotalReps           int
	AvgExecution        float64
	NormalizedScore     float64
	IntentCompliancePct float64
	EffectiveGrade      float64
}

// Calculate is pure: the same blocks, type and grades always give the same result.
// A session without blocks is valid and yields the neutral average grade.
func Calculate(session *model.Session) Result {
	totalReps := 0
	intentReps := 0
	weightedGrades := 0.0
	for _, block := range session.DrillBlocks {
		reps := block.Reps()
		totalReps += reps
		weightedGrades += block.Grade() * float64(reps)
		if block.HasIntent() {
			intentReps += reps
		}
	}

	avgExecution := model.DefaultExecutionGrade
	intentCompliancePct := 0.0
	if totalReps > 0 {
		avgExecution = weightedGrades / float64(totalReps)
		intentCompliancePct = float64(intentReps) / float64(totalReps) * 100
	}

	normalized := (avgExecution - rawGradeFloor) / rawGradeSpan * 100
	m := MultipliersFor(session.Type.Tier())

	// bqi and competitive_execution share one formula; consumers read both fields
	indexes := model.CompositeIndexes{
		BQI:                  bounded(normalized * m.Competitive),
		FQI:                  bounded(normalized * fqiWeight),
		PEI:                  bounded(normalized * peiWeight),
		Decision:             bounded(normalized * m.Decision),
		CompetitiveExecution: bounded(normalized * m.Competitive),
		VolumeAdjusted:       float64(totalReps) * m.Volume,
	}

	return Result{
		Indexes:             indexes,
		TotalReps:           totalReps,
		AvgExecution:        avgExecution,
		NormalizedScore:     normalized,
		IntentCompliancePct: intentCompliancePct,
		EffectiveGrade:      EffectiveGrade(session, avgExecution),
	}
}

// EffectiveGrade prefers the coach grade, then the self grade, then the computed average.
func EffectiveGrade(session *model.Session, avgExecution float64) float64 {
	if session.CoachGrade != nil {
		return *session.CoachGrade
	}
	if session.PlayerGrade != nil {
		return *session.PlayerGrade
	}
	return avgExecution
}

// bounded keeps an index inside 0..100. NormalizedScore itself is left
// unbounded, so a raw grade under the band floor is still visible there.
func bounded(v float64) float64 {
	return math.Max(minIndexValue, math.Min(maxIndexValue, v))
}
