package governance

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/repo"
)

var (
	_ Rule = (*inflatedGrading)(nil)
	_ Rule = (*volumeSpike)(nil)
	_ Rule = (*fatigueInconsistency)(nil)
	_ Rule = (*retroactiveAbuse)(nil)
	_ Rule = (*gradeConsistency)(nil)
	_ Rule = (*rapidImprovement)(nil)
	_ Rule = (*gameInflation)(nil)
)

func newFlag(severity model.Severity, details map[string]any) *model.GovernanceFlag {
	return &model.GovernanceFlag{
		Severity: severity,
		Details:  details,
	}
}

// trailingWindow returns the first and last calendar dates of a window ending
// at asOf. Both ends are inclusive.
func trailingWindow(asOf time.Time, window time.Duration) (from, to time.Time) {
	return model.Date(asOf.Add(-window)), model.Date(asOf)
}

// inflatedGrading: the athlete grades themself well above the coach.
type inflatedGrading struct {
	t Thresholds
}

func (r *inflatedGrading) Type() model.FlagType { return model.FlagInflatedGrading }

func (r *inflatedGrading) Evaluate(_ context.Context, in Input) (*model.GovernanceFlag, error) {
	s := in.Session
	if s.PlayerGrade == nil || s.CoachGrade == nil {
		return nil, nil
	}
	delta := *s.PlayerGrade - *s.CoachGrade
	if delta <= r.t.InflatedGradeDelta {
		return nil, nil
	}
	return newFlag(model.SeverityWarning, map[string]any{
		"player_grade": *s.PlayerGrade,
		"coach_grade":  *s.CoachGrade,
		"delta":        delta,
	}), nil
}

// volumeSpike: far more reps than the athlete's recent average.
type volumeSpike struct {
	t       Thresholds
	history historyReader
}

func (r *volumeSpike) Type() model.FlagType { return model.FlagVolumeSpike }

func (r *volumeSpike) Evaluate(ctx context.Context, in Input) (*model.GovernanceFlag, error) {
	from, to := trailingWindow(in.AsOf, r.t.VolumeSpikeWindow)
	recent, err := r.history.ListSessions(ctx, repo.SessionParams{
		UserID:           in.Session.UserID,
		ExcludeSessionID: in.Session.ID,
		From:             &from,
		To:               &to,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	if len(recent) < r.t.VolumeSpikeMinSessions {
		return nil, nil
	}

	total := 0
	for i := range recent {
		total += recent[i].TotalReps()
	}
	avg := float64(total) / float64(len(recent))
	if avg <= 0 || float64(in.Result.TotalReps) <= r.t.VolumeSpikeFactor*avg {
		return nil, nil
	}
	return newFlag(model.SeverityInfo, map[string]any{
		"current_volume":   in.Result.TotalReps,
		"trailing_average": avg,
	}), nil
}

// fatigueInconsistency: reported exhaustion next to high execution.
type fatigueInconsistency struct {
	t Thresholds
}

func (r *fatigueInconsistency) Type() model.FlagType { return model.FlagFatigueInconsistency }

func (r *fatigueInconsistency) Evaluate(_ context.Context, in Input) (*model.GovernanceFlag, error) {
	f := in.Session.Fatigue
	if f == nil {
		return nil, nil
	}
	low := func(v *int) bool {
		return v != nil && *v <= r.t.FatigueLowReadiness
	}
	if !low(f.Body) && !low(f.Overall) {
		return nil, nil
	}
	if in.Result.AvgExecution <= r.t.FatigueHighExecution {
		return nil, nil
	}
	return newFlag(model.SeverityInfo, map[string]any{
		"fatigue":         *f,
		"execution_grade": in.Result.AvgExecution,
	}), nil
}

// retroactiveAbuse counts by creation time, not session date.
type retroactiveAbuse struct {
	t       Thresholds
	history historyReader
}

func (r *retroactiveAbuse) Type() model.FlagType { return model.FlagRetroactiveAbuse }

func (r *retroactiveAbuse) Evaluate(ctx context.Context, in Input) (*model.GovernanceFlag, error) {
	if !in.Session.IsRetroactive {
		return nil, nil
	}
	count, err := r.history.CountRetroactiveCreatedBetween(ctx, in.Session.UserID, in.AsOf.Add(-r.t.RetroactiveWindow), in.AsOf)
	if err != nil {
		return nil, fmt.Errorf("count retroactive sessions: %w", err)
	}
	if count <= r.t.RetroactiveMaxCount {
		return nil, nil
	}
	return newFlag(model.SeverityWarning, map[string]any{
		"retroactive_count_7d": count,
	}), nil
}

// gradeConsistency: self grades that barely move over the full sample.
type gradeConsistency struct {
	t       Thresholds
	history historyReader
}

func (r *gradeConsistency) Type() model.FlagType { return model.FlagGradeConsistency }

func (r *gradeConsistency) Evaluate(ctx context.Context, in Input) (*model.GovernanceFlag, error) {
	grades, err := r.history.RecentPlayerGrades(ctx, in.Session.UserID, in.AsOf, r.t.GradeConsistencySample)
	if err != nil {
		return nil, fmt.Errorf("recent player grades: %w", err)
	}
	if len(grades) != r.t.GradeConsistencySample {
		return nil, nil
	}
	lo, hi := slices.Min(grades), slices.Max(grades)
	if hi-lo > r.t.GradeConsistencyMaxRange {
		return nil, nil
	}
	return newFlag(model.SeverityInfo, map[string]any{
		"min":   lo,
		"max":   hi,
		"range": hi - lo,
	}), nil
}

// rapidImprovement compares the current composite mean with a snapshot old enough
// to be meaningful.
type rapidImprovement struct {
	t       Thresholds
	history historyReader
}

func (r *rapidImprovement) Type() model.FlagType { return model.FlagRapidImprovement }

func (r *rapidImprovement) Evaluate(ctx context.Context, in Input) (*model.GovernanceFlag, error) {
	prev, err := r.history.LatestSnapshotBefore(ctx, in.Session.UserID, in.AsOf.Add(-r.t.RapidImprovementMinAge))
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	// a zero baseline has no meaningful percent change
	if prev == nil || prev.Score <= 0 {
		return nil, nil
	}
	pctChange := (in.Result.Indexes.Mean() - prev.Score) / prev.Score * 100
	if pctChange <= r.t.RapidImprovementPct {
		return nil, nil
	}
	return newFlag(model.SeverityInfo, map[string]any{
		"percent_change": pctChange,
		"previous_value": prev.Score,
	}), nil
}

// gameInflation: game self grade far above the recent practice self grades.
type gameInflation struct {
	t       Thresholds
	history historyReader
}

func (r *gameInflation) Type() model.FlagType { return model.FlagGameInflation }

func (r *gameInflation) Evaluate(ctx context.Context, in Input) (*model.GovernanceFlag, error) {
	s := in.Session
	if !s.Type.IsGame() || s.PlayerGrade == nil {
		return nil, nil
	}

	from, to := trailingWindow(in.AsOf, r.t.GameInflationWindow)
	recent, err := r.history.ListSessions(ctx, repo.SessionParams{
		UserID:           s.UserID,
		ExcludeSessionID: s.ID,
		From:             &from,
		To:               &to,
		GradedOnly:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("list graded sessions: %w", err)
	}

	count := 0
	sum := 0.0
	for i := range recent {
		if recent[i].Type.IsGame() || recent[i].PlayerGrade == nil {
			continue
		}
		count++
		sum += *recent[i].PlayerGrade
	}
	if count < r.t.GameInflationMinSessions {
		return nil, nil
	}

	practiceAvg := sum / float64(count)
	delta := *s.PlayerGrade - practiceAvg
	if delta <= r.t.GameInflationDelta {
		return nil, nil
	}
	return newFlag(model.SeverityWarning, map[string]any{
		"game_grade":       *s.PlayerGrade,
		"practice_average": practiceAvg,
		"delta":            delta,
	}), nil
}
