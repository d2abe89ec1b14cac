// Package streak keeps the per-athlete consecutive activity counter.
package streak

import (
	"context"
	"fmt"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=streak_test

type streakStore interface {
	PreviousSessionDate(ctx context.Context, userID, excludeSessionID string, before time.Time) (*time.Time, error)
	UpdateStreak(ctx context.Context, userID string, current, best int) error
}

type Tracker struct {
	store streakStore
}

func NewTracker(store streakStore) *Tracker {
	return &Tracker{
		store: store,
	}
}

// Update moves the streak forward for the session dated sessionDate. Nil settings
// mean the athlete never opted into streaks: nothing is read or written and nil is
// returned. Otherwise the updated settings are persisted and returned.
func (t *Tracker) Update(
	ctx context.Context,
	sessionID string,
	sessionDate time.Time,
	settings *model.AthleteSettings,
) (_ *model.AthleteSettings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streak.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if settings == nil {
		span.SetAttributes(attribute.Bool("streak.skipped", true))
		return nil, nil
	}

	current := model.Date(sessionDate)
	prevDate, err := t.store.PreviousSessionDate(ctx, settings.UserID, sessionID, current)
	if err != nil {
		return nil, fmt.Errorf("previous session date: %w", err)
	}

	next := NextStreak(settings.StreakCurrent, current, prevDate)
	updated := *settings
	updated.StreakCurrent = next
	updated.StreakBest = max(next, settings.StreakBest)

	span.SetAttributes(
		attribute.Int("streak.current", updated.StreakCurrent),
		attribute.Int("streak.best", updated.StreakBest),
	)

	if err := t.store.UpdateStreak(ctx, updated.UserID, updated.StreakCurrent, updated.StreakBest); err != nil {
		return nil, fmt.Errorf("update streak: %w", err)
	}

	log.Tracef("streak for [%s]: %d -> %d (best %d)", updated.UserID, settings.StreakCurrent, updated.StreakCurrent, updated.StreakBest)
	return &updated, nil
}

// NextStreak returns previous+1 when the previous session falls on the day before
// current (or later), else restarts at 1. Dates compare as calendar dates. The
// previous session is looked up strictly before current's date, so each session
// logged on an already counted day increments the streak again.
func NextStreak(previous int, current time.Time, prevSessionDate *time.Time) int {
	if IsConsecutive(current, prevSessionDate) {
		return previous + 1
	}
	return 1
}

func IsConsecutive(current time.Time, prevSessionDate *time.Time) bool {
	if prevSessionDate == nil {
		return false
	}
	dayBefore := model.Date(current).AddDate(0, 0, -1)
	return !model.Date(*prevSessionDate).Before(dayBefore)
}
