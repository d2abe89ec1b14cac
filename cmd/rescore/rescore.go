package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/repo"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/scorer"

	log "github.com/sirupsen/logrus"
)

type export struct {
	Settings []model.AthleteSettings `json:"settings"`
	Sessions []model.Session         `json:"sessions"`
}

type summary struct {
	Sessions int
	Flags    int
}

// importExport loads an export into the store. Sessions already present are
// left untouched; settings are upserted.
func importExport(ctx context.Context, store repo.Store, r io.Reader) (int, error) {
	var exp export
	if err := json.NewDecoder(r).Decode(&exp); err != nil {
		return 0, fmt.Errorf("decode export: %w", err)
	}

	for _, settings := range exp.Settings {
		if err := store.UpsertSettings(ctx, settings); err != nil {
			return 0, fmt.Errorf("upsert settings of %s: %w", settings.UserID, err)
		}
	}

	imported := 0
	for i := range exp.Sessions {
		session := &exp.Sessions[i]
		err := store.AddSession(ctx, session)
		if errors.Is(err, repo.ErrSessionExists) {
			log.Debugf("session [%s] already stored, skipping", session.ID)
			continue
		}
		if err != nil {
			return imported, fmt.Errorf("add session %s: %w", session.ID, err)
		}
		imported++
	}
	return imported, nil
}

// rescoreAthlete resets the current streak and scores the athlete's sessions in
// chronological order, so the streak is rebuilt the way it was first earned.
// The evaluation clock of each session is its creation time.
func rescoreAthlete(ctx context.Context, store repo.Store, service *scorer.Service, userID string) (summary, error) {
	sessions, err := store.ListSessions(ctx, repo.SessionParams{UserID: userID})
	if err != nil {
		return summary{}, fmt.Errorf("list sessions: %w", err)
	}
	slices.Reverse(sessions)

	settings, err := store.GetSettings(ctx, userID)
	switch {
	case errors.Is(err, repo.ErrSettingsNotFound):
	case err != nil:
		return summary{}, fmt.Errorf("get settings: %w", err)
	default:
		if err := store.UpdateStreak(ctx, userID, 0, settings.StreakBest); err != nil {
			return summary{}, fmt.Errorf("reset streak: %w", err)
		}
	}

	defer func(now func() time.Time) {
		service.Now = now
	}(service.Now)

	var sum summary
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		createdAt := session.CreatedAt
		service.Now = func() time.Time { return createdAt }

		res, err := service.ScoreSession(ctx, userID, session.ID)
		if err != nil {
			return sum, fmt.Errorf("score session %s: %w", session.ID, err)
		}
		sum.Sessions++
		sum.Flags += res.FlagCount
		log.Debugf("session [%s] of %s: %d flags", session.ID, session.SessionDate.Format(model.DateLayout), res.FlagCount)
	}
	return sum, nil
}
