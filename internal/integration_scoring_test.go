package internal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/repo"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/scorer"
	pkgtesting "github.com/Cam55-baseball/hammer-ai-huddle-sub008/pkg/testing"

	"github.com/google/uuid"
)

func ptr[T any](v T) *T {
	return &v
}

func (s *IntegrationTestSuite) loginAs(userID string) string {
	rdb := pkgtesting.NewRedisClient(s.T(), "localhost", s.redisPort, "")
	token := uuid.NewString()
	s.Require().NoError(rdb.Set(context.Background(), "mpi-session||"+token, userID, time.Hour).Err())
	return token
}

func (s *IntegrationTestSuite) scoreSession(token, idempotencyKey, sessionID string) (int, []byte) {
	body, err := json.Marshal(scorer.ScoreSessionRequest{SessionID: sessionID})
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/score-session", serverEndpoint), bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if idempotencyKey != "" {
		req.Header.Set(scorer.IdempotencyKeyHeader, idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestPostgresStore() {
	ctx := context.Background()
	store := s.postgresStore()
	userID := uuid.NewString()

	session := &model.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		SessionDate: time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC),
		Type:        model.SessionTypeBullpen,
		DrillBlocks: []model.DrillBlock{{ExecutionGrade: ptr(55.0), Volume: ptr(25)}},
		PlayerGrade: ptr(60.0),
		Fatigue:     &model.FatigueState{Body: ptr(2)},
	}
	s.Require().NoError(store.AddSession(ctx, session))
	s.ErrorIs(store.AddSession(ctx, session), repo.ErrSessionExists)

	stored, err := store.GetSession(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.Date(session.SessionDate), stored.SessionDate.UTC())
	s.Equal(session.DrillBlocks, stored.DrillBlocks)
	s.Equal(2, *stored.Fatigue.Body)
	s.Nil(stored.Computed.CompositeIndexes)

	flags := []model.GovernanceFlag{
		{UserID: userID, SourceSessionID: session.ID, FlagType: model.FlagVolumeSpike, Severity: model.SeverityInfo},
	}
	inserted, err := store.InsertFlags(ctx, flags)
	s.Require().NoError(err)
	s.Equal(1, inserted)
	inserted, err = store.InsertFlags(ctx, flags)
	s.Require().NoError(err)
	s.Zero(inserted)

	_, err = store.GetSettings(ctx, userID)
	s.ErrorIs(err, repo.ErrSettingsNotFound)

	// flags and snapshots must point at a stored session
	err = store.AddSnapshot(ctx, model.CompositeSnapshot{
		UserID:       userID,
		SessionID:    uuid.NewString(),
		Score:        50,
		CalculatedAt: time.Now(),
	})
	s.ErrorIs(err, repo.ErrSessionNotFound)
}

func (s *IntegrationTestSuite) TestScoreSession() {
	ctx := context.Background()
	store := s.postgresStore()
	userID := uuid.NewString()
	token := s.loginAs(userID)

	s.Require().NoError(store.UpsertSettings(ctx, model.AthleteSettings{
		UserID:           userID,
		StreakCurrent:    4,
		StreakBest:       6,
		DataDensityLevel: 1,
	}))

	today := model.Date(time.Now())
	yesterday := &model.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		SessionDate: today.AddDate(0, 0, -1),
		Type:        model.SessionTypePractice,
		DrillBlocks: []model.DrillBlock{{ExecutionGrade: ptr(60.0), Volume: ptr(10)}},
	}
	current := &model.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		SessionDate: today,
		Type:        model.SessionTypePractice,
		DrillBlocks: []model.DrillBlock{{ExecutionGrade: ptr(80.0), Volume: ptr(10), Intent: "swing_path"}},
		PlayerGrade: ptr(75.0),
		CoachGrade:  ptr(60.0),
	}
	s.Require().NoError(store.AddSession(ctx, yesterday))
	s.Require().NoError(store.AddSession(ctx, current))

	idempotencyKey := uuid.NewString()
	status, body := s.scoreSession(token, idempotencyKey, current.ID)
	s.Require().Equal(http.StatusOK, status, string(body))

	var resp scorer.ScoreSessionResponse
	s.Require().NoError(json.Unmarshal(body, &resp))
	s.True(resp.Success)
	s.Equal(100.0, resp.CompositeIndexes.BQI)
	s.Equal(1, resp.Flags)

	// same key: the stored response comes back without scoring again
	replayStatus, replayBody := s.scoreSession(token, idempotencyKey, current.ID)
	s.Equal(http.StatusOK, replayStatus)
	s.JSONEq(string(body), string(replayBody))

	settings, err := store.GetSettings(ctx, userID)
	s.Require().NoError(err)
	s.Equal(5, settings.StreakCurrent)
	s.Equal(6, settings.StreakBest)

	scored, err := store.GetSession(ctx, current.ID)
	s.Require().NoError(err)
	s.Require().NotNil(scored.Computed.CompositeIndexes)
	s.Equal(resp.CompositeIndexes, *scored.Computed.CompositeIndexes)
	s.Require().NotNil(scored.Computed.DataDensityLevel)
	s.Equal(1, *scored.Computed.DataDensityLevel)

	flags, err := store.ListFlags(ctx, current.ID)
	s.Require().NoError(err)
	s.Require().Len(flags, 1)
	s.Equal(model.FlagInflatedGrading, flags[0].FlagType)

	// a retry under a new key scores again; the flag is not stored twice
	status, _ = s.scoreSession(token, uuid.NewString(), current.ID)
	s.Equal(http.StatusOK, status)
	flags, err = store.ListFlags(ctx, current.ID)
	s.Require().NoError(err)
	s.Len(flags, 1)
}

func (s *IntegrationTestSuite) TestScoreSession_Unauthorized() {
	status, _ := s.scoreSession("not-a-token", "", uuid.NewString())
	s.Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestScoreSession_ForeignSession() {
	ctx := context.Background()
	session := &model.Session{
		ID:          uuid.NewString(),
		UserID:      uuid.NewString(),
		SessionDate: time.Now().UTC(),
		Type:        model.SessionTypeGame,
	}
	s.Require().NoError(s.postgresStore().AddSession(ctx, session))

	status, body := s.scoreSession(s.loginAs(uuid.NewString()), "", session.ID)
	s.Equal(http.StatusNotFound, status)
	s.JSONEq(`{"error":"session not found"}`, string(body))
}
