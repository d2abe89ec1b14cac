// Package scorer runs the scoring pipeline of a logged session: composite
// indices, streak, governance flags and the composite snapshot.
package scorer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/governance"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/indexes"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/repo"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/metrics"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=scorer_test

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRequest  = errors.New("invalid request")
)

type sessionStore interface {
	GetSession(ctx context.Context, id string) (*model.Session, error)
	UpdateComputedFields(ctx context.Context, sessionID string, fields model.ComputedFields) error
	GetSettings(ctx context.Context, userID string) (*model.AthleteSettings, error)
	InsertFlags(ctx context.Context, flags []model.GovernanceFlag) (int, error)
	AddSnapshot(ctx context.Context, snapshot model.CompositeSnapshot) error
}

type streakUpdater interface {
	Update(ctx context.Context, sessionID string, sessionDate time.Time, settings *model.AthleteSettings) (*model.AthleteSettings, error)
}

type flagEvaluator interface {
	Evaluate(ctx context.Context, in governance.Input) ([]model.GovernanceFlag, error)
}

type Result struct {
	CompositeIndexes model.CompositeIndexes
	FlagCount        int
}

type Service struct {
	store          sessionStore
	streaks        streakUpdater
	governance     flagEvaluator
	metricsManager *metrics.Manager
	// ability to inject the evaluation clock (for unit testing and rescoring)
	Now func() time.Time
}

func NewService(
	store sessionStore,
	streaks streakUpdater,
	governance flagEvaluator,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		store:          store,
		streaks:        streaks,
		governance:     governance,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

// ScoreSession scores the session for its owner. Sessions that are absent, soft
// deleted or owned by someone else all give ErrSessionNotFound. Steps run one
// after another; a failed write aborts the rest and leaves the earlier writes in
// place, which a retry overwrites. Governance history failures never fail the
// call, the affected rules are skipped.
func (s *Service) ScoreSession(ctx context.Context, userID, sessionID string) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.scorer.score")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	if userID == "" || sessionID == "" {
		return nil, ErrInvalidRequest
	}

	defer func(begin time.Time) {
		if s.metricsManager != nil && err == nil {
			s.metricsManager.HistogramScoringDuration.Observe(time.Since(begin).Seconds())
			s.metricsManager.CounterScoredSessions.Inc()
		}
	}(time.Now())

	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, repo.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID || session.IsDeleted() {
		log.Debugf("score session [%s]: not visible to user [%s]", sessionID, userID)
		return nil, ErrSessionNotFound
	}

	settings, err := s.store.GetSettings(ctx, userID)
	if errors.Is(err, repo.ErrSettingsNotFound) {
		settings = nil
	} else if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	calc := indexes.Calculate(session)
	compositeIndexes := calc.Indexes
	computed := model.ComputedFields{
		CompositeIndexes:    &compositeIndexes,
		IntentCompliancePct: &calc.IntentCompliancePct,
		EffectiveGrade:      &calc.EffectiveGrade,
	}
	if settings != nil {
		density := settings.DataDensityLevel
		computed.DataDensityLevel = &density
	}
	if err := s.store.UpdateComputedFields(ctx, session.ID, computed); err != nil {
		return nil, fmt.Errorf("update computed fields: %w", err)
	}
	session.Computed = computed

	if _, err := s.streaks.Update(ctx, session.ID, session.SessionDate, settings); err != nil {
		return nil, fmt.Errorf("update streak: %w", err)
	}

	now := s.Now()
	flags, rulesErr := s.governance.Evaluate(ctx, governance.Input{
		Session: session,
		Result:  calc,
		AsOf:    now,
	})
	if rulesErr != nil {
		s.reportSkippedRules(session.ID, rulesErr)
	}

	if len(flags) > 0 {
		for i := range flags {
			flags[i].CreatedAt = now
		}
		inserted, err := s.store.InsertFlags(ctx, flags)
		if err != nil {
			return nil, fmt.Errorf("insert flags: %w", err)
		}
		if inserted < len(flags) {
			log.Debugf("score session [%s]: %d of %d flags already recorded", session.ID, len(flags)-inserted, len(flags))
		}
		if s.metricsManager != nil {
			for _, flag := range flags {
				s.metricsManager.CounterGovernanceFlags.WithLabelValues(flag.FlagType.String()).Inc()
			}
		}
	}

	if err := s.store.AddSnapshot(ctx, model.CompositeSnapshot{
		UserID:       userID,
		SessionID:    session.ID,
		Score:        calc.Indexes.Mean(),
		CalculatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("add composite snapshot: %w", err)
	}

	span.SetAttributes(attribute.Int("flags", len(flags)))
	log.Tracef("scored session [%s] for [%s]: %d flags", session.ID, userID, len(flags))

	return &Result{
		CompositeIndexes: calc.Indexes,
		FlagCount:        len(flags),
	}, nil
}

func (s *Service) reportSkippedRules(sessionID string, rulesErr error) {
	for _, ruleErr := range multierr.Errors(rulesErr) {
		var re *governance.RuleError
		if !errors.As(ruleErr, &re) {
			log.Errorf("score session [%s]: governance: %s", sessionID, ruleErr)
			continue
		}
		log.Errorf("score session [%s]: governance rule [%s] skipped: %s", sessionID, re.Rule, re.Err)
		if s.metricsManager != nil {
			s.metricsManager.CounterRuleFailures.WithLabelValues(re.Rule.String()).Inc()
		}
	}
}
