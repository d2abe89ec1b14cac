// Package governance runs the integrity heuristics that flag suspicious
// self-reported session data for coach review.
package governance

import (
	"context"
	"fmt"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/indexes"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/repo"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=governance_test

type historyReader interface {
	ListSessions(ctx context.Context, params repo.SessionParams) ([]model.Session, error)
	CountRetroactiveCreatedBetween(ctx context.Context, userID string, since, until time.Time) (int, error)
	RecentPlayerGrades(ctx context.Context, userID string, asOf time.Time, limit int) ([]float64, error)
	LatestSnapshotBefore(ctx context.Context, userID string, before time.Time) (*model.CompositeSnapshot, error)
}

// Input is everything a rule may look at besides history. AsOf is the
// evaluation instant every trailing window is measured from.
type Input struct {
	Session *model.Session
	Result  indexes.Result
	AsOf    time.Time
}

// Rule emits at most one flag per evaluation.
type Rule interface {
	Type() model.FlagType
	Evaluate(ctx context.Context, in Input) (*model.GovernanceFlag, error)
}

// RuleError tells which rule could not read its history.
type RuleError struct {
	Rule model.FlagType
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %s", e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

type Engine struct {
	rules []Rule
}

func NewEngine(history historyReader, thresholds Thresholds) *Engine {
	t := thresholds.WithDefaults()
	return &Engine{
		rules: []Rule{
			&inflatedGrading{t: t},
			&volumeSpike{t: t, history: history},
			&fatigueInconsistency{t: t},
			&retroactiveAbuse{t: t, history: history},
			&gradeConsistency{t: t, history: history},
			&rapidImprovement{t: t, history: history},
			&gameInflation{t: t, history: history},
		},
	}
}

func (e *Engine) Rules() []Rule {
	return e.rules
}

// Evaluate runs every rule against the input. A rule failing to read its history
// does not stop the others: it is skipped, and the returned error combines one
// *RuleError per skipped rule. Flags that did fire are returned either way.
func (e *Engine) Evaluate(ctx context.Context, in Input) (_ []model.GovernanceFlag, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "governance.evaluate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	flags := make([]model.GovernanceFlag, 0)
	var skipped error
	for _, rule := range e.rules {
		flag, ruleErr := rule.Evaluate(ctx, in)
		if ruleErr != nil {
			skipped = multierr.Append(skipped, &RuleError{Rule: rule.Type(), Err: ruleErr})
			continue
		}
		if flag == nil {
			continue
		}
		flag.UserID = in.Session.UserID
		flag.SourceSessionID = in.Session.ID
		flag.FlagType = rule.Type()
		flags = append(flags, *flag)
	}

	span.SetAttributes(attribute.Int("governance.flags", len(flags)))
	return flags, skipped
}
