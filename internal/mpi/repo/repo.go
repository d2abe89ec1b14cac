package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExists    = errors.New("session already exists")
	ErrSettingsNotFound = errors.New("athlete settings not found")
)

var _ Store = (*Postgres)(nil)
var _ Store = (*SQLite)(nil)
var _ Store = (*Memory)(nil)

// Store is typed access to the session, athlete settings, governance flag and
// composite snapshot records. Soft deleted sessions never show up in history
// queries; GetSession still returns them so callers can tell deleted from absent.
type Store interface {
	AddSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	UpdateComputedFields(ctx context.Context, sessionID string, fields model.ComputedFields) error
	ListSessions(ctx context.Context, params SessionParams) ([]model.Session, error)
	PreviousSessionDate(ctx context.Context, userID, excludeSessionID string, before time.Time) (*time.Time, error)
	// CountRetroactiveCreatedBetween counts retroactive sessions created in [since, until].
	CountRetroactiveCreatedBetween(ctx context.Context, userID string, since, until time.Time) (int, error)
	// RecentPlayerGrades returns up to limit player grades of sessions dated on or
	// before asOf, newest first.
	RecentPlayerGrades(ctx context.Context, userID string, asOf time.Time, limit int) ([]float64, error)

	UpsertSettings(ctx context.Context, settings model.AthleteSettings) error
	GetSettings(ctx context.Context, userID string) (*model.AthleteSettings, error)
	UpdateStreak(ctx context.Context, userID string, current, best int) error

	InsertFlags(ctx context.Context, flags []model.GovernanceFlag) (int, error)
	ListFlags(ctx context.Context, sessionID string) ([]model.GovernanceFlag, error)

	AddSnapshot(ctx context.Context, snapshot model.CompositeSnapshot) error
	LatestSnapshotBefore(ctx context.Context, userID string, before time.Time) (*model.CompositeSnapshot, error)

	Close()
}

// SessionParams filters the athlete's non deleted sessions.
type SessionParams struct {
	UserID           string
	ExcludeSessionID string
	// From is inclusive and compared against the session date.
	From *time.Time
	// To is inclusive and compared against the session date.
	To *time.Time
	// GradedOnly keeps sessions carrying a player grade.
	GradedOnly bool
}
