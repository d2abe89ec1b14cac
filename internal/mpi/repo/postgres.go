package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// PostgresSchema bootstraps an empty database. Migrations in production are run
// out of band, this mirrors them for local setups and integration tests.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS mpi_session (
	id                       TEXT PRIMARY KEY,
	user_id                  TEXT NOT NULL,
	session_date             DATE NOT NULL,
	session_type             TEXT NOT NULL,
	drill_blocks             JSONB NOT NULL DEFAULT '[]',
	player_grade             DOUBLE PRECISION,
	coach_grade              DOUBLE PRECISION,
	is_retroactive           BOOLEAN NOT NULL DEFAULT FALSE,
	fatigue_state_at_session JSONB,
	composite_indexes        JSONB,
	intent_compliance_pct    DOUBLE PRECISION,
	effective_grade          DOUBLE PRECISION,
	data_density_level       INTEGER,
	created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	deleted_at               TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS mpi_session_user_date_idx ON mpi_session (user_id, session_date DESC);

CREATE TABLE IF NOT EXISTS athlete_mpi_settings (
	user_id            TEXT PRIMARY KEY,
	streak_current     INTEGER NOT NULL DEFAULT 0,
	streak_best        INTEGER NOT NULL DEFAULT 0,
	data_density_level INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS mpi_governance_flag (
	id                BIGSERIAL PRIMARY KEY,
	user_id           TEXT NOT NULL,
	flag_type         TEXT NOT NULL,
	severity          TEXT NOT NULL,
	source_session_id TEXT NOT NULL REFERENCES mpi_session (id),
	details           JSONB NOT NULL DEFAULT '{}',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (source_session_id, flag_type)
);

CREATE TABLE IF NOT EXISTS mpi_composite_snapshot (
	id            BIGSERIAL PRIMARY KEY,
	user_id       TEXT NOT NULL,
	session_id    TEXT NOT NULL REFERENCES mpi_session (id),
	score         DOUBLE PRECISION NOT NULL,
	calculated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS mpi_composite_snapshot_user_idx ON mpi_composite_snapshot (user_id, calculated_at DESC);
`

const sessionColumns = `
	id, user_id, session_date, session_type, drill_blocks, player_grade, coach_grade,
	is_retroactive, fatigue_state_at_session, composite_indexes, intent_compliance_pct,
	effective_grade, data_density_level, created_at, deleted_at`

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{
		db: db,
	}
}

func (r *Postgres) Close() {
	r.db.Close()
}

func (r *Postgres) AddSession(ctx context.Context, session *model.Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.session.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", session.ID))

	blocksJson, err := json.Marshal(nonNilBlocks(session.DrillBlocks))
	if err != nil {
		return fmt.Errorf("marshal drill blocks: %w", err)
	}
	fatigueJson, err := marshalNullable(session.Fatigue)
	if err != nil {
		return fmt.Errorf("marshal fatigue: %w", err)
	}
	indexesJson, err := marshalNullable(session.Computed.CompositeIndexes)
	if err != nil {
		return fmt.Errorf("marshal composite indexes: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO mpi_session (`+sessionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`,
		session.ID, session.UserID, model.Date(session.SessionDate), session.Type.String(), blocksJson,
		session.PlayerGrade, session.CoachGrade, session.IsRetroactive, fatigueJson, indexesJson,
		session.Computed.IntentCompliancePct, session.Computed.EffectiveGrade, session.Computed.DataDensityLevel,
		createdAtOrNow(session.CreatedAt), session.DeletedAt,
	)
	if pkg.IsUniqueViolationError(err) {
		return ErrSessionExists
	}
	return err
}

func (r *Postgres) GetSession(ctx context.Context, id string) (_ *model.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.session.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	rows, err := r.db.Query(ctx, `SELECT `+sessionColumns+` FROM mpi_session WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := r.rows2sessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) != 1 {
		return nil, ErrSessionNotFound
	}
	return &sessions[0], nil
}

func (r *Postgres) UpdateComputedFields(ctx context.Context, sessionID string, fields model.ComputedFields) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.session.update_computed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	indexesJson, err := marshalNullable(fields.CompositeIndexes)
	if err != nil {
		return fmt.Errorf("marshal composite indexes: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE mpi_session
			SET composite_indexes = $1, intent_compliance_pct = $2, effective_grade = $3, data_density_level = $4
			WHERE id = $5;`,
		indexesJson, fields.IntentCompliancePct, fields.EffectiveGrade, fields.DataDensityLevel, sessionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Postgres) ListSessions(ctx context.Context, params SessionParams) (_ []model.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.session.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", params.UserID))
	span.SetAttributes(attribute.Bool("graded-only", params.GradedOnly))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	var from, to *time.Time
	if params.From != nil {
		d := model.Date(*params.From)
		from = &d
	}
	if params.To != nil {
		d := model.Date(*params.To)
		to = &d
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+sessionColumns+` FROM mpi_session
			WHERE user_id = $1
			AND deleted_at IS NULL
			AND ($2::text = '' OR id != $2)
			AND ($3::date IS NULL OR session_date >= $3)
			AND ($4::date IS NULL OR session_date <= $4)
			AND ($5::boolean IS FALSE OR player_grade IS NOT NULL)
			ORDER BY session_date DESC, created_at DESC;`,
		params.UserID, params.ExcludeSessionID, from, to, params.GradedOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	sessions, err := r.rows2sessions(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2sessions: %w", err)
	}
	return sessions, nil
}

func (r *Postgres) PreviousSessionDate(ctx context.Context, userID, excludeSessionID string, before time.Time) (_ *time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.session.previous_date")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var prev *time.Time
	if err := r.db.QueryRow(
		ctx,
		`SELECT MAX(session_date) FROM mpi_session
			WHERE user_id = $1 AND id != $2 AND deleted_at IS NULL AND session_date < $3;`,
		userID, excludeSessionID, model.Date(before),
	).Scan(&prev); err != nil {
		return nil, err
	}
	return prev, nil
}

func (r *Postgres) CountRetroactiveCreatedBetween(ctx context.Context, userID string, since, until time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.session.count_retroactive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM mpi_session
			WHERE user_id = $1 AND is_retroactive AND deleted_at IS NULL
			AND created_at >= $2 AND created_at <= $3;`,
		userID, since, until,
	).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

func (r *Postgres) RecentPlayerGrades(ctx context.Context, userID string, asOf time.Time, limit int) (_ []float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.session.recent_grades")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.Query(
		ctx,
		`SELECT player_grade FROM mpi_session
			WHERE user_id = $1 AND deleted_at IS NULL AND player_grade IS NOT NULL
			AND session_date <= $2
			ORDER BY session_date DESC, created_at DESC
			LIMIT $3;`,
		userID, model.Date(asOf), limit,
	)
	if err != nil {
		return nil, err
	}
	grades, err := pgx.CollectRows(rows, pgx.RowTo[float64])
	if err != nil {
		return nil, fmt.Errorf("collect grades: %w", err)
	}
	return grades, nil
}

func (r *Postgres) UpsertSettings(ctx context.Context, settings model.AthleteSettings) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.settings.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", settings.UserID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO athlete_mpi_settings (user_id, streak_current, streak_best, data_density_level)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE
			SET streak_current = EXCLUDED.streak_current,
				streak_best = EXCLUDED.streak_best,
				data_density_level = EXCLUDED.data_density_level;`,
		settings.UserID, settings.StreakCurrent, settings.StreakBest, settings.DataDensityLevel,
	)
	return err
}

func (r *Postgres) GetSettings(ctx context.Context, userID string) (_ *model.AthleteSettings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.settings.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	settings := model.AthleteSettings{UserID: userID}
	err = r.db.QueryRow(
		ctx,
		`SELECT streak_current, streak_best, data_density_level FROM athlete_mpi_settings WHERE user_id = $1;`,
		userID,
	).Scan(&settings.StreakCurrent, &settings.StreakBest, &settings.DataDensityLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *Postgres) UpdateStreak(ctx context.Context, userID string, current, best int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.settings.update_streak")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE athlete_mpi_settings SET streak_current = $1, streak_best = $2 WHERE user_id = $3;`,
		current, best, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSettingsNotFound
	}
	return nil
}

// InsertFlags writes the flags in one batch. A flag whose (source session, type)
// pair is already stored is skipped; the returned count covers new rows only.
func (r *Postgres) InsertFlags(ctx context.Context, flags []model.GovernanceFlag) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.flags.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("flags", len(flags)))

	if len(flags) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, flag := range flags {
		detailsJson, err := json.Marshal(flag.Details)
		if err != nil {
			return 0, fmt.Errorf("marshal details of %s: %w", flag.FlagType, err)
		}
		batch.Queue(
			`INSERT INTO mpi_governance_flag (user_id, flag_type, severity, source_session_id, details, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (source_session_id, flag_type) DO NOTHING;`,
			flag.UserID, flag.FlagType.String(), string(flag.Severity), flag.SourceSessionID, detailsJson, createdAtOrNow(flag.CreatedAt),
		)
	}

	br := r.db.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	inserted := 0
	for range flags {
		tag, err := br.Exec()
		if pkg.IsForeignKeyViolationError(err) {
			return inserted, ErrSessionNotFound
		}
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}

	span.SetAttributes(attribute.Int("flags.inserted", inserted))
	return inserted, nil
}

func (r *Postgres) ListFlags(ctx context.Context, sessionID string) (_ []model.GovernanceFlag, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.flags.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, flag_type, severity, source_session_id, details, created_at
			FROM mpi_governance_flag
			WHERE source_session_id = $1
			ORDER BY id;`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flags []model.GovernanceFlag
	for rows.Next() {
		var flag model.GovernanceFlag
		var flagType, severity string
		var detailsJson []byte
		if err := rows.Scan(
			&flag.ID, &flag.UserID, &flagType, &severity, &flag.SourceSessionID, &detailsJson, &flag.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		flag.FlagType = model.FlagType(flagType)
		flag.Severity = model.Severity(severity)
		if err := json.Unmarshal(detailsJson, &flag.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
		flags = append(flags, flag)
	}
	return flags, rows.Err()
}

func (r *Postgres) AddSnapshot(ctx context.Context, snapshot model.CompositeSnapshot) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.snapshot.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", snapshot.SessionID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO mpi_composite_snapshot (user_id, session_id, score, calculated_at) VALUES ($1, $2, $3, $4);`,
		snapshot.UserID, snapshot.SessionID, snapshot.Score, snapshot.CalculatedAt,
	)
	if pkg.IsForeignKeyViolationError(err) {
		return ErrSessionNotFound
	}
	return err
}

func (r *Postgres) LatestSnapshotBefore(ctx context.Context, userID string, before time.Time) (_ *model.CompositeSnapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mpi.snapshot.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	snapshot := model.CompositeSnapshot{UserID: userID}
	err = r.db.QueryRow(
		ctx,
		`SELECT session_id, score, calculated_at FROM mpi_composite_snapshot
			WHERE user_id = $1 AND calculated_at <= $2
			ORDER BY calculated_at DESC
			LIMIT 1;`,
		userID, before,
	).Scan(&snapshot.SessionID, &snapshot.Score, &snapshot.CalculatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *Postgres) rows2sessions(rows pgx.Rows) ([]model.Session, error) {
	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		var sessionType string
		var blocksJson, fatigueJson, indexesJson []byte
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.SessionDate, &sessionType, &blocksJson, &s.PlayerGrade, &s.CoachGrade,
			&s.IsRetroactive, &fatigueJson, &indexesJson, &s.Computed.IntentCompliancePct,
			&s.Computed.EffectiveGrade, &s.Computed.DataDensityLevel, &s.CreatedAt, &s.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		s.Type = model.SessionType(sessionType)
		if err := decodeSessionDocs(&s, blocksJson, fatigueJson, indexesJson); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
