package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/telemetry/tracing"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/pkg"

	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

// SQLiteSchema mirrors PostgresSchema. Dates are TEXT in DateLayout, instants are
// unix milliseconds, documents are JSON TEXT.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS mpi_session (
	id                       TEXT PRIMARY KEY,
	user_id                  TEXT NOT NULL,
	session_date             TEXT NOT NULL,
	session_type             TEXT NOT NULL,
	drill_blocks             TEXT NOT NULL DEFAULT '[]',
	player_grade             REAL,
	coach_grade              REAL,
	is_retroactive           INTEGER NOT NULL DEFAULT 0,
	fatigue_state_at_session TEXT,
	composite_indexes        TEXT,
	intent_compliance_pct    REAL,
	effective_grade          REAL,
	data_density_level       INTEGER,
	created_at               INTEGER NOT NULL,
	deleted_at               INTEGER
);
CREATE INDEX IF NOT EXISTS mpi_session_user_date_idx ON mpi_session (user_id, session_date);

CREATE TABLE IF NOT EXISTS athlete_mpi_settings (
	user_id            TEXT PRIMARY KEY,
	streak_current     INTEGER NOT NULL DEFAULT 0,
	streak_best        INTEGER NOT NULL DEFAULT 0,
	data_density_level INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS mpi_governance_flag (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id           TEXT NOT NULL,
	flag_type         TEXT NOT NULL,
	severity          TEXT NOT NULL,
	source_session_id TEXT NOT NULL,
	details           TEXT NOT NULL DEFAULT '{}',
	created_at        INTEGER NOT NULL,
	UNIQUE (source_session_id, flag_type)
);

CREATE TABLE IF NOT EXISTS mpi_composite_snapshot (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id       TEXT NOT NULL,
	session_id    TEXT NOT NULL,
	score         REAL NOT NULL,
	calculated_at INTEGER NOT NULL
);
`

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func toDateText(t time.Time) string {
	return model.Date(t).Format(model.DateLayout)
}

// SQLite is the single file store used for local runs and the rescore tool.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies SQLiteSchema.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(SQLiteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return NewSQLite(db), nil
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{
		db: db,
	}
}

func (r *SQLite) Close() {
	_ = r.db.Close()
}

func (r *SQLite) AddSession(ctx context.Context, session *model.Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.session.add")
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
	var deletedAt *int64
	if session.DeletedAt != nil {
		ms := toMillis(*session.DeletedAt)
		deletedAt = &ms
	}

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO mpi_session (`+sessionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		session.ID, session.UserID, toDateText(session.SessionDate), session.Type.String(), string(blocksJson),
		session.PlayerGrade, session.CoachGrade, session.IsRetroactive, nullableText(fatigueJson), nullableText(indexesJson),
		session.Computed.IntentCompliancePct, session.Computed.EffectiveGrade, session.Computed.DataDensityLevel,
		toMillis(createdAtOrNow(session.CreatedAt)), deletedAt,
	)
	if pkg.IsSQLiteUniqueViolationError(err) {
		return ErrSessionExists
	}
	return err
}

func (r *SQLite) GetSession(ctx context.Context, id string) (_ *model.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.session.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	rows, err := r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM mpi_session WHERE id = ?;`, id)
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

func (r *SQLite) UpdateComputedFields(ctx context.Context, sessionID string, fields model.ComputedFields) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.session.update_computed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	indexesJson, err := marshalNullable(fields.CompositeIndexes)
	if err != nil {
		return fmt.Errorf("marshal composite indexes: %w", err)
	}

	res, err := r.db.ExecContext(
		ctx,
		`UPDATE mpi_session
			SET composite_indexes = ?, intent_compliance_pct = ?, effective_grade = ?, data_density_level = ?
			WHERE id = ?;`,
		nullableText(indexesJson), fields.IntentCompliancePct, fields.EffectiveGrade, fields.DataDensityLevel, sessionID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrSessionNotFound)
}

func (r *SQLite) ListSessions(ctx context.Context, params SessionParams) (_ []model.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.session.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", params.UserID))
	span.SetAttributes(attribute.Bool("graded-only", params.GradedOnly))

	from, to := "", ""
	if params.From != nil {
		from = toDateText(*params.From)
	}
	if params.To != nil {
		to = toDateText(*params.To)
	}

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM mpi_session
			WHERE user_id = ?
			AND deleted_at IS NULL
			AND (? = '' OR id != ?)
			AND (? = '' OR session_date >= ?)
			AND (? = '' OR session_date <= ?)
			AND (? = 0 OR player_grade IS NOT NULL)
			ORDER BY session_date DESC, created_at DESC;`,
		params.UserID,
		params.ExcludeSessionID, params.ExcludeSessionID,
		from, from,
		to, to,
		params.GradedOnly,
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

func (r *SQLite) PreviousSessionDate(ctx context.Context, userID, excludeSessionID string, before time.Time) (_ *time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.session.previous_date")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var prev sql.NullString
	if err := r.db.QueryRowContext(
		ctx,
		`SELECT MAX(session_date) FROM mpi_session
			WHERE user_id = ? AND id != ? AND deleted_at IS NULL AND session_date < ?;`,
		userID, excludeSessionID, toDateText(before),
	).Scan(&prev); err != nil {
		return nil, err
	}
	if !prev.Valid {
		return nil, nil
	}
	d, err := time.Parse(model.DateLayout, prev.String)
	if err != nil {
		return nil, fmt.Errorf("parse session date: %w", err)
	}
	return &d, nil
}

func (r *SQLite) CountRetroactiveCreatedBetween(ctx context.Context, userID string, since, until time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.session.count_retroactive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var count int
	if err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM mpi_session
			WHERE user_id = ? AND is_retroactive = 1 AND deleted_at IS NULL
			AND created_at >= ? AND created_at <= ?;`,
		userID, toMillis(since), toMillis(until),
	).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

func (r *SQLite) RecentPlayerGrades(ctx context.Context, userID string, asOf time.Time, limit int) (_ []float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.session.recent_grades")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT player_grade FROM mpi_session
			WHERE user_id = ? AND deleted_at IS NULL AND player_grade IS NOT NULL
			AND session_date <= ?
			ORDER BY session_date DESC, created_at DESC
			LIMIT ?;`,
		userID, toDateText(asOf), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []float64
	for rows.Next() {
		var g float64
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

func (r *SQLite) UpsertSettings(ctx context.Context, settings model.AthleteSettings) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.settings.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", settings.UserID))

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO athlete_mpi_settings (user_id, streak_current, streak_best, data_density_level)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE
			SET streak_current = excluded.streak_current,
				streak_best = excluded.streak_best,
				data_density_level = excluded.data_density_level;`,
		settings.UserID, settings.StreakCurrent, settings.StreakBest, settings.DataDensityLevel,
	)
	return err
}

func (r *SQLite) GetSettings(ctx context.Context, userID string) (_ *model.AthleteSettings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.settings.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	settings := model.AthleteSettings{UserID: userID}
	err = r.db.QueryRowContext(
		ctx,
		`SELECT streak_current, streak_best, data_density_level FROM athlete_mpi_settings WHERE user_id = ?;`,
		userID,
	).Scan(&settings.StreakCurrent, &settings.StreakBest, &settings.DataDensityLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SQLite) UpdateStreak(ctx context.Context, userID string, current, best int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.settings.update_streak")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	res, err := r.db.ExecContext(
		ctx,
		`UPDATE athlete_mpi_settings SET streak_current = ?, streak_best = ? WHERE user_id = ?;`,
		current, best, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrSettingsNotFound)
}

// InsertFlags writes all flags in one transaction, ignoring the ones already
// stored for the same (source session, type) pair.
func (r *SQLite) InsertFlags(ctx context.Context, flags []model.GovernanceFlag) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.flags.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("flags", len(flags)))

	if len(flags) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	inserted := 0
	for _, flag := range flags {
		detailsJson, err := json.Marshal(flag.Details)
		if err != nil {
			return 0, fmt.Errorf("marshal details of %s: %w", flag.FlagType, err)
		}
		res, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO mpi_governance_flag (user_id, flag_type, severity, source_session_id, details, created_at)
				VALUES (?, ?, ?, ?, ?, ?);`,
			flag.UserID, flag.FlagType.String(), string(flag.Severity), flag.SourceSessionID, string(detailsJson),
			toMillis(createdAtOrNow(flag.CreatedAt)),
		)
		if err != nil {
			return 0, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	span.SetAttributes(attribute.Int("flags.inserted", inserted))
	return inserted, nil
}

func (r *SQLite) ListFlags(ctx context.Context, sessionID string) (_ []model.GovernanceFlag, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.flags.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, flag_type, severity, source_session_id, details, created_at
			FROM mpi_governance_flag
			WHERE source_session_id = ?
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
		var flagType, severity, detailsJson string
		var createdAt int64
		if err := rows.Scan(
			&flag.ID, &flag.UserID, &flagType, &severity, &flag.SourceSessionID, &detailsJson, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		flag.FlagType = model.FlagType(flagType)
		flag.Severity = model.Severity(severity)
		flag.CreatedAt = fromMillis(createdAt)
		if err := json.Unmarshal([]byte(detailsJson), &flag.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
		flags = append(flags, flag)
	}
	return flags, rows.Err()
}

func (r *SQLite) AddSnapshot(ctx context.Context, snapshot model.CompositeSnapshot) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.snapshot.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", snapshot.SessionID))

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO mpi_composite_snapshot (user_id, session_id, score, calculated_at) VALUES (?, ?, ?, ?);`,
		snapshot.UserID, snapshot.SessionID, snapshot.Score, toMillis(snapshot.CalculatedAt),
	)
	return err
}

func (r *SQLite) LatestSnapshotBefore(ctx context.Context, userID string, before time.Time) (_ *model.CompositeSnapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.snapshot.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	snapshot := model.CompositeSnapshot{UserID: userID}
	var calculatedAt int64
	err = r.db.QueryRowContext(
		ctx,
		`SELECT session_id, score, calculated_at FROM mpi_composite_snapshot
			WHERE user_id = ? AND calculated_at <= ?
			ORDER BY calculated_at DESC, id DESC
			LIMIT 1;`,
		userID, toMillis(before),
	).Scan(&snapshot.SessionID, &snapshot.Score, &calculatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	snapshot.CalculatedAt = fromMillis(calculatedAt)
	return &snapshot, nil
}

func (r *SQLite) rows2sessions(rows *sql.Rows) ([]model.Session, error) {
	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		var sessionDate, sessionType, blocksJson string
		var fatigueJson, indexesJson sql.NullString
		var createdAt int64
		var deletedAt sql.NullInt64
		if err := rows.Scan(
			&s.ID, &s.UserID, &sessionDate, &sessionType, &blocksJson, &s.PlayerGrade, &s.CoachGrade,
			&s.IsRetroactive, &fatigueJson, &indexesJson, &s.Computed.IntentCompliancePct,
			&s.Computed.EffectiveGrade, &s.Computed.DataDensityLevel, &createdAt, &deletedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		d, err := time.Parse(model.DateLayout, sessionDate)
		if err != nil {
			return nil, fmt.Errorf("parse session date of %s: %w", s.ID, err)
		}
		s.SessionDate = d
		s.Type = model.SessionType(sessionType)
		s.CreatedAt = fromMillis(createdAt)
		if deletedAt.Valid {
			t := fromMillis(deletedAt.Int64)
			s.DeletedAt = &t
		}
		if err := decodeSessionDocs(&s, []byte(blocksJson), []byte(fatigueJson.String), []byte(indexesJson.String)); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func nullableText(b []byte) *string {
	if b == nil {
		return nil
	}
	s := string(b)
	return &s
}

func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
