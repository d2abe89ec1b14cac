package repo

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
)

type flagKey struct {
	sessionID string
	flagType  model.FlagType
}

// Memory keeps everything in maps. Used by tests and the dev server when no
// database is configured.
type Memory struct {
	mu        sync.RWMutex
	sessions  map[string]model.Session
	settings  map[string]model.AthleteSettings
	flags     []model.GovernanceFlag
	flagKeys  map[flagKey]struct{}
	snapshots []model.CompositeSnapshot
	nextID    int64
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]model.Session),
		settings: make(map[string]model.AthleteSettings),
		flagKeys: make(map[flagKey]struct{}),
	}
}

func (r *Memory) Close() {}

func (r *Memory) AddSession(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[session.ID]; exists {
		return ErrSessionExists
	}
	s := *session
	s.SessionDate = model.Date(s.SessionDate)
	s.CreatedAt = createdAtOrNow(s.CreatedAt)
	r.sessions[s.ID] = s
	return nil
}

func (r *Memory) GetSession(_ context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (r *Memory) UpdateComputedFields(_ context.Context, sessionID string, fields model.ComputedFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.Computed = fields
	r.sessions[sessionID] = s
	return nil
}

// active returns the user's non deleted sessions, newest first.
func (r *Memory) active(userID string) []model.Session {
	var sessions []model.Session
	for _, s := range r.sessions {
		if s.UserID == userID && !s.IsDeleted() {
			sessions = append(sessions, s)
		}
	}
	slices.SortFunc(sessions, func(a, b model.Session) int {
		if c := b.SessionDate.Compare(a.SessionDate); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sessions
}

func (r *Memory) ListSessions(_ context.Context, params SessionParams) ([]model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sessions []model.Session
	for _, s := range r.active(params.UserID) {
		if params.ExcludeSessionID != "" && s.ID == params.ExcludeSessionID {
			continue
		}
		if params.From != nil && s.SessionDate.Before(model.Date(*params.From)) {
			continue
		}
		if params.To != nil && s.SessionDate.After(model.Date(*params.To)) {
			continue
		}
		if params.GradedOnly && s.PlayerGrade == nil {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *Memory) PreviousSessionDate(_ context.Context, userID, excludeSessionID string, before time.Time) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	before = model.Date(before)
	for _, s := range r.active(userID) {
		if s.ID != excludeSessionID && s.SessionDate.Before(before) {
			d := s.SessionDate
			return &d, nil
		}
	}
	return nil, nil
}

func (r *Memory) CountRetroactiveCreatedBetween(_ context.Context, userID string, since, until time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, s := range r.active(userID) {
		if s.IsRetroactive && !s.CreatedAt.Before(since) && !s.CreatedAt.After(until) {
			count++
		}
	}
	return count, nil
}

func (r *Memory) RecentPlayerGrades(_ context.Context, userID string, asOf time.Time, limit int) ([]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asOf = model.Date(asOf)
	var grades []float64
	for _, s := range r.active(userID) {
		if len(grades) == limit {
			break
		}
		if s.PlayerGrade != nil && !s.SessionDate.After(asOf) {
			grades = append(grades, *s.PlayerGrade)
		}
	}
	return grades, nil
}

func (r *Memory) UpsertSettings(_ context.Context, settings model.AthleteSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[settings.UserID] = settings
	return nil
}

func (r *Memory) GetSettings(_ context.Context, userID string) (*model.AthleteSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.settings[userID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	return &settings, nil
}

func (r *Memory) UpdateStreak(_ context.Context, userID string, current, best int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings, ok := r.settings[userID]
	if !ok {
		return ErrSettingsNotFound
	}
	settings.StreakCurrent = current
	settings.StreakBest = best
	r.settings[userID] = settings
	return nil
}

func (r *Memory) InsertFlags(_ context.Context, flags []model.GovernanceFlag) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, flag := range flags {
		key := flagKey{sessionID: flag.SourceSessionID, flagType: flag.FlagType}
		if _, exists := r.flagKeys[key]; exists {
			continue
		}
		r.nextID++
		flag.ID = r.nextID
		flag.CreatedAt = createdAtOrNow(flag.CreatedAt)
		r.flagKeys[key] = struct{}{}
		r.flags = append(r.flags, flag)
		inserted++
	}
	return inserted, nil
}

func (r *Memory) ListFlags(_ context.Context, sessionID string) ([]model.GovernanceFlag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var flags []model.GovernanceFlag
	for _, flag := range r.flags {
		if flag.SourceSessionID == sessionID {
			flags = append(flags, flag)
		}
	}
	return flags, nil
}

func (r *Memory) AddSnapshot(_ context.Context, snapshot model.CompositeSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

func (r *Memory) LatestSnapshotBefore(_ context.Context, userID string, before time.Time) (*model.CompositeSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *model.CompositeSnapshot
	for i := range r.snapshots {
		s := r.snapshots[i]
		if s.UserID != userID || s.CalculatedAt.After(before) {
			continue
		}
		if latest == nil || cmp.Compare(s.CalculatedAt.UnixNano(), latest.CalculatedAt.UnixNano()) >= 0 {
			latest = &s
		}
	}
	return latest, nil
}
