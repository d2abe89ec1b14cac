package governance

import "time"

// Defaults of the seven heuristics. The values come from the product owners and
// should not move without their input; config may override them per environment.
const (
	DefaultInflatedGradeDelta = 12.0

	DefaultVolumeSpikeWindow      = 14 * 24 * time.Hour
	DefaultVolumeSpikeMinSessions = 3
	DefaultVolumeSpikeFactor      = 3.0

	DefaultFatigueLowReadiness  = 2
	DefaultFatigueHighExecution = 60.0

	DefaultRetroactiveWindow   = 7 * 24 * time.Hour
	DefaultRetroactiveMaxCount = 3

	DefaultGradeConsistencySample   = 10
	DefaultGradeConsistencyMaxRange = 5.0

	DefaultRapidImprovementMinAge = 7 * 24 * time.Hour
	DefaultRapidImprovementPct    = 20.0

	DefaultGameInflationWindow      = 30 * 24 * time.Hour
	DefaultGameInflationMinSessions = 3
	DefaultGameInflationDelta       = 15.0
)

type Thresholds struct {
	InflatedGradeDelta float64 `toml:"inflated_grade_delta"`

	VolumeSpikeWindow      time.Duration `toml:"volume_spike_window"`
	VolumeSpikeMinSessions int           `toml:"volume_spike_min_sessions"`
	VolumeSpikeFactor      float64       `toml:"volume_spike_factor"`

	FatigueLowReadiness  int     `toml:"fatigue_low_readiness"`
	FatigueHighExecution float64 `toml:"fatigue_high_execution"`

	RetroactiveWindow   time.Duration `toml:"retroactive_window"`
	RetroactiveMaxCount int           `toml:"retroactive_max_count"`

	GradeConsistencySample   int     `toml:"grade_consistency_sample"`
	GradeConsistencyMaxRange float64 `toml:"grade_consistency_max_range"`

	RapidImprovementMinAge time.Duration `toml:"rapid_improvement_min_age"`
	RapidImprovementPct    float64       `toml:"rapid_improvement_pct"`

	GameInflationWindow      time.Duration `toml:"game_inflation_window"`
	GameInflationMinSessions int           `toml:"game_inflation_min_sessions"`
	GameInflationDelta       float64       `toml:"game_inflation_delta"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		InflatedGradeDelta:       DefaultInflatedGradeDelta,
		VolumeSpikeWindow:        DefaultVolumeSpikeWindow,
		VolumeSpikeMinSessions:   DefaultVolumeSpikeMinSessions,
		VolumeSpikeFactor:        DefaultVolumeSpikeFactor,
		FatigueLowReadiness:      DefaultFatigueLowReadiness,
		FatigueHighExecution:     DefaultFatigueHighExecution,
		RetroactiveWindow:        DefaultRetroactiveWindow,
		RetroactiveMaxCount:      DefaultRetroactiveMaxCount,
		GradeConsistencySample:   DefaultGradeConsistencySample,
		GradeConsistencyMaxRange: DefaultGradeConsistencyMaxRange,
		RapidImprovementMinAge:   DefaultRapidImprovementMinAge,
		RapidImprovementPct:      DefaultRapidImprovementPct,
		GameInflationWindow:      DefaultGameInflationWindow,
		GameInflationMinSessions: DefaultGameInflationMinSessions,
		GameInflationDelta:       DefaultGameInflationDelta,
	}
}

// WithDefaults fills every zero field from DefaultThresholds, so a config
// table only has to name the values it changes.
func (t Thresholds) WithDefaults() Thresholds {
	d := DefaultThresholds()
	if t.InflatedGradeDelta == 0 {
		t.InflatedGradeDelta = d.InflatedGradeDelta
	}
	if t.VolumeSpikeWindow == 0 {
		t.VolumeSpikeWindow = d.VolumeSpikeWindow
	}
	if t.VolumeSpikeMinSessions == 0 {
		t.VolumeSpikeMinSessions = d.VolumeSpikeMinSessions
	}
	if t.VolumeSpikeFactor == 0 {
		t.VolumeSpikeFactor = d.VolumeSpikeFactor
	}
	if t.FatigueLowReadiness == 0 {
		t.FatigueLowReadiness = d.FatigueLowReadiness
	}
	if t.FatigueHighExecution == 0 {
		t.FatigueHighExecution = d.FatigueHighExecution
	}
	if t.RetroactiveWindow == 0 {
		t.RetroactiveWindow = d.RetroactiveWindow
	}
	if t.RetroactiveMaxCount == 0 {
		t.RetroactiveMaxCount = d.RetroactiveMaxCount
	}
	if t.GradeConsistencySample == 0 {
		t.GradeConsistencySample = d.GradeConsistencySample
	}
	if t.GradeConsistencyMaxRange == 0 {
		t.GradeConsistencyMaxRange = d.GradeConsistencyMaxRange
	}
	if t.RapidImprovementMinAge == 0 {
		t.RapidImprovementMinAge = d.RapidImprovementMinAge
	}
	if t.RapidImprovementPct == 0 {
		t.RapidImprovementPct = d.RapidImprovementPct
	}
	if t.GameInflationWindow == 0 {
		t.GameInflationWindow = d.GameInflationWindow
	}
	if t.GameInflationMinSessions == 0 {
		t.GameInflationMinSessions = d.GameInflationMinSessions
	}
	if t.GameInflationDelta == 0 {
		t.GameInflationDelta = d.GameInflationDelta
	}
	return t
}
