package schema

// FlagKind enumerates per-record data-quality conditions. Flags
// accumulate in a QualityReport instead of aborting the batch.
type FlagKind string

// All per-record quality flags.
const (
	// FlagZeroDenominator marks a possession or load denominator of
	// zero. The value is left out rather than propagated as NaN.
	FlagZeroDenominator FlagKind = "zero_denominator"

	// FlagMissingStatFamily marks a metric whose stat family is not
	// available for the record's season. Only that metric is excluded.
	FlagMissingStatFamily FlagKind = "missing_stat_family"

	// FlagMissingShotProfile marks a zero-attempt shot profile. The
	// profile is absent, never zero-filled.
	FlagMissingShotProfile FlagKind = "missing_shot_profile"

	// FlagNonFiniteFeature marks a composite formula that produced
	// NaN or Inf. The feature is excluded from clustering input.
	FlagNonFiniteFeature FlagKind = "non_finite_feature"
)

// QualityFlag is one flagged condition on one record.
type QualityFlag struct {
	Key    PlayerSeasonKey `json:"key"`
	Kind   FlagKind        `json:"kind"`
	Metric string          `json:"metric,omitempty"`
}

// QualityReport accumulates flags across a pipeline run. Every pipeline
// output is accompanied by one.
type QualityReport struct {
	Records int              `json:"records"`
	Flags   []QualityFlag    `json:"flags"`
	Counts  map[FlagKind]int `json:"counts"`
	// SkippedSeasons lists seasons aborted for lack of a rotation
	// population. Other seasons proceed.
	SkippedSeasons []SeasonID `json:"skipped_seasons,omitempty"`
}

// NewQualityReport returns an empty report.
func NewQualityReport() *QualityReport {
	return &QualityReport{Counts: make(map[FlagKind]int)}
}

// Add appends flags from one record.
func (r *QualityReport) Add(flags ...QualityFlag) {
	for _, f := range flags {
		r.Flags = append(r.Flags, f)
		r.Counts[f.Kind]++
	}
}

// SkipSeason records a season-level abort.
func (r *QualityReport) SkipSeason(season SeasonID) {
	r.SkippedSeasons = append(r.SkippedSeasons, season)
}

// FlaggedRecords returns the distinct keys carrying at least one flag.
func (r *QualityReport) FlaggedRecords() []PlayerSeasonKey {
	seen := make(map[PlayerSeasonKey]struct{})
	var out []PlayerSeasonKey
	for _, f := range r.Flags {
		if _, ok := seen[f.Key]; ok {
			continue
		}
		seen[f.Key] = struct{}{}
		out = append(out, f.Key)
	}
	return out
}

// Merge folds another report into this one.
func (r *QualityReport) Merge(other *QualityReport) {
	if other == nil {
		return
	}
	r.Records += other.Records
	r.Add(other.Flags...)
	r.SkippedSeasons = append(r.SkippedSeasons, other.SkippedSeasons...)
}
