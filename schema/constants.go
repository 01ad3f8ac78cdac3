package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// MetricClass selects the era-adjustment law applied to a metric.
	MetricClass string

	// DistanceMetric selects the distance function for neighbor queries.
	DistanceMetric string

	// ShotZone identifies a court region for shot-profile features.
	ShotZone string

	// StatFamily is a bitset of the stat families a record populates.
	StatFamily uint8
)

// Stat families. Box score exists for every season; the other two are
// gated by season (see FirstShotLocationSeason, FirstTrackingSeason).
const (
	FamilyBox StatFamily = 1 << iota
	FamilyShotLocation
	FamilyTracking
)

// Season availability thresholds and the rotation cutoff.
const (
	// MinRotationMinutes is the season-total minutes floor for the
	// reference population. Constant across eras; the boundary is
	// inclusive.
	MinRotationMinutes = 500.0

	// FirstShotLocationSeason is the first season with shot-location data.
	FirstShotLocationSeason SeasonID = 1996

	// FirstTrackingSeason is the first season with player-tracking data.
	FirstTrackingSeason SeasonID = 2013
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// The three normalization laws.
const (
	// RelativeClass subtracts the rotation-population league average.
	// Applies to efficiency rate stats.
	RelativeClass MetricClass = "relative"

	// ZScoreClass standardizes against the rotation population.
	// Applies to per-100 counting stats and box rate stats.
	ZScoreClass MetricClass = "zscore"

	// RawFrequencyClass keeps the player's own shot-selection mix with
	// no cross-era adjustment.
	RawFrequencyClass MetricClass = "rawfreq"
)

// All distance metrics supported by the neighbor index.
const (
	EuclideanDistance   DistanceMetric = "euclidean" // default
	MahalanobisDistance DistanceMetric = "mahalanobis"
)

// Court zones tracked by the shot-profile features.
const (
	ZoneRestrictedArea ShotZone = "restricted_area"
	ZonePaint          ShotZone = "paint_non_ra"
	ZoneMidRange       ShotZone = "mid_range"
	ZoneLeftCorner3    ShotZone = "left_corner_3"
	ZoneRightCorner3   ShotZone = "right_corner_3"
	ZoneAboveBreak3    ShotZone = "above_break_3"
)

// AllShotZones lists zones in canonical feature order.
var AllShotZones = []ShotZone{
	ZoneRestrictedArea,
	ZonePaint,
	ZoneMidRange,
	ZoneLeftCorner3,
	ZoneRightCorner3,
	ZoneAboveBreak3,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidDistanceMetrics lists all valid neighbor distance metrics.
var ValidDistanceMetrics = map[DistanceMetric]struct{}{
	EuclideanDistance:   {},
	MahalanobisDistance: {},
}
