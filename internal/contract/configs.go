package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// Default values for configuration.
const (
	DefaultTopK       = 10
	MaxTopK           = 100
	DefaultPrecision  = 3
	DefaultSeasonSpan = 10
	DefaultVariance   = 0.95
	DefaultKMin       = 4
	DefaultKMax       = 12
	DefaultSeed       = 42
	DefaultDataDir    = ".nbamind"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for a pipeline run.
// This struct remains the "final, validated" config.
type Config struct {
	SeasonFrom schema.SeasonID
	SeasonTo   schema.SeasonID

	VarianceThreshold float64
	Components        int // pinned K; 0 means scan [KMin, KMax]
	KMin              int
	KMax              int
	Seed              int64

	TopK   int
	Metric schema.DistanceMetric

	// PlayerQuery and QuerySeason identify the similarity query target.
	PlayerQuery string
	QuerySeason schema.SeasonID

	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	DataDir    string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	UseColors bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env,
// config file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	PlayerQueryStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Workers        int    `mapstructure:"workers"`
	DataDir        string `mapstructure:"data-dir"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	LogLevel       string `mapstructure:"log-level"`
	Color          string `mapstructure:"color"`

	// --- Season window flags ---
	From int `mapstructure:"from"`
	To   int `mapstructure:"to"`

	// --- Fields from fitCmd.Flags() ---
	Variance   float64 `mapstructure:"variance"`
	Components int     `mapstructure:"components"`
	KMin       int     `mapstructure:"k-min"`
	KMax       int     `mapstructure:"k-max"`
	Seed       int64   `mapstructure:"seed"`

	// --- Fields from similarCmd.Flags() ---
	Top    int    `mapstructure:"top"`
	Metric string `mapstructure:"metric"`
	Season int    `mapstructure:"season"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Seasons returns every season in the configured window, oldest first.
func (c *Config) Seasons() []schema.SeasonID {
	out := make([]schema.SeasonID, 0, int(c.SeasonTo-c.SeasonFrom)+1)
	for s := c.SeasonFrom; s <= c.SeasonTo; s++ {
		out = append(out, s)
	}
	return out
}

// ProcessAndValidate performs all parsing and validation on the raw
// inputs and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSeasonWindow(cfg, input); err != nil {
		return err
	}
	if err := processModelInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// validateSimpleInputs processes the non-model fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.PlayerQuery = strings.TrimSpace(input.PlayerQueryStr)
	cfg.LogLevel = input.LogLevel

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 1 and 6 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	if input.Top <= 0 || input.Top > MaxTopK {
		return fmt.Errorf("top must be greater than 0 and cannot exceed %d (received %d)", MaxTopK, input.Top)
	}
	cfg.TopK = input.Top

	cfg.Metric = schema.DistanceMetric(strings.ToLower(input.Metric))
	if _, ok := schema.ValidDistanceMetrics[cfg.Metric]; !ok {
		return fmt.Errorf("invalid metric '%s'. must be euclidean or mahalanobis", input.Metric)
	}

	cfg.DataDir = input.DataDir
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	return nil
}

// processSeasonWindow validates the training window and query season.
func processSeasonWindow(cfg *Config, input *ConfigRawInput) error {
	cfg.SeasonFrom = schema.SeasonID(input.From)
	cfg.SeasonTo = schema.SeasonID(input.To)
	if cfg.SeasonFrom == 0 && cfg.SeasonTo == 0 {
		return nil // commands that need a window enforce it themselves
	}
	if cfg.SeasonTo < cfg.SeasonFrom {
		return fmt.Errorf("season window end %d is before start %d", input.To, input.From)
	}
	if cfg.SeasonFrom < 1946 {
		return fmt.Errorf("season %d predates the league", input.From)
	}
	return nil
}

// processModelInputs validates the dimensionality-reduction and
// clustering hyperparameters.
func processModelInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.VarianceThreshold = input.Variance
	if cfg.VarianceThreshold <= 0 || cfg.VarianceThreshold > 1 {
		return fmt.Errorf("variance threshold must be in (0, 1] (received %g)", input.Variance)
	}

	cfg.Components = input.Components
	cfg.KMin = input.KMin
	cfg.KMax = input.KMax
	cfg.Seed = input.Seed
	if cfg.Components < 0 {
		return fmt.Errorf("components cannot be negative (received %d)", input.Components)
	}
	if cfg.Components == 0 {
		if cfg.KMin < 1 || cfg.KMax < cfg.KMin {
			return fmt.Errorf("invalid component scan range [%d, %d]", input.KMin, input.KMax)
		}
	}
	cfg.QuerySeason = schema.SeasonID(input.Season)
	return nil
}

// validateBackendConfig validates the cache backend selection.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// GetCacheDBFilePath returns the default sqlite cache location.
func GetCacheDBFilePath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "nbamind", "payloads.db")
}
