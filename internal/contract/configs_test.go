package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// validInput mirrors the flag defaults the CLI registers.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:       "text",
		Precision:    3,
		Workers:      4,
		DataDir:      "",
		CacheBackend: "sqlite",
		LogLevel:     "info",
		Color:        "yes",
		Variance:     0.95,
		Components:   0,
		KMin:         4,
		KMax:         12,
		Seed:         42,
		Top:          10,
		Metric:       "euclidean",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.From = 2000
	input.To = 2010
	input.PlayerQueryStr = "  Manu Ginobili  "

	err := ProcessAndValidate(cfg, input)
	assert.NoError(t, err)

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, schema.EuclideanDistance, cfg.Metric)
	assert.Equal(t, DefaultDataDir, cfg.DataDir, "empty data dir falls back to the default")
	assert.Equal(t, "Manu Ginobili", cfg.PlayerQuery, "the query is trimmed")
	assert.Equal(t, schema.SeasonID(2000), cfg.SeasonFrom)
	assert.Equal(t, schema.SeasonID(2010), cfg.SeasonTo)
	assert.True(t, cfg.UseColors)
	assert.Len(t, cfg.Seasons(), 11)
}

func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"bad output format", func(i *ConfigRawInput) { i.Output = "xml" }},
		{"zero workers", func(i *ConfigRawInput) { i.Workers = 0 }},
		{"precision too high", func(i *ConfigRawInput) { i.Precision = 9 }},
		{"precision too low", func(i *ConfigRawInput) { i.Precision = 0 }},
		{"zero top", func(i *ConfigRawInput) { i.Top = 0 }},
		{"top over cap", func(i *ConfigRawInput) { i.Top = MaxTopK + 1 }},
		{"bad metric", func(i *ConfigRawInput) { i.Metric = "cosine" }},
		{"bad color value", func(i *ConfigRawInput) { i.Color = "maybe" }},
		{"window ends before start", func(i *ConfigRawInput) { i.From = 2010; i.To = 2005 }},
		{"window predates the league", func(i *ConfigRawInput) { i.From = 1900; i.To = 1950 }},
		{"variance over one", func(i *ConfigRawInput) { i.Variance = 1.5 }},
		{"variance zero", func(i *ConfigRawInput) { i.Variance = 0 }},
		{"negative components", func(i *ConfigRawInput) { i.Components = -1 }},
		{"inverted scan range", func(i *ConfigRawInput) { i.KMin = 8; i.KMax = 4 }},
		{"zero k-min", func(i *ConfigRawInput) { i.KMin = 0 }},
		{"bad backend", func(i *ConfigRawInput) { i.CacheBackend = "redis" }},
		{"mysql without connection string", func(i *ConfigRawInput) { i.CacheBackend = "mysql" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestProcessAndValidatePinnedComponentsSkipScanRange(t *testing.T) {
	input := validInput()
	input.Components = 6
	input.KMin = 0 // invalid range, but irrelevant with a pinned K
	cfg := &Config{}

	assert.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 6, cfg.Components)
}

func TestProcessAndValidateQuerySeason(t *testing.T) {
	input := validInput()
	input.Season = 2006
	cfg := &Config{}

	assert.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.SeasonID(2006), cfg.QuerySeason)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql well formed", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/nbamind", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/nbamind", true},
		{"mysql missing database", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres well formed", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=nbamind", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=nbamind", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseBoolString(t *testing.T) {
	truthy := []string{"yes", "Y", "TRUE", "1", "on", " yes "}
	for _, s := range truthy {
		got, err := ParseBoolString(s)
		assert.NoError(t, err, "%q should parse", s)
		assert.True(t, got)
	}

	falsy := []string{"no", "N", "false", "0", "off"}
	for _, s := range falsy {
		got, err := ParseBoolString(s)
		assert.NoError(t, err, "%q should parse", s)
		assert.False(t, got)
	}

	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		similarity float64
		want       string
	}{
		{0.9, TwinValue},
		{0.5, TwinValue},
		{0.49, StrongValue},
		{0.3, StrongValue},
		{0.2, ComparableValue},
		{0.15, ComparableValue},
		{0.1, DistantValue},
		{0, DistantValue},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPlainLabel(tt.similarity), "similarity %.2f", tt.similarity)
		})
	}
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Tim Duncan", TruncateName("Tim Duncan", 20), "short names pass through")
	assert.Equal(t, "Giannis Antetok...", TruncateName("Giannis Antetokounmpo", 18))
	assert.Equal(t, "Giannis Antetokounmpo", TruncateName("Giannis Antetokounmpo", 3), "tiny widths skip truncation")
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{TopK: 10, Metric: schema.EuclideanDistance}
	clone := cfg.Clone()
	clone.TopK = 25

	assert.Equal(t, 10, cfg.TopK, "clone mutation should not reach the original")
}
