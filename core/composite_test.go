package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KrishalDhungana/NBAMind/schema"
)

func TestThreePointProficiency(t *testing.T) {
	tests := []struct {
		name   string
		fg3a   float64
		fg3Pct float64
		want   float64
		delta  float64
	}{
		{"zero attempts are zero regardless of accuracy", 0, 0.45, 0, 1e-12},
		{"high volume saturates to the percentage", 20, 0.40, 0.40, 1e-6},
		{"zero accuracy is zero regardless of volume", 12, 0, 0, 1e-12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ThreePointProficiency(tt.fg3a, tt.fg3Pct), tt.delta)
		})
	}

	low := ThreePointProficiency(4, 0.35)
	high := ThreePointProficiency(8, 0.35)
	assert.Less(t, low, high, "more attempts at equal accuracy should mean more proficiency")
}

func TestBoxCreation(t *testing.T) {
	t.Run("without proficiency", func(t *testing.T) {
		// 5*0.1843 + 22*0.0969 - 1.1942
		assert.InDelta(t, 1.8591, BoxCreation(5, 20, 2, 0), 1e-9)
	})

	t.Run("proficiency interaction", func(t *testing.T) {
		// 1.8591 - 2.3021*0.3 + 0.0582*(5*22*0.3)
		assert.InDelta(t, 3.08907, BoxCreation(5, 20, 2, 0.3), 1e-9)
	})
}

func TestOffensiveLoad(t *testing.T) {
	t.Run("discounted assists clamp at zero", func(t *testing.T) {
		// ast 1 - 0.38*5 is negative, so the assist term vanishes.
		got := OffensiveLoad(1, 10, 5, 2, 5)
		assert.InDelta(t, 10+0.44*5+5+2, got, 1e-9)
	})

	t.Run("positive discounted assists", func(t *testing.T) {
		got := OffensiveLoad(6, 10, 5, 2, 2)
		want := math.Pow(6-0.38*2, 0.75) + 10 + 0.44*5 + 2 + 2
		assert.InDelta(t, want, got, 1e-9)
	})
}

func TestTrueUsage(t *testing.T) {
	assert.InDelta(t, 0.222, TrueUsage(10, 5, 2, 8), 1e-9)
	assert.Zero(t, TrueUsage(0, 0, 0, 0))
}

// usablePer100 returns a pace-adjusted record with only box data.
func usablePer100() *schema.PlayerSeasonPer100 {
	return &schema.PlayerSeasonPer100{
		Key:          schema.PlayerSeasonKey{PlayerID: "9", Season: 2010, TeamStint: "DAL"},
		PlayerName:   "Test Wing",
		Possessions:  4000,
		Minutes:      2000,
		Points:       30,
		FGM:          11,
		FGA:          25,
		FG3M:         2.2,
		FG3A:         6,
		FTM:          5.5,
		FTA:          7,
		Oreb:         2,
		Dreb:         6,
		Assists:      8,
		Steals:       1.5,
		Blocks:       0.8,
		Turnovers:    3.5,
		PotentialAst: 14,
		FG3Pct:       0.36,
		OrebPct:      0.05,
		DrebPct:      0.18,
		Families:     schema.FamilyBox,
	}
}

func hasFlag(v *schema.FeatureVector, kind schema.FlagKind, metric string) bool {
	for _, f := range v.Flags {
		if f.Kind == kind && f.Metric == metric {
			return true
		}
	}
	return false
}

func TestAssembleFeaturesBoxOnly(t *testing.T) {
	p := usablePer100()
	v := assembleFeatures(p)

	assert.Equal(t, "raw", v.Stage)
	assert.Equal(t, 30.0, v.Values[schema.FeatPoints])
	assert.Equal(t, 8.0, v.Values[schema.FeatAssists])

	prof := ThreePointProficiency(6, 0.36)
	boxCr := BoxCreation(8, 30, 3.5, prof)
	load := OffensiveLoad(8, 25, 7, 3.5, boxCr)
	usage := TrueUsage(25, 7, 3.5, 14)
	assert.InDelta(t, prof, v.Values[schema.FeatThreeProficiency], 1e-12)
	assert.InDelta(t, boxCr, v.Values[schema.FeatBoxCreation], 1e-12)
	assert.InDelta(t, load, v.Values[schema.FeatOffensiveLoad], 1e-12)
	assert.InDelta(t, usage, v.Values[schema.FeatTrueUsage], 1e-12)
	assert.InDelta(t, load*usage, v.Values[schema.FeatHeliocentricity], 1e-12)
	assert.InDelta(t, 8/load, v.Values[schema.FeatAssistToLoad], 1e-12)
	assert.InDelta(t, 3.5/load, v.Values[schema.FeatTovEconomy], 1e-12)
	assert.InDelta(t, 2.3, v.Values[schema.FeatDefActivity], 1e-12)

	// Efficiency ratios.
	assert.InDelta(t, 30/(2*(25+0.44*7)), v.Values[schema.FeatTSPct], 1e-12)
	assert.InDelta(t, (11+0.5*2.2)/25, v.Values[schema.FeatEFGPct], 1e-12)

	// No tracking and no shot locations: those features are flagged
	// missing, not zero-filled.
	assert.False(t, v.Has(schema.FeatPassingEff))
	assert.True(t, hasFlag(v, schema.FlagMissingStatFamily, schema.FeatPassingEff))
	for _, z := range schema.AllShotZones {
		feat := schema.ShotProfileFeature(z)
		assert.False(t, v.Has(feat))
		assert.True(t, hasFlag(v, schema.FlagMissingStatFamily, feat), "zone %s should be flagged", z)
	}
}

func TestAssembleFeaturesPassingEfficiency(t *testing.T) {
	p := usablePer100()
	p.Families |= schema.FamilyTracking
	v := assembleFeatures(p)

	assert.InDelta(t, 8.0/14.0, v.Values[schema.FeatPassingEff], 1e-12)
	assert.False(t, hasFlag(v, schema.FlagMissingStatFamily, schema.FeatPassingEff))
}

func TestAssembleCompositesMissingPotentialAst(t *testing.T) {
	p := usablePer100()
	p.Key.Season = 2020
	p.PotentialAst = 0
	p.Flags = []schema.QualityFlag{{Key: p.Key, Kind: schema.FlagMissingStatFamily, Metric: schema.FeatPotentialAst}}

	v := assembleFeatures(p)

	assert.False(t, v.Has(schema.FeatTrueUsage), "no potential-assist rate means no usage, not a silent zero")
	assert.False(t, v.Has(schema.FeatHeliocentricity))
	assert.True(t, hasFlag(v, schema.FlagMissingStatFamily, schema.FeatTrueUsage))
	assert.True(t, hasFlag(v, schema.FlagMissingStatFamily, schema.FeatHeliocentricity))

	assert.True(t, v.Has(schema.FeatBoxCreation), "box-derived composites are unaffected")
	assert.True(t, v.Has(schema.FeatOffensiveLoad))
	assert.True(t, v.Has(schema.FeatAssistToLoad))
}

func TestAssembleCompositesZeroFGA(t *testing.T) {
	p := usablePer100()
	p.FGA = 0
	p.FGM = 0
	v := assembleFeatures(p)

	for _, feat := range []string{
		schema.FeatThreeProficiency, schema.FeatBoxCreation,
		schema.FeatOffensiveLoad, schema.FeatTrueUsage,
		schema.FeatAssistToLoad, schema.FeatTovEconomy,
	} {
		assert.False(t, v.Has(feat), "%s should be absent without a single attempt", feat)
		assert.True(t, hasFlag(v, schema.FlagZeroDenominator, feat), "%s should be flagged", feat)
	}
}

func TestAssembleShotProfile(t *testing.T) {
	t.Run("frequencies sum to one", func(t *testing.T) {
		p := usablePer100()
		p.Families |= schema.FamilyShotLocation
		p.ZoneAttempts = map[schema.ShotZone]float64{
			schema.ZoneRestrictedArea: 300,
			schema.ZoneMidRange:       200,
			schema.ZoneAboveBreak3:    100,
		}
		v := assembleFeatures(p)

		assert.InDelta(t, 0.5, v.Values[schema.ShotProfileFeature(schema.ZoneRestrictedArea)], 1e-12)
		assert.Zero(t, v.Values[schema.ShotProfileFeature(schema.ZoneLeftCorner3)], "unattempted zones are explicit zeros")

		var sum float64
		for _, z := range schema.AllShotZones {
			sum += v.Values[schema.ShotProfileFeature(z)]
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "shot profile must be a proper frequency distribution")
	})

	t.Run("zero attempts flag the whole profile", func(t *testing.T) {
		p := usablePer100()
		p.Families |= schema.FamilyShotLocation
		p.ZoneAttempts = map[schema.ShotZone]float64{}
		v := assembleFeatures(p)

		for _, z := range schema.AllShotZones {
			assert.False(t, v.Has(schema.ShotProfileFeature(z)))
		}
		assert.True(t, hasFlag(v, schema.FlagMissingShotProfile, ""))
	})
}

func TestAssembleFeaturesUnusableRecord(t *testing.T) {
	p := usablePer100()
	p.Flags = []schema.QualityFlag{{Key: p.Key, Kind: schema.FlagZeroDenominator, Metric: "possessions"}}
	v := assembleFeatures(p)

	assert.Empty(t, v.Values, "no per-100 feature can exist without a possession denominator")
	assert.Len(t, v.Flags, 1, "the upstream flag should be carried through")
}
