package core

import (
	"math"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// Composite formula coefficients, calibrated offline against on-ball
// creation estimates. BoxCreation is evaluated first and injected into
// OffensiveLoad as a plain upstream input.
const (
	bcAstCoef     = 0.1843
	bcScoringCoef = 0.0969
	bcProfCoef    = 2.3021
	bcInterCoef   = 0.0582
	bcIntercept   = 1.1942

	loadAstDiscount = 0.38
	loadAstExponent = 0.75

	ftaPossessionWeight = 0.44
)

// ThreePointProficiency blends three-point volume and accuracy: a
// logistic curve over per-100 attempts, scaled by the player's 3P%.
// Low-volume shooters are pulled toward zero regardless of accuracy.
// This single definition is used everywhere proficiency appears.
func ThreePointProficiency(fg3aPer100, fg3Pct float64) float64 {
	return (2.0/(1.0+math.Exp(-fg3aPer100)) - 1.0) * fg3Pct
}

// BoxCreation estimates shots created for teammates per 100 possessions.
func BoxCreation(ast, pts, tov, proficiency float64) float64 {
	scoring := pts + tov
	return ast*bcAstCoef + scoring*bcScoringCoef - bcProfCoef*proficiency +
		bcInterCoef*(ast*scoring*proficiency) - bcIntercept
}

// OffensiveLoad estimates the share of offensive actions a player is
// directly involved in per 100 possessions. Assists are discounted by
// the creation already credited through BoxCreation.
func OffensiveLoad(ast, fga, fta, tov, boxCreation float64) float64 {
	discounted := ast - loadAstDiscount*boxCreation
	if discounted < 0 {
		discounted = 0
	}
	return math.Pow(discounted, loadAstExponent) + fga + ftaPossessionWeight*fta + boxCreation + tov
}

// TrueUsage is the share of team possessions a player ends with a shot,
// free throws, turnover, or potential assist. Inputs are per-100, so the
// denominator is the fixed 100-possession base.
func TrueUsage(fga, fta, tov, potentialAst float64) float64 {
	return (fga + ftaPossessionWeight*fta + tov + potentialAst) / 100.0
}

// assembleFeatures computes the unnormalized feature values for one
// pace-adjusted record: per-100 volume stats, efficiency ratios,
// composite metrics, and the raw shot-selection profile. Metrics whose
// denominators are zero or whose stat families are unavailable are
// flagged and left out, never zero-filled.
func assembleFeatures(p *schema.PlayerSeasonPer100) *schema.FeatureVector {
	v := &schema.FeatureVector{
		Key:        p.Key,
		PlayerName: p.PlayerName,
		Stage:      "raw",
		Values:     make(map[string]float64),
		Flags:      append([]schema.QualityFlag(nil), p.Flags...),
	}
	if !p.Usable() {
		// No possession denominator: every per-100 derived metric is
		// unavailable. The zero-denominator flag is already carried.
		return v
	}

	v.Values[schema.FeatPoints] = p.Points
	v.Values[schema.FeatFGA] = p.FGA
	v.Values[schema.FeatFG3A] = p.FG3A
	v.Values[schema.FeatFTA] = p.FTA
	v.Values[schema.FeatOreb] = p.Oreb
	v.Values[schema.FeatDreb] = p.Dreb
	v.Values[schema.FeatAssists] = p.Assists
	v.Values[schema.FeatSteals] = p.Steals
	v.Values[schema.FeatBlocks] = p.Blocks
	v.Values[schema.FeatTurnovers] = p.Turnovers

	assembleEfficiency(p, v)
	assembleComposites(p, v)
	assembleShotProfile(p, v)
	return v
}

// assembleEfficiency computes the rate stats later normalized by the
// relative law.
func assembleEfficiency(p *schema.PlayerSeasonPer100, v *schema.FeatureVector) {
	setRatio(v, schema.FeatTSPct, p.Points, 2.0*(p.FGA+ftaPossessionWeight*p.FTA))
	setRatio(v, schema.FeatEFGPct, p.FGM+0.5*p.FG3M, p.FGA)
	setRatio(v, schema.FeatFTRate, p.FTA, p.FGA)
	setRatio(v, schema.FeatTOVPct, p.Turnovers, p.FGA+ftaPossessionWeight*p.FTA+p.Turnovers)
	v.Values[schema.FeatFG3Pct] = p.FG3Pct
	v.Values[schema.FeatOrebPct] = p.OrebPct
	v.Values[schema.FeatDrebPct] = p.DrebPct
}

// assembleComposites evaluates the engineered metrics. Every output is
// checked for finiteness; a non-finite result is flagged and excluded
// rather than propagated.
func assembleComposites(p *schema.PlayerSeasonPer100, v *schema.FeatureVector) {
	if p.FGA == 0 {
		// A season without a single field-goal attempt gives the
		// creation formulas nothing to work with.
		for _, feat := range []string{
			schema.FeatThreeProficiency, schema.FeatBoxCreation,
			schema.FeatOffensiveLoad, schema.FeatTrueUsage,
			schema.FeatAssistToLoad, schema.FeatTovEconomy,
		} {
			v.Flag(schema.FlagZeroDenominator, feat)
		}
		return
	}

	prof := ThreePointProficiency(p.FG3A, p.FG3Pct)
	boxCr := BoxCreation(p.Assists, p.Points, p.Turnovers, prof)
	load := OffensiveLoad(p.Assists, p.FGA, p.FTA, p.Turnovers, boxCr)

	setFinite(v, schema.FeatThreeProficiency, prof)
	setFinite(v, schema.FeatBoxCreation, boxCr)
	setFinite(v, schema.FeatOffensiveLoad, load)
	setFinite(v, schema.FeatDefActivity, p.Steals+p.Blocks)

	if p.HasPotentialAst() {
		usage := TrueUsage(p.FGA, p.FTA, p.Turnovers, p.PotentialAst)
		setFinite(v, schema.FeatTrueUsage, usage)
		setFinite(v, schema.FeatHeliocentricity, load*usage)
	} else {
		v.Flag(schema.FlagMissingStatFamily, schema.FeatTrueUsage)
		v.Flag(schema.FlagMissingStatFamily, schema.FeatHeliocentricity)
	}

	if load <= loadEpsilon {
		v.Flag(schema.FlagZeroDenominator, schema.FeatAssistToLoad)
		v.Flag(schema.FlagZeroDenominator, schema.FeatTovEconomy)
	} else {
		setFinite(v, schema.FeatAssistToLoad, p.Assists/load)
		setFinite(v, schema.FeatTovEconomy, p.Turnovers/load)
	}

	if p.Families&schema.FamilyTracking != 0 {
		setRatio(v, schema.FeatPassingEff, p.Assists, p.PotentialAst)
	} else {
		v.Flag(schema.FlagMissingStatFamily, schema.FeatPassingEff)
	}
}

// assembleShotProfile computes the player's intra-season shot-selection
// mix. The profile carries no cross-era adjustment; components sum to
// one. A zero-attempt profile is flagged missing, never zero-filled.
func assembleShotProfile(p *schema.PlayerSeasonPer100, v *schema.FeatureVector) {
	if p.Families&schema.FamilyShotLocation == 0 {
		for _, z := range schema.AllShotZones {
			v.Flag(schema.FlagMissingStatFamily, schema.ShotProfileFeature(z))
		}
		return
	}
	var total float64
	for _, z := range schema.AllShotZones {
		total += p.ZoneAttempts[z]
	}
	if total == 0 {
		v.Flag(schema.FlagMissingShotProfile, "")
		return
	}
	for _, z := range schema.AllShotZones {
		v.Values[schema.ShotProfileFeature(z)] = p.ZoneAttempts[z] / total
	}
}

// loadEpsilon guards the load-denominated ratios against a vanishing
// offensive load.
const loadEpsilon = 1e-9

func setRatio(v *schema.FeatureVector, name string, num, den float64) {
	if den == 0 {
		v.Flag(schema.FlagZeroDenominator, name)
		return
	}
	setFinite(v, name, num/den)
}

func setFinite(v *schema.FeatureVector, name string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.Flag(schema.FlagNonFiniteFeature, name)
		return
	}
	v.Values[name] = value
}
