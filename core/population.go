package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// stdevEpsilon keeps degenerate populations from dividing by zero while
// leaving real standard deviations effectively untouched.
const stdevEpsilon = 1e-6

// ratioComponents maps each relative-law feature to the per-100 sums
// feeding its possession-weighted league average. League averages for
// ratio stats are sum(numerator)/sum(denominator) over the population,
// not the mean of per-player ratios.
func ratioComponents(p *schema.PlayerSeasonPer100) map[string][2]float64 {
	return map[string][2]float64{
		schema.FeatTSPct:   {p.Points, 2.0 * (p.FGA + ftaPossessionWeight*p.FTA)},
		schema.FeatEFGPct:  {p.FGM + 0.5*p.FG3M, p.FGA},
		schema.FeatFG3Pct:  {p.FG3M, p.FG3A},
		schema.FeatFTRate:  {p.FTA, p.FGA},
		schema.FeatTOVPct:  {p.Turnovers, p.FGA + ftaPossessionWeight*p.FTA + p.Turnovers},
		schema.FeatOrebPct: {p.OrebPct, 1},
		schema.FeatDrebPct: {p.DrebPct, 1},
	}
}

// BuildRotationPopulation selects the season's statistical reference:
// every usable record with at least MinRotationMinutes minutes (the
// boundary is inclusive). It precomputes the per-feature means, standard
// deviations, and league ratio averages every normalization call needs.
//
// Populations are recomputed per season and never mixed across seasons.
// A season with no qualifying players fails with
// schema.ErrInsufficientPopulation instead of silently normalizing
// against an empty reference.
func BuildRotationPopulation(
	season schema.SeasonID,
	records []*schema.PlayerSeasonPer100,
	features []*schema.FeatureVector,
) (*schema.RotationPopulation, error) {
	byKey := make(map[schema.PlayerSeasonKey]*schema.FeatureVector, len(features))
	for _, f := range features {
		byKey[f.Key] = f
	}

	var members []*schema.PlayerSeasonPer100
	for _, r := range records {
		if r.Key.Season != season {
			continue
		}
		if r.Minutes >= schema.MinRotationMinutes && r.Usable() {
			members = append(members, r)
		}
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("season %s: %w", season, schema.ErrInsufficientPopulation)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].Key.String() < members[j].Key.String()
	})

	pop := &schema.RotationPopulation{
		Season: season,
		Mean:   make(map[string]float64),
		Stdev:  make(map[string]float64),
		Ratio:  make(map[string]float64),
	}

	// Accumulate member feature samples for z-score stats and ratio
	// sums for league averages.
	samples := make(map[string][]float64)
	ratioSums := make(map[string][2]float64)
	for _, m := range members {
		pop.Members = append(pop.Members, m.Key)
		if vec, ok := byKey[m.Key]; ok {
			for name, value := range vec.Values {
				if schema.MetricClasses[name] == schema.ZScoreClass {
					samples[name] = append(samples[name], value)
				}
			}
		}
		for name, parts := range ratioComponents(m) {
			acc := ratioSums[name]
			acc[0] += parts[0]
			acc[1] += parts[1]
			ratioSums[name] = acc
		}
	}

	for name, vals := range samples {
		mean, stdev := meanStdev(vals)
		pop.Mean[name] = mean
		pop.Stdev[name] = stdev
	}
	for name, acc := range ratioSums {
		if acc[1] != 0 {
			pop.Ratio[name] = acc[0] / acc[1]
		}
	}
	return pop, nil
}

// meanStdev returns the sample mean and population standard deviation.
func meanStdev(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(vals)))
}
