package core

import "github.com/KrishalDhungana/NBAMind/schema"

// NormalizeVector applies the era-adjustment law of each metric class to
// one record's assembled features, scored against the season's rotation
// population. Players below the rotation cutoff still get normalized
// features; the population is only the statistical reference.
//
// Laws, by class:
//   - relative: value minus the population league average
//   - zscore: (value - mean) / stdev, zero when the population has no
//     variance
//   - raw frequency: passed through untouched (the profile is already an
//     intra-player mix)
func NormalizeVector(raw *schema.FeatureVector, pop *schema.RotationPopulation) *schema.FeatureVector {
	out := &schema.FeatureVector{
		Key:        raw.Key,
		PlayerName: raw.PlayerName,
		Stage:      "normalized",
		Values:     make(map[string]float64, len(raw.Values)),
		Flags:      append([]schema.QualityFlag(nil), raw.Flags...),
	}
	for name, value := range raw.Values {
		switch schema.MetricClasses[name] {
		case schema.RelativeClass:
			out.Values[name] = value - pop.Ratio[name]
		case schema.ZScoreClass:
			stdev := pop.Stdev[name]
			if stdev == 0 {
				out.Values[name] = 0
				continue
			}
			out.Values[name] = (value - pop.Mean[name]) / (stdev + stdevEpsilon)
		default:
			out.Values[name] = value
		}
	}
	return out
}
