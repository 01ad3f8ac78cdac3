package schema

// Feature names used across the pipeline. Volume features are per-100
// rates, efficiency features are rate stats, composite features are
// engineered metrics, and shot-profile features are intra-player
// frequencies.
const (
	FeatPoints       = "pts_per100"
	FeatFGA          = "fga_per100"
	FeatFG3A         = "fg3a_per100"
	FeatFTA          = "fta_per100"
	FeatOreb         = "oreb_per100"
	FeatDreb         = "dreb_per100"
	FeatAssists      = "ast_per100"
	FeatSteals       = "stl_per100"
	FeatBlocks       = "blk_per100"
	FeatTurnovers    = "tov_per100"
	FeatPotentialAst = "potential_ast_per100"

	FeatTSPct   = "ts_pct"
	FeatEFGPct  = "efg_pct"
	FeatFG3Pct  = "fg3_pct"
	FeatFTRate  = "ft_rate"
	FeatTOVPct  = "tov_pct"
	FeatOrebPct = "oreb_pct"
	FeatDrebPct = "dreb_pct"

	FeatThreeProficiency = "three_pt_proficiency"
	FeatBoxCreation      = "box_creation"
	FeatOffensiveLoad    = "offensive_load"
	FeatTrueUsage        = "true_usage"
	FeatAssistToLoad     = "assist_to_load"
	FeatTovEconomy       = "tov_economy"
	FeatPassingEff       = "passing_efficiency"
	FeatHeliocentricity  = "heliocentricity"
	FeatDefActivity      = "defensive_activity"
)

// ShotProfileFeature returns the feature name for a zone frequency.
func ShotProfileFeature(zone ShotZone) string {
	return "freq_" + string(zone)
}

// VolumeFeatures are z-scored against the rotation population.
var VolumeFeatures = []string{
	FeatPoints, FeatFGA, FeatFG3A, FeatFTA,
	FeatOreb, FeatDreb, FeatAssists, FeatSteals,
	FeatBlocks, FeatTurnovers,
}

// EfficiencyFeatures are normalized relative to the league average.
var EfficiencyFeatures = []string{
	FeatTSPct, FeatEFGPct, FeatFG3Pct, FeatFTRate,
	FeatTOVPct, FeatOrebPct, FeatDrebPct,
}

// CompositeFeatures are engineered metrics, z-scored after computation.
var CompositeFeatures = []string{
	FeatThreeProficiency, FeatBoxCreation, FeatOffensiveLoad,
	FeatTrueUsage, FeatAssistToLoad, FeatTovEconomy,
	FeatPassingEff, FeatHeliocentricity, FeatDefActivity,
}

// MetricClasses fixes the normalization law per feature.
var MetricClasses = func() map[string]MetricClass {
	m := make(map[string]MetricClass)
	for _, f := range VolumeFeatures {
		m[f] = ZScoreClass
	}
	for _, f := range EfficiencyFeatures {
		m[f] = RelativeClass
	}
	for _, f := range CompositeFeatures {
		m[f] = ZScoreClass
	}
	for _, z := range AllShotZones {
		m[ShotProfileFeature(z)] = RawFrequencyClass
	}
	return m
}()

// FamilyRequirements lists features needing more than box score data.
// Features absent from this map require only FamilyBox.
var FamilyRequirements = map[string]StatFamily{
	FeatPassingEff: FamilyTracking,
}

func init() {
	for _, z := range AllShotZones {
		FamilyRequirements[ShotProfileFeature(z)] = FamilyShotLocation
	}
}

// SimilarityFeatures is the canonical ordered feature list assembled for
// dimensionality reduction. Order is fixed so fitted spaces stay
// comparable with the vectors they transform.
var SimilarityFeatures = func() []string {
	out := make([]string, 0, len(VolumeFeatures)+len(EfficiencyFeatures)+len(CompositeFeatures)+len(AllShotZones))
	out = append(out, VolumeFeatures...)
	out = append(out, EfficiencyFeatures...)
	out = append(out, CompositeFeatures...)
	for _, z := range AllShotZones {
		out = append(out, ShotProfileFeature(z))
	}
	return out
}()

// FeatureVector is one player-season's feature mapping at a given stage.
// Features gated on missing stat families are simply absent from Values,
// with a corresponding entry in Flags.
type FeatureVector struct {
	Key        PlayerSeasonKey    `json:"key"`
	PlayerName string             `json:"player_name"`
	Stage      string             `json:"stage"`
	Values     map[string]float64 `json:"values"`
	Flags      []QualityFlag      `json:"flags,omitempty"`
}

// CompositeVector is a FeatureVector whose Values include the derived
// composite metrics. Same cardinality, one per player-season.
type CompositeVector = FeatureVector

// Flag records a per-record data-quality condition without dropping the
// record.
func (v *FeatureVector) Flag(kind FlagKind, metric string) {
	v.Flags = append(v.Flags, QualityFlag{Key: v.Key, Kind: kind, Metric: metric})
}

// Has reports whether a feature was computed for this record.
func (v *FeatureVector) Has(name string) bool {
	_, ok := v.Values[name]
	return ok
}

// Clone returns a deep copy so downstream stages never mutate upstream
// output.
func (v *FeatureVector) Clone() *FeatureVector {
	out := &FeatureVector{
		Key:        v.Key,
		PlayerName: v.PlayerName,
		Stage:      v.Stage,
		Values:     make(map[string]float64, len(v.Values)),
		Flags:      append([]QualityFlag(nil), v.Flags...),
	}
	for k, val := range v.Values {
		out.Values[k] = val
	}
	return out
}
