package schema

// PlayerSeasonPer100 is the pace-adjusted form of a raw record: counting
// stats rescaled to a 100-possession denominator. Rate stats and zone
// attempts pass through unchanged. Possessions and Minutes are season
// totals.
type PlayerSeasonPer100 struct {
	Key        PlayerSeasonKey `json:"key"`
	PlayerName string          `json:"player_name"`

	Possessions float64 `json:"possessions"`
	Minutes     float64 `json:"minutes"`

	Points       float64 `json:"pts_per100"`
	FGM          float64 `json:"fgm_per100"`
	FGA          float64 `json:"fga_per100"`
	FG3M         float64 `json:"fg3m_per100"`
	FG3A         float64 `json:"fg3a_per100"`
	FTM          float64 `json:"ftm_per100"`
	FTA          float64 `json:"fta_per100"`
	Oreb         float64 `json:"oreb_per100"`
	Dreb         float64 `json:"dreb_per100"`
	Assists      float64 `json:"ast_per100"`
	Steals       float64 `json:"stl_per100"`
	Blocks       float64 `json:"blk_per100"`
	Turnovers    float64 `json:"tov_per100"`
	PotentialAst float64 `json:"potential_ast_per100"`

	FG3Pct  float64 `json:"fg3_pct"`
	OrebPct float64 `json:"oreb_pct"`
	DrebPct float64 `json:"dreb_pct"`

	ZoneAttempts map[ShotZone]float64 `json:"zone_attempts,omitempty"`

	Families StatFamily    `json:"families"`
	Flags    []QualityFlag `json:"flags,omitempty"`
}

// Usable reports whether the record can enter volume normalization.
// Records flagged for a zero possession denominator cannot.
func (p *PlayerSeasonPer100) Usable() bool {
	for _, f := range p.Flags {
		if f.Kind == FlagZeroDenominator {
			return false
		}
	}
	return true
}

// HasPotentialAst reports whether the record carries a potential-assist
// rate, measured or substituted. Tracking-era records missing their
// tracking block carry none and are flagged instead.
func (p *PlayerSeasonPer100) HasPotentialAst() bool {
	for _, f := range p.Flags {
		if f.Kind == FlagMissingStatFamily && f.Metric == FeatPotentialAst {
			return false
		}
	}
	return true
}
