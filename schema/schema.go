// Package schema has configs, models and global variables for all parts of nbamind.
package schema

import "fmt"

// SeasonID identifies a season by its start year, so 2015 means the
// 2015-16 season.
type SeasonID int

// String renders the conventional two-year form, e.g. "2015-16".
func (s SeasonID) String() string {
	return fmt.Sprintf("%d-%02d", int(s), (int(s)+1)%100)
}

// SeasonContext records which stat families exist for a season.
// Box score stats exist for every season; shot-location detail begins
// with the 1996-97 season and player tracking with 2013-14.
// Immutable once constructed.
type SeasonContext struct {
	Season          SeasonID
	HasShotLocation bool
	HasTracking     bool
}

// Available reports whether every family in fam is populated for this season.
func (c SeasonContext) Available(fam StatFamily) bool {
	if fam&FamilyShotLocation != 0 && !c.HasShotLocation {
		return false
	}
	if fam&FamilyTracking != 0 && !c.HasTracking {
		return false
	}
	return true
}

// PlayerSeasonKey uniquely identifies one player-season record.
// TeamStint disambiguates players traded mid-season.
type PlayerSeasonKey struct {
	PlayerID  string   `json:"player_id"`
	Season    SeasonID `json:"season"`
	TeamStint string   `json:"team_stint"`
}

// String renders the key in player:season:stint form.
func (k PlayerSeasonKey) String() string {
	return fmt.Sprintf("%s:%d:%s", k.PlayerID, int(k.Season), k.TeamStint)
}

// SamePlayer reports whether two keys belong to the same player,
// regardless of season or stint.
func (k PlayerSeasonKey) SamePlayer(other PlayerSeasonKey) bool {
	return k.PlayerID == other.PlayerID
}

// TrackingStats holds the passing-tracking fields available from
// 2013-14 on. All values are per-game averages.
type TrackingStats struct {
	PotentialAssists float64 `json:"potential_assists"`
	Passes           float64 `json:"passes"`
}

// PlayerSeasonRaw is one ingested record per (player, team-stint, season).
// Counting stats are per-game averages; Minutes is the season total.
// Created by ingestion and read-only to the pipeline.
type PlayerSeasonRaw struct {
	Key        PlayerSeasonKey `json:"key"`
	PlayerName string          `json:"player_name"`

	Games   int     `json:"games"`
	Minutes float64 `json:"minutes"` // season total
	Pace    float64 `json:"pace"`    // team possessions per 48 with player on floor

	Points    float64 `json:"points"`
	FGM       float64 `json:"fgm"`
	FGA       float64 `json:"fga"`
	FG3M      float64 `json:"fg3m"`
	FG3A      float64 `json:"fg3a"`
	FTM       float64 `json:"ftm"`
	FTA       float64 `json:"fta"`
	Oreb      float64 `json:"oreb"`
	Dreb      float64 `json:"dreb"`
	Assists   float64 `json:"assists"`
	Steals    float64 `json:"steals"`
	Blocks    float64 `json:"blocks"`
	Turnovers float64 `json:"turnovers"`
	Fouls     float64 `json:"fouls"`

	FG3Pct  float64 `json:"fg3_pct"`
	OrebPct float64 `json:"oreb_pct"` // share of available offensive boards
	DrebPct float64 `json:"dreb_pct"`

	// ZoneAttempts holds season shot totals per zone. Nil when the
	// shot-location family is absent.
	ZoneAttempts map[ShotZone]float64 `json:"zone_attempts,omitempty"`

	// Tracking is nil for seasons before 2013-14.
	Tracking *TrackingStats `json:"tracking,omitempty"`

	// Families declares which stat families the record actually populates.
	Families StatFamily `json:"families"`
}

// RotationPopulation is the per-season statistical reference: every
// record with at least MinRotationMinutes minutes. Mean, Stdev and Ratio
// are keyed by feature name. Never mixed across seasons; immutable once
// built.
type RotationPopulation struct {
	Season  SeasonID
	Members []PlayerSeasonKey
	Mean    map[string]float64
	Stdev   map[string]float64
	// Ratio holds possession-weighted league averages for rate stats,
	// computed as sum(numerator)/sum(denominator) rather than the mean
	// of per-player ratios.
	Ratio map[string]float64
}

// Size returns the number of qualifying rotation players.
func (p *RotationPopulation) Size() int {
	return len(p.Members)
}
