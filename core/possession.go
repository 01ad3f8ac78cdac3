package core

import "github.com/KrishalDhungana/NBAMind/schema"

// PerPossessions rescales a raw record's counting stats to a fixed
// 100-possession denominator, removing pace effects. Possessions played
// are estimated from team pace: pace/48 possessions per minute, times
// the player's season minutes.
//
// A record with a zero denominator is flagged rather than dropped; it
// stays in the output so the caller can surface it in the quality
// report, but it is excluded from volume normalization.
func PerPossessions(raw *schema.PlayerSeasonRaw) *schema.PlayerSeasonPer100 {
	out := &schema.PlayerSeasonPer100{
		Key:        raw.Key,
		PlayerName: raw.PlayerName,
		Minutes:    raw.Minutes,
		FG3Pct:     raw.FG3Pct,
		OrebPct:    raw.OrebPct,
		DrebPct:    raw.DrebPct,
		Families:   raw.Families,
	}
	if raw.ZoneAttempts != nil {
		out.ZoneAttempts = make(map[schema.ShotZone]float64, len(raw.ZoneAttempts))
		for z, n := range raw.ZoneAttempts {
			out.ZoneAttempts[z] = n
		}
	}

	possessions := raw.Pace / 48.0 * raw.Minutes
	out.Possessions = possessions
	if possessions <= 0 || raw.Games <= 0 {
		out.Flags = append(out.Flags, schema.QualityFlag{
			Key:    raw.Key,
			Kind:   schema.FlagZeroDenominator,
			Metric: "possessions",
		})
		return out
	}

	// Counting stats are per-game averages; scale to season totals and
	// then to the 100-possession denominator.
	games := float64(raw.Games)
	rate := 100.0 * games / possessions

	out.Points = raw.Points * rate
	out.FGM = raw.FGM * rate
	out.FGA = raw.FGA * rate
	out.FG3M = raw.FG3M * rate
	out.FG3A = raw.FG3A * rate
	out.FTM = raw.FTM * rate
	out.FTA = raw.FTA * rate
	out.Oreb = raw.Oreb * rate
	out.Dreb = raw.Dreb * rate
	out.Assists = raw.Assists * rate
	out.Steals = raw.Steals * rate
	out.Blocks = raw.Blocks * rate
	out.Turnovers = raw.Turnovers * rate

	switch {
	case raw.Tracking != nil:
		out.PotentialAst = raw.Tracking.PotentialAssists * rate
	case raw.Key.Season < schema.FirstTrackingSeason:
		// Tracking data starts with the 2013-14 season; earlier seasons
		// approximate potential assists as twice the recorded assists.
		out.PotentialAst = raw.Assists * 2 * rate
	default:
		// A tracking-era record without its tracking block is a data
		// gap, not a pre-tracking season; the approximation would
		// masquerade as a measured value.
		out.Flags = append(out.Flags, schema.QualityFlag{
			Key:    raw.Key,
			Kind:   schema.FlagMissingStatFamily,
			Metric: schema.FeatPotentialAst,
		})
	}
	return out
}
