package core

import (
	"fmt"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// NewSeasonContext builds the immutable availability record for a season.
func NewSeasonContext(season schema.SeasonID) schema.SeasonContext {
	return schema.SeasonContext{
		Season:          season,
		HasShotLocation: season >= schema.FirstShotLocationSeason,
		HasTracking:     season >= schema.FirstTrackingSeason,
	}
}

// SeasonRange returns contexts for every season in [from, to].
func SeasonRange(from, to schema.SeasonID) []schema.SeasonContext {
	if to < from {
		from, to = to, from
	}
	out := make([]schema.SeasonContext, 0, int(to-from)+1)
	for s := from; s <= to; s++ {
		out = append(out, NewSeasonContext(s))
	}
	return out
}

// ValidateRecord checks that a record only declares stat families its
// season can have. Ingestion bugs surface here instead of downstream.
func ValidateRecord(raw *schema.PlayerSeasonRaw) error {
	ctx := NewSeasonContext(raw.Key.Season)
	if !ctx.Available(raw.Families) {
		return fmt.Errorf("%s declares families %#x: %w", raw.Key, raw.Families, schema.ErrFamilyUnavailable)
	}
	if raw.Families&schema.FamilyShotLocation != 0 && raw.ZoneAttempts == nil {
		return fmt.Errorf("%s declares shot-location data but has no zone attempts", raw.Key)
	}
	if raw.Families&schema.FamilyTracking != 0 && raw.Tracking == nil {
		return fmt.Errorf("%s declares tracking data but has no tracking stats", raw.Key)
	}
	return nil
}
