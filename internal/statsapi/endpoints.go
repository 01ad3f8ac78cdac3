package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// Upstream endpoints. Base and advanced league dashboards exist for
// every season; shot locations and passing dashboards are gated by the
// season-context availability rules.
const (
	endpointBase          = "leaguedashplayerstats"
	endpointShotLocations = "leaguedashplayershotlocations"
	endpointPassing       = "leaguedashptstats"
)

// response is the provider's tabular envelope: named result sets with
// parallel headers and rows.
type response struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// table indexes one result set by header name.
type table struct {
	cols map[string]int
	rows [][]any
}

func parseTable(payload []byte) (*table, error) {
	var r response
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("failed to decode provider payload: %w", err)
	}
	if len(r.ResultSets) == 0 {
		return nil, fmt.Errorf("provider payload has no result sets")
	}
	rs := r.ResultSets[0]
	t := &table{cols: make(map[string]int, len(rs.Headers)), rows: rs.RowSet}
	for i, h := range rs.Headers {
		t.cols[h] = i
	}
	return t, nil
}

func (t *table) float(row []any, col string) float64 {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func (t *table) str(row []any, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// seasonParam renders a SeasonID in the provider's form, e.g. "2015-16".
func seasonParam(season schema.SeasonID) string {
	return season.String()
}

// PlayerSeasons fetches and merges every available stat family for a
// season into raw records keyed by (player, season, team-stint).
func (c *Client) PlayerSeasons(ctx context.Context, season schema.SeasonID) ([]*schema.PlayerSeasonRaw, error) {
	records, err := c.fetchBase(ctx, season)
	if err != nil {
		return nil, err
	}

	if season >= schema.FirstShotLocationSeason {
		if err := c.mergeShotLocations(ctx, season, records); err != nil {
			return nil, err
		}
	}
	if season >= schema.FirstTrackingSeason {
		if err := c.mergeTracking(ctx, season, records); err != nil {
			return nil, err
		}
	}

	out := make([]*schema.PlayerSeasonRaw, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	return out, nil
}

// fetchBase loads per-game box stats plus pace from the advanced
// dashboard.
func (c *Client) fetchBase(ctx context.Context, season schema.SeasonID) (map[string]*schema.PlayerSeasonRaw, error) {
	basePayload, err := c.fetch(ctx, endpointBase, map[string]string{
		"Season":      seasonParam(season),
		"SeasonType":  "Regular Season",
		"PerMode":     "PerGame",
		"MeasureType": "Base",
	})
	if err != nil {
		return nil, err
	}
	base, err := parseTable(basePayload)
	if err != nil {
		return nil, fmt.Errorf("base stats for %s: %w", season, err)
	}

	records := make(map[string]*schema.PlayerSeasonRaw, len(base.rows))
	for _, row := range base.rows {
		playerID := base.str(row, "PLAYER_ID")
		if playerID == "" {
			continue
		}
		games := int(base.float(row, "GP"))
		rec := &schema.PlayerSeasonRaw{
			Key: schema.PlayerSeasonKey{
				PlayerID:  playerID,
				Season:    season,
				TeamStint: base.str(row, "TEAM_ABBREVIATION"),
			},
			PlayerName: base.str(row, "PLAYER_NAME"),
			Games:      games,
			Minutes:    base.float(row, "MIN") * float64(games),
			Points:     base.float(row, "PTS"),
			FGM:        base.float(row, "FGM"),
			FGA:        base.float(row, "FGA"),
			FG3M:       base.float(row, "FG3M"),
			FG3A:       base.float(row, "FG3A"),
			FTM:        base.float(row, "FTM"),
			FTA:        base.float(row, "FTA"),
			Oreb:       base.float(row, "OREB"),
			Dreb:       base.float(row, "DREB"),
			Assists:    base.float(row, "AST"),
			Steals:     base.float(row, "STL"),
			Blocks:     base.float(row, "BLK"),
			Turnovers:  base.float(row, "TOV"),
			Fouls:      base.float(row, "PF"),
			FG3Pct:     base.float(row, "FG3_PCT"),
			Families:   schema.FamilyBox,
		}
		records[playerID] = rec
	}

	advPayload, err := c.fetch(ctx, endpointBase, map[string]string{
		"Season":      seasonParam(season),
		"SeasonType":  "Regular Season",
		"PerMode":     "PerGame",
		"MeasureType": "Advanced",
	})
	if err != nil {
		return nil, err
	}
	adv, err := parseTable(advPayload)
	if err != nil {
		return nil, fmt.Errorf("advanced stats for %s: %w", season, err)
	}
	for _, row := range adv.rows {
		rec, ok := records[adv.str(row, "PLAYER_ID")]
		if !ok {
			continue
		}
		rec.Pace = adv.float(row, "PACE")
		rec.OrebPct = adv.float(row, "OREB_PCT")
		rec.DrebPct = adv.float(row, "DREB_PCT")
	}
	return records, nil
}

// mergeShotLocations attaches per-zone attempt totals.
func (c *Client) mergeShotLocations(ctx context.Context, season schema.SeasonID, records map[string]*schema.PlayerSeasonRaw) error {
	payload, err := c.fetch(ctx, endpointShotLocations, map[string]string{
		"Season":        seasonParam(season),
		"SeasonType":    "Regular Season",
		"PerMode":       "Totals",
		"DistanceRange": "By Zone",
		"MeasureType":   "Base",
	})
	if err != nil {
		return err
	}
	t, err := parseTable(payload)
	if err != nil {
		return fmt.Errorf("shot locations for %s: %w", season, err)
	}

	zoneCols := map[schema.ShotZone]string{
		schema.ZoneRestrictedArea: "Restricted Area FGA",
		schema.ZonePaint:          "In The Paint (Non-RA) FGA",
		schema.ZoneMidRange:       "Mid-Range FGA",
		schema.ZoneLeftCorner3:    "Left Corner 3 FGA",
		schema.ZoneRightCorner3:   "Right Corner 3 FGA",
		schema.ZoneAboveBreak3:    "Above the Break 3 FGA",
	}
	for _, row := range t.rows {
		rec, ok := records[t.str(row, "PLAYER_ID")]
		if !ok {
			continue
		}
		rec.ZoneAttempts = make(map[schema.ShotZone]float64, len(zoneCols))
		for zone, col := range zoneCols {
			rec.ZoneAttempts[zone] = t.float(row, col)
		}
		rec.Families |= schema.FamilyShotLocation
	}
	return nil
}

// mergeTracking attaches passing-tracking fields.
func (c *Client) mergeTracking(ctx context.Context, season schema.SeasonID, records map[string]*schema.PlayerSeasonRaw) error {
	payload, err := c.fetch(ctx, endpointPassing, map[string]string{
		"Season":        seasonParam(season),
		"SeasonType":    "Regular Season",
		"PerMode":       "PerGame",
		"PtMeasureType": "Passing",
		"PlayerOrTeam":  "Player",
	})
	if err != nil {
		return err
	}
	t, err := parseTable(payload)
	if err != nil {
		return fmt.Errorf("tracking stats for %s: %w", season, err)
	}
	for _, row := range t.rows {
		rec, ok := records[t.str(row, "PLAYER_ID")]
		if !ok {
			continue
		}
		rec.Tracking = &schema.TrackingStats{
			PotentialAssists: t.float(row, "POTENTIAL_AST"),
			Passes:           t.float(row, "PASSES_MADE"),
		}
		rec.Families |= schema.FamilyTracking
	}
	return nil
}
