// Package parquet persists pipeline stage tables as columnar Parquet
// files using github.com/parquet-go/parquet-go. Every row preserves the
// (player, season, team-stint) key and its stage provenance.
package parquet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// Stage table file names inside the data directory.
const (
	FeaturesFile    = "features.parquet"
	CoordinatesFile = "coordinates.parquet"
	AssignmentsFile = "assignments.parquet"
)

// FeatureRow is one (record, feature) cell of a feature-stage table,
// stored long-form so seasons with differing feature availability share
// a schema.
type FeatureRow struct {
	PlayerID   string  `parquet:"player_id,snappy,dict"`
	Season     int32   `parquet:"season,snappy"`
	TeamStint  string  `parquet:"team_stint,snappy,dict"`
	PlayerName string  `parquet:"player_name,snappy,dict"`
	Stage      string  `parquet:"stage,snappy,dict"`
	Feature    string  `parquet:"feature,snappy,dict"`
	Value      float64 `parquet:"value,snappy"`
}

// CoordinateRow is one axis of a player-season's position in a fitted
// space.
type CoordinateRow struct {
	PlayerID  string  `parquet:"player_id,snappy,dict"`
	Season    int32   `parquet:"season,snappy"`
	TeamStint string  `parquet:"team_stint,snappy,dict"`
	SpaceID   string  `parquet:"space_id,snappy,dict"`
	Axis      int32   `parquet:"axis,snappy"`
	Value     float64 `parquet:"value,snappy"`
}

// AssignmentRow is one component of a player-season's soft archetype
// membership.
type AssignmentRow struct {
	PlayerID    string  `parquet:"player_id,snappy,dict"`
	Season      int32   `parquet:"season,snappy"`
	TeamStint   string  `parquet:"team_stint,snappy,dict"`
	ModelID     string  `parquet:"model_id,snappy,dict"`
	Component   int32   `parquet:"component,snappy"`
	Label       string  `parquet:"label,snappy,dict"`
	Probability float64 `parquet:"probability,snappy"`
	Best        bool    `parquet:"best,snappy"`
}

// NeighborRow is one similarity-query result.
type NeighborRow struct {
	Rank       int32   `parquet:"rank,snappy"`
	PlayerID   string  `parquet:"player_id,snappy,dict"`
	PlayerName string  `parquet:"player_name,snappy,dict"`
	Season     int32   `parquet:"season,snappy"`
	TeamStint  string  `parquet:"team_stint,snappy,dict"`
	Distance   float64 `parquet:"distance,snappy"`
	Similarity float64 `parquet:"similarity,snappy"`
	Archetype  string  `parquet:"archetype,snappy,dict"`
}

// writeRows writes a slice of rows to a Parquet file, creating parent
// directories as needed.
func writeRows[T any](rows []T, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is inferred from the row struct tags.
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFeatures persists feature vectors long-form.
func WriteFeatures(vectors []*schema.FeatureVector, outputPath string) error {
	var rows []FeatureRow
	for _, v := range vectors {
		for _, name := range schema.SimilarityFeatures {
			value, ok := v.Values[name]
			if !ok {
				continue
			}
			rows = append(rows, FeatureRow{
				PlayerID:   v.Key.PlayerID,
				Season:     int32(v.Key.Season),
				TeamStint:  v.Key.TeamStint,
				PlayerName: v.PlayerName,
				Stage:      v.Stage,
				Feature:    name,
				Value:      value,
			})
		}
	}
	return writeRows(rows, outputPath)
}

// ReadFeatures loads feature vectors back from a long-form table.
func ReadFeatures(path string) ([]*schema.FeatureVector, error) {
	rows, err := parquet.ReadFile[FeatureRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read features from %s: %w", path, err)
	}
	byKey := make(map[schema.PlayerSeasonKey]*schema.FeatureVector)
	var order []schema.PlayerSeasonKey
	for _, row := range rows {
		key := schema.PlayerSeasonKey{
			PlayerID:  row.PlayerID,
			Season:    schema.SeasonID(row.Season),
			TeamStint: row.TeamStint,
		}
		v, ok := byKey[key]
		if !ok {
			v = &schema.FeatureVector{
				Key:        key,
				PlayerName: row.PlayerName,
				Stage:      row.Stage,
				Values:     make(map[string]float64),
			}
			byKey[key] = v
			order = append(order, key)
		}
		v.Values[row.Feature] = row.Value
	}
	out := make([]*schema.FeatureVector, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out, nil
}

// WriteCoordinates persists fitted coordinates long-form.
func WriteCoordinates(coords []*schema.Coordinates, outputPath string) error {
	var rows []CoordinateRow
	for _, c := range coords {
		for axis, value := range c.Coords {
			rows = append(rows, CoordinateRow{
				PlayerID:  c.Key.PlayerID,
				Season:    int32(c.Key.Season),
				TeamStint: c.Key.TeamStint,
				SpaceID:   c.SpaceID,
				Axis:      int32(axis),
				Value:     value,
			})
		}
	}
	return writeRows(rows, outputPath)
}

// ReadCoordinates loads fitted coordinates back.
func ReadCoordinates(path string) ([]*schema.Coordinates, error) {
	rows, err := parquet.ReadFile[CoordinateRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coordinates from %s: %w", path, err)
	}
	byKey := make(map[schema.PlayerSeasonKey]*schema.Coordinates)
	var order []schema.PlayerSeasonKey
	for _, row := range rows {
		key := schema.PlayerSeasonKey{
			PlayerID:  row.PlayerID,
			Season:    schema.SeasonID(row.Season),
			TeamStint: row.TeamStint,
		}
		c, ok := byKey[key]
		if !ok {
			c = &schema.Coordinates{Key: key, SpaceID: row.SpaceID}
			byKey[key] = c
			order = append(order, key)
		}
		for int(row.Axis) >= len(c.Coords) {
			c.Coords = append(c.Coords, 0)
		}
		c.Coords[row.Axis] = row.Value
	}
	out := make([]*schema.Coordinates, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out, nil
}

// WriteAssignments persists soft archetype memberships long-form.
func WriteAssignments(assignments []*schema.Assignment, outputPath string) error {
	var rows []AssignmentRow
	for _, a := range assignments {
		for component, p := range a.Probabilities {
			rows = append(rows, AssignmentRow{
				PlayerID:    a.Key.PlayerID,
				Season:      int32(a.Key.Season),
				TeamStint:   a.Key.TeamStint,
				ModelID:     a.ModelID,
				Component:   int32(component),
				Label:       a.BestLabel,
				Probability: p,
				Best:        component == a.Best,
			})
		}
	}
	return writeRows(rows, outputPath)
}

// WriteNeighbors persists a similarity-query result, ranked.
func WriteNeighbors(neighbors []schema.Neighbor, outputPath string) error {
	rows := make([]NeighborRow, 0, len(neighbors))
	for i, n := range neighbors {
		rows = append(rows, NeighborRow{
			Rank:       int32(i + 1),
			PlayerID:   n.Key.PlayerID,
			PlayerName: n.PlayerName,
			Season:     int32(n.Key.Season),
			TeamStint:  n.Key.TeamStint,
			Distance:   n.Distance,
			Similarity: n.Similarity,
			Archetype:  n.Archetype,
		})
	}
	return writeRows(rows, outputPath)
}

// ReadAssignments loads soft archetype memberships back.
func ReadAssignments(path string) ([]*schema.Assignment, error) {
	rows, err := parquet.ReadFile[AssignmentRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignments from %s: %w", path, err)
	}
	byKey := make(map[schema.PlayerSeasonKey]*schema.Assignment)
	var order []schema.PlayerSeasonKey
	for _, row := range rows {
		key := schema.PlayerSeasonKey{
			PlayerID:  row.PlayerID,
			Season:    schema.SeasonID(row.Season),
			TeamStint: row.TeamStint,
		}
		a, ok := byKey[key]
		if !ok {
			a = &schema.Assignment{Key: key, ModelID: row.ModelID}
			byKey[key] = a
			order = append(order, key)
		}
		for int(row.Component) >= len(a.Probabilities) {
			a.Probabilities = append(a.Probabilities, 0)
		}
		a.Probabilities[row.Component] = row.Probability
		if row.Best {
			a.Best = int(row.Component)
			a.BestLabel = row.Label
			a.Confidence = row.Probability
		}
	}
	out := make([]*schema.Assignment, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out, nil
}
