// Package core has the normalization, feature-engineering, reduction,
// clustering and similarity logic.
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KrishalDhungana/NBAMind/internal"
	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/internal/outwriter"
	"github.com/KrishalDhungana/NBAMind/internal/parquet"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// Model artifacts stored alongside the parquet stage tables in the data
// directory.
const (
	spaceFile = "space.json"
	modelFile = "model.json"
)

// ExecuteSeasons prints stat-family availability for the configured
// season window. It serves as the main entry point for the 'seasons'
// command.
func ExecuteSeasons(_ context.Context, cfg *contract.Config) error {
	if err := requireSeasonWindow(cfg); err != nil {
		return err
	}
	contexts := SeasonRange(cfg.SeasonFrom, cfg.SeasonTo)
	return outwriter.WriteSeasonResults(contexts, cfg)
}

// ExecuteFeatures fetches raw records for the configured window, runs
// the normalization and feature-engineering stages, and persists the
// feature table. It serves as the main entry point for the 'features'
// command.
func ExecuteFeatures(ctx context.Context, cfg *contract.Config, provider contract.StatsProvider) error {
	start := time.Now()
	if err := requireSeasonWindow(cfg); err != nil {
		return err
	}

	var raws []*schema.PlayerSeasonRaw
	for _, season := range cfg.Seasons() {
		records, err := provider.PlayerSeasons(ctx, season)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", season, err)
		}
		internal.Log.WithFields(map[string]any{
			"season":  season.String(),
			"records": len(records),
		}).Info("Season fetched")
		raws = append(raws, records...)
	}

	output, err := BuildFeatures(ctx, cfg, raws)
	if err != nil {
		return err
	}

	featuresPath := filepath.Join(cfg.DataDir, parquet.FeaturesFile)
	if err := parquet.WriteFeatures(output.Vectors, featuresPath); err != nil {
		return err
	}
	internal.Log.WithFields(map[string]any{
		"records": len(output.Vectors),
		"path":    featuresPath,
	}).Info("Feature table written")

	return outwriter.WriteQualityResults(output.Report, cfg, time.Since(start))
}

// ExecuteFit fits the component space and the archetype mixture on the
// persisted feature table, then persists every model artifact. It serves
// as the main entry point for the 'fit' command.
func ExecuteFit(_ context.Context, cfg *contract.Config) error {
	start := time.Now()

	vectors, err := parquet.ReadFeatures(filepath.Join(cfg.DataDir, parquet.FeaturesFile))
	if err != nil {
		return err
	}
	names := FittableFeatures(vectors)
	if len(names) < len(schema.SimilarityFeatures) {
		internal.Log.WithField("features", len(names)).
			Info("Window spans eras; fitting on the features every season carries")
	}
	complete, incomplete := CompleteVectors(vectors, names)
	if len(incomplete) > 0 {
		internal.Log.WithField("records", len(incomplete)).
			Info("Excluding records without the fitted feature set")
	}

	space, err := FitComponentSpace(complete, names, cfg.VarianceThreshold)
	if err != nil {
		return err
	}
	coords, err := TransformAll(complete, space)
	if err != nil {
		return err
	}

	var model *schema.ArchetypeModel
	if cfg.Components > 0 {
		model, err = FitArchetypes(coords, cfg.Components, cfg.Seed)
	} else {
		model, err = SelectComponents(coords, cfg.KMin, cfg.KMax, cfg.Seed)
	}
	if err != nil {
		return err
	}

	// Keep archetype labels stable across refits when a prior epoch with
	// the same shape exists.
	if prior, priorErr := loadModel(cfg.DataDir); priorErr == nil &&
		prior.K == model.K && len(prior.Means) > 0 && len(model.Means) > 0 &&
		len(prior.Means[0]) == len(model.Means[0]) {
		AlignArchetypes(model, prior)
	}

	assignments, err := ScoreArchetypes(coords, model)
	if err != nil {
		return err
	}

	if err := saveJSON(filepath.Join(cfg.DataDir, spaceFile), space); err != nil {
		return err
	}
	if err := saveJSON(filepath.Join(cfg.DataDir, modelFile), model); err != nil {
		return err
	}
	if err := parquet.WriteCoordinates(coords, filepath.Join(cfg.DataDir, parquet.CoordinatesFile)); err != nil {
		return err
	}
	if err := parquet.WriteAssignments(assignments, filepath.Join(cfg.DataDir, parquet.AssignmentsFile)); err != nil {
		return err
	}
	internal.Log.WithFields(map[string]any{
		"space_id": space.SpaceID,
		"model_id": model.ModelID,
		"k":        model.K,
	}).Info("Model artifacts written")

	return outwriter.WriteSpaceResults(space, len(coords), cfg, time.Since(start))
}

// ExecuteArchetypes summarizes the fitted mixture: per-component weight,
// membership and exemplars. It serves as the main entry point for the
// 'archetypes' command.
func ExecuteArchetypes(_ context.Context, cfg *contract.Config) error {
	model, err := loadModel(cfg.DataDir)
	if err != nil {
		return err
	}
	assignments, err := parquet.ReadAssignments(filepath.Join(cfg.DataDir, parquet.AssignmentsFile))
	if err != nil {
		return err
	}
	names, err := loadNames(cfg.DataDir)
	if err != nil {
		return err
	}

	summaries := outwriter.SummarizeArchetypes(model, assignments, names, 3)
	return outwriter.WriteArchetypeResults(model, summaries, cfg)
}

// ExecuteSimilar answers a nearest-neighbor query against the fitted
// space. It serves as the main entry point for the 'similar' command.
func ExecuteSimilar(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	if cfg.PlayerQuery == "" {
		return errors.New("a player name or id is required")
	}

	space, err := loadSpace(cfg.DataDir)
	if err != nil {
		return err
	}
	coords, err := parquet.ReadCoordinates(filepath.Join(cfg.DataDir, parquet.CoordinatesFile))
	if err != nil {
		return err
	}
	assignments, err := parquet.ReadAssignments(filepath.Join(cfg.DataDir, parquet.AssignmentsFile))
	if err != nil {
		return err
	}
	names, err := loadNames(cfg.DataDir)
	if err != nil {
		return err
	}

	byKey := make(map[schema.PlayerSeasonKey]*schema.Assignment, len(assignments))
	for _, a := range assignments {
		byKey[a.Key] = a
	}
	index, err := BuildNeighborIndex(space, coords, names, byKey)
	if err != nil {
		return err
	}

	key, err := resolveQueryKey(cfg, coords, names)
	if err != nil {
		return err
	}
	neighbors, err := index.Query(key, cfg.TopK, cfg.Metric)
	if err != nil {
		return err
	}

	queryName := names[key]
	if queryName == "" {
		queryName = key.PlayerID
	}
	return outwriter.WriteNeighborResults(queryName, key.Season, neighbors, cfg, time.Since(start))
}

// resolveQueryKey matches the configured player query against indexed
// player-seasons, by name (case-insensitive) or by id. Without an
// explicit query season the player's most recent season wins.
func resolveQueryKey(cfg *contract.Config, coords []*schema.Coordinates, names map[schema.PlayerSeasonKey]string) (schema.PlayerSeasonKey, error) {
	query := strings.ToLower(cfg.PlayerQuery)
	var best schema.PlayerSeasonKey
	found := false
	for _, c := range coords {
		if strings.ToLower(names[c.Key]) != query && c.Key.PlayerID != cfg.PlayerQuery {
			continue
		}
		if cfg.QuerySeason != 0 && c.Key.Season != cfg.QuerySeason {
			continue
		}
		if !found || c.Key.Season > best.Season {
			best = c.Key
			found = true
		}
	}
	if !found {
		return schema.PlayerSeasonKey{}, fmt.Errorf("no fitted season for %q: %w",
			cfg.PlayerQuery, schema.ErrUnknownPlayerSeason)
	}
	return best, nil
}

// loadNames rebuilds the player-name lookup from the feature table.
func loadNames(dataDir string) (map[schema.PlayerSeasonKey]string, error) {
	vectors, err := parquet.ReadFeatures(filepath.Join(dataDir, parquet.FeaturesFile))
	if err != nil {
		return nil, err
	}
	names := make(map[schema.PlayerSeasonKey]string, len(vectors))
	for _, v := range vectors {
		names[v.Key] = v.PlayerName
	}
	return names, nil
}

func requireSeasonWindow(cfg *contract.Config) error {
	if cfg.SeasonFrom == 0 || cfg.SeasonTo == 0 {
		return errors.New("a season window is required (--from and --to)")
	}
	return nil
}

func loadSpace(dataDir string) (*schema.ComponentSpace, error) {
	var space schema.ComponentSpace
	if err := loadJSON(filepath.Join(dataDir, spaceFile), &space); err != nil {
		return nil, fmt.Errorf("no fitted space (run 'fit' first): %w", err)
	}
	return &space, nil
}

func loadModel(dataDir string) (*schema.ArchetypeModel, error) {
	var model schema.ArchetypeModel
	if err := loadJSON(filepath.Join(dataDir, modelFile), &model); err != nil {
		return nil, fmt.Errorf("no fitted model (run 'fit' first): %w", err)
	}
	return &model, nil
}

func saveJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func loadJSON(path string, out any) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}
