package core

import (
	"context"
	"sort"
	"sync"

	"github.com/KrishalDhungana/NBAMind/internal"
	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// PipelineOutput is everything the feature stages produce for a cohort:
// pace-adjusted records, per-season populations, normalized composite
// vectors, and the accumulated data-quality report.
type PipelineOutput struct {
	Per100      []*schema.PlayerSeasonPer100
	Populations map[schema.SeasonID]*schema.RotationPopulation
	Vectors     []*schema.FeatureVector
	Report      *schema.QualityReport
}

// BuildFeatures runs the normalization and feature-engineering stages
// over a cohort of raw records, season by season.
//
// Within a season the per-record work is embarrassingly parallel and
// runs on a worker pool, but the rotation population is a hard barrier:
// it is fully built before any record is normalized against it. A season
// without a qualifying population is skipped and recorded in the report;
// other seasons proceed.
func BuildFeatures(ctx context.Context, cfg *contract.Config, raws []*schema.PlayerSeasonRaw) (*PipelineOutput, error) {
	for _, raw := range raws {
		if err := ValidateRecord(raw); err != nil {
			return nil, err
		}
	}

	bySeason := make(map[schema.SeasonID][]*schema.PlayerSeasonRaw)
	for _, raw := range raws {
		bySeason[raw.Key.Season] = append(bySeason[raw.Key.Season], raw)
	}
	seasons := make([]schema.SeasonID, 0, len(bySeason))
	for s := range bySeason {
		seasons = append(seasons, s)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i] < seasons[j] })

	out := &PipelineOutput{
		Populations: make(map[schema.SeasonID]*schema.RotationPopulation),
		Report:      schema.NewQualityReport(),
	}
	for _, season := range seasons {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records := bySeason[season]
		out.Report.Records += len(records)

		// Stage 1+2: pace adjustment and raw feature assembly, parallel
		// per record.
		per100, rawVecs := assembleSeason(cfg.Workers, records)
		out.Per100 = append(out.Per100, per100...)

		// Barrier: the reference population must be complete before any
		// record is scored against it.
		pop, err := BuildRotationPopulation(season, per100, rawVecs)
		if err != nil {
			internal.Log.WithField("season", season.String()).
				Warn("Skipping season without rotation population")
			out.Report.SkipSeason(season)
			for _, v := range rawVecs {
				out.Report.Add(v.Flags...)
			}
			continue
		}
		out.Populations[season] = pop

		// Stage 3: normalization against the fixed population, parallel
		// per record.
		normalized := normalizeSeason(cfg.Workers, rawVecs, pop)
		for _, v := range normalized {
			out.Report.Add(v.Flags...)
		}
		out.Vectors = append(out.Vectors, normalized...)

		internal.Log.WithFields(map[string]any{
			"season":   season.String(),
			"records":  len(records),
			"rotation": pop.Size(),
		}).Info("Season features built")
	}
	sortVectors(out.Vectors)
	return out, nil
}

// assembleSeason runs pace adjustment and feature assembly for one
// season on a worker pool, preserving no particular order.
func assembleSeason(workers int, records []*schema.PlayerSeasonRaw) ([]*schema.PlayerSeasonPer100, []*schema.FeatureVector) {
	type assembled struct {
		per100 *schema.PlayerSeasonPer100
		vector *schema.FeatureVector
	}

	rawCh := make(chan *schema.PlayerSeasonRaw, len(records))
	resultCh := make(chan assembled, len(records))
	var wg sync.WaitGroup
	for range max(workers, 1) {
		wg.Go(func() {
			for raw := range rawCh {
				per100 := PerPossessions(raw)
				resultCh <- assembled{per100: per100, vector: assembleFeatures(per100)}
			}
		})
	}
	for _, raw := range records {
		rawCh <- raw
	}
	close(rawCh)
	wg.Wait()
	close(resultCh)

	per100s := make([]*schema.PlayerSeasonPer100, 0, len(records))
	vectors := make([]*schema.FeatureVector, 0, len(records))
	for r := range resultCh {
		per100s = append(per100s, r.per100)
		vectors = append(vectors, r.vector)
	}
	return per100s, vectors
}

// normalizeSeason scores every assembled vector against the season's
// population on a worker pool. The population is read-only here.
func normalizeSeason(workers int, vectors []*schema.FeatureVector, pop *schema.RotationPopulation) []*schema.FeatureVector {
	vecCh := make(chan *schema.FeatureVector, len(vectors))
	resultCh := make(chan *schema.FeatureVector, len(vectors))
	var wg sync.WaitGroup
	for range max(workers, 1) {
		wg.Go(func() {
			for v := range vecCh {
				resultCh <- NormalizeVector(v, pop)
			}
		})
	}
	for _, v := range vectors {
		vecCh <- v
	}
	close(vecCh)
	wg.Wait()
	close(resultCh)

	out := make([]*schema.FeatureVector, 0, len(vectors))
	for v := range resultCh {
		out = append(out, v)
	}
	return out
}

// sortVectors orders output deterministically by key, so identical
// inputs produce identical tables regardless of worker scheduling.
func sortVectors(vectors []*schema.FeatureVector) {
	sort.Slice(vectors, func(i, j int) bool {
		return vectors[i].Key.String() < vectors[j].Key.String()
	})
}
