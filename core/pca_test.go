package core

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// syntheticVectors builds n complete feature vectors with deterministic,
// generically full-rank values.
func syntheticVectors(n int) []*schema.FeatureVector {
	out := make([]*schema.FeatureVector, 0, n)
	for i := range n {
		values := make(map[string]float64, len(schema.SimilarityFeatures))
		for j, name := range schema.SimilarityFeatures {
			values[name] = math.Sin(float64(i*7+j*13)) * (1 + float64(j%5))
		}
		out = append(out, &schema.FeatureVector{
			Key:    schema.PlayerSeasonKey{PlayerID: fmt.Sprintf("p%02d", i), Season: 2018, TeamStint: "LAL"},
			Stage:  "normalized",
			Values: values,
		})
	}
	return out
}

func TestCompleteVectors(t *testing.T) {
	vectors := syntheticVectors(3)
	delete(vectors[1].Values, schema.FeatBoxCreation)

	complete, incomplete := CompleteVectors(vectors, schema.SimilarityFeatures)
	assert.Len(t, complete, 2)
	assert.Len(t, incomplete, 1)
	assert.Equal(t, vectors[1].Key, incomplete[0].Key)

	// Against a feature set that never included the missing feature, the
	// same cohort is fully complete.
	complete, incomplete = CompleteVectors(vectors, []string{schema.FeatPoints, schema.FeatAssists})
	assert.Len(t, complete, 3)
	assert.Empty(t, incomplete)
}

func TestFittableFeatures(t *testing.T) {
	shotEra := syntheticVectors(2)
	for _, v := range shotEra {
		v.Key.Season = 2000
	}
	names := FittableFeatures(shotEra)
	assert.NotContains(t, names, schema.FeatPassingEff, "tracking features have no pre-2013 data")
	assert.Contains(t, names, schema.ShotProfileFeature(schema.ZoneMidRange), "shot locations exist from 1996-97")
	assert.Contains(t, names, schema.FeatTrueUsage)

	boxEra := syntheticVectors(2)
	for _, v := range boxEra {
		v.Key.Season = 1990
	}
	names = FittableFeatures(boxEra)
	assert.NotContains(t, names, schema.ShotProfileFeature(schema.ZoneMidRange))
	assert.NotContains(t, names, schema.FeatPassingEff)
	assert.Contains(t, names, schema.FeatPoints)

	modern := FittableFeatures(syntheticVectors(2))
	assert.Equal(t, schema.SimilarityFeatures, modern, "a tracking-era cohort keeps the full feature list")
}

// eraRaw builds a raw record populated with every stat family its season
// can carry, varying with i so the cohort has real variance.
func eraRaw(id string, season schema.SeasonID, i int) *schema.PlayerSeasonRaw {
	raw := rotationRaw(id, season, 1800, i)
	f := float64(i)
	if season >= schema.FirstShotLocationSeason {
		raw.ZoneAttempts = map[schema.ShotZone]float64{
			schema.ZoneRestrictedArea: 200 + 11*f,
			schema.ZonePaint:          100 + 5*f,
			schema.ZoneMidRange:       150 + 8*f,
			schema.ZoneLeftCorner3:    30 + 2*f,
			schema.ZoneRightCorner3:   25 + 3*f,
			schema.ZoneAboveBreak3:    90 + 6*f,
		}
		raw.Families |= schema.FamilyShotLocation
	}
	if season >= schema.FirstTrackingSeason {
		raw.Tracking = &schema.TrackingStats{PotentialAssists: 6 + 1.5*f, Passes: 50 + 2*f}
		raw.Families |= schema.FamilyTracking
	}
	return raw
}

func TestFitComponentSpaceSpansEras(t *testing.T) {
	var raws []*schema.PlayerSeasonRaw
	for i := range 20 {
		raws = append(raws, eraRaw(fmt.Sprintf("pre%02d", i), 2000, i))
	}
	for i := range 20 {
		raws = append(raws, eraRaw(fmt.Sprintf("mod%02d", i), 2020, i))
	}
	out, err := BuildFeatures(context.Background(), &contract.Config{Workers: 4}, raws)
	assert.NoError(t, err)
	assert.Len(t, out.Vectors, 40)

	names := FittableFeatures(out.Vectors)
	assert.NotContains(t, names, schema.FeatPassingEff)
	assert.Contains(t, names, schema.ShotProfileFeature(schema.ZoneRestrictedArea))

	complete, incomplete := CompleteVectors(out.Vectors, names)
	assert.Len(t, complete, 40, "pre-tracking seasons must not fall out of the fit")
	assert.Empty(t, incomplete)

	space, err := FitComponentSpace(complete, names, 0.95)
	assert.NoError(t, err)
	assert.Equal(t, names, space.FeatureNames)

	coords, err := TransformAll(complete, space)
	assert.NoError(t, err)
	assert.Len(t, coords, 40, "both eras project into the same space")
}

func TestFitComponentSpaceRoundTrip(t *testing.T) {
	vectors := syntheticVectors(40)

	space, err := FitComponentSpace(vectors, schema.SimilarityFeatures, 1.0)
	assert.NoError(t, err)
	assert.Equal(t, len(schema.SimilarityFeatures), space.Dim())
	assert.NotEmpty(t, space.SpaceID)

	// With the full basis retained, the projection loses nothing.
	for _, v := range vectors {
		coords, err := Transform(v, space)
		assert.NoError(t, err)
		assert.Equal(t, space.SpaceID, coords.SpaceID)

		back, err := InverseTransform(coords, space)
		assert.NoError(t, err)
		for _, name := range schema.SimilarityFeatures {
			assert.InDelta(t, v.Values[name], back.Values[name], 1e-8, "feature %s should survive the round trip", name)
		}
	}
}

func TestFitComponentSpaceThresholdTruncates(t *testing.T) {
	vectors := syntheticVectors(40)

	space, err := FitComponentSpace(vectors, schema.SimilarityFeatures, 0.5)
	assert.NoError(t, err)
	assert.Less(t, space.Retained(), space.Dim(), "a loose threshold should drop trailing components")
	assert.GreaterOrEqual(t, space.ExplainedRatio(), 0.5)
}

func TestFitComponentSpaceDeterministicIdentity(t *testing.T) {
	vectors := syntheticVectors(40)

	first, err := FitComponentSpace(vectors, schema.SimilarityFeatures, 0.95)
	assert.NoError(t, err)
	second, err := FitComponentSpace(vectors, schema.SimilarityFeatures, 0.95)
	assert.NoError(t, err)
	assert.Equal(t, first.SpaceID, second.SpaceID, "the same cohort must fingerprint identically")

	other, err := FitComponentSpace(syntheticVectors(39), schema.SimilarityFeatures, 0.95)
	assert.NoError(t, err)
	assert.NotEqual(t, first.SpaceID, other.SpaceID, "a different cohort must not collide")
}

func TestFitComponentSpaceNeedsTwoVectors(t *testing.T) {
	_, err := FitComponentSpace(syntheticVectors(1), schema.SimilarityFeatures, 0.95)
	assert.Error(t, err)
}

func TestTransformRejectsIncompleteVector(t *testing.T) {
	vectors := syntheticVectors(40)
	space, err := FitComponentSpace(vectors, schema.SimilarityFeatures, 0.95)
	assert.NoError(t, err)

	partial := vectors[0].Clone()
	delete(partial.Values, schema.FeatTrueUsage)

	_, err = Transform(partial, space)
	assert.ErrorIs(t, err, schema.ErrIncompatibleSpace, "partial projections are never silent")
}

func TestInverseTransformRejectsForeignCoordinates(t *testing.T) {
	vectors := syntheticVectors(40)
	space, err := FitComponentSpace(vectors, schema.SimilarityFeatures, 0.95)
	assert.NoError(t, err)

	foreign := &schema.Coordinates{
		Key:     vectors[0].Key,
		SpaceID: "deadbeefdeadbeef",
		Coords:  make([]float64, space.Retained()),
	}
	_, err = InverseTransform(foreign, space)
	assert.ErrorIs(t, err, schema.ErrIncompatibleSpace)

	short := &schema.Coordinates{Key: vectors[0].Key, SpaceID: space.SpaceID, Coords: []float64{1}}
	if space.Retained() > 1 {
		_, err = InverseTransform(short, space)
		assert.ErrorIs(t, err, schema.ErrIncompatibleSpace)
	}
}

func TestTransformAllPreservesOrder(t *testing.T) {
	vectors := syntheticVectors(40)
	space, err := FitComponentSpace(vectors, schema.SimilarityFeatures, 0.95)
	assert.NoError(t, err)

	coords, err := TransformAll(vectors, space)
	assert.NoError(t, err)
	assert.Len(t, coords, len(vectors))
	for i, c := range coords {
		assert.Equal(t, vectors[i].Key, c.Key)
	}
}
