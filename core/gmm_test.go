package core

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// blobCoords builds two well-separated 2D clusters of 60 points each:
// one around the origin, one around (10, 10).
func blobCoords(spaceID string) []*schema.Coordinates {
	rng := rand.New(rand.NewSource(3))
	out := make([]*schema.Coordinates, 0, 120)
	for i := range 120 {
		center := 0.0
		if i >= 60 {
			center = 10.0
		}
		out = append(out, &schema.Coordinates{
			Key:     schema.PlayerSeasonKey{PlayerID: fmt.Sprintf("p%03d", i), Season: 2019, TeamStint: "DEN"},
			SpaceID: spaceID,
			Coords: []float64{
				center + rng.Float64() - 0.5,
				center + rng.Float64() - 0.5,
			},
		})
	}
	return out
}

func TestFitArchetypesSeparatesBlobs(t *testing.T) {
	coords := blobCoords("space-a")

	model, err := FitArchetypes(coords, 2, 42)
	assert.NoError(t, err)
	assert.Equal(t, 2, model.K)
	assert.Equal(t, "space-a", model.SpaceID)
	assert.NotEmpty(t, model.ModelID)

	assignments, err := ScoreArchetypes(coords, model)
	assert.NoError(t, err)
	assert.Len(t, assignments, len(coords))

	for _, a := range assignments {
		var sum float64
		for _, p := range a.Probabilities {
			assert.GreaterOrEqual(t, p, 0.0, "probabilities are never negative")
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "%s membership must be a distribution", a.Key)
		assert.InDelta(t, a.Probabilities[a.Best], a.Confidence, 1e-12)
	}

	// Each blob lands on a single component, and the two blobs differ.
	first := assignments[0].Best
	second := assignments[60].Best
	assert.NotEqual(t, first, second)
	for i, a := range assignments {
		want := first
		if i >= 60 {
			want = second
		}
		assert.Equal(t, want, a.Best, "point %d assigned across the gap", i)
		assert.Greater(t, a.Confidence, 0.9, "well-separated blobs should assign decisively")
	}
}

func TestFitArchetypesReproducible(t *testing.T) {
	coords := blobCoords("space-a")

	first, err := FitArchetypes(coords, 2, 7)
	assert.NoError(t, err)
	second, err := FitArchetypes(coords, 2, 7)
	assert.NoError(t, err)

	assert.Equal(t, first.ModelID, second.ModelID, "a fixed seed must reproduce the fit exactly")
	assert.Equal(t, first.Means, second.Means)
	assert.Equal(t, first.Weights, second.Weights)
}

func TestSelectComponentsPrefersTrueCount(t *testing.T) {
	coords := blobCoords("space-a")

	best, err := SelectComponents(coords, 1, 3, 42)
	assert.NoError(t, err)
	assert.Equal(t, 2, best.K, "BIC should land on the two real clusters")

	_, err = SelectComponents(coords, 3, 2, 42)
	assert.Error(t, err, "an inverted scan range is a caller bug")
}

func TestScoreArchetypesRejectsForeignSpace(t *testing.T) {
	coords := blobCoords("space-a")
	model, err := FitArchetypes(coords, 2, 42)
	assert.NoError(t, err)

	foreign := blobCoords("space-b")
	_, err = ScoreArchetypes(foreign, model)
	assert.ErrorIs(t, err, schema.ErrIncompatibleSpace)
}

func TestScoreArchetypesRequiresFittedModel(t *testing.T) {
	_, err := ScoreArchetypes(blobCoords("space-a"), nil)
	assert.ErrorIs(t, err, schema.ErrModelNotFitted)
}

func TestFitArchetypesValidation(t *testing.T) {
	coords := blobCoords("space-a")

	_, err := FitArchetypes(coords, 0, 42)
	assert.Error(t, err, "zero components is out of range")

	_, err = FitArchetypes(nil, 2, 42)
	assert.Error(t, err, "fitting needs coordinates")

	mixed := blobCoords("space-a")
	mixed[5].SpaceID = "space-b"
	_, err = FitArchetypes(mixed, 2, 42)
	assert.ErrorIs(t, err, schema.ErrIncompatibleSpace)
}

func TestAlignArchetypes(t *testing.T) {
	coords := blobCoords("space-a")
	model, err := FitArchetypes(coords, 2, 42)
	assert.NoError(t, err)

	prior := &schema.ArchetypeModel{
		Means:  [][]float64{{10, 10}, {0, 0}},
		Labels: []string{"stretch-big", "floor-general"},
	}
	AlignArchetypes(model, prior)

	for c, mean := range model.Means {
		if mean[0] < 5 {
			assert.Equal(t, "floor-general", model.Labels[c])
		} else {
			assert.Equal(t, "stretch-big", model.Labels[c])
		}
	}

	// A missing prior leaves the default labels alone.
	fresh, err := FitArchetypes(coords, 2, 42)
	assert.NoError(t, err)
	AlignArchetypes(fresh, nil)
	assert.Equal(t, []string{"archetype-0", "archetype-1"}, fresh.Labels)
}
