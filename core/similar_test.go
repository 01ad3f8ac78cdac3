package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KrishalDhungana/NBAMind/schema"
)

func testSpace() *schema.ComponentSpace {
	return &schema.ComponentSpace{
		SpaceID:      "space-test",
		FeatureNames: []string{"f1", "f2"},
		Mean:         []float64{0, 0},
		Loadings:     [][]float64{{1, 0}, {0, 1}},
		// Whitening factors become 1/2 and 1.
		Explained:     []float64{4, 1},
		TotalVariance: 5,
	}
}

func coordAt(player string, season schema.SeasonID, x, y float64) *schema.Coordinates {
	return &schema.Coordinates{
		Key:     schema.PlayerSeasonKey{PlayerID: player, Season: season, TeamStint: "SAS"},
		SpaceID: "space-test",
		Coords:  []float64{x, y},
	}
}

func testIndex(t *testing.T) *NeighborIndex {
	t.Helper()
	space := testSpace()
	coords := []*schema.Coordinates{
		coordAt("a", 2010, 0, 0),
		coordAt("a", 2012, 0.1, 0), // same player, different season
		coordAt("b", 2011, 1, 0),
		coordAt("c", 2011, 0, 2),
		coordAt("d", 2011, 3, 0),
	}
	names := map[schema.PlayerSeasonKey]string{
		coords[2].Key: "Player B",
	}
	assignments := map[schema.PlayerSeasonKey]*schema.Assignment{
		coords[2].Key: {Key: coords[2].Key, BestLabel: "slasher"},
	}
	idx, err := BuildNeighborIndex(space, coords, names, assignments)
	assert.NoError(t, err)
	assert.Equal(t, 5, idx.Size())
	assert.Equal(t, "space-test", idx.SpaceID())
	return idx
}

func TestQuerySkipsSelfAndOwnSeasons(t *testing.T) {
	idx := testIndex(t)
	query := schema.PlayerSeasonKey{PlayerID: "a", Season: 2010, TeamStint: "SAS"}

	neighbors, err := idx.Query(query, 10, schema.EuclideanDistance)
	assert.NoError(t, err)
	assert.Len(t, neighbors, 3, "the query row and the player's other season are excluded")

	for _, n := range neighbors {
		assert.NotEqual(t, "a", n.Key.PlayerID, "a player is never their own comparable")
	}

	// Euclidean order from (0,0): b at 1, c at 2, d at 3.
	assert.Equal(t, "b", neighbors[0].Key.PlayerID)
	assert.Equal(t, "c", neighbors[1].Key.PlayerID)
	assert.Equal(t, "d", neighbors[2].Key.PlayerID)

	assert.InDelta(t, 0.5, neighbors[0].Similarity, 1e-12, "similarity is 1/(1+distance)")
	assert.Equal(t, "Player B", neighbors[0].PlayerName)
	assert.Equal(t, "slasher", neighbors[0].Archetype)
}

func TestQueryMahalanobisWhitening(t *testing.T) {
	idx := testIndex(t)
	query := schema.PlayerSeasonKey{PlayerID: "a", Season: 2010, TeamStint: "SAS"}

	neighbors, err := idx.Query(query, 10, schema.MahalanobisDistance)
	assert.NoError(t, err)

	// Whitened distances from (0,0): b = 0.5, d = 1.5, c = 2. The
	// high-variance first axis is downweighted, reordering d before c.
	assert.Equal(t, "b", neighbors[0].Key.PlayerID)
	assert.Equal(t, "d", neighbors[1].Key.PlayerID)
	assert.Equal(t, "c", neighbors[2].Key.PlayerID)
	assert.InDelta(t, 0.5, neighbors[0].Distance, 1e-12)
}

func TestQueryTruncatesToK(t *testing.T) {
	idx := testIndex(t)
	query := schema.PlayerSeasonKey{PlayerID: "a", Season: 2010, TeamStint: "SAS"}

	neighbors, err := idx.Query(query, 2, schema.EuclideanDistance)
	assert.NoError(t, err)
	assert.Len(t, neighbors, 2)
	assert.Equal(t, "b", neighbors[0].Key.PlayerID)
}

func TestQueryUnknownKey(t *testing.T) {
	idx := testIndex(t)
	missing := schema.PlayerSeasonKey{PlayerID: "nobody", Season: 2000, TeamStint: "SAS"}

	_, err := idx.Query(missing, 5, schema.EuclideanDistance)
	assert.ErrorIs(t, err, schema.ErrUnknownPlayerSeason)
}

func TestQueryTieBreaksByKey(t *testing.T) {
	space := testSpace()
	coords := []*schema.Coordinates{
		coordAt("q", 2015, 0, 0),
		coordAt("x", 2015, 1, 0),
		coordAt("w", 2015, 0, 1), // equidistant with x
	}
	idx, err := BuildNeighborIndex(space, coords, nil, nil)
	assert.NoError(t, err)

	neighbors, err := idx.Query(coords[0].Key, 10, schema.EuclideanDistance)
	assert.NoError(t, err)
	assert.Equal(t, "w", neighbors[0].Key.PlayerID, "equal distances order by key for determinism")
	assert.Equal(t, "x", neighbors[1].Key.PlayerID)
}

func TestQueryCoords(t *testing.T) {
	idx := testIndex(t)

	probe := coordAt("a", 2020, 0, 0) // not indexed, but same player as "a"
	neighbors, err := idx.QueryCoords(probe, 10, schema.EuclideanDistance)
	assert.NoError(t, err)
	assert.Len(t, neighbors, 3, "the probe player's indexed seasons are excluded")

	foreign := &schema.Coordinates{
		Key:     schema.PlayerSeasonKey{PlayerID: "z", Season: 2020, TeamStint: "SAS"},
		SpaceID: "space-other",
		Coords:  []float64{0, 0},
	}
	_, err = idx.QueryCoords(foreign, 10, schema.EuclideanDistance)
	assert.ErrorIs(t, err, schema.ErrIncompatibleSpace)
}

func TestBuildNeighborIndexRejectsForeignCoords(t *testing.T) {
	space := testSpace()
	coords := []*schema.Coordinates{coordAt("a", 2010, 0, 0)}
	coords[0].SpaceID = "space-other"

	_, err := BuildNeighborIndex(space, coords, nil, nil)
	assert.ErrorIs(t, err, schema.ErrIncompatibleSpace)
}

func TestSimilarityDecaysWithDistance(t *testing.T) {
	idx := testIndex(t)
	query := schema.PlayerSeasonKey{PlayerID: "a", Season: 2010, TeamStint: "SAS"}

	neighbors, err := idx.Query(query, 10, schema.EuclideanDistance)
	assert.NoError(t, err)
	for i := 1; i < len(neighbors); i++ {
		assert.LessOrEqual(t, neighbors[i].Similarity, neighbors[i-1].Similarity)
	}
	for _, n := range neighbors {
		assert.InDelta(t, 1/(1+n.Distance), n.Similarity, 1e-12)
		assert.False(t, math.IsNaN(n.Similarity))
	}
}
