package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// NeighborIndex answers nearest-neighbor queries over fitted
// coordinates. It is a read-only consumer of the fitted space and never
// mutates it or the archetype model.
type NeighborIndex struct {
	spaceID string
	// whiten holds 1/sqrt(explained variance) per axis for the
	// Mahalanobis metric.
	whiten  []float64
	entries []indexEntry
	byKey   map[schema.PlayerSeasonKey]int
}

type indexEntry struct {
	key        schema.PlayerSeasonKey
	playerName string
	archetype  string
	coords     []float64
}

// BuildNeighborIndex assembles an index from coordinates fitted on the
// given space. Player names and archetype labels are optional context
// carried through to results.
func BuildNeighborIndex(
	space *schema.ComponentSpace,
	coords []*schema.Coordinates,
	names map[schema.PlayerSeasonKey]string,
	assignments map[schema.PlayerSeasonKey]*schema.Assignment,
) (*NeighborIndex, error) {
	idx := &NeighborIndex{
		spaceID: space.SpaceID,
		whiten:  make([]float64, space.Retained()),
		byKey:   make(map[schema.PlayerSeasonKey]int, len(coords)),
	}
	for i, v := range space.Explained {
		if v > 0 {
			idx.whiten[i] = 1 / math.Sqrt(v)
		}
	}
	for _, c := range coords {
		if c.SpaceID != space.SpaceID {
			return nil, fmt.Errorf("coordinates fitted on %s, index space is %s: %w",
				c.SpaceID, space.SpaceID, schema.ErrIncompatibleSpace)
		}
		entry := indexEntry{key: c.Key, coords: c.Coords}
		if names != nil {
			entry.playerName = names[c.Key]
		}
		if assignments != nil {
			if a, ok := assignments[c.Key]; ok {
				entry.archetype = a.BestLabel
			}
		}
		idx.byKey[c.Key] = len(idx.entries)
		idx.entries = append(idx.entries, entry)
	}
	return idx, nil
}

// Size is the number of indexed player-seasons.
func (idx *NeighborIndex) Size() int { return len(idx.entries) }

// SpaceID identifies the fitted space this index answers for.
func (idx *NeighborIndex) SpaceID() string { return idx.spaceID }

// Query returns the k most similar player-seasons to the query key,
// skipping the query row itself and other seasons of the same player.
// Similarity is 1/(1+distance), so identical profiles approach 1.
func (idx *NeighborIndex) Query(key schema.PlayerSeasonKey, k int, metric schema.DistanceMetric) ([]schema.Neighbor, error) {
	pos, ok := idx.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, schema.ErrUnknownPlayerSeason)
	}
	query := idx.entries[pos]

	neighbors := make([]schema.Neighbor, 0, len(idx.entries))
	for _, e := range idx.entries {
		if e.key == key || e.key.SamePlayer(key) {
			continue
		}
		d := idx.distance(query.coords, e.coords, metric)
		neighbors = append(neighbors, schema.Neighbor{
			Key:        e.key,
			PlayerName: e.playerName,
			Distance:   d,
			Similarity: 1 / (1 + d),
			Archetype:  e.archetype,
		})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].Key.String() < neighbors[j].Key.String()
	})
	if k > 0 && k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// QueryCoords runs a query for coordinates not present in the index,
// e.g. a newly transformed player-season. The coordinates must come from
// the index's space.
func (idx *NeighborIndex) QueryCoords(coords *schema.Coordinates, k int, metric schema.DistanceMetric) ([]schema.Neighbor, error) {
	if coords.SpaceID != idx.spaceID {
		return nil, fmt.Errorf("query fitted on %s, index space is %s: %w",
			coords.SpaceID, idx.spaceID, schema.ErrIncompatibleSpace)
	}
	neighbors := make([]schema.Neighbor, 0, len(idx.entries))
	for _, e := range idx.entries {
		if e.key.SamePlayer(coords.Key) {
			continue
		}
		d := idx.distance(coords.Coords, e.coords, metric)
		neighbors = append(neighbors, schema.Neighbor{
			Key:        e.key,
			PlayerName: e.playerName,
			Distance:   d,
			Similarity: 1 / (1 + d),
			Archetype:  e.archetype,
		})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})
	if k > 0 && k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

func (idx *NeighborIndex) distance(a, b []float64, metric schema.DistanceMetric) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		if metric == schema.MahalanobisDistance {
			d *= idx.whiten[i]
		}
		sum += d * d
	}
	return math.Sqrt(sum)
}
