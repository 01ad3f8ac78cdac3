package schema

import "errors"

// Cross-cutting pipeline errors. Per-record conditions are QualityFlags,
// not errors.
var (
	// ErrInsufficientPopulation means a season has no qualifying
	// rotation players. Fatal for that season's normalization only.
	ErrInsufficientPopulation = errors.New("no qualifying rotation players for season")

	// ErrIncompatibleSpace means coordinates or vectors from one fitted
	// space were used against another. Always fatal.
	ErrIncompatibleSpace = errors.New("coordinates belong to a different fitted space")

	// ErrModelNotFitted means scoring was attempted before fitting.
	ErrModelNotFitted = errors.New("model has not been fitted")

	// ErrUnknownPlayerSeason means a similarity query referenced a key
	// absent from the index.
	ErrUnknownPlayerSeason = errors.New("player-season not present in index")

	// ErrFamilyUnavailable means an ingested record declared a stat
	// family its season cannot have.
	ErrFamilyUnavailable = errors.New("stat family not available for season")
)
