package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// DefaultVarianceThreshold is the cumulative explained-variance share a
// fitted basis must retain.
const DefaultVarianceThreshold = 0.95

// FittableFeatures returns the similarity features every season present
// in the cohort can carry, in canonical order. Family-gated blocks drop
// out when the cohort spans seasons lacking the family, so records from
// different eras reduce into one space instead of the older era being
// excluded wholesale.
func FittableFeatures(vectors []*schema.FeatureVector) []string {
	contexts := make(map[schema.SeasonID]schema.SeasonContext)
	for _, v := range vectors {
		if _, ok := contexts[v.Key.Season]; !ok {
			contexts[v.Key.Season] = NewSeasonContext(v.Key.Season)
		}
	}
	names := make([]string, 0, len(schema.SimilarityFeatures))
	for _, name := range schema.SimilarityFeatures {
		required := schema.FamilyRequirements[name]
		available := true
		for _, ctx := range contexts {
			if !ctx.Available(required) {
				available = false
				break
			}
		}
		if available {
			names = append(names, name)
		}
	}
	return names
}

// CompleteVectors splits a cohort into vectors carrying every feature in
// names and the remainder. Only complete vectors can enter the fitted
// space; incomplete ones stay in the quality report.
func CompleteVectors(vectors []*schema.FeatureVector, names []string) (complete, incomplete []*schema.FeatureVector) {
	for _, v := range vectors {
		ok := true
		for _, name := range names {
			if !v.Has(name) {
				ok = false
				break
			}
		}
		if ok {
			complete = append(complete, v)
		} else {
			incomplete = append(incomplete, v)
		}
	}
	return complete, incomplete
}

// FitComponentSpace fits an orthogonal basis over the named features of
// the training cohort, keeping the smallest number of principal
// components whose cumulative variance share reaches the threshold.
// Passing nil names fits on the full similarity feature list. The
// returned space is immutable; refitting yields a new SpaceID and
// invalidates anything derived from the old one.
func FitComponentSpace(vectors []*schema.FeatureVector, names []string, varianceThreshold float64) (*schema.ComponentSpace, error) {
	if varianceThreshold <= 0 || varianceThreshold > 1 {
		varianceThreshold = DefaultVarianceThreshold
	}
	if len(names) == 0 {
		names = schema.SimilarityFeatures
	}
	n, d := len(vectors), len(names)
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 complete vectors to fit a space, got %d", n)
	}

	x := mat.NewDense(n, d, nil)
	for i, v := range vectors {
		for j, name := range names {
			value, ok := v.Values[name]
			if !ok {
				return nil, fmt.Errorf("vector %s lacks feature %s: %w", v.Key, name, schema.ErrIncompatibleSpace)
			}
			x.Set(i, j, value)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, fmt.Errorf("principal component decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	var total float64
	for _, v := range vars {
		total += v
	}
	retained := len(vars)
	if total > 0 {
		var cum float64
		for i, v := range vars {
			cum += v
			if cum/total >= varianceThreshold {
				retained = i + 1
				break
			}
		}
	}

	mean := make([]float64, d)
	for j := range names {
		mean[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}

	loadings := make([][]float64, retained)
	for c := range retained {
		loadings[c] = mat.Col(nil, c, &vecs)
	}

	space := &schema.ComponentSpace{
		FeatureNames:  append([]string(nil), names...),
		Mean:          mean,
		Loadings:      loadings,
		Explained:     append([]float64(nil), vars[:retained]...),
		TotalVariance: total,
	}
	space.SpaceID = fingerprintSpace(space)
	return space, nil
}

// Transform projects one feature vector into a fitted space. The vector
// must carry every feature the space was fitted on; anything else is an
// incompatible-space error, never a silent partial projection.
func Transform(v *schema.FeatureVector, space *schema.ComponentSpace) (*schema.Coordinates, error) {
	centered := make([]float64, space.Dim())
	for j, name := range space.FeatureNames {
		value, ok := v.Values[name]
		if !ok {
			return nil, fmt.Errorf("vector %s lacks feature %s: %w", v.Key, name, schema.ErrIncompatibleSpace)
		}
		centered[j] = value - space.Mean[j]
	}
	coords := make([]float64, space.Retained())
	for c, axis := range space.Loadings {
		var dot float64
		for j, w := range axis {
			dot += centered[j] * w
		}
		coords[c] = dot
	}
	return &schema.Coordinates{Key: v.Key, SpaceID: space.SpaceID, Coords: coords}, nil
}

// InverseTransform reconstructs a feature vector from coordinates. The
// reconstruction is exact up to the variance discarded by the retained
// basis.
func InverseTransform(coords *schema.Coordinates, space *schema.ComponentSpace) (*schema.FeatureVector, error) {
	if coords.SpaceID != space.SpaceID {
		return nil, fmt.Errorf("coordinates fitted on %s, space is %s: %w",
			coords.SpaceID, space.SpaceID, schema.ErrIncompatibleSpace)
	}
	if len(coords.Coords) != space.Retained() {
		return nil, fmt.Errorf("coordinate dimension %d does not match retained %d: %w",
			len(coords.Coords), space.Retained(), schema.ErrIncompatibleSpace)
	}
	values := make(map[string]float64, space.Dim())
	for j, name := range space.FeatureNames {
		x := space.Mean[j]
		for c, axis := range space.Loadings {
			x += coords.Coords[c] * axis[j]
		}
		values[name] = x
	}
	return &schema.FeatureVector{Key: coords.Key, Stage: "reconstructed", Values: values}, nil
}

// TransformAll projects a cohort into the space, preserving input order.
func TransformAll(vectors []*schema.FeatureVector, space *schema.ComponentSpace) ([]*schema.Coordinates, error) {
	out := make([]*schema.Coordinates, 0, len(vectors))
	for _, v := range vectors {
		c, err := Transform(v, space)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// fingerprintSpace derives a stable identity from the fitted contents,
// so two separately fitted spaces never compare equal by accident.
func fingerprintSpace(space *schema.ComponentSpace) string {
	h := sha256.New()
	for _, name := range space.FeatureNames {
		h.Write([]byte(name))
	}
	writeFloats := func(vals []float64) {
		var buf [8]byte
		for _, v := range vals {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	writeFloats(space.Mean)
	for _, axis := range space.Loadings {
		writeFloats(axis)
	}
	writeFloats(space.Explained)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
