package schema

// ComponentSpace is a fitted orthogonal basis over the similarity
// features: a mean vector plus component loadings and the variance each
// axis explains. Fit once per model epoch and immutable afterwards;
// refitting produces a new instance with a new SpaceID, which
// invalidates downstream archetype assignments.
type ComponentSpace struct {
	SpaceID      string    `json:"space_id"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	// Loadings has one row per retained component, each of dimension
	// len(FeatureNames).
	Loadings      [][]float64 `json:"loadings"`
	Explained     []float64   `json:"explained"` // variance per retained axis
	TotalVariance float64     `json:"total_variance"`
}

// Dim is the input feature dimension.
func (s *ComponentSpace) Dim() int { return len(s.FeatureNames) }

// Retained is the number of kept principal components.
func (s *ComponentSpace) Retained() int { return len(s.Loadings) }

// ExplainedRatio returns the cumulative share of variance the retained
// axes explain.
func (s *ComponentSpace) ExplainedRatio() float64 {
	if s.TotalVariance == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.Explained {
		sum += v
	}
	return sum / s.TotalVariance
}

// Coordinates is one player-season's position in a fitted space.
type Coordinates struct {
	Key     PlayerSeasonKey `json:"key"`
	SpaceID string          `json:"space_id"`
	Coords  []float64       `json:"coords"`
}

// ArchetypeModel is a fitted Gaussian mixture over ComponentSpace
// coordinates. Fit on a training cohort and reused for scoring until
// explicitly retrained. Component labels are not stable identifiers
// across refits; align new epochs to a prior model before comparing.
type ArchetypeModel struct {
	ModelID string `json:"model_id"`
	SpaceID string `json:"space_id"`
	K       int    `json:"k"`
	Seed    int64  `json:"seed"`

	Weights     []float64     `json:"weights"`
	Means       [][]float64   `json:"means"`
	Covariances [][][]float64 `json:"covariances"`

	LogLikelihood float64 `json:"log_likelihood"`
	BIC           float64 `json:"bic"`

	// Labels carries stable archetype names per component, assigned by
	// centroid matching against a prior epoch. Defaults to indexed names.
	Labels []string `json:"labels"`
}

// LabelFor returns the archetype name for a component index.
func (m *ArchetypeModel) LabelFor(component int) string {
	if component >= 0 && component < len(m.Labels) {
		return m.Labels[component]
	}
	return ""
}

// Assignment is one player-season's soft archetype membership: a
// probability vector over the model's K components summing to 1, plus
// the arg-max label for convenience.
type Assignment struct {
	Key           PlayerSeasonKey `json:"key"`
	ModelID       string          `json:"model_id"`
	Probabilities []float64       `json:"probabilities"`
	Best          int             `json:"best"`
	BestLabel     string          `json:"best_label"`
	Confidence    float64         `json:"confidence"` // probability of Best
}

// Neighbor is one similarity-query result.
type Neighbor struct {
	Key        PlayerSeasonKey `json:"key"`
	PlayerName string          `json:"player_name"`
	Distance   float64         `json:"distance"`
	Similarity float64         `json:"similarity"` // 1 / (1 + distance)
	Archetype  string          `json:"archetype,omitempty"`
}
