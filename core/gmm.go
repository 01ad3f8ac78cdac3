package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// EM fitting controls.
const (
	maxEMIterations = 200
	emTolerance     = 1e-6
	// covRegularization keeps component covariances positive definite
	// when a component collapses onto few points.
	covRegularization = 1e-6
)

// FitArchetypes fits a Gaussian mixture with k components over fitted
// coordinates. Soft clustering is the point: a player's style can
// legitimately straddle archetypes, so membership is a probability
// distribution, not a hard partition.
//
// Fitting is stochastic. A fixed seed reproduces the fit exactly;
// without one, repeated fits may permute component labels, so archetype
// labels are never stable identifiers across retraining. Use
// AlignArchetypes to carry labels across epochs.
func FitArchetypes(coords []*schema.Coordinates, k int, seed int64) (*schema.ArchetypeModel, error) {
	x, spaceID, err := coordMatrix(coords)
	if err != nil {
		return nil, err
	}
	n, d := x.Dims()
	if k < 1 || k > n {
		return nil, fmt.Errorf("component count %d out of range for %d samples", k, n)
	}

	rng := rand.New(rand.NewSource(seed))
	means := seedMeans(x, k, rng)
	weights := make([]float64, k)
	for c := range weights {
		weights[c] = 1.0 / float64(k)
	}
	covs := make([]*mat.SymDense, k)
	base := baseCovariance(x)
	for c := range covs {
		covs[c] = mat.NewSymDense(d, nil)
		covs[c].CopySym(base)
	}

	resp := mat.NewDense(n, k, nil)
	logLik := math.Inf(-1)
	for iter := 0; iter < maxEMIterations; iter++ {
		ll, err := eStep(x, weights, means, covs, resp)
		if err != nil {
			return nil, err
		}
		mStep(x, resp, weights, means, covs)
		if math.Abs(ll-logLik) < emTolerance*(math.Abs(ll)+emTolerance) {
			logLik = ll
			break
		}
		logLik = ll
	}

	model := &schema.ArchetypeModel{
		SpaceID:       spaceID,
		K:             k,
		Seed:          seed,
		Weights:       weights,
		Means:         make([][]float64, k),
		Covariances:   make([][][]float64, k),
		LogLikelihood: logLik,
		Labels:        make([]string, k),
	}
	for c := range k {
		model.Means[c] = append([]float64(nil), means[c]...)
		model.Covariances[c] = symToRows(covs[c])
		model.Labels[c] = fmt.Sprintf("archetype-%d", c)
	}
	// BIC penalizes free parameters: K-1 weights, K means, K symmetric
	// covariances.
	params := float64(k-1) + float64(k*d) + float64(k*d*(d+1)/2)
	model.BIC = -2*logLik + params*math.Log(float64(n))
	model.ModelID = fingerprintModel(model)
	return model, nil
}

// SelectComponents scans [kMin, kMax] and keeps the fit with the lowest
// BIC. The component count is a model-selection concern, never a
// hardcoded constant.
func SelectComponents(coords []*schema.Coordinates, kMin, kMax int, seed int64) (*schema.ArchetypeModel, error) {
	if kMin < 1 || kMax < kMin {
		return nil, fmt.Errorf("invalid component range [%d, %d]", kMin, kMax)
	}
	var best *schema.ArchetypeModel
	for k := kMin; k <= kMax; k++ {
		model, err := FitArchetypes(coords, k, seed)
		if err != nil {
			return nil, err
		}
		if best == nil || model.BIC < best.BIC {
			best = model
		}
	}
	return best, nil
}

// ScoreArchetypes computes soft membership for coordinates against a
// fitted model. Coordinates from a different fitted space are rejected,
// never silently scored.
func ScoreArchetypes(coords []*schema.Coordinates, model *schema.ArchetypeModel) ([]*schema.Assignment, error) {
	if model == nil || model.K == 0 {
		return nil, schema.ErrModelNotFitted
	}
	out := make([]*schema.Assignment, 0, len(coords))
	for _, c := range coords {
		if c.SpaceID != model.SpaceID {
			return nil, fmt.Errorf("coordinates fitted on %s, model on %s: %w",
				c.SpaceID, model.SpaceID, schema.ErrIncompatibleSpace)
		}
		logp := make([]float64, model.K)
		for k := range model.K {
			sym, err := rowsToSym(model.Covariances[k])
			if err != nil {
				return nil, err
			}
			lp, err := gaussianLogProb(c.Coords, model.Means[k], sym)
			if err != nil {
				return nil, err
			}
			logp[k] = math.Log(model.Weights[k]) + lp
		}
		total := logSumExp(logp)
		probs := make([]float64, model.K)
		best, bestP := 0, 0.0
		for k := range model.K {
			probs[k] = math.Exp(logp[k] - total)
			if probs[k] > bestP {
				best, bestP = k, probs[k]
			}
		}
		out = append(out, &schema.Assignment{
			Key:           c.Key,
			ModelID:       model.ModelID,
			Probabilities: probs,
			Best:          best,
			BestLabel:     model.LabelFor(best),
			Confidence:    bestP,
		})
	}
	return out, nil
}

// AlignArchetypes renames a model's components by matching centroids to
// a prior epoch's model, giving archetype identity continuity across
// retraining. Each new component takes the label of the nearest unused
// prior centroid.
func AlignArchetypes(model, prior *schema.ArchetypeModel) {
	if prior == nil || len(prior.Means) == 0 {
		return
	}
	used := make(map[int]bool, len(prior.Means))
	for c := range model.Means {
		bestPrior, bestDist := -1, math.Inf(1)
		for p := range prior.Means {
			if used[p] || len(prior.Means[p]) != len(model.Means[c]) {
				continue
			}
			d := squaredDistance(model.Means[c], prior.Means[p])
			if d < bestDist {
				bestPrior, bestDist = p, d
			}
		}
		if bestPrior >= 0 {
			used[bestPrior] = true
			model.Labels[c] = prior.Labels[bestPrior]
		}
	}
}

// coordMatrix packs coordinates into a dense matrix, enforcing a single
// source space.
func coordMatrix(coords []*schema.Coordinates) (*mat.Dense, string, error) {
	if len(coords) == 0 {
		return nil, "", fmt.Errorf("no coordinates to fit")
	}
	spaceID := coords[0].SpaceID
	d := len(coords[0].Coords)
	x := mat.NewDense(len(coords), d, nil)
	for i, c := range coords {
		if c.SpaceID != spaceID {
			return nil, "", fmt.Errorf("mixed spaces %s and %s: %w", spaceID, c.SpaceID, schema.ErrIncompatibleSpace)
		}
		if len(c.Coords) != d {
			return nil, "", fmt.Errorf("ragged coordinate dimensions: %w", schema.ErrIncompatibleSpace)
		}
		x.SetRow(i, c.Coords)
	}
	return x, spaceID, nil
}

// seedMeans picks initial component means with distance-weighted
// sampling, spreading seeds across the cohort.
func seedMeans(x *mat.Dense, k int, rng *rand.Rand) [][]float64 {
	n, _ := x.Dims()
	means := make([][]float64, 0, k)
	first := rng.Intn(n)
	means = append(means, mat.Row(nil, first, x))

	dist := make([]float64, n)
	for len(means) < k {
		var total float64
		for i := range n {
			row := mat.Row(nil, i, x)
			best := math.Inf(1)
			for _, m := range means {
				if d := squaredDistance(row, m); d < best {
					best = d
				}
			}
			dist[i] = best
			total += best
		}
		if total == 0 {
			// All remaining points coincide with a seed; any pick works.
			means = append(means, mat.Row(nil, rng.Intn(n), x))
			continue
		}
		target := rng.Float64() * total
		var cum float64
		pick := n - 1
		for i, d := range dist {
			cum += d
			if cum >= target {
				pick = i
				break
			}
		}
		means = append(means, mat.Row(nil, pick, x))
	}
	return means
}

// baseCovariance is the regularized covariance of the whole cohort,
// used as every component's starting covariance.
func baseCovariance(x *mat.Dense) *mat.SymDense {
	_, d := x.Dims()
	sym := mat.NewSymDense(d, nil)
	stat.CovarianceMatrix(sym, x, nil)
	for i := range d {
		sym.SetSym(i, i, sym.At(i, i)+covRegularization)
	}
	return sym
}

// eStep fills responsibilities and returns the cohort log-likelihood.
func eStep(x *mat.Dense, weights []float64, means [][]float64, covs []*mat.SymDense, resp *mat.Dense) (float64, error) {
	n, _ := x.Dims()
	k := len(weights)
	var logLik float64
	logp := make([]float64, k)
	for i := range n {
		row := mat.Row(nil, i, x)
		for c := range k {
			lp, err := gaussianLogProb(row, means[c], covs[c])
			if err != nil {
				return 0, err
			}
			logp[c] = math.Log(weights[c]) + lp
		}
		total := logSumExp(logp)
		logLik += total
		for c := range k {
			resp.Set(i, c, math.Exp(logp[c]-total))
		}
	}
	return logLik, nil
}

// mStep re-estimates weights, means and covariances from the
// responsibilities.
func mStep(x *mat.Dense, resp *mat.Dense, weights []float64, means [][]float64, covs []*mat.SymDense) {
	n, d := x.Dims()
	k := len(weights)
	for c := range k {
		var nk float64
		for i := range n {
			nk += resp.At(i, c)
		}
		if nk == 0 {
			nk = covRegularization
		}
		weights[c] = nk / float64(n)

		mean := make([]float64, d)
		for i := range n {
			r := resp.At(i, c)
			for j := range d {
				mean[j] += r * x.At(i, j)
			}
		}
		for j := range d {
			mean[j] /= nk
		}
		means[c] = mean

		cov := mat.NewSymDense(d, nil)
		diff := make([]float64, d)
		for i := range n {
			r := resp.At(i, c)
			for j := range d {
				diff[j] = x.At(i, j) - mean[j]
			}
			for a := range d {
				for b := a; b < d; b++ {
					cov.SetSym(a, b, cov.At(a, b)+r*diff[a]*diff[b])
				}
			}
		}
		for a := range d {
			for b := a; b < d; b++ {
				cov.SetSym(a, b, cov.At(a, b)/nk)
			}
			cov.SetSym(a, a, cov.At(a, a)+covRegularization)
		}
		covs[c] = cov
	}
}

// gaussianLogProb evaluates the multivariate normal log-density via a
// Cholesky factorization.
func gaussianLogProb(x, mean []float64, cov *mat.SymDense) (float64, error) {
	d := len(mean)
	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return 0, fmt.Errorf("component covariance is not positive definite")
	}
	diff := mat.NewVecDense(d, nil)
	for j := range d {
		diff.SetVec(j, x[j]-mean[j])
	}
	var solved mat.VecDense
	if err := chol.SolveVecTo(&solved, diff); err != nil {
		return 0, err
	}
	maha := mat.Dot(diff, &solved)
	return -0.5 * (float64(d)*math.Log(2*math.Pi) + chol.LogDet() + maha), nil
}

func logSumExp(vals []float64) float64 {
	maxV := math.Inf(-1)
	for _, v := range vals {
		if v > maxV {
			maxV = v
		}
	}
	if math.IsInf(maxV, -1) {
		return maxV
	}
	var sum float64
	for _, v := range vals {
		sum += math.Exp(v - maxV)
	}
	return maxV + math.Log(sum)
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func symToRows(sym *mat.SymDense) [][]float64 {
	d := sym.SymmetricDim()
	out := make([][]float64, d)
	for i := range d {
		out[i] = make([]float64, d)
		for j := range d {
			out[i][j] = sym.At(i, j)
		}
	}
	return out
}

func rowsToSym(rows [][]float64) (*mat.SymDense, error) {
	d := len(rows)
	sym := mat.NewSymDense(d, nil)
	for i := range d {
		if len(rows[i]) != d {
			return nil, fmt.Errorf("covariance rows are ragged")
		}
		for j := i; j < d; j++ {
			sym.SetSym(i, j, rows[i][j])
		}
	}
	return sym, nil
}

// fingerprintModel derives a stable identity from the fitted parameters.
func fingerprintModel(m *schema.ArchetypeModel) string {
	h := sha256.New()
	var buf [8]byte
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	h.Write([]byte(m.SpaceID))
	binary.LittleEndian.PutUint64(buf[:], uint64(m.Seed))
	h.Write(buf[:])
	for c := range m.K {
		writeFloat(m.Weights[c])
		for _, v := range m.Means[c] {
			writeFloat(v)
		}
		for _, row := range m.Covariances[c] {
			for _, v := range row {
				writeFloat(v)
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
