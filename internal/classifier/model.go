package classifier

import (
	"sort"

	"health-assistant/internal/artifact"
)

// Model scores a vectorized input against every trained class using
// multinomial naive Bayes log-likelihoods.
type Model struct {
	classes        []string
	classLogPrior  []float64
	featureLogProb [][]float64
}

// NewModel builds a Model from a loaded artifact.
func NewModel(a *artifact.ModelArtifact) *Model {
	return &Model{
		classes:        a.Classes,
		classLogPrior:  a.ClassLogPrior,
		featureLogProb: a.FeatureLogProb,
	}
}

// Predict returns class labels ranked by joint log-likelihood, best first.
// An input with no in-vocabulary terms yields no prediction at all rather
// than an arbitrary prior-only ranking.
func (m *Model) Predict(vec map[int]float64) []string {
	if len(vec) == 0 {
		return nil
	}

	type scored struct {
		label string
		score float64
		order int
	}

	ranked := make([]scored, len(m.classes))
	for c, label := range m.classes {
		score := m.classLogPrior[c]
		for idx, weight := range vec {
			score += weight * m.featureLogProb[c][idx]
		}
		ranked[c] = scored{label: label, score: score, order: c}
	}

	// Ties resolve in training class order so predictions stay deterministic.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	labels := make([]string, len(ranked))
	for i, s := range ranked {
		labels[i] = s.label
	}
	return labels
}
