package classifier

import (
	"math"
	"regexp"
	"strings"

	"health-assistant/internal/artifact"
)

// tokenPattern matches word tokens of two or more characters, the same
// shape the vectorizer was fitted with.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// Vectorizer turns free text into a sparse TF-IDF vector over the fitted
// vocabulary. Terms outside the vocabulary are ignored.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
	lowercase  bool
}

// NewVectorizer builds a Vectorizer from a loaded artifact.
func NewVectorizer(a *artifact.VectorizerArtifact) *Vectorizer {
	return &Vectorizer{
		vocabulary: a.Vocabulary,
		idf:        a.IDF,
		lowercase:  a.Lowercase,
	}
}

// Transform vectorizes text into index->weight form with l2 normalisation.
func (v *Vectorizer) Transform(text string) map[int]float64 {
	if v.lowercase {
		text = strings.ToLower(text)
	}

	counts := make(map[int]float64)
	for _, token := range tokenPattern.FindAllString(text, -1) {
		if idx, ok := v.vocabulary[token]; ok {
			counts[idx]++
		}
	}

	if len(counts) == 0 {
		return counts
	}

	var norm float64
	for idx := range counts {
		counts[idx] *= v.idf[idx]
		norm += counts[idx] * counts[idx]
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for idx := range counts {
			counts[idx] /= norm
		}
	}

	return counts
}
