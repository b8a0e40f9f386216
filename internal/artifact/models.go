// internal/artifact/models.go
package artifact

// VectorizerArtifact is the serialized TF-IDF vectorizer fitted offline by
// cmd/tools/model-trainer.
type VectorizerArtifact struct {
	Format     string         `json:"format"`
	Version    int            `json:"version"`
	Lowercase  bool           `json:"lowercase"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// ModelArtifact is the serialized multinomial naive Bayes model. Rows of
// FeatureLogProb line up with Classes; columns line up with the vectorizer
// vocabulary indices.
type ModelArtifact struct {
	Format         string      `json:"format"`
	Version        int         `json:"version"`
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

const (
	FormatVectorizer = "tfidf-vectorizer"
	FormatModel      = "naive-bayes-model"
)
