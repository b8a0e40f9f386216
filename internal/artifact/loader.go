// internal/artifact/loader.go
package artifact

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	cerrors "health-assistant/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// JSON schemas the artifact documents must satisfy before decoding. A
// document that fails schema validation is treated the same as a corrupt
// file: fatal at startup.
const vectorizerSchema = `{
	"type": "object",
	"required": ["format", "version", "vocabulary", "idf"],
	"properties": {
		"format": {"type": "string", "enum": ["tfidf-vectorizer"]},
		"version": {"type": "integer", "minimum": 1},
		"lowercase": {"type": "boolean"},
		"vocabulary": {"type": "object", "additionalProperties": {"type": "integer", "minimum": 0}},
		"idf": {"type": "array", "items": {"type": "number"}}
	}
}`

const modelSchema = `{
	"type": "object",
	"required": ["format", "version", "classes", "class_log_prior", "feature_log_prob"],
	"properties": {
		"format": {"type": "string", "enum": ["naive-bayes-model"]},
		"version": {"type": "integer", "minimum": 1},
		"classes": {"type": "array", "items": {"type": "string"}, "minItems": 1},
		"class_log_prior": {"type": "array", "items": {"type": "number"}},
		"feature_log_prob": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}}
	}
}`

// Load deserializes the model and vectorizer artifacts. Either file missing
// or corrupt is a fatal error; there is no recovery path.
func Load(modelPath, vectorizerPath string) (*ModelArtifact, *VectorizerArtifact, error) {
	var model ModelArtifact
	if err := loadDocument(modelPath, modelSchema, &model); err != nil {
		return nil, nil, err
	}
	if err := validateModel(&model, modelPath); err != nil {
		return nil, nil, err
	}

	var vectorizer VectorizerArtifact
	if err := loadDocument(vectorizerPath, vectorizerSchema, &vectorizer); err != nil {
		return nil, nil, err
	}
	if err := validateVectorizer(&vectorizer, vectorizerPath); err != nil {
		return nil, nil, err
	}

	if featureCount(&model) != len(vectorizer.IDF) {
		return nil, nil, cerrors.NewArtifactCorruptError(modelPath,
			fmt.Errorf("model has %d features, vectorizer has %d", featureCount(&model), len(vectorizer.IDF)))
	}

	return &model, &vectorizer, nil
}

func loadDocument(path, schema string, out interface{}) error {
	raw, err := readArtifact(path)
	if err != nil {
		return cerrors.NewArtifactLoadFailedError(path, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return cerrors.NewArtifactCorruptError(path, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return cerrors.NewArtifactCorruptError(path, fmt.Errorf("schema violations: %s", strings.Join(details, "; ")))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return cerrors.NewArtifactCorruptError(path, err)
	}
	return nil
}

// readArtifact reads the file, transparently gunzipping when the filename
// carries a .gz suffix (the model ships compressed, the vectorizer does not).
func readArtifact(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip open: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return io.ReadAll(r)
}

func validateModel(m *ModelArtifact, path string) error {
	if len(m.Classes) != len(m.ClassLogPrior) || len(m.Classes) != len(m.FeatureLogProb) {
		return cerrors.NewArtifactCorruptError(path,
			fmt.Errorf("class count mismatch: %d classes, %d priors, %d probability rows",
				len(m.Classes), len(m.ClassLogPrior), len(m.FeatureLogProb)))
	}
	features := featureCount(m)
	for i, row := range m.FeatureLogProb {
		if len(row) != features {
			return cerrors.NewArtifactCorruptError(path,
				fmt.Errorf("probability row %d has %d features, expected %d", i, len(row), features))
		}
	}
	return nil
}

func validateVectorizer(v *VectorizerArtifact, path string) error {
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return cerrors.NewArtifactCorruptError(path,
				fmt.Errorf("vocabulary term %q maps to index %d outside idf range %d", term, idx, len(v.IDF)))
		}
	}
	return nil
}

func featureCount(m *ModelArtifact) int {
	if len(m.FeatureLogProb) == 0 {
		return 0
	}
	return len(m.FeatureLogProb[0])
}
