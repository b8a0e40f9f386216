// internal/artifact/loader_test.go
package artifact

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validModel() *ModelArtifact {
	return &ModelArtifact{
		Format:         FormatModel,
		Version:        1,
		Classes:        []string{"Fever", "Migraine"},
		ClassLogPrior:  []float64{-0.69, -0.69},
		FeatureLogProb: [][]float64{{-1.0, -2.0, -3.0}, {-3.0, -2.0, -1.0}},
	}
}

func validVectorizer() *VectorizerArtifact {
	return &VectorizerArtifact{
		Format:     FormatVectorizer,
		Version:    1,
		Lowercase:  true,
		Vocabulary: map[string]int{"fever": 0, "headache": 1, "nausea": 2},
		IDF:        []float64{1.0, 1.2, 1.4},
	}
}

func writeJSON(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeGzipJSON(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	gz := gzip.NewWriter(f)
	require.NoError(t, json.NewEncoder(gz).Encode(v))
	require.NoError(t, gz.Close())
	return path
}

func TestLoad_Success(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeGzipJSON(t, dir, "model.json.gz", validModel())
	vectorizerPath := writeJSON(t, dir, "vectorizer.json", validVectorizer())

	model, vectorizer, err := Load(modelPath, vectorizerPath)

	require.NoError(t, err)
	assert.Equal(t, []string{"Fever", "Migraine"}, model.Classes)
	assert.Len(t, vectorizer.IDF, 3)
	assert.True(t, vectorizer.Lowercase)
}

func TestLoad_UncompressedModelAlsoWorks(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeJSON(t, dir, "model.json", validModel())
	vectorizerPath := writeJSON(t, dir, "vectorizer.json", validVectorizer())

	_, _, err := Load(modelPath, vectorizerPath)

	assert.NoError(t, err)
}

func TestLoad_MissingModelFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	vectorizerPath := writeJSON(t, dir, "vectorizer.json", validVectorizer())

	_, _, err := Load(filepath.Join(dir, "absent.json.gz"), vectorizerPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARTIFACT_LOAD_FAILED")
}

func TestLoad_TruncatedGzipIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json.gz")
	require.NoError(t, os.WriteFile(modelPath, []byte{0x1f, 0x8b, 0x00}, 0o644))
	vectorizerPath := writeJSON(t, dir, "vectorizer.json", validVectorizer())

	_, _, err := Load(modelPath, vectorizerPath)

	assert.Error(t, err)
}

func TestLoad_SchemaViolationIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeGzipJSON(t, dir, "model.json.gz", map[string]interface{}{
		"format":  "naive-bayes-model",
		"version": 1,
		// classes missing entirely
		"class_log_prior":  []float64{},
		"feature_log_prob": [][]float64{},
	})
	vectorizerPath := writeJSON(t, dir, "vectorizer.json", validVectorizer())

	_, _, err := Load(modelPath, vectorizerPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARTIFACT_CORRUPT")
}

func TestLoad_FeatureCountMismatchIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	vectorizer := validVectorizer()
	vectorizer.IDF = []float64{1.0, 1.2} // model rows carry 3 features
	delete(vectorizer.Vocabulary, "nausea")

	modelPath := writeGzipJSON(t, dir, "model.json.gz", validModel())
	vectorizerPath := writeJSON(t, dir, "vectorizer.json", vectorizer)

	_, _, err := Load(modelPath, vectorizerPath)

	assert.Error(t, err)
}

func TestLoad_VocabularyIndexOutOfRangeIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	vectorizer := validVectorizer()
	vectorizer.Vocabulary["stray"] = 99

	modelPath := writeGzipJSON(t, dir, "model.json.gz", validModel())
	vectorizerPath := writeJSON(t, dir, "vectorizer.json", vectorizer)

	_, _, err := Load(modelPath, vectorizerPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARTIFACT_CORRUPT")
}
