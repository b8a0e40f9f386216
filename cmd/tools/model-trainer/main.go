// cmd/tools/model-trainer/main.go
//
// Offline tool that fits the TF-IDF vectorizer and multinomial naive Bayes
// model from a labeled training CSV (text,label header) and writes the two
// artifact files the assistant loads at startup.
package main

import (
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"health-assistant/internal/artifact"
)

var tokenPattern = regexp.MustCompile(`\w\w+`)

type document struct {
	tokens []string
	label  string
}

func main() {
	trainPath := flag.String("train", "data/training.csv", "Labeled training CSV (text,label header)")
	modelPath := flag.String("model", "data/naive_bayes_model.json.gz", "Output path for the model artifact")
	vectorizerPath := flag.String("vectorizer", "data/tfidf_vectorizer.json", "Output path for the vectorizer artifact")
	alpha := flag.Float64("alpha", 1.0, "Laplace smoothing factor")
	flag.Parse()

	docs, err := readTrainingData(*trainPath)
	if err != nil {
		fmt.Printf("Error: failed to read training data: %v\n", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		fmt.Println("Error: training file has no labeled rows.")
		os.Exit(1)
	}

	vectorizer := fitVectorizer(docs)
	model := fitModel(docs, vectorizer, *alpha)

	if err := writeArtifact(*vectorizerPath, vectorizer); err != nil {
		fmt.Printf("Error: failed to write vectorizer: %v\n", err)
		os.Exit(1)
	}
	if err := writeArtifact(*modelPath, model); err != nil {
		fmt.Printf("Error: failed to write model: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Trained on %d documents: %d classes, %d features.\n",
		len(docs), len(model.Classes), len(vectorizer.IDF))
	fmt.Printf("Wrote %s and %s.\n", *modelPath, *vectorizerPath)
}

func readTrainingData(path string) ([]document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("expected a header row and at least one data row")
	}

	docs := make([]document, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		text := strings.TrimSpace(record[0])
		label := strings.TrimSpace(record[1])
		if text == "" || label == "" {
			continue
		}
		docs = append(docs, document{
			tokens: tokenize(text),
			label:  label,
		})
	}
	return docs, nil
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// fitVectorizer builds the sorted vocabulary and smoothed IDF weights.
func fitVectorizer(docs []document) *artifact.VectorizerArtifact {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, token := range doc.tokens {
			if !seen[token] {
				seen[token] = true
				df[token]++
			}
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	return &artifact.VectorizerArtifact{
		Format:     artifact.FormatVectorizer,
		Version:    1,
		Lowercase:  true,
		Vocabulary: vocabulary,
		IDF:        idf,
	}
}

// fitModel accumulates per-class TF-IDF mass and converts it into smoothed
// log-probabilities.
func fitModel(docs []document, vectorizer *artifact.VectorizerArtifact, alpha float64) *artifact.ModelArtifact {
	features := len(vectorizer.IDF)

	classCounts := make(map[string]int)
	classMass := make(map[string][]float64)
	for _, doc := range docs {
		classCounts[doc.label]++
		if _, ok := classMass[doc.label]; !ok {
			classMass[doc.label] = make([]float64, features)
		}

		vec := vectorizeTokens(doc.tokens, vectorizer)
		for idx, weight := range vec {
			classMass[doc.label][idx] += weight
		}
	}

	classes := make([]string, 0, len(classCounts))
	for label := range classCounts {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	classLogPrior := make([]float64, len(classes))
	featureLogProb := make([][]float64, len(classes))
	n := float64(len(docs))
	for c, label := range classes {
		classLogPrior[c] = math.Log(float64(classCounts[label]) / n)

		mass := classMass[label]
		var total float64
		for _, m := range mass {
			total += m
		}

		row := make([]float64, features)
		denominator := total + alpha*float64(features)
		for j := 0; j < features; j++ {
			row[j] = math.Log((mass[j] + alpha) / denominator)
		}
		featureLogProb[c] = row
	}

	return &artifact.ModelArtifact{
		Format:         artifact.FormatModel,
		Version:        1,
		Classes:        classes,
		ClassLogPrior:  classLogPrior,
		FeatureLogProb: featureLogProb,
	}
}

func vectorizeTokens(tokens []string, vectorizer *artifact.VectorizerArtifact) map[int]float64 {
	counts := make(map[int]float64)
	for _, token := range tokens {
		if idx, ok := vectorizer.Vocabulary[token]; ok {
			counts[idx]++
		}
	}

	var norm float64
	for idx := range counts {
		counts[idx] *= vectorizer.IDF[idx]
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

// writeArtifact serializes the artifact as JSON, gzipped when the output
// filename carries a .gz suffix.
func writeArtifact(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		if err := json.NewEncoder(gz).Encode(v); err != nil {
			gz.Close()
			return err
		}
		return gz.Close()
	}

	return json.NewEncoder(f).Encode(v)
}
