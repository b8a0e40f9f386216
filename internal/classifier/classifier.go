// internal/classifier/classifier.go
package classifier

import (
	"errors"
	"regexp"

	"health-assistant/internal/artifact"
	"health-assistant/internal/common/logger"
	"health-assistant/internal/common/metrics"
)

var (
	// ErrNumericInput rejects symptom text composed entirely of digits.
	ErrNumericInput = errors.New("INVALID_SYMPTOM_INPUT")
	// ErrNoTextLabel means the model produced predictions but none was a text label.
	ErrNoTextLabel = errors.New("NO_TEXT_LABEL")
	// ErrNoPrediction means the model produced no predictions at all.
	ErrNoPrediction = errors.New("NO_PREDICTION")
)

var numericOnly = regexp.MustCompile(`^\d+$`)

// Classifier wraps the vectorizer and model into a single free-text to
// disease-label operation.
type Classifier struct {
	vectorizer *Vectorizer
	model      *Model
	logger     logger.Logger
}

func New(model *artifact.ModelArtifact, vectorizer *artifact.VectorizerArtifact, log logger.Logger) *Classifier {
	return &Classifier{
		vectorizer: NewVectorizer(vectorizer),
		model:      NewModel(model),
		logger: log.WithFields(map[string]interface{}{
			"component": "classifier",
		}),
	}
}

// Classify validates and classifies the symptom text, returning the working
// diagnosis. The first predicted label that is textual (not all digits) wins;
// class labels imported from spreadsheet rows can be bare numbers, and those
// never count as a diagnosis.
func (c *Classifier) Classify(text string) (string, error) {
	if numericOnly.MatchString(text) {
		metrics.Classifications.WithLabelValues("rejected_numeric").Inc()
		return "", ErrNumericInput
	}

	predictions := c.model.Predict(c.vectorizer.Transform(text))
	if len(predictions) == 0 {
		metrics.Classifications.WithLabelValues("no_prediction").Inc()
		c.logger.Warn("no prediction for input", map[string]interface{}{
			"inputLength": len(text),
		})
		return "", ErrNoPrediction
	}

	for _, label := range predictions {
		if isTextLabel(label) {
			metrics.Classifications.WithLabelValues("diagnosed").Inc()
			c.logger.Info("classified symptoms", map[string]interface{}{
				"disease": label,
			})
			return label, nil
		}
	}

	metrics.Classifications.WithLabelValues("no_text_label").Inc()
	return "", ErrNoTextLabel
}

func isTextLabel(label string) bool {
	return label != "" && !numericOnly.MatchString(label)
}
