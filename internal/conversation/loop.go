// internal/conversation/loop.go
package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"health-assistant/internal/classifier"
	"health-assistant/internal/common/logger"
	"health-assistant/internal/common/metrics"
	"health-assistant/internal/common/observability"
	"health-assistant/internal/geo"
)

// State names the stages of a conversation session.
type State string

const (
	StateAwaitSymptom   State = "AWAIT_SYMPTOM"
	StateDiagnosed      State = "DIAGNOSED"
	StateAwaitOTCChoice State = "AWAIT_OTC_CHOICE"
	StateAwaitLocation  State = "AWAIT_LOCATION"
	StateDone           State = "DONE"
)

// Diagnoser classifies free-text symptoms into a disease label.
type Diagnoser interface {
	Classify(text string) (string, error)
}

// LookupTables serves the remedy and OTC lists for a diagnosed disease.
type LookupTables interface {
	RemediesFor(disease string) []string
	OTCFor(disease string) []string
}

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geo.Coordinates, error)
}

// ServicesReporter writes a nearby medical services report for coordinates.
type ServicesReporter interface {
	ReportNearby(ctx context.Context, coords *geo.Coordinates, w io.Writer) error
}

// Defaults are the values substituted when console input is exhausted.
type Defaults struct {
	Symptom  string
	Location string
}

// Loop drives a single triage session through its states. It owns no shared
// state; main runs it on a background goroutine while the liveness server
// holds the main goroutine.
type Loop struct {
	diagnoser Diagnoser
	tables    LookupTables
	geocoder  Geocoder
	services  ServicesReporter
	prompter  *Prompter
	out       io.Writer
	defaults  Defaults
	obs       *observability.Observability
	logger    logger.Logger
}

func NewLoop(
	diagnoser Diagnoser,
	tables LookupTables,
	geocoder Geocoder,
	services ServicesReporter,
	prompter *Prompter,
	out io.Writer,
	defaults Defaults,
	obs *observability.Observability,
	log logger.Logger,
) *Loop {
	return &Loop{
		diagnoser: diagnoser,
		tables:    tables,
		geocoder:  geocoder,
		services:  services,
		prompter:  prompter,
		out:       out,
		defaults:  defaults,
		obs:       obs,
		logger: log.WithFields(map[string]interface{}{
			"component": "conversation",
			"sessionId": uuid.New().String(),
		}),
	}
}

// Run executes one session end to end and returns when the session is done.
// There is no session restart.
func (l *Loop) Run(ctx context.Context) {
	started := time.Now()
	metrics.SessionsStarted.Inc()
	l.logger.Info("session started", nil)

	fmt.Fprintln(l.out, "Hello! I am your health assistant.")

	disease, ok := l.awaitSymptom(ctx)
	if !ok {
		l.finish(ctx, started, "abandoned")
		return
	}

	l.diagnosed(ctx, disease)
	l.awaitOTCChoice(ctx, disease)
	l.awaitLocation(ctx)

	metrics.SessionsCompleted.Inc()
	l.finish(ctx, started, "completed")
}

// awaitSymptom prompts until a non-numeric input yields a text-label
// diagnosis. Exhausted input breaks the retry cycle once the substituted
// default itself fails to classify.
func (l *Loop) awaitSymptom(ctx context.Context) (string, bool) {
	l.recordStage(ctx, StateAwaitSymptom)

	for {
		input := l.prompter.Prompt("Please tell me your symptoms (e.g., headache, fever, etc.): ", l.defaults.Symptom)

		disease, err := l.diagnoser.Classify(input)
		if err == nil {
			return disease, true
		}

		switch {
		case errors.Is(err, classifier.ErrNumericInput):
			fmt.Fprintln(l.out, "Invalid input! Please enter valid symptoms (not numbers).")
		case errors.Is(err, classifier.ErrNoTextLabel):
			fmt.Fprintln(l.out, "Invalid input! Please enter recognizable symptoms.")
		default:
			fmt.Fprintln(l.out, "I couldn't recognize those symptoms. Please try again.")
		}

		if l.prompter.Exhausted() {
			l.logger.Warn("input exhausted before a valid symptom", nil)
			return "", false
		}
	}
}

func (l *Loop) diagnosed(ctx context.Context, disease string) {
	l.recordStage(ctx, StateDiagnosed)
	fmt.Fprintf(l.out, "I think you might have %s.\n", disease)

	remedies := l.tables.RemediesFor(disease)
	if len(remedies) > 0 {
		fmt.Fprintln(l.out, "Here are some home remedies:")
		for _, remedy := range remedies {
			fmt.Fprintf(l.out, "- %s\n", remedy)
		}
	} else {
		fmt.Fprintln(l.out, "No home remedies found for this disease.")
	}
}

// awaitOTCChoice asks yes/no. An invalid reply prints a message and the
// session still advances; only "yes" triggers the OTC lookup.
func (l *Loop) awaitOTCChoice(ctx context.Context, disease string) {
	l.recordStage(ctx, StateAwaitOTCChoice)

	choice := strings.ToLower(l.prompter.Prompt("Do you want to know about OTC medicines for this? (yes/no): ", "no"))

	switch choice {
	case "yes":
		otcMedicines := l.tables.OTCFor(disease)
		if len(otcMedicines) > 0 {
			fmt.Fprintln(l.out, "Here are some OTC medicines you can try:")
			for _, otc := range otcMedicines {
				fmt.Fprintf(l.out, "- %s\n", otc)
			}
		} else {
			fmt.Fprintln(l.out, "No OTC medicines found.")
		}
	case "no":
		fmt.Fprintln(l.out, "No OTC medicines will be displayed.")
	default:
		fmt.Fprintln(l.out, "Invalid input. Please enter 'yes' or 'no'.")
	}
}

// awaitLocation geocodes the user's address and, only on success, runs the
// nearby-services report.
func (l *Loop) awaitLocation(ctx context.Context) {
	l.recordStage(ctx, StateAwaitLocation)

	location := l.prompter.Prompt("Please provide your address or city for nearby medical services: ", l.defaults.Location)

	coords, err := l.geocoder.Geocode(ctx, location)
	if err != nil {
		l.logger.Warn("geocoding failed", map[string]interface{}{
			"location": location,
			"error":    err.Error(),
		})
		fmt.Fprintln(l.out, "Sorry, I couldn't find that location. Please try again.")
		return
	}

	if err := l.services.ReportNearby(ctx, coords, l.out); err != nil {
		l.logger.Warn("nearby services report incomplete", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (l *Loop) finish(ctx context.Context, started time.Time, status string) {
	l.recordStage(ctx, StateDone)
	if l.obs != nil {
		l.obs.RecordSessionDuration(ctx, time.Since(started), status)
	}
	l.logger.Info("session finished", map[string]interface{}{
		"status": status,
	})
}

func (l *Loop) recordStage(ctx context.Context, state State) {
	if l.obs != nil {
		l.obs.RecordStage(ctx, string(state))
	}
}
