// internal/tables/tables.go
package tables

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	cerrors "health-assistant/internal/common/errors"
	"health-assistant/internal/common/logger"
	"health-assistant/internal/common/metrics"
)

const (
	remediesKeyHeader = "DISEASE NAME"
	otcKeyHeader      = "Diseases"

	maxRemedies = 6
	maxOTC      = 4
)

// Table is a read-only disease-keyed lookup table loaded once at startup.
// Keys match case-insensitively with surrounding whitespace trimmed; values
// keep their original column order with empty slots dropped.
type Table struct {
	name      string
	maxValues int
	rows      map[string][]string
}

// Tables bundles the two lookup tables the conversation consumes.
type Tables struct {
	remedies *Table
	otc      *Table
}

// Load reads both lookup tables. A missing or malformed file is fatal.
func Load(remediesPath, otcPath string, log logger.Logger) (*Tables, error) {
	remedies, err := loadTable(remediesPath, "remedies", remediesKeyHeader, maxRemedies)
	if err != nil {
		return nil, err
	}

	otc, err := loadTable(otcPath, "otc", otcKeyHeader, maxOTC)
	if err != nil {
		return nil, err
	}

	log.Info("lookup tables loaded", map[string]interface{}{
		"remedyRows": len(remedies.rows),
		"otcRows":    len(otc.rows),
	})

	return &Tables{remedies: remedies, otc: otc}, nil
}

// RemediesFor returns up to 6 home remedies for the disease, or an empty
// slice when no row matches.
func (t *Tables) RemediesFor(disease string) []string {
	return t.remedies.lookup(disease)
}

// OTCFor returns up to 4 over-the-counter medicines for the disease, or an
// empty slice when no row matches.
func (t *Tables) OTCFor(disease string) []string {
	return t.otc.lookup(disease)
}

func loadTable(path, name, keyHeader string, maxValues int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerrors.NewTableLoadFailedError(path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows may trail off before the last value column

	records, err := reader.ReadAll()
	if err != nil {
		return nil, cerrors.NewTableLoadFailedError(path, err)
	}
	if len(records) == 0 {
		return nil, cerrors.NewTableLoadFailedError(path, fmt.Errorf("file has no header row"))
	}

	header := records[0]
	if len(header) == 0 || strings.TrimSpace(header[0]) != keyHeader {
		return nil, cerrors.NewTableLoadFailedError(path,
			fmt.Errorf("expected key column %q, found %q", keyHeader, strings.Join(header, ",")))
	}

	table := &Table{
		name:      name,
		maxValues: maxValues,
		rows:      make(map[string][]string, len(records)-1),
	}

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		key := normalizeKey(record[0])
		if key == "" {
			continue
		}
		// First row wins on duplicate disease names.
		if _, exists := table.rows[key]; exists {
			continue
		}
		table.rows[key] = collectValues(record, maxValues)
	}

	return table, nil
}

func (t *Table) lookup(disease string) []string {
	values, ok := t.rows[normalizeKey(disease)]
	if !ok {
		metrics.TableLookups.WithLabelValues(t.name, "miss").Inc()
		return []string{}
	}
	metrics.TableLookups.WithLabelValues(t.name, "hit").Inc()
	return values
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// collectValues takes the fixed-position value columns after the key,
// dropping empty slots while keeping column order.
func collectValues(record []string, maxValues int) []string {
	values := make([]string, 0, maxValues)
	for i := 1; i < len(record) && i <= maxValues; i++ {
		value := strings.TrimSpace(record[i])
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}
