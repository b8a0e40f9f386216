package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-assistant/internal/common/logger"
)

const remediesCSV = `DISEASE NAME,HOMEREMEDY1,HOMEREMEDY2,HOMEREMEDY3,HOMEREMEDY4,HOMEREMEDY5,HOMEREMEDY6
Migraine,Rest in a dark quiet room,Apply a cold compress,Stay hydrated,,,
Fever,Drink plenty of fluids,Rest,Cool damp cloth,Lukewarm bath,Light clothing,Ginger tea
Fever,Duplicate row should lose,,,,,
 Cough ,Honey with warm water,,Inhale steam,,,
`

const otcCSV = `Diseases,OTC1,OTC2,OTC3,OTC4
Migraine,Ibuprofen,Aspirin,Naproxen,Excedrin Migraine
Fever,Paracetamol,Ibuprofen,,
`

func writeTables(t *testing.T) *Tables {
	t.Helper()
	dir := t.TempDir()
	remediesPath := filepath.Join(dir, "REMEDIES.csv")
	otcPath := filepath.Join(dir, "OTC.csv")
	require.NoError(t, os.WriteFile(remediesPath, []byte(remediesCSV), 0o644))
	require.NoError(t, os.WriteFile(otcPath, []byte(otcCSV), 0o644))

	tbls, err := Load(remediesPath, otcPath, logger.NewTestLogger(t))
	require.NoError(t, err)
	return tbls
}

func TestRemediesFor_ExactMatch(t *testing.T) {
	tbls := writeTables(t)

	remedies := tbls.RemediesFor("Migraine")

	assert.Equal(t, []string{"Rest in a dark quiet room", "Apply a cold compress", "Stay hydrated"}, remedies)
}

func TestRemediesFor_CaseAndWhitespaceInsensitive(t *testing.T) {
	tbls := writeTables(t)

	expected := tbls.RemediesFor("Fever")
	require.NotEmpty(t, expected)

	assert.Equal(t, expected, tbls.RemediesFor("fever"))
	assert.Equal(t, expected, tbls.RemediesFor("FEVER"))
	assert.Equal(t, expected, tbls.RemediesFor(" fever "))
}

func TestRemediesFor_UnknownDiseaseReturnsEmpty(t *testing.T) {
	tbls := writeTables(t)

	remedies := tbls.RemediesFor("Dragon Pox")

	assert.NotNil(t, remedies)
	assert.Empty(t, remedies)
}

func TestRemediesFor_FirstRowWinsOnDuplicates(t *testing.T) {
	tbls := writeTables(t)

	remedies := tbls.RemediesFor("fever")

	require.NotEmpty(t, remedies)
	assert.Equal(t, "Drink plenty of fluids", remedies[0])
	assert.Len(t, remedies, 6)
}

func TestRemediesFor_EmptySlotsDroppedKeepingOrder(t *testing.T) {
	tbls := writeTables(t)

	remedies := tbls.RemediesFor("cough")

	assert.Equal(t, []string{"Honey with warm water", "Inhale steam"}, remedies)
}

func TestOTCFor_CapsAtFourEntries(t *testing.T) {
	tbls := writeTables(t)

	otc := tbls.OTCFor("migraine")

	assert.Equal(t, []string{"Ibuprofen", "Aspirin", "Naproxen", "Excedrin Migraine"}, otc)
}

func TestOTCFor_UnknownDiseaseReturnsEmpty(t *testing.T) {
	tbls := writeTables(t)

	assert.Empty(t, tbls.OTCFor("Dragon Pox"))
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	otcPath := filepath.Join(dir, "OTC.csv")
	require.NoError(t, os.WriteFile(otcPath, []byte(otcCSV), 0o644))

	_, err := Load(filepath.Join(dir, "absent.csv"), otcPath, logger.NewTestLogger(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TABLE_LOAD_FAILED")
}

func TestLoad_WrongKeyHeaderIsFatal(t *testing.T) {
	dir := t.TempDir()
	remediesPath := filepath.Join(dir, "REMEDIES.csv")
	otcPath := filepath.Join(dir, "OTC.csv")
	require.NoError(t, os.WriteFile(remediesPath, []byte("Condition,R1\nFever,Rest\n"), 0o644))
	require.NoError(t, os.WriteFile(otcPath, []byte(otcCSV), 0o644))

	_, err := Load(remediesPath, otcPath, logger.NewTestLogger(t))

	assert.Error(t, err)
}
