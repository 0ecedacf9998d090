package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	content := "\ufeffage, sex ,DEATH_EVENT\n60,1,1\n\n45, 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := NewReader(path).Read()
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "sex", "DEATH_EVENT"}, table.Headers)
	assert.Equal(t, [][]string{{"60", "1", "1"}, {"45", "0", ""}}, table.Records)
	assert.NotZero(t, table.Checksum)
}

func TestReadCSVChecksumTracksContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(a, []byte("age\n60\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("age\n61\n"), 0o644))

	ta, err := NewReader(a).Read()
	require.NoError(t, err)
	tb, err := NewReader(b).Read()
	require.NoError(t, err)
	assert.NotEqual(t, ta.Checksum, tb.Checksum)
}

func TestReadExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"age", "sex", "DEATH_EVENT"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{75, 1, 1}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{50, 0, 0}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := NewReader(path).Read()
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "sex", "DEATH_EVENT"}, table.Headers)
	assert.Equal(t, [][]string{{"75", "1", "1"}, {"50", "0", "0"}}, table.Records)
}

func TestReadRejectsHeaderOnlyAndMissingFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("age,sex\n"), 0o644))

	_, err := NewReader(path).Read()
	assert.ErrorContains(t, err, "at least a header row")

	_, err = NewReader(filepath.Join(t.TempDir(), "missing.csv")).Read()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
