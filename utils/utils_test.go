package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateExcelWritesHeadersAndRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	name, err := GenerateExcel(dir, "move_in_cards", []string{"Company", "Room"}, [][]interface{}{
		{"Acme", "501"},
		{"Globex", "203"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "move_in_cards_"))
	assert.True(t, strings.HasSuffix(name, ".xlsx"))

	f, err := excelize.OpenFile(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Company", "Room"}, rows[0])
	assert.Equal(t, []string{"Globex", "203"}, rows[2])
}

func TestGenerateExcelNamesAreUnique(t *testing.T) {
	dir := t.TempDir()
	rows := [][]interface{}{{"Acme", "501"}}

	first, err := GenerateExcel(dir, "move_in_cards", []string{"Company", "Room"}, rows)
	require.NoError(t, err)
	second, err := GenerateExcel(dir, "move_in_cards", []string{"Company", "Room"}, rows)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	for _, name := range []string{first, second} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}
}

func TestCleanupExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	oldFile := filepath.Join(dir, "old.xlsx")
	newFile := filepath.Join(dir, "new.xlsx")
	require.NoError(t, os.WriteFile(oldFile, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(newFile, []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	removed, err := CleanupExpiredFiles(dir, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, newFile)
	assert.DirExists(t, filepath.Join(dir, "nested"))
}

func TestCleanupMissingDirectory(t *testing.T) {
	removed, err := CleanupExpiredFiles(filepath.Join(t.TempDir(), "absent"), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRunScheduledCleanupRegistersDailyJob(t *testing.T) {
	c, err := RunScheduledCleanup(t.TempDir(), time.Hour)
	require.NoError(t, err)
	defer c.Stop()

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Next.After(time.Now()))
}

func TestCleanStringForFilename(t *testing.T) {
	tests := map[string]string{
		"move in-cards":   "move_in_cards",
		"report (final)":  "report_final",
		"__report__.xlsx": "report_.xlsx",
		"":                "file",
		"a/b\\c":          "abc",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanStringForFilename(in), in)
	}
}
