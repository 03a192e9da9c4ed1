package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImport(t *testing.T, dir string, names ...string) string {
	t.Helper()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(importDir, n), []byte("data "+n), 0o644))
	}
	return importDir
}

func TestScan_FindsSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeImport(t, dir, "feb.csv", "mar.XLSX", "apr.xls", "notes.pdf", "readme.md", ".gitkeep", "may.html")

	files, err := Scan(dir, nil)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"apr.xls", "feb.csv", "mar.XLSX", "may.html"}, names)
	assert.Equal(t, int64(len("data feb.csv")), files[1].Size)
}

func TestScan_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeImport(t, dir, "feb.csv", "mar.xlsx", "apr.txt")

	files, err := Scan(dir, []string{".TXT"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "apr.txt", files[0].Name)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := writeImport(t, dir, "new.csv")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir, nil)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	files, err := Scan(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeImport(t, dir, "feb.xlsx", "mar.csv")

	files, err := Scan(dir, nil)
	require.NoError(t, err)

	uploads, err := LoadAll(files)
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, "feb.xlsx", uploads[0].Name)
	assert.Equal(t, "xlsx", uploads[0].ExtHint())
	assert.Equal(t, []byte("data feb.xlsx"), uploads[0].Data)

	_, err = Load(FileInfo{Name: "gone.csv", Path: filepath.Join(dir, "gone.csv")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := writeImport(t, dir, "tb.xlsx")

	require.NoError(t, MarkProcessed(dir, "tb.xlsx"))

	// Source gone.
	_, err := os.Stat(filepath.Join(importDir, "tb.xlsx"))
	assert.True(t, os.IsNotExist(err))

	// Destination exists.
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "tb.xlsx"))
	assert.NoError(t, err)
}

func TestMarkProcessed_CreatesDir(t *testing.T) {
	dir := t.TempDir()
	writeImport(t, dir, "a.csv")

	require.NoError(t, MarkProcessed(dir, "a.csv"))

	info, err := os.Stat(filepath.Join(dir, "import", "processed"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMarkProcessed_Missing(t *testing.T) {
	dir := t.TempDir()
	writeImport(t, dir)
	assert.Error(t, MarkProcessed(dir, "nope.csv"))
}
