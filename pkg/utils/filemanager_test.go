package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
	return path
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "products.json")
	touch(t, dir, "branch.CSV")
	touch(t, dir, "pos.xlsx")

	fm := NewFileManager(dir)

	src, err := fm.Resolve("products.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "products.json"), src.Path)
	assert.Equal(t, FormatJSON, src.Format)
	assert.Equal(t, int64(2), src.Size)

	src, err = fm.Resolve("branch.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, src.Format)

	src, err = fm.Resolve("pos.xlsx#staff")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, src.Format)
	assert.Equal(t, "staff", src.Sheet)
	assert.Equal(t, filepath.Join(dir, "pos.xlsx")+"#staff", src.String())

	src, err = fm.Resolve("pos.xlsx")
	require.NoError(t, err)
	assert.Empty(t, src.Sheet)

	// Absolute paths ignore the data directory.
	other := touch(t, t.TempDir(), "staff.json")
	src, err = fm.Resolve(other)
	require.NoError(t, err)
	assert.Equal(t, other, src.Path)
}

func TestResolveErrors(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "products.json")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	fm := NewFileManager(dir)

	_, err := fm.Resolve("")
	assert.Error(t, err)

	_, err = fm.Resolve("products.txt")
	assert.ErrorContains(t, err, "unsupported source format")

	_, err = fm.Resolve("products.json#sheet")
	assert.ErrorContains(t, err, "only valid for .xlsx")

	_, err = fm.Resolve("missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = fm.Resolve("nested.json")
	assert.ErrorContains(t, err, "is a directory")
}

func TestDiscoverSources(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "staff.json")
	touch(t, dir, "branch.csv")
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.json"), 0o755))

	names, err := NewFileManager(dir).DiscoverSources()
	require.NoError(t, err)
	assert.Equal(t, []string{"branch.csv", "staff.json"}, names)

	_, err = NewFileManager(filepath.Join(dir, "missing")).DiscoverSources()
	assert.Error(t, err)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, FileExists(touch(t, dir, "a.json")))
	assert.False(t, FileExists(filepath.Join(dir, "b.json")))
}
