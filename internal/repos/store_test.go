package repos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRepo(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(filepath.Join(path, ".git"), 0755))
	return path
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "repositories.json"))
}

func TestLoadMissingFileYieldsEmptyList(t *testing.T) {
	paths, err := testStore(t).Load()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestAddAndLoadPreservesOrder(t *testing.T) {
	store := testStore(t)
	first := makeRepo(t, "dotfiles")
	second := makeRepo(t, "scripts")

	_, err := store.Add(first)
	require.NoError(t, err)
	_, err = store.Add(second)
	require.NoError(t, err)

	paths, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, paths)
}

func TestAddRejectsNonRepo(t *testing.T) {
	store := testStore(t)
	plain := t.TempDir()

	_, err := store.Add(plain)
	assert.ErrorIs(t, err, ErrNotARepo)

	_, err = store.Add(filepath.Join(plain, "missing"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestAddDuplicate(t *testing.T) {
	store := testStore(t)
	repo := makeRepo(t, "dotfiles")

	_, err := store.Add(repo)
	require.NoError(t, err)

	_, err = store.Add(repo)
	assert.ErrorIs(t, err, ErrAlreadyTracked)

	paths, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestRemove(t *testing.T) {
	store := testStore(t)
	keep := makeRepo(t, "keep")
	drop := makeRepo(t, "drop")

	_, err := store.Add(keep)
	require.NoError(t, err)
	_, err = store.Add(drop)
	require.NoError(t, err)

	_, err = store.Remove(drop)
	require.NoError(t, err)

	paths, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, paths)

	_, err = store.Remove(drop)
	assert.ErrorIs(t, err, ErrNotTracked)
}

func TestNormalizePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	normalized, err := NormalizePath("~/projects/dotfiles")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "projects", "dotfiles"), normalized)
}

func TestNormalizePathCleansRelative(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	normalized, err := NormalizePath("./x/../y")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "y"), normalized)
}

func TestValidateRepoRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.ErrorIs(t, ValidateRepo(file), ErrPathNotFound)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Dotfiles", DisplayName("/home/user/dotfiles"))
	assert.Equal(t, "My-scripts", DisplayName("/opt/my-scripts"))
}
