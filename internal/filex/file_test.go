package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubDir("staging")
	require.NoError(t, err)

	want := filepath.Join(tmp, "staging")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubDir("staging")
	require.NoError(t, err)

	second, err := EnsureSubDir("staging")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestRemoveIfExists_RemovesFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "avatar.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	require.NoError(t, RemoveIfExists(path))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestRemoveIfExists_MissingFileIsNoError(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, RemoveIfExists(filepath.Join(tmp, "gone.png")))
}

func TestRemoveIfExists_EmptyPathIsNoError(t *testing.T) {
	require.NoError(t, RemoveIfExists(""))
}
