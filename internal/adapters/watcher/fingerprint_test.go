package watcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/craft/internal/adapters/watcher"
	"go.trai.ch/craft/internal/core/domain"
)

func TestFingerprint_StableForSameContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  build: {command: echo}\n"), domain.FilePerm))

	first, err := watcher.Fingerprint(path)
	require.NoError(t, err)

	second, err := watcher.Fingerprint(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  build: {command: echo}\n"), domain.FilePerm))

	before, err := watcher.Fingerprint(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  test: {command: echo}\n"), domain.FilePerm))

	after, err := watcher.Fingerprint(path)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestFingerprint_MissingFile(t *testing.T) {
	_, err := watcher.Fingerprint(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
