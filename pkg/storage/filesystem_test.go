package storage

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("2026/08/pay-1.pdf", []byte("%PDF-receipt"))
	require.NoError(t, err)
	assert.Equal(t, "2026/08/pay-1.pdf", rel)

	file, err := store.Open(rel)
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	require.NoError(t, file.Close())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-receipt"), data)

	require.NoError(t, store.Delete(rel))
	_, err = store.Open(rel)
	assert.Error(t, err)

	// Deleting an already-gone file is not an error.
	require.NoError(t, store.Delete(rel))
}

func TestCleanupOlderThanRemovesOnlyAgedFiles(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	old, err := store.Save("2026/01/old.pdf", []byte("old"))
	require.NoError(t, err)
	fresh, err := store.Save("2026/08/fresh.pdf", []byte("fresh"))
	require.NoError(t, err)

	aged := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path(old), aged, aged))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{old}, deleted)

	_, err = store.Open(old)
	assert.Error(t, err)
	file, err := store.Open(fresh)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}
