package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memsearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "db")
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(tmpDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0644))

	_, err := OpenBackend(tmpFile, false)
	assert.Error(t, err)
}

func TestOpenBackend_NilLogger(t *testing.T) {
	backend, err := OpenBackend("", true, WithLogger(nil))
	require.NoError(t, err)
	defer backend.Close()
	assert.NotNil(t, backend.logger)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestBackend_UseAfterClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	called := false
	err = backend.WithTx(func(tx *badger.Txn) error {
		called = true
		return nil
	}, false)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.False(t, called)

	assert.ErrorIs(t, backend.DropPrefix([]byte("x")), storage.ErrStorageClosed)
}

func TestBackend_DropPrefix(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	wb := backend.NewWriteBatch()
	require.NoError(t, wb.Set([]byte("a:1"), []byte("one")))
	require.NoError(t, wb.Set([]byte("a:2"), []byte("two")))
	require.NoError(t, wb.Set([]byte("b:1"), []byte("three")))
	require.NoError(t, wb.Flush())

	require.NoError(t, backend.DropPrefix([]byte("a:")))

	err = backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("a:1"))
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
		_, err = tx.Get([]byte("b:1"))
		assert.NoError(t, err)
		return nil
	}, false)
	require.NoError(t, err)
}

func TestMakeSnapshotPageKey_Ordering(t *testing.T) {
	prefix := makeSnapshotPagesPrefix("img")
	k1 := makeSnapshotPageKey("img", 1)
	k256 := makeSnapshotPageKey("img", 256)

	assert.Equal(t, prefix, k1[:len(prefix)])
	assert.Less(t, string(k1), string(k256))
	assert.NotEqual(t, string(makeSnapshotPagesPrefix("im")), string(prefix[:len(prefix)-1]))
}
