package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/issuematch/storage"
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
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := OpenBackend(path, false)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	err = backend.WithTx(func(tx *badger.Txn) error { return nil }, false)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestBackend_DeletePrefix(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range []string{"a:1", "a:2", "b:1"} {
			if err := tx.Set([]byte(key), []byte("v")); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	deleted, err := backend.DeletePrefix([]byte("a:"))
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	deleted, err = backend.DeletePrefix([]byte("a:"))
	require.NoError(t, err)
	assert.Zero(t, deleted)

	err = backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("b:1"))
		return err
	}, false)
	assert.NoError(t, err)
}

func TestDocumentKeys(t *testing.T) {
	key := makeDocumentKey("industry", 0x0102030405060708)

	namespace, id, ok := parseDocumentKey(key)
	require.True(t, ok)
	assert.Equal(t, "industry", namespace)
	assert.EqualValues(t, 0x0102030405060708, id)

	_, _, ok = parseDocumentKey([]byte("docrec:industry:short"))
	assert.False(t, ok)
	_, _, ok = parseDocumentKey([]byte("other:industry:12345678"))
	assert.False(t, ok)
}

func TestDocumentKeys_OrderFollowsID(t *testing.T) {
	low := makeDocumentKey("industry", 255)
	high := makeDocumentKey("industry", 256)
	assert.Less(t, string(low), string(high))
}
