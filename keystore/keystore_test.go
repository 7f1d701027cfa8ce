package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkproto/chunkcrypt/identity"
)

func newIdentity(t *testing.T) *identity.Identity {
	t.Helper()
	id, err := identity.GenerateKeypair()
	require.NoError(t, err)
	return id
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	tempDir := t.TempDir()
	fileStore, err := NewFileStore(tempDir)
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}
}

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			id := newIdentity(t)
			passphrase := []byte("correct horse battery staple")

			require.NoError(t, store.Save("agent-1", id, passphrase))
			assert.True(t, store.Exists("agent-1"))

			loaded, err := store.Load("agent-1", passphrase)
			require.NoError(t, err)
			assert.Equal(t, id.SigPK, loaded.SigPK)
			assert.Equal(t, id.SigSK(), loaded.SigSK())
		})
	}
}

func TestStoreWrongPassphraseRejected(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			id := newIdentity(t)
			require.NoError(t, store.Save("agent-2", id, []byte("right-pass")))

			_, err := store.Load("agent-2", []byte("wrong-pass"))
			assert.ErrorIs(t, err, ErrInvalidPassphrase)
		})
	}
}

func TestStoreKeyNotFound(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load("does-not-exist", []byte("x"))
			assert.ErrorIs(t, err, ErrKeyNotFound)
		})
	}
}

func TestStoreEmptyKeyIDRejected(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			id := newIdentity(t)
			assert.ErrorIs(t, store.Save("", id, []byte("x")), ErrInvalidKeyID)
			_, err := store.Load("", []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidKeyID)
			assert.ErrorIs(t, store.Delete(""), ErrInvalidKeyID)
		})
	}
}

func TestStoreDeleteAndList(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			id := newIdentity(t)
			require.NoError(t, store.Save("a", id, []byte("x")))
			require.NoError(t, store.Save("b", id, []byte("x")))

			assert.ElementsMatch(t, []string{"a", "b"}, store.List())

			require.NoError(t, store.Delete("a"))
			assert.False(t, store.Exists("a"))
			assert.ErrorIs(t, store.Delete("a"), ErrKeyNotFound)
			assert.Equal(t, []string{"b"}, store.List())
		})
	}
}

func TestFileStoreWritesWithRestrictedPermissions(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewFileStore(tempDir)
	require.NoError(t, err)

	id := newIdentity(t)
	require.NoError(t, store.Save("perm-check", id, []byte("x")))

	info, err := os.Stat(filepath.Join(tempDir, "perm-check.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
