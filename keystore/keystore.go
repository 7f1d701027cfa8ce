// Package keystore implements passphrase-encrypted at-rest storage for
// Ed25519 identities, grounded on the teacher's crypto/vault FileVault/
// MemoryVault pair (pkg/agent/crypto/vault/secure_storage.go) but swapping
// its AES-256-GCM/PBKDF2 stack for this module's own primitives: Argon2id
// key derivation and ChaCha20-Poly1305 sealing, the same stack identity
// and envelope already use.
package keystore

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chunkproto/chunkcrypt/chunkerr"
	"github.com/chunkproto/chunkcrypt/identity"
	"github.com/chunkproto/chunkcrypt/internal/secretbuf"
	"github.com/chunkproto/chunkcrypt/primitives"
)

var (
	ErrKeyNotFound       = errors.New("keystore: key not found")
	ErrInvalidPassphrase = errors.New("keystore: invalid passphrase")
	ErrInvalidKeyID      = errors.New("keystore: invalid key ID")
)

// Store is the interface chunkcrypt's CLI and higher-level callers use to
// persist identities. Both implementations below satisfy it.
type Store interface {
	Save(keyID string, id *identity.Identity, passphrase []byte) error
	Load(keyID string, passphrase []byte) (*identity.Identity, error)
	Delete(keyID string) error
	Exists(keyID string) bool
	List() []string
}

// record is the on-disk/in-memory encrypted envelope for one identity's
// 64-byte Ed25519 secret key.
type record struct {
	Version    int       `json:"version"`
	KeyID      string    `json:"key_id"`
	Salt       string    `json:"salt"`  // base64, identity.SaltLen bytes, Argon2id input
	Nonce      string    `json:"nonce"` // base64, primitives.AEADNonceLen bytes
	Ciphertext string    `json:"ciphertext"`
	CreatedAt  time.Time `json:"created_at"`
}

const recordVersion = 1

func seal(sk []byte, keyID string, passphrase []byte) (record, error) {
	salt := make([]byte, identity.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return record{}, fmt.Errorf("%w: generating salt: %v", chunkerr.ErrPrimitive, err)
	}

	seed, err := identity.DeriveSeed(passphrase, salt)
	if err != nil {
		return record{}, err
	}
	defer seed.Wipe()

	var key [primitives.AEADKeyLen]byte
	copy(key[:], seed.Bytes())

	var nonce [primitives.AEADNonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return record{}, fmt.Errorf("%w: generating nonce: %v", chunkerr.ErrPrimitive, err)
	}

	ciphertext, err := primitives.AEADEncrypt(key, nonce, sk, []byte(keyID))
	if err != nil {
		return record{}, err
	}

	return record{
		Version:    recordVersion,
		KeyID:      keyID,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce[:]),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		CreatedAt:  time.Now(),
	}, nil
}

func open(r record, passphrase []byte) (*identity.Identity, error) {
	if r.Version != recordVersion {
		return nil, fmt.Errorf("%w: %d", chunkerr.ErrUnknownSchemaVersion, r.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(r.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding salt: %v", chunkerr.ErrPrimitive, err)
	}
	nonceBytes, err := base64.StdEncoding.DecodeString(r.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding nonce: %v", chunkerr.ErrPrimitive, err)
	}
	if len(nonceBytes) != primitives.AEADNonceLen {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", chunkerr.ErrPrimitive, len(nonceBytes), primitives.AEADNonceLen)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(r.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding ciphertext: %v", chunkerr.ErrPrimitive, err)
	}

	seed, err := identity.DeriveSeed(passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer seed.Wipe()

	var key [primitives.AEADKeyLen]byte
	copy(key[:], seed.Bytes())
	var nonce [primitives.AEADNonceLen]byte
	copy(nonce[:], nonceBytes)

	sk, err := primitives.AEADDecrypt(key, nonce, ciphertext, []byte(r.KeyID))
	if err != nil {
		return nil, ErrInvalidPassphrase
	}
	skBuf := secretbuf.NewFrom(sk)
	defer skBuf.Wipe()

	return identity.FromSecretKey(skBuf.Bytes())
}

// MemoryStore is a non-persistent Store, primarily useful for tests and
// short-lived processes that never write identities to disk.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]record)}
}

func (m *MemoryStore) Save(keyID string, id *identity.Identity, passphrase []byte) error {
	if keyID == "" {
		return ErrInvalidKeyID
	}
	r, err := seal(id.SigSK(), keyID, passphrase)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[keyID] = r
	return nil
}

func (m *MemoryStore) Load(keyID string, passphrase []byte) (*identity.Identity, error) {
	if keyID == "" {
		return nil, ErrInvalidKeyID
	}
	m.mu.RLock()
	r, ok := m.records[keyID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrKeyNotFound
	}
	return open(r, passphrase)
}

func (m *MemoryStore) Delete(keyID string) error {
	if keyID == "" {
		return ErrInvalidKeyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[keyID]; !ok {
		return ErrKeyNotFound
	}
	delete(m.records, keyID)
	return nil
}

func (m *MemoryStore) Exists(keyID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[keyID]
	return ok
}

func (m *MemoryStore) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	return keys
}

// FileStore persists each identity as one JSON-encoded record file under a
// base directory, written with 0600 permissions.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("keystore: creating %s: %w", baseDir, err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (f *FileStore) path(keyID string) string {
	safe := filepath.Base(keyID)
	return filepath.Join(f.baseDir, safe+".json")
}

func (f *FileStore) Save(keyID string, id *identity.Identity, passphrase []byte) error {
	if keyID == "" {
		return ErrInvalidKeyID
	}
	r, err := seal(id.SigSK(), keyID, passphrase)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("keystore: marshaling record: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return os.WriteFile(f.path(keyID), data, 0600)
}

func (f *FileStore) Load(keyID string, passphrase []byte) (*identity.Identity, error) {
	if keyID == "" {
		return nil, ErrInvalidKeyID
	}

	f.mu.RLock()
	data, err := os.ReadFile(f.path(keyID))
	f.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("keystore: reading %s: %w", keyID, err)
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("keystore: unmarshaling %s: %w", keyID, err)
	}
	return open(r, passphrase)
}

func (f *FileStore) Delete(keyID string) error {
	if keyID == "" {
		return ErrInvalidKeyID
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(keyID)); err != nil {
		if os.IsNotExist(err) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("keystore: deleting %s: %w", keyID, err)
	}
	return nil
}

func (f *FileStore) Exists(keyID string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, err := os.Stat(f.path(keyID))
	return err == nil
}

func (f *FileStore) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		return nil
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		keys = append(keys, e.Name()[:len(e.Name())-len(".json")])
	}
	return keys
}
