// Package identity derives and holds the long-term Ed25519 signing
// identity: a deterministic seed from a passphrase via Argon2id, the
// keypair derived from that seed, and the random-generation fallback.
// Grounded on the teacher's crypto/keys/ed25519.go generation pattern,
// narrowed to the single key type the spec needs and wired through
// primitives and internal/secretbuf for the KDF and zeroization.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/chunkproto/chunkcrypt/chunkerr"
	"github.com/chunkproto/chunkcrypt/internal/secretbuf"
	"github.com/chunkproto/chunkcrypt/primitives"
)

// SeedLen and SaltLen are the spec's SEED and KDF_SALT sizes.
const (
	SeedLen = 32
	SaltLen = 16

	// PassphraseMax bounds derive-seed input; Argon2id in this module has
	// no published hard limit below uint32 byte counts, but the spec
	// requires a rejectable ceiling to keep the KDF call well-formed.
	PassphraseMax = 4096
)

// Identity is a long-lived Ed25519 signing keypair. The secret half lives
// in a secretbuf.Buffer; callers must call Zeroize when the identity is no
// longer needed.
type Identity struct {
	SigPK [primitives.SigPKLen]byte
	sigSK *secretbuf.Buffer
}

// SigSK returns the 64-byte Ed25519 secret key. The returned slice aliases
// the Identity's internal buffer and must not be retained past Zeroize.
func (id *Identity) SigSK() []byte {
	return id.sigSK.Bytes()
}

// Zeroize wipes the secret key material.
func (id *Identity) Zeroize() {
	id.sigSK.Wipe()
}

// DeriveSeed derives a 32-byte seed from (passphrase, salt) via Argon2id
// using the fixed INTERACTIVE parameters (spec.md §4.1, §4.2).
func DeriveSeed(passphrase, salt []byte) (*secretbuf.Buffer, error) {
	if len(passphrase) == 0 || len(passphrase) > PassphraseMax {
		return nil, fmt.Errorf("%w: length %d", chunkerr.ErrPassphraseOutOfRange, len(passphrase))
	}
	if len(salt) != SaltLen {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", chunkerr.ErrPrimitive, SaltLen, len(salt))
	}
	out := primitives.KDFArgon2id(passphrase, salt, SeedLen)
	return secretbuf.NewFrom(out), nil
}

// KeypairFromSeed derives an Ed25519 keypair deterministically from a
// 32-byte seed.
func KeypairFromSeed(seed []byte) (*Identity, error) {
	if len(seed) != SeedLen {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", chunkerr.ErrPrimitive, SeedLen, len(seed))
	}
	sk := ed25519.NewKeyFromSeed(seed)
	id := &Identity{sigSK: secretbuf.NewFrom(sk)}
	copy(id.SigPK[:], sk.Public().(ed25519.PublicKey))
	return id, nil
}

// KeypairFromSecretKey recovers the 32-byte public key from the trailing
// half of a 64-byte Ed25519 secret-key encoding, a format property of the
// key layout rather than a computation (spec.md §4.2).
func KeypairFromSecretKey(sk []byte) ([primitives.SigPKLen]byte, error) {
	var out [primitives.SigPKLen]byte
	if len(sk) != primitives.SigSKLen {
		return out, fmt.Errorf("%w: secret key must be %d bytes, got %d", chunkerr.ErrPrimitive, primitives.SigSKLen, len(sk))
	}
	copy(out[:], ed25519.PrivateKey(sk).Public().(ed25519.PublicKey))
	return out, nil
}

// GenerateKeypair draws a fresh random Ed25519 identity from the platform
// CSPRNG.
func GenerateKeypair() (*Identity, error) {
	pub, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chunkerr.ErrPrimitive, err)
	}
	id := &Identity{sigSK: secretbuf.NewFrom(sk)}
	copy(id.SigPK[:], pub)
	return id, nil
}

// FromSecretKey builds an Identity from an existing 64-byte Ed25519 secret
// key, recovering the public half from its trailing bytes.
func FromSecretKey(sk []byte) (*Identity, error) {
	pk, err := KeypairFromSecretKey(sk)
	if err != nil {
		return nil, err
	}
	return &Identity{SigPK: pk, sigSK: secretbuf.NewFrom(sk)}, nil
}

// Sign produces a detached signature over msg using this identity's secret
// key.
func (id *Identity) Sign(msg []byte) ([primitives.SigLen]byte, error) {
	return primitives.Ed25519Sign(id.sigSK.Bytes(), msg)
}

// Verify checks a detached signature against this identity's public key.
func (id *Identity) Verify(msg, sig []byte) bool {
	return primitives.Ed25519Verify(id.SigPK[:], msg, sig)
}
