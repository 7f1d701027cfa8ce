// Package primitives is the thin, typed adaptor over the cryptographic
// primitives the core is built from: SHA-512, Ed25519 sign/verify, the
// Ed25519<->X25519 conversions, X25519 scalar multiplication, the
// directional kx session-key derivation, ChaCha20-Poly1305 IETF AEAD, and
// the Argon2id KDF. The envelope, merkle and keystore packages call through
// here for these operations; identity, frame and keyformats also use
// crypto/ed25519 directly for key generation and key encoding.
package primitives

import (
	"crypto/ed25519"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/chunkproto/chunkcrypt/chunkerr"
)

// Fixed sizes from the wire format (spec.md §3).
const (
	SigPKLen      = ed25519.PublicKeySize
	SigSKLen      = ed25519.PrivateKeySize
	SigLen        = ed25519.SignatureSize
	KXKeyLen      = 32
	SessionKeyLen = 32
	AEADKeyLen    = chacha20poly1305.KeySize
	AEADNonceLen  = chacha20poly1305.NonceSize
	AEADTagLen    = chacha20poly1305.Overhead
	HashLen       = sha512.Size
)

// SHA512 returns the 64-byte SHA-512 digest of data.
func SHA512(data []byte) [HashLen]byte {
	return sha512.Sum512(data)
}

// ConstantTimeEqual reports whether a and b are equal using a constant-time
// comparison, per spec.md §7's requirement for every secret-dependent
// equality test (tags, roots, and signatures).
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Ed25519Sign produces a detached signature over msg using the full
// 64-byte Ed25519 secret key.
func Ed25519Sign(sk []byte, msg []byte) ([SigLen]byte, error) {
	var out [SigLen]byte
	if len(sk) != SigSKLen {
		return out, fmt.Errorf("%w: ed25519 secret key must be %d bytes, got %d", chunkerr.ErrPrimitive, SigSKLen, len(sk))
	}
	sig := ed25519.Sign(ed25519.PrivateKey(sk), msg)
	copy(out[:], sig)
	return out, nil
}

// Ed25519Verify checks a detached signature against pk. It never returns an
// error for a bad signature; callers compare the bool against
// chunkerr.ErrAuthFailure/ErrBadSignature as appropriate to their context.
func Ed25519Verify(pk []byte, msg, sig []byte) bool {
	if len(pk) != SigPKLen || len(sig) != SigLen {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pk), msg, sig)
}

// Ed25519PrivateKeyToX25519 converts the seed half of a 64-byte Ed25519
// secret key into a clamped X25519 scalar, per RFC 8032 §5.1.5.
func Ed25519PrivateKeyToX25519(sk []byte) ([KXKeyLen]byte, error) {
	var out [KXKeyLen]byte
	if len(sk) != SigSKLen {
		return out, fmt.Errorf("%w: ed25519 secret key must be %d bytes, got %d", chunkerr.ErrPrimitive, SigSKLen, len(sk))
	}
	seed := ed25519.PrivateKey(sk).Seed()
	h := sha512.Sum512(seed)
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64
	copy(out[:], h[:32])
	return out, nil
}

// Ed25519PublicKeyToX25519 converts an Ed25519 public key to its Montgomery
// (X25519) form by decompressing the Edwards point and taking its u
// coordinate.
func Ed25519PublicKeyToX25519(pk []byte) ([KXKeyLen]byte, error) {
	var out [KXKeyLen]byte
	if len(pk) != SigPKLen {
		return out, fmt.Errorf("%w: ed25519 public key must be %d bytes, got %d", chunkerr.ErrPrimitive, SigPKLen, len(pk))
	}
	p, err := new(edwards25519.Point).SetBytes(pk)
	if err != nil {
		return out, fmt.Errorf("%w: invalid ed25519 public key: %v", chunkerr.ErrPrimitive, err)
	}
	copy(out[:], p.BytesMontgomery())
	return out, nil
}

// X25519ScalarBaseMult computes the public point for the given clamped
// X25519 scalar.
func X25519ScalarBaseMult(sk [KXKeyLen]byte) ([KXKeyLen]byte, error) {
	var out [KXKeyLen]byte
	pub, err := curveScalarBaseMult(sk[:])
	if err != nil {
		return out, fmt.Errorf("%w: %v", chunkerr.ErrPrimitive, err)
	}
	copy(out[:], pub)
	return out, nil
}

// X25519ScalarMult computes the shared point between sk and peerPK.
func X25519ScalarMult(sk, peerPK [KXKeyLen]byte) ([KXKeyLen]byte, error) {
	var out [KXKeyLen]byte
	shared, err := curveScalarMult(sk[:], peerPK[:])
	if err != nil {
		return out, fmt.Errorf("%w: %v", chunkerr.ErrPrimitive, err)
	}
	copy(out[:], shared)
	return out, nil
}

// kx directional info labels. The session key for "client sends" must equal
// the key the client derives as its tx and the server derives as its rx,
// and symmetrically for "server sends" -- see KXServerSessionKeys /
// KXClientSessionKeys below and design note "Implicit role asymmetry in kx".
const (
	infoClientToServer = "chunkcrypt/kx/client-to-server/v1"
	infoServerToClient = "chunkcrypt/kx/server-to-client/v1"
)

// KXServerSessionKeys derives the two directional session keys for the
// server role of the kx construction: rx for client->server traffic, tx for
// server->client traffic. Only tx is used by envelope.Encrypt.
func KXServerSessionKeys(serverPK, serverSK, clientPK [KXKeyLen]byte) (rx, tx [SessionKeyLen]byte, err error) {
	shared, err := X25519ScalarMult(serverSK, clientPK)
	if err != nil {
		return rx, tx, err
	}
	salt := append(append([]byte{}, clientPK[:]...), serverPK[:]...)
	rx, err = hkdfExpand32(shared[:], salt, infoClientToServer)
	if err != nil {
		return rx, tx, err
	}
	tx, err = hkdfExpand32(shared[:], salt, infoServerToClient)
	return rx, tx, err
}

// KXClientSessionKeys derives the two directional session keys for the
// client role, symmetric to KXServerSessionKeys. Only rx is used, by
// envelope.Decrypt; a client's rx equals the peer server's tx, and its tx
// equals the peer server's rx.
func KXClientSessionKeys(clientPK, clientSK, serverPK [KXKeyLen]byte) (rx, tx [SessionKeyLen]byte, err error) {
	shared, err := X25519ScalarMult(clientSK, serverPK)
	if err != nil {
		return rx, tx, err
	}
	salt := append(append([]byte{}, clientPK[:]...), serverPK[:]...)
	rx, err = hkdfExpand32(shared[:], salt, infoServerToClient)
	if err != nil {
		return rx, tx, err
	}
	tx, err = hkdfExpand32(shared[:], salt, infoClientToServer)
	return rx, tx, err
}

func hkdfExpand32(ikm, salt []byte, info string) ([SessionKeyLen]byte, error) {
	var out [SessionKeyLen]byte
	r := hkdf.New(sha512.New, ikm, salt, []byte(info))
	if _, err := readFull(r, out[:]); err != nil {
		return out, fmt.Errorf("%w: hkdf expand: %v", chunkerr.ErrPrimitive, err)
	}
	return out, nil
}

// AEADEncrypt seals plaintext under key/nonce/ad, returning ciphertext||tag.
func AEADEncrypt(key [AEADKeyLen]byte, nonce [AEADNonceLen]byte, plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chunkerr.ErrPrimitive, err)
	}
	return aead.Seal(nil, nonce[:], plaintext, ad), nil
}

// AEADDecrypt opens ciphertextWithTag under key/nonce/ad, returning
// chunkerr.ErrAuthFailure on tag mismatch.
func AEADDecrypt(key [AEADKeyLen]byte, nonce [AEADNonceLen]byte, ciphertextWithTag, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chunkerr.ErrPrimitive, err)
	}
	pt, err := aead.Open(nil, nonce[:], ciphertextWithTag, ad)
	if err != nil {
		return nil, chunkerr.ErrAuthFailure
	}
	return pt, nil
}

// Argon2id parameters matching libsodium's crypto_pwhash INTERACTIVE preset
// (spec.md §4.1, §9.4). These are protocol constants; a future
// schemaVersion is the intended upgrade path, not a runtime knob.
const (
	KDFTimeCost    = 2
	KDFMemoryKiB   = 64 * 1024
	KDFParallelism = 1
)

// KDFArgon2id derives outLen bytes from passphrase and salt using Argon2id
// with the fixed INTERACTIVE parameters.
func KDFArgon2id(passphrase, salt []byte, outLen uint32) []byte {
	return argon2.IDKey(passphrase, salt, KDFTimeCost, KDFMemoryKiB, KDFParallelism, outLen)
}
