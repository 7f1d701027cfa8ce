// Package chunkerr defines the error kinds shared by every component of the
// chunked-message cryptography core. Errors are plain sentinels; callers
// match with errors.Is and never parse the wrapped message.
package chunkerr

import "errors"

var (
	// ErrPrimitive wraps a failure reported by an underlying cryptographic
	// primitive: key conversion, session-key agreement, or the KDF.
	ErrPrimitive = errors.New("chunkcrypt: primitive failure")

	// ErrAuthFailure covers an AEAD tag mismatch or an Ed25519 verification
	// failure where the spec does not distinguish the two.
	ErrAuthFailure = errors.New("chunkcrypt: authentication failure")

	// ErrBadSignature is specifically the frame-level ephemeral-key
	// signature check failing.
	ErrBadSignature = errors.New("chunkcrypt: bad frame signature")

	// ErrEmptyTree is returned by merkle.Root/merkle.BuildProof/merkle.New
	// for a zero-leaf tree.
	ErrEmptyTree = errors.New("chunkcrypt: empty merkle tree")

	// ErrNotInTree is returned when the requested leaf is absent.
	ErrNotInTree = errors.New("chunkcrypt: element not in tree")

	// ErrBadProofLength is returned when a proof blob's length prefix is
	// not a multiple of H+1 or exceeds the maximum depth.
	ErrBadProofLength = errors.New("chunkcrypt: bad proof length")

	// ErrBadProofEncoding is returned when a proof artifact's position
	// byte is neither 0 nor 1 (a sole artifact may instead carry the
	// single-leaf marker 2), or when a single-leaf proof's artifact is not
	// the element itself.
	ErrBadProofEncoding = errors.New("chunkcrypt: bad proof encoding")

	// ErrProofMismatch is returned when a proof fails to reconstruct the
	// expected root.
	ErrProofMismatch = errors.New("chunkcrypt: proof does not match root")

	// ErrPassphraseOutOfRange is returned when a KDF passphrase is empty
	// or exceeds the KDF's published maximum length.
	ErrPassphraseOutOfRange = errors.New("chunkcrypt: passphrase out of range")

	// ErrAllocationFailure covers a fixed-size buffer that could not be
	// sized as requested (only reachable via misconfiguration).
	ErrAllocationFailure = errors.New("chunkcrypt: allocation failure")

	// ErrUnknownSchemaVersion is returned by frame.Receive when the
	// metadata's schemaVersion field does not match a version this build
	// understands, and by keystore when a stored record's version is
	// unknown.
	ErrUnknownSchemaVersion = errors.New("chunkcrypt: unknown schema version")
)
