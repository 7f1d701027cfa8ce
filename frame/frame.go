package frame

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/chunkproto/chunkcrypt/chunkerr"
	"github.com/chunkproto/chunkcrypt/envelope"
	"github.com/chunkproto/chunkcrypt/merkle"
	"github.com/chunkproto/chunkcrypt/primitives"
)

// Frame holds the parsed fields of one MESSAGE_LEN-byte wire frame before
// the envelope has been opened: the ephemeral signing key the sender
// generated for this frame, the signature binding it to the sender's
// long-term identity, and the still-sealed envelope.
type Frame struct {
	EphemeralPK [SigPKLen]byte
	Signature   [SigLen]byte
	Envelope    []byte // nonce ‖ ciphertext ‖ tag, EncryptedLen bytes
}

// Assemble builds one complete wire frame: it pads chunk to ChunkLen,
// concatenates metadata‖proofBlob‖chunk, seals that plaintext against the
// receiver's identity, and prepends a freshly generated ephemeral Ed25519
// public key signed by the sender's long-term secret key.
//
// The ephemeral key is carried for wire compatibility with the original
// protocol; it is signed and will be verified by the receiver, but it is
// not mixed into the AEAD session key -- see design note "ephemeral key
// appears decorative" (Open Question #3). ad should be the agreed Merkle
// root.
func Assemble(chunk []byte, metadata Metadata, proof merkle.Proof, senderSigSK []byte, receiverSigPK [SigPKLen]byte, nonce [envelope.NonceLen]byte, ad []byte) ([]byte, error) {
	if len(chunk) > ChunkLen {
		return nil, fmt.Errorf("%w: chunk of %d bytes exceeds ChunkLen %d", chunkerr.ErrPrimitive, len(chunk), ChunkLen)
	}

	proofBlob, err := EncodeProofBlob(proof)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, 0, DecryptedLen)
	plaintext = append(plaintext, SerializeMetadata(metadata)...)
	plaintext = append(plaintext, proofBlob...)
	paddedChunk := make([]byte, ChunkLen)
	copy(paddedChunk, chunk)
	plaintext = append(plaintext, paddedChunk...)

	sealed, err := envelope.Encrypt(plaintext, receiverSigPK, senderSigSK, nonce, ad)
	if err != nil {
		return nil, err
	}
	if len(sealed) != EncryptedLen {
		return nil, fmt.Errorf("%w: sealed envelope is %d bytes, want %d", chunkerr.ErrPrimitive, len(sealed), EncryptedLen)
	}

	ephPK, ephSK, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: generating ephemeral key: %v", chunkerr.ErrPrimitive, err)
	}
	for i := range ephSK {
		ephSK[i] = 0
	}
	sig, err := primitives.Ed25519Sign(senderSigSK, ephPK)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, MessageLen)
	out = append(out, ephPK...)
	out = append(out, sig[:]...)
	out = append(out, sealed...)

	if len(out) != MessageLen {
		return nil, fmt.Errorf("%w: assembled frame is %d bytes, want %d", chunkerr.ErrPrimitive, len(out), MessageLen)
	}
	return out, nil
}

// Parse splits a MessageLen-byte wire frame into its fields without
// verifying the signature or opening the envelope -- call Receive (or
// verify the signature and call envelope.Decrypt directly) to do that.
func Parse(data []byte) (Frame, error) {
	var f Frame
	if len(data) != MessageLen {
		return f, fmt.Errorf("%w: frame must be %d bytes, got %d", chunkerr.ErrPrimitive, MessageLen, len(data))
	}
	off := 0
	copy(f.EphemeralPK[:], data[off:off+SigPKLen])
	off += SigPKLen
	copy(f.Signature[:], data[off:off+SigLen])
	off += SigLen
	f.Envelope = append([]byte(nil), data[off:]...)
	return f, nil
}
