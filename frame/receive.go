package frame

import (
	"fmt"

	"github.com/chunkproto/chunkcrypt/chunkerr"
	"github.com/chunkproto/chunkcrypt/envelope"
	"github.com/chunkproto/chunkcrypt/merkle"
	"github.com/chunkproto/chunkcrypt/primitives"
)

// Receive runs the full receive pipeline (spec.md §4.6) over a wire frame:
// it verifies the frame-level signature over the ephemeral public key,
// decrypts the envelope with ad=root, parses the metadata and proof blob
// out of the plaintext, hashes the chunk, and checks its inclusion against
// root under the embedded proof. On success it returns the parsed
// metadata and the whole decrypted plaintext (DecryptedLen bytes:
// metadata ‖ proof blob ‖ chunk). The chunk is the trailing ChunkLen bytes,
// plaintext[MetadataLen+ProofLen:], including any zero padding the sender
// applied -- metadata's chunk extents locate the logical bytes within it.
func Receive(rawFrame []byte, root [merkle.HashLen]byte, senderSigPK [SigPKLen]byte, receiverSigSK []byte) (Metadata, []byte, error) {
	f, err := Parse(rawFrame)
	if err != nil {
		return Metadata{}, nil, err
	}

	if !primitives.Ed25519Verify(senderSigPK[:], f.EphemeralPK[:], f.Signature[:]) {
		return Metadata{}, nil, chunkerr.ErrBadSignature
	}

	plaintext, err := envelope.Decrypt(f.Envelope, senderSigPK, receiverSigSK, root[:])
	if err != nil {
		return Metadata{}, nil, err
	}
	if len(plaintext) != DecryptedLen {
		return Metadata{}, nil, fmt.Errorf("%w: decrypted plaintext is %d bytes, want %d", chunkerr.ErrPrimitive, len(plaintext), DecryptedLen)
	}

	metadata, err := DeserializeMetadata(plaintext[:MetadataLen])
	if err != nil {
		return Metadata{}, nil, err
	}
	if metadata.SchemaVersion != SchemaVersion {
		return Metadata{}, nil, fmt.Errorf("%w: %d", chunkerr.ErrUnknownSchemaVersion, metadata.SchemaVersion)
	}

	proofBlob := plaintext[MetadataLen : MetadataLen+ProofLen]
	proof, err := DecodeProofBlob(proofBlob)
	if err != nil {
		return Metadata{}, nil, err
	}

	chunk := plaintext[MetadataLen+ProofLen:]
	chunkHash := primitives.SHA512(chunk)

	ok, err := merkle.VerifyProof(chunkHash, root, proof)
	if err != nil {
		return Metadata{}, nil, err
	}
	if !ok {
		return Metadata{}, nil, chunkerr.ErrProofMismatch
	}

	return metadata, plaintext, nil
}
