package frame

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkproto/chunkcrypt/chunkerr"
	"github.com/chunkproto/chunkcrypt/envelope"
	"github.com/chunkproto/chunkcrypt/identity"
	"github.com/chunkproto/chunkcrypt/merkle"
	"github.com/chunkproto/chunkcrypt/primitives"
)

func mustIdentity(t *testing.T) *identity.Identity {
	t.Helper()
	id, err := identity.GenerateKeypair()
	require.NoError(t, err)
	return id
}

func sampleProof(t *testing.T) (merkle.Proof, [merkle.HashLen]byte, [merkle.HashLen]byte) {
	t.Helper()
	leaves := []merkle.Hash{
		primitives.SHA512([]byte("one")),
		primitives.SHA512([]byte("two")),
		primitives.SHA512([]byte("three")),
	}
	root, err := merkle.Root(leaves)
	require.NoError(t, err)
	proof, err := merkle.BuildProof(leaves, leaves[1])
	require.NoError(t, err)
	return proof, root, leaves[1]
}

// spec.md §8 scenario 4: a frame built by Assemble must parse and receive
// back to exactly the metadata and chunk given.
func TestAssembleReceiveRoundTrip(t *testing.T) {
	sender := mustIdentity(t)
	receiver := mustIdentity(t)

	chunk := []byte("hello chunked world")
	// Receive recomputes sha512(chunk) itself and checks it against the
	// proof, so the tree must be built over this exact padded chunk.
	leaves := []merkle.Hash{
		primitives.SHA512([]byte("pre")),
		primitives.SHA512(padChunk(chunk)),
		primitives.SHA512([]byte("post")),
	}
	root, err := merkle.Root(leaves)
	require.NoError(t, err)
	proof, err := merkle.BuildProof(leaves, leaves[1])
	require.NoError(t, err)

	metadata := Metadata{
		SchemaVersion:   SchemaVersion,
		MessageType:     MessageTypeData,
		Hash:            primitives.SHA512([]byte("whole-file-hash-placeholder")),
		TotalSize:       uint64(len(chunk)),
		DateMS:          1700000000000,
		Name:            "roundtrip.bin",
		ChunkStartIndex: 0,
		ChunkEndIndex:   uint64(len(chunk)),
		ChunkIndex:      0,
	}

	var nonce [envelope.NonceLen]byte
	_, err = rand.Read(nonce[:])
	require.NoError(t, err)

	rawFrame, err := Assemble(chunk, metadata, proof, sender.SigSK(), receiver.SigPK, nonce, root[:])
	require.NoError(t, err)
	assert.Len(t, rawFrame, MessageLen)

	gotMeta, plaintext, err := Receive(rawFrame, root, sender.SigPK, receiver.SigSK())
	require.NoError(t, err)
	assert.Equal(t, metadata.Name, gotMeta.Name)
	assert.Equal(t, metadata.TotalSize, gotMeta.TotalSize)
	assert.Equal(t, metadata.ChunkIndex, gotMeta.ChunkIndex)

	gotChunk := plaintext[MetadataLen+ProofLen:]
	assert.Equal(t, padChunk(chunk), gotChunk)
}

func padChunk(chunk []byte) []byte {
	out := make([]byte, ChunkLen)
	copy(out, chunk)
	return out
}

// TestReceiveRejectsWrongSigner ensures a frame signed by an unrelated key
// fails signature verification rather than silently decrypting.
func TestReceiveRejectsWrongSigner(t *testing.T) {
	sender := mustIdentity(t)
	impostor := mustIdentity(t)
	receiver := mustIdentity(t)

	proof, root, _ := sampleProof(t)
	metadata := Metadata{SchemaVersion: SchemaVersion, MessageType: MessageTypeData, Name: "x"}
	var nonce [envelope.NonceLen]byte

	rawFrame, err := Assemble(nil, metadata, proof, sender.SigSK(), receiver.SigPK, nonce, root[:])
	require.NoError(t, err)

	_, _, err = Receive(rawFrame, root, impostor.SigPK, receiver.SigSK())
	assert.ErrorIs(t, err, chunkerr.ErrBadSignature)
}

// TestReceiveRejectsWrongRootAsAD ensures a mismatched associated-data root
// fails AEAD authentication.
func TestReceiveRejectsWrongRootAsAD(t *testing.T) {
	sender := mustIdentity(t)
	receiver := mustIdentity(t)

	proof, root, _ := sampleProof(t)
	metadata := Metadata{SchemaVersion: SchemaVersion, MessageType: MessageTypeData, Name: "x"}
	var nonce [envelope.NonceLen]byte

	rawFrame, err := Assemble(nil, metadata, proof, sender.SigSK(), receiver.SigPK, nonce, root[:])
	require.NoError(t, err)

	wrongRoot := root
	wrongRoot[0] ^= 0xff

	_, _, err = Receive(rawFrame, wrongRoot, sender.SigPK, receiver.SigSK())
	require.Error(t, err)
}

// spec.md §8 scenario 5: a proof blob whose length prefix is not a
// multiple of the artifact width must fail BadProofLength.
func TestDecodeProofBlobBadLengthPrefix(t *testing.T) {
	blob := make([]byte, ProofLen)
	blob[3] = 1 // length = 1, not a multiple of artifactWireLen (65)

	_, err := DecodeProofBlob(blob)
	assert.ErrorIs(t, err, chunkerr.ErrBadProofLength)
}

func TestEncodeProofBlobRejectsOversizedProof(t *testing.T) {
	over := make(merkle.Proof, merkle.MaxProofDepth+1)
	_, err := EncodeProofBlob(over)
	assert.ErrorIs(t, err, chunkerr.ErrBadProofLength)
}

// spec.md §8 scenario 6: metadata round-trips through serialize/deserialize
// exactly (name truncation is covered by TestMetadataNameTruncatedAtNameLen).
func TestMetadataRoundTrip(t *testing.T) {
	m := Metadata{
		SchemaVersion:   SchemaVersion,
		MessageType:     MessageTypeData,
		Hash:            primitives.SHA512([]byte("payload")),
		TotalSize:       123456,
		DateMS:          1700000000000,
		Name:            "report.pdf",
		ChunkStartIndex: 10,
		ChunkEndIndex:   20,
		ChunkIndex:      1,
	}

	wire := SerializeMetadata(m)
	assert.Len(t, wire, MetadataLen)

	got, err := DeserializeMetadata(wire)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestMetadataNameTruncatedAtNameLen(t *testing.T) {
	longName := make([]byte, NameLen+50)
	for i := range longName {
		longName[i] = 'x'
	}
	m := Metadata{Name: string(longName)}

	wire := SerializeMetadata(m)
	got, err := DeserializeMetadata(wire)
	require.NoError(t, err)
	assert.Len(t, got.Name, NameLen)
}

// Frame size is always exactly MESSAGE_LEN regardless of chunk length or
// proof depth, per spec.md §3 and §9's fixed-width framing invariant.
func TestAssembledFrameIsAlwaysMessageLen(t *testing.T) {
	sender := mustIdentity(t)
	receiver := mustIdentity(t)
	var nonce [envelope.NonceLen]byte

	for _, n := range []int{1, 2, 5, 16} {
		var leaves []merkle.Hash
		for i := 0; i < n; i++ {
			leaves = append(leaves, primitives.SHA512([]byte{byte(i)}))
		}
		root, err := merkle.Root(leaves)
		require.NoError(t, err)
		proof, err := merkle.BuildProof(leaves, leaves[0])
		require.NoError(t, err)

		rawFrame, err := Assemble([]byte("x"), Metadata{SchemaVersion: SchemaVersion}, proof, sender.SigSK(), receiver.SigPK, nonce, root[:])
		require.NoError(t, err, "n=%d", n)
		assert.Len(t, rawFrame, MessageLen, "n=%d", n)
	}
}
