// Package frame implements the wire-level framing: fixed-width metadata
// serialization, the length-prefixed proof blob, full frame assembly and
// parsing, and the receive pipeline that ties signature verification,
// decryption, and Merkle inclusion checking together.
package frame

import (
	"fmt"

	"github.com/chunkproto/chunkcrypt/envelope"
	"github.com/chunkproto/chunkcrypt/merkle"
	"github.com/chunkproto/chunkcrypt/primitives"
)

// Fixed sizes from spec.md §3. Every constant here is a protocol value,
// not a tunable -- a schemaVersion bump is the only supported way to widen
// any of them (see config.Framing for the escape hatch a future version
// would use).
const (
	SchemaVersion = 1

	HashLen  = merkle.HashLen // 64
	NameLen  = 256
	SigPKLen = primitives.SigPKLen // 32
	SigLen   = primitives.SigLen   // 64

	MetadataLen = 8 + 1 + HashLen + 8 + 8 + NameLen + 8 + 8 + 8 // 369

	proofArtifactLen = HashLen + 1            // 65
	ProofLen         = 4 + merkle.MaxProofDepth*proofArtifactLen // 3124

	MessageLen = 65536

	importantDataLen = SigPKLen + SigLen + MetadataLen + ProofLen + envelope.NonceLen + envelope.TagLen

	// ChunkLen is MESSAGE_LEN minus every fixed-size field surrounding the
	// chunk payload. It must be positive or the frame layout is invalid;
	// checked once at package init per spec.md §9's integer-overflow
	// discipline.
	ChunkLen = MessageLen - importantDataLen

	DecryptedLen = MetadataLen + ProofLen + ChunkLen
	EncryptedLen = DecryptedLen + envelope.NonceLen + envelope.TagLen
)

func init() {
	if ChunkLen <= 0 {
		panic(fmt.Sprintf("frame: CHUNK_LEN must be positive, got %d (MESSAGE_LEN=%d, overhead=%d)", ChunkLen, MessageLen, importantDataLen))
	}
	if SigPKLen+SigLen+EncryptedLen != MessageLen {
		panic("frame: frame layout does not sum to MESSAGE_LEN")
	}
}

// MessageType identifies the kind of payload a frame's chunk carries.
// spec.md leaves this a raw byte; only the value this core's own tests and
// CLI exercise is named here.
type MessageType uint8

const MessageTypeData MessageType = 1

// Metadata is the fixed 369-byte header every frame carries ahead of its
// proof blob and chunk.
type Metadata struct {
	SchemaVersion    uint64
	MessageType      MessageType
	Hash             [HashLen]byte // SHA-512 of the entire committed payload
	TotalSize        uint64
	DateMS           int64
	Name             string // logical name, trimmed of trailing NULs on decode
	ChunkStartIndex  uint64
	ChunkEndIndex    uint64
	ChunkIndex       uint64
}
