package frame

import (
	"encoding/binary"
	"fmt"

	"github.com/chunkproto/chunkcrypt/chunkerr"
	"github.com/chunkproto/chunkcrypt/merkle"
)

const artifactWireLen = HashLen + 1 // 65: sibling ‖ position

// EncodeProofBlob writes proof into the fixed ProofLen-byte wire slot:
// a 4-byte big-endian length prefix, the artifacts themselves, then zero
// padding out to ProofLen.
func EncodeProofBlob(proof merkle.Proof) ([]byte, error) {
	l := len(proof) * artifactWireLen
	if l > ProofLen-4 {
		return nil, fmt.Errorf("%w: %d artifacts exceed max depth %d", chunkerr.ErrBadProofLength, len(proof), merkle.MaxProofDepth)
	}

	out := make([]byte, ProofLen)
	binary.BigEndian.PutUint32(out[:4], uint32(l))

	off := 4
	for _, a := range proof {
		copy(out[off:off+HashLen], a.Sibling[:])
		out[off+HashLen] = a.Position
		off += artifactWireLen
	}
	return out, nil
}

// DecodeProofBlob parses a ProofLen-byte proof blob back into a
// merkle.Proof. It fails with chunkerr.ErrBadProofLength if the length
// prefix is not a multiple of artifactWireLen or exceeds the maximum
// depth.
func DecodeProofBlob(blob []byte) (merkle.Proof, error) {
	if len(blob) != ProofLen {
		return nil, fmt.Errorf("%w: proof blob must be %d bytes, got %d", chunkerr.ErrPrimitive, ProofLen, len(blob))
	}

	l := binary.BigEndian.Uint32(blob[:4])
	if l%artifactWireLen != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", chunkerr.ErrBadProofLength, l, artifactWireLen)
	}
	if int(l) > merkle.MaxProofDepth*artifactWireLen {
		return nil, fmt.Errorf("%w: length %d exceeds max %d", chunkerr.ErrBadProofLength, l, merkle.MaxProofDepth*artifactWireLen)
	}
	if 4+int(l) > len(blob) {
		return nil, fmt.Errorf("%w: length %d overruns blob", chunkerr.ErrBadProofLength, l)
	}

	n := int(l) / artifactWireLen
	proof := make(merkle.Proof, n)
	off := 4
	for i := 0; i < n; i++ {
		copy(proof[i].Sibling[:], blob[off:off+HashLen])
		proof[i].Position = blob[off+HashLen]
		off += artifactWireLen
	}
	return proof, nil
}
