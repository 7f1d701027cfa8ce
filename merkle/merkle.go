// Package merkle implements the Merkle tree algorithms the frame codec
// relies on: root computation, inclusion-proof generation, root
// reconstruction from a proof, and proof verification. The tree balances
// odd levels by duplicating the last node, and concatenates left‖right at
// every internal node before hashing with SHA-512.
//
// Ported line-for-line from original_source/src/cryptography/merkle.c's
// get_merkle_root / get_merkle_proof / get_merkle_root_from_proof /
// verify_merkle_proof, replacing the manual malloc/free bookkeeping with
// plain Go slices.
package merkle

import (
	"fmt"

	"github.com/chunkproto/chunkcrypt/chunkerr"
	"github.com/chunkproto/chunkcrypt/primitives"
)

// HashLen is H in the spec: the SHA-512 digest length every leaf, node,
// and root uses.
const HashLen = primitives.HashLen

// MaxProofDepth bounds a proof to the PROOF_LEN wire envelope (48 levels).
const MaxProofDepth = 48

// Hash is one SHA-512 digest: a leaf, an internal node, or a root.
type Hash = [HashLen]byte

// Artifact is one step of an inclusion proof: a sibling hash and the
// position it occupies relative to the running node (0 = sibling is on the
// left, 1 = sibling is on the right). positionSelf marks the degenerate
// single-leaf-tree proof, whose sole artifact is the leaf itself rather
// than a genuine sibling -- it cannot be confused with a real one-artifact
// proof from a two-leaf tree, which always uses Position 0 or 1.
type Artifact struct {
	Sibling  Hash
	Position byte
}

const positionSelf = 2

// Proof is an ordered sequence of Artifacts from leaf to root.
type Proof []Artifact

func concatHash(left, right Hash) Hash {
	buf := make([]byte, 0, 2*HashLen)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return primitives.SHA512(buf)
}

// Root computes the Merkle root of an ordered leaf sequence. It fails with
// chunkerr.ErrEmptyTree if leaves is empty.
func Root(leaves []Hash) (Hash, error) {
	var zero Hash
	n := len(leaves)
	if n == 0 {
		return zero, chunkerr.ErrEmptyTree
	}
	if n == 1 {
		return leaves[0], nil
	}

	level := make([]Hash, n)
	copy(level, leaves)

	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				// Odd level: duplicate the last node against itself.
				next = append(next, concatHash(level[i], level[i]))
			} else {
				next = append(next, concatHash(level[i], level[i+1]))
			}
		}
		level = next
	}
	return level[0], nil
}

// BuildProof locates elementHash in leaves and returns the inclusion proof for
// it. It fails with chunkerr.ErrNotInTree if elementHash is absent, and
// chunkerr.ErrEmptyTree for an empty leaf sequence.
func BuildProof(leaves []Hash, elementHash Hash) (Proof, error) {
	n := len(leaves)
	if n == 0 {
		return nil, chunkerr.ErrEmptyTree
	}

	index := -1
	for i, h := range leaves {
		if h == elementHash {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, chunkerr.ErrNotInTree
	}

	if n == 1 {
		// Single-leaf tree: the proof is the leaf itself (see
		// RootFromProof's matching special case).
		return Proof{{Sibling: leaves[0], Position: positionSelf}}, nil
	}

	level := make([]Hash, n)
	copy(level, leaves)
	interest := index

	var proof Proof
	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			j := i / 2
			if i+1 == len(level) {
				// Odd level: the last node is paired with itself.
				next = append(next, concatHash(level[i], level[i]))
				if i == interest {
					proof = append(proof, Artifact{Sibling: level[i], Position: 0})
					interest = j
				}
				continue
			}
			next = append(next, concatHash(level[i], level[i+1]))
			switch interest {
			case i:
				proof = append(proof, Artifact{Sibling: level[i+1], Position: 1})
				interest = j
			case i + 1:
				proof = append(proof, Artifact{Sibling: level[i], Position: 0})
				interest = j
			}
		}
		level = next
	}
	if len(proof) > MaxProofDepth {
		return nil, fmt.Errorf("%w: proof depth %d exceeds max %d", chunkerr.ErrBadProofLength, len(proof), MaxProofDepth)
	}
	return proof, nil
}

// RootFromProof reconstructs the root that elementHash and proof would
// produce, without needing the rest of the tree.
func RootFromProof(elementHash Hash, proof Proof) (Hash, error) {
	if len(proof) == 1 && proof[0].Position == positionSelf {
		// Single-leaf tree: the sole artifact is the element itself.
		if proof[0].Sibling == elementHash {
			return elementHash, nil
		}
		return Hash{}, chunkerr.ErrBadProofEncoding
	}

	acc := elementHash
	for _, a := range proof {
		switch a.Position {
		case 0:
			acc = concatHash(a.Sibling, acc)
		case 1:
			acc = concatHash(acc, a.Sibling)
		default:
			return Hash{}, fmt.Errorf("%w: position byte %d", chunkerr.ErrBadProofEncoding, a.Position)
		}
	}
	return acc, nil
}

// VerifyProof reports whether proof reconstructs root for elementHash,
// using a constant-time comparison on the final digests.
func VerifyProof(elementHash, root Hash, proof Proof) (bool, error) {
	got, err := RootFromProof(elementHash, proof)
	if err != nil {
		return false, err
	}
	return primitives.ConstantTimeEqual(got[:], root[:]), nil
}
