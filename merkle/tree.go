package merkle

import "github.com/chunkproto/chunkcrypt/chunkerr"

// Tree caches every level of a leaf sequence's fold so repeated Root/Proof
// calls over the same payload -- the common case for a sender emitting one
// proof per chunk -- are O(1) and O(log n) instead of O(n) each. It wraps
// the same stateless Root/BuildProof semantics; a Tree is never mutated
// after New.
type Tree struct {
	levels [][]Hash // levels[0] = leaves, levels[last] = [root]
}

// New builds a Tree over leaves, precomputing every fold level.
func New(leaves []Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, chunkerr.ErrEmptyTree
	}
	levels := [][]Hash{append([]Hash(nil), leaves...)}
	level := levels[0]
	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, concatHash(level[i], level[i]))
			} else {
				next = append(next, concatHash(level[i], level[i+1]))
			}
		}
		levels = append(levels, next)
		level = next
	}
	return &Tree{levels: levels}, nil
}

// Root returns the tree's root hash.
func (t *Tree) Root() Hash {
	return t.levels[len(t.levels)-1][0]
}

// Proof returns the inclusion proof for the leaf at index i.
func (t *Tree) Proof(i int) (Proof, error) {
	if i < 0 || i >= len(t.levels[0]) {
		return nil, chunkerr.ErrNotInTree
	}
	if len(t.levels[0]) == 1 {
		return Proof{{Sibling: t.levels[0][0], Position: positionSelf}}, nil
	}

	var proof Proof
	idx := i
	for lvl := 0; lvl < len(t.levels)-1; lvl++ {
		level := t.levels[lvl]
		if idx%2 == 0 {
			if idx+1 == len(level) {
				proof = append(proof, Artifact{Sibling: level[idx], Position: 0})
			} else {
				proof = append(proof, Artifact{Sibling: level[idx+1], Position: 1})
			}
		} else {
			proof = append(proof, Artifact{Sibling: level[idx-1], Position: 0})
		}
		idx /= 2
	}
	return proof, nil
}

// Leaves returns the tree's original leaf sequence.
func (t *Tree) Leaves() []Hash {
	return t.levels[0]
}
