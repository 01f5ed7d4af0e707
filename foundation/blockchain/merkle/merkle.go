// Package merkle provides a merkle tree over the transactions of a block so
// a single transaction can be proven to belong to a block without handing
// out every other transaction.
package merkle

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Set of values describing where a proof hash is concatenated.
const (
	ProofFirst  = 0
	ProofSecond = 1
)

// ErrNotInTree is returned when a proof is requested for data the tree
// does not hold.
var ErrNotInTree = errors.New("unable to find data in tree")

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() ([]byte, error)
	Equals(other T) bool
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits the
// behavior defined by the Hashable constraint. The hashes are kept level by
// level, levels[0] holds the leafs and the last level holds the root.
type Tree[T Hashable[T]] struct {
	values []T
	levels [][][]byte
}

// NewTree constructs a new merkle tree from the specified values. When a level
// has an odd number of hashes the last hash is paired with itself.
func NewTree[T Hashable[T]](values []T) (*Tree[T], error) {
	if len(values) == 0 {
		return nil, errors.New("cannot construct tree with no content")
	}

	leafs := make([][]byte, len(values))
	for i, value := range values {
		hash, err := value.Hash()
		if err != nil {
			return nil, fmt.Errorf("hashing value %d: %w", i, err)
		}
		leafs[i] = hash
	}

	t := Tree[T]{
		values: append(make([]T, 0, len(values)), values...),
		levels: [][][]byte{leafs},
	}

	level := leafs
	for {
		level = parentLevel(level)
		t.levels = append(t.levels, level)

		if len(level) == 1 {
			break
		}
	}

	return &t, nil
}

// Root returns the root hash of the tree.
func (t *Tree[T]) Root() []byte {
	return t.levels[len(t.levels)-1][0]
}

// RootHex converts the merkle root byte hash to a hex encoded string.
func (t *Tree[T]) RootHex() string {
	return hexutil.Encode(t.Root())
}

// Values returns a copy of the values the tree was built from.
func (t *Tree[T]) Values() []T {
	return append(make([]T, 0, len(t.values)), t.values...)
}

// Proof returns the set of hashes and the order of concatenating those hashes
// for proving the data is in the tree.
//
// Hash the data in question, then walk the proof hashes. An order of
// ProofFirst says the proof hash comes first, ProofSecond says it comes
// second:
//
//	h = leaf
//	h = sha256(proof[0] + h)    order[0] == ProofFirst
//	h = sha256(h + proof[1])    order[1] == ProofSecond
//
// The final hash must match the root.
func (t *Tree[T]) Proof(data T) (Proof, error) {
	idx := -1
	for i, value := range t.values {
		if value.Equals(data) {
			idx = i
			break
		}
	}

	if idx == -1 {
		return Proof{}, ErrNotInTree
	}

	p := Proof{
		Leaf: hexutil.Encode(t.levels[0][idx]),
		Root: t.RootHex(),
	}

	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := idx ^ 1
		if sibling >= len(level) {
			sibling = idx
		}

		order := ProofFirst
		if idx%2 == 0 {
			order = ProofSecond
		}

		p.Hashes = append(p.Hashes, hexutil.Encode(level[sibling]))
		p.Order = append(p.Order, order)

		idx /= 2
	}

	return p, nil
}

// =============================================================================

// Proof is the path of sibling hashes from a leaf to the root of a tree.
type Proof struct {
	Leaf   string   `json:"leaf"`
	Hashes []string `json:"hashes"`
	Order  []int    `json:"order"`
	Root   string   `json:"root"`
}

// Verify recalculates the root from the leaf and the proof hashes and checks
// it matches the root of the proof.
func (p Proof) Verify() error {
	if len(p.Hashes) != len(p.Order) {
		return errors.New("proof hashes and order don't match")
	}

	h, err := hexutil.Decode(p.Leaf)
	if err != nil {
		return fmt.Errorf("decoding leaf: %w", err)
	}

	for i, hexHash := range p.Hashes {
		proof, err := hexutil.Decode(hexHash)
		if err != nil {
			return fmt.Errorf("decoding proof hash %d: %w", i, err)
		}

		switch p.Order[i] {
		case ProofFirst:
			h = hashPair(proof, h)
		case ProofSecond:
			h = hashPair(h, proof)
		default:
			return fmt.Errorf("invalid proof order %d at %d", p.Order[i], i)
		}
	}

	root, err := hexutil.Decode(p.Root)
	if err != nil {
		return fmt.Errorf("decoding root: %w", err)
	}

	if !bytes.Equal(h, root) {
		return errors.New("merkle root is not equivalent to the root calculated from the proof")
	}

	return nil
}

// =============================================================================

// parentLevel hashes each pair of hashes into the level above.
func parentLevel(level [][]byte) [][]byte {
	parents := make([][]byte, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		right := i + 1
		if right == len(level) {
			right = i
		}
		parents = append(parents, hashPair(level[i], level[right]))
	}

	return parents
}

func hashPair(left []byte, right []byte) []byte {
	h := sha256.New()
	h.Write(left)
	h.Write(right)
	return h.Sum(nil)
}
