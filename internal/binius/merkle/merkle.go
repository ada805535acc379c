// Package merkle implements the SHA-256 (or SHA3-256) binary Merkle vector
// commitment scheme used to commit to the encoded column matrix produced by
// every PCS variant: 2^ell leaves, each the hash of a serialized column of
// field elements, folded up to a single 32-byte root.
package merkle

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/utils"
)

// HashFunc selects the hash primitive backing a Tree. "sha256" is the
// spec's default wire format; "sha3" is an ambient alternative exercising
// golang.org/x/crypto/sha3 for deployments that prefer it.
type HashFunc string

const (
	SHA256 HashFunc = "sha256"
	SHA3   HashFunc = "sha3"
)

func hashBytes(h HashFunc, data []byte) []byte {
	switch h {
	case SHA3:
		sum := sha3.Sum256(data)
		return sum[:]
	default:
		sum := sha256.Sum256(data)
		return sum[:]
	}
}

// SerializeVector concatenates the field-element serialization (spec §4.5's
// leaf format) of each element in order, ready to be hashed into a leaf.
func SerializeVector(vec []field.Element) []byte {
	var out []byte
	for _, e := range vec {
		out = append(out, e.Bytes()...)
	}
	return out
}

// Tree is a full binary tree over 2^LogLen leaves, stored flat with node 1
// as the root and node i's children at 2i and 2i+1 (the classical
// array-backed heap layout), matching the indexing the reference
// implementation's merklize/get_branch/verify_branch use.
type Tree struct {
	LogLen int
	Hash   HashFunc
	nodes  [][]byte // length 2^(LogLen+1); nodes[1] is the root
}

// Build constructs a Tree over the given leaf vectors; len(vectors) must be
// a power of two.
func Build(vectors [][]field.Element, h HashFunc) (*Tree, error) {
	n := len(vectors)
	if !utils.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("merkle: leaf count %d is not a positive power of two", n)
	}
	logLen := utils.Log2(n)

	nodes := make([][]byte, 2*n)
	g := new(errgroup.Group)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			nodes[n+i] = hashBytes(h, SerializeVector(vectors[i]))
			return nil
		})
	}
	_ = g.Wait() // leaf hashing bodies never error

	for i := n - 1; i >= 1; i-- {
		nodes[i] = hashBytes(h, append(append([]byte(nil), nodes[2*i]...), nodes[2*i+1]...))
	}

	return &Tree{LogLen: logLen, Hash: h, nodes: nodes}, nil
}

// Root returns the 32-byte commitment.
func (t *Tree) Root() []byte {
	return append([]byte(nil), t.nodes[1]...)
}

// Branch is the list of LogLen sibling hashes on the path from a leaf to
// the root.
type Branch [][]byte

// Open returns the branch for the leaf at pos.
func (t *Tree) Open(pos int) (Branch, error) {
	n := 1 << uint(t.LogLen)
	if pos < 0 || pos >= n {
		return nil, fmt.Errorf("merkle: position %d out of range [0, %d)", pos, n)
	}
	offset := pos + n
	branch := make(Branch, t.LogLen)
	for i := 0; i < t.LogLen; i++ {
		branch[i] = append([]byte(nil), t.nodes[(offset>>uint(i))^1]...)
	}
	return branch, nil
}

// VerifyBranch rehashes vec and folds it with branch against root, using
// the classical position bit to choose sibling ordering at each level. It
// never discloses which level failed; the caller only learns the overall
// boolean.
func VerifyBranch(root []byte, pos int, vec []field.Element, branch Branch, h HashFunc) bool {
	x := hashBytes(h, SerializeVector(vec))
	p := pos
	for _, sib := range branch {
		if p&1 != 0 {
			x = hashBytes(h, append(append([]byte(nil), sib...), x...))
		} else {
			x = hashBytes(h, append(append([]byte(nil), x...), sib...))
		}
		p >>= 1
	}
	return bytesEqual(x, root)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
