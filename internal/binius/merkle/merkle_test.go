package merkle

import (
	"math/rand"
	"testing"

	"github.com/vybium/binius-pcs/internal/binius/field"
)

func randVector(f *field.Field, n int, r *rand.Rand) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = field.NewElement(f, r.Uint64()&0xFFFFFFFF)
	}
	return out
}

func TestOpenAndVerifyBranch(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	vectors := make([][]field.Element, 8)
	for i := range vectors {
		vectors[i] = randVector(field.BF32, 4, r)
	}

	tree, err := Build(vectors, SHA256)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Root()

	for pos := range vectors {
		branch, err := tree.Open(pos)
		if err != nil {
			t.Fatalf("Open(%d): %v", pos, err)
		}
		if !VerifyBranch(root, pos, vectors[pos], branch, SHA256) {
			t.Fatalf("VerifyBranch failed for honest branch at %d", pos)
		}
	}
}

func TestVerifyBranchRejectsTamperedByte(t *testing.T) {
	r := rand.New(rand.NewSource(22))
	vectors := make([][]field.Element, 8)
	for i := range vectors {
		vectors[i] = randVector(field.BF32, 4, r)
	}
	tree, err := Build(vectors, SHA256)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Root()

	branch, err := tree.Open(3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tampered := make(Branch, len(branch))
	for i, b := range branch {
		tampered[i] = append([]byte(nil), b...)
	}
	tampered[0][0] ^= 0xFF

	if VerifyBranch(root, 3, vectors[3], tampered, SHA256) {
		t.Fatal("VerifyBranch accepted a tampered branch")
	}
}

func TestVerifyBranchRejectsWrongVector(t *testing.T) {
	r := rand.New(rand.NewSource(23))
	vectors := make([][]field.Element, 4)
	for i := range vectors {
		vectors[i] = randVector(field.BF8, 2, r)
	}
	tree, err := Build(vectors, SHA256)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Root()
	branch, err := tree.Open(0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if VerifyBranch(root, 0, vectors[1], branch, SHA256) {
		t.Fatal("VerifyBranch accepted mismatched vector")
	}
}

func TestBuildRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := Build(make([][]field.Element, 3), SHA256); err == nil {
		t.Fatal("expected error for non-power-of-two leaf count")
	}
}

func TestSHA3HashFuncProducesDifferentRoot(t *testing.T) {
	r := rand.New(rand.NewSource(24))
	vectors := make([][]field.Element, 4)
	for i := range vectors {
		vectors[i] = randVector(field.BF8, 2, r)
	}
	t256, err := Build(vectors, SHA256)
	if err != nil {
		t.Fatalf("Build sha256: %v", err)
	}
	t3, err := Build(vectors, SHA3)
	if err != nil {
		t.Fatalf("Build sha3: %v", err)
	}
	if bytesEqual(t256.Root(), t3.Root()) {
		t.Fatal("expected different roots for different hash functions")
	}
}
