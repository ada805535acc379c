package binius

import (
	"math/rand"
	"testing"
)

func randElem(f *Field, r *rand.Rand) Element {
	mask := (uint64(1) << uint(f.BitLength)) - 1
	if f.BitLength >= 64 {
		mask = ^uint64(0)
	}
	return NewElement(f, r.Uint64()&mask)
}

func TestBasicSchemeRoundTrip(t *testing.T) {
	params, err := NewBasicParams(BF8, BF128, 8, 4, 2, 32)
	if err != nil {
		t.Fatalf("NewBasicParams: %v", err)
	}

	r := rand.New(rand.NewSource(7))
	poly := make([]Element, 1<<uint(params.NVars))
	for i := range poly {
		poly[i] = randElem(BF8, r)
	}
	query := make([]Element, params.NVars)
	for i := range query {
		query[i] = randElem(BF128, r)
	}

	commitment, committed, err := CommitBasic(params, poly)
	if err != nil {
		t.Fatalf("CommitBasic: %v", err)
	}

	proverCh := NewChallenger([]byte("pkg-facade-test-seed"))
	proverCh.ObserveBytes(commitment.Root)
	proof, err := OpenBasic(params, committed, poly, query, proverCh)
	if err != nil {
		t.Fatalf("OpenBasic: %v", err)
	}

	verifierCh := NewChallenger([]byte("pkg-facade-test-seed"))
	verifierCh.ObserveBytes(commitment.Root)
	ok, err := VerifyBasic(params, commitment, query, proof, verifierCh)
	if err != nil {
		t.Fatalf("VerifyBasic: %v", err)
	}
	if !ok {
		t.Fatal("VerifyBasic rejected a valid proof")
	}
}

func TestNewBasicParamsRejectsInvalid(t *testing.T) {
	if _, err := NewBasicParams(BF8, BF4, 8, 4, 2, 16); err == nil {
		t.Fatal("expected error for L not extending K")
	}
}
