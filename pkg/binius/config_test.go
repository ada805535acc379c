package binius

import (
	"math/rand"
	"testing"
)

func TestDefaultBasicConfigBuildsValidParams(t *testing.T) {
	params, err := DefaultBasicConfig().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if params.K != BF8 || params.L != BF128 {
		t.Fatal("default basic config did not wire the expected fields")
	}
}

func TestBasicConfigWithHashFunctionSHA3(t *testing.T) {
	cfg := DefaultBasicConfig().WithHashFunction("sha3").WithNVars(6).WithLogRows(3)
	params, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if params.Hash != HashFunc("sha3") {
		t.Fatalf("expected sha3 hash func, got %v", params.Hash)
	}
}

func TestBasicConfigRejectsUnknownHashFunction(t *testing.T) {
	cfg := DefaultBasicConfig().WithHashFunction("poseidon")
	if _, err := cfg.Build(); err == nil {
		t.Fatal("expected error for unknown hash function")
	}
}

func TestBasicConfigCloneIsIndependent(t *testing.T) {
	cfg := DefaultBasicConfig()
	clone := cfg.Clone()
	clone.WithNVars(3)
	if cfg.NVars == clone.NVars {
		t.Fatal("Clone shares state with the original config")
	}
}

func TestDefaultRingSwitchConfigRoundTrip(t *testing.T) {
	cfg := DefaultRingSwitchConfig()
	params, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := rand.New(rand.NewSource(9))
	poly := make([]Element, 1<<uint(params.NVars))
	for i := range poly {
		poly[i] = randElem(BF8, r)
	}
	query := make([]Element, params.NVars)
	for i := range query {
		query[i] = randElem(BF128, r)
	}

	commitment, committed, err := CommitRingSwitch(params, poly)
	if err != nil {
		t.Fatalf("CommitRingSwitch: %v", err)
	}

	proverCh := NewChallenger([]byte("config-test-seed"))
	proverCh.ObserveBytes(commitment.Inner.Root)
	proof, err := OpenRingSwitch(params, committed, poly, query, proverCh)
	if err != nil {
		t.Fatalf("OpenRingSwitch: %v", err)
	}

	verifierCh := NewChallenger([]byte("config-test-seed"))
	verifierCh.ObserveBytes(commitment.Inner.Root)
	ok, err := VerifyRingSwitch(params, commitment, query, proof, verifierCh)
	if err != nil {
		t.Fatalf("VerifyRingSwitch: %v", err)
	}
	if !ok {
		t.Fatal("VerifyRingSwitch rejected a valid proof")
	}
}
