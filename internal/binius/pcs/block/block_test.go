package block

import (
	"math/rand"
	"testing"

	"github.com/vybium/binius-pcs/internal/binius/challenger"
	"github.com/vybium/binius-pcs/internal/binius/field"
)

func randElem(f *field.Field, r *rand.Rand) field.Element {
	if f.BitLength <= 64 {
		var mask uint64
		if f.BitLength == 64 {
			mask = ^uint64(0)
		} else {
			mask = (uint64(1) << uint(f.BitLength)) - 1
		}
		return field.NewElement(f, r.Uint64()&mask)
	}
	return field.NewElementWide(f, r.Uint64(), r.Uint64())
}

// scenarioParams builds the S2 parameter set: F=BF8, FA=BF32, FE=BF128,
// n_vars=11, log_rows=3, log_inv_rate=2, n_challenges=64.
func scenarioParams(t *testing.T) Params {
	t.Helper()
	p, err := NewParams(field.BF8, field.BF32, field.BF128, 11, 3, 2, 64)
	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}
	return p
}

func randomPolyAndQuery(t *testing.T, p Params, seed int64) ([]field.Element, []field.Element) {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	poly := make([]field.Element, 1<<uint(p.NVars))
	for i := range poly {
		poly[i] = randElem(p.F, r)
	}
	query := make([]field.Element, p.NVars)
	for i := range query {
		query[i] = randElem(p.FE, r)
	}
	return poly, query
}

func TestCommitOpenVerifyRoundTrip(t *testing.T) {
	p := scenarioParams(t)
	poly, query := randomPolyAndQuery(t, p, 123)

	commitment, committed, err := Commit(p, poly)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	proverCh := challenger.New([]byte("block-pcs-test-seed"), challenger.SHA256)
	proverCh.ObserveBytes(commitment.Root)
	proof, err := Open(p, committed, poly, query, proverCh)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	verifierCh := challenger.New([]byte("block-pcs-test-seed"), challenger.SHA256)
	verifierCh.ObserveBytes(commitment.Root)
	ok, err := Verify(p, commitment, query, proof, verifierCh)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("Verify rejected a valid proof")
	}
}

// TestVerifyRejectsTamperedBranch covers spec §8's S4 scenario.
func TestVerifyRejectsTamperedBranch(t *testing.T) {
	p := scenarioParams(t)
	poly, query := randomPolyAndQuery(t, p, 123)

	commitment, committed, err := Commit(p, poly)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	proverCh := challenger.New([]byte("block-pcs-test-seed"), challenger.SHA256)
	proverCh.ObserveBytes(commitment.Root)
	proof, err := Open(p, committed, poly, query, proverCh)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	proof.Branches[0][0][0] ^= 0xFF

	verifierCh := challenger.New([]byte("block-pcs-test-seed"), challenger.SHA256)
	verifierCh.ObserveBytes(commitment.Root)
	ok, err := Verify(p, commitment, query, proof, verifierCh)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("Verify accepted a proof with a tampered Merkle branch")
	}
}

// TestVerifyRejectsWrongValue covers spec §8's S5 scenario.
func TestVerifyRejectsWrongValue(t *testing.T) {
	p := scenarioParams(t)
	poly, query := randomPolyAndQuery(t, p, 123)

	commitment, committed, err := Commit(p, poly)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	proverCh := challenger.New([]byte("block-pcs-test-seed"), challenger.SHA256)
	proverCh.ObserveBytes(commitment.Root)
	proof, err := Open(p, committed, poly, query, proverCh)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	proof.Eval = proof.Eval.Add(field.BF128.One())

	verifierCh := challenger.New([]byte("block-pcs-test-seed"), challenger.SHA256)
	verifierCh.ObserveBytes(commitment.Root)
	ok, err := Verify(p, commitment, query, proof, verifierCh)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("Verify accepted a proof with a tampered evaluation value")
	}
}

func TestNewParamsRejectsOversizedDomain(t *testing.T) {
	// log_cols=8, log_dA=2, log_inv_rate=30 => packed dim 36 > FA.BitLength=32
	if _, err := NewParams(field.BF8, field.BF32, field.BF128, 11, 3, 30, 16); err == nil {
		t.Fatal("expected error for oversized additive domain")
	}
}

func TestNewParamsRejectsNonExtensionAlphabet(t *testing.T) {
	if _, err := NewParams(field.BF8, field.BF4, field.BF128, 11, 3, 2, 16); err == nil {
		t.Fatal("expected error for FA not extending F")
	}
}
