package sumcheck

import (
	"math/rand"
	"testing"

	"github.com/vybium/binius-pcs/internal/binius/challenger"
	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/multilinear"
	"github.com/vybium/binius-pcs/internal/binius/toweralgebra"
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

// computeSum directly evaluates Sum_x eq(z,x)*FromTensor(1,W(x)) by brute
// force, the reference the prover/verifier reduction must agree with.
func computeSum(f, fv, fh *field.Field, z []field.Element, witness []field.Element) (toweralgebra.Element, error) {
	eq, err := multilinear.WithFullQuery(z, fv)
	if err != nil {
		return toweralgebra.Element{}, err
	}
	expansion := eq.Expansion()
	sum := toweralgebra.Zero(f, fv, fh)
	for i, w := range witness {
		sum = sum.Add(toweralgebra.FromTensor(f, fv, fh, expansion[i], w))
	}
	return sum, nil
}

// TestProveVerifyAgree checks that the prover and an independently driven
// verifier (same transcript seed) end up with matching ReducedClaims,
// starting from a claimed sum computed by brute force.
func TestProveVerifyAgree(t *testing.T) {
	r := rand.New(rand.NewSource(51))
	f, fv, fh := field.BF8, field.BF128, field.BF128
	k := 4

	witness := make([]field.Element, 1<<uint(k))
	for i := range witness {
		witness[i] = randElem(fh, r)
	}

	z := make([]field.Element, k)
	for i := range z {
		z[i] = randElem(fv, r)
	}

	sum, err := computeSum(f, fv, fh, z, witness)
	if err != nil {
		t.Fatalf("computeSum: %v", err)
	}
	claim := Claim{EvalPoint: z, Sum: sum}

	proverCh := challenger.New([]byte("sumcheck-test-seed"), challenger.SHA256)
	proof, proverReduced, err := Prove(f, fv, fh, claim, witness, proverCh)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	verifierCh := challenger.New([]byte("sumcheck-test-seed"), challenger.SHA256)
	verifierReduced, err := Verify(claim, proof, verifierCh)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if len(proverReduced.PartialPoint) != k {
		t.Fatalf("prover partial point length = %d, want %d", len(proverReduced.PartialPoint), k)
	}
	for i := range proverReduced.PartialPoint {
		if !proverReduced.PartialPoint[i].Equal(verifierReduced.PartialPoint[i]) {
			t.Fatalf("partial point %d diverged between prover and verifier", i)
		}
	}
	if !proverReduced.Eval.Equal(verifierReduced.Eval) {
		t.Fatal("prover and verifier reduced eval diverged")
	}
}

// TestProveFirstRoundConsistentWithClaim checks the round-0 update directly
// against the claimed sum, independent of the Prove/Verify bookkeeping:
// Sum == (eval0 + z_0*linear) reconstructed from the witness by brute force.
func TestProveFirstRoundConsistentWithClaim(t *testing.T) {
	r := rand.New(rand.NewSource(52))
	f, fv, fh := field.BF8, field.BF128, field.BF128
	k := 3

	witness := make([]field.Element, 1<<uint(k))
	for i := range witness {
		witness[i] = randElem(fh, r)
	}
	z := make([]field.Element, k)
	for i := range z {
		z[i] = randElem(fv, r)
	}
	sum, err := computeSum(f, fv, fh, z, witness)
	if err != nil {
		t.Fatalf("computeSum: %v", err)
	}
	claim := Claim{EvalPoint: z, Sum: sum}

	ch := challenger.New([]byte("first-round-seed"), challenger.SHA256)
	proof, _, err := Prove(f, fv, fh, claim, witness, ch)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	eq, err := eqTable(z[1:], fv)
	if err != nil {
		t.Fatalf("eqTable: %v", err)
	}
	half := len(witness) / 2
	eval0 := toweralgebra.Zero(f, fv, fh)
	for j := 0; j < half; j++ {
		eval0 = eval0.Add(toweralgebra.FromTensor(f, fv, fh, eq[j], witness[2*j]))
	}
	reconstructed := eval0.Add(proof.RoundCoeffs[0].ScaleVertical(z[0]))
	if !reconstructed.Equal(sum) {
		t.Fatal("round-0 coefficient inconsistent with claimed sum")
	}
}

// TestVerifyRejectsRoundCountMismatch covers spec §7's sum-check round
// count mismatch VerificationFailure kind.
func TestVerifyRejectsRoundCountMismatch(t *testing.T) {
	f, fv, fh := field.BF8, field.BF128, field.BF128
	claim := Claim{
		EvalPoint: []field.Element{fv.Zero(), fv.Zero()},
		Sum:       toweralgebra.Zero(f, fv, fh),
	}
	proof := Proof{RoundCoeffs: []toweralgebra.Element{toweralgebra.Zero(f, fv, fh)}}
	ch := challenger.New([]byte("seed"), challenger.SHA256)
	if _, err := Verify(claim, proof, ch); err == nil {
		t.Fatal("expected error for round count mismatch")
	}
}
