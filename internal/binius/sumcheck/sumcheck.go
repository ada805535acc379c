// Package sumcheck implements the multilinear sum-check prover/verifier
// used by the ring-switching PCS to reduce a hypercube-sum claim over a
// scalar witness to a single evaluation-point claim, tensoring each round's
// TowerAlgebra pairing on the fly from the witness as it currently stands.
package sumcheck

import (
	"fmt"

	"github.com/vybium/binius-pcs/internal/binius/challenger"
	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/multilinear"
	"github.com/vybium/binius-pcs/internal/binius/toweralgebra"
)

// Claim is the statement being reduced: Sum == sum over the k-dimensional
// hypercube of eq(EvalPoint, x) * W(x), for the witness W supplied
// separately to Prove.
type Claim struct {
	EvalPoint []field.Element // length k, in the vertical field Fv
	Sum       toweralgebra.Element
}

// ReducedClaim is the output of k rounds: a single evaluation-point claim
// the caller forwards to whatever binds the witness (an inner PCS, or a
// try_extract_vertical check).
type ReducedClaim struct {
	PartialPoint []field.Element // r_0..r_{k-1}, in the challenge field
	Eval         toweralgebra.Element
}

// Proof is the prover's k round messages: one TowerAlgebra linear
// coefficient per round.
type Proof struct {
	RoundCoeffs []toweralgebra.Element
}

func eqTable(z []field.Element, f *field.Field) ([]field.Element, error) {
	q, err := multilinear.WithFullQuery(z, f)
	if err != nil {
		return nil, fmt.Errorf("sumcheck: building eq table: %w", err)
	}
	return q.Expansion(), nil
}

// Prove runs the k-round reduction over a plain Fh-valued witness (the same
// multilinear the caller has committed elsewhere), observing each round's
// linear coefficient into ch and sampling the round challenge from it,
// matching the verifier's replay step for step.
//
// Each round's TowerAlgebra pairing is built fresh via FromTensor from the
// witness value as it currently stands; the witness itself folds between
// rounds by ordinary field interpolation, not by any TowerAlgebra scaling.
// Folding the pre-tensored rows directly does not commute with folding the
// underlying scalar first: unpacking an Fh element into its F-coordinates is
// F-linear but not Fv-linear, so the two operations must stay in this order.
func Prove(f, fv, fh *field.Field, claim Claim, witness []field.Element, ch *challenger.Challenger) (Proof, ReducedClaim, error) {
	k := len(claim.EvalPoint)
	if len(witness) != 1<<uint(k) {
		return Proof{}, ReducedClaim{}, fmt.Errorf("sumcheck: witness length %d != 2^%d", len(witness), k)
	}
	if len(witness) == 0 {
		return Proof{}, ReducedClaim{}, fmt.Errorf("sumcheck: witness must be non-empty")
	}

	eq, err := eqTable(claim.EvalPoint, fv)
	if err != nil {
		return Proof{}, ReducedClaim{}, err
	}

	cur := append([]field.Element(nil), witness...)
	s := claim.Sum
	roundCoeffs := make([]toweralgebra.Element, k)
	partialPoint := make([]field.Element, k)

	for i := 0; i < k; i++ {
		half := len(cur) / 2
		eval0 := toweralgebra.Zero(f, fv, fh)
		eval1 := toweralgebra.Zero(f, fv, fh)
		eqRest := make([]field.Element, half)
		for j := 0; j < half; j++ {
			eqRest[j] = eq[2*j].Add(eq[2*j+1])
			eval0 = eval0.Add(toweralgebra.FromTensor(f, fv, fh, eqRest[j], cur[2*j]))
			eval1 = eval1.Add(toweralgebra.FromTensor(f, fv, fh, eqRest[j], cur[2*j+1]))
		}
		linear := eval1.Sub(eval0)
		roundCoeffs[i] = linear
		ch.ObserveAlgebra(linear)

		r, err := ch.Sample(fh)
		if err != nil {
			return Proof{}, ReducedClaim{}, fmt.Errorf("sumcheck: sampling round %d challenge: %w", i, err)
		}
		partialPoint[i] = r

		zi := claim.EvalPoint[i]
		constant := s.Sub(linear.ScaleVertical(zi))
		s = constant.Add(linear.ScaleHorizontal(r))

		oneMinusR := fh.One().Sub(r)
		next := make([]field.Element, half)
		for j := 0; j < half; j++ {
			next[j] = cur[2*j].Mul(oneMinusR).Add(cur[2*j+1].Mul(r))
		}
		cur = next
		eq = eqRest
	}

	return Proof{RoundCoeffs: roundCoeffs}, ReducedClaim{PartialPoint: partialPoint, Eval: s}, nil
}

// Verify replays the k rounds using the prover's round coefficients,
// deriving the same challenges from ch (which must have observed the same
// prefix as the prover's challenger up to this point), and returns the
// reduced claim for the caller to bind independently.
func Verify(claim Claim, proof Proof, ch *challenger.Challenger) (ReducedClaim, error) {
	k := len(claim.EvalPoint)
	if len(proof.RoundCoeffs) != k {
		return ReducedClaim{}, fmt.Errorf("sumcheck: round count mismatch: got %d, want %d", len(proof.RoundCoeffs), k)
	}
	if k == 0 {
		return ReducedClaim{PartialPoint: nil, Eval: claim.Sum}, nil
	}

	fh := claim.Sum.Fh
	s := claim.Sum
	partialPoint := make([]field.Element, k)

	for i := 0; i < k; i++ {
		linear := proof.RoundCoeffs[i]
		ch.ObserveAlgebra(linear)

		r, err := ch.Sample(fh)
		if err != nil {
			return ReducedClaim{}, fmt.Errorf("sumcheck: sampling round %d challenge: %w", i, err)
		}
		partialPoint[i] = r

		zi := claim.EvalPoint[i]
		constant := s.Sub(linear.ScaleVertical(zi))
		s = constant.Add(linear.ScaleHorizontal(r))
	}

	return ReducedClaim{PartialPoint: partialPoint, Eval: s}, nil
}
