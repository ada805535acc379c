// Package ringswitch implements the ring-switching polynomial commitment
// scheme: a K-valued polynomial is committed by packing it into an
// L-multilinear and delegating to an inner PCS over L, with a sum-check
// reduction bridging an evaluation query in L^n down to the inner scheme's
// evaluation point.
package ringswitch

import (
	"fmt"

	"github.com/vybium/binius-pcs/internal/binius/challenger"
	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/multilinear"
	"github.com/vybium/binius-pcs/internal/binius/pcs/basic"
	"github.com/vybium/binius-pcs/internal/binius/sumcheck"
	"github.com/vybium/binius-pcs/internal/binius/toweralgebra"
	"github.com/vybium/binius-pcs/internal/binius/utils"
)

// Params fixes K (the coefficient field), L (the ring-switching target and
// inner scheme's coefficient/challenge field), and the inner Basic PCS
// instance, whose NVars must equal NVars - log2(deg(L/K)).
type Params struct {
	K, L  *field.Field
	NVars int
	Inner basic.Params
}

func log2Exact(n int) (int, error) {
	if !utils.IsPowerOfTwo(n) {
		return 0, fmt.Errorf("ringswitch: %d is not a positive power of two", n)
	}
	return utils.Log2(n), nil
}

// DegL is deg(L/K).
func (p Params) DegL() int { return p.L.BitLength / p.K.BitLength }

// NewParams validates the parameter set, deriving the inner scheme's
// n_vars from NVars and deg(L/K).
func NewParams(k, l *field.Field, nVars int, inner basic.Params) (Params, error) {
	p := Params{K: k, L: l, NVars: nVars, Inner: inner}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks L extends K, the inner scheme's fields match L, and the
// inner scheme's n_vars equals NVars - log2(deg(L/K)).
func (p Params) Validate() error {
	if p.K == nil || p.L == nil {
		return fmt.Errorf("ringswitch: K and L must be set")
	}
	if p.L.BitLength%p.K.BitLength != 0 {
		return fmt.Errorf("ringswitch: L (BF%d) is not an extension of K (BF%d)", p.L.BitLength, p.K.BitLength)
	}
	logDL, err := log2Exact(p.DegL())
	if err != nil {
		return fmt.Errorf("ringswitch: %w", err)
	}
	if p.NVars < logDL {
		return fmt.Errorf("ringswitch: n_vars=%d is smaller than log2(deg(L/K))=%d", p.NVars, logDL)
	}
	if err := p.Inner.Validate(); err != nil {
		return fmt.Errorf("ringswitch: inner PCS: %w", err)
	}
	if p.Inner.K != p.L || p.Inner.L != p.L {
		return fmt.Errorf("ringswitch: inner PCS must commit over L with challenges in L")
	}
	if p.Inner.NVars != p.NVars-logDL {
		return fmt.Errorf("ringswitch: inner n_vars=%d != n_vars-log2(deg(L/K))=%d", p.Inner.NVars, p.NVars-logDL)
	}
	return nil
}

// castSliceToL bit-packs each consecutive dL-length run of K-elements into
// a single L-element, the genuine reinterpretation the inner PCS commits.
func castSliceToL(poly []field.Element, l *field.Field, dL int) []field.Element {
	out := make([]field.Element, len(poly)/dL)
	for i := range out {
		out[i] = field.FromUnpacked(poly[i*dL:(i+1)*dL], l)
	}
	return out
}

// Commitment wraps the inner scheme's commitment; spec's wire format makes
// the ring-switching commitment identical to the inner commitment's
// serialization.
type Commitment struct {
	Inner basic.Commitment
}

// Committed is the prover's retained state.
type Committed struct {
	Inner *basic.Committed
}

// Commit packs poly (length 2^NVars, over K) into an L-valued multilinear
// of 2^(NVars-log2(deg(L/K))) elements and commits it with the inner PCS.
func Commit(p Params, poly []field.Element) (Commitment, *Committed, error) {
	if err := p.Validate(); err != nil {
		return Commitment{}, nil, err
	}
	n := 1 << uint(p.NVars)
	if len(poly) != n {
		return Commitment{}, nil, fmt.Errorf("ringswitch: poly length %d != 2^n_vars=%d", len(poly), n)
	}
	dL := p.DegL()
	packed := castSliceToL(poly, p.L, dL)

	innerCommitment, innerCommitted, err := basic.Commit(p.Inner, packed)
	if err != nil {
		return Commitment{}, nil, fmt.Errorf("ringswitch: inner commit: %w", err)
	}
	return Commitment{Inner: innerCommitment}, &Committed{Inner: innerCommitted}, nil
}

// Proof is the opening proof for one evaluation query: the sum-check's
// per-round coefficients, the TowerAlgebra sumcheck_eval, the claimed
// evaluation value, and the inner PCS's proof at the reduced point.
type Proof struct {
	Eval         field.Element
	SumcheckEval toweralgebra.Element
	RoundCoeffs  []toweralgebra.Element
	Inner        *basic.Proof
}

// Open proves poly(query) = value at a K^NVars... point query ∈ L^NVars.
func Open(p Params, committed *Committed, poly []field.Element, query []field.Element, ch *challenger.Challenger) (*Proof, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(query) != p.NVars {
		return nil, fmt.Errorf("ringswitch: query length %d != n_vars=%d", len(query), p.NVars)
	}
	logDL, _ := log2Exact(p.DegL())
	dL := p.DegL()

	ext, err := multilinear.FromEvals(poly, p.K)
	if err != nil {
		return nil, fmt.Errorf("ringswitch: building extension: %w", err)
	}
	fullQuery, err := multilinear.WithFullQuery(query, p.L)
	if err != nil {
		return nil, fmt.Errorf("ringswitch: building full query: %w", err)
	}
	value, err := ext.Evaluate(fullQuery)
	if err != nil {
		return nil, fmt.Errorf("ringswitch: evaluating at query: %w", err)
	}

	high := query[logDL:]

	highQuery, err := multilinear.WithFullQuery(high, p.L)
	if err != nil {
		return nil, fmt.Errorf("ringswitch: building high query: %w", err)
	}
	partial, err := ext.EvaluatePartialHigh(highQuery)
	if err != nil {
		return nil, fmt.Errorf("ringswitch: evaluate_partial_high: %w", err)
	}
	sumcheckEval := toweralgebra.New(p.K, p.L, p.L, partial.Evals)
	ch.ObserveAlgebra(sumcheckEval)

	packed := castSliceToL(poly, p.L, dL)

	// The sum-check witness is the same packed L-multilinear committed to
	// the inner PCS; each round tensors it fresh against the eq table
	// rather than pre-tensoring the witness once up front.
	claim := sumcheck.Claim{EvalPoint: high, Sum: sumcheckEval}
	sumcheckProof, reduced, err := sumcheck.Prove(p.K, p.L, p.L, claim, packed, ch)
	if err != nil {
		return nil, fmt.Errorf("ringswitch: sum-check: %w", err)
	}

	innerProof, err := basic.Open(p.Inner, committed.Inner, packed, reduced.PartialPoint, ch)
	if err != nil {
		return nil, fmt.Errorf("ringswitch: inner open: %w", err)
	}

	return &Proof{
		Eval:         value,
		SumcheckEval: sumcheckEval,
		RoundCoeffs:  sumcheckProof.RoundCoeffs,
		Inner:        innerProof,
	}, nil
}

// Verify checks proof against commitment at query.
func Verify(p Params, commitment Commitment, query []field.Element, proof *Proof, ch *challenger.Challenger) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if len(query) != p.NVars {
		return false, fmt.Errorf("ringswitch: query length %d != n_vars=%d", len(query), p.NVars)
	}
	logDL, _ := log2Exact(p.DegL())

	ch.ObserveAlgebra(proof.SumcheckEval)

	low := query[:logDL]
	high := query[logDL:]

	lowQuery, err := multilinear.WithFullQuery(low, p.L)
	if err != nil {
		return false, fmt.Errorf("ringswitch: building low query: %w", err)
	}
	elemsExt, err := multilinear.FromEvals(proof.SumcheckEval.Elems(), p.L)
	if err != nil {
		return false, fmt.Errorf("ringswitch: building sumcheck_eval extension: %w", err)
	}
	computedValue, err := elemsExt.Evaluate(lowQuery)
	if err != nil {
		return false, fmt.Errorf("ringswitch: evaluating sumcheck_eval at low: %w", err)
	}
	if !computedValue.Equal(proof.Eval) {
		return false, nil
	}

	claim := sumcheck.Claim{EvalPoint: high, Sum: proof.SumcheckEval}
	sumcheckProof := sumcheck.Proof{RoundCoeffs: proof.RoundCoeffs}
	reduced, err := sumcheck.Verify(claim, sumcheckProof, ch)
	if err != nil {
		return false, fmt.Errorf("ringswitch: sum-check verify: %w", err)
	}

	extracted, ok := reduced.Eval.Transpose().TryExtractVertical()
	if !ok {
		return false, nil
	}
	if !extracted.Equal(proof.Inner.Eval) {
		return false, nil
	}

	return basic.Verify(p.Inner, commitment.Inner, reduced.PartialPoint, proof.Inner, ch)
}
