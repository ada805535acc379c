// Package basic implements the Basic polynomial commitment scheme: a
// polynomial over K is committed row-by-row with a Reed-Solomon code over K
// itself (the encoding alphabet equals the coefficient field), and opened
// against challenges drawn from an extension field L, per Construction 3.7
// of the reference construction.
package basic

import (
	"fmt"

	"github.com/vybium/binius-pcs/internal/binius/challenger"
	"github.com/vybium/binius-pcs/internal/binius/codes"
	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/merkle"
	"github.com/vybium/binius-pcs/internal/binius/multilinear"
	"github.com/vybium/binius-pcs/internal/binius/pcs/matutil"
)

// Params fixes the scheme's field and size choices. K is the coefficient
// and encoding-alphabet field; L is the challenge field, an extension of K.
type Params struct {
	K, L         *field.Field
	NVars        int
	LogRows      int
	LogInvRate   int
	NChallenges  int
	Hash         merkle.HashFunc
}

// NewParams validates the parameter set and fills in a default hash if Hash
// is the zero value.
func NewParams(k, l *field.Field, nVars, logRows, logInvRate, nChallenges int) (Params, error) {
	p := Params{K: k, L: l, NVars: nVars, LogRows: logRows, LogInvRate: logInvRate, NChallenges: nChallenges, Hash: merkle.SHA256}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks the structural constraints spec's Basic PCS section
// requires: L must extend K, rows must fit within n_vars, and the extended
// row length must fit within K's additive domain.
func (p Params) Validate() error {
	if p.K == nil || p.L == nil {
		return fmt.Errorf("basic: K and L must be set")
	}
	if p.L.BitLength%p.K.BitLength != 0 {
		return fmt.Errorf("basic: L (BF%d) is not an extension of K (BF%d)", p.L.BitLength, p.K.BitLength)
	}
	if p.LogRows < 0 || p.NVars < p.LogRows {
		return fmt.Errorf("basic: log_rows=%d must be in [0, n_vars=%d]", p.LogRows, p.NVars)
	}
	if p.LogInvRate < 0 {
		return fmt.Errorf("basic: log_inv_rate must be non-negative, got %d", p.LogInvRate)
	}
	if p.NChallenges <= 0 {
		return fmt.Errorf("basic: n_challenges must be positive, got %d", p.NChallenges)
	}
	if p.LogCols()+p.LogInvRate > p.K.BitLength {
		return fmt.Errorf("basic: log_cols+log_inv_rate=%d exceeds K's bit length %d", p.LogCols()+p.LogInvRate, p.K.BitLength)
	}
	return nil
}

// LogCols is n_vars - log_rows, the per-row message length.
func (p Params) LogCols() int { return p.NVars - p.LogRows }

// Commitment is the public 32-byte Merkle root.
type Commitment struct {
	Root []byte
}

// Committed is the prover's retained state: the column Merkle tree and the
// per-row encoded matrix it was built from.
type Committed struct {
	Tree        *merkle.Tree
	EncodedRows [][]field.Element
}

// Commit reshapes poly (length 2^NVars, over K) into a 2^LogRows x
// 2^LogCols matrix, RS-encodes each row over K, and Merkle-commits the
// transposed columns.
func Commit(p Params, poly []field.Element) (Commitment, *Committed, error) {
	if err := p.Validate(); err != nil {
		return Commitment{}, nil, err
	}
	n := 1 << uint(p.NVars)
	if len(poly) != n {
		return Commitment{}, nil, fmt.Errorf("basic: poly length %d != 2^n_vars=%d", len(poly), n)
	}

	logCols := p.LogCols()
	rows := matutil.Reshape(poly, 1<<uint(p.LogRows), 1<<uint(logCols))

	rsCode, err := codes.NewReedSolomonCode(logCols, p.LogInvRate, p.K)
	if err != nil {
		return Commitment{}, nil, fmt.Errorf("basic: building RS code: %w", err)
	}

	encodedRows := make([][]field.Element, len(rows))
	for i, row := range rows {
		encoded, err := rsCode.Encode(row)
		if err != nil {
			return Commitment{}, nil, fmt.Errorf("basic: encoding row %d: %w", i, err)
		}
		encodedRows[i] = encoded
	}

	columns := matutil.Transpose(encodedRows)
	tree, err := merkle.Build(columns, p.Hash)
	if err != nil {
		return Commitment{}, nil, fmt.Errorf("basic: committing columns: %w", err)
	}

	return Commitment{Root: tree.Root()}, &Committed{Tree: tree, EncodedRows: encodedRows}, nil
}

// Proof is the opening proof for one evaluation query.
type Proof struct {
	Eval     field.Element
	TPrime   []field.Element
	Columns  [][]field.Element
	Branches []merkle.Branch
}

// Open proves poly(query) = value at an L^NVars point, observing t'.evals
// into ch and sampling NChallenges column indices from it. ch must be a
// fresh branch of the same transcript the verifier will replay.
func Open(p Params, committed *Committed, poly []field.Element, query []field.Element, ch *challenger.Challenger) (*Proof, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(query) != p.NVars {
		return nil, fmt.Errorf("basic: query length %d != n_vars=%d", len(query), p.NVars)
	}

	ext, err := multilinear.FromEvals(poly, p.K)
	if err != nil {
		return nil, fmt.Errorf("basic: building extension: %w", err)
	}

	fullQuery, err := multilinear.WithFullQuery(query, p.L)
	if err != nil {
		return nil, fmt.Errorf("basic: building full query: %w", err)
	}
	value, err := ext.Evaluate(fullQuery)
	if err != nil {
		return nil, fmt.Errorf("basic: evaluating at query: %w", err)
	}

	logCols := p.LogCols()
	high := query[logCols:]
	highQuery, err := multilinear.WithFullQuery(high, p.L)
	if err != nil {
		return nil, fmt.Errorf("basic: building high query: %w", err)
	}
	tPrime, err := ext.EvaluatePartialHigh(highQuery)
	if err != nil {
		return nil, fmt.Errorf("basic: evaluate_partial_high: %w", err)
	}

	ch.ObserveElements(tPrime.Evals)

	extendedLen := 1 << uint(logCols+p.LogInvRate)
	columns := matutil.Transpose(committed.EncodedRows)

	proofColumns := make([][]field.Element, p.NChallenges)
	branches := make([]merkle.Branch, p.NChallenges)
	for i := 0; i < p.NChallenges; i++ {
		idx, err := ch.SampleIndex(extendedLen)
		if err != nil {
			return nil, fmt.Errorf("basic: sampling challenge %d: %w", i, err)
		}
		branch, err := committed.Tree.Open(idx)
		if err != nil {
			return nil, fmt.Errorf("basic: opening Merkle branch for challenge %d: %w", i, err)
		}
		proofColumns[i] = columns[idx]
		branches[i] = branch
	}

	return &Proof{Eval: value, TPrime: tPrime.Evals, Columns: proofColumns, Branches: branches}, nil
}

// Verify checks proof against commitment at query, replaying the same
// transcript steps Open took on ch (a fresh branch observing the same
// prefix as the prover's challenger).
func Verify(p Params, commitment Commitment, query []field.Element, proof *Proof, ch *challenger.Challenger) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if len(query) != p.NVars {
		return false, fmt.Errorf("basic: query length %d != n_vars=%d", len(query), p.NVars)
	}
	logCols := p.LogCols()
	if len(proof.TPrime) != 1<<uint(logCols) {
		return false, fmt.Errorf("basic: t' length %d != 2^log_cols=%d", len(proof.TPrime), 1<<uint(logCols))
	}
	if len(proof.Columns) != p.NChallenges || len(proof.Branches) != p.NChallenges {
		return false, fmt.Errorf("basic: proof carries %d/%d column/branch pairs, want %d", len(proof.Columns), len(proof.Branches), p.NChallenges)
	}

	ch.ObserveElements(proof.TPrime)

	extendedLen := 1 << uint(logCols+p.LogInvRate)
	indices := make([]int, p.NChallenges)
	for i := 0; i < p.NChallenges; i++ {
		idx, err := ch.SampleIndex(extendedLen)
		if err != nil {
			return false, fmt.Errorf("basic: sampling challenge %d: %w", i, err)
		}
		indices[i] = idx
	}

	for i, idx := range indices {
		if !merkle.VerifyBranch(commitment.Root, idx, proof.Columns[i], proof.Branches[i], p.Hash) {
			return false, nil
		}
	}

	low := query[:logCols]
	lowQuery, err := multilinear.WithFullQuery(low, p.L)
	if err != nil {
		return false, fmt.Errorf("basic: building low query: %w", err)
	}
	tPrimeExt, err := multilinear.FromEvals(proof.TPrime, p.L)
	if err != nil {
		return false, fmt.Errorf("basic: building t' extension: %w", err)
	}
	computedValue, err := tPrimeExt.Evaluate(lowQuery)
	if err != nil {
		return false, fmt.Errorf("basic: evaluating t' at low: %w", err)
	}
	if !computedValue.Equal(proof.Eval) {
		return false, nil
	}

	rsCode, err := codes.NewReedSolomonCode(logCols, p.LogInvRate, p.K)
	if err != nil {
		return false, fmt.Errorf("basic: building RS code: %w", err)
	}
	encodedTPrime, err := rsCode.Encode(proof.TPrime)
	if err != nil {
		return false, fmt.Errorf("basic: encoding t': %w", err)
	}

	high := query[logCols:]
	highQuery, err := multilinear.WithFullQuery(high, p.L)
	if err != nil {
		return false, fmt.Errorf("basic: building high query: %w", err)
	}
	expandHigh := highQuery.Expansion()

	for i, idx := range indices {
		lhs, err := multilinear.InnerProduct(expandHigh, proof.Columns[i], p.L)
		if err != nil {
			return false, fmt.Errorf("basic: RS-consistency inner product: %w", err)
		}
		if !lhs.Equal(encodedTPrime[idx]) {
			return false, nil
		}
	}

	return true, nil
}
