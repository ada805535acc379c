// Package block implements the Block polynomial commitment scheme: a
// polynomial over the small field F is packed d_A-at-a-time into the
// encoding alphabet FA (a proper extension of F) before Reed-Solomon
// encoding, per Construction 3.11 of the reference construction. Challenges
// are drawn from FE, an extension of FA.
package block

import (
	"fmt"

	"github.com/vybium/binius-pcs/internal/binius/challenger"
	"github.com/vybium/binius-pcs/internal/binius/codes"
	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/merkle"
	"github.com/vybium/binius-pcs/internal/binius/multilinear"
	"github.com/vybium/binius-pcs/internal/binius/pcs/matutil"
	"github.com/vybium/binius-pcs/internal/binius/toweralgebra"
	"github.com/vybium/binius-pcs/internal/binius/utils"
)

// Params fixes the scheme's field and size choices. F is the coefficient
// field, FA the encoding alphabet (an extension of F), FE the challenge
// field (an extension of FA).
type Params struct {
	F, FA, FE   *field.Field
	NVars       int
	LogRows     int
	LogInvRate  int
	NChallenges int
	Hash        merkle.HashFunc
}

// NewParams validates the parameter set, defaulting Hash to sha256.
func NewParams(f, fa, fe *field.Field, nVars, logRows, logInvRate, nChallenges int) (Params, error) {
	p := Params{F: f, FA: fa, FE: fe, NVars: nVars, LogRows: logRows, LogInvRate: logInvRate, NChallenges: nChallenges, Hash: merkle.SHA256}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func log2Exact(n int) (int, error) {
	if !utils.IsPowerOfTwo(n) {
		return 0, fmt.Errorf("block: %d is not a positive power of two", n)
	}
	return utils.Log2(n), nil
}

// DegA is deg(FA/F), the number of F-coordinates packed into one FA element.
func (p Params) DegA() int { return p.FA.BitLength / p.F.BitLength }

// LogCols is n_vars - log_rows, the per-row message length in F-elements.
func (p Params) LogCols() int { return p.NVars - p.LogRows }

// Validate checks the field-extension chain and that the packed row and
// extended domain fit within FA's bit length.
func (p Params) Validate() error {
	if p.F == nil || p.FA == nil || p.FE == nil {
		return fmt.Errorf("block: F, FA, FE must be set")
	}
	if p.FA.BitLength%p.F.BitLength != 0 {
		return fmt.Errorf("block: FA (BF%d) is not an extension of F (BF%d)", p.FA.BitLength, p.F.BitLength)
	}
	if p.FE.BitLength%p.FA.BitLength != 0 {
		return fmt.Errorf("block: FE (BF%d) is not an extension of FA (BF%d)", p.FE.BitLength, p.FA.BitLength)
	}
	if p.LogRows < 0 || p.NVars < p.LogRows {
		return fmt.Errorf("block: log_rows=%d must be in [0, n_vars=%d]", p.LogRows, p.NVars)
	}
	if p.LogInvRate < 0 {
		return fmt.Errorf("block: log_inv_rate must be non-negative, got %d", p.LogInvRate)
	}
	if p.NChallenges <= 0 {
		return fmt.Errorf("block: n_challenges must be positive, got %d", p.NChallenges)
	}
	logDA, err := log2Exact(p.DegA())
	if err != nil {
		return fmt.Errorf("block: %w", err)
	}
	logCols := p.LogCols()
	if logCols < logDA {
		return fmt.Errorf("block: log_cols=%d is smaller than log2(deg(FA/F))=%d", logCols, logDA)
	}
	if logCols-logDA+p.LogInvRate > p.FA.BitLength {
		return fmt.Errorf("block: packed log_dim+log_inv_rate=%d exceeds FA's bit length %d", logCols-logDA+p.LogInvRate, p.FA.BitLength)
	}
	return nil
}

// Commitment is the public 32-byte Merkle root.
type Commitment struct {
	Root []byte
}

// Committed is the prover's retained state.
type Committed struct {
	Tree        *merkle.Tree
	EncodedRows [][]field.Element // FA-valued
}

func castRowToFA(row []field.Element, fa *field.Field, degA int) []field.Element {
	out := make([]field.Element, len(row)/degA)
	for i := range out {
		out[i] = field.FromUnpacked(row[i*degA:(i+1)*degA], fa)
	}
	return out
}

// Commit reshapes poly (length 2^NVars, over F) into a 2^LogRows x
// 2^LogCols matrix, packs each row d_A F-elements at a time into FA,
// RS-encodes over FA, and Merkle-commits the transposed columns.
func Commit(p Params, poly []field.Element) (Commitment, *Committed, error) {
	if err := p.Validate(); err != nil {
		return Commitment{}, nil, err
	}
	n := 1 << uint(p.NVars)
	if len(poly) != n {
		return Commitment{}, nil, fmt.Errorf("block: poly length %d != 2^n_vars=%d", len(poly), n)
	}

	logCols := p.LogCols()
	degA := p.DegA()
	logDA, _ := log2Exact(degA)
	rows := matutil.Reshape(poly, 1<<uint(p.LogRows), 1<<uint(logCols))

	rsCode, err := codes.NewReedSolomonCode(logCols-logDA, p.LogInvRate, p.FA)
	if err != nil {
		return Commitment{}, nil, fmt.Errorf("block: building RS code: %w", err)
	}

	encodedRows := make([][]field.Element, len(rows))
	for i, row := range rows {
		packed := castRowToFA(row, p.FA, degA)
		encoded, err := rsCode.Encode(packed)
		if err != nil {
			return Commitment{}, nil, fmt.Errorf("block: encoding row %d: %w", i, err)
		}
		encodedRows[i] = encoded
	}

	columns := matutil.Transpose(encodedRows)
	tree, err := merkle.Build(columns, p.Hash)
	if err != nil {
		return Commitment{}, nil, fmt.Errorf("block: committing columns: %w", err)
	}

	return Commitment{Root: tree.Root()}, &Committed{Tree: tree, EncodedRows: encodedRows}, nil
}

// Proof is the opening proof for one evaluation query.
type Proof struct {
	Eval     field.Element
	TPrime   []field.Element // FE-valued
	Columns  [][]field.Element
	Branches []merkle.Branch
}

// Open proves poly(query) = value at an FE^NVars point.
func Open(p Params, committed *Committed, poly []field.Element, query []field.Element, ch *challenger.Challenger) (*Proof, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(query) != p.NVars {
		return nil, fmt.Errorf("block: query length %d != n_vars=%d", len(query), p.NVars)
	}

	ext, err := multilinear.FromEvals(poly, p.F)
	if err != nil {
		return nil, fmt.Errorf("block: building extension: %w", err)
	}

	fullQuery, err := multilinear.WithFullQuery(query, p.FE)
	if err != nil {
		return nil, fmt.Errorf("block: building full query: %w", err)
	}
	value, err := ext.Evaluate(fullQuery)
	if err != nil {
		return nil, fmt.Errorf("block: evaluating at query: %w", err)
	}

	logCols := p.LogCols()
	high := query[logCols:]
	highQuery, err := multilinear.WithFullQuery(high, p.FE)
	if err != nil {
		return nil, fmt.Errorf("block: building high query: %w", err)
	}
	tPrime, err := ext.EvaluatePartialHigh(highQuery)
	if err != nil {
		return nil, fmt.Errorf("block: evaluate_partial_high: %w", err)
	}

	ch.ObserveElements(tPrime.Evals)

	degA := p.DegA()
	logDA, _ := log2Exact(degA)
	extendedLen := 1 << uint(logCols-logDA+p.LogInvRate)
	columns := matutil.Transpose(committed.EncodedRows)

	proofColumns := make([][]field.Element, p.NChallenges)
	branches := make([]merkle.Branch, p.NChallenges)
	for i := 0; i < p.NChallenges; i++ {
		idx, err := ch.SampleIndex(extendedLen)
		if err != nil {
			return nil, fmt.Errorf("block: sampling challenge %d: %w", i, err)
		}
		branch, err := committed.Tree.Open(idx)
		if err != nil {
			return nil, fmt.Errorf("block: opening Merkle branch for challenge %d: %w", i, err)
		}
		proofColumns[i] = columns[idx]
		branches[i] = branch
	}

	return &Proof{Eval: value, TPrime: tPrime.Evals, Columns: proofColumns, Branches: branches}, nil
}

// packGroup transposes a length-degA group of Fh-valued evaluations into a
// TowerAlgebra(F, Fv, Fh) element: each group member is unpacked into its F
// coordinates, the resulting degA x width_Fh matrix is transposed, and each
// new row (degA F-coordinates) is packed into one Fv element.
func packGroup(f, fv, fh *field.Field, group []field.Element) toweralgebra.Element {
	degA := len(group)
	widthFh := fh.BitLength / f.BitLength
	unpacked := make([][]field.Element, degA)
	for c, e := range group {
		unpacked[c] = e.UnpackInto(f)
	}
	rows := make([]field.Element, widthFh)
	for j := 0; j < widthFh; j++ {
		coords := make([]field.Element, degA)
		for c := 0; c < degA; c++ {
			coords[c] = unpacked[c][j]
		}
		rows[j] = field.FromUnpacked(coords, fv)
	}
	return toweralgebra.New(f, fv, fh, rows)
}

// Verify checks proof against commitment at query.
func Verify(p Params, commitment Commitment, query []field.Element, proof *Proof, ch *challenger.Challenger) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if len(query) != p.NVars {
		return false, fmt.Errorf("block: query length %d != n_vars=%d", len(query), p.NVars)
	}
	logCols := p.LogCols()
	if len(proof.TPrime) != 1<<uint(logCols) {
		return false, fmt.Errorf("block: t' length %d != 2^log_cols=%d", len(proof.TPrime), 1<<uint(logCols))
	}
	if len(proof.Columns) != p.NChallenges || len(proof.Branches) != p.NChallenges {
		return false, fmt.Errorf("block: proof carries %d/%d column/branch pairs, want %d", len(proof.Columns), len(proof.Branches), p.NChallenges)
	}

	ch.ObserveElements(proof.TPrime)

	degA := p.DegA()
	logDA, _ := log2Exact(degA)
	extendedLen := 1 << uint(logCols-logDA+p.LogInvRate)
	indices := make([]int, p.NChallenges)
	for i := 0; i < p.NChallenges; i++ {
		idx, err := ch.SampleIndex(extendedLen)
		if err != nil {
			return false, fmt.Errorf("block: sampling challenge %d: %w", i, err)
		}
		indices[i] = idx
	}

	for i, idx := range indices {
		if !merkle.VerifyBranch(commitment.Root, idx, proof.Columns[i], proof.Branches[i], p.Hash) {
			return false, nil
		}
	}

	// Low-side check: t' fully evaluated at the low coordinates must equal
	// the claimed value.
	low := query[:logCols]
	lowQuery, err := multilinear.WithFullQuery(low, p.FE)
	if err != nil {
		return false, fmt.Errorf("block: building low query: %w", err)
	}
	tPrimeExt, err := multilinear.FromEvals(proof.TPrime, p.FE)
	if err != nil {
		return false, fmt.Errorf("block: building t' extension: %w", err)
	}
	lowFold, err := tPrimeExt.EvaluatePartialLow(lowQuery)
	if err != nil {
		return false, fmt.Errorf("block: evaluate_partial_low: %w", err)
	}
	if len(lowFold.Evals) != 1 {
		return false, fmt.Errorf("block: low fold did not reduce to a scalar, got %d evals", len(lowFold.Evals))
	}
	if !lowFold.Evals[0].Equal(proof.Eval) {
		return false, nil
	}

	// High-side check: RS-consistency of the packed t' against the sampled
	// columns, via the TowerAlgebra(F, FA, FE) tensor construction.
	packedTPrime := make([]toweralgebra.Element, len(proof.TPrime)/degA)
	for i := range packedTPrime {
		packedTPrime[i] = packGroup(p.F, p.FA, p.FE, proof.TPrime[i*degA:(i+1)*degA])
	}
	rsCode, err := codes.NewReedSolomonCode(logCols-logDA, p.LogInvRate, p.FA)
	if err != nil {
		return false, fmt.Errorf("block: building RS code: %w", err)
	}
	uPrime, err := rsCode.EncodeAlgebra(packedTPrime)
	if err != nil {
		return false, fmt.Errorf("block: encoding packed t': %w", err)
	}

	high := query[logCols:]
	highQuery, err := multilinear.WithFullQuery(high, p.FE)
	if err != nil {
		return false, fmt.Errorf("block: building high query: %w", err)
	}
	expandHigh := highQuery.Expansion()

	for i, idx := range indices {
		column := proof.Columns[i]
		lhs := toweralgebra.Zero(p.F, p.FA, p.FE)
		for j, c := range column {
			lhs = lhs.Add(toweralgebra.FromTensor(p.F, p.FA, p.FE, c, expandHigh[j]))
		}
		if !lhs.Equal(uPrime[idx]) {
			return false, nil
		}
	}

	return true, nil
}
