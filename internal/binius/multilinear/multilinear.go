// Package multilinear implements MultilinearExtension and MultilinearQuery:
// the evaluation-table representation of a multilinear polynomial over the
// Boolean hypercube, its equality-indicator query expansion, and the
// partial-high/partial-low folds used throughout the PCS commit/open/verify
// protocols.
package multilinear

import (
	"fmt"

	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/utils"
)

// Query holds the length-2^k equality-indicator expansion of a point
// q in L^k, built incrementally the way the reference implementation
// folds one coordinate at a time.
type Query struct {
	Field    *field.Field
	NVars    int
	expanded []field.Element
}

// NewQuery starts an empty query (n_vars=0, expansion=[1]) over field f.
func NewQuery(f *field.Field) *Query {
	return &Query{Field: f, NVars: 0, expanded: []field.Element{f.One()}}
}

// WithFullQuery builds the expansion for the whole point q at once.
func WithFullQuery(q []field.Element, f *field.Field) (*Query, error) {
	query := NewQuery(f)
	if err := query.Update(q); err != nil {
		return nil, err
	}
	return query, nil
}

// Update folds in extra coordinates, doubling the expansion table once per
// coordinate: the new coordinate becomes the new high-order index bit.
func (q *Query) Update(coords []field.Element) error {
	expanded := q.expanded
	for _, coord := range coords {
		one, err := widen(q.Field.One(), coord.Field())
		if err != nil {
			return fmt.Errorf("multilinear: query update: %w", err)
		}
		notCoord := one.Sub(coord)
		p0 := make([]field.Element, len(expanded))
		for i, v := range expanded {
			p0[i] = notCoord.Mul(v)
		}
		p1 := make([]field.Element, len(expanded))
		for i, v := range expanded {
			p1[i] = p0[i].Add(v)
		}
		next := make([]field.Element, 0, len(expanded)*2)
		next = append(next, p0...)
		next = append(next, p1...)
		expanded = next
	}
	q.NVars += len(coords)
	q.expanded = expanded
	return nil
}

// Expansion returns the length-2^NVars equality-indicator table.
func (q *Query) Expansion() []field.Element {
	out := make([]field.Element, len(q.expanded))
	copy(out, q.expanded)
	return out
}

// widen relabels e into target, which must be target itself or an
// extension of e's field — always true here since callers only ever widen
// toward the join of two operand fields.
func widen(e field.Element, target *field.Field) (field.Element, error) {
	if e.Field() == target {
		return e, nil
	}
	if target.BitLength%e.Field().BitLength != 0 {
		return field.Element{}, fmt.Errorf("multilinear: BF%d is not an extension of BF%d", target.BitLength, e.Field().BitLength)
	}
	return field.Widen(e, target), nil
}

// Extension is the unique multilinear polynomial agreeing with evals on the
// hypercube, n_vars = log2(len(evals)).
type Extension struct {
	Field *field.Field
	NVars int
	Evals []field.Element
}

// FromEvals builds an Extension, inferring n_vars from the evals length
// (which must be a power of two).
func FromEvals(evals []field.Element, f *field.Field) (*Extension, error) {
	n := len(evals)
	if !utils.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("multilinear: evals length %d is not a positive power of two", n)
	}
	nVars := utils.Log2(n)
	return &Extension{Field: f, NVars: nVars, Evals: append([]field.Element(nil), evals...)}, nil
}

func widerField(a, b *field.Field) (*field.Field, error) {
	if a == b {
		return a, nil
	}
	if b.BitLength%a.BitLength == 0 {
		return b, nil
	}
	if a.BitLength%b.BitLength == 0 {
		return a, nil
	}
	return nil, fmt.Errorf("multilinear: neither BF%d nor BF%d is an extension of the other", a.BitLength, b.BitLength)
}

// InnerProduct returns <xs, ys> over f, widening each operand into f first.
// Exported for the PCS layers, which need the same row/column dot products
// the reference implementation's vector_dot_product performs outside of any
// Extension.
func InnerProduct(xs, ys []field.Element, f *field.Field) (field.Element, error) {
	return innerProduct(xs, ys, f)
}

func innerProduct(xs, ys []field.Element, f *field.Field) (field.Element, error) {
	if len(xs) != len(ys) {
		return field.Element{}, fmt.Errorf("multilinear: inner product length mismatch %d vs %d", len(xs), len(ys))
	}
	acc := f.Zero()
	for i := range xs {
		x, err := widen(xs[i], f)
		if err != nil {
			return field.Element{}, err
		}
		y, err := widen(ys[i], f)
		if err != nil {
			return field.Element{}, err
		}
		acc = acc.Add(x.Mul(y))
	}
	return acc, nil
}

// Evaluate returns <query.Expansion(), evals> over the join of the two
// fields, requiring query.NVars == e.NVars.
func (e *Extension) Evaluate(q *Query) (field.Element, error) {
	if q.NVars != e.NVars {
		return field.Element{}, fmt.Errorf("multilinear: query n_vars=%d does not match extension n_vars=%d", q.NVars, e.NVars)
	}
	out, err := widerField(q.Field, e.Field)
	if err != nil {
		return field.Element{}, fmt.Errorf("multilinear: evaluate: %w", err)
	}
	return innerProduct(q.Expansion(), e.Evals, out)
}

// EvaluatePartialHigh treats evals as a 2^{q.NVars} x 2^{NVars-q.NVars}
// row-major matrix (q consumes the high-order bits) and returns
// expand(q)*M, a length-2^{NVars-q.NVars} extension.
func (e *Extension) EvaluatePartialHigh(q *Query) (*Extension, error) {
	if q.NVars > e.NVars {
		return nil, fmt.Errorf("multilinear: partial-high query n_vars=%d exceeds extension n_vars=%d", q.NVars, e.NVars)
	}
	out, err := widerField(q.Field, e.Field)
	if err != nil {
		return nil, fmt.Errorf("multilinear: evaluate_partial_high: %w", err)
	}
	rowLength := 1 << uint(e.NVars-q.NVars)
	expansion := q.Expansion()
	numRows := len(expansion)

	newEvals := make([]field.Element, rowLength)
	for col := 0; col < rowLength; col++ {
		acc := out.Zero()
		for row := 0; row < numRows; row++ {
			v := e.Evals[row*rowLength+col]
			vw, err := widen(v, out)
			if err != nil {
				return nil, err
			}
			qw, err := widen(expansion[row], out)
			if err != nil {
				return nil, err
			}
			acc = acc.Add(qw.Mul(vw))
		}
		newEvals[col] = acc
	}
	return FromEvals(newEvals, out)
}

// EvaluatePartialLow is the symmetric low-bit fold: q consumes the
// low-order bits within each block of length 2^{q.NVars}.
func (e *Extension) EvaluatePartialLow(q *Query) (*Extension, error) {
	if q.NVars > e.NVars {
		return nil, fmt.Errorf("multilinear: partial-low query n_vars=%d exceeds extension n_vars=%d", q.NVars, e.NVars)
	}
	out, err := widerField(q.Field, e.Field)
	if err != nil {
		return nil, fmt.Errorf("multilinear: evaluate_partial_low: %w", err)
	}
	rowLength := 1 << uint(q.NVars)
	numRows := len(e.Evals) / rowLength
	expansion := q.Expansion()

	newEvals := make([]field.Element, numRows)
	for row := 0; row < numRows; row++ {
		acc, err := innerProduct(e.Evals[row*rowLength:(row+1)*rowLength], expansion, out)
		if err != nil {
			return nil, err
		}
		newEvals[row] = acc
	}
	return FromEvals(newEvals, out)
}
