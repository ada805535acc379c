// Package toweralgebra implements TowerAlgebra, the bilinear-form object
// F_v ⊗_F F_h used by the block PCS and the ring-switching sum-check to
// tie a small base field F to a vertical extension F_v and a horizontal
// extension F_h.
package toweralgebra

import (
	"fmt"

	"github.com/vybium/binius-pcs/internal/binius/field"
)

// Element is a value of F_v ⊗_F F_h, materialized as a length n_rows
// vector of F_v-elements, one per F-coordinate of F_h (n_rows = deg(F_h/F)).
type Element struct {
	F, Fv, Fh *field.Field
	elems     []field.Element // length n_rows = deg(Fh/F), each in Fv
}

func checkFields(f, fv, fh *field.Field) error {
	if fv.BitLength%f.BitLength != 0 {
		return fmt.Errorf("toweralgebra: F_vertical (BF%d) is not an extension of F (BF%d)", fv.BitLength, f.BitLength)
	}
	if fh.BitLength%f.BitLength != 0 {
		return fmt.Errorf("toweralgebra: F_horizontal (BF%d) is not an extension of F (BF%d)", fh.BitLength, f.BitLength)
	}
	return nil
}

func nRows(f, fh *field.Field) int { return fh.BitLength / f.BitLength }
func nCols(f, fv *field.Field) int { return fv.BitLength / f.BitLength }

// New builds a TowerAlgebra element from an explicit row vector, zero
// padding it up to n_rows if it is shorter. Panics if the fields are
// malformed or elems is longer than n_rows — both indicate caller misuse.
func New(f, fv, fh *field.Field, elems []field.Element) Element {
	if err := checkFields(f, fv, fh); err != nil {
		panic(err)
	}
	rows := nRows(f, fh)
	if len(elems) > rows {
		panic(fmt.Errorf("toweralgebra: %d elems exceeds n_rows=%d", len(elems), rows))
	}
	padded := make([]field.Element, rows)
	copy(padded, elems)
	for i := len(elems); i < rows; i++ {
		padded[i] = fv.Zero()
	}
	return Element{F: f, Fv: fv, Fh: fh, elems: padded}
}

// Zero returns the additive identity of F_v ⊗_F F_h.
func Zero(f, fv, fh *field.Field) Element {
	return New(f, fv, fh, nil)
}

// FromTensor returns v ⊗ h: for each F-coordinate b of h, row b is v
// scaled by b (embedded into Fv).
func FromTensor(f, fv, fh *field.Field, vertical, horizontal field.Element) Element {
	coords := horizontal.UnpackInto(f)
	elems := make([]field.Element, len(coords))
	for i, c := range coords {
		elems[i] = c.Mul(vertical)
	}
	return New(f, fv, fh, elems)
}

// FromVertical returns v ⊗ 1.
func FromVertical(f, fv, fh *field.Field, vertical field.Element) Element {
	return New(f, fv, fh, []field.Element{vertical})
}

// FromHorizontal returns 1 ⊗ h: each F-coordinate of h embeds into Fv via
// the tower's subfield embedding (a relabel, since the embedding is the
// identity on the integer representation).
func FromHorizontal(f, fv, fh *field.Field, horizontal field.Element) Element {
	coords := horizontal.UnpackInto(f)
	elems := make([]field.Element, len(coords))
	for i, c := range coords {
		elems[i] = field.Widen(c, fv)
	}
	return New(f, fv, fh, elems)
}

// Elems returns the row vector (length n_rows, over Fv).
func (t Element) Elems() []field.Element {
	out := make([]field.Element, len(t.elems))
	copy(out, t.elems)
	return out
}

// NRows is deg(F_horizontal/F).
func (t Element) NRows() int { return nRows(t.F, t.Fh) }

// NCols is deg(F_vertical/F).
func (t Element) NCols() int { return nCols(t.F, t.Fv) }

// Add returns the elementwise XOR of t and other.
func (t Element) Add(other Element) Element {
	if t.F != other.F || t.Fv != other.Fv || t.Fh != other.Fh {
		panic(fmt.Errorf("toweralgebra: add requires matching (F, F_vertical, F_horizontal)"))
	}
	elems := make([]field.Element, len(t.elems))
	for i := range elems {
		elems[i] = t.elems[i].Add(other.elems[i])
	}
	return Element{F: t.F, Fv: t.Fv, Fh: t.Fh, elems: elems}
}

// Sub is identical to Add in characteristic 2.
func (t Element) Sub(other Element) Element { return t.Add(other) }

// ScaleVertical multiplies every row by s (an Fv scalar).
func (t Element) ScaleVertical(s field.Element) Element {
	elems := make([]field.Element, len(t.elems))
	for i, e := range t.elems {
		elems[i] = s.Mul(e)
	}
	return Element{F: t.F, Fv: t.Fv, Fh: t.Fh, elems: elems}
}

// Transpose reinterprets the n_rows x n_cols F-matrix as n_cols x n_rows,
// swapping F_vertical and F_horizontal.
func (t Element) Transpose() Element {
	mat := make([][]field.Element, len(t.elems))
	for i, e := range t.elems {
		mat[i] = e.UnpackInto(t.F)
	}
	cols := nCols(t.F, t.Fv)
	horizontalElems := make([]field.Element, cols)
	for j := 0; j < cols; j++ {
		col := make([]field.Element, len(mat))
		for i := range mat {
			col[i] = mat[i][j]
		}
		horizontalElems[j] = field.FromUnpacked(col, t.Fh)
	}
	return New(t.F, t.Fh, t.Fv, horizontalElems)
}

// ScaleHorizontal scales by an Fh scalar via transpose/scale/transpose.
func (t Element) ScaleHorizontal(s field.Element) Element {
	return t.Transpose().ScaleVertical(s).Transpose()
}

// TryExtractVertical succeeds only when every row beyond row 0 is zero,
// returning row 0. A non-zero residual is a legitimate verification
// failure at the ring-switching layer, not a programming error, so the
// caller decides how to report it; this helper just reports success.
func (t Element) TryExtractVertical() (field.Element, bool) {
	for _, e := range t.elems[1:] {
		if !e.IsZero() {
			return field.Element{}, false
		}
	}
	return t.elems[0], true
}

// Equal reports structural equality of the row vectors (same fields,
// same elements).
func (t Element) Equal(other Element) bool {
	if t.F != other.F || t.Fv != other.Fv || t.Fh != other.Fh {
		return false
	}
	if len(t.elems) != len(other.elems) {
		return false
	}
	for i := range t.elems {
		if !t.elems[i].Equal(other.elems[i]) {
			return false
		}
	}
	return true
}
