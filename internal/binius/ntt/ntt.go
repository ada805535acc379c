// Package ntt implements the additive (Cantor/LCH) NTT over a binary tower
// field domain: a forward/inverse butterfly transform driven by a
// precomputed table of normalized subspace-vanishing polynomial evaluations.
//
// The transform operates on anything that can be added to itself and scaled
// by a field element picked up from the twiddle table, so both plain field
// elements (the basic and ring-switching PCS) and TowerAlgebra elements (the
// block PCS) run through the same Domain.
package ntt

import (
	"fmt"

	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/toweralgebra"
)

// Elt is the capability the transform needs from one domain slot: add
// another Elt of the same kind, and scale by an untwisted field element
// drawn from the twiddle table.
type Elt interface {
	addNTT(other Elt) Elt
	scaleNTT(twiddle field.Element) Elt
}

type fieldElt struct{ e field.Element }

func (a fieldElt) addNTT(other Elt) Elt       { return fieldElt{a.e.Add(other.(fieldElt).e)} }
func (a fieldElt) scaleNTT(w field.Element) Elt { return fieldElt{a.e.Mul(w)} }

type algebraElt struct{ t toweralgebra.Element }

func (a algebraElt) addNTT(other Elt) Elt {
	return algebraElt{a.t.Add(other.(algebraElt).t)}
}
func (a algebraElt) scaleNTT(w field.Element) Elt {
	return algebraElt{a.t.ScaleVertical(w)}
}

// WrapFieldElements lifts plain field elements into the Elt domain.
func WrapFieldElements(es []field.Element) []Elt {
	out := make([]Elt, len(es))
	for i, e := range es {
		out[i] = fieldElt{e}
	}
	return out
}

// UnwrapFieldElements lowers an Elt slice produced by WrapFieldElements back
// to plain field elements. Panics if any slot was not built by
// WrapFieldElements (a caller bug, not a data-dependent failure).
func UnwrapFieldElements(es []Elt) []field.Element {
	out := make([]field.Element, len(es))
	for i, e := range es {
		out[i] = e.(fieldElt).e
	}
	return out
}

// WrapAlgebraElements lifts TowerAlgebra elements into the Elt domain.
func WrapAlgebraElements(es []toweralgebra.Element) []Elt {
	out := make([]Elt, len(es))
	for i, e := range es {
		out[i] = algebraElt{e}
	}
	return out
}

// UnwrapAlgebraElements is the TowerAlgebra counterpart of
// UnwrapFieldElements.
func UnwrapAlgebraElements(es []Elt) []toweralgebra.Element {
	out := make([]toweralgebra.Element, len(es))
	for i, e := range es {
		out[i] = e.(algebraElt).t
	}
	return out
}

// Domain holds the precomputed twiddle tables for a fixed (log_degree,
// log_domain_size, field) triple, reusable across any number of transforms.
type Domain struct {
	LogDegree     int
	LogDomainSize int
	Field         *field.Field

	sEvals [][]field.Element // sEvals[i] has length 1<<(LogDomainSize-i-1)
}

// NewDomain precomputes the twiddle tables for an additive NTT over a
// domain of size 2^log_domain_size, for polynomials of degree < 2^log_degree.
func NewDomain(logDegree, logDomainSize int, f *field.Field) (*Domain, error) {
	if logDomainSize <= 0 {
		return nil, fmt.Errorf("ntt: log_domain_size must be positive, got %d", logDomainSize)
	}
	if logDegree < 0 || logDegree > logDomainSize {
		return nil, fmt.Errorf("ntt: log_degree=%d must be within [0, log_domain_size=%d]", logDegree, logDomainSize)
	}
	if logDomainSize > f.BitLength {
		return nil, fmt.Errorf("ntt: log_domain_size=%d exceeds field BF%d's bit length", logDomainSize, f.BitLength)
	}

	d := &Domain{LogDegree: logDegree, LogDomainSize: logDomainSize, Field: f}
	if err := d.precompute(); err != nil {
		return nil, err
	}
	return d, nil
}

// precompute builds the normalized subspace-vanishing polynomial tables and
// expands them to the full domain, following the recursive construction
// W_0(x) = x, W_{i+1}(x) = W_i(x)*(W_i(x) + norm_i), normalized by
// norm_i = W_i's value at the i-th basis generator beta_i. Level i keeps
// W_i at beta_{i+1}, ..., beta_{n-1} and is expanded pointwise over every
// element of their additive span (W_i vanishes on beta_0..beta_{i-1}).
func (d *Domain) precompute() error {
	n := d.LogDomainSize
	f := d.Field

	norms := make([]field.Element, n)
	norms[0] = f.One()

	sEvals := make([][]field.Element, n)
	level0 := make([]field.Element, n-1)
	for i := 1; i < n; i++ {
		level0[i-1] = field.NewElement(f, uint64(1)<<uint(i))
	}
	sEvals[0] = level0

	for k := 1; k < n; k++ {
		normPrev := norms[k-1]
		prev := sEvals[k-1]
		norms[k] = prev[0].Mul(prev[0].Add(normPrev))
		level := make([]field.Element, len(prev)-1)
		for j, e := range prev[1:] {
			level[j] = e.Mul(e.Add(normPrev))
		}
		sEvals[k] = level
	}

	for i := 0; i < n; i++ {
		for j := range sEvals[i] {
			v, err := sEvals[i][j].Div(norms[i])
			if err != nil {
				return fmt.Errorf("ntt: normalizing twiddle table at level %d: %w", i, err)
			}
			sEvals[i][j] = v
		}
	}

	expanded := make([][]field.Element, n)
	for i := 0; i < n; i++ {
		cur := []field.Element{f.Zero()}
		for _, e := range sEvals[i] {
			next := make([]field.Element, len(cur)*2)
			copy(next, cur)
			for idx, prevVal := range cur {
				next[len(cur)+idx] = prevVal.Add(e)
			}
			cur = next
		}
		expanded[i] = cur
	}
	d.sEvals = expanded
	return nil
}

func (d *Domain) twiddle(i, u int) field.Element { return d.sEvals[i][u] }

// ForwardTransform works on data as 2^(log_domain_size-log_degree)
// consecutive chunks of 2^log_degree slots: each chunk is read as the
// coefficients of a degree < 2^log_degree polynomial and replaced, in place,
// by that polynomial's evaluations on the chunk's own coset of the domain.
// When every chunk holds the same coefficients, the output is that one
// polynomial evaluated at every point of the domain.
func (d *Domain) ForwardTransform(data []Elt) error {
	want := 1 << uint(d.LogDomainSize)
	if len(data) != want {
		return fmt.Errorf("ntt: forward transform expects %d elements, got %d", want, len(data))
	}
	for i := d.LogDegree - 1; i >= 0; i-- {
		for u := 0; u < 1<<uint(d.LogDomainSize-i-1); u++ {
			twiddle := d.twiddle(i, u)
			for v := 0; v < 1<<uint(i); v++ {
				idx0 := u<<uint(i+1) | v
				idx1 := idx0 | 1<<uint(i)
				newIdx0 := data[idx0].addNTT(data[idx1].scaleNTT(twiddle))
				data[idx1] = data[idx1].addNTT(newIdx0)
				data[idx0] = newIdx0
			}
		}
	}
	return nil
}

// InverseTransform is the exact inverse of ForwardTransform: it turns each
// chunk's evaluations on its coset back into that chunk's 2^log_degree
// coefficients, in place.
func (d *Domain) InverseTransform(data []Elt) error {
	want := 1 << uint(d.LogDomainSize)
	if len(data) != want {
		return fmt.Errorf("ntt: inverse transform expects %d elements, got %d", want, len(data))
	}
	for i := 0; i < d.LogDegree; i++ {
		for u := 0; u < 1<<uint(d.LogDomainSize-i-1); u++ {
			twiddle := d.twiddle(i, u)
			for v := 0; v < 1<<uint(i); v++ {
				idx0 := u<<uint(i+1) | v
				idx1 := idx0 | 1<<uint(i)
				newIdx1 := data[idx1].addNTT(data[idx0])
				data[idx0] = data[idx0].addNTT(newIdx1.scaleNTT(twiddle))
				data[idx1] = newIdx1
			}
		}
	}
	return nil
}
