// Package field implements the binary tower fields GF(2^{2^i}) for i in
// {0..7} (bit lengths 1, 2, 4, 8, 16, 32, 64, 128) used as the coefficient,
// alphabet, and challenge fields of the polynomial commitment scheme.
//
// Addition is XOR. Multiplication uses the recursive Karatsuba
// decomposition of the Cantor/Fan-Paar tower basis, including the
// hard-coded monomial short-circuit that implements the basis's quadratic
// reduction without ever materializing a separate beta table.
package field

import "fmt"

// Field identifies one level of the binary tower by its bit length.
// Two Fields are the same field iff their BitLength matches; the tower has
// exactly one field per supported bit length.
type Field struct {
	BitLength int
}

// Generator is the distinguished multiplicative generator recorded for each
// field in the tower. It is not used by field arithmetic or by any other
// package in this module; it is exposed for callers that need a canonical
// nonzero element per level.
func (f *Field) Generator() Element {
	return Element{field: f, value: generators[f.BitLength]}
}

// Zero returns the additive identity of f.
func (f *Field) Zero() Element {
	return Element{field: f}
}

// One returns the multiplicative identity of f.
func (f *Field) One() Element {
	return Element{field: f, value: wide{lo: 1}}
}

// Element is a value of a Field, represented as an unsigned integer in the
// tower basis. Values up to 128 bits are carried in a 2-limb (hi, lo) pair;
// fields narrower than 64 bits simply leave hi and the unused high bits of
// lo at zero.
type Element struct {
	field *Field
	value wide
}

var (
	BF1   = &Field{BitLength: 1}
	BF2   = &Field{BitLength: 2}
	BF4   = &Field{BitLength: 4}
	BF8   = &Field{BitLength: 8}
	BF16  = &Field{BitLength: 16}
	BF32  = &Field{BitLength: 32}
	BF64  = &Field{BitLength: 64}
	BF128 = &Field{BitLength: 128}

	// Tower is the full chain of fields in increasing bit length, used by
	// tests and by callers that enumerate every level (e.g. §8's random
	// field-pair sampling).
	Tower = []*Field{BF1, BF2, BF4, BF8, BF16, BF32, BF64, BF128}

	// generators holds each field's distinguished multiplicative generator,
	// taken directly from the reference construction.
	generators = map[int]wide{
		1:   {lo: 0x1},
		2:   {lo: 0x2},
		4:   {lo: 0x5},
		8:   {lo: 0x2D},
		16:  {lo: 0xE2DE},
		32:  {lo: 0x03E21CEA},
		64:  {lo: 0x070F870DCD9C1D88},
		128: {hi: 0x2E895399AF449ACE, lo: 0x499596F6E5FCCAFA},
	}
)

// FieldByBitLength returns the tower level with the given bit length.
func FieldByBitLength(bits int) (*Field, error) {
	for _, f := range Tower {
		if f.BitLength == bits {
			return f, nil
		}
	}
	return nil, fmt.Errorf("field: no tower level with bit length %d", bits)
}

// NewElement builds an element of f from a raw value, masking it to f's bit
// length. It never errors: callers that must reject out-of-range values
// should check Value/Bytes themselves.
func NewElement(f *Field, value uint64) Element {
	return Element{field: f, value: wide{lo: value}.mask(uint(f.BitLength))}
}

// NewElementWide builds an element of f from a 128-bit value, masking it to
// f's bit length.
func NewElementWide(f *Field, hi, lo uint64) Element {
	return Element{field: f, value: wide{hi: hi, lo: lo}.mask(uint(f.BitLength))}
}

// Field returns the field this element belongs to.
func (e Element) Field() *Field { return e.field }

// Uint64 returns the element's value truncated to 64 bits. Valid whenever
// the element's field has bit length <= 64.
func (e Element) Uint64() uint64 { return e.value.lo }

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool { return e.value.isZero() }

// IsOne reports whether e is the multiplicative identity.
func (e Element) IsOne() bool { return e.value.equal(wide{lo: 1}) }

// Equal reports whether e and other represent the same field element.
func (e Element) Equal(other Element) bool {
	return e.field.BitLength == other.field.BitLength && e.value.equal(other.value)
}

// Add returns e + other (bitwise XOR). Panics if e and other belong to
// fields of different bit length and neither embeds into the other by
// implicit widening — the caller must widen one side first with Widen.
func (e Element) Add(other Element) Element {
	a, b, f := alignPair(e, other)
	return Element{field: f, value: a.value.xor(b.value)}
}

// Sub is identical to Add in characteristic 2.
func (e Element) Sub(other Element) Element { return e.Add(other) }

// Neg returns e unchanged: in characteristic 2, -e = e.
func (e Element) Neg() Element { return e }

// isExtensionOf reports whether f is a (not necessarily proper) extension
// of other, i.e. other.BitLength divides f.BitLength. Every pair of levels
// in Tower satisfies this in one direction or the other, since bit lengths
// are a chain of doublings.
func isExtensionOf(f, other *Field) bool {
	return f.BitLength%other.BitLength == 0
}

// widerOf returns whichever of a, b is the extension field, per
// isExtensionOf; this is the "subfield-extension lattice" operator of
// spec §4.1, trivial here because Tower is totally ordered by divisibility.
func widerOf(a, b *Field) (*Field, error) {
	if isExtensionOf(a, b) {
		return a, nil
	}
	if isExtensionOf(b, a) {
		return b, nil
	}
	return nil, fmt.Errorf("field: neither bit length %d nor %d is a multiple of the other", a.BitLength, b.BitLength)
}

// alignPair widens whichever of a, b lies in the smaller field up to the
// larger one by zero-extension (the natural subfield embedding), for use by
// additive operations where both operands must share a representation.
func alignPair(a, b Element) (Element, Element, *Field) {
	if a.field.BitLength == b.field.BitLength {
		return a, b, a.field
	}
	wide, err := widerOf(a.field, b.field)
	if err != nil {
		panic(err)
	}
	if a.field.BitLength != wide.BitLength {
		a = Element{field: wide, value: a.value}
	}
	if b.field.BitLength != wide.BitLength {
		b = Element{field: wide, value: b.value}
	}
	return a, b, wide
}

// Widen re-labels e as an element of target, a field that is an extension
// of e's field. Since the tower's subfield embedding is the identity on
// the integer representation (a subfield value already fits within the
// extension's bit length), this is a relabel, not a computation.
func Widen(e Element, target *Field) Element {
	if !isExtensionOf(target, e.field) {
		panic(fmt.Errorf("field: BF%d is not an extension of BF%d", target.BitLength, e.field.BitLength))
	}
	return Element{field: target, value: e.value}
}

// Mul returns e * other. When both operands share a field, it runs the
// Karatsuba tower multiplication directly. When one field is a (strict)
// extension of the other, the larger operand is unpacked into a vector of
// subfield coordinates, each coordinate is multiplied by the smaller
// operand in the subfield, and the result is packed back — per spec §4.1.
func (e Element) Mul(other Element) Element {
	if e.field.BitLength == other.field.BitLength {
		return Element{field: e.field, value: mulEqualLength(e.value, other.value, e.field.BitLength)}
	}

	wide, err := widerOf(e.field, other.field)
	if err != nil {
		panic(err)
	}

	var big, small Element
	if e.field.BitLength == wide.BitLength {
		big, small = e, other
	} else {
		big, small = other, e
	}

	coords := big.UnpackInto(small.field)
	scaled := make([]Element, len(coords))
	for i, c := range coords {
		scaled[i] = Element{field: small.field, value: mulEqualLength(c.value, small.value, small.field.BitLength)}
	}
	return FromUnpacked(scaled, big.field)
}

// Exp computes e raised to a non-negative exponent via square-and-multiply.
func (e Element) Exp(exponent wide) Element {
	result := e.field.One()
	base := e
	exp := exponent
	for !exp.isZero() {
		if exp.lo&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp = exp.shr(1)
	}
	return result
}

// order returns 2^BitLength - 1 as a wide value.
func (f *Field) order() wide {
	return maskBits(uint(f.BitLength))
}

// Inv returns the multiplicative inverse of e, computed as
// e^(|F*|-1) = e^(2^BitLength - 2).
func (e Element) Inv() (Element, error) {
	if e.IsZero() {
		return Element{}, fmt.Errorf("field: cannot invert zero element")
	}
	return e.Exp(e.field.order().sub1()), nil
}

// Div returns e / other.
func (e Element) Div(other Element) (Element, error) {
	inv, err := other.Inv()
	if err != nil {
		return Element{}, fmt.Errorf("field: division failed: %w", err)
	}
	return e.Mul(inv), nil
}

// packWidth returns how many subfield-sized coordinates make up one
// element of f, given subfield is an actual subfield of f.
func packWidth(f, subfield *Field) int {
	return f.BitLength / subfield.BitLength
}

// UnpackInto returns the subfield-coordinates of e, ordered little-endian
// within e's integer representation (the first returned element holds the
// least significant bits, i.e. the coordinate of 1).
func (e Element) UnpackInto(subfield *Field) []Element {
	width := packWidth(e.field, subfield)
	out := make([]Element, width)
	for i := 0; i < width; i++ {
		shift := uint(subfield.BitLength * i)
		v := e.value.shr(shift).mask(uint(subfield.BitLength))
		out[i] = Element{field: subfield, value: v}
	}
	return out
}

// FromUnpacked is the inverse of UnpackInto: it packs a little-endian vector
// of same-subfield elements into a single element of f. The total bit
// width of elts must equal f.BitLength.
func FromUnpacked(elts []Element, f *Field) Element {
	if len(elts) == 0 {
		return f.Zero()
	}
	sub := elts[0].field.BitLength
	if sub*len(elts) != f.BitLength {
		panic(fmt.Errorf("field: packed width %d*%d does not match target bit length %d", sub, len(elts), f.BitLength))
	}
	acc := wide{}
	for i, e := range elts {
		shift := uint(sub * i)
		acc = acc.xor(e.value.shl(shift))
	}
	return Element{field: f, value: acc}
}

// Bytes serializes e as a 2-byte little-endian bit-length header followed
// by the value in little-endian over ceil(bit_length/8) bytes, per spec §6.
func (e Element) Bytes() []byte {
	n := (e.field.BitLength + 7) / 8
	out := make([]byte, 2+n)
	out[0] = byte(e.field.BitLength)
	out[1] = byte(e.field.BitLength >> 8)
	v := e.value
	for i := 0; i < n; i++ {
		out[2+i] = byte(v.lo)
		v = v.shr(8)
	}
	return out
}

// String renders the element as a hex literal tagged with its bit length.
func (e Element) String() string {
	if e.value.hi == 0 {
		return fmt.Sprintf("0x%x_bf%d", e.value.lo, e.field.BitLength)
	}
	return fmt.Sprintf("0x%x%016x_bf%d", e.value.hi, e.value.lo, e.field.BitLength)
}

// mulEqualLength multiplies two same-length tower elements using the
// recursive Karatsuba decomposition. The (L1,R1) == (0,1) branch is the
// hard-coded monomial special case from spec §4.1: when v1 is exactly this
// level's generator X (low half zero, high half one), multiplying by it
// reduces to a shift combined with one recursive half-length multiplication
// of v2's high half by X^{quarterlen} (the previous level's generator),
// implementing the tower's quadratic reduction without a separate beta
// table.
func mulEqualLength(v1, v2 wide, length int) wide {
	if v1.ltUint64(2) || v2.ltUint64(2) {
		if v1.isZero() || v2.isZero() {
			return wide{}
		}
		if v1.equal(wide{lo: 1}) {
			return v2
		}
		return v1 // v2 must be 1
	}

	halflen := length / 2
	quarterlen := length / 4
	halfmask := maskBits(uint(halflen))

	l1 := v1.and(halfmask)
	r1 := v1.shr(uint(halflen))
	l2 := v2.and(halfmask)
	r2 := v2.shr(uint(halflen))

	if l1.isZero() && r1.equal(wide{lo: 1}) {
		outR := mulEqualLength(wide{lo: 1}.shl(uint(quarterlen)), r2, halflen).xor(l2)
		return r2.xor(outR.shl(uint(halflen)))
	}

	l1l2 := mulEqualLength(l1, l2, halflen)
	r1r2 := mulEqualLength(r1, r2, halflen)
	r1r2high := mulEqualLength(wide{lo: 1}.shl(uint(quarterlen)), r1r2, halflen)
	z3 := mulEqualLength(l1.xor(r1), l2.xor(r2), halflen)

	mid := z3.xor(l1l2).xor(r1r2).xor(r1r2high)
	return l1l2.xor(r1r2).xor(mid.shl(uint(halflen)))
}
