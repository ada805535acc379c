package codes

import (
	"math/rand"
	"testing"

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

// TestEncodeLinearity covers spec §8 item 5: encode(a+b) = encode(a) + encode(b).
func TestEncodeLinearity(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	code, err := NewReedSolomonCode(3, 2, field.BF32)
	if err != nil {
		t.Fatalf("NewReedSolomonCode: %v", err)
	}

	n := code.Dimension()
	a := make([]field.Element, n)
	b := make([]field.Element, n)
	sum := make([]field.Element, n)
	for i := 0; i < n; i++ {
		a[i] = randElem(field.BF32, r)
		b[i] = randElem(field.BF32, r)
		sum[i] = a[i].Add(b[i])
	}

	encA, err := code.Encode(a)
	if err != nil {
		t.Fatalf("Encode a: %v", err)
	}
	encB, err := code.Encode(b)
	if err != nil {
		t.Fatalf("Encode b: %v", err)
	}
	encSum, err := code.Encode(sum)
	if err != nil {
		t.Fatalf("Encode sum: %v", err)
	}

	for i := range encSum {
		want := encA[i].Add(encB[i])
		if !encSum[i].Equal(want) {
			t.Fatalf("index %d: encode(a+b) != encode(a)+encode(b)", i)
		}
	}
}

func TestCodewordLenAndDimension(t *testing.T) {
	code, err := NewReedSolomonCode(4, 3, field.BF64)
	if err != nil {
		t.Fatalf("NewReedSolomonCode: %v", err)
	}
	if code.Dimension() != 1<<4 {
		t.Fatalf("Dimension() = %d, want %d", code.Dimension(), 1<<4)
	}
	if code.CodewordLen() != 1<<7 {
		t.Fatalf("CodewordLen() = %d, want %d", code.CodewordLen(), 1<<7)
	}
}

func TestEncodeRejectsWrongLength(t *testing.T) {
	code, err := NewReedSolomonCode(3, 2, field.BF32)
	if err != nil {
		t.Fatalf("NewReedSolomonCode: %v", err)
	}
	if _, err := code.Encode(make([]field.Element, 3)); err == nil {
		t.Fatal("expected error for mismatched input length")
	}
}
