package challenger

import (
	"testing"

	"github.com/vybium/binius-pcs/internal/binius/field"
)

// TestDeterminism covers spec §8 item 9: two challengers seeded and
// observed identically produce identical samples.
func TestDeterminism(t *testing.T) {
	seed := []byte("binius-test-seed")

	c1 := New(seed, SHA256)
	c2 := New(seed, SHA256)

	c1.ObserveBytes([]byte("commitment-root"))
	c2.ObserveBytes([]byte("commitment-root"))

	c1.ObserveElement(field.NewElement(field.BF32, 0xdeadbeef))
	c2.ObserveElement(field.NewElement(field.BF32, 0xdeadbeef))

	for i := 0; i < 8; i++ {
		e1, err := c1.Sample(field.BF128)
		if err != nil {
			t.Fatalf("c1.Sample: %v", err)
		}
		e2, err := c2.Sample(field.BF128)
		if err != nil {
			t.Fatalf("c2.Sample: %v", err)
		}
		if !e1.Equal(e2) {
			t.Fatalf("sample %d diverged: %v vs %v", i, e1, e2)
		}
	}
}

func TestObserveResetsCounter(t *testing.T) {
	c := New([]byte("seed"), SHA256)
	if _, err := c.Sample(field.BF32); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if c.Counter() != 1 {
		t.Fatalf("counter = %d, want 1", c.Counter())
	}
	c.ObserveBytes([]byte("x"))
	if c.Counter() != 0 {
		t.Fatalf("counter after observe = %d, want 0", c.Counter())
	}
}

func TestDifferentSeedsDivergeSamples(t *testing.T) {
	c1 := New([]byte("seed-a"), SHA256)
	c2 := New([]byte("seed-b"), SHA256)

	e1, err := c1.Sample(field.BF64)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	e2, err := c2.Sample(field.BF64)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if e1.Equal(e2) {
		t.Fatal("different seeds produced identical samples")
	}
}

func TestSampleIndexIsBounded(t *testing.T) {
	c := New([]byte("seed"), SHA256)
	for i := 0; i < 100; i++ {
		idx, err := c.SampleIndex(17)
		if err != nil {
			t.Fatalf("SampleIndex: %v", err)
		}
		if idx < 0 || idx >= 17 {
			t.Fatalf("index %d out of range [0, 17)", idx)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := New([]byte("seed"), SHA256)
	c.ObserveBytes([]byte("pre-fork"))
	clone := c.Clone()

	c.ObserveBytes([]byte("diverges-original"))
	e1, err := c.Sample(field.BF32)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	e2, err := clone.Sample(field.BF32)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if e1.Equal(e2) {
		t.Fatal("clone was affected by original's later observe")
	}
}
