// Package challenger implements the Fiat-Shamir transcript shared by every
// PCS variant's prover and verifier: a single-writer, monotonic state
// advanced alternately by observe and sample operations.
package challenger

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/toweralgebra"
)

const (
	tagFieldElement byte = 0x31
	tagRawBytes     byte = 0x32
)

// HashFunc mirrors merkle.HashFunc: the default wire format is sha256, with
// sha3 available as an ambient alternative.
type HashFunc string

const (
	SHA256 HashFunc = "sha256"
	SHA3   HashFunc = "sha3"
)

func hashBytes(h HashFunc, data []byte) [32]byte {
	if h == SHA3 {
		return sha3.Sum256(data)
	}
	return sha256.Sum256(data)
}

// Challenger is the 32-byte state plus sample counter described in spec
// §4.6. Any observe resets the counter to zero; any sample increments it.
type Challenger struct {
	hash    HashFunc
	state   [32]byte
	counter uint64
}

// New initializes a Challenger from a seed: state = HASH(seed).
func New(seed []byte, h HashFunc) *Challenger {
	c := &Challenger{hash: h}
	c.state = hashBytes(h, seed)
	return c
}

// Clone returns an independent copy sharing no backing state, so a prover
// and verifier can both replay a transcript from the same snapshot without
// one's subsequent observes/samples affecting the other.
func (c *Challenger) Clone() *Challenger {
	clone := *c
	return &clone
}

// ObserveBytes absorbs raw bytes with domain separator 0x32.
func (c *Challenger) ObserveBytes(x []byte) {
	buf := append([]byte{}, c.state[:]...)
	buf = append(buf, tagRawBytes)
	buf = append(buf, x...)
	c.state = hashBytes(c.hash, buf)
	c.counter = 0
}

// ObserveElement absorbs a single field element with domain separator 0x31.
func (c *Challenger) ObserveElement(e field.Element) {
	buf := append([]byte{}, c.state[:]...)
	buf = append(buf, tagFieldElement)
	buf = append(buf, e.Bytes()...)
	c.state = hashBytes(c.hash, buf)
	c.counter = 0
}

// ObserveElements absorbs a sequence of field elements in order.
func (c *Challenger) ObserveElements(es []field.Element) {
	for _, e := range es {
		c.ObserveElement(e)
	}
}

// ObserveAlgebra absorbs a TowerAlgebra element by observing each of its
// rows in order.
func (c *Challenger) ObserveAlgebra(t toweralgebra.Element) {
	c.ObserveElements(t.Elems())
}

func (c *Challenger) sampleDigest() [32]byte {
	buf := append([]byte{}, c.state[:]...)
	buf = append(buf, '@')
	var counterBytes [8]byte
	binary.LittleEndian.PutUint64(counterBytes[:], c.counter)
	buf = append(buf, counterBytes[:]...)
	digest := hashBytes(c.hash, buf)
	c.counter++
	return digest
}

// SampleBits returns the low k bits (0 <= k <= 64) of a fresh digest.
func (c *Challenger) SampleBits(k int) (uint64, error) {
	if k < 0 || k > 64 {
		return 0, fmt.Errorf("challenger: sample_bits width %d out of range [0, 64]", k)
	}
	digest := c.sampleDigest()
	v := binary.LittleEndian.Uint64(digest[:8])
	if k == 64 {
		return v, nil
	}
	return v & ((uint64(1) << uint(k)) - 1), nil
}

// Sample returns a masked element of f, drawn from a fresh digest.
func (c *Challenger) Sample(f *field.Field) (field.Element, error) {
	digest := c.sampleDigest()
	if f.BitLength <= 64 {
		v := binary.LittleEndian.Uint64(digest[:8])
		return field.NewElement(f, v), nil
	}
	lo := binary.LittleEndian.Uint64(digest[:8])
	hi := binary.LittleEndian.Uint64(digest[8:16])
	return field.NewElementWide(f, hi, lo), nil
}

// SampleIndex returns a challenge index in [0, modulus), drawn from a fresh
// digest the same way the reference implementation derives column
// challenges: take the digest's first 8 bytes as a little-endian integer
// mod modulus.
func (c *Challenger) SampleIndex(modulus int) (int, error) {
	if modulus <= 0 {
		return 0, fmt.Errorf("challenger: sample_index modulus must be positive, got %d", modulus)
	}
	digest := c.sampleDigest()
	v := binary.LittleEndian.Uint64(digest[:8])
	return int(v % uint64(modulus)), nil
}

// State returns a copy of the current 32-byte state.
func (c *Challenger) State() [32]byte { return c.state }

// Counter returns the current sample counter.
func (c *Challenger) Counter() uint64 { return c.counter }
