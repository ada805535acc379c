package binius

import (
	"github.com/vybium/binius-pcs/internal/binius/challenger"
	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/merkle"
	"github.com/vybium/binius-pcs/internal/binius/pcs/basic"
	"github.com/vybium/binius-pcs/internal/binius/pcs/block"
	"github.com/vybium/binius-pcs/internal/binius/pcs/ringswitch"
)

// Field is a binary tower field GF(2^(2^i)).
type Field = field.Field

// Element is an element of a Field.
type Element = field.Element

// The tower levels available to callers, from GF(2) up to GF(2^128).
var (
	BF1   = field.BF1
	BF2   = field.BF2
	BF4   = field.BF4
	BF8   = field.BF8
	BF16  = field.BF16
	BF32  = field.BF32
	BF64  = field.BF64
	BF128 = field.BF128
)

// NewElement builds an element of f from a raw value, masking it to f's
// bit length.
func NewElement(f *Field, value uint64) Element {
	return field.NewElement(f, value)
}

// Challenger is a Fiat-Shamir transcript used to derive the verifier's
// challenges non-interactively from the prover's messages.
type Challenger = challenger.Challenger

// NewChallenger builds a SHA-256-backed Challenger seeded with domain
// separation bytes (e.g. the scheme's name and parameters).
func NewChallenger(seed []byte) *Challenger {
	return challenger.New(seed, challenger.SHA256)
}

// BasicParams fixes the Basic scheme's field and size choices.
type BasicParams = basic.Params

// BasicCommitment is the Merkle root committing the prover to a polynomial.
type BasicCommitment = basic.Commitment

// BasicCommitted is the prover's retained state between Commit and Open.
type BasicCommitted = basic.Committed

// BasicProof is an opening proof for the Basic scheme.
type BasicProof = basic.Proof

// NewBasicParams validates and builds a Basic scheme parameter set.
func NewBasicParams(k, l *Field, nVars, logRows, logInvRate, nChallenges int) (BasicParams, error) {
	return basic.NewParams(k, l, nVars, logRows, logInvRate, nChallenges)
}

// CommitBasic commits to poly under the Basic scheme.
func CommitBasic(p BasicParams, poly []Element) (BasicCommitment, *BasicCommitted, error) {
	return basic.Commit(p, poly)
}

// OpenBasic proves poly(query) under the Basic scheme.
func OpenBasic(p BasicParams, committed *BasicCommitted, poly, query []Element, ch *Challenger) (*BasicProof, error) {
	return basic.Open(p, committed, poly, query, ch)
}

// VerifyBasic checks an opening proof against a Basic commitment.
func VerifyBasic(p BasicParams, commitment BasicCommitment, query []Element, proof *BasicProof, ch *Challenger) (bool, error) {
	return basic.Verify(p, commitment, query, proof, ch)
}

// BlockParams fixes the Block scheme's field and size choices.
type BlockParams = block.Params

// BlockCommitment is the Merkle root committing the prover to a polynomial.
type BlockCommitment = block.Commitment

// BlockCommitted is the prover's retained state between Commit and Open.
type BlockCommitted = block.Committed

// BlockProof is an opening proof for the Block scheme.
type BlockProof = block.Proof

// NewBlockParams validates and builds a Block scheme parameter set.
func NewBlockParams(f, fa, fe *Field, nVars, logRows, logInvRate, nChallenges int) (BlockParams, error) {
	return block.NewParams(f, fa, fe, nVars, logRows, logInvRate, nChallenges)
}

// CommitBlock commits to poly under the Block scheme.
func CommitBlock(p BlockParams, poly []Element) (BlockCommitment, *BlockCommitted, error) {
	return block.Commit(p, poly)
}

// OpenBlock proves poly(query) under the Block scheme.
func OpenBlock(p BlockParams, committed *BlockCommitted, poly, query []Element, ch *Challenger) (*BlockProof, error) {
	return block.Open(p, committed, poly, query, ch)
}

// VerifyBlock checks an opening proof against a Block commitment.
func VerifyBlock(p BlockParams, commitment BlockCommitment, query []Element, proof *BlockProof, ch *Challenger) (bool, error) {
	return block.Verify(p, commitment, query, proof, ch)
}

// RingSwitchParams fixes the Ring-switching scheme's field choices and its
// inner Basic scheme instance.
type RingSwitchParams = ringswitch.Params

// RingSwitchCommitment is the commitment under the Ring-switching scheme.
type RingSwitchCommitment = ringswitch.Commitment

// RingSwitchCommitted is the prover's retained state between Commit and Open.
type RingSwitchCommitted = ringswitch.Committed

// RingSwitchProof is an opening proof for the Ring-switching scheme.
type RingSwitchProof = ringswitch.Proof

// NewRingSwitchParams validates and builds a Ring-switching parameter set
// from K, L, the outer n_vars, and an inner Basic scheme instance over L.
func NewRingSwitchParams(k, l *Field, nVars int, inner BasicParams) (RingSwitchParams, error) {
	return ringswitch.NewParams(k, l, nVars, inner)
}

// CommitRingSwitch commits to poly under the Ring-switching scheme.
func CommitRingSwitch(p RingSwitchParams, poly []Element) (RingSwitchCommitment, *RingSwitchCommitted, error) {
	return ringswitch.Commit(p, poly)
}

// OpenRingSwitch proves poly(query) under the Ring-switching scheme.
func OpenRingSwitch(p RingSwitchParams, committed *RingSwitchCommitted, poly, query []Element, ch *Challenger) (*RingSwitchProof, error) {
	return ringswitch.Open(p, committed, poly, query, ch)
}

// VerifyRingSwitch checks an opening proof against a Ring-switching
// commitment.
func VerifyRingSwitch(p RingSwitchParams, commitment RingSwitchCommitment, query []Element, proof *RingSwitchProof, ch *Challenger) (bool, error) {
	return ringswitch.Verify(p, commitment, query, proof, ch)
}

// HashFunc selects the Merkle hash primitive backing a commitment.
type HashFunc = merkle.HashFunc
