// Package binius provides a binary tower field polynomial commitment
// scheme: a prover commits to a multilinear polynomial over a small binary
// field and later proves its evaluation at a point drawn from a much
// larger extension field, without revealing the polynomial itself.
//
// # Features
//
// - Binary tower fields GF(2^(2^i)) for i in 0..7, with Karatsuba
//   multiplication and bit-packing between tower levels
// - Additive (Cantor) NTT and Reed-Solomon encoding over any tower level
// - SHA-256/SHA3 Merkle vector commitment
// - Fiat-Shamir challenger for non-interactive proofs
// - Three commitment scheme variants: Basic, Block, and Ring-switching
//
// # Quick Start
//
// Committing to a polynomial and proving an evaluation with the Basic
// scheme:
//
//	params, err := binius.NewBasicParams(binius.BF8, binius.BF128, 11, 5, 2, 64)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	commitment, committed, err := binius.CommitBasic(params, poly)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ch := binius.NewChallenger([]byte("session-seed"))
//	proof, err := binius.OpenBasic(params, committed, poly, query, ch)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	verifyCh := binius.NewChallenger([]byte("session-seed"))
//	ok, err := binius.VerifyBasic(params, commitment, query, proof, verifyCh)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !ok {
//		log.Fatal("proof rejected")
//	}
//
// The Block and Ring-switching variants follow the same Commit/Open/Verify
// shape; see NewBlockParams/CommitBlock/... and NewRingSwitchParams/
// CommitRingSwitch/... .
//
// # Architecture
//
// - pkg/binius/: Public API (this package)
// - internal/binius/: Private implementation (not importable)
//
// Implementation details in internal/ can be refactored without breaking
// the public API.
package binius
