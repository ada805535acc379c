package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/vybium/binius-pcs/pkg/binius"
)

// Result is the JSON summary written to stdout after a commit/open/verify
// round trip.
type Result struct {
	Scheme   string `json:"scheme"`
	NVars    int    `json:"n_vars"`
	CommitMs int64  `json:"commit_ms"`
	OpenMs   int64  `json:"open_ms"`
	VerifyMs int64  `json:"verify_ms"`
	Verified bool   `json:"verified"`
	RootHex  string `json:"root_hex"`
}

func main() {
	scheme := flag.String("scheme", "basic", "scheme variant: basic, block, or ringswitch")
	seed := flag.Int64("seed", 1, "random seed for the demo polynomial and query")
	nVars := flag.Int("n-vars", 11, "log2 of the polynomial's evaluation table size")
	logRows := flag.Int("log-rows", 5, "log2 of the committed matrix's row count")
	logInvRate := flag.Int("log-inv-rate", 2, "log2 of the Reed-Solomon code's inverse rate")
	nChallenges := flag.Int("n-challenges", 64, "number of Merkle columns sampled per opening")
	flag.Parse()

	r := rand.New(rand.NewSource(*seed))

	var result Result
	var err error
	switch *scheme {
	case "basic":
		result, err = runBasic(r, *nVars, *logRows, *logInvRate, *nChallenges)
	case "block":
		result, err = runBlock(r, *nVars, *logRows, *logInvRate, *nChallenges)
	case "ringswitch":
		result, err = runRingSwitch(r, *nVars, *logRows, *logInvRate, *nChallenges)
	default:
		fatal(fmt.Sprintf("unknown scheme %q", *scheme))
	}
	if err != nil {
		fatal(err.Error())
	}

	out, err := json.Marshal(result)
	if err != nil {
		fatal(fmt.Sprintf("failed to serialize result: %v", err))
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func randElem(f *binius.Field, r *rand.Rand) binius.Element {
	mask := (uint64(1) << uint(f.BitLength)) - 1
	if f.BitLength >= 64 {
		mask = ^uint64(0)
	}
	return binius.NewElement(f, r.Uint64()&mask)
}

func randomPolyAndQuery(f, challengeField *binius.Field, r *rand.Rand, nVars int) ([]binius.Element, []binius.Element) {
	poly := make([]binius.Element, 1<<uint(nVars))
	for i := range poly {
		poly[i] = randElem(f, r)
	}
	query := make([]binius.Element, nVars)
	for i := range query {
		query[i] = randElem(challengeField, r)
	}
	return poly, query
}

func runBasic(r *rand.Rand, nVars, logRows, logInvRate, nChallenges int) (Result, error) {
	logStderr("building Basic parameters...")
	params, err := binius.NewBasicParams(binius.BF8, binius.BF128, nVars, logRows, logInvRate, nChallenges)
	if err != nil {
		return Result{}, fmt.Errorf("NewBasicParams: %w", err)
	}
	poly, query := randomPolyAndQuery(binius.BF8, binius.BF128, r, nVars)

	logStderr("committing...")
	t0 := time.Now()
	commitment, committed, err := binius.CommitBasic(params, poly)
	if err != nil {
		return Result{}, fmt.Errorf("CommitBasic: %w", err)
	}
	commitMs := time.Since(t0).Milliseconds()

	logStderr("opening...")
	proverCh := binius.NewChallenger([]byte("binius-demo-basic"))
	proverCh.ObserveBytes(commitment.Root)
	t1 := time.Now()
	proof, err := binius.OpenBasic(params, committed, poly, query, proverCh)
	if err != nil {
		return Result{}, fmt.Errorf("OpenBasic: %w", err)
	}
	openMs := time.Since(t1).Milliseconds()

	logStderr("verifying...")
	verifierCh := binius.NewChallenger([]byte("binius-demo-basic"))
	verifierCh.ObserveBytes(commitment.Root)
	t2 := time.Now()
	ok, err := binius.VerifyBasic(params, commitment, query, proof, verifierCh)
	if err != nil {
		return Result{}, fmt.Errorf("VerifyBasic: %w", err)
	}
	verifyMs := time.Since(t2).Milliseconds()

	return Result{
		Scheme: "basic", NVars: nVars,
		CommitMs: commitMs, OpenMs: openMs, VerifyMs: verifyMs,
		Verified: ok, RootHex: fmt.Sprintf("%x", commitment.Root),
	}, nil
}

func runBlock(r *rand.Rand, nVars, logRows, logInvRate, nChallenges int) (Result, error) {
	logStderr("building Block parameters...")
	params, err := binius.NewBlockParams(binius.BF8, binius.BF32, binius.BF128, nVars, logRows, logInvRate, nChallenges)
	if err != nil {
		return Result{}, fmt.Errorf("NewBlockParams: %w", err)
	}
	poly, query := randomPolyAndQuery(binius.BF8, binius.BF128, r, nVars)

	logStderr("committing...")
	t0 := time.Now()
	commitment, committed, err := binius.CommitBlock(params, poly)
	if err != nil {
		return Result{}, fmt.Errorf("CommitBlock: %w", err)
	}
	commitMs := time.Since(t0).Milliseconds()

	logStderr("opening...")
	proverCh := binius.NewChallenger([]byte("binius-demo-block"))
	proverCh.ObserveBytes(commitment.Root)
	t1 := time.Now()
	proof, err := binius.OpenBlock(params, committed, poly, query, proverCh)
	if err != nil {
		return Result{}, fmt.Errorf("OpenBlock: %w", err)
	}
	openMs := time.Since(t1).Milliseconds()

	logStderr("verifying...")
	verifierCh := binius.NewChallenger([]byte("binius-demo-block"))
	verifierCh.ObserveBytes(commitment.Root)
	t2 := time.Now()
	ok, err := binius.VerifyBlock(params, commitment, query, proof, verifierCh)
	if err != nil {
		return Result{}, fmt.Errorf("VerifyBlock: %w", err)
	}
	verifyMs := time.Since(t2).Milliseconds()

	return Result{
		Scheme: "block", NVars: nVars,
		CommitMs: commitMs, OpenMs: openMs, VerifyMs: verifyMs,
		Verified: ok, RootHex: fmt.Sprintf("%x", commitment.Root),
	}, nil
}

func runRingSwitch(r *rand.Rand, nVars, logRows, logInvRate, nChallenges int) (Result, error) {
	logStderr("building Ring-switching parameters...")
	logDL := 4 // log2(deg(BF128/BF8))
	innerNVars := nVars - logDL
	if innerNVars <= 0 {
		return Result{}, fmt.Errorf("n-vars=%d too small for ring-switching over BF8/BF128", nVars)
	}
	innerParams, err := binius.NewBasicParams(binius.BF128, binius.BF128, innerNVars, logRows, logInvRate, nChallenges)
	if err != nil {
		return Result{}, fmt.Errorf("NewBasicParams (inner): %w", err)
	}
	params, err := binius.NewRingSwitchParams(binius.BF8, binius.BF128, nVars, innerParams)
	if err != nil {
		return Result{}, fmt.Errorf("NewRingSwitchParams: %w", err)
	}
	poly, query := randomPolyAndQuery(binius.BF8, binius.BF128, r, nVars)

	logStderr("committing...")
	t0 := time.Now()
	commitment, committed, err := binius.CommitRingSwitch(params, poly)
	if err != nil {
		return Result{}, fmt.Errorf("CommitRingSwitch: %w", err)
	}
	commitMs := time.Since(t0).Milliseconds()

	logStderr("opening...")
	proverCh := binius.NewChallenger([]byte("binius-demo-ringswitch"))
	proverCh.ObserveBytes(commitment.Inner.Root)
	t1 := time.Now()
	proof, err := binius.OpenRingSwitch(params, committed, poly, query, proverCh)
	if err != nil {
		return Result{}, fmt.Errorf("OpenRingSwitch: %w", err)
	}
	openMs := time.Since(t1).Milliseconds()

	logStderr("verifying...")
	verifierCh := binius.NewChallenger([]byte("binius-demo-ringswitch"))
	verifierCh.ObserveBytes(commitment.Inner.Root)
	t2 := time.Now()
	ok, err := binius.VerifyRingSwitch(params, commitment, query, proof, verifierCh)
	if err != nil {
		return Result{}, fmt.Errorf("VerifyRingSwitch: %w", err)
	}
	verifyMs := time.Since(t2).Milliseconds()

	return Result{
		Scheme: "ringswitch", NVars: nVars,
		CommitMs: commitMs, OpenMs: openMs, VerifyMs: verifyMs,
		Verified: ok, RootHex: fmt.Sprintf("%x", commitment.Inner.Root),
	}, nil
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "binius-demo:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
