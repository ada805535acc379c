package binius

import (
	"fmt"

	"github.com/vybium/binius-pcs/internal/binius/merkle"
)

// BasicConfig builds a BasicParams instance, following utils.Config's
// DefaultConfig/Validate/With*/Clone shape in the teacher.
type BasicConfig struct {
	K, L         *Field
	NVars        int
	LogRows      int
	LogInvRate   int
	NChallenges  int
	HashFunction string // "sha256" (default) or "sha3"
}

// DefaultBasicConfig returns the S1 scenario's parameter choices.
func DefaultBasicConfig() *BasicConfig {
	return &BasicConfig{
		K: BF8, L: BF128,
		NVars: 11, LogRows: 5, LogInvRate: 2, NChallenges: 64,
		HashFunction: "sha256",
	}
}

// Validate checks the hash function name; field and size constraints are
// enforced by BasicParams.Validate, invoked by Build.
func (c *BasicConfig) Validate() error {
	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return &Error{Code: ErrParameter, Message: fmt.Sprintf("hash function must be 'sha256' or 'sha3', got %q", c.HashFunction)}
	}
	return nil
}

func (c *BasicConfig) WithFields(k, l *Field) *BasicConfig { c.K, c.L = k, l; return c }
func (c *BasicConfig) WithNVars(n int) *BasicConfig        { c.NVars = n; return c }
func (c *BasicConfig) WithLogRows(n int) *BasicConfig      { c.LogRows = n; return c }
func (c *BasicConfig) WithLogInvRate(n int) *BasicConfig   { c.LogInvRate = n; return c }
func (c *BasicConfig) WithNChallenges(n int) *BasicConfig  { c.NChallenges = n; return c }
func (c *BasicConfig) WithHashFunction(h string) *BasicConfig {
	c.HashFunction = h
	return c
}

// Clone returns a copy of c.
func (c *BasicConfig) Clone() *BasicConfig {
	clone := *c
	return &clone
}

// Build validates c and constructs the underlying BasicParams.
func (c *BasicConfig) Build() (BasicParams, error) {
	if err := c.Validate(); err != nil {
		return BasicParams{}, err
	}
	p, err := NewBasicParams(c.K, c.L, c.NVars, c.LogRows, c.LogInvRate, c.NChallenges)
	if err != nil {
		return BasicParams{}, &Error{Code: ErrParameter, Message: "invalid basic parameters", Cause: err}
	}
	p.Hash = hashFuncOf(c.HashFunction)
	return p, nil
}

// BlockConfig builds a BlockParams instance.
type BlockConfig struct {
	F, FA, FE    *Field
	NVars        int
	LogRows      int
	LogInvRate   int
	NChallenges  int
	HashFunction string
}

// DefaultBlockConfig returns the S2 scenario's parameter choices.
func DefaultBlockConfig() *BlockConfig {
	return &BlockConfig{
		F: BF8, FA: BF32, FE: BF128,
		NVars: 11, LogRows: 3, LogInvRate: 2, NChallenges: 64,
		HashFunction: "sha256",
	}
}

func (c *BlockConfig) Validate() error {
	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return &Error{Code: ErrParameter, Message: fmt.Sprintf("hash function must be 'sha256' or 'sha3', got %q", c.HashFunction)}
	}
	return nil
}

func (c *BlockConfig) WithFields(f, fa, fe *Field) *BlockConfig { c.F, c.FA, c.FE = f, fa, fe; return c }
func (c *BlockConfig) WithNVars(n int) *BlockConfig             { c.NVars = n; return c }
func (c *BlockConfig) WithLogRows(n int) *BlockConfig           { c.LogRows = n; return c }
func (c *BlockConfig) WithLogInvRate(n int) *BlockConfig        { c.LogInvRate = n; return c }
func (c *BlockConfig) WithNChallenges(n int) *BlockConfig       { c.NChallenges = n; return c }
func (c *BlockConfig) WithHashFunction(h string) *BlockConfig {
	c.HashFunction = h
	return c
}

func (c *BlockConfig) Clone() *BlockConfig {
	clone := *c
	return &clone
}

func (c *BlockConfig) Build() (BlockParams, error) {
	if err := c.Validate(); err != nil {
		return BlockParams{}, err
	}
	p, err := NewBlockParams(c.F, c.FA, c.FE, c.NVars, c.LogRows, c.LogInvRate, c.NChallenges)
	if err != nil {
		return BlockParams{}, &Error{Code: ErrParameter, Message: "invalid block parameters", Cause: err}
	}
	p.Hash = hashFuncOf(c.HashFunction)
	return p, nil
}

// RingSwitchConfig builds a RingSwitchParams instance, wrapping a
// BasicConfig for the inner scheme.
type RingSwitchConfig struct {
	K, L         *Field
	NVars        int
	Inner        *BasicConfig
	HashFunction string
}

// DefaultRingSwitchConfig returns the S3 scenario's parameter choices.
func DefaultRingSwitchConfig() *RingSwitchConfig {
	nVars := 11
	return &RingSwitchConfig{
		K: BF8, L: BF128, NVars: nVars,
		Inner: &BasicConfig{
			K: BF128, L: BF128,
			NVars: nVars - 4, LogRows: 3, LogInvRate: 2, NChallenges: 64,
			HashFunction: "sha256",
		},
		HashFunction: "sha256",
	}
}

func (c *RingSwitchConfig) Validate() error {
	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return &Error{Code: ErrParameter, Message: fmt.Sprintf("hash function must be 'sha256' or 'sha3', got %q", c.HashFunction)}
	}
	return c.Inner.Validate()
}

func (c *RingSwitchConfig) WithFields(k, l *Field) *RingSwitchConfig { c.K, c.L = k, l; return c }
func (c *RingSwitchConfig) WithNVars(n int) *RingSwitchConfig        { c.NVars = n; return c }
func (c *RingSwitchConfig) WithInner(inner *BasicConfig) *RingSwitchConfig {
	c.Inner = inner
	return c
}
func (c *RingSwitchConfig) WithHashFunction(h string) *RingSwitchConfig {
	c.HashFunction = h
	c.Inner.HashFunction = h
	return c
}

func (c *RingSwitchConfig) Clone() *RingSwitchConfig {
	clone := *c
	clone.Inner = c.Inner.Clone()
	return &clone
}

func (c *RingSwitchConfig) Build() (RingSwitchParams, error) {
	if err := c.Validate(); err != nil {
		return RingSwitchParams{}, err
	}
	innerParams, err := c.Inner.Build()
	if err != nil {
		return RingSwitchParams{}, &Error{Code: ErrParameter, Message: "invalid inner basic parameters", Cause: err}
	}
	p, err := NewRingSwitchParams(c.K, c.L, c.NVars, innerParams)
	if err != nil {
		return RingSwitchParams{}, &Error{Code: ErrParameter, Message: "invalid ring-switching parameters", Cause: err}
	}
	return p, nil
}

func hashFuncOf(name string) HashFunc {
	if name == "sha3" {
		return merkle.SHA3
	}
	return merkle.SHA256
}
