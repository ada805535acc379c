// Package codes implements the Reed-Solomon encoder used as the
// error-correcting code underlying every PCS variant's column commitment:
// repeat a message of length 2^log_dim to fill the additive domain of length
// 2^(log_dim+log_inv_rate) and run the additive NTT, which evaluates the
// message polynomial at every point of that domain.
package codes

import (
	"fmt"

	"github.com/vybium/binius-pcs/internal/binius/field"
	"github.com/vybium/binius-pcs/internal/binius/ntt"
	"github.com/vybium/binius-pcs/internal/binius/toweralgebra"
)

// ReedSolomonCode is parameterized by the message dimension, the inverse
// rate, and the field the NTT runs over.
type ReedSolomonCode struct {
	LogDim     int
	LogInvRate int
	Field      *field.Field

	domain *ntt.Domain
}

// NewReedSolomonCode builds the code and precomputes its NTT twiddle
// tables. Codeword length is 2^(LogDim+LogInvRate), dimension 2^LogDim,
// minimum distance 2^(LogDim+LogInvRate) - 2^LogDim + 1.
func NewReedSolomonCode(logDim, logInvRate int, f *field.Field) (*ReedSolomonCode, error) {
	if logDim < 0 || logInvRate < 0 {
		return nil, fmt.Errorf("codes: log_dim and log_inv_rate must be non-negative, got %d, %d", logDim, logInvRate)
	}
	logDomainSize := logDim + logInvRate
	dom, err := ntt.NewDomain(logDim, logDomainSize, f)
	if err != nil {
		return nil, fmt.Errorf("codes: building RS code: %w", err)
	}
	return &ReedSolomonCode{LogDim: logDim, LogInvRate: logInvRate, Field: f, domain: dom}, nil
}

// CodewordLen is 2^(LogDim+LogInvRate).
func (c *ReedSolomonCode) CodewordLen() int { return 1 << uint(c.LogDim+c.LogInvRate) }

// Dimension is 2^LogDim.
func (c *ReedSolomonCode) Dimension() int { return 1 << uint(c.LogDim) }

func (c *ReedSolomonCode) repeatExtend(data []field.Element) ([]field.Element, error) {
	dim := c.Dimension()
	if len(data) != dim {
		return nil, fmt.Errorf("codes: encode expects %d elements, got %d", dim, len(data))
	}
	want := c.CodewordLen()
	extended := make([]field.Element, want)
	copy(extended, data)
	for i := len(data); i < want; i++ {
		extended[i] = data[i%dim]
	}
	if len(extended) != want {
		return nil, fmt.Errorf("codes: extension produced length %d, want %d", len(extended), want)
	}
	return extended, nil
}

// Encode repeats data (length 2^LogDim) across the full additive domain and
// evaluates it there, returning a codeword of length 2^(LogDim+LogInvRate). It
// does not mutate data.
func (c *ReedSolomonCode) Encode(data []field.Element) ([]field.Element, error) {
	extended, err := c.repeatExtend(data)
	if err != nil {
		return nil, err
	}
	wrapped := ntt.WrapFieldElements(extended)
	if err := c.domain.ForwardTransform(wrapped); err != nil {
		return nil, fmt.Errorf("codes: encode: %w", err)
	}
	return ntt.UnwrapFieldElements(wrapped), nil
}

// EncodeAlgebra is the TowerAlgebra-valued counterpart of Encode, used by
// the block PCS's high-side RS-consistency check.
func (c *ReedSolomonCode) EncodeAlgebra(data []toweralgebra.Element) ([]toweralgebra.Element, error) {
	dim := c.Dimension()
	if len(data) != dim {
		return nil, fmt.Errorf("codes: encode expects %d elements, got %d", dim, len(data))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("codes: encode requires at least one element to infer field shape")
	}
	want := c.CodewordLen()
	extended := make([]toweralgebra.Element, want)
	copy(extended, data)
	for i := len(data); i < want; i++ {
		extended[i] = data[i%dim]
	}
	wrapped := ntt.WrapAlgebraElements(extended)
	if err := c.domain.ForwardTransform(wrapped); err != nil {
		return nil, fmt.Errorf("codes: encode algebra: %w", err)
	}
	return ntt.UnwrapAlgebraElements(wrapped), nil
}
