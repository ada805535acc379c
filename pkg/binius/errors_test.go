package binius

import (
	"errors"
	"testing"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("underlying failure")
	err := &Error{Code: ErrEncoding, Message: "reshape failed", Cause: cause}

	if !errors.Is(err.Unwrap(), cause) {
		t.Fatal("Unwrap did not return the wrapped cause")
	}
	if got := err.Error(); got == "" {
		t.Fatal("Error() returned an empty string")
	}
}

func TestErrorIsMatchesOnCode(t *testing.T) {
	a := &Error{Code: ErrParameter, Message: "bad n_vars"}
	b := &Error{Code: ErrParameter, Message: "bad log_rows"}
	c := &Error{Code: ErrVerification, Message: "merkle branch mismatch"}

	if !a.Is(b) {
		t.Fatal("errors with the same code should match")
	}
	if a.Is(c) {
		t.Fatal("errors with different codes should not match")
	}
}
