package directory

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorSoftness(t *testing.T) {
	testCases := []struct {
		kind Kind
		soft bool
	}{
		{KindConfigValidation, false},
		{KindConnectivity, true},
		{KindCredential, true},
		{KindSearchBaseMissing, false},
		{KindNotInSearchBase, true},
		{KindMapping, false},
		{KindUnsupported, false},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := newError(tc.kind, "key", nil)
			if err.Soft() != tc.soft {
				t.Errorf("Soft() = %v, want %v", err.Soft(), tc.soft)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("network unreachable")
	err := wrapError(KindConnectivity, "ldapauth-no-connect", nil, cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsKind(wrapped, KindConnectivity) {
		t.Error("IsKind fails through wrapping")
	}

	if IsKind(wrapped, KindCredential) {
		t.Error("IsKind matches wrong kind")
	}

	if IsKind(cause, KindConnectivity) {
		t.Error("IsKind matches a plain error")
	}
}

func TestErrorString(t *testing.T) {
	err := newError(KindCredential, "wrongpassword", nil)
	if got := err.Error(); got != "credential: wrongpassword" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := wrapError(KindConnectivity, "ldapauth-no-connect", nil, errors.New("refused"))
	if got := wrapped.Error(); got != "connectivity: ldapauth-no-connect: refused" {
		t.Errorf("Error() = %q", got)
	}
}
