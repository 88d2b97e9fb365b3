package directory

import (
	"errors"
	"fmt"
)

// Kind classifies the failures raised by the directory core.
type Kind int

const (
	// KindConfigValidation marks invalid configuration detected during
	// normalization. Fatal at startup.
	KindConfigValidation Kind = iota + 1
	// KindConnectivity marks exhaustion of a domain's server list without
	// a successful connect and bind. Soft, fallback-gated.
	KindConnectivity
	// KindCredential marks a rejected end-user bind. Soft, fallback-gated.
	KindCredential
	// KindSearchBaseMissing marks a domain without a configured search
	// base. A configuration defect, hard, never fallback-gated.
	KindSearchBaseMissing
	// KindNotInSearchBase marks a user whose password verified but who is
	// outside the permitted search base. Soft, fallback-gated.
	KindNotInSearchBase
	// KindMapping marks missing prerequisites during group
	// reconciliation. Aborts only the reconciliation step.
	KindMapping
	// KindUnsupported marks explicitly unimplemented provider operations.
	KindUnsupported
)

// String returns the kind tag name.
func (k Kind) String() string {
	switch k {
	case KindConfigValidation:
		return "config-validation"
	case KindConnectivity:
		return "connectivity"
	case KindCredential:
		return "credential"
	case KindSearchBaseMissing:
		return "search-base-missing"
	case KindNotInSearchBase:
		return "not-in-search-base"
	case KindMapping:
		return "mapping"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the uniform error value raised by the directory core. It
// carries a kind tag for classification plus a localization key and
// parameters so the caller can render a user-facing message.
type Error struct {
	Kind   Kind
	Key    string
	Params map[string]string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Key, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Key)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Soft reports whether the failure is subject to the per-domain local
// fallback policy. Hard failures fail authentication regardless of the
// UseLocal flag.
func (e *Error) Soft() bool {
	switch e.Kind {
	case KindConnectivity, KindCredential, KindNotInSearchBase:
		return true
	default:
		return false
	}
}

// newError builds an Error without an underlying cause.
func newError(kind Kind, key string, params map[string]string) *Error {
	return &Error{Kind: kind, Key: key, Params: params}
}

// wrapError builds an Error carrying an underlying cause.
func wrapError(kind Kind, key string, params map[string]string, err error) *Error {
	return &Error{Kind: kind, Key: key, Params: params, Err: err}
}

// IsKind reports whether err is a directory Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind == kind
	}

	return false
}
