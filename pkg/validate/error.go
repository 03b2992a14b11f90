package validate

import "fmt"

// Kind distinguishes the two classes of precondition failure. Callers
// branch on it, so the split is part of the contract.
type Kind int

const (
	// KindValue means a value was empty, non-positive, or otherwise out
	// of range for its type.
	KindValue Kind = iota

	// KindType means a value had the wrong kind entirely (e.g. a result
	// count that is not an integer, or a metadata value of an
	// unsupported type).
	KindType
)

// String returns the kind's name for error messages and API responses.
func (k Kind) String() string {
	if k == KindType {
		return "type"
	}
	return "value"
}

// Error is a precondition failure raised before any network activity.
type Error struct {
	// Kind is the failure class: KindValue or KindType.
	Kind Kind

	// Field names the offending input.
	Field string

	// Reason is a human-readable description.
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func valueError(field, reason string) *Error {
	return &Error{Kind: KindValue, Field: field, Reason: reason}
}

func typeError(field, reason string) *Error {
	return &Error{Kind: KindType, Field: field, Reason: reason}
}
