package checksum

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Error() strings are intentionally human-readable and may evolve.
type Kind string

const (
	KindUnsupportedType    Kind = "UnsupportedType"
	KindUnhandledContainer Kind = "UnhandledContainer"
	KindInvalidChecksum    Kind = "InvalidChecksum"
	KindInvalidDependsOn   Kind = "InvalidDependsOn"
	KindInvalidData        Kind = "InvalidData"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g., QSUM-TYPE-001) that names the violated
// invariant. Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is a checksum Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
