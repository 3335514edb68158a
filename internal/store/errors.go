package store

import (
	"errors"
	"fmt"
)

// Kind is the closed set of datastore failures the adapter reports.
// Callers switch on it rather than inspecting driver errors.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindUniqueViolation
	KindForeignKeyViolation
	KindNotNullViolation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUniqueViolation:
		return "unique_violation"
	case KindForeignKeyViolation:
		return "foreign_key_violation"
	case KindNotNullViolation:
		return "not_null_violation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Constraint names shared by both schema dialects.
const (
	ConstraintUserEmail  = "users_email_key"
	ConstraintBookCombo  = "unique_book_combo"
	ConstraintUserReview = "unique_user_book_review"
)

// Error is a classified datastore failure.
type Error struct {
	Kind       Kind
	Constraint string // set for constraint violations when the driver reports one
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same Kind, so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind && (t.Constraint == "" || t.Constraint == e.Constraint)
	}
	return false
}

// WithMessage returns a copy with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Constraint: e.Constraint, Message: msg, Err: e.Err}
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Constraint: e.Constraint, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrAlreadyExists    = &Error{Kind: KindUniqueViolation, Message: "resource already exists"}
	ErrReferenceMissing = &Error{Kind: KindForeignKeyViolation, Message: "referenced record does not exist"}
	ErrRequiredMissing  = &Error{Kind: KindNotNullViolation, Message: "required field is missing"}
)

// Violation builds a constraint error of the given kind.
func Violation(kind Kind, constraint string, cause error) *Error {
	var base *Error
	switch kind {
	case KindUniqueViolation:
		base = ErrAlreadyExists
	case KindForeignKeyViolation:
		base = ErrReferenceMissing
	case KindNotNullViolation:
		base = ErrRequiredMissing
	default:
		base = ErrNotFound
	}
	return &Error{Kind: kind, Constraint: constraint, Message: base.Message, Err: cause}
}
