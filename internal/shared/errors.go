package shared

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Package level errors wrap exactly one of these so callers can
// branch on the category without knowing every concrete error.
var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrDomainRule marks well-formed input rejected by a business rule.
	ErrDomainRule = errors.New("rule violated")
	// ErrFormat marks an imported document with the wrong shape.
	ErrFormat = errors.New("invalid format")
)

// genericMessage is shown for errors outside the known taxonomy.
const genericMessage = "unexpected error, please try again"

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NewError builds a sentinel error that reports kind through errors.Is.
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// FieldErrors collects validation failures keyed by field name.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match field errors.
func (f FieldErrors) Unwrap() error { return ErrValidation }

// UserSafeMessage returns the message that may be shown to the user.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields.Error()
	}
	var kerr *kindError
	if errors.As(err, &kerr) {
		return kerr.msg
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation), errors.Is(err, ErrDomainRule), errors.Is(err, ErrFormat):
		return err.Error()
	}
	return genericMessage
}
