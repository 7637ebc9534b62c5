// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an expected business outcome.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindCredentials Kind = "credentials"
	KindConflict    Kind = "conflict"
	KindNotFound    Kind = "not_found"
)

// DomainError is an expected business outcome: a failure kind plus a message
// meant for the end user. Anything that is not a DomainError is a
// collaborator failure (store unreachable, session transport broken) and
// must never be presented as a credential or validation problem.
type DomainError struct {
	Kind    Kind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func newDomain(kind Kind, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *DomainError {
	return newDomain(KindValidation, format, args...)
}

func Credentials(format string, args ...interface{}) *DomainError {
	return newDomain(KindCredentials, format, args...)
}

func Conflict(format string, args ...interface{}) *DomainError {
	return newDomain(KindConflict, format, args...)
}

func NotFound(format string, args ...interface{}) *DomainError {
	return newDomain(KindNotFound, format, args...)
}

// AsDomain extracts the domain outcome when err is one.
func AsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
