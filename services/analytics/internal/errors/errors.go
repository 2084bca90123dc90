package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeSchemaViolation ErrorType = "SCHEMA_VIOLATION"
	ErrTypeTypeCoercion    ErrorType = "TYPE_COERCION"
	ErrTypeEmptyGroup      ErrorType = "EMPTY_GROUP"
	ErrTypeInvalidInput    ErrorType = "INVALID_INPUT"
	ErrTypeInternal        ErrorType = "INTERNAL"
	ErrTypeUnavailable     ErrorType = "UNAVAILABLE"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// SchemaViolation reports a broken key or foreign key in the loaded relations.
func SchemaViolation(message string, err error) *DomainError {
	return New(ErrTypeSchemaViolation, message, err)
}

// TypeCoercion reports a raw column value that cannot be normalized, such as
// a work-from-home flag outside {true, false, 0, 1}.
func TypeCoercion(message string, err error) *DomainError {
	return New(ErrTypeTypeCoercion, message, err)
}

func EmptyGroup(message string, err error) *DomainError {
	return New(ErrTypeEmptyGroup, message, err)
}

func InvalidInput(message string, err error) *DomainError {
	return New(ErrTypeInvalidInput, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

func Unavailable(message string, err error) *DomainError {
	return New(ErrTypeUnavailable, message, err)
}

// IsType reports whether any DomainError in err's chain has the given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var de *DomainError
		if !stderrors.As(err, &de) {
			return false
		}
		if de.Type == errType {
			return true
		}
		err = de.Err
	}
	return false
}
