package errors

import "strings"

// MultiError collects errors from a sequence of independent steps,
// e.g. closing several backing stores.
type MultiError interface {
	List() []error
	Size() int
	Add(error)
	Error() string
	// ErrorOrNil returns nil when nothing was collected.
	ErrorOrNil() error
}

func NewMultiError() MultiError {
	return &multiError{
		errors: make([]error, 0),
	}
}

type multiError struct {
	errors []error
}

func (e *multiError) Size() int {
	return len(e.errors)
}

func (e *multiError) List() []error {
	return e.errors
}

// Add ignores nil errors.
func (e *multiError) Add(err error) {
	if err == nil {
		return
	}
	e.errors = append(e.errors, err)
}

func (e *multiError) ErrorOrNil() error {
	if len(e.errors) == 0 {
		return nil
	}
	return e
}

func (e *multiError) Error() string {
	var builder strings.Builder
	for i, err := range e.errors {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(err.Error())
	}
	return builder.String()
}

// Is reports whether any collected error matches target.
func (e *multiError) Is(target error) bool {
	for _, err := range e.errors {
		if Is(err, target) {
			return true
		}
	}
	return false
}
