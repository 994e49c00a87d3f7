package schema

import (
	"errors"
	"fmt"
)

// ErrUnsupportedExpression is returned for $eval values.
var ErrUnsupportedExpression = errors.New("unsupported expression")

// ErrInvalidDocument is returned when the document does not have the expected shape.
var ErrInvalidDocument = errors.New("invalid document")

// AggregateError collects every decoding failure of a document.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d declaration errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// DecodeErrors returns all decoding errors if err is an AggregateError.
// Otherwise returns nil.
func DecodeErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
