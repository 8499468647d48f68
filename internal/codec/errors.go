package codec

import (
	"errors"
	"fmt"
)

// Decode failure kinds. Match them with errors.Is.
var (
	ErrMissingField        = errors.New("missing field")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrInvalidEnumCode     = errors.New("invalid enum code")
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrMalformedTimestamp  = errors.New("malformed timestamp")
)

// DecodeError reports why a document could not be decoded into a record.
type DecodeError struct {
	Kind     error  // one of the Err* values above
	Record   string // record being decoded, e.g. "ticket"
	Field    string // dotted path of the offending field
	Expected string // expected stored type, for ErrTypeMismatch
	Actual   string // actual stored type, for ErrTypeMismatch
	Value    int64  // rejected code, for ErrInvalidEnumCode
	Err      error  // underlying parse error, if any
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s: field %q: %v", e.Record, e.Field, e.Kind)
	switch {
	case errors.Is(e.Kind, ErrTypeMismatch):
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	case errors.Is(e.Kind, ErrInvalidEnumCode):
		msg += fmt.Sprintf(": %d", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the failure kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func missingField(record, field string) *DecodeError {
	return &DecodeError{Kind: ErrMissingField, Record: record, Field: field}
}

func typeMismatch(record, field, expected string, actual interface{}) *DecodeError {
	return &DecodeError{
		Kind:     ErrTypeMismatch,
		Record:   record,
		Field:    field,
		Expected: expected,
		Actual:   typeName(actual),
	}
}

func invalidEnumCode(record, field string, code int64) *DecodeError {
	return &DecodeError{Kind: ErrInvalidEnumCode, Record: record, Field: field, Value: code}
}
