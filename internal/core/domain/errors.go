package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedLine indicates a line that is not a valid JSON object.
	// Malformed framing in either input stream aborts the whole run;
	// only malformed field values degrade to null.
	ErrMalformedLine = errors.New("malformed JSON line")

	// ErrUnsupportedType indicates an unknown index or stream type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrStoreClosed indicates the metadata store has been closed.
	ErrStoreClosed = errors.New("metadata store closed")
)
