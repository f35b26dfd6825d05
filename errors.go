package json

import "errors"

// Sentinel error kinds returned by the Value accessor and Generator
// surfaces. Tokenizer and Parser do not return errors for malformed
// input from Feed: it surfaces as observable status (IsFailed +
// ErrorString). They use these sentinels only in LastParsedRoot
// (ErrInvalidOp) and in their optional Err methods (ErrParse).
var (
	// ErrType is returned when a scalar extraction's requested tag
	// does not match the Value's actual kind.
	ErrType = errors.New("invalid cast")
	// ErrBounds is returned when a positional access index falls
	// outside [0, Count).
	ErrBounds = errors.New("index out of range")
	// ErrInvalidOp is returned when an operation is attempted before
	// the state machine that produces its precondition has completed,
	// e.g. reading LastParsedRoot before the Parser reaches Done.
	ErrInvalidOp = errors.New("invalid operation")
	// ErrGenerate is returned when a Generator emit call would produce
	// malformed JSON, e.g. a non-string value in object-key position.
	ErrGenerate = errors.New("generator error")
	// ErrParse wraps a failed Tokenizer's or Parser's terminal error
	// string for callers that parse a whole document in one call.
	ErrParse = errors.New("parse error")
)
