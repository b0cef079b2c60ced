package logtree

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the taxonomy an error belongs to. Every value
// reported through the Parser carries a Span locating the offending
// bytes, per spec; ErrorKind alone identifies which invariant was
// violated.
type ErrorKind uint8

const (
	// InvalidToken: the lexer could not recognize input at a position.
	InvalidToken ErrorKind = iota
	// UnexpectedToken: the parser received a legal token in an illegal
	// state.
	UnexpectedToken
	// UnexpectedEof: input ended inside a composite or an escape.
	UnexpectedEof
	// UnmatchedTokenPair: '{'/'[' without a matching '}'/']'.
	UnmatchedTokenPair
	// DepthLimitExceeded: nested composites exceeded the configured
	// limit.
	DepthLimitExceeded
	// ExpectedObject: the JSON top-level value was not an object.
	ExpectedObject
	// CannotDetermineFormat: every enabled format rejected the record.
	CannotDetermineFormat
	// Utf8Error: bytes inside a key or string were not valid UTF-8 when
	// a consumer requested the decoded form.
	Utf8Error
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidToken:
		return "invalid token"
	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedEof:
		return "unexpected end of input"
	case UnmatchedTokenPair:
		return "unmatched token pair"
	case DepthLimitExceeded:
		return "depth limit exceeded"
	case ExpectedObject:
		return "expected a JSON object"
	case CannotDetermineFormat:
		return "cannot determine format"
	case Utf8Error:
		return "invalid UTF-8"
	default:
		return "unknown error"
	}
}

// Sentinel errors usable with errors.Is against a package-level
// `var Err... = errors.New(...)` taxonomy.
var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrUnexpectedToken       = errors.New("unexpected token")
	ErrUnexpectedEof         = errors.New("unexpected end of input")
	ErrUnmatchedTokenPair    = errors.New("unmatched token pair")
	ErrDepthLimitExceeded    = errors.New("depth limit exceeded")
	ErrExpectedObject        = errors.New("expected a JSON object")
	ErrCannotDetermineFormat = errors.New("cannot determine format")
	ErrUtf8                  = errors.New("invalid UTF-8")

	ErrNilInput    = errors.New("input buffer cannot be nil")
	ErrNoFormats   = errors.New("enabled format list cannot be empty")
	ErrBadRollback = errors.New("rollback checkpoint does not match current depth")
)

func sentinelFor(k ErrorKind) error {
	switch k {
	case InvalidToken:
		return ErrInvalidToken
	case UnexpectedToken:
		return ErrUnexpectedToken
	case UnexpectedEof:
		return ErrUnexpectedEof
	case UnmatchedTokenPair:
		return ErrUnmatchedTokenPair
	case DepthLimitExceeded:
		return ErrDepthLimitExceeded
	case ExpectedObject:
		return ErrExpectedObject
	case CannotDetermineFormat:
		return ErrCannotDetermineFormat
	case Utf8Error:
		return ErrUtf8
	default:
		return errors.New(k.String())
	}
}

// SyntaxError is the error type returned by a format parser: an
// ErrorKind located at a Span within the record's source bytes, scoped to
// the format that raised it.
type SyntaxError struct {
	Kind   ErrorKind
	Span   Span
	Format LogFormat
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Format, e.Kind, e.Span)
}

// Is allows errors.Is(err, logtree.ErrUnexpectedToken) and similar checks
// against the SyntaxError's ErrorKind.
func (e *SyntaxError) Is(target error) bool {
	return errors.Is(sentinelFor(e.Kind), target)
}

// Unwrap exposes the underlying sentinel so errors.Is walks naturally.
func (e *SyntaxError) Unwrap() error {
	return sentinelFor(e.Kind)
}

func newSyntaxError(format LogFormat, kind ErrorKind, span Span) *SyntaxError {
	return &SyntaxError{Kind: kind, Span: span, Format: format}
}

// FormatError is raised by AutoFormat when every enabled format rejects a
// record. It carries the list of format names attempted and the Span of
// the first attempted format's error, per spec §7.
type FormatError struct {
	Formats []LogFormat
	Span    Span
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot determine format (tried %v) at %s", e.Formats, e.Span)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrCannotDetermineFormat
}

func (e *FormatError) Unwrap() error {
	return ErrCannotDetermineFormat
}
