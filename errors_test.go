package logtree

import (
	"errors"
	"testing"
)

func TestSyntaxErrorIsSentinel(t *testing.T) {
	err := newSyntaxError(FormatJSON, UnexpectedToken, Span{Start: 1, End: 2})
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Error("errors.Is(err, ErrUnexpectedToken) = false, want true")
	}
	if errors.Is(err, ErrUnexpectedEof) {
		t.Error("errors.Is(err, ErrUnexpectedEof) = true, want false")
	}
}

func TestFormatErrorIsCannotDetermineFormat(t *testing.T) {
	err := &FormatError{Formats: []LogFormat{FormatJSON, FormatLogfmt}, Span: Span{Start: 0, End: 1}}
	if !errors.Is(err, ErrCannotDetermineFormat) {
		t.Error("errors.Is(err, ErrCannotDetermineFormat) = false, want true")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := map[ErrorKind]string{
		InvalidToken:          "invalid token",
		UnexpectedToken:       "unexpected token",
		UnexpectedEof:         "unexpected end of input",
		UnmatchedTokenPair:    "unmatched token pair",
		DepthLimitExceeded:    "depth limit exceeded",
		ExpectedObject:        "expected a JSON object",
		CannotDetermineFormat: "cannot determine format",
		Utf8Error:             "invalid UTF-8",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", kind, got, want)
		}
	}
}
