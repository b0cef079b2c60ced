package logtree

import (
	"fmt"
	"unicode/utf8"

	"github.com/cybergodev/logtree/internal"
)

// Encoding tags whether an EncodedString's bytes are already in their
// final decoded form (Raw) or still contain JSON escapes (JSONEscaped).
type Encoding uint8

const (
	EncodingRaw Encoding = iota
	EncodingJSONEscaped
)

// EncodedString is a lazy, zero-copy view over a substring of an input
// buffer whose contents may still be in an encoded form. Decoding never
// happens implicitly — a consumer must call Decode to walk the bytes.
type EncodedString struct {
	Encoding Encoding
	Span     Span
}

// RawString builds an EncodedString whose span is already in its final
// decoded form (no escapes to process).
func RawString(span Span) EncodedString {
	return EncodedString{Encoding: EncodingRaw, Span: span}
}

// JSONString builds an EncodedString over span, the quoted JSON string
// form including its surrounding double quotes.
func JSONString(span Span) EncodedString {
	return EncodedString{Encoding: EncodingJSONEscaped, Span: span}
}

// DecodeErrorKind enumerates the ways EncodedString.Decode can fail.
type DecodeErrorKind uint8

const (
	DecodeEof DecodeErrorKind = iota
	DecodeInvalidEscape
	DecodeUnexpectedEndOfHexEscape
	DecodeLoneLeadingSurrogate
	DecodeInvalidUnicodeCodePoint
	DecodeUnexpectedControlCharacter
)

func (k DecodeErrorKind) String() string {
	switch k {
	case DecodeEof:
		return "unexpected end of input"
	case DecodeInvalidEscape:
		return "invalid escape"
	case DecodeUnexpectedEndOfHexEscape:
		return "unexpected end of hex escape"
	case DecodeLoneLeadingSurrogate:
		return "lone leading surrogate in hex escape"
	case DecodeInvalidUnicodeCodePoint:
		return "invalid unicode code point"
	case DecodeUnexpectedControlCharacter:
		return "unexpected control character"
	default:
		return "unknown decode error"
	}
}

// DecodeError is returned by EncodedString.Decode.
type DecodeError struct {
	Kind DecodeErrorKind
	Span Span
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at %s", e.Kind, e.Span)
}

// TokenHandler receives the decoded content of an EncodedString. Sequence
// is called for each maximal run of bytes that need no further decoding;
// Char is called for each individually-decoded escape. Empty sequences
// are never reported.
type TokenHandler interface {
	Sequence(span Span)
	Char(r rune)
}

// StringBuilder is an in-memory TokenHandler that accumulates decoded
// bytes into a contiguous buffer, used by tests and by formatters that
// need the fully decoded string.
type StringBuilder struct {
	buf []byte
	src []byte
}

// NewStringBuilder creates a StringBuilder that resolves Sequence tokens
// against src, the buffer the original EncodedString's span indexes into.
func NewStringBuilder(src []byte) *StringBuilder {
	return &StringBuilder{src: src}
}

func (b *StringBuilder) Sequence(span Span) {
	b.buf = append(b.buf, span.Slice(b.src)...)
}

func (b *StringBuilder) Char(r rune) {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	b.buf = append(b.buf, tmp[:n]...)
}

// Bytes returns the bytes accumulated so far.
func (b *StringBuilder) Bytes() []byte { return b.buf }

// Reset clears the accumulated bytes, retaining the backing array.
func (b *StringBuilder) Reset() { b.buf = b.buf[:0] }

// stringBuilderScratch recycles StringBuilder backing arrays across the
// many short-lived decodes the Level accessor and RecordAssembler.Observe
// perform (internal.BytesPool), rather than allocating fresh scratch
// space on every call.
var stringBuilderScratch = internal.NewBytesPool(64)

// AcquireStringBuilder returns a pooled StringBuilder ready to decode
// against src. Pair with ReleaseStringBuilder when done.
func AcquireStringBuilder(src []byte) *StringBuilder {
	return &StringBuilder{src: src, buf: stringBuilderScratch.Get()}
}

// ReleaseStringBuilder returns b's backing array to the pool. b must not
// be used again afterward.
func ReleaseStringBuilder(b *StringBuilder) {
	stringBuilderScratch.Put(b.buf)
	b.buf = nil
	b.src = nil
}

// Decode walks s's content against buf (the buffer s.Span indexes into)
// and reports tokens to h. Decoding is idempotent: decoding a Raw
// EncodedString emits exactly one Sequence over its span, or nothing
// when the span is empty.
func (s EncodedString) Decode(buf []byte, h TokenHandler) error {
	switch s.Encoding {
	case EncodingRaw:
		if !s.Span.Empty() {
			h.Sequence(s.Span)
		}
		return nil
	case EncodingJSONEscaped:
		return decodeJSONEscaped(s.Span, buf, h)
	default:
		return nil
	}
}

// decodeJSONEscaped decodes the body of a quoted JSON string (span
// includes the surrounding quotes) against the handler protocol described
// in spec §4.2.
func decodeJSONEscaped(span Span, buf []byte, h TokenHandler) error {
	body := buf[span.Start+1 : span.End-1]
	base := span.Start + 1

	runStart := 0
	i := 0
	flush := func(end int) {
		if end > runStart {
			h.Sequence(Span{Start: base + runStart, End: base + end})
		}
	}

	for i < len(body) {
		c := body[i]
		if c < 0x20 {
			flush(i)
			return &DecodeError{Kind: DecodeUnexpectedControlCharacter, Span: Span{Start: base + i, End: base + i + 1}}
		}
		if c != '\\' {
			i++
			continue
		}
		flush(i)
		if i+1 >= len(body) {
			return &DecodeError{Kind: DecodeEof, Span: Span{Start: base + i, End: base + len(body)}}
		}
		esc := body[i+1]
		switch esc {
		case '"':
			h.Char('"')
			i += 2
		case '\\':
			h.Char('\\')
			i += 2
		case '/':
			h.Char('/')
			i += 2
		case 'b':
			h.Char('\b')
			i += 2
		case 'f':
			h.Char('\f')
			i += 2
		case 'n':
			h.Char('\n')
			i += 2
		case 'r':
			h.Char('\r')
			i += 2
		case 't':
			h.Char('\t')
			i += 2
		case 'u':
			r, consumed, err := decodeUnicodeEscape(body, i+2, base)
			if err != nil {
				return err
			}
			h.Char(r)
			i = consumed
		default:
			return &DecodeError{Kind: DecodeInvalidEscape, Span: Span{Start: base + i, End: base + i + 2}}
		}
		runStart = i
	}
	flush(len(body))
	return nil
}

// decodeUnicodeEscape decodes a \uXXXX escape (and, if it is a high
// surrogate, the following \uXXXX low surrogate) starting at offset
// hexStart within body. Returns the decoded rune and the offset within
// body just past the escape(s) consumed.
func decodeUnicodeEscape(body []byte, hexStart int, base int) (rune, int, error) {
	if hexStart+4 > len(body) {
		return 0, 0, &DecodeError{Kind: DecodeUnexpectedEndOfHexEscape, Span: Span{Start: base + hexStart, End: base + len(body)}}
	}
	u, err := internal.DecodeHex4(body[hexStart : hexStart+4])
	if err != nil {
		return 0, 0, &DecodeError{Kind: DecodeInvalidEscape, Span: Span{Start: base + hexStart, End: base + hexStart + 4}}
	}
	next := hexStart + 4

	if internal.IsLowSurrogate(u) {
		return 0, 0, &DecodeError{Kind: DecodeLoneLeadingSurrogate, Span: Span{Start: base + hexStart - 2, End: base + next}}
	}
	if internal.IsHighSurrogate(u) {
		if next+6 > len(body) || body[next] != '\\' || body[next+1] != 'u' {
			return 0, 0, &DecodeError{Kind: DecodeLoneLeadingSurrogate, Span: Span{Start: base + hexStart - 2, End: base + next}}
		}
		lo, err := internal.DecodeHex4(body[next+2 : next+6])
		if err != nil {
			return 0, 0, &DecodeError{Kind: DecodeInvalidEscape, Span: Span{Start: base + next + 2, End: base + next + 6}}
		}
		if !internal.IsLowSurrogate(lo) {
			return 0, 0, &DecodeError{Kind: DecodeLoneLeadingSurrogate, Span: Span{Start: base + hexStart - 2, End: base + next + 6}}
		}
		r := internal.CombineSurrogates(u, lo)
		return r, next + 6, nil
	}

	r := rune(u)
	if !utf8.ValidRune(r) {
		return 0, 0, &DecodeError{Kind: DecodeInvalidUnicodeCodePoint, Span: Span{Start: base + hexStart - 2, End: base + next}}
	}
	return r, next, nil
}

// Equal reports whether s and o decode to the same byte sequence,
// comparing against buf (s's source buffer) and obuf (o's). Equality is
// always semantic: two differently-encoded spans that decode to the same
// bytes compare equal.
func (s EncodedString) Equal(buf []byte, o EncodedString, obuf []byte) bool {
	if s.Encoding == EncodingRaw && o.Encoding == EncodingRaw {
		return string(s.Span.Slice(buf)) == string(o.Span.Slice(obuf))
	}
	a := NewStringBuilder(buf)
	_ = s.Decode(buf, a)
	b := NewStringBuilder(obuf)
	_ = o.Decode(obuf, b)
	return string(a.Bytes()) == string(b.Bytes())
}

// EqualBytes reports whether s decodes to exactly other.
func (s EncodedString) EqualBytes(buf []byte, other []byte) bool {
	if s.Encoding == EncodingRaw {
		return string(s.Span.Slice(buf)) == string(other)
	}
	a := NewStringBuilder(buf)
	_ = s.Decode(buf, a)
	return string(a.Bytes()) == string(other)
}
