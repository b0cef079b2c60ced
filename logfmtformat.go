package logtree

import "github.com/cybergodev/logtree/internal"

// ParseLogfmt parses buf (one complete record's bytes) as a logfmt line
// — a whitespace-separated sequence of key=value pairs, with the whole
// line treated as an implicit top-level object — and drives sink with
// the same uniform token stream JSON uses, so RecordAssembler and the
// FlatTree builder need no format-specific code.
//
// Bare true/false/null are recognized as typed scalars when
// settings.LogfmtBareBool is set (Open Question (b)); otherwise every
// bare, unquoted value is a raw string. A bare value matching the JSON
// number grammar is always recognized as a Number, independent of
// LogfmtBareBool.
func ParseLogfmt[S Sink[S]](buf []byte, settings *Settings, sink S, onField func(EncodedString, int)) (S, error) {
	p := &logfmtParser[S]{buf: buf, settings: settings, onField: onField}
	return p.parseLine(sink)
}

type logfmtParser[S Sink[S]] struct {
	buf      []byte
	pos      int
	settings *Settings
	onField  func(EncodedString, int)
}

func (p *logfmtParser[S]) skipSpaces() {
	for p.pos < len(p.buf) {
		switch p.buf[p.pos] {
		case ' ', '\t':
			p.pos++
		default:
			return
		}
	}
}

// parseLine builds the implicit root object covering the whole line.
func (p *logfmtParser[S]) parseLine(b S) (S, error) {
	return b.BuildErr(objectValue(), func(inner S) (S, error) {
		for {
			p.skipSpaces()
			if p.pos >= len(p.buf) {
				return inner, nil
			}
			if p.buf[p.pos] == '\n' || p.buf[p.pos] == '\r' {
				return inner, nil
			}
			if !internal.IsLogfmtKeyByte(p.buf[p.pos]) {
				return inner, newSyntaxError(FormatLogfmt, InvalidToken, Span{Start: p.pos, End: p.pos + 1})
			}

			keyStart := p.pos
			for p.pos < len(p.buf) && p.buf[p.pos] != '=' && p.buf[p.pos] != ' ' && p.buf[p.pos] != '\t' && p.buf[p.pos] != '\n' && p.buf[p.pos] != '\r' {
				p.pos++
			}
			key := RawString(Span{Start: keyStart, End: p.pos})

			if p.pos >= len(p.buf) || p.buf[p.pos] != '=' {
				// A bare key with no '=' is a key whose value is an
				// implicit bare-true marker (common logfmt shorthand).
				var ferr error
				inner, ferr = p.buildField(inner, key, func(fb S) (S, error) {
					return fb.Push(scalarValue(BoolScalar(true))), nil
				})
				if ferr != nil {
					return inner, ferr
				}
				continue
			}
			p.pos++ // '='

			if p.pos >= len(p.buf) || p.buf[p.pos] == ' ' || p.buf[p.pos] == '\t' || p.buf[p.pos] == '\n' || p.buf[p.pos] == '\r' {
				return inner, newSyntaxError(FormatLogfmt, UnexpectedEof, Span{Start: p.pos, End: p.pos})
			}

			var ferr error
			inner, ferr = p.buildField(inner, key, p.parseValue)
			if ferr != nil {
				return inner, ferr
			}
		}
	})
}

func (p *logfmtParser[S]) buildField(inner S, key EncodedString, parseVal func(S) (S, error)) (S, error) {
	if inner.Depth() == 1 && p.onField != nil {
		p.onField(key, inner.NextIndex()+1)
	}
	return inner.BuildErr(keyValue(key), func(fb S) (S, error) {
		return parseVal(fb)
	})
}

func (p *logfmtParser[S]) parseValue(b S) (S, error) {
	if p.buf[p.pos] == '"' {
		es, err := p.parseQuoted()
		if err != nil {
			return b, err
		}
		return b.Push(scalarValue(StringScalar(es))), nil
	}
	start := p.pos
	for p.pos < len(p.buf) && internal.IsLogfmtBareValueByte(p.buf[p.pos]) {
		p.pos++
	}
	sp := Span{Start: start, End: p.pos}
	text := sp.Slice(p.buf)

	if p.settings.LogfmtBareBool {
		switch string(text) {
		case "true":
			return b.Push(scalarValue(BoolScalar(true))), nil
		case "false":
			return b.Push(scalarValue(BoolScalar(false))), nil
		case "null":
			return b.Push(scalarValue(NullScalar())), nil
		}
	}
	if looksLikeNumber(text) {
		return b.Push(scalarValue(NumberScalar(sp))), nil
	}
	return b.Push(scalarValue(StringScalar(RawString(sp)))), nil
}

// parseQuoted consumes a double-quoted logfmt value using the same
// escape grammar as JSON strings.
func (p *logfmtParser[S]) parseQuoted() (EncodedString, error) {
	start := p.pos
	p.pos++ // opening quote
	escaped := false
	for {
		if p.pos >= len(p.buf) {
			return EncodedString{}, newSyntaxError(FormatLogfmt, UnexpectedEof, Span{Start: start, End: p.pos})
		}
		c := p.buf[p.pos]
		switch {
		case c == '"':
			end := p.pos + 1
			p.pos = end
			if escaped {
				return JSONString(Span{Start: start, End: end}), nil
			}
			return RawString(Span{Start: start + 1, End: end - 1}), nil
		case c == '\\':
			escaped = true
			p.pos++
			if p.pos >= len(p.buf) {
				return EncodedString{}, newSyntaxError(FormatLogfmt, UnexpectedEof, Span{Start: start, End: p.pos})
			}
			if p.buf[p.pos] == 'u' {
				hexStart := p.pos + 1
				if hexStart+4 > len(p.buf) {
					return EncodedString{}, newSyntaxError(FormatLogfmt, UnexpectedEof, Span{Start: start, End: len(p.buf)})
				}
				for k := 0; k < 4; k++ {
					if !internal.IsHexDigit(p.buf[hexStart+k]) {
						return EncodedString{}, newSyntaxError(FormatLogfmt, InvalidToken, Span{Start: hexStart, End: hexStart + 4})
					}
				}
				p.pos = hexStart + 4
			} else {
				p.pos++
			}
		default:
			p.pos++
		}
	}
}

// looksLikeNumber reports whether text matches the JSON number grammar
// -?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?, used to decide whether a bare
// logfmt value should be captured as a Number scalar.
func looksLikeNumber(text []byte) bool {
	i := 0
	n := len(text)
	if n == 0 {
		return false
	}
	if text[0] == '-' {
		i++
	}
	if i >= n || !internal.IsDigit(text[i]) {
		return false
	}
	if text[i] == '0' {
		i++
	} else {
		for i < n && internal.IsDigit(text[i]) {
			i++
		}
	}
	if i < n && text[i] == '.' {
		i++
		if i >= n || !internal.IsDigit(text[i]) {
			return false
		}
		for i < n && internal.IsDigit(text[i]) {
			i++
		}
	}
	if i < n && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < n && (text[i] == '+' || text[i] == '-') {
			i++
		}
		if i >= n || !internal.IsDigit(text[i]) {
			return false
		}
		for i < n && internal.IsDigit(text[i]) {
			i++
		}
	}
	return i == n
}
