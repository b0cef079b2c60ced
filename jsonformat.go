package logtree

import "github.com/cybergodev/logtree/internal"

// ParseJSON parses buf (one complete record's bytes) as a single JSON
// object and drives sink with the uniform token stream described by
// token.go. It is generic over any Sink implementation, so the same
// lexer/parser builds a real FlatTree, discards everything (Discarder),
// or does both while also feeding a RecordAssembler (BuilderWithAttachment).
//
// onField, when non-nil, is called for every direct member of the top-
// level object (builder depth 1) with its key and the node index
// its value will occupy, before the value is parsed. RecordAssembler.Observe
// is the only current caller.
func ParseJSON[S Sink[S]](buf []byte, settings *Settings, sink S, onField func(EncodedString, int)) (S, error) {
	p := &jsonParser[S]{buf: buf, settings: settings, onField: onField}
	p.skipWS()
	if p.pos >= len(p.buf) {
		return sink, newSyntaxError(FormatJSON, UnexpectedEof, Span{Start: p.pos, End: p.pos})
	}
	if p.buf[p.pos] != '{' {
		return sink, newSyntaxError(FormatJSON, ExpectedObject, Span{Start: p.pos, End: p.pos + 1})
	}
	out, err := p.parseValue(sink)
	if err != nil {
		return sink, err
	}
	p.skipWS()
	if p.pos != len(p.buf) {
		return sink, newSyntaxError(FormatJSON, UnexpectedToken, Span{Start: p.pos, End: p.pos + 1})
	}
	return out, nil
}

type jsonParser[S Sink[S]] struct {
	buf      []byte
	pos      int
	settings *Settings
	onField  func(EncodedString, int)
}

func (p *jsonParser[S]) skipWS() {
	for p.pos < len(p.buf) && internal.IsJSONWhitespace(p.buf[p.pos]) {
		p.pos++
	}
}

func (p *jsonParser[S]) parseValue(b S) (S, error) {
	p.skipWS()
	if p.pos >= len(p.buf) {
		return b, newSyntaxError(FormatJSON, UnexpectedEof, Span{Start: p.pos, End: p.pos})
	}
	switch c := p.buf[p.pos]; {
	case c == '{':
		return p.parseObject(b)
	case c == '[':
		return p.parseArray(b)
	case c == '"':
		es, err := p.parseString()
		if err != nil {
			return b, err
		}
		return b.Push(scalarValue(StringScalar(es))), nil
	case c == 't':
		if !p.literal("true") {
			return b, newSyntaxError(FormatJSON, InvalidToken, Span{Start: p.pos, End: p.pos + 1})
		}
		return b.Push(scalarValue(BoolScalar(true))), nil
	case c == 'f':
		if !p.literal("false") {
			return b, newSyntaxError(FormatJSON, InvalidToken, Span{Start: p.pos, End: p.pos + 1})
		}
		return b.Push(scalarValue(BoolScalar(false))), nil
	case c == 'n':
		if !p.literal("null") {
			return b, newSyntaxError(FormatJSON, InvalidToken, Span{Start: p.pos, End: p.pos + 1})
		}
		return b.Push(scalarValue(NullScalar())), nil
	case c == '-' || internal.IsDigit(c):
		sp, err := p.parseNumber()
		if err != nil {
			return b, err
		}
		return b.Push(scalarValue(NumberScalar(sp))), nil
	case c == '}' || c == ']' || c == ',' || c == ':':
		// A structural token, just not one that can start a value: legal
		// in the lexer, illegal in this position.
		return b, newSyntaxError(FormatJSON, UnexpectedToken, Span{Start: p.pos, End: p.pos + 1})
	default:
		return b, newSyntaxError(FormatJSON, InvalidToken, Span{Start: p.pos, End: p.pos + 1})
	}
}

func (p *jsonParser[S]) literal(lit string) bool {
	if p.pos+len(lit) > len(p.buf) {
		return false
	}
	if string(p.buf[p.pos:p.pos+len(lit)]) != lit {
		return false
	}
	p.pos += len(lit)
	return true
}

func (p *jsonParser[S]) parseObject(b S) (S, error) {
	start := p.pos
	if b.Depth()+1 > p.settings.MaxDepth {
		return b, newSyntaxError(FormatJSON, DepthLimitExceeded, Span{Start: start, End: start + 1})
	}
	p.pos++ // '{'
	return b.BuildErr(objectValue(), func(inner S) (S, error) {
		p.skipWS()
		if p.pos < len(p.buf) && p.buf[p.pos] == '}' {
			p.pos++
			return inner, nil
		}
		for {
			p.skipWS()
			if p.pos >= len(p.buf) || p.buf[p.pos] != '"' {
				return inner, newSyntaxError(FormatJSON, UnexpectedToken, Span{Start: p.pos, End: p.pos + 1})
			}
			key, err := p.parseString()
			if err != nil {
				return inner, err
			}
			p.skipWS()
			if p.pos >= len(p.buf) || p.buf[p.pos] != ':' {
				return inner, newSyntaxError(FormatJSON, UnexpectedToken, Span{Start: p.pos, End: p.pos + 1})
			}
			p.pos++
			p.skipWS()

			if inner.Depth() == 1 && p.onField != nil {
				p.onField(key, inner.NextIndex()+1)
			}

			var ferr error
			inner, ferr = inner.BuildErr(keyValue(key), func(fb S) (S, error) {
				return p.parseValue(fb)
			})
			if ferr != nil {
				return inner, ferr
			}

			p.skipWS()
			if p.pos >= len(p.buf) {
				return inner, newSyntaxError(FormatJSON, UnexpectedEof, Span{Start: p.pos, End: p.pos})
			}
			switch p.buf[p.pos] {
			case ',':
				p.pos++
				p.skipWS()
				if p.pos < len(p.buf) && p.buf[p.pos] == '}' {
					return inner, newSyntaxError(FormatJSON, UnexpectedToken, Span{Start: p.pos, End: p.pos + 1})
				}
				continue
			case '}':
				p.pos++
				return inner, nil
			default:
				return inner, newSyntaxError(FormatJSON, UnmatchedTokenPair, Span{Start: start, End: p.pos + 1})
			}
		}
	})
}

func (p *jsonParser[S]) parseArray(b S) (S, error) {
	start := p.pos
	if b.Depth()+1 > p.settings.MaxDepth {
		return b, newSyntaxError(FormatJSON, DepthLimitExceeded, Span{Start: start, End: start + 1})
	}
	p.pos++ // '['
	return b.BuildErr(arrayValue(), func(inner S) (S, error) {
		p.skipWS()
		if p.pos < len(p.buf) && p.buf[p.pos] == ']' {
			p.pos++
			return inner, nil
		}
		for {
			var err error
			inner, err = p.parseValue(inner)
			if err != nil {
				return inner, err
			}
			p.skipWS()
			if p.pos >= len(p.buf) {
				return inner, newSyntaxError(FormatJSON, UnexpectedEof, Span{Start: p.pos, End: p.pos})
			}
			switch p.buf[p.pos] {
			case ',':
				p.pos++
				p.skipWS()
				if p.pos < len(p.buf) && p.buf[p.pos] == ']' {
					return inner, newSyntaxError(FormatJSON, UnexpectedToken, Span{Start: p.pos, End: p.pos + 1})
				}
				continue
			case ']':
				p.pos++
				return inner, nil
			default:
				return inner, newSyntaxError(FormatJSON, UnmatchedTokenPair, Span{Start: start, End: p.pos + 1})
			}
		}
	})
}

// parseString consumes a JSON string literal starting at the opening
// quote and returns an EncodedString: Raw (span excludes quotes) if no
// escapes were present, JSONEscaped (span includes quotes) otherwise.
func (p *jsonParser[S]) parseString() (EncodedString, error) {
	start := p.pos
	p.pos++ // opening quote
	escaped := false
	for {
		if p.pos >= len(p.buf) {
			return EncodedString{}, newSyntaxError(FormatJSON, UnexpectedEof, Span{Start: start, End: p.pos})
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
				return EncodedString{}, newSyntaxError(FormatJSON, UnexpectedEof, Span{Start: start, End: p.pos})
			}
			if p.buf[p.pos] == 'u' {
				hexStart := p.pos + 1
				if hexStart+4 > len(p.buf) {
					return EncodedString{}, newSyntaxError(FormatJSON, UnexpectedEof, Span{Start: start, End: len(p.buf)})
				}
				for k := 0; k < 4; k++ {
					if !internal.IsHexDigit(p.buf[hexStart+k]) {
						return EncodedString{}, newSyntaxError(FormatJSON, InvalidToken, Span{Start: hexStart, End: hexStart + 4})
					}
				}
				p.pos = hexStart + 4
			} else {
				p.pos++
			}
		case c < 0x20:
			return EncodedString{}, newSyntaxError(FormatJSON, InvalidToken, Span{Start: p.pos, End: p.pos + 1})
		default:
			p.pos++
		}
	}
}

// parseNumber consumes a JSON number matching
// -?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)? and returns its source span.
func (p *jsonParser[S]) parseNumber() (Span, error) {
	start := p.pos
	if p.pos < len(p.buf) && p.buf[p.pos] == '-' {
		p.pos++
	}
	if p.pos >= len(p.buf) || !internal.IsDigit(p.buf[p.pos]) {
		return Span{}, newSyntaxError(FormatJSON, InvalidToken, Span{Start: start, End: p.pos + 1})
	}
	if p.buf[p.pos] == '0' {
		p.pos++
	} else {
		for p.pos < len(p.buf) && internal.IsDigit(p.buf[p.pos]) {
			p.pos++
		}
	}
	if p.pos < len(p.buf) && p.buf[p.pos] == '.' {
		p.pos++
		if p.pos >= len(p.buf) || !internal.IsDigit(p.buf[p.pos]) {
			return Span{}, newSyntaxError(FormatJSON, InvalidToken, Span{Start: start, End: p.pos + 1})
		}
		for p.pos < len(p.buf) && internal.IsDigit(p.buf[p.pos]) {
			p.pos++
		}
	}
	if p.pos < len(p.buf) && (p.buf[p.pos] == 'e' || p.buf[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.buf) && (p.buf[p.pos] == '+' || p.buf[p.pos] == '-') {
			p.pos++
		}
		if p.pos >= len(p.buf) || !internal.IsDigit(p.buf[p.pos]) {
			return Span{}, newSyntaxError(FormatJSON, InvalidToken, Span{Start: start, End: p.pos + 1})
		}
		for p.pos < len(p.buf) && internal.IsDigit(p.buf[p.pos]) {
			p.pos++
		}
	}
	return Span{Start: start, End: p.pos}, nil
}
