package logtree

// parseOneFormat dispatches to the lexer/parser for a single format.
func parseOneFormat[S Sink[S]](format LogFormat, buf []byte, settings *Settings, sink S, onField func(EncodedString, int)) (S, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(buf, settings, sink, onField)
	case FormatLogfmt:
		return ParseLogfmt(buf, settings, sink, onField)
	default:
		return sink, newSyntaxError(format, InvalidToken, Span{})
	}
}

// AutoState is the sticky dispatcher state ParseAuto needs across calls:
// the index, within settings.EnabledFormats, of the format that
// succeeded last time. Starting each record from that format keeps a
// steady input stream (all JSON, or all logfmt) from re-probing every
// format on every single record.
type AutoState struct {
	current int
}

// ParseAuto tries settings.EnabledFormats in sticky order: the format
// that succeeded on the previous record first, then the rest of the
// list in configured order, wrapping around. A record whose first
// non-whitespace byte is '{' starts from JSON instead, when JSON is
// enabled. It rolls the sink back to its pre-attempt
// checkpoint after every failed attempt, so a failed probe never leaves
// partial nodes behind. If every enabled format fails, it returns a
// FormatError naming all of them (spec §6, §7).
func ParseAuto[S Sink[S]](buf []byte, settings *Settings, sink S, onField func(EncodedString, int), state *AutoState) (S, LogFormat, error) {
	n := settings.EnabledFormats.Len()
	if n == 0 {
		return sink, 0, ErrNoFormats
	}
	if state.current < 0 || state.current >= n {
		state.current = 0
	}

	start := state.current
	k := 0
	for k < len(buf) && (buf[k] == ' ' || buf[k] == '\t' || buf[k] == '\r' || buf[k] == '\n') {
		k++
	}
	if j := settings.EnabledFormats.IndexOf(FormatJSON); j >= 0 && k < len(buf) && buf[k] == '{' {
		start = j
	}

	cp := sink.Checkpoint()
	var firstErrSpan Span
	haveFirstErrSpan := false

	for attempt := 0; attempt < n; attempt++ {
		idx := (start + attempt) % n
		format := settings.EnabledFormats.At(idx)

		out, err := parseOneFormat(format, buf, settings, sink, onField)
		if err == nil {
			state.current = idx
			return out, format, nil
		}
		if !haveFirstErrSpan {
			if se, ok := err.(*SyntaxError); ok {
				firstErrSpan = se.Span
			}
			haveFirstErrSpan = true
		}
		sink = sink.Rollback(cp)
	}

	return sink, 0, &FormatError{Formats: settings.EnabledFormats.Formats(), Span: firstErrSpan}
}
