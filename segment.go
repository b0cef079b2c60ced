package logtree

import (
	"bytes"
)

// Delimiter identifies how a stream of bytes is carved into individual
// records before each is handed to AutoFormat. Search is expressed as
// four primitives so a Segmenter can frame records out of a buffer that
// may not yet contain a full delimiter occurrence at either edge — the
// case that matters when records arrive in arbitrarily-cut chunks from
// a reader, or when multiple workers each scan a disjoint slice of one
// large buffer in parallel (spec §5). SearchL/SearchR take an edge flag:
// when true, the caller knows buf's own start/end is an authentic
// record boundary (e.g. true EOF), so a match touching that edge may be
// accepted without waiting for more data to disambiguate it.
type Delimiter interface {
	// SearchL returns the span of the first delimiter occurrence in buf,
	// scanning left to right.
	SearchL(buf []byte, edge bool) (Span, bool)
	// SearchR returns the span of the last delimiter occurrence in buf,
	// scanning right to left.
	SearchR(buf []byte, edge bool) (Span, bool)
	// PartialMatchL returns the length of the longest prefix of buf that
	// equals a suffix of the delimiter — i.e. buf may begin mid-way
	// through a delimiter occurrence that started in a previous chunk.
	PartialMatchL(buf []byte) int
	// PartialMatchR returns the length of the longest suffix of buf that
	// equals a prefix of the delimiter — i.e. a delimiter occurrence may
	// have started in buf and continue into the next chunk.
	PartialMatchR(buf []byte) int
}

// ByteDelimiter splits records on a single fixed byte. A one-byte
// delimiter can never be split across a chunk boundary, so its partial
// match primitives are always zero, and a match is never edge-dependent.
type ByteDelimiter struct{ B byte }

func (d ByteDelimiter) SearchL(buf []byte, edge bool) (Span, bool) {
	if i := bytes.IndexByte(buf, d.B); i >= 0 {
		return Span{Start: i, End: i + 1}, true
	}
	return Span{}, false
}

func (d ByteDelimiter) SearchR(buf []byte, edge bool) (Span, bool) {
	if i := bytes.LastIndexByte(buf, d.B); i >= 0 {
		return Span{Start: i, End: i + 1}, true
	}
	return Span{}, false
}

func (d ByteDelimiter) PartialMatchL(buf []byte) int { return 0 }
func (d ByteDelimiter) PartialMatchR(buf []byte) int { return 0 }

// NewLineDelimiter splits records on a literal "\n" byte, the plain
// newline-delimited-JSON / newline-delimited-logfmt framing.
func NewLineDelimiter() Delimiter { return ByteDelimiter{B: '\n'} }

// smartNewLineDelimiter splits on "\n" (absorbing an immediately
// preceding "\r" into the delimiter span), but a line whose first byte
// is a space or tab is treated as a continuation of the previous line,
// not a new record — so the newline in front of it is never reported as
// a boundary. This lets a multi-line, indented log entry (e.g. a
// pretty-printed stack trace) stay one record.
type smartNewLineDelimiter struct{}

// SmartNewLineDelimiter splits records on "\n" or "\r\n", treating a
// line that starts with whitespace as a continuation of the line above
// it rather than a new record (spec §4.6).
func SmartNewLineDelimiter() Delimiter { return smartNewLineDelimiter{} }

// isContinuationByte reports whether b, as the first byte of the line
// following a newline, marks that line as a continuation rather than a
// new record.
func isContinuationByte(b byte) bool { return b == ' ' || b == '\t' }

func (smartNewLineDelimiter) SearchL(buf []byte, edge bool) (Span, bool) {
	pos := 0
	for {
		rel := bytes.IndexByte(buf[pos:], '\n')
		if rel < 0 {
			return Span{}, false
		}
		i := pos + rel
		start := i
		if i > 0 && buf[i-1] == '\r' {
			start = i - 1
		}
		end := i + 1
		if end >= len(buf) {
			if edge {
				return Span{Start: start, End: end}, true
			}
			return Span{}, false
		}
		if isContinuationByte(buf[end]) {
			pos = end
			continue
		}
		return Span{Start: start, End: end}, true
	}
}

func (smartNewLineDelimiter) SearchR(buf []byte, edge bool) (Span, bool) {
	r := len(buf)
	for {
		rel := bytes.LastIndexByte(buf[:r], '\n')
		if rel < 0 {
			return Span{}, false
		}
		i := rel
		start := i
		if i > 0 && buf[i-1] == '\r' {
			start = i - 1
		}
		end := i + 1
		if end >= len(buf) {
			if edge {
				return Span{Start: start, End: end}, true
			}
			r = i
			continue
		}
		if isContinuationByte(buf[end]) {
			r = i
			continue
		}
		return Span{Start: start, End: end}, true
	}
}

// PartialMatchL reports whether buf begins with a lone "\n" that could
// be completing a "\r" left dangling at the end of a previous chunk.
// There is no such ambiguity for smart-newline (the delimiter's only
// multi-byte form ends in "\n", never begins mid-sequence from the
// left), so this always returns 0.
func (smartNewLineDelimiter) PartialMatchL(buf []byte) int { return 0 }

// PartialMatchR reports whether buf ends in a lone "\r" that may be the
// start of a "\r\n" continuing into the next chunk.
func (smartNewLineDelimiter) PartialMatchR(buf []byte) int {
	if len(buf) > 0 && buf[len(buf)-1] == '\r' {
		return 1
	}
	return 0
}

// jsonWhitespaceDelimiter splits records on a whitespace run that sits
// between a '}' and a '{' and contains at least one newline — the
// framing used for pretty-printed or otherwise whitespace-separated
// concatenated JSON documents (spec §4.6). A run of spaces/tabs alone,
// with no enclosing '}'/'{' or no newline, is not a boundary.
type jsonWhitespaceDelimiter struct{}

// JSONWhitespaceDelimiter splits records on a whitespace run, containing
// at least one newline, between a '}' and a '{'.
func JSONWhitespaceDelimiter() Delimiter { return jsonWhitespaceDelimiter{} }

// validJSONGap reports whether s consists only of JSON whitespace bytes
// and contains at least one newline, per spec §4.6's JsonWhitespace rule.
func validJSONGap(s []byte) bool {
	hasNewline := false
	for _, c := range s {
		switch c {
		case '\n', '\r':
			hasNewline = true
		case ' ', '\t':
		default:
			return false
		}
	}
	return hasNewline
}

func (jsonWhitespaceDelimiter) SearchR(buf []byte, edge bool) (Span, bool) {
	for j := bytes.LastIndexByte(buf, '{'); j >= 0; {
		if i := bytes.LastIndexByte(buf[:j], '}'); i >= 0 {
			if validJSONGap(buf[i+1 : j]) {
				return Span{Start: i + 1, End: j}, true
			}
		} else if edge && validJSONGap(buf[:j]) {
			return Span{Start: 0, End: j}, true
		}
		if j == 0 {
			break
		}
		next := bytes.LastIndexByte(buf[:j], '{')
		j = next
	}
	return Span{}, false
}

func (jsonWhitespaceDelimiter) SearchL(buf []byte, edge bool) (Span, bool) {
	for i := bytes.IndexByte(buf, '}'); i >= 0; {
		if rel := bytes.IndexByte(buf[i+1:], '{'); rel >= 0 {
			j := i + 1 + rel
			if validJSONGap(buf[i+1 : j]) {
				return Span{Start: i + 1, End: j}, true
			}
		} else if edge && validJSONGap(buf[i+1:]) {
			return Span{Start: i + 1, End: len(buf)}, true
		}
		next := bytes.IndexByte(buf[i+1:], '}')
		if next < 0 {
			break
		}
		i = i + 1 + next
	}
	return Span{}, false
}

func (jsonWhitespaceDelimiter) PartialMatchL(buf []byte) int {
	if i := bytes.IndexByte(buf, '{'); i >= 0 {
		if validJSONGap(buf[:i]) {
			return i
		}
	}
	return 0
}

func (jsonWhitespaceDelimiter) PartialMatchR(buf []byte) int {
	if i := bytes.LastIndexByte(buf, '}'); i >= 0 {
		if validJSONGap(buf[i+1:]) {
			return len(buf) - i - 1
		}
	}
	return 0
}

// autoDelimiter searches for SmartNewLine boundaries, additionally
// accepting a JsonWhitespace-shaped merge: a candidate boundary is
// rejected (and the search continues past it) when the line following
// it begins with '}', a space, or a tab — i.e. it looks like a
// continuation of a pretty-printed JSON object rather than the start of
// the next record (spec §4.6, ported from the original implementation's
// AutoDelimitSearcher).
type autoDelimiter struct{}

// AutoDelimiter returns a Delimiter that frames records on SmartNewLine
// boundaries, while treating lines that begin with '}', a space, or a
// tab as continuations — so a multi-line pretty-printed JSON object
// stays one record.
func AutoDelimiter() Delimiter { return autoDelimiter{} }

// isAutoContinuationByte reports whether b, as the first byte of the
// line following a candidate boundary, means that boundary should be
// rejected in favor of one further along.
func isAutoContinuationByte(b byte) bool { return b == '}' || b == ' ' || b == '\t' }

// SearchR mirrors smartNewLineDelimiter.SearchR, but additionally rejects
// a candidate boundary (continuing the scan further left) when the line
// following it begins with '}', a space, or a tab.
func (autoDelimiter) SearchR(buf []byte, edge bool) (Span, bool) {
	r := len(buf)
	for {
		i := bytes.LastIndexByte(buf[:r], '\n')
		if i < 0 {
			return Span{}, false
		}
		start := i
		if i > 0 && buf[i-1] == '\r' {
			start = i - 1
		}
		end := i + 1
		if end >= len(buf) {
			if edge {
				return Span{Start: start, End: end}, true
			}
			r = i
			continue
		}
		if isAutoContinuationByte(buf[end]) {
			r = i
			continue
		}
		return Span{Start: start, End: end}, true
	}
}

// SearchL mirrors smartNewLineDelimiter.SearchL, but additionally rejects
// a candidate boundary (continuing the scan further right) when the line
// following it begins with '}', a space, or a tab.
func (autoDelimiter) SearchL(buf []byte, edge bool) (Span, bool) {
	pos := 0
	for {
		rel := bytes.IndexByte(buf[pos:], '\n')
		if rel < 0 {
			return Span{}, false
		}
		i := pos + rel
		start := i
		if i > 0 && buf[i-1] == '\r' {
			start = i - 1
		}
		end := i + 1
		if end >= len(buf) {
			if edge {
				return Span{Start: start, End: end}, true
			}
			return Span{}, false
		}
		if isAutoContinuationByte(buf[end]) {
			pos = end
			continue
		}
		return Span{Start: start, End: end}, true
	}
}

func (autoDelimiter) PartialMatchL(buf []byte) int {
	return smartNewLineDelimiter{}.PartialMatchL(buf)
}

func (autoDelimiter) PartialMatchR(buf []byte) int {
	if m := (smartNewLineDelimiter{}).PartialMatchR(buf); m > 0 {
		return m
	}
	if len(buf) > 0 && buf[len(buf)-1] == '\n' {
		if len(buf) >= 2 && buf[len(buf)-2] == '\r' {
			return 2
		}
		return 1
	}
	return 0
}

// Segmenter frames a growing byte buffer into record spans using a
// Delimiter, supporting both a fully-buffered Split and incremental
// Feed/Next streaming use.
type Segmenter struct {
	delim Delimiter
	buf   []byte
	pos   int
}

// NewSegmenter creates a Segmenter using delim to find record
// boundaries.
func NewSegmenter(delim Delimiter) *Segmenter {
	return &Segmenter{delim: delim}
}

// Feed appends more input bytes for the segmenter to frame.
func (s *Segmenter) Feed(data []byte) {
	s.buf = append(s.buf, data...)
}

// Next returns the span of the next complete record (the bytes before
// the next delimiter occurrence, excluding the delimiter), advancing
// past it. It returns ok=false if no full delimiter occurrence is
// available yet in the buffered input. It never treats the buffered
// data's own end as an authentic edge — Feed may still append more —
// so any final, delimiter-less record is left for Finish.
func (s *Segmenter) Next() (Span, bool) {
	rest := s.buf[s.pos:]
	delimSpan, found := s.delim.SearchL(rest, false)
	if !found {
		return Span{}, false
	}
	recSpan := Span{Start: s.pos, End: s.pos + delimSpan.Start}
	s.pos += delimSpan.End
	return recSpan, true
}

// Finish returns the span of any remaining buffered bytes that were
// never delimiter-terminated (the final, unterminated record at EOF),
// or ok=false if nothing remains.
func (s *Segmenter) Finish() (Span, bool) {
	if s.pos >= len(s.buf) {
		return Span{}, false
	}
	sp := Span{Start: s.pos, End: len(s.buf)}
	s.pos = len(s.buf)
	return sp, true
}

// Compact drops bytes already consumed by Next, so the segmenter's
// internal buffer does not grow without bound across a long stream.
// Call it between Feed/Next cycles once a caller no longer needs the
// Spans already handed out to reference the pre-compaction offsets.
func (s *Segmenter) Compact() {
	if s.pos == 0 {
		return
	}
	copy(s.buf, s.buf[s.pos:])
	s.buf = s.buf[:len(s.buf)-s.pos]
	s.pos = 0
}

// Split frames every record out of a complete, in-memory buffer in one
// call — the common case when the whole input is already available,
// such as one worker's disjoint slice in the parallel model (spec §5).
// The buffer's own end is an authentic edge (there is no more data), so
// a trailing delimiter match at buf's end is accepted directly. A final
// unterminated record, if any, is included.
func Split(buf []byte, delim Delimiter) []Span {
	var out []Span
	pos := 0
	for {
		rest := buf[pos:]
		delimSpan, found := delim.SearchL(rest, true)
		if !found {
			break
		}
		out = append(out, Span{Start: pos, End: pos + delimSpan.Start})
		pos += delimSpan.End
	}
	if pos < len(buf) {
		out = append(out, Span{Start: pos, End: len(buf)})
	}
	return out
}

// FindSafeSplit locates a byte offset within buf, at or after minOffset,
// that falls immediately after a complete delimiter occurrence — a point
// at which buf can be cut into two independently-parseable halves
// without bisecting a record. It searches backward from the end of buf
// via SearchR so a parallel splitter can anchor each worker's chunk
// boundary without rescanning bytes another worker already claimed. buf
// is assumed complete (its end is an authentic edge).
func FindSafeSplit(buf []byte, delim Delimiter, minOffset int) (int, bool) {
	if minOffset >= len(buf) {
		return 0, false
	}
	window := buf[minOffset:]
	sp, found := delim.SearchR(window, true)
	if !found {
		return 0, false
	}
	return minOffset + sp.End, true
}
