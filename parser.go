package logtree

import (
	"io"
	"sync"
)

// Parser is the package's entry point: it segments an input buffer into
// records with a Delimiter, determines each record's format with
// AutoFormat, and assembles a Record (tree plus predefined-field slots)
// per record. Settings are read-only for the Parser's lifetime, so the
// same Settings can be shared across the worker pool described in
// spec §5. A Parser itself holds per-stream state (segmenter position,
// AutoFormat cursor, record pool), so each worker gets its own Parser
// over its own disjoint slice of the input.
type Parser struct {
	settings  Settings
	buf       []byte
	seg       *Segmenter
	autoState AutoState
	pool      sync.Pool
}

// NewParser creates a Parser over input, framed into records by delim.
// Use AutoDelimiter for stream-shape detection, or a specific Delimiter
// when the framing is already known.
func NewParser(settings Settings, delim Delimiter, input []byte) *Parser {
	p := &Parser{settings: settings, buf: input, seg: NewSegmenter(delim)}
	p.seg.Feed(input)
	p.pool.New = func() any { return NewRecord() }
	return p
}

// Next returns the next record. It returns io.EOF once the input is
// exhausted. A non-nil, non-io.EOF error means the next record's bytes
// could not be parsed by any enabled format — the parser has already
// advanced past it, so calling Next again resumes at the following
// record (spec §7's per-record recovery).
func (p *Parser) Next() (*Record, error) {
	recSpan, ok := p.seg.Next()
	if !ok {
		recSpan, ok = p.seg.Finish()
		if !ok {
			return nil, io.EOF
		}
	}
	rec := p.acquire()
	if err := fillRecord(rec, &p.settings, p.buf, recSpan, &p.autoState); err != nil {
		p.Recycle(rec)
		return nil, err
	}
	return rec, nil
}

// fillRecord parses the bytes of span within buf into rec in place,
// using state for AutoFormat's sticky dispatch.
func fillRecord(rec *Record, settings *Settings, buf []byte, span Span, state *AutoState) error {
	recBuf := span.Slice(buf)
	rec.buf = recBuf
	rec.span = span

	assembler := NewRecordAssembler(settings, recBuf, &rec.predefined)
	root := rec.ast.Metaroot()
	attached := Attach(root, assembler)
	onField := func(key EncodedString, idx int) { assembler.Observe(key, idx) }

	_, _, err := ParseAuto(recBuf, settings, attached, onField, state)
	return err
}

// ParseRecordAt parses the bytes of span within buf as a single,
// independent record, given state to carry AutoFormat's sticky
// dispatch across a caller's own sequence of spans. Unlike Parser.Next,
// it does not pool or reuse Records — it is the primitive a caller
// parsing disjoint byte ranges across several goroutines builds its own
// framing on top of (see the workerpool package).
func ParseRecordAt(settings *Settings, buf []byte, span Span, state *AutoState) (*Record, error) {
	rec := NewRecord()
	if err := fillRecord(rec, settings, buf, span, state); err != nil {
		return nil, err
	}
	return rec, nil
}

// Recycle returns rec to the Parser's internal pool for reuse by a
// future Next call, after clearing its tree and slots. Once recycled, a
// Record must not be read from again.
func (p *Parser) Recycle(rec *Record) {
	if rec == nil {
		return
	}
	rec.Recycle()
	p.pool.Put(rec)
}

func (p *Parser) acquire() *Record {
	return p.pool.Get().(*Record)
}
