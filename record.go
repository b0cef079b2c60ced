package logtree

import "github.com/cybergodev/logtree/internal"

// RecordFlags are reserved bits describing how a Record was produced.
// None are defined yet; the type exists so future additions don't break
// the Record struct's shape.
type RecordFlags uint32

// predefinedSlot remembers, for one PredefinedSlots entry, the node
// index of the best-ranked field seen so far and that field's rank.
// Spec §4.5: "stores either a Span... or a node index plus priority
// rank" — this implementation always resolves through the node index,
// since the node already carries whichever payload (Scalar/Object/
// Array) the field held; this avoids duplicating that payload.
type predefinedSlot struct {
	present bool
	rank    int
	node    int
}

// PredefinedSlots holds the five (six, counting caller-line) direct
// slots RecordAssembler populates while the tree is being built.
type PredefinedSlots struct {
	time       predefinedSlot
	level      predefinedSlot
	msg        predefinedSlot
	logger     predefinedSlot
	caller     predefinedSlot
	callerLine predefinedSlot
}

func (p *PredefinedSlots) reset() {
	*p = PredefinedSlots{}
}

// ValueKind tags the variant held by a ValueRef.
type ValueKind uint8

const (
	ValueScalar ValueKind = iota
	ValueObject
	ValueArray
)

// ValueRef is a reference to a field's value: either a Scalar, or the
// node index of an Object/Array subtree a consumer can recurse into via
// Record.Children.
type ValueRef struct {
	Kind   ValueKind
	Scalar Scalar
	Node   int
}

// Level is the normalized log level produced by reading out a level
// field, per spec §4.5's case-insensitive alias table.
type Level uint8

const (
	LevelInvalid Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "invalid"
	}
}

// LevelRef is the result of reading out a record's level field: the
// normalized Level plus the raw span the original text came from (kept
// even when normalization fails, so callers can still show it).
type LevelRef struct {
	Level Level
	Raw   Span
}

// CallerRef is the result of reading out a record's caller field,
// optionally paired with a caller-line field.
type CallerRef struct {
	File    EncodedString
	Line    Span
	HasLine bool
}

// FieldRef is one (key, value) pair yielded by Record.Fields or
// Record.FieldsForSearch.
type FieldRef struct {
	Key   EncodedString
	Value ValueRef
}

// Record is one parsed log entry: a source span, a populated
// PredefinedSlots, and the flat-tree AST for its remaining fields.
// Immutable once returned from Parser.Next; mutated only by the parser
// and RecordAssembler while it is being built.
type Record struct {
	ast        FlatTree
	predefined PredefinedSlots
	span       Span
	flags      RecordFlags
	buf        []byte
	rootNode   int
}

// NewRecord returns an empty, reusable Record; it is the same as the
// zero value, which is also ready to use.
func NewRecord() *Record {
	return &Record{}
}

// Recycle clears the Record's tree (retaining its backing storage) and
// resets its slots and span so the parser can reuse it for the next
// record without allocating. Mirrors spec §5's "Record::recycle clears
// the tree but retains its node-vector capacity".
func (r *Record) Recycle() {
	r.ast.Clear()
	r.predefined.reset()
	r.span = Span{}
	r.flags = 0
	r.buf = nil
	r.rootNode = 0
}

// SourceSpan returns the byte range of this record within the buffer
// that was parsed.
func (r *Record) SourceSpan() Span { return r.span }

// AST exposes the record's underlying tree, for consumers (formatters,
// filters) that need to recurse into Object/Array field values.
func (r *Record) AST() *FlatTree { return &r.ast }

// Buf returns the input buffer this record's Spans and EncodedStrings
// reference. The buffer must outlive the Record.
func (r *Record) Buf() []byte { return r.buf }

func (r *Record) valueRefAt(idx int) ValueRef {
	v := r.ast.Node(idx).Value
	switch v.Kind {
	case NodeScalar:
		return ValueRef{Kind: ValueScalar, Scalar: v.Scalar, Node: idx}
	case NodeObject:
		return ValueRef{Kind: ValueObject, Node: idx}
	case NodeArray:
		return ValueRef{Kind: ValueArray, Node: idx}
	default:
		return ValueRef{Kind: ValueScalar, Node: idx}
	}
}

func scalarSpan(s Scalar) Span {
	switch s.Kind {
	case ScalarNumber:
		return s.Number
	case ScalarString:
		return s.String.Span
	default:
		return Span{}
	}
}

// Time returns the record's time field span, if one was captured. The
// span is the raw source text; timestamp parsing is deferred to an
// external timestamp subsystem (spec §4.5).
func (r *Record) Time() (Span, bool) {
	if !r.predefined.time.present {
		return Span{}, false
	}
	ref := r.valueRefAt(r.predefined.time.node)
	return scalarSpan(ref.Scalar), true
}

// Level returns the record's normalized level, if a level field was
// captured. Normalization happens here, at read-out time, not during
// parsing (spec §4.5).
func (r *Record) Level() (LevelRef, bool) {
	if !r.predefined.level.present {
		return LevelRef{}, false
	}
	ref := r.valueRefAt(r.predefined.level.node)
	if ref.Kind != ValueScalar || ref.Scalar.Kind != ScalarString {
		return LevelRef{Level: LevelInvalid, Raw: scalarSpan(ref.Scalar)}, true
	}
	sb := AcquireStringBuilder(r.buf)
	defer ReleaseStringBuilder(sb)
	_ = ref.Scalar.String.Decode(r.buf, sb)
	canon, ok := internal.NormalizeLevel(string(sb.Bytes()))
	if !ok {
		return LevelRef{Level: LevelInvalid, Raw: ref.Scalar.String.Span}, true
	}
	var lvl Level
	switch canon {
	case "error":
		lvl = LevelError
	case "warn":
		lvl = LevelWarn
	case "info":
		lvl = LevelInfo
	case "debug":
		lvl = LevelDebug
	case "trace":
		lvl = LevelTrace
	}
	return LevelRef{Level: lvl, Raw: ref.Scalar.String.Span}, true
}

// Message returns the record's message field value, if captured.
func (r *Record) Message() (ValueRef, bool) {
	if !r.predefined.msg.present {
		return ValueRef{}, false
	}
	return r.valueRefAt(r.predefined.msg.node), true
}

// Logger returns the record's logger-name field value, if captured.
func (r *Record) Logger() (ValueRef, bool) {
	if !r.predefined.logger.present {
		return ValueRef{}, false
	}
	return r.valueRefAt(r.predefined.logger.node), true
}

// Caller returns the record's caller field, merged with a caller-line
// field when both were captured.
func (r *Record) Caller() (CallerRef, bool) {
	if !r.predefined.caller.present {
		return CallerRef{}, false
	}
	ref := r.valueRefAt(r.predefined.caller.node)
	out := CallerRef{}
	if ref.Kind == ValueScalar && ref.Scalar.Kind == ScalarString {
		out.File = ref.Scalar.String
	}
	if r.predefined.callerLine.present {
		lineRef := r.valueRefAt(r.predefined.callerLine.node)
		out.Line = scalarSpan(lineRef.Scalar)
		out.HasLine = true
	}
	return out, true
}

// rootChildren returns the indices of the record's top-level Field
// nodes, in source order.
func (r *Record) rootChildren() []int {
	if r.ast.Len() == 0 {
		return nil
	}
	return r.ast.Children(r.rootNode)
}

// isPredefinedNode reports whether fieldIdx (a root-level Field node) was
// captured into a predefined slot. Slots store the *value* node's index
// (fieldIdx+1, per RecordAssembler.Observe), not the Field node's own
// index, so the comparison is against fieldIdx+1.
func (r *Record) isPredefinedNode(fieldIdx int) bool {
	valNode := fieldIdx + 1
	for _, s := range [6]predefinedSlot{
		r.predefined.time, r.predefined.level, r.predefined.msg,
		r.predefined.logger, r.predefined.caller, r.predefined.callerLine,
	} {
		if s.present && s.node == valNode {
			return true
		}
	}
	return false
}

func (r *Record) fieldAt(idx int) FieldRef {
	item := r.ast.Node(idx)
	key := item.Value.Key
	children := r.ast.Children(idx)
	if len(children) == 0 {
		return FieldRef{Key: key}
	}
	return FieldRef{Key: key, Value: r.valueRefAt(children[0])}
}

// Fields returns the root object's field children that were not
// captured as predefined, in source order.
func (r *Record) Fields() []FieldRef {
	children := r.rootChildren()
	out := make([]FieldRef, 0, len(children))
	for _, idx := range children {
		if r.isPredefinedNode(idx) {
			continue
		}
		out = append(out, r.fieldAt(idx))
	}
	return out
}

// FieldsForSearch returns every root-level field, including those
// captured as predefined, in source order.
func (r *Record) FieldsForSearch() []FieldRef {
	children := r.rootChildren()
	out := make([]FieldRef, 0, len(children))
	for _, idx := range children {
		out = append(out, r.fieldAt(idx))
	}
	return out
}

// Children returns the Field/element children of an Object or Array
// node elsewhere in the tree (e.g. inside a ValueRef's Node), letting a
// consumer recurse into nested structures.
func (r *Record) Children(node int) []int {
	return r.ast.Children(node)
}
