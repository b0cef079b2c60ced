package logtree

// RecordAssembler observes field keys as a format lexer/parser drives a
// Builder, matching each root-level field's key against Settings'
// FieldAliases and keeping the highest-priority (lowest rank) match seen
// so far per slot. During a record's parse it is carried as the
// Builder's BuilderWithAttachment payload; the JSON/logfmt drivers
// reach it through the onField callback they are given, which calls
// Observe (spec §4.5).
type RecordAssembler struct {
	settings *Settings
	buf      []byte
	slots    *PredefinedSlots
}

// NewRecordAssembler returns an assembler that will populate slots as
// fields are observed, resolving aliases from settings against buf.
func NewRecordAssembler(settings *Settings, buf []byte, slots *PredefinedSlots) *RecordAssembler {
	return &RecordAssembler{settings: settings, buf: buf, slots: slots}
}

// candidate pairs a FieldAliases slot with the PredefinedSlots field it
// feeds, letting Observe iterate all slot kinds uniformly.
type candidate struct {
	alias FieldSlot
	slot  *predefinedSlot
}

func (a *RecordAssembler) candidates() [6]candidate {
	al := a.settings.FieldAliases
	return [6]candidate{
		{al.Time, &a.slots.time},
		{al.Level, &a.slots.level},
		{al.Msg, &a.slots.msg},
		{al.Logger, &a.slots.logger},
		{al.Caller, &a.slots.caller},
		{al.CallerLine, &a.slots.callerLine},
	}
}

// Observe is called by the JSON/logfmt driver right after it has decided
// a root-level field's key (builder depth == 1) but before it builds the
// field's value subtree. valueNode is the node index the value subtree
// will occupy (Builder.NextIndex()+1, taken by the caller beforehand:
// the field's key node itself takes Builder.NextIndex()).
//
// Matching is keyed on the decoded key text (key is decoded into pooled
// scratch space first), never on the raw encoded span, so an escaped JSON key like "msg" still
// matches the bare alias "msg". On a rank tie, the first field observed
// at that rank wins — later ones are ignored.
func (a *RecordAssembler) Observe(key EncodedString, valueNode int) {
	sb := AcquireStringBuilder(a.buf)
	defer ReleaseStringBuilder(sb)
	_ = key.Decode(a.buf, sb)
	decoded := sb.Bytes()

	for _, c := range a.candidates() {
		rank := c.alias.rank(string(decoded))
		if rank < 0 {
			continue
		}
		if c.slot.present && c.slot.rank <= rank {
			continue
		}
		c.slot.present = true
		c.slot.rank = rank
		c.slot.node = valueNode
		return
	}
}

// recordAssemblerAttachment is the payload type threaded through
// BuilderWithAttachment while a record's root object is being built.
type recordAssemblerAttachment = *RecordAssembler
