package logtree

// LogFormat identifies a wire format the core understands.
type LogFormat uint8

const (
	FormatJSON LogFormat = iota
	FormatLogfmt
)

func (f LogFormat) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatLogfmt:
		return "logfmt"
	default:
		return "unknown"
	}
}

// EnabledFormatList is an ordered, shareable list of formats AutoFormat
// probes in list order. It must be non-empty.
type EnabledFormatList struct {
	formats []LogFormat
}

// NewEnabledFormatList builds a list from formats in priority order.
func NewEnabledFormatList(formats ...LogFormat) EnabledFormatList {
	cp := make([]LogFormat, len(formats))
	copy(cp, formats)
	return EnabledFormatList{formats: cp}
}

func (l EnabledFormatList) Len() int             { return len(l.formats) }
func (l EnabledFormatList) At(i int) LogFormat   { return l.formats[i] }
func (l EnabledFormatList) Formats() []LogFormat { return l.formats }

// IndexOf returns the position of f in the list, or -1.
func (l EnabledFormatList) IndexOf(f LogFormat) int {
	for i, x := range l.formats {
		if x == f {
			return i
		}
	}
	return -1
}

// FieldSlot names one predefined-field slot and the aliases that may
// populate it, in priority order (index 0 = best rank).
type FieldSlot struct {
	Name    string
	Aliases []string
}

// FieldAliases is the full predefined-field alias configuration: one
// FieldSlot per slot kind. Resolved from spec §9 Open Question (a) — this
// must come from configuration, never be hard-coded into parse logic.
type FieldAliases struct {
	Time       FieldSlot
	Level      FieldSlot
	Msg        FieldSlot
	Logger     FieldSlot
	Caller     FieldSlot
	CallerLine FieldSlot
}

// DefaultFieldAliases returns the alias table named in SPEC_FULL.md's
// Open Question resolutions.
func DefaultFieldAliases() FieldAliases {
	return FieldAliases{
		Time:       FieldSlot{Name: "time", Aliases: []string{"time", "ts", "@timestamp"}},
		Level:      FieldSlot{Name: "level", Aliases: []string{"level", "lvl", "severity"}},
		Msg:        FieldSlot{Name: "msg", Aliases: []string{"msg", "message"}},
		Logger:     FieldSlot{Name: "logger", Aliases: []string{"logger"}},
		Caller:     FieldSlot{Name: "caller", Aliases: []string{"caller", "source"}},
		CallerLine: FieldSlot{Name: "caller-line", Aliases: []string{"line"}},
	}
}

// rank returns the priority rank of name within the slot's alias list
// (smaller = higher priority), or -1 if name is not an alias of this slot.
func (s FieldSlot) rank(name string) int {
	for i, a := range s.Aliases {
		if a == name {
			return i
		}
	}
	return -1
}

// Settings carries every tunable the core needs: the enabled-format
// list, field-alias tables, and the Open-Question resolutions from
// spec §9. Constructed once and shared read-only across workers (spec
// §5) — never mutated during parsing.
type Settings struct {
	EnabledFormats EnabledFormatList
	FieldAliases   FieldAliases
	MaxDepth       int
	LogfmtBareBool bool
}

// DefaultSettings returns the reasonable defaults spec §9 asks for:
// JSON then logfmt (Auto's JSON-first heuristic, spec §6), depth 128,
// and bare true/false parsed as Bool in logfmt (Open Question (b)).
func DefaultSettings() Settings {
	return Settings{
		EnabledFormats: NewEnabledFormatList(FormatJSON, FormatLogfmt),
		FieldAliases:   DefaultFieldAliases(),
		MaxDepth:       128,
		LogfmtBareBool: true,
	}
}
