package logtree

// Discarder is a Sink that stores nothing: every Push/Build succeeds,
// checkpoints carry only a node count and a depth, and rollback only
// resets the node count. It satisfies the
// same Sink contract as Builder, so the format lexers/parsers are
// written once and drive either a real FlatTree or a Discarder
// unchanged (spec §4.7, §8.8's Discarder-equivalence property). It is
// used for benchmarking and for a lex-only "discard" parse mode.
type Discarder struct {
	depth int
	next  int
}

// NewDiscarder returns a Discarder positioned at the metaroot.
func NewDiscarder() Discarder {
	return Discarder{}
}

func (d Discarder) Push(NodeValue) Discarder {
	d.next++
	return d
}

func (d Discarder) Build(value NodeValue, f func(Discarder) Discarder) Discarder {
	d.next++
	child := Discarder{depth: d.depth + 1, next: d.next}
	result := f(child)
	d.next = result.next
	return d
}

func (d Discarder) BuildErr(value NodeValue, f func(Discarder) (Discarder, error)) (Discarder, error) {
	d.next++
	child := Discarder{depth: d.depth + 1, next: d.next}
	result, err := f(child)
	if err != nil {
		return d, err
	}
	d.next = result.next
	return d, nil
}

func (d Discarder) Checkpoint() Checkpoint {
	return Checkpoint{nodeCount: d.next, depth: d.depth}
}

func (d Discarder) Rollback(cp Checkpoint) Discarder {
	if d.depth != cp.depth {
		panic(ErrBadRollback)
	}
	d.next = cp.nodeCount
	return d
}

func (d Discarder) Depth() int     { return d.depth }
func (d Discarder) NextIndex() int { return d.next }

var _ Sink[Discarder] = Discarder{}
var _ Sink[Builder] = Builder{}
