package logtree

// OptIndex is a compact optional node index: NoIndex represents None,
// any other non-negative value is a valid index into a FlatTree.
type OptIndex int

const NoIndex OptIndex = -1

// IsNone reports whether the OptIndex holds no index.
func (i OptIndex) IsNone() bool { return i == NoIndex }

// Get returns the index and true, or (0, false) if i is None.
func (i OptIndex) Get() (int, bool) {
	if i.IsNone() {
		return 0, false
	}
	return int(i), true
}

func some(i int) OptIndex { return OptIndex(i) }

// Item is one node of a FlatTree: its value, its parent (if any), the
// next sibling in its parent's child chain (if any), and the index of
// its last descendant (itself, if it is a leaf).
type Item struct {
	Value          NodeValue
	Parent         OptIndex
	NextSibling    OptIndex
	LastDescendant int
}

// FlatTree is a contiguous, arena-like storage of tree nodes with
// sibling chaining instead of child-pointer lists. Invariants (spec §3):
//
//   - a node's NextSibling either points to a later index in the same
//     parent's child chain, or is None;
//   - LastDescendant >= the node's own index and equals the maximum
//     index of any node in the subtree rooted at it — descendants
//     occupy the contiguous range [index+1, LastDescendant];
//   - children of node N start at N+1 (if N+1 <= N.LastDescendant) and
//     are found by following NextSibling until None;
//   - roots form a sibling chain starting at index 0;
//   - indices are stable until Clear.
type FlatTree struct {
	items     []Item
	rootCount int
}

// New creates an empty FlatTree.
func New() *FlatTree {
	return &FlatTree{}
}

// WithCapacity creates an empty FlatTree whose backing storage can hold
// n nodes without reallocating.
func WithCapacity(n int) *FlatTree {
	return &FlatTree{items: make([]Item, 0, n)}
}

// Clear empties the tree. Indices are no longer stable after Clear, but
// the backing array's capacity is retained — this is the operation
// Record.Recycle relies on for steady-state allocation-free parsing.
func (t *FlatTree) Clear() {
	t.items = t.items[:0]
	t.rootCount = 0
}

// Reserve ensures the tree's backing storage can hold n additional nodes
// without reallocating.
func (t *FlatTree) Reserve(n int) {
	if cap(t.items)-len(t.items) >= n {
		return
	}
	grown := make([]Item, len(t.items), len(t.items)+n)
	copy(grown, t.items)
	t.items = grown
}

// Len returns the number of nodes currently in the tree.
func (t *FlatTree) Len() int { return len(t.items) }

// RootCount returns the number of root-level nodes.
func (t *FlatTree) RootCount() int { return t.rootCount }

// Nodes returns the tree's items by index. The returned slice is a view;
// callers must not retain it across a Clear.
func (t *FlatTree) Nodes() []Item { return t.items }

// Node returns the item at index i.
func (t *FlatTree) Node(i int) *Item { return &t.items[i] }

// Roots returns the indices of the root-level nodes, in append order.
func (t *FlatTree) Roots() []int {
	if t.rootCount == 0 {
		return nil
	}
	out := make([]int, 0, t.rootCount)
	idx := 0
	for {
		out = append(out, idx)
		next, ok := t.items[idx].NextSibling.Get()
		if !ok {
			break
		}
		idx = next
	}
	return out
}

// Children returns the indices of the direct children of node i, in
// append order.
func (t *FlatTree) Children(i int) []int {
	item := &t.items[i]
	first := i + 1
	if first > item.LastDescendant {
		return nil
	}
	var out []int
	idx := first
	for {
		out = append(out, idx)
		next, ok := t.items[idx].NextSibling.Get()
		if !ok {
			break
		}
		idx = next
	}
	return out
}

// Metaroot returns a Builder positioned above all roots — the cursor
// used to begin constructing a tree from scratch.
func (t *FlatTree) Metaroot() Builder {
	return Builder{tree: t, parent: NoIndex, lastChild: NoIndex}
}
