package logtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFlatTreeDescendantRangeProperty checks, across several JSON shapes
// of varying width and nesting, that every node's LastDescendant equals
// the maximum index reachable from it — the contiguous-descendant-range
// invariant FlatTree depends on for Children to work by sibling-chain
// walking alone.
func TestFlatTreeDescendantRangeProperty(t *testing.T) {
	samples := []string{
		`{"a":1}`,
		`{"a":1,"b":2,"c":3}`,
		`{"a":{"b":{"c":{"d":1}}}}`,
		`{"a":[1,2,3,4,5]}`,
		`{"a":[{"x":1},{"y":2}],"b":{"c":[1,[2,3],4]}}`,
	}
	settings := DefaultSettings()

	for _, src := range samples {
		t.Run(src, func(t *testing.T) {
			tree := New()
			_, err := ParseJSON([]byte(src), &settings, tree.Metaroot(), nil)
			require.NoError(t, err)

			for i := 0; i < tree.Len(); i++ {
				maxReachable := maxDescendantBruteForce(tree, i)
				assert.Equal(t, maxReachable, tree.Node(i).LastDescendant,
					"node %d LastDescendant must equal the true max descendant index", i)
			}
		})
	}
}

// maxDescendantBruteForce computes node i's true maximum descendant
// index by recursively walking Children, independent of LastDescendant,
// to check the invariant against a ground truth.
func maxDescendantBruteForce(tree *FlatTree, i int) int {
	max := i
	for _, c := range tree.Children(i) {
		if d := maxDescendantBruteForce(tree, c); d > max {
			max = d
		}
	}
	return max
}

// TestRollbackRestoresExactPriorShapeProperty checks that a checkpoint
// taken at any point, followed by arbitrary further building and then a
// rollback, always restores the tree to byte-for-byte (node-for-node)
// the state it had at the checkpoint.
func TestRollbackRestoresExactPriorShapeProperty(t *testing.T) {
	settings := DefaultSettings()
	base := `{"a":1,"b":{"c":2}}`

	tree := New()
	b, err := ParseJSON([]byte(base), &settings, tree.Metaroot(), nil)
	require.NoError(t, err)

	before := append([]Item(nil), tree.Nodes()...)
	cp := b.Checkpoint()

	speculative := b.Build(keyValue(RawString(Span{})), func(fb Builder) Builder {
		return fb.Push(scalarValue(NullScalar()))
	})
	require.Greater(t, tree.Len(), len(before))

	rolledBack := speculative.Rollback(cp)
	assert.Equal(t, before, tree.Nodes())
	assert.Equal(t, len(before), rolledBack.NextIndex())
}
