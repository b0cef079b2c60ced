package logtree

import "testing"

func TestBuilderDepth(t *testing.T) {
	tree := New()
	root := tree.Metaroot()
	if root.Depth() != 0 {
		t.Fatalf("metaroot Depth() = %d, want 0", root.Depth())
	}
	root.Build(objectValue(), func(b Builder) Builder {
		if b.Depth() != 1 {
			t.Errorf("object child Depth() = %d, want 1", b.Depth())
		}
		return b.Build(keyValue(RawString(Span{})), func(fb Builder) Builder {
			if fb.Depth() != 2 {
				t.Errorf("field child Depth() = %d, want 2", fb.Depth())
			}
			return fb.Push(scalarValue(NullScalar()))
		})
	})
}

func TestBuilderNextIndex(t *testing.T) {
	tree := New()
	root := tree.Metaroot()
	if root.NextIndex() != 0 {
		t.Fatalf("NextIndex() = %d, want 0", root.NextIndex())
	}
	root = root.Push(scalarValue(NullScalar()))
	if root.NextIndex() != 1 {
		t.Errorf("NextIndex() after one push = %d, want 1", root.NextIndex())
	}
}

func TestCheckpointRollbackRestoresState(t *testing.T) {
	tree := New()
	root := tree.Metaroot()
	root = root.Push(scalarValue(NullScalar()))

	cp := root.Checkpoint()
	speculative := root.Push(scalarValue(BoolScalar(true)))
	speculative = speculative.Push(scalarValue(BoolScalar(false)))
	if tree.Len() != 3 {
		t.Fatalf("Len() after speculative pushes = %d, want 3", tree.Len())
	}

	rolledBack := root.Rollback(cp)
	if tree.Len() != 1 {
		t.Fatalf("Len() after rollback = %d, want 1", tree.Len())
	}
	if rolledBack.NextIndex() != 1 {
		t.Errorf("NextIndex() after rollback = %d, want 1", rolledBack.NextIndex())
	}

	// The builder must still be usable after rollback: further pushes
	// append correctly at the restored position.
	rolledBack = rolledBack.Push(scalarValue(NullScalar()))
	if tree.Len() != 2 {
		t.Errorf("Len() after post-rollback push = %d, want 2", tree.Len())
	}
}

func TestRollbackDepthMismatchPanics(t *testing.T) {
	tree := New()
	root := tree.Metaroot()
	cp := root.Checkpoint()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic rolling back at a different depth than the checkpoint")
		}
	}()

	root.Build(objectValue(), func(b Builder) Builder {
		b.Rollback(cp) // cp was taken at depth 0, b is at depth 1
		return b
	})
}

func TestBuildErrPropagatesErrorWithoutAdvancing(t *testing.T) {
	tree := New()
	root := tree.Metaroot()
	wantErr := ErrNilInput

	_, err := root.BuildErr(objectValue(), func(b Builder) (Builder, error) {
		b = b.Push(scalarValue(NullScalar()))
		return b, wantErr
	})
	if err != wantErr {
		t.Fatalf("BuildErr error = %v, want %v", err, wantErr)
	}
}

func TestBuilderWithAttachmentRoundTrips(t *testing.T) {
	tree := New()
	root := tree.Metaroot()
	attached := Attach(root, 42)

	attached = attached.Push(scalarValue(NullScalar()))
	if attached.Value() != 42 {
		t.Errorf("Value() = %d, want 42", attached.Value())
	}

	attached = attached.Build(objectValue(), func(w BuilderWithAttachment[int]) BuilderWithAttachment[int] {
		if w.Value() != 42 {
			t.Errorf("nested Value() = %d, want 42", w.Value())
		}
		return w.Push(scalarValue(BoolScalar(true)))
	})

	b, v := attached.Detach()
	if v != 42 {
		t.Errorf("Detach() value = %d, want 42", v)
	}
	if b.NextIndex() != 3 {
		t.Errorf("NextIndex() after attachment use = %d, want 3", b.NextIndex())
	}
}
