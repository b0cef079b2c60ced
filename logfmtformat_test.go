package logtree

import "testing"

func parseLogfmtToTree(t *testing.T, src string, settings *Settings) *FlatTree {
	t.Helper()
	tree := New()
	_, err := ParseLogfmt([]byte(src), settings, tree.Metaroot(), nil)
	if err != nil {
		t.Fatalf("ParseLogfmt(%q) error = %v", src, err)
	}
	return tree
}

func TestParseLogfmtBasic(t *testing.T) {
	settings := DefaultSettings()
	tree := parseLogfmtToTree(t, `time=2024 level=info msg="hello world" n=1.5`, &settings)
	children := tree.Children(0)
	if len(children) != 4 {
		t.Fatalf("field count = %d, want 4", len(children))
	}
}

func TestParseLogfmtBareBooleanAndNull(t *testing.T) {
	settings := DefaultSettings()
	settings.LogfmtBareBool = true
	tree := New()
	if _, err := ParseLogfmt([]byte(`ok=true bad=false empty=null`), &settings, tree.Metaroot(), nil); err != nil {
		t.Fatalf("ParseLogfmt error = %v", err)
	}
	children := tree.Children(0)
	kinds := []ScalarKind{ScalarBool, ScalarBool, ScalarNull}
	for i, idx := range children {
		val := tree.Children(idx)[0]
		got := tree.Node(val).Value.Scalar.Kind
		if got != kinds[i] {
			t.Errorf("field %d scalar kind = %v, want %v", i, got, kinds[i])
		}
	}
}

func TestParseLogfmtBareBooleanDisabled(t *testing.T) {
	settings := DefaultSettings()
	settings.LogfmtBareBool = false
	tree := New()
	if _, err := ParseLogfmt([]byte(`ok=true`), &settings, tree.Metaroot(), nil); err != nil {
		t.Fatalf("ParseLogfmt error = %v", err)
	}
	val := tree.Children(tree.Children(0)[0])[0]
	if got := tree.Node(val).Value.Scalar.Kind; got != ScalarString {
		t.Errorf("scalar kind = %v, want ScalarString when LogfmtBareBool is false", got)
	}
}

func TestParseLogfmtBareNumberAlwaysRecognized(t *testing.T) {
	settings := DefaultSettings()
	settings.LogfmtBareBool = false
	tree := New()
	if _, err := ParseLogfmt([]byte(`n=42`), &settings, tree.Metaroot(), nil); err != nil {
		t.Fatalf("ParseLogfmt error = %v", err)
	}
	val := tree.Children(tree.Children(0)[0])[0]
	if got := tree.Node(val).Value.Scalar.Kind; got != ScalarNumber {
		t.Errorf("scalar kind = %v, want ScalarNumber", got)
	}
}

func TestParseLogfmtQuotedValueWithEscapes(t *testing.T) {
	settings := DefaultSettings()
	src := `msg="line\nbreak"`
	buf := []byte(src)
	tree := New()
	if _, err := ParseLogfmt(buf, &settings, tree.Metaroot(), nil); err != nil {
		t.Fatalf("ParseLogfmt error = %v", err)
	}
	val := tree.Children(tree.Children(0)[0])[0]
	s := tree.Node(val).Value.Scalar.String
	sb := NewStringBuilder(buf)
	_ = s.Decode(buf, sb)
	if got := string(sb.Bytes()); got != "line\nbreak" {
		t.Errorf("decoded = %q, want %q", got, "line\nbreak")
	}
}

func TestParseLogfmtBareKeyNoValue(t *testing.T) {
	settings := DefaultSettings()
	tree := New()
	if _, err := ParseLogfmt([]byte(`debug`), &settings, tree.Metaroot(), nil); err != nil {
		t.Fatalf("ParseLogfmt error = %v", err)
	}
	val := tree.Children(tree.Children(0)[0])[0]
	if got := tree.Node(val).Value.Scalar; got.Kind != ScalarBool || !got.Bool {
		t.Errorf("bare key value = %+v, want Bool(true)", got)
	}
}

func TestParseLogfmtTruncatedTrailingEqualsErrors(t *testing.T) {
	settings := DefaultSettings()
	tree := New()
	_, err := ParseLogfmt([]byte(`key=`), &settings, tree.Metaroot(), nil)
	if err == nil {
		t.Fatal("expected an error for a truncated trailing key=")
	}
}

func TestParseLogfmtStopsAtNewline(t *testing.T) {
	settings := DefaultSettings()
	tree := New()
	_, err := ParseLogfmt([]byte("a=1\nb=2"), &settings, tree.Metaroot(), nil)
	if err != nil {
		t.Fatalf("ParseLogfmt error = %v", err)
	}
	if len(tree.Children(0)) != 1 {
		t.Fatalf("field count = %d, want 1 (must stop before the newline)", len(tree.Children(0)))
	}
}
