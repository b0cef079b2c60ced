package logtree

import "testing"

func parseJSONToTree(t *testing.T, src string) *FlatTree {
	t.Helper()
	tree := New()
	settings := DefaultSettings()
	_, err := ParseJSON([]byte(src), &settings, tree.Metaroot(), nil)
	if err != nil {
		t.Fatalf("ParseJSON(%q) error = %v", src, err)
	}
	return tree
}

func TestParseJSONFlatObject(t *testing.T) {
	tree := parseJSONToTree(t, `{"a":1,"b":"two","c":true,"d":null}`)
	children := tree.Children(0)
	if len(children) != 4 {
		t.Fatalf("top-level field count = %d, want 4", len(children))
	}
	for _, idx := range children {
		if tree.Node(idx).Value.Kind != NodeKey {
			t.Errorf("node %d kind = %v, want NodeKey", idx, tree.Node(idx).Value.Kind)
		}
	}
}

func TestParseJSONNestedObjectAndArray(t *testing.T) {
	src := `{"outer":{"inner":[1,2,3]}}`
	tree := New()
	settings := DefaultSettings()
	if _, err := ParseJSON([]byte(src), &settings, tree.Metaroot(), nil); err != nil {
		t.Fatalf("ParseJSON error = %v", err)
	}
	outerField := tree.Children(0)[0]
	outerObj := tree.Children(outerField)[0]
	if tree.Node(outerObj).Value.Kind != NodeObject {
		t.Fatalf("outer value kind = %v, want NodeObject", tree.Node(outerObj).Value.Kind)
	}
	innerField := tree.Children(outerObj)[0]
	innerArr := tree.Children(innerField)[0]
	if tree.Node(innerArr).Value.Kind != NodeArray {
		t.Fatalf("inner value kind = %v, want NodeArray", tree.Node(innerArr).Value.Kind)
	}
	elems := tree.Children(innerArr)
	if len(elems) != 3 {
		t.Fatalf("array element count = %d, want 3", len(elems))
	}
}

func TestParseJSONRejectsNonObjectTopLevel(t *testing.T) {
	tree := New()
	settings := DefaultSettings()
	_, err := ParseJSON([]byte(`[1,2,3]`), &settings, tree.Metaroot(), nil)
	if err == nil {
		t.Fatal("expected an error for a top-level array")
	}
	se, ok := err.(*SyntaxError)
	if !ok || se.Kind != ExpectedObject {
		t.Errorf("error = %v, want ExpectedObject", err)
	}
}

func TestParseJSONRejectsTrailingComma(t *testing.T) {
	tree := New()
	settings := DefaultSettings()
	_, err := ParseJSON([]byte(`{"a":1,}`), &settings, tree.Metaroot(), nil)
	if err == nil {
		t.Fatal("expected an error for a trailing comma")
	}
}

func TestParseJSONPreservesDuplicateKeysInOrder(t *testing.T) {
	tree := parseJSONToTree(t, `{"a":1,"a":2}`)
	children := tree.Children(0)
	if len(children) != 2 {
		t.Fatalf("field count = %d, want 2 (duplicates preserved)", len(children))
	}
}

func TestParseJSONDepthLimitExceeded(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxDepth = 3

	// {"a":{"b":{"c":1}}} nests three objects deep from the root.
	src := `{"a":{"b":{"c":1}}}`
	tree := New()
	_, err := ParseJSON([]byte(src), &settings, tree.Metaroot(), nil)
	if err == nil {
		t.Fatal("expected a depth-limit error")
	}
	se, ok := err.(*SyntaxError)
	if !ok || se.Kind != DepthLimitExceeded {
		t.Errorf("error = %v, want DepthLimitExceeded", err)
	}
}

func TestParseJSONWithinDepthLimitSucceeds(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxDepth = 128
	tree := New()
	_, err := ParseJSON([]byte(`{"a":{"b":{"c":1}}}`), &settings, tree.Metaroot(), nil)
	if err != nil {
		t.Fatalf("ParseJSON error = %v, want nil", err)
	}
}

func TestParseJSONNumberGrammar(t *testing.T) {
	ok := []string{"0", "-0", "123", "-123", "0.5", "123.456", "1e10", "1E-10", "1.5e+10"}
	for _, num := range ok {
		t.Run(num, func(t *testing.T) {
			parseJSONToTree(t, `{"n":`+num+`}`)
		})
	}
}

func TestParseJSONInvalidNumberRejected(t *testing.T) {
	bad := []string{"01", "1.", ".5", "1e", "--1"}
	for _, num := range bad {
		t.Run(num, func(t *testing.T) {
			tree := New()
			settings := DefaultSettings()
			_, err := ParseJSON([]byte(`{"n":`+num+`}`), &settings, tree.Metaroot(), nil)
			if err == nil {
				t.Errorf("expected an error parsing number %q", num)
			}
		})
	}
}

func TestParseJSONOnFieldHookFiresAtDepthOne(t *testing.T) {
	tree := New()
	settings := DefaultSettings()
	var seen []string
	onField := func(key EncodedString, idx int) {
		sb := NewStringBuilder([]byte(`{"a":1,"b":{"c":2}}`))
		_ = key.Decode([]byte(`{"a":1,"b":{"c":2}}`), sb)
		seen = append(seen, string(sb.Bytes()))
	}
	_, err := ParseJSON([]byte(`{"a":1,"b":{"c":2}}`), &settings, tree.Metaroot(), onField)
	if err != nil {
		t.Fatalf("ParseJSON error = %v", err)
	}
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Fatalf("onField saw %v, want [a b] (nested field c must not trigger the hook)", seen)
	}
}

func TestParseJSONUnescapedControlCharacterRejected(t *testing.T) {
	tree := New()
	settings := DefaultSettings()
	_, err := ParseJSON([]byte("{\"a\":\"x\ty\"}"), &settings, tree.Metaroot(), nil)
	if err == nil {
		t.Fatal("expected an error for an unescaped control character in a string")
	}
}
