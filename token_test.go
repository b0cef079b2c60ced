package logtree

import "testing"

func TestScalarConstructors(t *testing.T) {
	if NullScalar().Kind != ScalarNull {
		t.Error("NullScalar().Kind != ScalarNull")
	}
	if b := BoolScalar(true); b.Kind != ScalarBool || !b.Bool {
		t.Errorf("BoolScalar(true) = %+v, want Kind=ScalarBool Bool=true", b)
	}
	sp := Span{Start: 1, End: 4}
	if n := NumberScalar(sp); n.Kind != ScalarNumber || n.Number != sp {
		t.Errorf("NumberScalar(%v) = %+v", sp, n)
	}
	es := RawString(sp)
	if s := StringScalar(es); s.Kind != ScalarString || s.String != es {
		t.Errorf("StringScalar(%v) = %+v", es, s)
	}
}

func TestCompositeConstructors(t *testing.T) {
	if ObjectComposite().Kind != CompositeObject {
		t.Error("ObjectComposite().Kind != CompositeObject")
	}
	if ArrayComposite().Kind != CompositeArray {
		t.Error("ArrayComposite().Kind != CompositeArray")
	}
	key := RawString(Span{Start: 0, End: 3})
	f := FieldComposite(key)
	if f.Kind != CompositeField || f.Key != key {
		t.Errorf("FieldComposite(%v) = %+v", key, f)
	}
}

func TestLogFormatString(t *testing.T) {
	if FormatJSON.String() != "json" {
		t.Errorf("FormatJSON.String() = %q, want json", FormatJSON.String())
	}
	if FormatLogfmt.String() != "logfmt" {
		t.Errorf("FormatLogfmt.String() = %q, want logfmt", FormatLogfmt.String())
	}
}
