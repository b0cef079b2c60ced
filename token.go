package logtree

// ScalarKind tags the variant held by a Scalar.
type ScalarKind uint8

const (
	ScalarNull ScalarKind = iota
	ScalarBool
	ScalarNumber
	ScalarString
)

// Scalar is a tagged union over the leaf value kinds a log field can
// hold. Numbers are kept as the source Span — no numeric parsing happens
// at AST-build time.
type Scalar struct {
	Kind   ScalarKind
	Bool   bool
	Number Span
	String EncodedString
}

func NullScalar() Scalar                  { return Scalar{Kind: ScalarNull} }
func BoolScalar(v bool) Scalar            { return Scalar{Kind: ScalarBool, Bool: v} }
func NumberScalar(sp Span) Scalar         { return Scalar{Kind: ScalarNumber, Number: sp} }
func StringScalar(s EncodedString) Scalar { return Scalar{Kind: ScalarString, String: s} }

// CompositeKind tags the variant held by a Composite tag.
type CompositeKind uint8

const (
	CompositeObject CompositeKind = iota
	CompositeArray
	CompositeField
)

// Composite tags a non-scalar node: an object, an array, or a field (a
// JSON object member or a logfmt key=value pair). Field carries its key.
type Composite struct {
	Kind CompositeKind
	Key  EncodedString
}

func ObjectComposite() Composite { return Composite{Kind: CompositeObject} }
func ArrayComposite() Composite  { return Composite{Kind: CompositeArray} }
func FieldComposite(key EncodedString) Composite {
	return Composite{Kind: CompositeField, Key: key}
}

// NodeKind tags the value a FlatTree node stores.
type NodeKind uint8

const (
	NodeScalar NodeKind = iota
	NodeObject
	NodeArray
	NodeKey
)

// NodeValue is the payload stored per FlatTree node.
type NodeValue struct {
	Kind   NodeKind
	Scalar Scalar
	Key    EncodedString
}

func scalarValue(s Scalar) NodeValue { return NodeValue{Kind: NodeScalar, Scalar: s} }
func objectValue() NodeValue         { return NodeValue{Kind: NodeObject} }
func arrayValue() NodeValue          { return NodeValue{Kind: NodeArray} }
func keyValue(k EncodedString) NodeValue {
	return NodeValue{Kind: NodeKey, Key: k}
}

// TokenKind enumerates the uniform token stream emitted by every format
// lexer/parser:
//
//	EntryBegin
//	( Scalar | CompositeBegin | CompositeEnd )*
//	EntryEnd
type TokenKind uint8

const (
	TokenEntryBegin TokenKind = iota
	TokenEntryEnd
	TokenScalar
	TokenCompositeBegin
	TokenCompositeEnd
)

// Token is one element of the uniform token stream a format lexer/parser
// drives a TreeBuilder with.
type Token struct {
	Kind      TokenKind
	Scalar    Scalar
	Composite Composite
}
