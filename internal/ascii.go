// Package internal holds byte/string mechanics shared by the lexers and
// the encoded-string decoder. Nothing here depends on the tree types in
// the parent package — it operates purely on bytes, mirroring the
// teacher's own internal package of primitive-level helpers.
package internal

// IsJSONWhitespace reports whether b is one of the four ASCII whitespace
// bytes the JSON grammar treats as insignificant.
func IsJSONWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsHexDigit reports whether b is an ASCII hex digit.
func IsHexDigit(b byte) bool {
	return IsDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// IsLogfmtKeyByte reports whether b may appear inside a logfmt key: any
// byte that is not whitespace and not '='.
func IsLogfmtKeyByte(b byte) bool {
	return b != '=' && b != ' ' && b != '\t' && b != '\n' && b != '\r'
}

// IsLogfmtBareValueByte reports whether b may appear inside an unquoted
// logfmt value: any byte that is not whitespace and not a double quote.
func IsLogfmtBareValueByte(b byte) bool {
	return b != ' ' && b != '\t' && b != '\n' && b != '\r' && b != '"'
}
