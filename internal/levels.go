package internal

import "strings"

// levelAliases is the case-insensitive alias table used to normalize a
// level field's decoded text into one of the canonical level names.
var levelAliases = map[string]string{
	"e": "error", "err": "error", "error": "error",
	"w": "warn", "wrn": "warn", "warn": "warn", "warning": "warn",
	"i": "info", "inf": "info", "info": "info",
	"d": "debug", "dbg": "debug", "debug": "debug",
	"t": "trace", "trc": "trace", "trace": "trace",
}

// NormalizeLevel maps raw level text to one of "error", "warn", "info",
// "debug", "trace" using a case-insensitive alias lookup. The second
// return value is false when s does not match any known alias.
func NormalizeLevel(s string) (string, bool) {
	canonical, ok := levelAliases[strings.ToLower(s)]
	return canonical, ok
}
