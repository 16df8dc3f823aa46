// Package naming converts DTD identifiers into Go-friendly names.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pascal splits s on '-' and '_', lowercases segments written entirely in
// upper case, capitalises each segment and joins them.
func Pascal(s string) string {
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_'
	})
	var b strings.Builder
	for _, segment := range segments {
		if isAllUpper(segment) {
			segment = strings.ToLower(segment)
		}
		b.WriteString(upperFirst(segment))
	}
	return b.String()
}

// Camel is Pascal with the first character lowercased
func Camel(s string) string {
	return lowerFirst(Pascal(s))
}

// StripPrefix returns the part of s after the first ':', or s itself
func StripPrefix(s string) string {
	if _, local, ok := strings.Cut(s, ":"); ok {
		return local
	}
	return s
}

// SplitPrefix returns the namespace prefix and local part of a qualified
// name. prefix is empty for unqualified names.
func SplitPrefix(s string) (prefix, local string) {
	if p, l, ok := strings.Cut(s, ":"); ok {
		return p, l
	}
	return "", s
}

// Plural applies English plural heuristics, keeping the case of the last
// letter: entry -> entries, ENTRY -> ENTRIES, cactus -> cacti, tax -> taxes.
func Plural(s string) string {
	if s == "" {
		return ""
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	upper := unicode.IsUpper(last)
	suffix := func(lower string) string {
		if upper {
			return strings.ToUpper(lower)
		}
		return lower
	}

	lowered := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lowered, "y"):
		return s[:len(s)-1] + suffix("ies")
	case strings.HasSuffix(lowered, "us"):
		return s[:len(s)-2] + suffix("i")
	case strings.HasSuffix(lowered, "s"), strings.HasSuffix(lowered, "h"), strings.HasSuffix(lowered, "x"):
		return s + suffix("es")
	default:
		return s + suffix("s")
	}
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
