// Package pcdata expands entity references in parsed character data. Code
// generated by xmldtd imports it from PcData.Parse.
package pcdata

import "regexp"

var entityRef = regexp.MustCompile(`&([A-Za-z0-9]+);`)

// Expand replaces every &name; in s with entities[name]. References to names
// missing from entities are replaced by the bare name.
func Expand(s string, entities map[string]string) string {
	return entityRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[1 : len(ref)-1]
		if value, ok := entities[name]; ok {
			return value
		}
		return name
	})
}
