package feed

import (
	"strconv"
	"strings"
)

// Lookup walks a dot-delimited path through a parsed feed tree and
// returns the value it reaches. A missing segment, an out-of-range
// index or a non-indexable intermediate value yields Absent; lookups
// never fail with an error.
//
// Numeric segments index into lists; every other segment selects a
// field of a mapping or wrapped-text node.
func Lookup(root *Node, path string) *Node {
	if root == nil || path == "" {
		return Absent
	}

	current := root
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return Absent
		}
		switch current.Kind() {
		case KindList:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return Absent
			}
			current = current.Index(idx)
		case KindMap, KindCharData:
			current = current.Field(segment)
		default:
			return Absent
		}
		if current.IsAbsent() {
			return Absent
		}
	}
	return current
}

// LookupText resolves a path and unwraps the result to plain text.
// Absent values and non-textual nodes report ok == false.
func LookupText(root *Node, path string) (string, bool) {
	return Lookup(root, path).Text()
}
