package feed

// NodeKind discriminates the variants of a parsed feed tree value.
type NodeKind int

const (
	// KindAbsent is the result of a failed lookup. It is a normal,
	// representable outcome, not an error.
	KindAbsent NodeKind = iota

	// KindScalar is a plain text value.
	KindScalar

	// KindCharData is wrapped character data: an XML element that carries
	// text alongside attributes. The text must be unwrapped explicitly at
	// the normalization boundary.
	KindCharData

	// KindList is an ordered sequence of nodes.
	KindList

	// KindMap is a keyed collection of child nodes.
	KindMap
)

// Node is a generic tree value for parsed feeds (XML or CSV). It is a
// tagged union over scalar, wrapped text, sequence and mapping.
type Node struct {
	kind   NodeKind
	scalar string
	list   []*Node
	fields map[string]*Node
}

// Absent is the shared missing-value node.
var Absent = &Node{kind: KindAbsent}

// Scalar builds a plain text node.
func Scalar(s string) *Node {
	return &Node{kind: KindScalar, scalar: s}
}

// CharData builds a wrapped-text node with optional attribute fields.
func CharData(s string, attrs map[string]*Node) *Node {
	return &Node{kind: KindCharData, scalar: s, fields: attrs}
}

// List builds a sequence node.
func List(items ...*Node) *Node {
	return &Node{kind: KindList, list: items}
}

// Map builds a mapping node.
func Map(fields map[string]*Node) *Node {
	if fields == nil {
		fields = make(map[string]*Node)
	}
	return &Node{kind: KindMap, fields: fields}
}

// Kind returns the variant of the node.
func (n *Node) Kind() NodeKind {
	if n == nil {
		return KindAbsent
	}
	return n.kind
}

// IsAbsent reports whether the node represents a missing value.
func (n *Node) IsAbsent() bool { return n.Kind() == KindAbsent }

// Text unwraps the node to its plain string content. Wrapped character
// data and maps carrying a "#text" child unwrap to the inner text.
// Non-textual nodes report ok == false.
func (n *Node) Text() (string, bool) {
	switch n.Kind() {
	case KindScalar, KindCharData:
		return n.scalar, true
	case KindMap:
		if inner, ok := n.fields["#text"]; ok {
			return inner.Text()
		}
	}
	return "", false
}

// Items returns the node coerced to a list. A single non-list node
// becomes a one-element list; absent coerces to nothing.
func (n *Node) Items() ([]*Node, bool) {
	switch n.Kind() {
	case KindList:
		return n.list, true
	case KindMap, KindScalar, KindCharData:
		return []*Node{n}, true
	}
	return nil, false
}

// Field returns the named child of a mapping or wrapped-text node.
func (n *Node) Field(key string) *Node {
	if n.Kind() == KindMap || n.Kind() == KindCharData {
		if child, ok := n.fields[key]; ok {
			return child
		}
	}
	return Absent
}

// Index returns the i-th element of a list node.
func (n *Node) Index(i int) *Node {
	if n.Kind() == KindList && i >= 0 && i < len(n.list) {
		return n.list[i]
	}
	return Absent
}

// Len returns the element count for lists, the field count for maps,
// and zero otherwise.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindList:
		return len(n.list)
	case KindMap:
		return len(n.fields)
	}
	return 0
}
