package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ParseXML decodes an XML document into a generic feed tree. The root
// element appears as a named field of the returned node, so mapping
// paths start at the root tag (e.g. "rss.channel.item").
//
// Elements holding only text become scalars. Elements holding text plus
// attributes become wrapped character data that must be unwrapped via
// Node.Text at the point of use. Repeated sibling tags collapse into a
// list, attributes are exposed under "@name" fields and mixed content
// keeps its text under "#text".
func ParseXML(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	root, err := decodeChildren(dec, "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML feed: %w", err)
	}
	if root.Len() == 0 {
		return nil, fmt.Errorf("XML feed has no root element")
	}
	return root, nil
}

// decodeChildren consumes tokens until the close of the named parent
// element (or EOF at the top level) and returns the accumulated node.
func decodeChildren(dec *xml.Decoder, parent string) (*Node, error) {
	children := make(map[string][]*Node)
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if parent != "" {
				return nil, fmt.Errorf("unexpected EOF inside <%s>", parent)
			}
			return buildElement(children, text.String()), nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make(map[string]*Node, len(t.Attr))
			for _, a := range t.Attr {
				attrs["@"+a.Name.Local] = Scalar(a.Value)
			}
			child, err := decodeChildren(dec, t.Name.Local)
			if err != nil {
				return nil, err
			}
			child = attachAttrs(child, attrs)
			children[t.Name.Local] = append(children[t.Name.Local], child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if t.Name.Local == parent {
				return buildElement(children, text.String()), nil
			}
		}
	}
}

// buildElement assembles the node for a closed element from its child
// elements and accumulated character data.
func buildElement(children map[string][]*Node, text string) *Node {
	text = strings.TrimSpace(text)

	if len(children) == 0 {
		return Scalar(text)
	}

	fields := make(map[string]*Node, len(children)+1)
	for name, group := range children {
		if len(group) == 1 {
			fields[name] = group[0]
		} else {
			fields[name] = List(group...)
		}
	}
	if text != "" {
		fields["#text"] = Scalar(text)
	}
	return Map(fields)
}

// attachAttrs merges element attributes into an already built node.
func attachAttrs(n *Node, attrs map[string]*Node) *Node {
	if len(attrs) == 0 {
		return n
	}
	switch n.Kind() {
	case KindScalar:
		return CharData(n.scalar, attrs)
	case KindMap:
		for name, value := range attrs {
			n.fields[name] = value
		}
		return n
	case KindCharData:
		for name, value := range attrs {
			n.fields[name] = value
		}
		return n
	}
	return n
}
