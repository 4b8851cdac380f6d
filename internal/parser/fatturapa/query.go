package fatturapa

import (
	"strings"

	"github.com/beevik/etree"
)

// Descendant-search helpers over the etree document. FatturaPA files
// arrive with varying namespace prefixes (p:, ns2:, none at all), so all
// matching is on local tag names; etree already splits the prefix off
// into Element.Space.

// findFirst walks the subtree of parent and returns the first element
// matching path, where each step matches at any depth below the
// previous one (CSS descendant-combinator semantics). Returns nil when
// parent is nil or no element matches.
func findFirst(parent *etree.Element, path ...string) *etree.Element {
	if parent == nil || len(path) == 0 {
		return nil
	}
	el := firstDescendant(parent, path[0])
	if el == nil || len(path) == 1 {
		return el
	}
	return findFirst(el, path[1:]...)
}

// findAll returns every descendant of parent with the given local tag,
// in document order.
func findAll(parent *etree.Element, tag string) []*etree.Element {
	if parent == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
		out = append(out, findAll(child, tag)...)
	}
	return out
}

func firstDescendant(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := firstDescendant(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// text returns the trimmed character data of el, empty for nil.
func text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// textAt is findFirst followed by text.
func textAt(parent *etree.Element, path ...string) string {
	return text(findFirst(parent, path...))
}

// Node is the exported query capability over a parsed document, for
// callers outside this package that need raw field access (the issuer
// auto-populate path reads elements the normalized model folds away).
type Node struct {
	el *etree.Element
}

// Load parses XML content and returns its root node. Malformed XML is
// the only error condition.
func Load(content []byte) (*Node, error) {
	root, err := loadRoot(content)
	if err != nil {
		return nil, err
	}
	return &Node{el: root}, nil
}

// FindFirst returns the first descendant matching path, or nil.
func (n *Node) FindFirst(path ...string) *Node {
	if n == nil {
		return nil
	}
	el := findFirst(n.el, path...)
	if el == nil {
		return nil
	}
	return &Node{el: el}
}

// Text returns the trimmed character data of the node, empty for nil.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return text(n.el)
}

// TextAt is FindFirst followed by Text.
func (n *Node) TextAt(path ...string) string {
	if n == nil {
		return ""
	}
	return textAt(n.el, path...)
}
