// Package schema holds the parsed Symfony configuration reference XML.
//
// The tree is read-only after Parse. Sibling relations are positional: every
// node knows its parent and its index in the parent's child list, so lookback
// over preceding siblings is a slice walk rather than a linked traversal.
package schema

import "strings"

// Kind distinguishes the node types kept from the XML stream.
type Kind int

const (
	DocumentNode Kind = iota
	ElementNode
	CommentNode
	TextNode
)

func (k Kind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case CommentNode:
		return "comment"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Attr is one attribute of an element, in source order.
type Attr struct {
	Name  string
	Value string
}

// Node is a document, element, comment or text node.
type Node struct {
	Kind     Kind
	Name     string // element tag, empty for other kinds
	Text     string // comment body or character data
	Attrs    []Attr
	Children []*Node

	parent *Node
	index  int
}

// Parent returns the enclosing node, nil for the document node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Elements returns the direct element children.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every element below n in document order, n excluded.
func (n *Node) Descendants() []*Node {
	var out []*Node
	n.walk(func(e *Node) bool {
		out = append(out, e)
		return true
	})
	return out
}

// FindDescendant returns the first element below n, in document order,
// whose tag equals name.
func (n *Node) FindDescendant(name string) *Node {
	var found *Node
	n.walk(func(e *Node) bool {
		if e.Name == name {
			found = e
			return false
		}
		return true
	})
	return found
}

// walk visits descendant elements pre-order until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	for _, c := range n.Children {
		if c.Kind != ElementNode {
			continue
		}
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

// PrecedingComments returns the bodies of the comments directly above n,
// nearest first. Text siblings are stepped over; the first element sibling
// ends the run.
func (n *Node) PrecedingComments() []string {
	if n.parent == nil {
		return nil
	}
	var out []string
	siblings := n.parent.Children
	for i := n.index - 1; i >= 0; i-- {
		s := siblings[i]
		switch s.Kind {
		case CommentNode:
			out = append(out, s.Text)
		case TextNode:
			continue
		default:
			return out
		}
	}
	return out
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Path returns the slash-separated tag chain from the document element.
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil && cur.Kind == ElementNode; cur = cur.parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	c.index = len(n.Children)
	n.Children = append(n.Children, c)
}

// Document is a parsed schema.
type Document struct {
	source string
	node   *Node
	root   *Node
}

// Source identifies where the document was read from.
func (d *Document) Source() string {
	return d.source
}

// Root returns the document element.
func (d *Document) Root() *Node {
	return d.root
}

// Section returns the top-level configuration section named name: the
// document element itself when its tag matches, otherwise its first direct
// element child with that tag.
func (d *Document) Section(name string) *Node {
	if d.root == nil {
		return nil
	}
	if d.root.Name == name {
		return d.root
	}
	for _, e := range d.root.Elements() {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Sections returns the top-level configuration section names.
func (d *Document) Sections() []string {
	if d.root == nil {
		return nil
	}
	var names []string
	for _, e := range d.root.Elements() {
		names = append(names, e.Name)
	}
	return names
}
