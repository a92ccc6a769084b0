package schema

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// ErrSchemaLoad marks every failure to read or parse a schema document.
var ErrSchemaLoad = errors.New("schema load failed")

// LoadError wraps err as a schema load failure for source.
func LoadError(err error, source string) error {
	return errors.Mark(errors.Wrapf(err, "loading schema %s", source), ErrSchemaLoad)
}

// Parse reads an XML document from r. source is recorded on the document and
// in errors.
func Parse(r io.Reader, source string) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	doc := &Document{source: source, node: &Node{Kind: DocumentNode}}
	stack := []*Node{doc.node}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, LoadError(err, source)
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			if top == doc.node && doc.root != nil {
				return nil, LoadError(errors.New("multiple root elements"), source)
			}
			el := &Node{Kind: ElementNode, Name: t.Name.Local, Attrs: attrs(t.Attr)}
			top.appendChild(el)
			if top == doc.node {
				doc.root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			appendText(top, t)
		case xml.Comment:
			top.appendChild(&Node{Kind: CommentNode, Text: string(t)})
		}
	}

	if doc.root == nil {
		return nil, LoadError(errors.New("no root element"), source)
	}
	return doc, nil
}

// ParseBytes parses an in-memory document.
func ParseBytes(data []byte, source string) (*Document, error) {
	return Parse(bytes.NewReader(data), source)
}

// ParseFile parses the document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadError(err, path)
	}
	defer f.Close()
	return Parse(f, path)
}

// attrs converts decoder attributes, dropping namespace declarations.
func attrs(in []xml.Attr) []Attr {
	var out []Attr
	for _, a := range in {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		out = append(out, Attr{Name: a.Name.Local, Value: a.Value})
	}
	return out
}

// appendText merges adjacent character data into one text node.
func appendText(parent *Node, data xml.CharData) {
	if n := len(parent.Children); n > 0 && parent.Children[n-1].Kind == TextNode {
		parent.Children[n-1].Text += string(data)
		return
	}
	parent.appendChild(&Node{Kind: TextNode, Text: string(data)})
}
