// Package candidates turns a resolved schema node into completion candidates.
package candidates

import (
	"strings"
	"unicode/utf8"

	"github.com/dejo1307/symfonymcp/internal/rules"
	"github.com/dejo1307/symfonymcp/internal/schema"
)

// Kind of a candidate.
type Kind string

const (
	KindAttribute Kind = "attribute" // scalar option
	KindSection   Kind = "section"   // nested configuration block
)

// PrototypeLabel is the type text of prototype sections.
const PrototypeLabel = "Prototype"

// DefaultMaxDocLength bounds documentation text when Options leaves it unset.
const DefaultMaxDocLength = 100

// Candidate is one completion entry.
type Candidate struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	TailText  string `json:"tail_text,omitempty"`
	TypeText  string `json:"type_text,omitempty"`
	Prototype bool   `json:"prototype,omitempty"`
}

// Options tunes Build.
type Options struct {
	MaxDocLength int
}

// Build lists the attributes of n followed by every element below it. Names
// are not de-duplicated.
func Build(n *schema.Node, opts Options) []Candidate {
	if n == nil {
		return nil
	}
	maxDoc := opts.MaxDocLength
	if maxDoc <= 0 {
		maxDoc = DefaultMaxDocLength
	}

	var out []Candidate
	if len(n.Attrs) > 0 {
		docs := rules.DocVariables(n)
		for _, a := range n.Attrs {
			c := Candidate{Name: a.Name, Kind: KindAttribute}
			if strings.TrimSpace(a.Value) != "" {
				c.TailText = "(" + a.Value + ")"
			}
			if doc, ok := docs[a.Name]; ok {
				c.TypeText = Shorten(doc, maxDoc)
			}
			out = append(out, c)
		}
	}

	for _, e := range n.Descendants() {
		c := Candidate{Name: e.Name, Kind: KindSection}
		// prototype "connection" is written "connections" in YAML
		if rules.IsPrototype(e) {
			c.Name = rules.Pluralize(e.Name)
			c.TypeText = PrototypeLabel
			c.Prototype = true
		}
		out = append(out, c)
	}
	return out
}

// Shorten cuts s to at most max runes, the last one an ellipsis.
func Shorten(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
