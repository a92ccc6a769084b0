// Package resolver maps a root-first list of YAML configuration keys onto the
// configuration reference XML.
package resolver

import (
	"github.com/cockroachdb/errors"

	"github.com/dejo1307/symfonymcp/internal/rules"
	"github.com/dejo1307/symfonymcp/internal/schema"
)

// ErrResolutionMiss marks a path with no matching schema node.
var ErrResolutionMiss = errors.New("no schema node matches path")

// Step records how one path segment was consumed.
type Step struct {
	Segment string `json:"segment"`
	// Matched is the tag of the element the segment resolved to; empty for
	// instance keys.
	Matched string `json:"matched,omitempty"`
	// Node is the slash-separated location of the matched element.
	Node string `json:"node,omitempty"`
	// Singular is set when only the unpluralized segment matched.
	Singular bool `json:"singular,omitempty"`
	// Prototype is set when the matched element is a prototype node.
	Prototype bool `json:"prototype,omitempty"`
	// InstanceKey is set for the user-chosen key inside a prototype
	// collection, which is skipped rather than matched.
	InstanceKey bool `json:"instance_key,omitempty"`
}

// Result is a successful resolution.
type Result struct {
	Node  *schema.Node
	Steps []Step
}

// Resolve returns the schema node for path, false when nothing matches.
func Resolve(doc *schema.Document, path []string) (*schema.Node, bool) {
	res, err := Trace(doc, path)
	if err != nil {
		return nil, false
	}
	return res.Node, true
}

// Trace resolves path and records every step. Failures are marked with
// ErrResolutionMiss and name the segment that did not match.
func Trace(doc *schema.Document, path []string) (*Result, error) {
	if doc == nil {
		return nil, errors.Mark(errors.New("no schema document"), ErrResolutionMiss)
	}
	if len(path) == 0 {
		return nil, errors.Mark(errors.New("empty path"), ErrResolutionMiss)
	}

	cur := doc.Section(path[0])
	if cur == nil {
		return nil, errors.Mark(errors.Newf("no root section %q", path[0]), ErrResolutionMiss)
	}
	res := &Result{Steps: []Step{{Segment: path[0], Matched: cur.Name, Node: cur.Path()}}}

	for i := 1; i < len(path); i++ {
		key := path[i]
		next, singular := matchChild(cur, key)
		if next == nil {
			return nil, errors.Mark(errors.Newf("no element %q below %s", key, cur.Path()), ErrResolutionMiss)
		}
		cur = next

		step := Step{Segment: key, Matched: cur.Name, Node: cur.Path(), Singular: singular}
		step.Prototype = rules.IsPrototype(cur)
		res.Steps = append(res.Steps, step)

		// A prototype collection nests one user-named level before its
		// options: connections.default.dbname.
		if step.Prototype {
			i++
			if i < len(path) {
				res.Steps = append(res.Steps, Step{Segment: path[i], InstanceKey: true})
			}
		}
	}

	res.Node = cur
	return res, nil
}

// matchChild finds key below n, falling back to its singular form.
func matchChild(n *schema.Node, key string) (*schema.Node, bool) {
	if found := n.FindDescendant(key); found != nil {
		return found, false
	}
	singular, ok := rules.Unpluralize(key)
	if !ok {
		return nil, false
	}
	if found := n.FindDescendant(singular); found != nil {
		return found, true
	}
	return nil, false
}
