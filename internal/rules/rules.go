// Package rules holds the string heuristics of the configuration reference
// XML: comment markers and singular/plural key forms.
package rules

import (
	"regexp"
	"strings"

	"github.com/dejo1307/symfonymcp/internal/schema"
)

// PrototypeRule recognises the comment that marks the following element as a
// repeatable, user-keyed collection entry.
type PrototypeRule struct {
	pattern *regexp.Regexp
}

// Match reports whether a comment body is a prototype marker.
func (r PrototypeRule) Match(comment string) bool {
	return r.pattern.MatchString(strings.ToLower(strings.TrimSpace(comment)))
}

// DocVariableRule recognises "name: text" documentation comments.
type DocVariableRule struct {
	pattern *regexp.Regexp
}

// Match extracts the key and text of a documentation comment.
func (r DocVariableRule) Match(comment string) (key, value string, ok bool) {
	m := r.pattern.FindStringSubmatch(strings.TrimSpace(comment))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

var (
	Prototype   = PrototypeRule{pattern: regexp.MustCompile(`^\s*prototype.*`)}
	DocVariable = DocVariableRule{pattern: regexp.MustCompile(`^\s*([\w_-]+)\s*:\s*(.*?)$`)}
)

// IsPrototype reports whether any comment directly above n is a prototype
// marker.
func IsPrototype(n *schema.Node) bool {
	if n == nil {
		return false
	}
	for _, c := range n.PrecedingComments() {
		if Prototype.Match(c) {
			return true
		}
	}
	return false
}

// DocVariables collects the documentation comments directly above n. The
// run is scanned nearest first; a farther comment for the same key wins.
func DocVariables(n *schema.Node) map[string]string {
	vars := make(map[string]string)
	if n == nil {
		return vars
	}
	for _, c := range n.PrecedingComments() {
		if key, value, ok := DocVariable.Match(c); ok {
			vars[key] = value
		}
	}
	return vars
}
