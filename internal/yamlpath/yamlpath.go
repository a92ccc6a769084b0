// Package yamlpath finds the mapping keys that enclose a cursor in a YAML
// configuration file.
package yamlpath

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ParentKeys returns the keys of the mappings enclosing the cursor, root
// first. line and column are 1-based. The key on the cursor line itself is
// not included. Files that do not parse, as is common mid-edit, fall back to
// an indentation scan.
func ParentKeys(content []byte, line, column int) []string {
	if line < 1 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	indent := cursorIndent(lines, line, column)

	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err == nil && len(root.Content) > 0 {
		return walk(root.Content[0], line, indent, nil)
	}
	return scan(lines, line, indent)
}

// cursorIndent is the column the cursor's key starts at: the leading spaces
// of the text before the cursor.
func cursorIndent(lines []string, line, column int) int {
	if line > len(lines) {
		return 0
	}
	text := strings.TrimRight(lines[line-1], "\r")
	if column < 1 {
		column = 1
	}
	if column-1 < len(text) {
		text = text[:column-1]
	}
	trimmed := strings.TrimLeft(text, " ")
	if trimmed == "" {
		return len(text)
	}
	return len(text) - len(trimmed)
}

func walk(n *yaml.Node, line, indent int, keys []string) []string {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return keys
		}
		return walk(n.Content[0], line, indent, keys)
	case yaml.MappingNode:
		var key, value *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Line >= line {
				break
			}
			key, value = n.Content[i], n.Content[i+1]
		}
		if key == nil || key.Column-1 >= indent {
			return keys
		}
		keys = append(keys, key.Value)
		return walk(value, line, indent, keys)
	case yaml.SequenceNode:
		var item *yaml.Node
		for _, c := range n.Content {
			if c.Line > line {
				break
			}
			item = c
		}
		if item == nil {
			return keys
		}
		return walk(item, line, indent, keys)
	default:
		return keys
	}
}

// scan walks up from the cursor collecting each less indented key.
func scan(lines []string, line, indent int) []string {
	var keys []string
	if line > len(lines)+1 {
		line = len(lines) + 1
	}
	for i := line - 2; i >= 0 && indent > 0; i-- {
		text := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimLeft(text, " ")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		ind := len(text) - len(trimmed)
		if ind >= indent {
			continue
		}
		indent = ind
		// list items are not keys of their own; their parent is further up
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		if key, ok := keyOf(trimmed); ok {
			keys = append(keys, key)
		}
	}

	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys
}

// keyOf extracts the key of a "key: value" line.
func keyOf(s string) (string, bool) {
	i := strings.Index(s, ":")
	if i <= 0 {
		return "", false
	}
	key := strings.TrimSpace(s[:i])
	key = strings.Trim(key, `"'`)
	if key == "" || strings.ContainsAny(key, "{}[],#") {
		return "", false
	}
	return key, true
}
