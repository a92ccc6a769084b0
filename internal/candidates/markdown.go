package candidates

import (
	"fmt"
	"strings"
)

// Markdown renders candidates as a compact list for MCP text content.
func Markdown(path []string, cands []Candidate) string {
	var sb strings.Builder
	if len(path) > 0 {
		sb.WriteString(fmt.Sprintf("## %s\n\n", strings.Join(path, ".")))
	}
	if len(cands) == 0 {
		sb.WriteString("_No completions._\n")
		return sb.String()
	}

	for _, c := range cands {
		sb.WriteString("- `")
		sb.WriteString(c.Name)
		sb.WriteString("`")
		if c.Kind == KindSection {
			sb.WriteString(":")
		}
		if c.TailText != "" {
			sb.WriteString(" ")
			sb.WriteString(c.TailText)
		}
		if c.TypeText != "" {
			sb.WriteString(" - ")
			sb.WriteString(c.TypeText)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
