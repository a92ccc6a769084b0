package rules

import "strings"

// irregular maps plural keys the suffix rules get wrong to their singular.
var irregular = map[string]string{
	"aliases":  "alias",
	"analyses": "analysis",
	"caches":   "cache",
	"children": "child",
	"indexes":  "index",
	"indices":  "index",
	"people":   "person",
	"statuses": "status",
}

var irregularPlural = func() map[string]string {
	m := make(map[string]string, len(irregular))
	for plural, singular := range irregular {
		m[singular] = plural
	}
	m["index"] = "indexes"
	return m
}()

// Unpluralize returns the singular form of a configuration key. The bool is
// false when no plural ending is recognised.
func Unpluralize(s string) (string, bool) {
	head, word := splitLastWord(s)
	if word == "" {
		return "", false
	}
	if singular, ok := irregular[word]; ok {
		return head + singular, true
	}

	var out string
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 3:
		out = word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"):
		out = word[:len(word)-2]
	case strings.HasSuffix(word, "shes") || strings.HasSuffix(word, "ches") ||
		strings.HasSuffix(word, "xes") || strings.HasSuffix(word, "zes"):
		out = word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 1:
		out = word[:len(word)-1]
	default:
		return "", false
	}
	return head + out, true
}

// Pluralize applies simple English pluralization to the last word of a key.
func Pluralize(s string) string {
	head, word := splitLastWord(s)
	if word == "" {
		return s
	}
	if plural, ok := irregularPlural[word]; ok {
		return head + plural
	}
	if strings.HasSuffix(word, "ss") || strings.HasSuffix(word, "sh") ||
		strings.HasSuffix(word, "ch") || strings.HasSuffix(word, "x") ||
		strings.HasSuffix(word, "z") {
		return head + word + "es"
	}
	if strings.HasSuffix(word, "y") && len(word) > 1 {
		preceding := word[len(word)-2]
		if preceding != 'a' && preceding != 'e' && preceding != 'i' && preceding != 'o' && preceding != 'u' {
			return head + word[:len(word)-1] + "ies"
		}
	}
	if strings.HasSuffix(word, "s") {
		return head + word
	}
	return head + word + "s"
}

// splitLastWord splits "entity_manager" into "entity_" and "manager". Keys
// are inflected on their last underscore or hyphen separated word.
func splitLastWord(s string) (head, word string) {
	i := strings.LastIndexAny(s, "_-")
	return s[:i+1], s[i+1:]
}
