// Package template renders the text/templates used to scaffold catalogs.
package template

import (
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

// FuncMap returns the function map available to deck templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"camelCase": camelCase,
		"kebabCase": kebabCase,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"quote":     strconv.Quote,
		"default":   defaultVal,
	}
}

// camelCase converts "run smoke-test" to "runSmokeTest", the casing stage keys use.
func camelCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))

	for _, w := range words[1:] {
		b.WriteString(capitalize(strings.ToLower(w)))
	}

	return b.String()
}

func kebabCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	return strings.Join(words, "-")
}

// defaultVal returns val if it's non-empty, otherwise def.
// Argument order supports piping: {{ .description | default "none" }}.
func defaultVal(def, val string) string {
	if val != "" {
		return val
	}

	return def
}

// splitWords splits on separators and lower-to-upper case transitions.
func splitWords(s string) []string {
	var words []string
	var current []rune

	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.' || r == '/':
			if len(current) > 0 {
				words = append(words, string(current))
				current = nil
			}
		case unicode.IsUpper(r) && len(current) > 0 && !unicode.IsUpper(current[len(current)-1]):
			words = append(words, string(current))
			current = []rune{r}
		default:
			current = append(current, r)
		}
	}

	if len(current) > 0 {
		words = append(words, string(current))
	}

	return words
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}
