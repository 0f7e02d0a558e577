package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

func requiredField(node pipeline.Node, cfg *registry.ValidatorConfig) string {
	if present(node, cfg.FieldName) {
		return ""
	}

	if cfg.Message != "" {
		return cfg.Message
	}

	return fmt.Sprintf("%s is required.", printableLabel(cfg.FieldLabel, cfg.FieldName))
}

func anyFieldRequired(node pipeline.Node, cfg *registry.ValidatorConfig) string {
	labels := make([]string, 0, len(cfg.Fields))

	for _, f := range cfg.Fields {
		if present(node, f.FieldName) {
			return ""
		}

		labels = append(labels, printableLabel(f.FieldLabel, f.FieldName))
	}

	if cfg.Message != "" {
		return cfg.Message
	}

	return fmt.Sprintf("At least one of the following fields is required: %s.", strings.Join(labels, ", "))
}

// present reports whether the field at path holds a value. Empty strings,
// slices and maps count as missing; zero and false do not.
func present(node pipeline.Node, path string) bool {
	v, ok := node.Get(path)
	if !ok {
		return false
	}

	switch val := v.(type) {
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

func printableLabel(label, fieldName string) string {
	if label == "" {
		label = fieldName
	}

	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return label
	}

	return string(unicode.ToUpper(r)) + label[size:]
}

func stringList(v any) []string {
	items, _ := v.([]any)

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}

	return out
}
