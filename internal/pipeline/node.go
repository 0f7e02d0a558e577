package pipeline

import (
	"strconv"
)

// Node is the common view of a stage or trigger that validators operate on.
type Node interface {
	Type() string
	Name() string
	// Field returns the top-level field value, or nil when unset.
	Field(name string) any
	// Get resolves a nested field path such as "foo.bar" or "clusters[0].account".
	Get(path string) (any, bool)
}

// Stage is a single pipeline stage. Stages carry arbitrary provider-specific
// fields, so the raw document is kept and read through accessors.
type Stage map[string]any

// Trigger is a pipeline trigger document.
type Trigger map[string]any

var (
	_ Node = Stage(nil)
	_ Node = Trigger(nil)
)

// Type returns the stage type key.
func (s Stage) Type() string { return stringField(s, "type") }

// Name returns the stage display name.
func (s Stage) Name() string { return stringField(s, "name") }

// Alias returns the legacy type the stage was created with, if any.
func (s Stage) Alias() string { return stringField(s, "alias") }

// RefID returns the stage refId. Numeric refIds are rendered in base 10.
func (s Stage) RefID() string { return toString(s["refId"]) }

// CloudProvider returns the stage's cloud provider. Some stages only record it
// in their context, so that is consulted as a fallback.
func (s Stage) CloudProvider() string {
	if cp := stringField(s, "cloudProvider"); cp != "" {
		return cp
	}

	if ctx, ok := s["context"].(map[string]any); ok {
		return toString(ctx["cloudProvider"])
	}

	return ""
}

// RequisiteStageRefIDs returns the refIds this stage depends on.
func (s Stage) RequisiteStageRefIDs() []string {
	return stringSlice(s["requisiteStageRefIds"])
}

// Field returns the raw top-level value stored under name.
func (s Stage) Field(name string) any { return s[name] }

// Get resolves a nested field path against the stage document.
func (s Stage) Get(path string) (any, bool) { return lookup(map[string]any(s), path) }

// Type returns the trigger type key.
func (t Trigger) Type() string { return stringField(t, "type") }

// Name returns the trigger description, if any.
func (t Trigger) Name() string { return stringField(t, "name") }

// Enabled reports whether the trigger is switched on.
func (t Trigger) Enabled() bool {
	enabled, _ := t["enabled"].(bool)

	return enabled
}

// RunAsUser returns the service account the trigger runs as.
func (t Trigger) RunAsUser() string { return stringField(t, "runAsUser") }

// Field returns the raw top-level value stored under name.
func (t Trigger) Field(name string) any { return t[name] }

// Get resolves a nested field path against the trigger document.
func (t Trigger) Get(path string) (any, bool) { return lookup(map[string]any(t), path) }

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)

	return s
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}

		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

func stringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}

		return out
	case []int:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, strconv.Itoa(item))
		}

		return out
	default:
		return nil
	}
}
