package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"
)

// getpath is compiled once; the path is bound per call through $path.
var getpath = mustCompileGetpath()

func mustCompileGetpath() *gojq.Code {
	query, err := gojq.Parse("getpath($path)")
	if err != nil {
		panic(fmt.Sprintf("pipeline: parsing getpath query: %v", err))
	}

	code, err := gojq.Compile(query, gojq.WithVariables([]string{"$path"}))
	if err != nil {
		panic(fmt.Sprintf("pipeline: compiling getpath query: %v", err))
	}

	return code
}

// lookup resolves path against doc. A path through a scalar, a missing key
// and an explicit null all report (nil, false).
func lookup(doc map[string]any, path string) (any, bool) {
	segments, err := ParsePath(path)
	if err != nil {
		return nil, false
	}

	iter := getpath.Run(normalize(doc), segments)

	v, ok := iter.Next()
	if !ok {
		return nil, false
	}

	if _, isErr := v.(error); isErr {
		return nil, false
	}

	return v, v != nil
}

// ParsePath splits a field path like "clusters[0].account" into jq path
// segments: strings for object keys and ints for array indexes.
func ParsePath(path string) ([]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("field path cannot be empty")
	}

	var segments []any

	for part := range strings.SplitSeq(path, ".") {
		name, rest, hasIndex := strings.Cut(part, "[")
		if name == "" && !hasIndex {
			return nil, fmt.Errorf("invalid field path %q: empty segment", path)
		}

		if name != "" {
			segments = append(segments, name)
		}

		if !hasIndex {
			continue
		}

		if !strings.HasSuffix(rest, "]") {
			return nil, fmt.Errorf("invalid field path %q: unterminated index", path)
		}

		for idx := range strings.SplitSeq(strings.TrimSuffix(rest, "]"), "][") {
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, fmt.Errorf("invalid field path %q: index %q is not a number", path, idx)
			}

			segments = append(segments, n)
		}
	}

	return segments, nil
}

// normalize converts v into the value shapes gojq accepts. Maps with
// non-string keys, as yaml.v3 produces for "{8080: http}", get their keys
// formatted with fmt.Sprint; typed slices and numbers are widened.
func normalize(v any) any {
	switch val := v.(type) {
	case nil, bool, string, int, float64, *big.Int:
		return val
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalize(e)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[fmt.Sprint(k)] = normalize(e)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}

		return out
	case Stage:
		return normalize(map[string]any(val))
	case Trigger:
		return normalize(map[string]any(val))
	}

	return normalizeReflect(reflect.ValueOf(v))
}

func normalizeReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return new(big.Int).SetUint64(u)
		}

		return int(u)
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}

		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}

		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}

		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = normalize(iter.Value().Interface())
		}

		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return normalize(rv.Elem().Interface())
	case reflect.Struct:
		return normalizeStruct(rv.Interface())
	default:
		return fmt.Sprint(rv.Interface())
	}
}

// normalizeStruct reads a struct through its JSON form. A struct that cannot
// be encoded becomes its fmt.Sprint text rather than hiding its siblings.
func normalizeStruct(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Sprint(v)
	}

	return out
}
