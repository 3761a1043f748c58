package speedrun

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// fields is the strict decoding path: every accessor reports a DecodeError
// when the named field is absent or of the wrong JSON type.
type fields struct {
	kind string
	path string
	m    map[string]any
}

func newFields(kind string, payload any) (fields, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return fields{}, &DecodeError{Kind: kind, Field: ".", Reason: fmt.Sprintf("expected object, got %s", jsonType(payload))}
	}
	return fields{kind: kind, m: m}, nil
}

func (f fields) name(key string) string {
	if f.path == "" {
		return key
	}
	return f.path + "." + key
}

func (f fields) fail(key, reason string) error {
	return &DecodeError{Kind: f.kind, Field: f.name(key), Reason: reason}
}

func (f fields) has(key string) bool {
	v, ok := f.m[key]
	return ok && v != nil
}

func (f fields) value(key string) (any, error) {
	v, ok := f.m[key]
	if !ok {
		return nil, f.fail(key, "missing")
	}
	if v == nil {
		return nil, f.fail(key, "null")
	}
	return v, nil
}

func (f fields) requireString(key string) (string, error) {
	v, err := f.value(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", f.fail(key, "expected string, got "+jsonType(v))
	}
	return s, nil
}

// nullableString accepts an absent or null field as "", but still rejects
// a value of the wrong type.
func (f fields) nullableString(key string) (string, error) {
	v, ok := f.m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", f.fail(key, "expected string, got "+jsonType(v))
	}
	return s, nil
}

func (f fields) requireBool(key string) (bool, error) {
	v, err := f.value(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, f.fail(key, "expected bool, got "+jsonType(v))
	}
	return b, nil
}

func (f fields) requireNumber(key string) (float64, error) {
	v, err := f.value(key)
	if err != nil {
		return 0, err
	}
	n, ok := v.(float64)
	if !ok {
		return 0, f.fail(key, "expected number, got "+jsonType(v))
	}
	return n, nil
}

func (f fields) nullableNumber(key string) (float64, error) {
	v, ok := f.m[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, ok := v.(float64)
	if !ok {
		return 0, f.fail(key, "expected number, got "+jsonType(v))
	}
	return n, nil
}

func (f fields) requireObject(key string) (fields, error) {
	v, err := f.value(key)
	if err != nil {
		return fields{}, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return fields{}, f.fail(key, "expected object, got "+jsonType(v))
	}
	return fields{kind: f.kind, path: f.name(key), m: m}, nil
}

func (f fields) requireArray(key string) ([]any, error) {
	v, err := f.value(key)
	if err != nil {
		return nil, err
	}
	a, ok := v.([]any)
	if !ok {
		return nil, f.fail(key, "expected array, got "+jsonType(v))
	}
	return a, nil
}

func (f fields) requireStrings(key string) ([]string, error) {
	items, err := f.requireArray(key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, f.fail(fmt.Sprintf("%s[%d]", key, i), "expected string, got "+jsonType(item))
		}
		out = append(out, s)
	}
	return out, nil
}

// nullableDate parses a YYYY-MM-DD field; null yields nil.
func (f fields) nullableDate(key string) (*time.Time, error) {
	s, err := f.nullableString(key)
	if err != nil || s == "" {
		return nil, err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, f.fail(key, fmt.Sprintf("invalid date %q", s))
	}
	return &t, nil
}

// lookup is the lenient path for optional nested data. Any missing level or
// unexpected type yields (nil, false); it never reports an error.
func lookup(v any, path ...string) (any, bool) {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return v, v != nil
}

func lookupString(v any, path ...string) string {
	found, ok := lookup(v, path...)
	if !ok {
		return ""
	}
	s, _ := found.(string)
	return s
}

func lookupBool(v any, path ...string) bool {
	found, ok := lookup(v, path...)
	if !ok {
		return false
	}
	b, _ := found.(bool)
	return b
}

func lookupArray(v any, path ...string) []any {
	found, ok := lookup(v, path...)
	if !ok {
		return nil
	}
	a, _ := found.([]any)
	return a
}

func lookupObject(v any, path ...string) map[string]any {
	found, ok := lookup(v, path...)
	if !ok {
		return nil
	}
	m, _ := found.(map[string]any)
	return m
}

// dataOf returns the "data" member of a response envelope
func dataOf(body map[string]any) (any, error) {
	data, ok := body["data"]
	if !ok {
		return nil, &DecodeError{Field: "data", Reason: "missing"}
	}
	return data, nil
}

// dataArray returns the "data" member of a listing response
func dataArray(body map[string]any) ([]any, error) {
	data, err := dataOf(body)
	if err != nil {
		return nil, err
	}
	items, ok := data.([]any)
	if !ok {
		return nil, &DecodeError{Field: "data", Reason: "expected array, got " + jsonType(data)}
	}
	return items, nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	}
}
