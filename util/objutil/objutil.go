// Package objutil converts between structs and string-keyed maps and offers
// small helpers over such maps.
package objutil

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag consulted when converting records.
const TagName = "kit"

// ToMap converts a struct (or pointer to struct) into a map keyed by the
// `kit` tag, falling back to the field name. A map[string]any input is
// copied. Nested structs become nested maps.
func ToMap(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	if m, ok := v.(map[string]any); ok {
		return Merge(nil, m), nil
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct or map[string]any, got %T", v)
	}

	out := make(map[string]any)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: TagName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(rv.Interface()); err != nil {
		return nil, fmt.Errorf("failed to convert %T: %w", v, err)
	}
	return out, nil
}

// FromMap decodes m into target, which must be a pointer to a struct.
// Numeric and string values are converted weakly, so a float64 from a
// decoded document can fill an int field.
func FromMap(m map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(m); err != nil {
		return fmt.Errorf("failed to decode into %T: %w", target, err)
	}
	return nil
}

// Keys returns the keys of m in sorted order.
func Keys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Pick returns a new map holding only the listed keys that exist in m.
func Pick[V any](m map[string]V, keys ...string) map[string]V {
	out := make(map[string]V, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Omit returns a new map without the listed keys.
func Omit[V any](m map[string]V, keys ...string) map[string]V {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		if _, skip := drop[k]; !skip {
			out[k] = v
		}
	}
	return out
}

// Merge copies every source into dst, later sources winning, and returns
// dst. A nil dst is allocated.
func Merge[V any](dst map[string]V, srcs ...map[string]V) map[string]V {
	if dst == nil {
		dst = make(map[string]V)
	}
	for _, src := range srcs {
		for k, v := range src {
			dst[k] = v
		}
	}
	return dst
}
