package reporter

import (
	"sort"

	"github.com/grovetools/kit/equal"
)

// State is the key-value map held by a Reporter. Values are strings, numbers,
// booleans, nil, or opaque structured values. A key that is absent is
// distinct from a key holding nil.
type State map[string]any

// Clone returns a shallow copy of s. The copy of a nil State is an empty,
// non-nil State.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Keys returns the keys of s in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Number returns the value at key as a float64 when it holds a number.
func (s State) Number(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	return equal.Float(v)
}

// Equal reports whether s and other are shallow-equal.
func (s State) Equal(other State) bool {
	return equal.Shallow(s, other)
}

// Delta makes a raw State usable as a batch item. The State is merged as-is.
func (s State) Delta(State) State {
	return s
}
