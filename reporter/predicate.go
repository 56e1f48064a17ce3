package reporter

import (
	"strings"

	"github.com/grovetools/kit/equal"
	"github.com/moby/patternmatcher"
)

// Predicate decides whether key survives a filter. state is a read-only view
// of the reporter's state at the time of the call.
type Predicate func(state State, key string) bool

// Mode selects how Extract combines predicates.
type Mode int

const (
	// ModeAll keeps a key only when every predicate passes.
	ModeAll Mode = iota
	// ModeAny keeps a key when at least one predicate passes.
	ModeAny
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeAny:
		return "any"
	default:
		return "unknown"
	}
}

// ParseMode converts "all" or "any" to a Mode. Anything else is ModeAll.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "any") {
		return ModeAny
	}
	return ModeAll
}

func passesAll(preds []Predicate, state State, key string) bool {
	for _, p := range preds {
		if p != nil && !p(state, key) {
			return false
		}
	}
	return true
}

func passesAny(preds []Predicate, state State, key string) bool {
	for _, p := range preds {
		if p != nil && p(state, key) {
			return true
		}
	}
	return false
}

// KeyIn passes keys in the given set.
func KeyIn(keys ...string) Predicate {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return func(_ State, key string) bool {
		_, ok := set[key]
		return ok
	}
}

// KeyNotIn passes keys outside the given set.
func KeyNotIn(keys ...string) Predicate {
	return Not(KeyIn(keys...))
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(state State, key string) bool {
		return !p(state, key)
	}
}

// IsNumeric passes keys whose value is a number.
func IsNumeric() Predicate {
	return func(state State, key string) bool {
		return equal.IsNumber(state[key])
	}
}

// KeyMatches passes keys matching any of the glob patterns. Dots in keys and
// patterns act as path separators, so "http.*" matches "http.requests" and
// "http" matches every key below it. Patterns starting with "!" exclude.
func KeyMatches(patterns ...string) (Predicate, error) {
	converted := make([]string, len(patterns))
	for i, p := range patterns {
		converted[i] = dotsToSlashes(p)
	}
	pm, err := patternmatcher.New(converted)
	if err != nil {
		return nil, invalidInput("invalid key pattern: %v", err)
	}
	return func(_ State, key string) bool {
		ok, err := pm.MatchesOrParentMatches(dotsToSlashes(key))
		return err == nil && ok
	}, nil
}

func dotsToSlashes(s string) string {
	return strings.ReplaceAll(s, ".", "/")
}
