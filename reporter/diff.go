package reporter

import "github.com/grovetools/kit/equal"

// ChangeOp classifies a Change.
type ChangeOp string

const (
	ChangeAdded   ChangeOp = "added"
	ChangeUpdated ChangeOp = "updated"
	ChangeRemoved ChangeOp = "removed"
)

// Change records a single key whose value differs between two states.
type Change struct {
	Key    string   `json:"key" yaml:"key"`
	Op     ChangeOp `json:"op" yaml:"op"`
	Before any      `json:"before" yaml:"before"`
	After  any      `json:"after" yaml:"after"`
}

// Diff returns one Change per key whose presence or value differs between
// before and after, ordered by key.
func Diff(before, after State) []Change {
	var changes []Change
	for _, k := range union(before, after) {
		bv, hadBefore := before[k]
		av, hasAfter := after[k]
		switch {
		case hadBefore && !hasAfter:
			changes = append(changes, Change{Key: k, Op: ChangeRemoved, Before: bv})
		case !hadBefore && hasAfter:
			changes = append(changes, Change{Key: k, Op: ChangeAdded, After: av})
		case !equal.Is(bv, av):
			changes = append(changes, Change{Key: k, Op: ChangeUpdated, Before: bv, After: av})
		}
	}
	return changes
}

// keysDiffer reports whether any of keys differs in presence or value.
func keysDiffer(before, after State, keys []string) bool {
	for _, k := range keys {
		bv, hadBefore := before[k]
		av, hasAfter := after[k]
		if hadBefore != hasAfter || !equal.Is(bv, av) {
			return true
		}
	}
	return false
}

func union(a, b State) []string {
	merged := make(State, len(a)+len(b))
	for k := range a {
		merged[k] = nil
	}
	for k := range b {
		merged[k] = nil
	}
	return merged.Keys()
}
