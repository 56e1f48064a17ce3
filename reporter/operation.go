package reporter

import "github.com/grovetools/kit/equal"

// Item is anything Apply can fold into a batch: a raw State delta or an
// Operation evaluated against the batch's working state.
type Item interface {
	Delta(current State) State
}

// Operation computes a partial update from a read-only view of the current
// state. Operations carry no state of their own.
type Operation func(current State) State

// Delta evaluates the operation.
func (op Operation) Delta(current State) State {
	if op == nil {
		return nil
	}
	return op(current)
}

// Set returns an operation that always produces {key: value}.
func Set(key string, value any) Operation {
	return func(State) State {
		return State{key: value}
	}
}

// Add returns an operation adding amount to the number at key. A missing or
// non-numeric value counts as zero, so Add composes against partial state.
func Add(key string, amount float64) Operation {
	return func(current State) State {
		n, _ := current.Number(key)
		return State{key: n + amount}
	}
}

// Sub returns an operation subtracting amount from the number at key. A
// missing or non-numeric value counts as zero.
func Sub(key string, amount float64) Operation {
	return func(current State) State {
		n, _ := current.Number(key)
		return State{key: n - amount}
	}
}

// requireNumber enforces the stricter contract of Reporter.Add and
// Reporter.Sub: the key must exist and hold a number.
func requireNumber(s State, key string) error {
	v, ok := s[key]
	if !ok || !equal.IsNumber(v) {
		return typeContract(key, v, ok)
	}
	return nil
}
