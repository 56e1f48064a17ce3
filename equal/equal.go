// Package equal provides the structural comparators used to decide whether a
// state change is real.
//
// Numbers are compared by value across Go numeric kinds, so int(5) and
// float64(5) are identical. NaN is identical to NaN, and +0 is not identical
// to -0. A nil value is only identical to another nil.
package equal

import (
	"math"
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Is reports whether a and b are the same value.
//
// Reference kinds (maps, slices, funcs, channels, pointers) are compared by
// identity, not content. Comparable values use ==. Values that Go cannot
// compare with == (structs or arrays holding slices, for instance) fall back
// to reflect.DeepEqual since they have no identity of their own.
func Is(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if fa, ia, ok := number(a); ok {
		fb, ib, ok := number(b)
		if !ok {
			return false
		}
		return sameNumber(fa, ia, fb, ib)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len() && va.Cap() == vb.Cap()
	}

	if va.Type().Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Shallow reports whether a and b have identical key sets and every paired
// value satisfies Is. A nil map equals an empty one.
func Shallow[M ~map[string]V, V any](a, b M) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !Is(any(av), any(bv)) {
			return false
		}
	}
	return true
}

// Deep reports whether a and b are structurally equal.
//
// Slices and arrays compare element-wise in order. Maps compare by size and
// then by looking each key up in the other map, which also covers set-like
// map[K]struct{} and map[K]bool values. time.Time compares by instant.
// Pointers and interfaces compare by what they point to. Values of different
// kinds are never equal.
func Deep(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return deepValue(reflect.ValueOf(a), reflect.ValueOf(b), make(map[visit]bool))
}

type visit struct {
	a, b uintptr
	typ  reflect.Type
}

// cyclic records the pair (a, b) and reports whether it is already being
// compared further up the walk.
func cyclic(a, b reflect.Value, seen map[visit]bool) bool {
	v := visit{a.Pointer(), b.Pointer(), a.Type()}
	if seen[v] {
		return true
	}
	seen[v] = true
	return false
}

func deepValue(a, b reflect.Value, seen map[visit]bool) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}

	// Unwrap interfaces so that []any{1} and []any{1.0} compare by content.
	for a.Kind() == reflect.Interface {
		if a.IsNil() {
			break
		}
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface {
		if b.IsNil() {
			break
		}
		b = b.Elem()
	}
	if a.Kind() == reflect.Interface || b.Kind() == reflect.Interface {
		return a.Kind() == b.Kind() && a.IsNil() && b.IsNil()
	}

	if isNumberKind(a.Kind()) || isNumberKind(b.Kind()) {
		if !isNumberKind(a.Kind()) || !isNumberKind(b.Kind()) {
			return false
		}
		fa, ia, _ := numberValue(a)
		fb, ib, _ := numberValue(b)
		return sameNumber(fa, ia, fb, ib)
	}

	if a.Type() == timeType && b.Type() == timeType && a.CanInterface() && b.CanInterface() {
		return a.Interface().(time.Time).Equal(b.Interface().(time.Time))
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		v := visit{a.Pointer(), b.Pointer(), a.Type()}
		if seen[v] {
			return true
		}
		seen[v] = true
		return deepValue(a.Elem(), b.Elem(), seen)

	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		if a.Kind() == reflect.Slice && a.Len() > 0 && cyclic(a, b, seen) {
			return true
		}
		for i := 0; i < a.Len(); i++ {
			if !deepValue(a.Index(i), b.Index(i), seen) {
				return false
			}
		}
		return true

	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		if !a.Type().Key().AssignableTo(b.Type().Key()) {
			return false
		}
		if cyclic(a, b, seen) {
			return true
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() {
				return false
			}
			if !deepValue(iter.Value(), bv, seen) {
				return false
			}
		}
		return true

	case reflect.Struct:
		if a.Type() != b.Type() {
			return false
		}
		for i := 0; i < a.NumField(); i++ {
			if !deepValue(a.Field(i), b.Field(i), seen) {
				return false
			}
		}
		return true

	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()

	case reflect.String:
		return a.String() == b.String()

	case reflect.Bool:
		return a.Bool() == b.Bool()

	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	}

	return false
}

// IsNumber reports whether v holds a Go integer or float kind.
func IsNumber(v any) bool {
	_, _, ok := number(v)
	return ok
}

// Float returns v as a float64 when v holds a Go integer or float kind.
func Float(v any) (float64, bool) {
	f, _, ok := number(v)
	return f, ok
}

// integral holds an exact integer view of a number when one exists.
type integral struct {
	ok       bool
	negative bool
	mag      uint64
}

func number(v any) (float64, integral, bool) {
	switch n := v.(type) {
	case float64:
		return n, integral{}, true
	case float32:
		return float64(n), integral{}, true
	case int:
		return float64(n), signed(int64(n)), true
	case int64:
		return float64(n), signed(n), true
	case int32:
		return float64(n), signed(int64(n)), true
	case int16:
		return float64(n), signed(int64(n)), true
	case int8:
		return float64(n), signed(int64(n)), true
	case uint:
		return float64(n), integral{ok: true, mag: uint64(n)}, true
	case uint64:
		return float64(n), integral{ok: true, mag: n}, true
	case uint32:
		return float64(n), integral{ok: true, mag: uint64(n)}, true
	case uint16:
		return float64(n), integral{ok: true, mag: uint64(n)}, true
	case uint8:
		return float64(n), integral{ok: true, mag: uint64(n)}, true
	}
	if v == nil {
		return 0, integral{}, false
	}
	return numberValue(reflect.ValueOf(v))
}

// numberValue handles named numeric types such as time.Duration.
func numberValue(v reflect.Value) (float64, integral, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), integral{}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), signed(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), integral{ok: true, mag: v.Uint()}, true
	}
	return 0, integral{}, false
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func signed(n int64) integral {
	if n < 0 {
		return integral{ok: true, negative: true, mag: uint64(-(n + 1)) + 1}
	}
	return integral{ok: true, mag: uint64(n)}
}

func sameNumber(fa float64, ia integral, fb float64, ib integral) bool {
	if ia.ok && ib.ok {
		return ia == ib
	}
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return math.IsNaN(fa) && math.IsNaN(fb)
	}
	if fa == 0 && fb == 0 {
		return math.Signbit(fa) == math.Signbit(fb)
	}
	return fa == fb
}
