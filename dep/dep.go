/*
package dep provides utilities for dependency injection.

okay, just the one.
*/
package dep

import (
	"fmt"
	"reflect"
	"runtime"
)

// Required returns t, or panics naming the caller if t is nil.  Typed nil
// pointers, maps, funcs and interfaces count as missing too.
func Required[T any](t T) T {
	if !isNil(reflect.ValueOf(t)) {
		return t
	}

	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		panic(fmt.Sprintf("missing required dependency of type %T", t))
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		panic(fmt.Sprintf("missing required %T in %s (%s:%d)", t, fn.Name(), file, line))
	}
	panic(fmt.Sprintf("missing required %T (%s:%d)", t, file, line))
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Chan, reflect.Slice:
		return v.IsNil()
	}
	return false
}
