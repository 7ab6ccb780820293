package utils

import (
	"reflect"
)

// IsNil reports whether value is nil or an interface holding a nil pointer, function, map, slice,
// channel or interface.
func IsNil(value any) bool {
	if value == nil {
		return true
	}

	reflectValue := reflect.ValueOf(value)
	switch reflectValue.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return reflectValue.IsNil()
	default:
		return false
	}
}
