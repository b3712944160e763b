package reflectutil

import "reflect"

// PartialEqual compares only the non-zero fields of a against the same
// fields of b. Both arguments must be pointers to structs.
func PartialEqual[T any](a T, b T) bool {
	va := reflect.ValueOf(a).Elem()
	vb := reflect.ValueOf(b).Elem()

	for i := 0; i < va.NumField(); i++ {
		fieldA := va.Field(i)
		if fieldA.IsZero() {
			continue
		}

		if fieldA.Interface() != vb.Field(i).Interface() {
			return false
		}
	}

	return true
}
