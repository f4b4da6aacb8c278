package helpers

import "reflect"

// OverrideStructure copies non-zero fields of override into target.
// Nested structs and non-nil struct pointers are merged field by field.
// Both arguments must be pointers to the same struct type.
func OverrideStructure(target interface{}, override interface{}) {
	overrideValue(reflect.ValueOf(target).Elem(), reflect.ValueOf(override).Elem())
}

func overrideValue(t, o reflect.Value) {
	numField := o.NumField()
	for i := 0; i < numField; i++ {
		tf, of := t.Field(i), o.Field(i)
		if !tf.CanSet() {
			continue
		}
		switch {
		case of.Kind() == reflect.Struct:
			overrideValue(tf, of)
		case of.Kind() == reflect.Ptr && of.Type().Elem().Kind() == reflect.Struct:
			if of.IsNil() {
				continue
			}
			if tf.IsNil() {
				tf.Set(reflect.New(of.Type().Elem()))
			}
			overrideValue(tf.Elem(), of.Elem())
		default:
			if !of.IsZero() {
				tf.Set(of)
			}
		}
	}
}
