package transform

import (
	"reflect"
	"strings"
)

// TrimSpace trims every string reachable from v, which must be a pointer.
func TrimSpace(v any) {
	Strings(v, strings.TrimSpace)
}

// ToLower lower-cases every string reachable from v.
func ToLower(v any) {
	Strings(v, strings.ToLower)
}

// CollapseSpace trims every string reachable from v and replaces inner runs
// of white space with a single space.
func CollapseSpace(v any) {
	Strings(v, func(s string) string { return strings.Join(strings.Fields(s), " ") })
}

// Strings applies f to every settable string reachable from v: struct
// fields, pointed-to values, slice elements and map values. Interface values
// are left alone.
func Strings(v any, f func(string) string) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	walk(rv.Elem(), f)
}

// Multi runs fns on v in order.
func Multi(v any, fns ...func(any)) {
	for _, fn := range fns {
		fn(v)
	}
}

func walk(v reflect.Value, f func(string) string) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(f(v.String()))
		}
	case reflect.Pointer:
		if !v.IsNil() {
			walk(v.Elem(), f)
		}
	case reflect.Struct:
		for i := range v.NumField() {
			if v.Type().Field(i).IsExported() {
				walk(v.Field(i), f)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			walk(v.Index(i), f)
		}
	case reflect.Map:
		if v.IsNil() {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			// map values are not addressable; rewrite a copy
			cp := reflect.New(iter.Value().Type()).Elem()
			cp.Set(iter.Value())
			walk(cp, f)
			v.SetMapIndex(iter.Key(), cp)
		}
	}
}
