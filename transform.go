package paramcheck

import (
	"context"
	"reflect"
)

// Normalizer is implemented by models that clean themselves up after
// decoding and before validation (trimming, lower-casing, defaults).
// Normalization runs on the top-level value first, then depth-first on nested
// structs, pointers, slice elements and map values.
type Normalizer interface {
	Normalize()
}

// ContextNormalizer is like Normalizer but receives the request context.
type ContextNormalizer interface {
	Normalize(context.Context)
}

func normalizeRecursive(ctx context.Context, a any) {
	if a == nil {
		return
	}
	normalizeOne(ctx, a)
	rv := reflect.ValueOf(a)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		normalizeFields(ctx, rv)
	}
}

func normalizeOne(ctx context.Context, v any) {
	switch n := v.(type) {
	case ContextNormalizer:
		n.Normalize(ctx)
	case Normalizer:
		n.Normalize()
	}
}

// normalizeValue handles one struct field or collection element.
func normalizeValue(ctx context.Context, v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		if v.CanAddr() && v.Addr().CanInterface() {
			normalizeOne(ctx, v.Addr().Interface())
		}
		normalizeFields(ctx, v)
	case reflect.Ptr:
		if v.IsNil() || !v.CanInterface() {
			return
		}
		normalizeOne(ctx, v.Interface())
		if v.Elem().Kind() == reflect.Struct {
			normalizeFields(ctx, v.Elem())
		}
	}
}

func normalizeFields(ctx context.Context, rv reflect.Value) {
	for i := range rv.NumField() {
		field := rv.Field(i)
		switch field.Kind() {
		case reflect.Struct, reflect.Ptr:
			normalizeValue(ctx, field)
		case reflect.Slice:
			for j := range field.Len() {
				normalizeValue(ctx, field.Index(j))
			}
		case reflect.Map:
			if !field.CanSet() {
				continue
			}
			// Map values are not addressable: copy, normalize, store back.
			iter := field.MapRange()
			for iter.Next() {
				val := iter.Value()
				if val.Kind() != reflect.Struct {
					continue
				}
				cp := reflect.New(val.Type())
				cp.Elem().Set(val)
				normalizeOne(ctx, cp.Interface())
				normalizeFields(ctx, cp.Elem())
				field.SetMapIndex(iter.Key(), cp.Elem())
			}
		}
	}
}
