package paramcheck

import (
	"context"
	"reflect"
)

// Field creates a FieldRules binding a struct field pointer to its validation rules.
func Field[T any](fieldPtr *T, rules ...Rule) *FieldRules {
	return &FieldRules{
		fieldPtr: fieldPtr,
		rules:    rules,
	}
}

// FindStructField returns the field of structVal whose address is fieldPtr,
// searching embedded structs as well. It returns nil when nothing matches.
func FindStructField(structVal reflect.Value, fieldPtr reflect.Value) *reflect.StructField {
	ptr := fieldPtr.Pointer()
	for i := range structVal.NumField() {
		sf := structVal.Type().Field(i)
		fv := structVal.Field(i)
		if fv.CanAddr() && fv.UnsafeAddr() == ptr && sf.Type == fieldPtr.Elem().Type() {
			return &sf
		}
		if sf.Anonymous && fv.Kind() == reflect.Struct {
			if inner := FindStructField(fv, fieldPtr); inner != nil {
				return inner
			}
		}
	}
	return nil
}

// ExpandFields flattens the rules of embedded Ruler fields into the parent's
// rule set, so error keys and schema properties stay flat.
func ExpandFields(ctx context.Context, structPtr any, fields []*FieldRules) []*FieldRules {
	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	if !structVal.IsValid() || structVal.Kind() != reflect.Struct {
		return fields
	}

	out := make([]*FieldRules, 0, len(fields))
	for _, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() == reflect.Ptr {
			if sf := FindStructField(structVal, fv); sf != nil && sf.Anonymous {
				switch r := fv.Interface().(type) {
				case Ruler:
					out = append(out, ExpandFields(ctx, r, r.Rules())...)
					continue
				case ContextRuler:
					out = append(out, ExpandFields(ctx, r, r.Rules(ctx))...)
					continue
				}
			}
		}
		out = append(out, fr)
	}
	return out
}
