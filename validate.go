package paramcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks value against its rules. Structs implementing Ruler or
// ContextRuler are validated field by field, ValueRuler values against their
// own rules, and slices or maps of Rulers element by element.
func Validate(value any) error {
	return ValidateCtx(context.Background(), value)
}

// ValidateCtx is like Validate but passes ctx to ContextRuler.Rules.
func ValidateCtx(ctx context.Context, value any) error {
	return validateValue(ctx, value)
}

// ValidateStruct validates a struct with explicit field rules.
func ValidateStruct(structPtr any, fields []*FieldRules) error {
	return validation.ValidateStruct(structPtr, toOzzoFields(context.Background(), structPtr, fields)...)
}

// DecodeAndValidate reads one JSON value from r into dst, normalizes it and
// validates it. Numbers decode as json.Number so threshold rules can compare
// them without float rounding.
func DecodeAndValidate(ctx context.Context, r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	normalizeRecursive(ctx, dst)
	return ValidateCtx(ctx, dst)
}

// UnmarshalAndValidate is DecodeAndValidate for an in-memory document.
func UnmarshalAndValidate(ctx context.Context, b []byte, dst any) error {
	return DecodeAndValidate(ctx, bytes.NewReader(b), dst)
}

func validateValue(ctx context.Context, value any) error {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil
	}

	if fields, ok := rulesOf(ctx, value); ok {
		return validation.ValidateStruct(value, toOzzoFields(ctx, value, fields)...)
	}
	// ozzo hands struct fields over by value; retry through a pointer so
	// pointer-receiver Rules are found.
	if rv.Kind() == reflect.Struct {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if fields, ok := rulesOf(ctx, ptr.Interface()); ok {
			return validation.ValidateStruct(ptr.Interface(), toOzzoFields(ctx, ptr.Interface(), fields)...)
		}
	}

	if vr, ok := value.(ValueRuler); ok {
		for _, rule := range vr.ValueRules() {
			if err := rule.Validate(value); err != nil {
				return err
			}
		}
		return nil
	}

	rv = reflect.Indirect(rv)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if !hasRules(rv.Type().Elem()) {
			return nil
		}
		errs := validation.Errors{}
		for i := range rv.Len() {
			if err := validateElem(ctx, rv.Index(i)); err != nil {
				errs[strconv.Itoa(i)] = err
			}
		}
		return errs.Filter()
	case reflect.Map:
		if !hasRules(rv.Type().Elem()) {
			return nil
		}
		errs := validation.Errors{}
		iter := rv.MapRange()
		for iter.Next() {
			if err := validateElem(ctx, iter.Value()); err != nil {
				errs[fmt.Sprint(iter.Key().Interface())] = err
			}
		}
		return errs.Filter()
	case reflect.Interface:
		if !rv.IsNil() {
			return validateValue(ctx, rv.Elem().Interface())
		}
	}
	return nil
}

func rulesOf(ctx context.Context, value any) ([]*FieldRules, bool) {
	switch r := value.(type) {
	case Ruler:
		return r.Rules(), true
	case ContextRuler:
		return r.Rules(ctx), true
	}
	return nil, false
}

// hasRules reports whether values of t, or of t's elements, carry struct rules.
func hasRules(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		p := reflect.New(t).Interface()
		_, a := p.(Ruler)
		_, b := p.(ContextRuler)
		return a || b
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Map:
		return hasRules(t.Elem())
	}
	return false
}

func validateElem(ctx context.Context, v reflect.Value) error {
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil
	}
	if v.Kind() == reflect.Struct && v.CanAddr() {
		return validateValue(ctx, v.Addr().Interface())
	}
	return validateValue(ctx, v.Interface())
}

// nested re-enters validateValue for every field so Ruler children, slices of
// Rulers and maps of Rulers are validated without explicit wiring.
type nested struct {
	ctx context.Context
}

func (n nested) Validate(value any) error {
	return validateValue(n.ctx, value)
}

func toOzzoFields(ctx context.Context, structPtr any, fields []*FieldRules) []*validation.FieldRules {
	flat := ExpandFields(ctx, structPtr, fields)
	out := make([]*validation.FieldRules, len(flat))
	for i, fr := range flat {
		rules := append(toOzzoRules(fr.rules...), nested{ctx: ctx})
		out[i] = validation.Field(fr.fieldPtr, rules...)
	}
	return out
}

func toOzzoRules(rules ...Rule) []validation.Rule {
	out := make([]validation.Rule, len(rules))
	for i, r := range rules {
		out[i] = r
	}
	return out
}
