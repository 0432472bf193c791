package paramcheck

import (
	"context"
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// NewSchemaRefForValue generates an OpenAPI schema for value, letting the
// rules of Ruler, ContextRuler and ValueRuler types describe their fields.
func NewSchemaRefForValue(value any) (*openapi3.SchemaRef, error) {
	g := openapi3gen.NewGenerator(openapi3gen.SchemaCustomizer(describeType))
	return g.NewSchemaRefForValue(value, nil)
}

// DescribeType applies the rules t declares to an already generated schema
// of t. Struct rules describe the matching properties; ValueRuler rules
// describe the schema itself. Types without rules are left alone.
func DescribeType(t reflect.Type, schema *openapi3.Schema) error {
	return describeType("", t, "", schema)
}

func describeType(name string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	inst := reflect.New(t)
	fields, ok := rulesOf(context.Background(), inst.Interface())
	if !ok {
		if vr, ok := inst.Interface().(ValueRuler); ok {
			ref := &openapi3.SchemaRef{Value: schema}
			for _, rule := range vr.ValueRules() {
				if err := rule.Describe(name, schema, ref); err != nil {
					return err
				}
			}
		}
		return nil
	}

	structVal := inst.Elem()
	fields = ExpandFields(context.Background(), inst.Interface(), fields)
	dropSkipped(structVal.Type(), schema)

	for i, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr {
			return fmt.Errorf("rule target %d of %s must be a pointer, got %s", i, t, fv.Kind())
		}
		sf := FindStructField(structVal, fv)
		if sf == nil {
			return fmt.Errorf("rule target %d not found in struct %s", i, t)
		}
		if sf.Anonymous {
			continue
		}
		key := jsonKey(*sf)
		prop, ok := schema.Properties[key]
		if !ok || prop.Value == nil {
			continue
		}
		for _, rule := range fr.rules {
			if err := rule.Describe(key, schema, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

// dropSkipped removes properties of fields tagged docs:"skip", including
// those promoted from embedded structs.
func dropSkipped(t reflect.Type, schema *openapi3.Schema) {
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Anonymous {
			inner := sf.Type
			if inner.Kind() == reflect.Ptr {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				dropSkipped(inner, schema)
			}
			continue
		}
		if tagName(sf.Tag.Get("docs")) == "skip" {
			delete(schema.Properties, jsonKey(sf))
		}
	}
}
