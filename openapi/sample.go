package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// sampleKinds maps the field kinds a sample may name to schemas.
var sampleKinds = map[string]func() *openapi3.Schema{
	"string":   openapi3.NewStringSchema,
	"char":     openapi3.NewStringSchema,
	"text":     openapi3.NewStringSchema,
	"integer":  openapi3.NewInt64Schema,
	"int":      openapi3.NewInt64Schema,
	"auto":     openapi3.NewInt64Schema,
	"number":   openapi3.NewFloat64Schema,
	"float":    openapi3.NewFloat64Schema,
	"decimal":  openapi3.NewFloat64Schema,
	"boolean":  openapi3.NewBoolSchema,
	"bool":     openapi3.NewBoolSchema,
	"datetime": openapi3.NewDateTimeSchema,
	"date":     func() *openapi3.Schema { return openapi3.NewStringSchema().WithFormat("date") },
	"email":    func() *openapi3.Schema { return openapi3.NewStringSchema().WithFormat("email") },
	"url":      func() *openapi3.Schema { return openapi3.NewStringSchema().WithFormat("uri") },
	"uuid":     openapi3.NewUUIDSchema,
	"file":     func() *openapi3.Schema { return openapi3.NewStringSchema().WithFormat("binary") },
	"image":    func() *openapi3.Schema { return openapi3.NewStringSchema().WithFormat("binary") },
}

// SchemaFromSample builds a schema from a sample body. Maps become objects
// and slices arrays; a leaf string names the field kind ("string",
// "integer", "datetime", "email", ...) and is also its description. A leaf
// "kind: text" uses text as the description. Unknown kinds are strings.
// Arrays whose elements differ are documented with oneOf.
//
//	openapi.SchemaFromSample(map[string]any{
//	    "id":      "integer",
//	    "name":    "string: display name",
//	    "members": []any{map[string]any{"id": "integer"}},
//	})
func SchemaFromSample(sample any) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", sampleSchema(reflect.ValueOf(sample)))
}

func sampleSchema(v reflect.Value) *openapi3.Schema {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr) {
		if v.IsNil() {
			return &openapi3.Schema{}
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return &openapi3.Schema{}
	}
	switch v.Kind() {
	case reflect.Map:
		s := openapi3.NewObjectSchema()
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j]) })
		for _, k := range keys {
			s.Properties[fmt.Sprint(k.Interface())] = openapi3.NewSchemaRef("", sampleSchema(v.MapIndex(k)))
		}
		return s
	case reflect.Slice, reflect.Array:
		s := openapi3.NewArraySchema()
		var items []*openapi3.Schema
		for i := range v.Len() {
			items = appendDistinct(items, sampleSchema(v.Index(i)))
		}
		switch len(items) {
		case 0:
			s.Items = openapi3.NewSchemaRef("", &openapi3.Schema{})
		case 1:
			s.Items = openapi3.NewSchemaRef("", items[0])
		default:
			s.Items = openapi3.NewSchemaRef("", openapi3.NewOneOfSchema(items...))
		}
		return s
	case reflect.String:
		return leafSchema(v.String())
	case reflect.Bool:
		return openapi3.NewBoolSchema()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewInt64Schema()
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema()
	}
	return &openapi3.Schema{}
}

func leafSchema(leaf string) *openapi3.Schema {
	kind, desc, ok := strings.Cut(leaf, ":")
	kind = strings.TrimSpace(kind)
	if ok {
		desc = strings.TrimSpace(desc)
	} else {
		desc = kind
	}
	s := openapi3.NewStringSchema()
	if mk, known := sampleKinds[strings.ToLower(kind)]; known {
		s = mk()
	}
	s.Description = desc
	return s
}

// appendDistinct adds s unless an equal schema is already present.
func appendDistinct(list []*openapi3.Schema, s *openapi3.Schema) []*openapi3.Schema {
	for _, have := range list {
		if reflect.DeepEqual(have, s) {
			return list
		}
	}
	return append(list, s)
}
