package openapi

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/Gobd/paramcheck"
)

// schemaPrefix is where component schemas are referenced from.
const schemaPrefix = "#/components/schemas/"

// Chooser is implemented by field types with a fixed set of values. The
// values are documented as the enum, and as a table in the description.
type Chooser interface {
	Choices() []paramcheck.Choice
}

var (
	timeType       = reflect.TypeOf(time.Time{})
	fileHeaderType = reflect.TypeOf(multipart.FileHeader{})
	numberType     = reflect.TypeOf(json.Number(""))
	rawJSONType    = reflect.TypeOf(json.RawMessage(nil))
	chooserType    = reflect.TypeOf((*Chooser)(nil)).Elem()
)

// Models documents Go struct types as component schemas of one document.
//
// Struct fields map to schemas by type: integers to integer/int64, floats to
// number, bool to boolean, strings to string, time.Time to date-time,
// *multipart.FileHeader to string/binary, structs to a $ref of their own
// component, slices to arrays and maps to objects with additionalProperties.
// Field tags refine the mapping:
//
//	json:"name"       property name; "-" skips the field
//	docs:"skip"       skips the field
//	doc:"..."         description, defaulting to the humanised name
//	field:"kind"      decimal, email, url, text, date, datetime, password, file, image
//	choices:"a,b"     enum
//	readonly:"true"   read only
//
// Rules of Ruler types then describe the properties, as they do in
// paramcheck.NewSchemaRefForValue.
type Models struct {
	doc *openapi3.T
}

// NewModels returns the registry of doc's component schemas.
func NewModels(doc *openapi3.T) *Models {
	if doc.Components == nil {
		c := openapi3.NewComponents()
		doc.Components = &c
	}
	if doc.Components.Schemas == nil {
		doc.Components.Schemas = openapi3.Schemas{}
	}
	return &Models{doc: doc}
}

// ModelName is the component name of t: the type name without a
// "Serializer" suffix.
func ModelName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.Index(name, "["); i > 0 {
		name = name[:i]
	}
	if trimmed := strings.TrimSuffix(name, "Serializer"); trimmed != "" {
		name = trimmed
	}
	return name
}

// Register documents the struct type of model, and every struct type it
// refers to, as components and returns a reference to it. Registering a
// type twice returns the existing component.
func (m *Models) Register(model any) (*openapi3.SchemaRef, error) {
	t := reflect.TypeOf(model)
	if t == nil {
		return nil, fmt.Errorf("cannot register nil model")
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return nil, fmt.Errorf("cannot register %s: not a named struct", t)
	}
	return m.typeSchema(t)
}

// SchemaFor returns the schema of model: a reference for structs, an array
// of references for slices of structs, an inline schema otherwise.
func (m *Models) SchemaFor(model any) (*openapi3.SchemaRef, error) {
	t := reflect.TypeOf(model)
	if t == nil {
		return openapi3.NewSchemaRef("", &openapi3.Schema{}), nil
	}
	return m.typeSchema(t)
}

func (m *Models) register(t reflect.Type) (*openapi3.SchemaRef, error) {
	name := ModelName(t)
	ref := schemaPrefix + name
	if existing, ok := m.doc.Components.Schemas[name]; ok {
		return openapi3.NewSchemaRef(ref, existing.Value), nil
	}

	// placeholder first so self references stop here
	schema := openapi3.NewObjectSchema()
	m.doc.Components.Schemas[name] = openapi3.NewSchemaRef("", schema)
	if err := m.fillStruct(t, schema); err != nil {
		delete(m.doc.Components.Schemas, name)
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	if err := paramcheck.DescribeType(t, schema); err != nil {
		delete(m.doc.Components.Schemas, name)
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	return openapi3.NewSchemaRef(ref, schema), nil
}

func (m *Models) fillStruct(t reflect.Type, schema *openapi3.Schema) error {
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Anonymous {
			inner := sf.Type
			if inner.Kind() == reflect.Ptr {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct && tagName(sf.Tag.Get("json")) == "" {
				if err := m.fillStruct(inner, schema); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() || tagName(sf.Tag.Get("json")) == "-" || tagName(sf.Tag.Get("docs")) == "skip" {
			continue
		}
		prop, err := m.fieldSchema(sf)
		if err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
		schema.Properties[fieldName(sf)] = prop
	}
	return nil
}

func (m *Models) fieldSchema(sf reflect.StructField) (*openapi3.SchemaRef, error) {
	ref, err := m.kindSchema(sf.Type, sf.Tag.Get("field"))
	if err != nil {
		return nil, err
	}
	if ref.Ref != "" {
		// a copy keeps field level descriptions off the shared component
		cp := *ref.Value
		ref = openapi3.NewSchemaRef(ref.Ref, &cp)
	}
	s := ref.Value

	desc := sf.Tag.Get("doc")
	if desc == "" {
		desc = humanize(fieldName(sf))
	}
	if s.Description == "" {
		s.Description = desc
	} else {
		s.Description = desc + "\n\n" + s.Description
	}
	if choices := sf.Tag.Get("choices"); choices != "" {
		s.Enum = nil
		for _, c := range strings.Split(choices, ",") {
			s.Enum = append(s.Enum, strings.TrimSpace(c))
		}
	}
	if sf.Tag.Get("readonly") == "true" {
		s.ReadOnly = true
	}
	return ref, nil
}

// kindSchema maps a field type, refined by a field:"kind" tag.
func (m *Models) kindSchema(t reflect.Type, kind string) (*openapi3.SchemaRef, error) {
	switch kind {
	case "decimal":
		return inline(openapi3.NewFloat64Schema()), nil
	case "email":
		return inline(openapi3.NewStringSchema().WithFormat("email")), nil
	case "url":
		return inline(openapi3.NewStringSchema().WithFormat("uri")), nil
	case "password":
		return inline(openapi3.NewStringSchema().WithFormat("password")), nil
	case "date":
		return inline(openapi3.NewStringSchema().WithFormat("date")), nil
	case "datetime":
		return inline(openapi3.NewDateTimeSchema()), nil
	case "file", "image":
		return inline(openapi3.NewStringSchema().WithFormat("binary")), nil
	case "text", "":
	default:
		return nil, fmt.Errorf("unknown field kind %q", kind)
	}
	ref, err := m.typeSchema(t)
	if err != nil {
		return nil, err
	}
	if kind == "text" && ref.Ref == "" && ref.Value.Type.Is(openapi3.TypeString) {
		ref.Value.Format = ""
	}
	return ref, nil
}

func (m *Models) typeSchema(t reflect.Type) (*openapi3.SchemaRef, error) {
	nullable := false
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
		nullable = true
	}
	ref, err := m.valueSchema(t)
	if err != nil {
		return nil, err
	}
	if nullable && ref.Ref == "" {
		ref.Value.Nullable = true
	}
	if ref.Ref == "" && (t.Implements(chooserType) || reflect.PointerTo(t).Implements(chooserType)) {
		applyChoices(reflect.New(t).Interface().(Chooser), ref)
	}
	return ref, nil
}

func (m *Models) valueSchema(t reflect.Type) (*openapi3.SchemaRef, error) {
	switch t {
	case timeType:
		return inline(openapi3.NewDateTimeSchema()), nil
	case fileHeaderType:
		return inline(openapi3.NewStringSchema().WithFormat("binary")), nil
	case numberType:
		return inline(openapi3.NewFloat64Schema()), nil
	case rawJSONType:
		return inline(&openapi3.Schema{}), nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return inline(openapi3.NewBoolSchema()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return inline(openapi3.NewInt64Schema()), nil
	case reflect.Float32:
		return inline(openapi3.NewFloat64Schema().WithFormat("float")), nil
	case reflect.Float64:
		return inline(openapi3.NewFloat64Schema()), nil
	case reflect.String:
		return inline(openapi3.NewStringSchema()), nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return inline(openapi3.NewBytesSchema()), nil
		}
		items, err := m.typeSchema(t.Elem())
		if err != nil {
			return nil, err
		}
		s := openapi3.NewArraySchema()
		s.Items = items
		return inline(s), nil
	case reflect.Map:
		values, err := m.typeSchema(t.Elem())
		if err != nil {
			return nil, err
		}
		s := openapi3.NewObjectSchema()
		s.AdditionalProperties = openapi3.AdditionalProperties{Schema: values}
		return inline(s), nil
	case reflect.Struct:
		if t.Name() == "" {
			s := openapi3.NewObjectSchema()
			if err := m.fillStruct(t, s); err != nil {
				return nil, err
			}
			return inline(s), nil
		}
		return m.register(t)
	case reflect.Interface:
		return inline(&openapi3.Schema{}), nil
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

func applyChoices(c Chooser, ref *openapi3.SchemaRef) {
	choices := c.Choices()
	if len(choices) == 0 {
		return
	}
	rows := make([][2]string, len(choices))
	ref.Value.Enum = make([]any, len(choices))
	for i, ch := range choices {
		ref.Value.Enum[i] = ch.Value
		rows[i] = [2]string{fmt.Sprint(ch.Value), ch.Description}
	}
	ref.Value.Description = paramcheck.Table(ref.Value.Description, rows...)
}

func inline(s *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", s)
}

// fieldName is the JSON name of sf, falling back to the Go name.
func fieldName(sf reflect.StructField) string {
	if name := tagName(sf.Tag.Get("json")); name != "" && name != "-" {
		return name
	}
	return sf.Name
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// humanize turns "group_id" and "GroupID" into "group id".
func humanize(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			b.WriteByte(' ')
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
