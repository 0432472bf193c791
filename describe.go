package paramcheck

import "github.com/getkin/kin-openapi/openapi3"

// docRule only touches the documentation.
type docRule func(ref *openapi3.SchemaRef)

func (r docRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	r(ref)
	return nil
}

func (docRule) Validate(any) error { return nil }

// Describe appends desc to the schema description.
func Describe(desc string) Rule {
	return docRule(func(ref *openapi3.SchemaRef) { appendDescription(ref, desc) })
}

// Default documents v as the default value.
func Default(v any) Rule {
	return docRule(func(ref *openapi3.SchemaRef) { ref.Value.Default = v })
}

// Example documents v as an example value.
func Example(v any) Rule {
	return docRule(func(ref *openapi3.SchemaRef) { ref.Value.Example = v })
}

// Deprecate marks the field or parameter deprecated.
func Deprecate() Rule {
	return docRule(func(ref *openapi3.SchemaRef) { ref.Value.Deprecated = true })
}

// IsDeprecated reports whether rules contain Deprecate.
func IsDeprecated(rules []Rule) bool {
	ref := openapi3.NewSchemaRef("", &openapi3.Schema{})
	for _, r := range rules {
		if d, ok := r.(docRule); ok {
			d(ref)
		}
	}
	return ref.Value.Deprecated
}
