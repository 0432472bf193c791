package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/Gobd/paramcheck"
)

// NewSchemaRefForValue generates an inline OpenAPI schema for the given
// value, applying validation rules from types that implement
// [paramcheck.Ruler], [paramcheck.ContextRuler], or [paramcheck.ValueRuler].
func NewSchemaRefForValue(value any) (*openapi3.SchemaRef, error) {
	return paramcheck.NewSchemaRefForValue(value)
}
