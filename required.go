package paramcheck

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type requiredRule struct {
	validation.RequiredRule
}

// Required rejects empty values and lists the field or parameter as
// required in the documentation. On a Param it has the same effect as
// setting Param.Required.
var Required Rule = requiredRule{validation.Required}

func (requiredRule) Describe(name string, schema *openapi3.Schema, _ *openapi3.SchemaRef) error {
	for _, n := range schema.Required {
		if n == name {
			return nil
		}
	}
	schema.Required = append(schema.Required, name)
	return nil
}

// Requires reports whether rules contain Required.
func Requires(rules []Rule) bool {
	for _, r := range rules {
		if _, ok := r.(requiredRule); ok {
			return true
		}
	}
	return false
}

type notNilRule struct {
	validation.Rule
}

// NotNil rejects nil pointers and documents the field as not nullable.
var NotNil Rule = notNilRule{validation.NotNil}

func (notNilRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Nullable = false
	return nil
}
