package paramcheck

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

type (
	// RuleFunc is a function type that validates a value and returns an error if invalid.
	RuleFunc func(value any) error

	// Rule is implemented by everything that can both check a value and
	// document the check. Describe receives the enclosing object schema
	// (for required lists) and the schema of the value itself.
	Rule interface {
		Validate(value any) error
		Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	}

	// FieldRules binds a struct field pointer to its validation rules.
	FieldRules struct {
		fieldPtr any
		rules    []Rule
	}

	// Ruler is implemented by models whose fields carry rules. The same rules
	// validate decoded request bodies and describe the model's schema.
	Ruler interface {
		Rules() []*FieldRules
	}

	// ContextRuler is like Ruler but receives the request context.
	ContextRuler interface {
		Rules(ctx context.Context) []*FieldRules
	}

	// ValueRuler is implemented by non-struct types that carry their own
	// rules wherever they appear as a field.
	//
	//	type Role string
	//
	//	func (Role) ValueRules() []Rule {
	//	    return []Rule{In(RoleAdmin, RoleMember)}
	//	}
	ValueRuler interface {
		ValueRules() []Rule
	}
)
