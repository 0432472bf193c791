package paramcheck

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Each applies rules to every element of a slice, array or map. The rules
// describe the item schema of an array.
func Each(rules ...Rule) Rule {
	return &eachRule{validation.Each(toOzzoRules(rules...)...), rules}
}

type eachRule struct {
	validation.EachRule
	rules []Rule
}

func (r *eachRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	target := ref
	if ref.Value.Items != nil && ref.Value.Items.Value != nil {
		target = ref.Value.Items
	}
	for _, rule := range r.rules {
		if _, ok := rule.(requiredRule); ok {
			continue
		}
		if err := rule.Describe(name, schema, target); err != nil {
			return err
		}
	}
	return nil
}
