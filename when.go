package paramcheck

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// WhenRule applies rules only when a condition holds, and optional Else
// rules otherwise. Both branches are summarised in the description.
type WhenRule struct {
	validation.WhenRule
	desc      string
	whenRules []Rule
	elseRules []Rule
}

// When applies rules when condition is true. desc names the condition in
// the documentation.
func When(condition bool, desc string, rules ...Rule) *WhenRule {
	return &WhenRule{
		WhenRule:  validation.When(condition, toOzzoRules(rules...)...),
		desc:      desc,
		whenRules: rules,
	}
}

// Else sets the rules applied when the condition is false.
func (r *WhenRule) Else(rules ...Rule) *WhenRule {
	r.elseRules = rules
	r.WhenRule = r.WhenRule.Else(toOzzoRules(rules...)...)
	return r
}

func (r *WhenRule) Describe(name string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	when, err := summarize(name, r.whenRules)
	if err != nil {
		return err
	}
	if when != "" {
		if r.desc != "" {
			when = "when " + r.desc + ": " + when
		}
		appendDescription(ref, when)
	}
	otherwise, err := summarize(name, r.elseRules)
	if err != nil {
		return err
	}
	if otherwise != "" {
		appendDescription(ref, "otherwise: "+otherwise)
	}
	return nil
}

// summarize describes rules into a scratch schema and renders what they set
// as text.
func summarize(name string, rules []Rule) (string, error) {
	if len(rules) == 0 {
		return "", nil
	}
	parent := openapi3.NewObjectSchema()
	ref := openapi3.NewSchemaRef("", openapi3.NewSchema())
	for _, rule := range rules {
		if err := rule.Describe(name, parent, ref); err != nil {
			return "", err
		}
	}
	s := ref.Value
	var parts []string
	if s.Description != "" {
		parts = append(parts, s.Description)
	}
	if len(parent.Required) > 0 {
		parts = append(parts, "required")
	}
	if s.Min != nil {
		parts = append(parts, fmt.Sprintf("min %g", *s.Min))
	}
	if s.Max != nil {
		parts = append(parts, fmt.Sprintf("max %g", *s.Max))
	}
	if s.MinLength > 0 || s.MaxLength != nil {
		l := fmt.Sprintf("length >= %d", s.MinLength)
		if s.MaxLength != nil {
			l += fmt.Sprintf(" and <= %d", *s.MaxLength)
		}
		parts = append(parts, l)
	}
	if len(s.Enum) > 0 {
		vals := make([]string, len(s.Enum))
		for i, v := range s.Enum {
			vals[i] = fmt.Sprint(v)
		}
		parts = append(parts, "one of ["+strings.Join(vals, ", ")+"]")
	}
	if s.UniqueItems {
		parts = append(parts, "unique")
	}
	return strings.Join(parts, ", "), nil
}
