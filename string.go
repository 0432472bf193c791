package paramcheck

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type stringRule struct {
	validation.StringRule
	desc    string
	format  string
	pattern string
}

// NewStringRule checks strings with validator. desc is both the error
// message and the documented constraint.
func NewStringRule(validator func(string) bool, desc string) Rule {
	return stringRule{StringRule: validation.NewStringRule(validator, desc), desc: desc}
}

// NewStringRuleWithError is NewStringRule with a separate error.
func NewStringRuleWithError(validator func(string) bool, err validation.Error, desc string) Rule {
	return stringRule{StringRule: validation.NewStringRuleWithError(validator, err), desc: desc}
}

// NewFormatRule checks strings with validator and documents them with an
// OpenAPI string format such as "email" or "uuid".
func NewFormatRule(validator func(string) bool, format, msg string) Rule {
	return stringRule{StringRule: validation.NewStringRule(validator, msg), format: format}
}

// DecimalMax limits a numeric string to places digits after the point.
func DecimalMax(places uint) Rule {
	desc := fmt.Sprintf("no more than %d decimals", places)
	return stringRule{
		StringRule: validation.NewStringRule(func(s string) bool {
			_, frac, ok := strings.Cut(s, ".")
			return !ok || len(frac) <= int(places)
		}, desc),
		desc: desc,
	}
}

// Match checks strings against re and documents it as the pattern.
func Match(re *regexp.Regexp) Rule {
	msg := "must match " + re.String()
	return stringRule{
		StringRule: validation.NewStringRule(re.MatchString, msg),
		pattern:    re.String(),
	}
}

func (r stringRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.format != "" {
		ref.Value.Format = r.format
	}
	if r.pattern != "" {
		ref.Value.Pattern = r.pattern
	}
	appendDescription(ref, r.desc)
	return nil
}
