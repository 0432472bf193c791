package paramcheck

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// appendDescription adds text to the schema description, space separated.
func appendDescription(ref *openapi3.SchemaRef, text string) {
	if text == "" {
		return
	}
	if d := ref.Value.Description; d != "" && !strings.HasSuffix(d, " ") && !strings.HasSuffix(d, "\n") {
		ref.Value.Description += " "
	}
	ref.Value.Description += text
}

type custom struct {
	f    RuleFunc
	desc string
}

// Custom validates with f and documents desc.
func Custom(f RuleFunc, desc string) Rule {
	return custom{f: f, desc: desc}
}

// By validates with f and documents nothing.
func By(f RuleFunc) Rule {
	return custom{f: f}
}

func (r custom) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, r.desc)
	return nil
}

func (r custom) Validate(value any) error {
	return r.f(value)
}
