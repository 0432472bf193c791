package paramcheck

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// In checks that a value is one of values and documents them as the enum.
// Raw request values are strings, so for parameters the comparison falls back
// to the string form of values.
func In(values ...any) Rule {
	want := make([]string, len(values))
	for i := range values {
		want[i] = fmt.Sprint(values[i])
	}
	return &inRule{
		InRule: validation.In(values...).Error("must be one of " + strings.Join(want, ", ")),
		values: values,
		want:   want,
	}
}

type inRule struct {
	validation.InRule
	values []any
	want   []string
}

func (r *inRule) Validate(value any) error {
	err := r.InRule.Validate(value)
	if err == nil {
		return nil
	}
	if s, ok := value.(string); ok {
		for _, w := range r.want {
			if s == w {
				return nil
			}
		}
	}
	return fmt.Errorf("%w, got %v", err, value)
}

func (r *inRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Enum = r.values
	return nil
}
