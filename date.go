package paramcheck

import (
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateRule checks that a string parses with a layout. Min and Max bound the
// accepted range.
type DateRule struct {
	validation.DateRule
	layout   string
	min, max time.Time
}

// DateFormat returns a rule accepting strings formatted with layout.
func DateFormat(layout string) *DateRule {
	return &DateRule{DateRule: validation.Date(layout), layout: layout}
}

// Min rejects dates before t.
func (r *DateRule) Min(t time.Time) *DateRule {
	r.min = t
	r.DateRule = r.DateRule.Min(t)
	return r
}

// Max rejects dates after t.
func (r *DateRule) Max(t time.Time) *DateRule {
	r.max = t
	r.DateRule = r.DateRule.Max(t)
	return r
}

// Describe documents the value as a date, or a date-time when the layout
// carries a clock, with the range in the description.
func (r *DateRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Type = &openapi3.Types{openapi3.TypeString}
	if r.layout == time.DateOnly {
		ref.Value.Format = "date"
	} else if r.layout == time.RFC3339 || r.layout == time.RFC3339Nano {
		ref.Value.Format = "date-time"
	} else {
		appendDescription(ref, "("+r.layout+")")
	}
	if !r.min.IsZero() {
		appendDescription(ref, "not before "+r.min.Format(r.layout))
	}
	if !r.max.IsZero() {
		appendDescription(ref, "not after "+r.max.Format(r.layout))
	}
	return nil
}
