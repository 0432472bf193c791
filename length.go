package paramcheck

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type lengthRule struct {
	validation.LengthRule
	lo, hi int
}

// Length checks that a string has between lo and hi characters, or a slice
// between lo and hi elements. A zero hi leaves the upper end open.
func Length(lo, hi int) Rule {
	return &lengthRule{validation.RuneLength(lo, hi), lo, hi}
}

func (r *lengthRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	s := ref.Value
	if s.Type.Is(openapi3.TypeArray) {
		s.MinItems = uint64(r.lo)
		if r.hi > 0 {
			hi := uint64(r.hi)
			s.MaxItems = &hi
		}
		return nil
	}
	s.MinLength = uint64(r.lo)
	if r.hi > 0 {
		hi := uint64(r.hi)
		s.MaxLength = &hi
	}
	return nil
}
