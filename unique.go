package paramcheck

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
)

type uniqueRule struct {
	key func(v any) any
}

// Unique rejects slices with repeated elements. key maps an element to the
// value compared; nil compares the elements' string forms.
func Unique(key func(v any) any) Rule {
	if key == nil {
		key = func(v any) any { return fmt.Sprint(v) }
	}
	return uniqueRule{key: key}
}

func (uniqueRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.UniqueItems = true
	return nil
}

func (r uniqueRule) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil
	}
	rv = reflect.Indirect(rv)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		seen := make(map[any]struct{}, rv.Len())
		for i := range rv.Len() {
			k := r.key(rv.Index(i).Interface())
			if _, dup := seen[k]; dup {
				return fmt.Errorf("%v is repeated", rv.Index(i).Interface())
			}
			seen[k] = struct{}{}
		}
		return nil
	case reflect.String:
		return nil
	}
	return errors.New("must be a list")
}
