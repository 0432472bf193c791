package paramcheck

import (
	"context"
	"reflect"
	"strings"
)

// MissingRules returns the keys of exported fields of a Ruler model that no
// rule mentions. Fields tagged json:"-", docs:"skip" or validate:"-" are
// ignored, as are the names given in exclude (Go or JSON name).
//
// Intended for tests:
//
//	assert.Empty(t, v.MissingRules(&CreateUser{}))
func MissingRules(structPtr any, exclude ...string) []string {
	ctx := context.Background()
	fields, ok := rulesOf(ctx, structPtr)
	if !ok {
		return nil
	}
	fields = ExpandFields(ctx, structPtr, fields)

	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	covered := map[string]bool{}
	for _, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr {
			continue
		}
		if sf := FindStructField(structVal, fv); sf != nil {
			covered[jsonKey(*sf)] = true
		}
	}

	skip := map[string]bool{}
	for _, e := range exclude {
		skip[e] = true
	}

	var missing []string
	uncovered(structVal.Type(), skip, covered, &missing)
	return missing
}

// jsonKey returns the JSON name of sf, falling back to the Go name.
func jsonKey(sf reflect.StructField) string {
	name := tagName(sf.Tag.Get("json"))
	if name != "" && name != "-" {
		return name
	}
	return sf.Name
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func uncovered(t reflect.Type, skip, covered map[string]bool, missing *[]string) {
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Anonymous {
			inner := sf.Type
			if inner.Kind() == reflect.Ptr {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				uncovered(inner, skip, covered, missing)
			}
			continue
		}
		if !sf.IsExported() || tagName(sf.Tag.Get("json")) == "-" ||
			tagName(sf.Tag.Get("docs")) == "skip" || sf.Tag.Get("validate") == "-" {
			continue
		}
		key := jsonKey(sf)
		if skip[key] || skip[sf.Name] || covered[key] {
			continue
		}
		*missing = append(*missing, key)
	}
}
