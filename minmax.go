package paramcheck

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type thresholdRule struct {
	validation.ThresholdRule
	threshold any
	min       bool
}

// Min checks that a value is at least threshold. Strings, including raw
// request values and json.Number, are parsed as the threshold's type first.
func Min(threshold any) Rule {
	return thresholdRule{validation.Min(threshold), threshold, true}
}

// Max checks that a value is at most threshold.
func Max(threshold any) Rule {
	return thresholdRule{validation.Max(threshold), threshold, false}
}

func (r thresholdRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	f, err := toFloat(r.threshold)
	if err != nil {
		return err
	}
	if r.min {
		ref.Value.Min = &f
	} else {
		ref.Value.Max = &f
	}
	return nil
}

var floatType = reflect.TypeOf(float64(0))

func toFloat(v any) (float64, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if !rv.IsValid() || !rv.Type().ConvertibleTo(floatType) {
		return 0, fmt.Errorf("cannot use %T as a numeric threshold", v)
	}
	return rv.Convert(floatType).Float(), nil
}

func (r thresholdRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil || validation.IsEmpty(value) {
		return nil
	}
	if reflect.ValueOf(value).Kind() != reflect.String {
		return r.ThresholdRule.Validate(value)
	}

	// Raw request values: parse by the threshold's kind and compare here, so
	// that "0" is checked rather than skipped as empty.
	s := strings.TrimSpace(reflect.ValueOf(value).String())
	var f float64
	var err error
	switch reflect.ValueOf(r.threshold).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		if n, err = strconv.ParseInt(s, 10, 64); err != nil {
			return errors.New("must be an integer")
		}
		f = float64(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var n uint64
		if n, err = strconv.ParseUint(s, 10, 64); err != nil {
			return errors.New("must be a non-negative integer")
		}
		f = float64(n)
	case reflect.Float32, reflect.Float64:
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return errors.New("must be a number")
		}
	default:
		return r.ThresholdRule.Validate(s)
	}

	th, err := toFloat(r.threshold)
	if err != nil {
		return err
	}
	switch {
	case r.min && f < th:
		return validation.ErrMinGreaterEqualThanRequired.SetParams(map[string]any{"threshold": r.threshold})
	case !r.min && f > th:
		return validation.ErrMaxLessEqualThanRequired.SetParams(map[string]any{"threshold": r.threshold})
	}
	return nil
}
