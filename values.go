package paramcheck

import (
	"context"
	"strconv"
	"time"
)

// Values holds the checked parameter values of one request, keyed by
// Param.Key.
type Values map[string]any

type valuesKey struct{}

// NewContext returns a copy of ctx carrying v.
func NewContext(ctx context.Context, v Values) context.Context {
	return context.WithValue(ctx, valuesKey{}, v)
}

// FromContext returns the values stored by Set.Guard, or an empty Values.
func FromContext(ctx context.Context) Values {
	if v, ok := ctx.Value(valuesKey{}).(Values); ok {
		return v
	}
	return Values{}
}

// Get returns the value stored under key.
func (v Values) Get(key string) any {
	return v[key]
}

// Has reports whether key was present in the request.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// String returns the value as a string. Non-string values are formatted.
func (v Values) String(key string) string {
	val, ok := v[key]
	if !ok {
		return ""
	}
	return rawString(val)
}

// Int returns the value as an int64, converting strings and other numbers.
func (v Values) Int(key string) (int64, bool) {
	switch n := v[key].(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	case nil:
		return 0, false
	}
	i, err := strconv.ParseInt(v.String(key), 10, 64)
	return i, err == nil
}

// Float returns the value as a float64.
func (v Values) Float(key string) (float64, bool) {
	switch n := v[key].(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case nil:
		return 0, false
	}
	f, err := strconv.ParseFloat(v.String(key), 64)
	return f, err == nil
}

// Bool returns the value as a bool.
func (v Values) Bool(key string) (bool, bool) {
	if b, ok := v[key].(bool); ok {
		return b, true
	}
	b, err := strconv.ParseBool(v.String(key))
	return b, err == nil
}

// Time returns a time.Time value stored by a Date checker.
func (v Values) Time(key string) (time.Time, bool) {
	t, ok := v[key].(time.Time)
	return t, ok
}
