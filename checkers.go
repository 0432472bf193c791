package paramcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

// rawString renders a raw request value as a string. Multi-valued query
// parameters yield their first value.
func rawString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case []string:
		if len(v) > 0 {
			return v[0]
		}
		return ""
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	}
	return fmt.Sprint(raw)
}

// Int accepts base-10 integers and stores them as int64.
func Int() Checker {
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(rawString(raw)), 10, 64)
		if err != nil {
			return nil, Fail("must be an integer")
		}
		return n, nil
	})
}

// PositiveInt accepts integers greater than zero.
func PositiveInt() Checker {
	return CheckFunc(func(ctx context.Context, raw any) (any, error) {
		v, err := Int().Check(ctx, raw)
		if err != nil {
			return nil, err
		}
		if v.(int64) <= 0 {
			return nil, Fail("must be a positive integer")
		}
		return v, nil
	})
}

// Float accepts decimal numbers and stores them as float64.
func Float() Checker {
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(rawString(raw)), 64)
		if err != nil {
			return nil, Fail("must be a number")
		}
		return f, nil
	})
}

// Bool accepts the usual spellings of true and false.
func Bool() Checker {
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		switch strings.ToLower(strings.TrimSpace(rawString(raw))) {
		case "1", "t", "true", "yes", "y", "on":
			return true, nil
		case "0", "f", "false", "no", "n", "off":
			return false, nil
		}
		return nil, Fail("must be a boolean")
	})
}

// Date parses the value with layout and stores a time.Time.
func Date(layout string) Checker {
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		t, err := time.Parse(layout, strings.TrimSpace(rawString(raw)))
		if err != nil {
			return nil, Fail("must be a date formatted as " + layout)
		}
		return t, nil
	})
}

var nameRegexp = regexp.MustCompile(`^[\p{L}\p{N} _.\-]+$`)

// Name accepts display names: trimmed, at most maxLen characters, letters,
// digits, spaces, dots, dashes and underscores only.
func Name(maxLen int) Checker {
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		s := strings.TrimSpace(rawString(raw))
		switch {
		case s == "":
			return nil, Fail("must not be blank")
		case utf8.RuneCountInString(s) > maxLen:
			return nil, Fail(fmt.Sprintf("must be at most %d characters", maxLen))
		case !nameRegexp.MatchString(s):
			return nil, Fail("must not contain special characters")
		}
		return s, nil
	})
}

// Email accepts e-mail addresses and stores them trimmed.
func Email() Checker {
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		s := strings.TrimSpace(rawString(raw))
		if !govalidator.IsEmail(s) {
			return nil, Fail("must be a valid email address")
		}
		return s, nil
	})
}

// Password accepts strings of at least minLen characters.
func Password(minLen int) Checker {
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		s := rawString(raw)
		if utf8.RuneCountInString(s) < minLen {
			return nil, Fail(fmt.Sprintf("must be at least %d characters", minLen))
		}
		return s, nil
	})
}

// OneOf accepts values whose string form matches one of values and stores
// the matching value itself, so OneOf(1, 2) turns "2" into the int 2.
func OneOf(values ...any) Checker {
	want := make([]string, len(values))
	for i, v := range values {
		want[i] = fmt.Sprint(v)
	}
	msg := "must be one of " + strings.Join(want, ", ")
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		s := strings.TrimSpace(rawString(raw))
		for i, w := range want {
			if s == w {
				return values[i], nil
			}
		}
		return nil, Fail(msg)
	})
}

// Lookup resolves the value to an object through find, typically a database
// lookup by primary key, and stores the object. A nil object or an error
// rejects the value with msg.
func Lookup(find func(ctx context.Context, key string) (any, error), msg string) Checker {
	return CheckFunc(func(ctx context.Context, raw any) (any, error) {
		obj, err := find(ctx, strings.TrimSpace(rawString(raw)))
		if err != nil || obj == nil {
			return nil, Fail(msg)
		}
		return obj, nil
	})
}

// Trim stores the value with surrounding white space removed.
func Trim() Checker {
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		return strings.TrimSpace(rawString(raw)), nil
	})
}

// Split turns a comma separated value, or repeated query values, into a
// []string.
func Split() Checker {
	return CheckFunc(func(_ context.Context, raw any) (any, error) {
		var parts []string
		switch v := raw.(type) {
		case []string:
			for _, s := range v {
				parts = append(parts, strings.Split(s, ",")...)
			}
		case []any:
			for _, s := range v {
				parts = append(parts, rawString(s))
			}
		default:
			parts = strings.Split(rawString(raw), ",")
		}
		out := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	})
}
