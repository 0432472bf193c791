package paramcheck_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v "github.com/Gobd/paramcheck"
)

type widget struct {
	Bar any
	Qux string `json:"qux"`
}

func (w *widget) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&w.Bar,
			v.Required,
			v.Custom(func(_ any) error { return errors.New("custom error") }, "custom description"),
		),
		v.Field(&w.Qux, v.By(func(value any) error {
			if value.(string) == "bad" {
				return errors.New("is bad")
			}
			return nil
		})),
	}
}

func TestCustom(t *testing.T) {
	err := v.Validate(&widget{Bar: struct{}{}})
	require.Error(t, err)
	assert.Equal(t, "Bar: custom error.", err.Error())

	err = v.Validate(&widget{Bar: struct{}{}, Qux: "bad"})
	require.Error(t, err)
	assert.Equal(t, "Bar: custom error; qux: is bad.", err.Error())

	err = v.Validate(&widget{})
	require.Error(t, err)
	assert.Equal(t, "Bar: cannot be blank.", err.Error())
}
