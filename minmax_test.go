package paramcheck_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	v "github.com/Gobd/paramcheck"
)

func TestMinMax(t *testing.T) {
	minTests := []struct {
		min         any
		value       any
		expectError bool
	}{
		{min: 0.0, value: 1.0, expectError: false},
		{min: 0.0, value: 1, expectError: true}, // an int against a float threshold
		{min: 0.0, value: "1", expectError: false},
		{min: 0.0, value: "-1", expectError: true},
		{min: 0.0, value: "abc", expectError: true},
		{min: 0.0, value: nil, expectError: false},
		{min: 0.0, value: []int{1}, expectError: true},
		{min: 0.0, value: json.Number("1"), expectError: false},
		{min: 1, value: "2", expectError: false},
		{min: 1, value: "0", expectError: true},
		{min: 1, value: "1.5", expectError: true},
		{min: 1, value: int64(3), expectError: false},
	}
	for _, tt := range minTests {
		t.Run(fmt.Sprintf("min:%v,v:%v", tt.min, tt.value), func(t *testing.T) {
			err := v.Min(tt.min).Validate(tt.value)
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}

	maxTests := []struct {
		max         float64
		value       any
		expectError bool
	}{
		{max: 2, value: "2", expectError: false},
		{max: 2, value: "3", expectError: true},
		{max: 2, value: "1", expectError: false},
		{max: 5.5, value: "5.6", expectError: true},
		{max: 5.5, value: "5.4", expectError: false},
		{max: 5.5, value: "5.5", expectError: false},
		{max: 5.5, value: " 5.5 ", expectError: false},
	}
	for _, tt := range maxTests {
		t.Run(fmt.Sprintf("max:%v,v:%v", tt.max, tt.value), func(t *testing.T) {
			err := v.Max(tt.max).Validate(tt.value)
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
