package paramcheck_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	v "github.com/Gobd/paramcheck"
)

func TestLength(t *testing.T) {
	r := v.Length(0, 10)

	require.NoError(t, r.Validate("Straße 21"))
	require.NoError(t, r.Validate("ÄÖÜäöüßéèê"))
	require.Error(t, r.Validate("ÄÖÜäöüßéèêx"))
	require.NoError(t, r.Validate(""))

	open := v.Length(3, 0)
	require.NoError(t, open.Validate(strings.Repeat("a", 500)))
	require.Error(t, open.Validate("ab"))

	require.Error(t, v.Length(1, 2).Validate([]int{1, 2, 3}))
}
