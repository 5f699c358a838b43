package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsYes(t *testing.T) {
	for _, answer := range []string{"yes", "y", "Y", " YES ", "Yes\n"} {
		require.True(t, IsYes(answer), answer)
	}
	for _, answer := range []string{"", "no", "n", "yep", "ja"} {
		require.False(t, IsYes(answer), answer)
	}
}
