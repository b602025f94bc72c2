package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("production mode", func(t *testing.T) {
		t.Setenv("MARKETDASH_ENV", "")
		require.NotNil(t, New())
	})

	t.Run("dev mode", func(t *testing.T) {
		t.Setenv("MARKETDASH_ENV", "dev")
		require.NotNil(t, New())
	})
}
