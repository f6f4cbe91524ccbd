package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		logger := NewLogger(env)
		require.NotNil(t, logger, "env=%s", env)
		assert.NotPanics(t, func() { logger.Info("logger ready") })
	}
}
