package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaribMalek/relay/pkg/config"
)

type serverConfig struct {
	Addr    string `env:"TEST_SERVER_ADDR" envDefault:":8080"`
	Verbose bool   `env:"TEST_SERVER_VERBOSE" envDefault:"false"`
}

type requiredConfig struct {
	Token string `env:"TEST_REQUIRED_TOKEN,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied when env is unset", func(t *testing.T) {
		config.Reset()

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.False(t, cfg.Verbose)
	})

	t.Run("values read from environment", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_SERVER_ADDR", ":9000")
		t.Setenv("TEST_SERVER_VERBOSE", "true")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9000", cfg.Addr)
		assert.True(t, cfg.Verbose)
	})

	t.Run("cached copy served on repeated loads", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_SERVER_ADDR", ":9001")

		var first serverConfig
		require.NoError(t, config.Load(&first))

		// Environment changes after the first load must not leak through.
		t.Setenv("TEST_SERVER_ADDR", ":9999")

		var second serverConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, ":9001", second.Addr)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		config.Reset()

		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer rejected", func(t *testing.T) {
		err := config.Load[serverConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}
