package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresBotToken(t *testing.T) {
	// t.Setenv registers the restore; the test itself needs the variable
	// gone entirely.
	t.Setenv("BOT_TOKEN", "placeholder")
	require.NoError(t, os.Unsetenv("BOT_TOKEN"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, "countdown.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}
