package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogging_Level(t *testing.T) {
	t.Cleanup(func() { ConfigureLogging("info", os.Stdout) })

	var buf bytes.Buffer
	ConfigureLogging("warn", &buf)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	logger := WithComponent("generator")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "generator", entry["component"])
	assert.Equal(t, "sitemapgen", entry["service"])
}

func TestConfigureLogging_UnknownLevel(t *testing.T) {
	t.Cleanup(func() { ConfigureLogging("info", os.Stdout) })

	ConfigureLogging("chatty", &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestRunLogger_WritesFileAndBase(t *testing.T) {
	t.Cleanup(func() { ConfigureLogging("info", os.Stdout) })

	var buf bytes.Buffer
	ConfigureLogging("debug", &buf)

	dir := t.TempDir()
	rl, err := NewRunLogger(dir, "https://docs.publica.com", "run-1")
	require.NoError(t, err)

	rl.LogInfo("scanned %d pages", 3)
	rl.LogDebug("detail")
	require.NoError(t, rl.Close())

	assert.Contains(t, rl.Path(), "docs.publica.com")
	data, err := os.ReadFile(rl.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "scanned 3 pages")
	assert.Contains(t, string(data), `"run_id":"run-1"`)
	assert.Contains(t, buf.String(), "scanned 3 pages")
}

func TestSanitizeSite(t *testing.T) {
	assert.Equal(t, "docs.publica.com", sanitizeSite("https://docs.publica.com"))
	assert.Equal(t, "example.com_base", sanitizeSite("https://Example.com/base/"))
	assert.Equal(t, "localhost_3000", sanitizeSite("http://localhost:3000"))
	assert.Equal(t, "default", sanitizeSite(""))
}
