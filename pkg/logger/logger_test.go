package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	assert.Equal(t, LogModeDebug, ParseMode("debug"))
	assert.Equal(t, LogModeProd, ParseMode("prod"))
	assert.Equal(t, LogModePretty, ParseMode(""))
	assert.Equal(t, LogModePretty, ParseMode("verbose"))
}

func TestWithComponentProd(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(LogModeProd, &buf)
	defer InitWithWriter(LogModeTest, &buf)

	log := WithComponent("conda")
	log.Info().Str("env", "thz").Msg("listing environments")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "conda", entry["component"])
	assert.Equal(t, "thz", entry["env"])
	assert.Equal(t, "listing environments", entry["message"])
}

func TestTestModeDiscards(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(LogModeTest, &buf)

	log := WithComponent("setup")
	log.Error().Msg("should not be written")

	assert.Empty(t, buf.String())
}

func TestConsoleColors(t *testing.T) {
	t.Cleanup(func() {
		SetNoColor(false)
		InitWithWriter(LogModeTest, &bytes.Buffer{})
	})

	t.Run("colored by default", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(LogModeInfo, &buf)
		SetNoColor(false)

		log := WithComponent("cli")
		log.Info().Str("env", "thz").Msg("inspecting")

		assert.Contains(t, buf.String(), "\x1b[")
	})

	t.Run("no color", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(LogModeInfo, &buf)
		SetNoColor(true)

		log := WithComponent("cli")
		log.Info().Str("env", "thz").Msg("inspecting")

		out := buf.String()
		assert.NotContains(t, out, "\x1b[")
		assert.Contains(t, out, "INF")
		assert.Contains(t, out, "component:cli")
		assert.Contains(t, out, "inspecting")
	})

	t.Run("survives re-init", func(t *testing.T) {
		SetNoColor(true)

		var buf bytes.Buffer
		InitWithWriter(LogModePretty, &buf)

		log := WithComponent("cli")
		log.Warn().Msg("terminal colors unavailable")

		assert.NotContains(t, buf.String(), "\x1b[")
		assert.Contains(t, buf.String(), "WRN")
	})
}
