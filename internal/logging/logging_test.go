package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/pos-report/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "json", zerolog.InfoLevel)

	logger.Debug().Msg("hidden")
	logger.Info().Str("product_id", "P1").Msg("product to be stocked")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "P1", line["product_id"])
	assert.Equal(t, "product to be stocked", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "console", zerolog.DebugLevel)

	logger.Debug().Str("branch_id", "B1").Msg("busiest branch")

	assert.Contains(t, buf.String(), "busiest branch")
	assert.Contains(t, buf.String(), "branch_id=B1")
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.log")

	logger, closer, err := Setup(config.LoggingSettings{Level: "warn", Format: "json", Output: path}, false)
	require.NoError(t, err)

	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestSetupVerboseForcesDebug(t *testing.T) {
	logger, closer, err := Setup(config.LoggingSettings{Level: "error", Format: "json", Output: "stderr"}, true)
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, _, err := Setup(config.LoggingSettings{Level: "chatty", Format: "json", Output: "stderr"}, false)
	assert.Error(t, err)
}
