package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/trjstat/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSON(t *testing.T) {
	var b bytes.Buffer
	l := NewWithWriter(&b, "json", zerolog.InfoLevel)
	l.Debug().Msg("hidden")
	l.Info().Int("frames", 3).Msg("done")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(b.Bytes(), &entry))
	assert.Equal(t, "done", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, 3.0, entry["frames"])
	assert.NotContains(t, b.String(), "hidden")
}

func TestNewWithWriterConsole(t *testing.T) {
	var b bytes.Buffer
	l := NewWithWriter(&b, "console", zerolog.DebugLevel)
	l.Warn().Msg("careful")
	assert.Contains(t, b.String(), "careful")
	assert.False(t, json.Valid(b.Bytes()))
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trjstat.log")
	l, err := New(config.LoggingConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info().Msg("ignored")
	l.Error().Msg("written")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
	assert.NotContains(t, string(data), "ignored")
}
