package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		New("info", "json", &buf).Info("signed in", "username", "ada")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "signed in", entry["msg"])
		assert.Equal(t, "ada", entry["username"])
	})

	t.Run("text filters by level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New("warn", "text", &buf)
		logger.Info("hidden")
		logger.Warn("shown")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.True(t, strings.Contains(out, "msg=shown"))
	})
}
