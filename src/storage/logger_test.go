package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"":        INFO,
		"warn":    WARNING,
		"warning": WARNING,
		"error":   ERROR,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogger_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(path, INFO)
	require.NoError(t, err)
	logger.With("run_id", "abc")

	logger.Debug("hidden")
	logger.Info("rows loaded", "rows", 3)
	logger.Warning("unmapped stops value", "value", "three")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "hidden")
	assert.Contains(t, content, `"msg":"rows loaded"`)
	assert.Contains(t, content, `"rows":3`)
	assert.Contains(t, content, `"run_id":"abc"`)
	assert.Contains(t, content, `"level":"warn"`)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(content), "\n")+1)
}

func TestLogger_Subscribe(t *testing.T) {
	logger := NewNopLogger()
	ch := logger.Subscribe()

	logger.Warning("zero duration", "rows", 2)

	select {
	case msg := <-ch:
		assert.Contains(t, msg, "WARNING: zero duration")
		assert.Contains(t, msg, "rows=2")
	default:
		t.Fatal("subscriber did not receive the entry")
	}
}

func TestLogger_LevelFilterAppliesToSubscribers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path, ERROR)
	require.NoError(t, err)
	defer logger.Close()

	ch := logger.Subscribe()
	logger.Warning("dropped")
	logger.Error("kept")

	msg := <-ch
	assert.Contains(t, msg, "ERROR: kept")
	assert.Empty(t, ch)
}
