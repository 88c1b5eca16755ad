package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestNew_StampsServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Output: &buf})

	log.Info().Msg("started")

	line := logLine(t, &buf)
	assert.Equal(t, "paydesk", line["service"])
	assert.Equal(t, "started", line["message"])
	assert.NotEmpty(t, line["time"])
}

func TestNew_CustomService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Service: "paydesk-console", Output: &buf})

	log.Info().Msg("started")

	assert.Equal(t, "paydesk-console", logLine(t, &buf)["service"])
}

func TestNew_LevelScopedToInstance(t *testing.T) {
	var quiet, chatty bytes.Buffer
	warnLog := New(Config{Level: "warn", Output: &quiet})
	debugLog := New(Config{Level: "debug", Output: &chatty})

	warnLog.Debug().Msg("suppressed")
	debugLog.Debug().Msg("emitted")

	assert.Zero(t, quiet.Len())
	assert.Equal(t, "emitted", logLine(t, &chatty)["message"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "shouting", Output: &buf})

	log.Debug().Msg("suppressed")
	assert.Zero(t, buf.Len())

	log.Info().Msg("emitted")
	assert.Equal(t, "emitted", logLine(t, &buf)["message"])
}

func TestComponent_TagsChildLogger(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(Config{Level: "info", Output: &buf}), "scheduler")

	log.Info().Msg("job registered")

	line := logLine(t, &buf)
	assert.Equal(t, "scheduler", line["component"])
	assert.Equal(t, "paydesk", line["service"])
}
