package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Warnw("warn", map[string]any{"section": "123"})
	l.Errorf("error")
}

func TestWarnwWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("grid", &buf)
	l.Warnw("block dropped", map[string]any{"section": "41234"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "grid", line["component"])
	assert.Equal(t, "41234", line["section"])
	assert.Equal(t, "warn", line["level"])
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	require.NoError(t, SetLevel("warn"))
	var buf bytes.Buffer
	l := NewWithWriter("test", &buf)
	l.Infof("hidden")
	assert.Zero(t, buf.Len())

	assert.NoError(t, SetLevel(""))
	assert.Error(t, SetLevel("loud"))
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	New("tui").Warnf("redirected")
	assert.Contains(t, buf.String(), "redirected")
}
