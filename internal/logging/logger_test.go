package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/mlpipe/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo)

	logger.Info("stage finished", "stage", "clean", "error", errors.New("boom"), "empty", "")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "stage finished")
	assert.Contains(t, out, "stage=clean")
	assert.Contains(t, out, "err=boom")
	assert.NotContains(t, out, "empty=")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\x1b[", "no colour when not a terminal")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.Level(true))
	assert.Equal(t, slog.LevelInfo, logging.Level(false))
}
