package logger_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/keepr/mediakit/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, minLevel logger.LogStatus) *bytes.Buffer {
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	logger.SetMinLoggingLevel(minLevel.Level())
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetMinLoggingLevel(logger.INFO.Level())
	})

	return buf
}

func TestEmit_RespectsMinimumLevel(t *testing.T) {
	buf := captureOutput(t, logger.WARNING)
	log := logger.Get("Test")

	log.Emit(logger.INFO, "hidden %d\n", 1)
	log.Emit(logger.WARNING, "shown %d\n", 2)
	log.Emit(logger.ERROR, "also shown\n")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[Test] (!) shown 2")
	assert.Contains(t, buf.String(), "(!!) also shown")
}

func TestEmit_AlignsLoggerNames(t *testing.T) {
	buf := captureOutput(t, logger.VERBOSE)

	logger.Get("LongerLoggerName").Emit(logger.INFO, "first\n")
	logger.Get("Short").Emit(logger.INFO, "second\n")

	assert.Contains(t, buf.String(), "[Short] "+strings.Repeat(" ", len("LongerLoggerName")-len("Short"))+"(I) second")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected logger.LogStatus
	}{
		{"verbose", logger.VERBOSE},
		{"DEBUG", logger.DEBUG},
		{" warn ", logger.WARNING},
		{"warning", logger.WARNING},
		{"error", logger.ERROR},
		{"info", logger.INFO},
		{"nonsense", logger.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, logger.ParseLevel(tt.name))
		})
	}
}
