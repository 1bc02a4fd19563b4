package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "userfeed.log")

	result := NewLoggerWithPath(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: path})
	require.True(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Str("page", "1").Msg("fetched")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"fetched"`)
	assert.Contains(t, string(data), `"page":"1"`)
}

func TestNewLoggerWithPath_FallbackOnEmptyFile(t *testing.T) {
	result := NewLoggerWithPath(Config{Output: OutputFile})

	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
	assert.NoError(t, result.Close())
}

func TestTraceHook(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(TraceHook{})

	ctx := ContextWithTraceID(context.Background(), "01TESTTRACE")
	logger.Info().Ctx(ctx).Msg("hello")

	assert.Contains(t, buf.String(), `"trace_id":"01TESTTRACE"`)
}

func TestGetOrGenerateTraceID(t *testing.T) {
	generated := GetOrGenerateTraceID(context.Background())
	assert.Len(t, generated, 26)

	ctx := ContextWithTraceID(context.Background(), "fixed")
	assert.Equal(t, "fixed", GetOrGenerateTraceID(ctx))
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(zerolog.New(&buf), "feed")
	logger.Info().Msg("x")

	assert.True(t, strings.Contains(buf.String(), `"component":"feed"`))
}
