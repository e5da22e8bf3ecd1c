package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeWithWriter(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, InitializeWithWriter(&buf, tt.jsonOutput, VerbosityInfo))
			defer func() { Logger = zap.NewNop().Sugar() }()

			assert.Equal(t, tt.jsonOutput, JSONOutput)
			Infow("assembled headers", FieldCount, 3)
			Cleanup()

			out := buf.String()
			assert.Contains(t, out, "assembled headers")
			if tt.jsonOutput {
				var entry map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &entry))
				assert.EqualValues(t, 3, entry[FieldCount])
			}
		})
	}
}

func TestInitializeRespectsVerbosity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, true, VerbosityUser))
	defer func() { Logger = zap.NewNop().Sugar() }()

	Infow("hidden")
	Debugw("hidden too")
	Warnw("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(VerbosityUser))
	assert.Equal(t, "Debug (-vv)", LevelName(VerbosityDebug))
	assert.Equal(t, "Trace (-vvv+)", LevelName(7))
	assert.Equal(t, "Unknown", LevelName(-2))
	assert.True(t, ShouldLogTrace(VerbosityTrace))
	assert.False(t, ShouldLogTrace(VerbosityDebug))
}

func TestComponentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core).Sugar()
	defer func() { Logger = zap.NewNop().Sugar() }()

	log := ChildLogger(ComponentLogger("bindgen.c"), FieldHeader, "backend/backend.h")
	log.Debugw("emitted", FieldItem, "Point")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bindgen.c", entries[0].LoggerName)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "backend/backend.h", ctx[FieldHeader])
	assert.Equal(t, "Point", ctx[FieldItem])
}

func TestLoggingFunctionsWithNilLogger(t *testing.T) {
	Logger = nil
	defer func() { Logger = zap.NewNop().Sugar() }()

	// Package-level helpers must tolerate a nil logger
	Info("test")
	Infof("test %s", "format")
	Infow("test", "key", "value")
	Errorw("test", "key", "value")
	Warnw("test", "key", "value")
	Debugw("test", "key", "value")
	Cleanup()
}
