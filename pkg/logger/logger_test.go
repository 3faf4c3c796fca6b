package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	tests := []struct {
		name     string
		level    string
		encoding string
		wantErr  bool
	}{
		{name: "Json info", level: "info", encoding: "json"},
		{name: "Console debug", level: "debug", encoding: "console"},
		{name: "Default encoding", level: "warn"},
		{name: "Bad level", level: "loud", wantErr: true},
		{name: "Bad encoding", level: "info", encoding: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Initialize(tt.level, tt.encoding)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, Logger())
		})
	}
}

func TestLoggerDefaultsToNop(t *testing.T) {
	Set(nil)
	assert.NotNil(t, Logger())
	assert.NotPanics(t, func() { Logger().Info("nobody listens") })
}

func TestSet(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))

	Logger().Info("hello", zap.String("k", "v"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "v", entry.ContextMap()["k"])
}
