package logger

import (
	"edu_quiz_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	cases := []struct {
		name string
		mode string
		lvl  string
		want zapcore.Level
	}{
		{name: "debug mode wins", mode: "debug", lvl: "error", want: zapcore.DebugLevel},
		{name: "release uses configured level", mode: "release", lvl: "warn", want: zapcore.WarnLevel},
		{name: "invalid level falls back to info", mode: "release", lvl: "loud", want: zapcore.InfoLevel},
		{name: "empty level is info", mode: "release", want: zapcore.InfoLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			SetLevel(&config.Config{
				Server: config.ServerConfig{Mode: tc.mode},
				Log:    config.LogConfig{Level: tc.lvl},
			})
			assert.Equal(t, tc.want, Level())
		})
	}
}

func TestLogDefaultsToNop(t *testing.T) {
	assert.NotNil(t, Log)
	Log.Info("no panic before InitLogger")
}
