package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_parseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"ERROR", slog.LevelError, false},
		{"", 0, true},
		{"uknown", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_New(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		wantErr bool
	}{
		{"production", EnvProduction, LevelInfo, false},
		{"development", EnvDevelopment, LevelDebug, false},
		{"default env is development", "", LevelInfo, false},
		{"unknown environment", "staging", LevelInfo, true},
		{"unknown level", EnvProduction, "verbose", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.env, tt.level)

			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, l)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestLogger_Format(t *testing.T) {
	t.Run("production writes json", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := newLogger(&buf, EnvProduction, LevelInfo)
		require.NoError(t, err)

		l.Info("user registered", "user_id", 42)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "production logs have to be JSON")
		require.Equal(t, "user registered", entry["msg"])
		require.Equal(t, "INFO", entry["level"])
		require.EqualValues(t, 42, entry["user_id"])

		source, ok := entry["source"].(map[string]any)
		require.True(t, ok, "source has to be logged")
		require.Equal(t, "logger_test.go", source["file"], "source has to point to the caller without directory")
	})

	t.Run("development writes text", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := newLogger(&buf, EnvDevelopment, LevelInfo)
		require.NoError(t, err)

		l.Info("user registered", "user_id", 42)

		require.Contains(t, buf.String(), `msg="user registered"`)
		require.Contains(t, buf.String(), "user_id=42")
		require.Contains(t, buf.String(), "level=INFO")
		require.Contains(t, buf.String(), "source=logger_test.go:")
	})

	t.Run("with and group", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := newLogger(&buf, EnvDevelopment, LevelInfo)
		require.NoError(t, err)

		l.With("component", "auth").WithGroup("request").Info("refresh", "status", 401)

		require.Contains(t, buf.String(), "component=auth")
		require.Contains(t, buf.String(), "request.status=401")
	})

	t.Run("noop writes nothing", func(t *testing.T) {
		l := NewNoOpLogger()

		require.NotPanics(t, func() {
			l.Debug("debug")
			l.Error("error")
			l.With("k", "v").WithGroup("g").Info("info")
		})
	})
}

func TestLogger_Levels(t *testing.T) {
	emit := map[string]func(Logger){
		LevelDebug: func(l Logger) { l.Debug("test") },
		LevelInfo:  func(l Logger) { l.Info("test") },
		LevelWarn:  func(l Logger) { l.Warn("test") },
		LevelError: func(l Logger) { l.Error("test") },
	}
	order := []string{LevelDebug, LevelInfo, LevelWarn, LevelError}

	for i, configured := range order {
		for j, message := range order {
			logged := j >= i

			t.Run(configured+" logger "+message+" message", func(t *testing.T) {
				var buf bytes.Buffer
				l, err := newLogger(&buf, EnvDevelopment, configured)
				require.NoError(t, err)

				emit[message](l)

				require.Equal(t, logged, buf.Len() > 0, "%s logger, %s message", configured, message)
			})
		}
	}
}
