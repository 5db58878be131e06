package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eminiarts/tweakpine/tui/theme"
)

func resetLoggers() {
	loggersMu.Lock()
	loggers = make(map[string]*logrus.Entry)
	loggersMu.Unlock()
}

func TestNewLogger(t *testing.T) {
	t.Cleanup(resetLoggers)

	logger := NewLogger("test-component")
	require.NotNil(t, logger)
	assert.Equal(t, "test-component", logger.Data["component"])
	assert.Same(t, logger, NewLogger("test-component"), "loggers are cached per component")
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "preset saved",
				Data: logrus.Fields{
					"component": "store",
					"panel":     "demo",
					"preset":    "fast",
				},
			},
			want: []string{"[INFO]", "[store]", "preset saved", "panel=demo preset=fast"},
		},
		{
			name:   "leading fields",
			config: FormatConfig{DisableTimestamp: true},
			entry: &logrus.Entry{
				Level:   logrus.DebugLevel,
				Message: "value updated",
				Data: logrus.Fields{
					"component": "store",
					"attempt":   2,
					"path":      "speed",
					"panel":     "demo",
				},
			},
			want: []string{"[DEBUG]", "value updated panel=demo path=speed attempt=2"},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
			},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "warning message",
				Data:    logrus.Fields{"component": "store"},
			},
			want:    []string{"[WARN]", "warning message"},
			notWant: []string{"[store]"},
		},
		{
			name:   "caller information",
			config: FormatConfig{},
			entry: func() *logrus.Entry {
				logger := logrus.New()
				logger.SetReportCaller(true)
				return &logrus.Entry{
					Logger:  logger,
					Level:   logrus.InfoLevel,
					Message: "with caller",
					Data:    logrus.Fields{"component": "state"},
					Caller: &runtime.Frame{
						File:     "/path/to/file.go",
						Line:     42,
						Function: "github.com/example/package.TestFunction",
					},
				}
			}(),
			want: []string{"[file.go:42 package.TestFunction]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}
			output, err := formatter.Format(tt.entry)
			require.NoError(t, err)

			for _, want := range tt.want {
				assert.Contains(t, string(output), want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, string(output), notWant)
			}
		})
	}
}

func TestEnvironmentLevel(t *testing.T) {
	t.Setenv("TWEAKPINE_LOG_LEVEL", "debug")
	t.Setenv("TWEAKPINE_LOG_CALLER", "true")

	logger := newLoggerWithConfig("env-test", Config{Level: "error"})
	assert.Equal(t, logrus.DebugLevel, logger.Logger.GetLevel(), "environment wins over config")
	assert.True(t, logger.Logger.ReportCaller)
}

func TestConfigLevelAndFormat(t *testing.T) {
	t.Setenv("TWEAKPINE_LOG_LEVEL", "")

	logger := newLoggerWithConfig("cfg-test", Config{
		Level:  "warn",
		Format: FormatConfig{Preset: "json", StructuredToStderr: "never"},
	})
	assert.Equal(t, logrus.WarnLevel, logger.Logger.GetLevel())
	_, isJSON := logger.Logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	logger = newLoggerWithConfig("bad-level", Config{Level: "loud"})
	assert.Equal(t, logrus.InfoLevel, logger.Logger.GetLevel())
}

func TestFileSink(t *testing.T) {
	t.Setenv("TWEAKPINE_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "logs", "tweakpine.log")

	logger := newLoggerWithConfig("file-test", Config{
		File:   FileSinkConfig{Enabled: true, Path: path},
		Format: FormatConfig{StructuredToStderr: "never"},
	})
	logger.WithField("panel", "demo").Info("registered panel")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "registered panel"))
	assert.Contains(t, string(data), "panel=demo")
}

func TestRedirectStderr(t *testing.T) {
	var outer, inner bytes.Buffer
	restoreOuter := RedirectStderr(&outer)
	t.Cleanup(restoreOuter)

	logger := newLoggerWithConfig("redirect-test", Config{Format: FormatConfig{StructuredToStderr: "always"}})

	restoreInner := RedirectStderr(&inner)
	logger.Info("to the inner buffer")
	restoreInner()
	logger.Info("back to the outer buffer")

	assert.Contains(t, inner.String(), "to the inner buffer")
	assert.NotContains(t, inner.String(), "back to the outer buffer")
	assert.Contains(t, outer.String(), "back to the outer buffer")
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.Success("Saved preset %s", "fast")
	r.Item(theme.IconPreset, "Active preset: %s", "fast")
	r.Field("id", "abc")
	r.Failure("scene.yml", assert.AnError)

	out := buf.String()
	assert.Contains(t, out, "Saved preset fast")
	assert.Contains(t, out, "Active preset: fast")
	assert.Contains(t, out, "id: abc")
	assert.Contains(t, out, "scene.yml: "+assert.AnError.Error())
}
