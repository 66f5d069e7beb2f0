// File: internal/observability/logger_test.go
package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/surveyfill-cli/internal/config"
)

func testLoggerConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "test",
		Colors: config.ColorConfig{
			Debug: "cyan", Info: "green", Warn: "yellow", Error: "red", Fatal: "magenta",
		},
	}
}

func TestInitializeAndGetLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &zaptest.Buffer{}
	Initialize(testLoggerConfig(), zapcore.AddSync(buf))

	logger := GetLogger()
	require.NotNil(t, logger)

	logger.Info("hello from the test")
	assert.Contains(t, buf.String(), "hello from the test")
	assert.Contains(t, buf.String(), "test.")
}

func TestInitializeOnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &zaptest.Buffer{}
	second := &zaptest.Buffer{}
	Initialize(testLoggerConfig(), zapcore.AddSync(first))
	Initialize(testLoggerConfig(), zapcore.AddSync(second))

	GetLogger().Info("routed to the first writer")
	assert.Contains(t, first.String(), "routed to the first writer")
	assert.Empty(t, second.String())
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
}

func TestJSONEncoderSelected(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := testLoggerConfig()
	cfg.Format = "json"
	buf := &zaptest.Buffer{}
	Initialize(cfg, zapcore.AddSync(buf))

	GetLogger().Info("structured")
	assert.Contains(t, buf.String(), `"msg"`)
}
