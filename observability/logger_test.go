package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/living-cosmos/config"
)

func TestInitialize_ConsoleAndFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "cosmos.log")
	Initialize(config.LoggerConfig{Level: "debug", Format: "console", ServiceName: "cosmos", LogFile: logFile}, zapcore.AddSync(&buf))

	GetLogger().Named("layer").Info("mounted")
	Sync()

	assert.Contains(t, buf.String(), "cosmos.layer.")
	assert.Contains(t, buf.String(), "mounted")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"mounted"`)
}

func TestInitialize_Once(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))

	GetLogger().Info("hello")
	assert.NotEmpty(t, first.String())
	assert.Empty(t, second.String())
}

func TestInitialize_LevelFilter(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))
	GetLogger().Info("quiet")
	assert.Empty(t, buf.String())
	GetLogger().Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestGetLogger_Fallback(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger())
}
