package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRollingFileLogger(t *testing.T) {
	_, err := NewRollingFileLogger(LogOptions{})
	require.ErrorIs(t, err, os.ErrInvalid)

	path := filepath.Join(t.TempDir(), "logs", "access.log")
	logger, err := NewRollingFileLogger(LogOptions{Path: path, Level: "info"})
	require.NoError(t, err)
	logger.Info("request", zap.String("path", "/health"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"request"`)
	require.Contains(t, string(data), `"path":"/health"`)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, "debug", parseLevel("debug").String())
	require.Equal(t, "warn", parseLevel("warn").String())
	require.Equal(t, "info", parseLevel("bogus").String())
}
