package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "", "info")
	logger.Debug("hidden")
	logger.Info("order console mounted", slog.Int("orders.count", 3))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "order console mounted", entry["msg"])
	require.EqualValues(t, 3, entry["orders.count"])
}

func TestInit_StdoutTraces(t *testing.T) {
	var buf bytes.Buffer
	instruments, shutdown, err := Init(context.Background(), Options{ServiceName: "orders-test", StdoutTraces: true, LogOutput: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	require.NotNil(t, instruments.Tracer("test"))
	require.NotNil(t, instruments.Meter("test"))
	instruments.Logger.Info("ready")
	require.Contains(t, buf.String(), "ready")
}
