package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/sendflow/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GRPCAddr)
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "sendflow.flow-events", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled())

	timing, err := cfg.Timing()
	require.NoError(t, err)
	assert.Equal(t, 600*time.Millisecond, timing.SendingDelay)
	assert.Equal(t, 4*time.Second, timing.CompleteDelay)

	assert.Equal(t, domain.HostConfig{
		AmountMinorUnits: 200000,
		SenderID:         "greenfield",
		ReceiverID:       "cactuspractice",
		MethodID:         "usdc",
		Layout:           domain.LayoutCompany,
		Surface:          domain.SurfaceLandingPage,
	}, cfg.Host())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GRPC_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("FLOW_RECEIVER", "openai")
	t.Setenv("FLOW_SENDING_DELAY", "100ms")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBroker)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "openai", cfg.Host().ReceiverID)
	assert.Equal(t, 100*time.Millisecond, cfg.SendingDelay)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:7070\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("HTTP_ADDR") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
}

func TestLoad_InvalidTiming(t *testing.T) {
	t.Setenv("FLOW_MINIMAL_DELAY", "5s")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complete delay must be after minimal delay")
}
