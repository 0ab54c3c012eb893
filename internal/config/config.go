package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/flow"
)

type Config struct {
	GRPCAddr    string   `env:"GRPC_ADDR" env-default:":8080"`
	HTTPAddr    string   `env:"HTTP_ADDR" env-default:":8081"`
	LogLevel    string   `env:"LOG_LEVEL" env-default:"info"`
	CatalogFile string   `env:"CATALOG_FILE"`
	KafkaBroker []string `env:"KAFKA_BROKERS" env-separator:","`
	KafkaTopic  string   `env:"KAFKA_TOPIC" env-default:"sendflow.flow-events"`

	SendingDelay  time.Duration `env:"FLOW_SENDING_DELAY" env-default:"600ms"`
	MinimalDelay  time.Duration `env:"FLOW_MINIMAL_DELAY" env-default:"3000ms"`
	CompleteDelay time.Duration `env:"FLOW_COMPLETE_DELAY" env-default:"4000ms"`
	DrainDuration time.Duration `env:"FLOW_DRAIN_DURATION" env-default:"3000ms"`
	FrameInterval time.Duration `env:"FLOW_FRAME_INTERVAL" env-default:"16ms"`

	AmountMinorUnits int64  `env:"FLOW_AMOUNT_MINOR" env-default:"200000"`
	Sender           string `env:"FLOW_SENDER" env-default:"greenfield"`
	Receiver         string `env:"FLOW_RECEIVER" env-default:"cactuspractice"`
	Method           string `env:"FLOW_METHOD" env-default:"usdc"`
	Layout           string `env:"FLOW_LAYOUT" env-default:"company"`
	Surface          string `env:"FLOW_SURFACE" env-default:"landing-page"`
}

// Load reads .env files (when present) and then the environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("couldn't load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}
	if _, err := cfg.Timing(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Timing returns the validated animation schedule
func (c *Config) Timing() (flow.Timing, error) {
	t := flow.Timing{
		SendingDelay:  c.SendingDelay,
		MinimalDelay:  c.MinimalDelay,
		CompleteDelay: c.CompleteDelay,
		DrainDuration: c.DrainDuration,
		FrameInterval: c.FrameInterval,
	}
	if err := t.Validate(); err != nil {
		return flow.Timing{}, fmt.Errorf("invalid flow timing: %w", err)
	}
	return t, nil
}

// Host returns the default host config new sessions start from
func (c *Config) Host() domain.HostConfig {
	return domain.HostConfig{
		AmountMinorUnits: c.AmountMinorUnits,
		SenderID:         c.Sender,
		ReceiverID:       c.Receiver,
		MethodID:         c.Method,
		Layout:           domain.CardLayout(c.Layout),
		Surface:          domain.Surface(c.Surface),
	}
}

// KafkaEnabled reports whether any broker is configured
func (c *Config) KafkaEnabled() bool {
	for _, b := range c.KafkaBroker {
		if b != "" {
			return true
		}
	}
	return false
}
