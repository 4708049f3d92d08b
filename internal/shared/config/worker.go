package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// WorkerConfig contains all configuration for the worker process.
type WorkerConfig struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Processor ProcessorConfig `mapstructure:"processor"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SchedulerConfig contains scheduler connection configuration. Context, when
// set, overrides the GRIDWORK_CONTEXT environment variable.
type SchedulerConfig struct {
	Context       string        `mapstructure:"context"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	MaxRetries    int           `mapstructure:"max_retries"`
	SendBuffer    int           `mapstructure:"send_buffer"`
}

// ProcessorConfig selects the registered block processor to run.
type ProcessorConfig struct {
	Name    string `mapstructure:"name"`
	Input   string `mapstructure:"input"`
	Workers int    `mapstructure:"workers"`
}

// LoadWorker loads the worker configuration from the given path.
// If configPath is empty, it looks for worker.yaml in the config/ directory.
// Environment variables with GRIDWORK_WORKER_ prefix override config file values.
func LoadWorker(configPath string) (*WorkerConfig, error) {
	v := viper.New()

	v.SetDefault("scheduler.dial_timeout", 60*time.Second)
	v.SetDefault("scheduler.retry_interval", 1*time.Second)
	v.SetDefault("scheduler.max_retries", 10)
	v.SetDefault("scheduler.send_buffer", 16)
	v.SetDefault("processor.name", "noop")
	v.SetDefault("processor.workers", 1)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("worker")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("GRIDWORK_WORKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg WorkerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// ResolveContext returns the scheduler context from the config override when
// present, falling back to the environment.
func (c *WorkerConfig) ResolveContext() (Context, error) {
	if c.Scheduler.Context != "" {
		return ParseContext(c.Scheduler.Context)
	}
	return ContextFromEnv()
}
