package settings

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default returns a configuration that runs without a config file.
func Default() Config {
	return Config{
		Server: Server{
			Mode:            "release",
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 10,
			StatsInterval:   60,
		},
		Logger: Logger{
			LogLevel:   "info",
			MaxBackups: 3,
			MaxAge:     28,
			MaxSize:    100,
		},
		Queue: Queue{
			Capacity:  1024,
			ClockStep: 10,
		},
		Kafka: Kafka{
			Topic:        "queue-events",
			Timeout:      5,
			MaxRetries:   3,
			RetryBackoff: 100,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
