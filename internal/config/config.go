package config

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/thanhnp/pow-ledger/internal/chain"
)

// Config represents the application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Mining MiningConfig `yaml:"mining"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// MiningConfig represents the proof-of-work parameters
type MiningConfig struct {
	Difficulty    int    `yaml:"difficulty"`     // Required leading zero hex digits of a block hash
	MaxIterations uint64 `yaml:"max_iterations"` // Nonce search ceiling per block
}

// LogConfig represents the logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Mining: MiningConfig{
			Difficulty:    chain.DefaultDifficulty,
			MaxIterations: chain.DefaultMaxIterations,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrap(err, "failed to read config file")
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "failed to parse config file")
			}
		}
	}

	// Override with environment variables
	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("invalid server port %d", c.Server.Port)
	}
	if err := c.Miner().Validate(); err != nil {
		return errors.Wrap(err, "invalid mining config")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Newf("invalid log format %q", c.Log.Format)
	}
	return nil
}

// Miner returns the mining parameters as a chain.Miner
func (c *Config) Miner() chain.Miner {
	return chain.Miner{
		Difficulty:    c.Mining.Difficulty,
		MaxIterations: c.Mining.MaxIterations,
	}
}

func (c *Config) loadEnv() {
	// Server config
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}

	// Mining config
	if difficulty := os.Getenv("MINING_DIFFICULTY"); difficulty != "" {
		if d, err := strconv.Atoi(difficulty); err == nil {
			c.Mining.Difficulty = d
		}
	}
	if maxIter := os.Getenv("MINING_MAX_ITERATIONS"); maxIter != "" {
		if n, err := strconv.ParseUint(maxIter, 10, 64); err == nil {
			c.Mining.MaxIterations = n
		}
	}

	// Log config
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}
}
