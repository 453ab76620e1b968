package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/auction/go/internal/player"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML auction setup (AUCTION_CONFIG)
type Config struct {
	Auction struct {
		Teams         []string `yaml:"teams"`
		InitialBudget int64    `yaml:"initial_budget"`
	} `yaml:"auction"`
	player.SeedConfig `yaml:",inline"`
}

// DefaultConfig is used when AUCTION_CONFIG is not set
func DefaultConfig() *Config {
	config := &Config{}
	config.Auction.Teams = []string{"Team A", "Team B", "Team C", "Team D"}
	config.Auction.InitialBudget = 100000
	return config
}

func (c *Config) validate() error {
	if len(c.Auction.Teams) == 0 {
		return fmt.Errorf("auction.teams must not be empty")
	}
	if c.Auction.InitialBudget <= 0 {
		return fmt.Errorf("auction.initial_budget must be positive")
	}
	seen := make(map[string]bool, len(c.SeedPlayers))
	for _, p := range c.SeedPlayers {
		if seen[p.Name] {
			return fmt.Errorf("seed_players: duplicate name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// loadConfig reads the YAML file at path. Missing fields keep their defaults.
func loadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
