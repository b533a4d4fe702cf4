// Package config loads the service configuration from YAML with a
// defaults-merge: the built-in defaults apply wherever the file is silent,
// and a missing file means pure defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Match    MatchConfig    `yaml:"match"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// AuthConfig controls seat token signing. An empty Secret makes the server
// generate a random one at startup, so tokens do not survive a restart.
type AuthConfig struct {
	Secret          string `yaml:"secret"`
	TokenTTLMinutes int    `yaml:"tokenTtlMinutes"`
}

// MatchConfig tunes engine rules and orchestrator pacing.
type MatchConfig struct {
	PlacementAttempts int    `yaml:"placementAttempts"` // Per-ship rejection sampling budget.
	FleetRetries      int    `yaml:"fleetRetries"`      // Whole-fleet retry budget.
	ThinkDelayMs      int    `yaml:"thinkDelayMs"`      // Computer seat artificial think time.
	DefaultSkill      string `yaml:"defaultSkill"`      // Skill for computer seats when unspecified.
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Redis:  RedisConfig{Addr: "", Password: "", DB: 0},
		Auth:   AuthConfig{TokenTTLMinutes: 24 * 60},
		Match: MatchConfig{
			PlacementAttempts: 1000,
			FleetRetries:      8,
			ThinkDelayMs:      600,
			DefaultSkill:      "normal",
		},
	}
}

// Load reads the YAML file at path and merges it over the defaults. A
// missing file returns pure defaults without error; a malformed file is an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	var file Config
	if err := yaml.Unmarshal(b, &file); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return merge(cfg, file), nil
}

// merge overlays b onto a wherever b is non-zero.
func merge(a, b Config) Config {
	out := a
	if b.Server.Addr != "" {
		out.Server.Addr = b.Server.Addr
	}
	if b.Redis.Addr != "" {
		out.Redis.Addr = b.Redis.Addr
	}
	if b.Redis.Password != "" {
		out.Redis.Password = b.Redis.Password
	}
	if b.Redis.DB != 0 {
		out.Redis.DB = b.Redis.DB
	}
	if b.Database.DSN != "" {
		out.Database.DSN = b.Database.DSN
	}
	if b.Auth.Secret != "" {
		out.Auth.Secret = b.Auth.Secret
	}
	if b.Auth.TokenTTLMinutes != 0 {
		out.Auth.TokenTTLMinutes = b.Auth.TokenTTLMinutes
	}
	if b.Match.PlacementAttempts != 0 {
		out.Match.PlacementAttempts = b.Match.PlacementAttempts
	}
	if b.Match.FleetRetries != 0 {
		out.Match.FleetRetries = b.Match.FleetRetries
	}
	if b.Match.ThinkDelayMs != 0 {
		out.Match.ThinkDelayMs = b.Match.ThinkDelayMs
	}
	if b.Match.DefaultSkill != "" {
		out.Match.DefaultSkill = b.Match.DefaultSkill
	}
	return out
}

// ApplyEnv overlays environment variables onto the config. Typically called
// after godotenv has loaded a .env file.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("BATTLESHIP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("BATTLESHIP_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	return cfg
}
