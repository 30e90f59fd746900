package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Sandbox SandboxConfig `yaml:"sandbox"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	ClientOrigin string `yaml:"client_origin"`
}

type RedisConfig struct {
	// Addr empty disables lifecycle event publishing.
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

type SandboxConfig struct {
	WallTime time.Duration `yaml:"wall_time"`
	MemoryMB int64         `yaml:"memory_mb"`
	NanoCPUs int64         `yaml:"nano_cpus"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "4000",
			ClientOrigin: "*",
		},
		Redis: RedisConfig{
			Channel: "sessions",
		},
		Sandbox: SandboxConfig{
			WallTime: 10 * time.Second,
			MemoryMB: 512,
			NanoCPUs: 1_000_000_000,
		},
	}
}

// Load reads the YAML file at path over the built-in defaults. An empty path
// returns the defaults unchanged. Environment overrides are applied last so
// container deployments keep working without a config file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if origin := os.Getenv("CLIENT_ORIGIN"); origin != "" {
		cfg.Server.ClientOrigin = origin
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	return cfg, nil
}
