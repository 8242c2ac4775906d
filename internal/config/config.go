package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Storage   StorageConfig   `yaml:"storage" toml:"storage"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Transport TransportConfig `yaml:"transport" toml:"transport"`
	CORS      CORSConfig      `yaml:"cors" toml:"cors"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
}

// StorageConfig selects where the project collection lives. For the file
// backend Path is the JSON file; for sqlite it is the database file and
// Document names the row holding the collection.
type StorageConfig struct {
	Backend  string `yaml:"backend" toml:"backend"`
	Path     string `yaml:"path" toml:"path"`
	Document string `yaml:"document" toml:"document"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" toml:"mode"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Storage: StorageConfig{
			Backend:  BackendFile,
			Path:     "data/projects.json",
			Document: "projects.json",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from an optional YAML or TOML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("WORLDOS_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("WORLDOS_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("WORLDOS_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORLDOS_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if backend := os.Getenv("WORLDOS_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if path := os.Getenv("WORLDOS_STORAGE_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if doc := os.Getenv("WORLDOS_STORAGE_DOCUMENT"); doc != "" {
		cfg.Storage.Document = doc
	}
	if level := os.Getenv("WORLDOS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("WORLDOS_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if origins := os.Getenv("WORLDOS_CORS_ORIGINS"); origins != "" {
		cfg.CORS.AllowedOrigins = splitList(origins)
	}
	if enabled := os.Getenv("WORLDOS_METRICS_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORLDOS_METRICS_ENABLED: %w", err)
		}
		cfg.Metrics.Enabled = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage path must be set")
	}
	if c.Storage.Backend == BackendSQLite && strings.TrimSpace(c.Storage.Document) == "" {
		return fmt.Errorf("storage document must be set for the sqlite backend")
	}
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("unknown transport mode %q", c.Transport.Mode)
	}
	if c.Transport.Mode == TransportHTTP && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	return nil
}

// loadFromFile reads YAML, or TOML when the file ends in .toml.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
