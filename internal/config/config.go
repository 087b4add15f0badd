package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all minute configuration. It is passed explicitly to the
// components that need it; there is no package-level state.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Server   ServerConfig  `yaml:"server"`
	Forward  ForwardConfig `yaml:"forward"`
	Projects []string      `yaml:"projects"`
}

type StorageConfig struct {
	BasePath string `yaml:"base_path"` // note vault root, default ~/.minute/notes
	OutboxDB string `yaml:"outbox_db"` // forwarding log, default ~/.minute/outbox.db
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// ForwardConfig selects and configures the calendar/email providers that
// receive action items. Credentials come from the environment (see Load).
type ForwardConfig struct {
	Calendar string `yaml:"calendar"` // "caldav", "mock", "none"
	Email    string `yaml:"email"`    // "smtp", "mock", "none"

	CalDAVURL   string `yaml:"caldav_url"`
	CalDAVUser  string `yaml:"caldav_user"`
	CalDAVToken string `yaml:"-"` // env only, never from file

	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	SMTPFrom string `yaml:"smtp_from"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"-"` // env only, never from file
	EmailTo  string `yaml:"email_to"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37707,
		},
		Forward: ForwardConfig{
			Calendar: "none",
			Email:    "none",
			SMTPPort: 587,
		},
	}
}

// DefaultPath returns the default config file location: ~/.minute/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".minute", "config.yaml"), nil
}

// Load reads the YAML config file at path, falling back to defaults when
// the file does not exist, then applies environment overrides. A .env file
// in the working directory is honored for credentials.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	godotenv.Load()
	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv folds MINUTE_* environment variables into the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MINUTE_NOTES_PATH"); v != "" {
		cfg.Storage.BasePath = v
	}
	if v := os.Getenv("MINUTE_OUTBOX_DB"); v != "" {
		cfg.Storage.OutboxDB = v
	}
	if v := os.Getenv("MINUTE_CALDAV_TOKEN"); v != "" {
		cfg.Forward.CalDAVToken = v
	}
	if v := os.Getenv("MINUTE_SMTP_PASS"); v != "" {
		cfg.Forward.SMTPPass = v
	}
	if v := os.Getenv("MINUTE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
