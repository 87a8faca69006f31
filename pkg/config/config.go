// Package config loads the tdvisu configuration file.
//
// The file is TOML or YAML, chosen by extension, with three sections:
//
//	[postgresql]               # connection to the solver database
//	host = "localhost"
//	port = 5432
//	database = "logicsem"
//	user = "postgres"
//	password = ""
//	application_name = "dpdb-admin"
//
//	[sqlite]                   # local trace database, used instead when set
//	path = "traces.db"
//
//	[log]
//	level = "info"
//
// Missing keys keep their defaults. DATABASE_URL, when set, replaces the
// PostgreSQL settings entirely.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/tdvisu/pkg/errors"
)

// EnvDatabaseURL names the environment variable overriding the DSN.
const EnvDatabaseURL = "DATABASE_URL"

// Config holds all tdvisu settings.
type Config struct {
	Postgres PostgresConfig `toml:"postgresql" yaml:"postgresql"`
	SQLite   SQLiteConfig   `toml:"sqlite" yaml:"sqlite"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// PostgresConfig configures the connection to the solver database.
type PostgresConfig struct {
	Host            string `toml:"host" yaml:"host"`
	Port            int    `toml:"port" yaml:"port"`
	Database        string `toml:"database" yaml:"database"`
	User            string `toml:"user" yaml:"user"`
	Password        string `toml:"password" yaml:"password"`
	ApplicationName string `toml:"application_name" yaml:"application_name"`
	SSLMode         string `toml:"sslmode" yaml:"sslmode"`

	// URL is set from DATABASE_URL and wins over the fields above.
	URL string `toml:"-" yaml:"-"`
}

// SQLiteConfig points at a local trace database.
type SQLiteConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "logicsem",
			User:            "postgres",
			ApplicationName: "dpdb-admin",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the configuration at path over the defaults. An empty path
// or a missing file yields the defaults; the latter logs a warning.
func Load(path string, logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config %s", path)
		default:
			if err := decode(path, data, cfg); err != nil {
				return nil, err
			}
			logger.Debug("loaded config", "path", path)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"config %s: unsupported extension %q (use .toml, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if dsn := os.Getenv(EnvDatabaseURL); dsn != "" {
		c.Postgres.URL = dsn
	}
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Postgres.URL == "" {
		if c.Postgres.Host == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "postgresql.host is empty")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "postgresql.port %d out of range", c.Postgres.Port)
		}
		if c.Postgres.Database == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "postgresql.database is empty")
		}
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "log.level")
		}
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:   "/" + p.Database,
	}
	switch {
	case p.User != "" && p.Password != "":
		u.User = url.UserPassword(p.User, p.Password)
	case p.User != "":
		u.User = url.User(p.User)
	}
	q := url.Values{}
	if p.ApplicationName != "" {
		q.Set("application_name", p.ApplicationName)
	}
	if p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Redacted returns the DSN with the password masked, for logging.
func (p PostgresConfig) Redacted() string {
	u, err := url.Parse(p.DSN())
	if err != nil {
		return fmt.Sprintf("postgres://%s@%s", p.User, p.Host)
	}
	return u.Redacted()
}
