package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/lelesmart/internal/common"
)

// Default values applied when neither the config file nor the environment
// sets a key.
const (
	DefaultDatabasePath = "$HOME/.local/share/lele/lele.db"
	DefaultServerAddr   = ":8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultPageLimit    = 10
	DefaultMaxPageLimit = 100
)

// Config is the typed view of lele's configuration.
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Pagination PaginationConfig
	Logging    LoggingConfig
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PaginationConfig bounds analysis listings.
type PaginationConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers lele's defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("pagination.default_limit", DefaultPageLimit)
	v.SetDefault("pagination.max_limit", DefaultMaxPageLimit)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load builds a Config from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds a Config from v, applying defaults for unset keys and
// expanding the database path.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Server: ServerConfig{
			Addr:         v.GetString("server.addr"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Pagination: PaginationConfig{
			DefaultLimit: v.GetInt("pagination.default_limit"),
			MaxLimit:     v.GetInt("pagination.max_limit"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Database.Path == "":
		return fmt.Errorf("%w: database.path is empty", common.ErrInvalidConfig)
	case c.Server.Addr == "":
		return fmt.Errorf("%w: server.addr is empty", common.ErrInvalidConfig)
	case c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0:
		return fmt.Errorf("%w: server timeouts must be positive", common.ErrInvalidConfig)
	case c.Pagination.DefaultLimit < 1:
		return fmt.Errorf("%w: pagination.default_limit must be at least 1", common.ErrInvalidConfig)
	case c.Pagination.MaxLimit < c.Pagination.DefaultLimit:
		return fmt.Errorf("%w: pagination.max_limit (%d) is below pagination.default_limit (%d)",
			common.ErrInvalidConfig, c.Pagination.MaxLimit, c.Pagination.DefaultLimit)
	}
	return nil
}
