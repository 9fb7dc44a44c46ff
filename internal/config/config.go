package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/loykin/procguard/internal/checksum"
	"github.com/loykin/procguard/internal/logger"
)

// AuditConfig selects the audit sink by DSN. An empty DSN disables the
// trail.
type AuditConfig struct {
	DSN string `toml:"dsn" mapstructure:"dsn"`
}

// ServerConfig describes the embedded HTTP API listener. A non-empty
// AuthToken gates the process routes behind a static bearer token.
type ServerConfig struct {
	Listen    string `toml:"listen" mapstructure:"listen"`
	BasePath  string `toml:"base_path" mapstructure:"base_path"`
	AuthToken string `toml:"auth_token" mapstructure:"auth_token"`
}

// Config represents the top-level TOML structure.
//
//	quarantine_dir = "/var/lib/procguard/quarantine"
//
//	[log.slog]
//	level = "info"
//	format = "text"
//
//	[log.file]
//	path = "/var/log/procguard/procguard.log"
//
//	[audit]
//	dsn = "sqlite:///var/lib/procguard/audit.db"
//
//	[server]
//	listen = ":8080"
//	base_path = "/api"
//	auth_token = "s3cret"
type Config struct {
	QuarantineDir string        `toml:"quarantine_dir" mapstructure:"quarantine_dir"`
	Log           logger.Config `toml:"log" mapstructure:"log"`
	Audit         AuditConfig   `toml:"audit" mapstructure:"audit"`
	Server        ServerConfig  `toml:"server" mapstructure:"server"`
}

// DefaultListen is used when [server] sets no listen address.
const DefaultListen = ":8080"

// Load parses a TOML config file and returns it together with the
// file's SHA-1, so a run can state which config revision it executed
// under.
func Load(path string) (Config, string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, "", err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, "", err
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	sum, err := checksum.SHA1File(path)
	if err != nil {
		return Config{}, "", fmt.Errorf("fingerprint config: %w", err)
	}
	return c, sum, nil
}
