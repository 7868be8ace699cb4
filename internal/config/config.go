package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Environment string `toml:"-"`
	// storage
	StorePath string `toml:"store_path"`
	ExportDir string `toml:"export_dir"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	SentryDSN     string `toml:"sentry_dsn"`
	// metrics
	MetricsTextfile string `toml:"metrics_textfile"`
}

// Default is the configuration used for keys (or whole files) that are missing.
func Default() *Config {
	return &Config{
		StorePath: "users.txt",
		ExportDir: "exports",
		LogLevel:  "info",
		LogsPath:  "fittrack.log",
	}
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", EnvDevelopment:
		cfg = t.Development
		env = EnvDevelopment
	case "prod", EnvProduction:
		cfg = t.Production
		env = EnvProduction
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		cfg = Default()
	}
	cfg.Environment = env
	return cfg, nil
}

// Load reads the config for env from the TOML file at path. A missing
// file yields the defaults; a malformed one is an error.
func Load(env, path string) (*Config, error) {
	t := &Toml{
		Development: Default(),
		Production:  Default(),
	}

	if path == "" {
		return t.Get(env)
	}

	md, err := toml.DecodeFile(path, t)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warnf("config file %s not found, using defaults", path)
			return t.Get(env)
		}
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Warnf("config: unknown key [%s] ignored", key)
	}

	return t.Get(env)
}
