package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables, e.g. PGTABLES_SERVER_LISTEN_ADDR.
const EnvPrefix = "PGTABLES"

// Version is set at build time with -ldflags "-X github.com/edgeflare/pgtables/pkg/config.Version=...".
var Version = "dev"

var ErrNoConnString = errors.New("config: pg.connString is required (or set PGTABLES_PG_CONN_STRING or DATABASE_URL)")

// Config holds application-wide configuration
type Config struct {
	PG      PGConfig      `mapstructure:"pg"`
	Server  ServerConfig  `mapstructure:"server"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

type PGConfig struct {
	ConnString string `mapstructure:"connString"`
	MaxConns   int32  `mapstructure:"maxConns"`
	// ConnectTimeout bounds the startup wait for the database.
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
}

type ServerConfig struct {
	ListenAddr     string        `mapstructure:"listenAddr"`
	QueryTimeout   time.Duration `mapstructure:"queryTimeout"`
	LintStatements bool          `mapstructure:"lintStatements"`
	CORSOrigins    []string      `mapstructure:"corsOrigins"`
	MaxBodyBytes   int64         `mapstructure:"maxBodyBytes"`
}

type CatalogConfig struct {
	CacheSize int           `mapstructure:"cacheSize"`
	CacheTTL  time.Duration `mapstructure:"cacheTTL"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RequestLogging reports whether the request logger middleware should run.
func (c LogConfig) RequestLogging() bool {
	return !strings.EqualFold(c.Level, "none")
}

var defaults = map[string]any{
	"pg.maxConns":           0,
	"pg.connectTimeout":     "30s",
	"server.listenAddr":     ":8080",
	"server.queryTimeout":   "30s",
	"server.lintStatements": false,
	"server.corsOrigins":    []string{},
	"server.maxBodyBytes":   10 << 20,
	"catalog.cacheSize":     0,
	"catalog.cacheTTL":      "1m",
	"metrics.enabled":       true,
	"metrics.addr":          ":9100",
	"metrics.path":          "/metrics",
	"log.level":             "info",
}

// Load reads config from file, .env, environment and flags, in increasing precedence.
// Flags are looked up by config key, e.g. a flag named "server.listenAddr". flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is fine; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pgtables")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("error binding flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.PG.ConnString == "" {
		cfg.PG.ConnString = os.Getenv("DATABASE_URL")
	}
	return &cfg, nil
}

// bindEnv registers every known key so that AutomaticEnv also applies during Unmarshal.
// camelCase segments map to SNAKE_CASE: server.listenAddr -> PGTABLES_SERVER_LISTEN_ADDR.
func bindEnv(v *viper.Viper) {
	for key := range defaults {
		_ = v.BindEnv(key, envName(key))
	}
	_ = v.BindEnv("pg.connString", envName("pg.connString"))
}

func envName(key string) string {
	var sb strings.Builder
	sb.WriteString(EnvPrefix + "_")
	prev := '.'
	for _, r := range key {
		switch {
		case r == '.':
			sb.WriteByte('_')
		case unicode.IsUpper(r) && prev != '.' && !unicode.IsUpper(prev):
			sb.WriteByte('_')
			sb.WriteRune(r)
		default:
			sb.WriteRune(unicode.ToUpper(r))
		}
		prev = r
	}
	return sb.String()
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	if c.PG.ConnString == "" {
		return ErrNoConnString
	}
	if c.Server.ListenAddr == "" {
		return errors.New("config: server.listenAddr must not be empty")
	}
	return nil
}
