package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DefaultAPIBase is the relative API base used when API_URL is not set. It
// only works behind a same-origin proxy such as the shell server.
const DefaultAPIBase = "/api"

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=true"`
	SiteTitle string `env:"SITE_TITLE, default=Forest Plant Store"`

	API     APIConfig
	Shell   ShellConfig
	Storage StorageConfig
	Redis   RedisConfig
}

type APIConfig struct {
	URL            string        `env:"API_URL, default=/api"`
	Origin         string        `env:"ORIGIN,  default=http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=15s"`
}

type ShellConfig struct {
	Port        string `env:"PORT,         default=5173"`
	ProxyTarget string `env:"PROXY_TARGET, default=http://localhost:3000"`
}

type StorageConfig struct {
	// Driver selects the persistence backend: file, redis, memory or none.
	Driver string `env:"STORAGE_DRIVER, default=file"`
	Dir    string `env:"STORAGE_DIR"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=storefront:"`
}

// UsingDefaultAPI reports whether API_URL was left at the relative default.
func (c *Config) UsingDefaultAPI() bool {
	return c.API.URL == DefaultAPIBase
}

// Load reads a .env file when one exists, then configuration from
// environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.API.URL == "" {
		cfg.API.URL = DefaultAPIBase
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = defaultStorageDir()
	}
	return &cfg, nil
}

func defaultStorageDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, ".forestplants")
}
