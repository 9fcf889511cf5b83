package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const envPrefix = "AUTH"

// Config is built once at startup and passed explicitly to the components that need it.
type Config struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	DB       DB     `mapstructure:"db"`
	JWT      JWT    `mapstructure:"jwt"`
	Auth     Auth   `mapstructure:"auth"`
	Audit    Audit  `mapstructure:"audit"`
	CORS     CORS   `mapstructure:"cors"`
}

type DB struct {
	Path string `mapstructure:"path"`
}

// JWT holds the process-wide signing secret. Secret is never logged.
type JWT struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type Auth struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type Audit struct {
	Retention     time.Duration `mapstructure:"retention"`
	PruneInterval time.Duration `mapstructure:"prune_interval"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

var (
	errEmptySecret = errors.New("jwt.secret must be set (config file or AUTH_JWT_SECRET)")
	errBadTTL      = errors.New("jwt.ttl must be positive")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", time.Hour)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("audit.retention", 30*24*time.Hour)
	v.SetDefault("audit.prune_interval", time.Hour)
	v.SetDefault("cors.allowed_origins", []string{})
}

// Load reads configs/config.yml (if present) from the given directories and
// applies AUTH_* environment overrides, e.g. AUTH_JWT_SECRET.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at request time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errEmptySecret
	}
	if c.JWT.TTL <= 0 {
		return errBadTTL
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost %d out of range [%d, %d]", c.Auth.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Audit.PruneInterval <= 0 {
		return fmt.Errorf("audit.prune_interval must be positive, got %s", c.Audit.PruneInterval)
	}
	return nil
}
