package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"betwallet_client/pkg/repository"
)

const (
	minNavigateDelay = 2 * time.Second
	maxNavigateDelay = 3500 * time.Millisecond
)

type Config struct {
	Port    string        `mapstructure:"port"`
	Log     LogConfig     `mapstructure:"log"`
	Backend BackendConfig `mapstructure:"backend"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Flow    FlowConfig    `mapstructure:"flow"`
	Storage StorageConfig `mapstructure:"storage"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type BackendConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type AuthConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	ExpiryLead      time.Duration `mapstructure:"expiry_lead"`
}

type FlowConfig struct {
	NavigateDelay      time.Duration `mapstructure:"navigate_delay"`
	SettlementInterval time.Duration `mapstructure:"settlement_interval"`
	SettlementTimeout  time.Duration `mapstructure:"settlement_timeout"`
}

type StorageConfig struct {
	Driver   string         `mapstructure:"driver"`
	FilePath string         `mapstructure:"file_path"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Profile  string `mapstructure:"profile"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Load reads config.yaml from dir (a missing file is fine), then applies
// BETWALLET_* environment overrides. Passwords only come from DB_PASS and REDIS_PASS.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BETWALLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8090")
	v.SetDefault("log.level", "info")
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.user_agent", "betwallet-client/1.0")
	v.SetDefault("auth.refresh_interval", "55m")
	v.SetDefault("auth.expiry_lead", "5m")
	v.SetDefault("flow.navigate_delay", "2500ms")
	v.SetDefault("flow.settlement_interval", "3s")
	v.SetDefault("flow.settlement_timeout", "2m")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.file_path", "data/session.json")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.key_prefix", "betwallet:client:")
	v.SetDefault("storage.postgres.port", "5432")
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("storage.postgres.profile", "default")
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	if c.Flow.NavigateDelay < minNavigateDelay || c.Flow.NavigateDelay > maxNavigateDelay {
		return errors.Errorf("flow.navigate_delay must be between %s and %s, got %s",
			minNavigateDelay, maxNavigateDelay, c.Flow.NavigateDelay)
	}
	if c.Auth.ExpiryLead >= c.Auth.RefreshInterval {
		return errors.New("auth.expiry_lead must be shorter than auth.refresh_interval")
	}
	return nil
}

// RepositoryConfig converts the storage section, pulling passwords from the environment.
func (c *Config) RepositoryConfig() repository.Config {
	s := c.Storage
	return repository.Config{
		Driver:   s.Driver,
		FilePath: s.FilePath,
		Redis: repository.RedisConfig{
			Addr:      s.Redis.Addr,
			Password:  os.Getenv("REDIS_PASS"),
			DB:        s.Redis.DB,
			KeyPrefix: s.Redis.KeyPrefix,
		},
		Postgres: repository.PostgresConfig{
			Host:     s.Postgres.Host,
			Port:     s.Postgres.Port,
			Username: s.Postgres.Username,
			Password: os.Getenv("DB_PASS"),
			DBName:   s.Postgres.DBName,
			SSLMode:  s.Postgres.SSLMode,
			Profile:  s.Postgres.Profile,
		},
	}
}
