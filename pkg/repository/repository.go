package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("not found")

// Persisted keys.
const (
	KeyAccessToken           = "access_token"
	KeyRefreshToken          = "refresh_token"
	KeyRememberedCredentials = "remembered_credentials"
	KeyTheme                 = "theme"
	KeyLanguage              = "language"
)

// Store is durable client-side key/value storage.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type Config struct {
	Driver   string
	FilePath string
	Redis    RedisConfig
	Postgres PostgresConfig
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "file":
		path := cfg.FilePath
		if path == "" {
			path = "data/session.json"
		}
		return NewFileStore(path)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg.Redis)
	case "postgres":
		db, err := NewPostgresDB(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return openPostgresStore(ctx, db, cfg.Postgres.Profile)
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// openPostgresStore takes ownership of db and closes it when the store cannot be
// prepared.
func openPostgresStore(ctx context.Context, db *sqlx.DB, profile string) (Store, error) {
	if profile == "" {
		profile = "default"
	}
	s, err := NewPostgresStoreForProfile(ctx, db, profile)
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			logrus.Warnf("close postgres after failed setup: %s", cerr)
		}
		return nil, err
	}
	return s, nil
}
