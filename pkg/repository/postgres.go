package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type PostgresConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	SSLMode  string
	// Profile namespaces rows so one database can hold several device profiles.
	Profile string
}

func NewPostgresDB(cfg PostgresConfig) (*sqlx.DB, error) {
	logrus.Infof("postgres storage: host=%s port=%s user=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.DBName, cfg.SSLMode)
	db, err := sqlx.Open("postgres",
		fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Username, cfg.DBName, cfg.Password, cfg.SSLMode))
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

const createClientStateTable = `
CREATE TABLE IF NOT EXISTS client_state (
    profile    TEXT        NOT NULL,
    key        TEXT        NOT NULL,
    value      TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (profile, key)
)`

type PostgresStore struct {
	db      *sqlx.DB
	profile string
}

func NewPostgresStore(ctx context.Context, db *sqlx.DB) (*PostgresStore, error) {
	return NewPostgresStoreForProfile(ctx, db, "default")
}

func NewPostgresStoreForProfile(ctx context.Context, db *sqlx.DB, profile string) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, createClientStateTable); err != nil {
		return nil, errors.Wrap(err, "create client_state table")
	}
	return &PostgresStore{db: db, profile: profile}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := `SELECT value FROM client_state WHERE profile = $1 AND key = $2`
	err := s.db.GetContext(ctx, &value, query, s.profile, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "select %s", key)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO client_state (profile, key, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `
	_, err := s.db.ExecContext(ctx, query, s.profile, key, value)
	return errors.Wrapf(err, "upsert %s", key)
}

func (s *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM client_state WHERE profile = ? AND key IN (?)`, s.profile, keys)
	if err != nil {
		return errors.Wrap(err, "build delete")
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return errors.Wrap(err, "delete client state")
}

func (s *PostgresStore) Close() error { return s.db.Close() }
