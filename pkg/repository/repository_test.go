package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, KeyAccessToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, KeyAccessToken, "access-1"))
	require.NoError(t, s.Set(ctx, KeyRefreshToken, "refresh-1"))
	require.NoError(t, s.Set(ctx, KeyAccessToken, "access-2"))

	v, err := s.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access-2", v)

	require.NoError(t, s.Delete(ctx, KeyAccessToken, KeyRefreshToken))
	_, err = s.Get(ctx, KeyRefreshToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyAccessToken, "a-very-long-access-token-value"))
	require.NoError(t, s.Set(ctx, KeyRefreshToken, "r"))
	require.NoError(t, s.Set(ctx, KeyAccessToken, "short"))
	require.NoError(t, s.Close())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "short", v)
	v, err = reopened.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "r", v)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	for _, v := range []string{"one", "two", "three"} {
		require.NoError(t, s.Set(ctx, KeyAccessToken, v))
	}
	require.NoError(t, s.Delete(ctx, KeyAccessToken))
	require.NoError(t, s.Set(ctx, KeyTheme, "dark"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap fileSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, map[string]string{KeyTheme: "dark"}, snap.Values)
}

func TestFileStoreFailedFlushKeepsDocument(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyAccessToken, "access-1"))

	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })
	assert.Error(t, s.Set(ctx, KeyAccessToken, "access-2"))
	require.NoError(t, os.Chmod(dir, 0o700))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := reopened.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access-1", v)
}

func TestFileStoreRejectsCanceledContext(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, s.Set(ctx, KeyTheme, "dark"))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, KeyPrefix: "betwallet:test:"})
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set; skipping postgres storage test")
	}
	db, err := NewPostgresDB(PostgresConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		Username: os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASS"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  "disable",
	})
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	s, err := NewPostgresStoreForProfile(context.Background(), db, "test")
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestOpenPostgresStoreClosesDBOnSetupFailure(t *testing.T) {
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 user=nobody dbname=none sslmode=disable connect_timeout=1")
	require.NoError(t, err)

	s, err := openPostgresStore(context.Background(), db, "")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.EqualError(t, db.PingContext(context.Background()), "sql: database is closed")
}

func TestOpenSelectsDriver(t *testing.T) {
	s, err := Open(context.Background(), Config{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(context.Background(), Config{Driver: "file", FilePath: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(context.Background(), Config{Driver: "etcd"})
	assert.Error(t, err)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p, err := LoadPreferences(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences, p)

	require.NoError(t, SavePreferences(ctx, s, Preferences{Theme: "dark"}))
	p, err = LoadPreferences(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Preferences{Theme: "dark", Language: DefaultPreferences.Language}, p)

	assert.Error(t, SavePreferences(ctx, s, Preferences{Theme: "purple"}))
}
