package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "replay"
log_level = "debug"

[redis]
enabled = false
odds_ttl = "1m"

[s3]
bucket = "snapshots"
snapshot_prefix = "books/2026/"

[quote]
replay_quantity = 250
warm_interval = "45s"
`), 0o600))

	t.Chdir(dir)
	t.Setenv("CPMMQ_QUOTE_REPLAY_CONCURRENCY", "8")
	t.Setenv("CPMMQ_SERVER_CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("CPMMQ_REDIS_BOOK_TTL", "not-a-duration")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "replay", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Minute, cfg.Redis.OddsTTL.Duration)
	assert.Equal(t, 5*time.Second, cfg.Redis.BookTTL.Duration, "unparseable override is ignored")
	assert.Equal(t, "snapshots", cfg.S3.Bucket)
	assert.Equal(t, "books/2026/", cfg.S3.SnapshotPrefix)
	assert.Equal(t, 250.0, cfg.Quote.ReplayQuantity)
	assert.Equal(t, 45*time.Second, cfg.Quote.WarmInterval.Duration)
	assert.Equal(t, 8, cfg.Quote.ReplayConcurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "us-east-1", cfg.S3.Region, "defaults survive partial files")
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "trade"
	cfg.LogLevel = "loud"
	cfg.Redis.Addr = ""
	cfg.Redis.OddsTTL = Duration{}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `unknown mode "trade"`)
	assert.Contains(t, msg, `unknown log_level "loud"`)
	assert.Contains(t, msg, "redis: addr")
	assert.Contains(t, msg, "odds_ttl")
}

func TestValidateServerMode(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.Host = ""
	cfg.Server.Port = 70000
	cfg.Quote.BookDepth = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: host")
	assert.Contains(t, err.Error(), "server: port")
	assert.Contains(t, err.Error(), "book_depth")

	cfg.Postgres.DSN = "postgres://u:p@db/markets"
	cfg.Server.Port = 8080
	cfg.Quote.BookDepth = 5
	assert.NoError(t, cfg.Validate())
}

func TestValidateReplayMode(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "replay"
	cfg.S3.Bucket = ""
	cfg.Quote.ReplayQuantity = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3: bucket")
	assert.Contains(t, err.Error(), "replay_quantity")
}

func TestRedacted(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.Password = "hunter2"
	cfg.Server.APIKey = "k"

	out := Redacted(&cfg)
	assert.Equal(t, "***", out.Postgres.Password)
	assert.Equal(t, "***", out.Server.APIKey)
	assert.Empty(t, out.S3.AccessKey)
	assert.Equal(t, "hunter2", cfg.Postgres.Password)

	out.Server.CORSOrigins[0] = "changed"
	assert.NotEqual(t, "changed", cfg.Server.CORSOrigins[0])
}
