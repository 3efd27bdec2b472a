package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"USER_SOURCE", "MOCK_USER_COUNT", "LOAD_DELAY", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "EVENTS_ENABLED", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, SourceMock, cfg.UserSource)
	assert.Equal(t, 50, cfg.MockUserCount)
	assert.Equal(t, 800*time.Millisecond, cfg.LoadDelay)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.EventsEnabled)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("USER_SOURCE", "Postgres")
	t.Setenv("MOCK_USER_COUNT", "12")
	t.Setenv("LOAD_DELAY", "0s")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200, http://es2:9200,")
	t.Setenv("DB_USER", "admin")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "dash")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()

	assert.Equal(t, SourcePostgres, cfg.UserSource)
	assert.Equal(t, 12, cfg.MockUserCount)
	assert.Zero(t, cfg.LoadDelay)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
	assert.Equal(t, "postgres://admin:secret@db:5433/dash?sslmode=require", cfg.PostgresDSN())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("USER_SOURCE", "mongo")
	t.Setenv("MOCK_USER_COUNT", "many")
	t.Setenv("LOAD_DELAY", "soon")
	t.Setenv("PERSIST_CHANGES", "perhaps")

	cfg := Load()

	assert.Equal(t, SourceMock, cfg.UserSource)
	assert.Equal(t, 50, cfg.MockUserCount)
	assert.Equal(t, 800*time.Millisecond, cfg.LoadDelay)
	assert.True(t, cfg.PersistChanges)
}

func TestSplitList(t *testing.T) {
	assert.Empty(t, splitList(""))
	assert.Empty(t, splitList(" , ,"))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
}
