package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "discord-token")
	t.Setenv("WITAI_TOKEN", "wit-token")
	t.Setenv("DB_NAME", "ticketbot")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "discord-token", cfg.Discord.Token)
	assert.Equal(t, "wit-token", cfg.NLP.Token)
	assert.Equal(t, "ticketbot", cfg.Mongo.Database)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "https://api.wit.ai", cfg.NLP.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ServerTTL())
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.True(t, cfg.Mongo.EnsureIndexes)
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, key := range []string{"DISCORD_TOKEN", "WITAI_TOKEN", "DB_NAME"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)

			var missing *MissingEnvError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, key, missing.Key)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SERVER_CACHE_TTL_SECONDS", "0")
	t.Setenv("WITAI_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("MONGO_ENSURE_INDEXES", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, time.Duration(0), cfg.Redis.ServerTTL())
	assert.Equal(t, 10*time.Second, cfg.NLP.Timeout())
	assert.False(t, cfg.Mongo.EnsureIndexes)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestLoadAuth_IgnoresBotCredentials(t *testing.T) {
	for _, key := range []string{"DISCORD_TOKEN", "WITAI_TOKEN", "DB_NAME"} {
		t.Setenv(key, "")
	}
	t.Setenv("ADMIN_JWT_SECRET", "s3cret")

	assert.Equal(t, AuthConfig{JWTSecret: "s3cret"}, LoadAuth())

	_, err := Load()
	assert.Error(t, err)
}
