package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg := Config{}
	require.NoError(t, env.Parse(&cfg))

	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "documents", cfg.Mongo.Collection)
	require.Equal(t, "postgres", cfg.Identity.Driver)
	require.Equal(t, 7*24*time.Hour, cfg.Export.LinkTTL)
	require.Equal(t, `"BudgetByMe" <noreply@BudgetByMe.com>`, cfg.Mail.From)
	require.Equal(t, 8, cfg.Jobs.Concurrency)
	require.Equal(t, 16, cfg.Identity.LockConns)
}

func TestConfig_JWTSecretRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg := Config{}
	require.Error(t, env.Parse(&cfg))
}

func TestConfig_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("IDENTITY_DRIVER", "sqlite")
	t.Setenv("EXPORT_LINK_TTL", "24h")
	t.Setenv("TG_ALERT_CHAT_ID", "-100123")

	cfg := Config{}
	require.NoError(t, env.Parse(&cfg))

	require.Equal(t, "sqlite", cfg.Identity.Driver)
	require.Equal(t, 24*time.Hour, cfg.Export.LinkTTL)
	require.Equal(t, int64(-100123), cfg.Telegram.AlertChatID)
}
