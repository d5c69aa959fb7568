package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbay/pkg/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, MailModePrint, cfg.MailMode)
	assert.Empty(t, cfg.MailPermitted)
	assert.Equal(t, "fBay", cfg.MailSiteName)
	assert.Equal(t, "£", cfg.MailCurrency)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.SweepLockTTL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "host=db user=fbay")
	t.Setenv("MAIL_MODE", "smtp")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("MAIL_PERMITTED_REGEX", `@example\.org$, ^qa\+ ,`)
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "host=db user=fbay", cfg.DatabaseDSN)
	assert.Equal(t, MailModeSMTP, cfg.MailMode)
	assert.Equal(t, "465", cfg.SMTPPort)
	assert.Equal(t, []string{`@example\.org$`, `^qa\+`}, cfg.MailPermitted)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing secret", env: map[string]string{}, want: "JWT_SECRET is required"},
		{name: "bad driver", env: map[string]string{"JWT_SECRET": "s", "DATABASE_DRIVER": "mysql"}, want: "unsupported DATABASE_DRIVER"},
		{name: "bad mail mode", env: map[string]string{"JWT_SECRET": "s", "MAIL_MODE": "pigeon"}, want: "unsupported MAIL_MODE"},
		{name: "smtp without host", env: map[string]string{"JWT_SECRET": "s", "MAIL_MODE": "smtp"}, want: "SMTP_HOST is required"},
		{name: "permitted without host", env: map[string]string{"JWT_SECRET": "s", "MAIL_PERMITTED_REGEX": "x"}, want: "SMTP_HOST is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(viper.New())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	logger.SetOutput(io.Discard)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FBAY_DOTENV_PROBE=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FBAY_DOTENV_PROBE") })

	LoadDotEnv(path)
	assert.Equal(t, "loaded", os.Getenv("FBAY_DOTENV_PROBE"))

	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}
