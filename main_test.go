package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbay/internal/repositories"
	"fbay/pkg/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	logger.SetOutput(io.Discard)
	dsn := filepath.Join(t.TempDir(), "fbay.db")
	t.Setenv("JWT_SECRET", "test_jwt_secret")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", dsn)
	t.Setenv("MEDIA_DIR", t.TempDir())
	t.Setenv("MAIL_MODE", "print")
	t.Setenv("MAIL_QUEUE", "false")
	t.Setenv("REDIS_URL", "")
	return dsn
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"serve", "sweep", "mailer", "migrate"} {
		assert.Contains(t, names, want)
	}
}

func TestMigrateCommand(t *testing.T) {
	dsn := setupEnv(t)

	out, err := execute(t, "migrate", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.Contains(t, out, "schema is up to date")

	db, err := repositories.Open("sqlite", dsn)
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	defer sqlDB.Close()
	assert.True(t, db.Migrator().HasTable("items"))
	assert.True(t, db.Migrator().HasTable("item_queries"))
	assert.True(t, db.Migrator().HasTable("users"))
}

func TestSweepCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "sweep", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.Contains(t, out, "completed 0 auctions")
}

func TestConfigErrorsStopCommands(t *testing.T) {
	setupEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "migrate", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	assert.ErrorContains(t, err, "JWT_SECRET is required")
}
