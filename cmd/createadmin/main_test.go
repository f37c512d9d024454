package main

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"team-task-manager/config"
	"team-task-manager/internal/auth"
	"team-task-manager/internal/entities"
	"team-task-manager/internal/repository/postgres"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestParseFlags(t *testing.T) {
	env := map[string]string{passwordEnv: "from-env"}
	getenv := func(k string) string { return env[k] }

	opts, err := parseFlags([]string{"-email", "root@example.com", "-first-name", "Ada", "-last-name", "Lovelace"}, getenv, io.Discard)
	require.NoError(t, err)
	require.Equal(t, options{Email: "root@example.com", FirstName: "Ada", LastName: "Lovelace", Password: "from-env"}, opts)

	opts, err = parseFlags([]string{"-email", "root@example.com", "-password", "from-flag"}, getenv, io.Discard)
	require.NoError(t, err)
	require.Equal(t, "from-flag", opts.Password)

	_, err = parseFlags([]string{"-first-name", "Ada"}, getenv, io.Discard)
	require.ErrorContains(t, err, "-email is required")

	_, err = parseFlags([]string{"-email", "root@example.com"}, func(string) string { return "" }, io.Discard)
	require.ErrorContains(t, err, passwordEnv)

	_, err = parseFlags([]string{"-unknown"}, getenv, io.Discard)
	require.Error(t, err)
}

func TestRunCreatesAdminIntegration(t *testing.T) {
	ctx := context.Background()
	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)
	log := zap.NewNop().Sugar()

	opts := options{Email: " root@example.com ", FirstName: "Ada", LastName: "Lovelace", Password: "secret-pw"}

	admin, err := run(ctx, cfg, log, opts)
	require.NoError(t, err)
	require.Equal(t, "root@example.com", admin.Email)
	require.Equal(t, entities.RoleAdmin, admin.Role)

	_, err = run(ctx, cfg, log, opts)
	require.ErrorIs(t, err, entities.ErrEmailTaken)

	_, err = run(ctx, cfg, log, options{Email: "short@example.com", FirstName: "Ada", LastName: "Lovelace", Password: "12345"})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo := postgres.New(ctx, log, cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	creds, err := repo.GetCredentials(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, admin.ID, creds.UserID)
	require.Equal(t, entities.RoleAdmin, creds.Role)
	require.True(t, auth.NewHasher(bcrypt.MinCost).Verify(creds.PasswordHash, "secret-pw"))

	_, err = repo.GetUserByEmail(ctx, "short@example.com")
	require.ErrorIs(t, err, entities.ErrUserNotFound)
}

func setupPostgres(t *testing.T) (*config.Config, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=team_task_manager_db",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	hostPort := resource.GetPort("5432/tcp")
	port, err := strconv.Atoi(hostPort)
	require.NoError(t, err)
	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "db", "migrations"))
	require.NoError(t, err)
	require.DirExists(t, migrationsDir)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Postgres: config.PostgresConfig{
			Host:           "localhost",
			Port:           port,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "team_task_manager_db",
			SSLMode:        "disable",
			MigrationsDir:  migrationsDir,
			QueryTimeout:   10 * time.Second,
			MigrateTimeout: 20 * time.Second,
			MaxConns:       4,
			MinConns:       1,
		},
		Auth: config.AuthConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
			BcryptCost:    bcrypt.MinCost,
		},
	}

	require.NoError(t, pool.Retry(func() error {
		db, err := sql.Open("postgres", "host=localhost port="+hostPort+" user=postgres password=postgres dbname=team_task_manager_db sslmode=disable")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}))

	return cfg, func() { _ = pool.Purge(resource) }
}
