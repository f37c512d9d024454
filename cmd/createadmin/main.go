// Package main creates the first global admin account.
//
//	go run ./cmd/createadmin -email admin@example.com -first-name Ada -last-name Lovelace
//
// The password is read from -password or the ADMIN_PASSWORD environment variable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"team-task-manager/config"
	"team-task-manager/internal/auth"
	"team-task-manager/internal/entities"
	"team-task-manager/internal/repository/postgres"
	"team-task-manager/internal/usecase/domain"
	"team-task-manager/pkg/logger"

	"go.uber.org/zap"
)

const passwordEnv = "ADMIN_PASSWORD"

type options struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

func parseFlags(args []string, getenv func(string) string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.Email, "email", "", "admin email")
	fs.StringVar(&opts.FirstName, "first-name", "", "admin first name (1..20 characters)")
	fs.StringVar(&opts.LastName, "last-name", "", "admin last name (1..20 characters)")
	fs.StringVar(&opts.Password, "password", "", "admin password, defaults to $"+passwordEnv)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.Password == "" {
		opts.Password = getenv(passwordEnv)
	}
	if opts.Email == "" {
		return options{}, errors.New("-email is required")
	}
	if opts.Password == "" {
		return options{}, fmt.Errorf("-password or %s is required", passwordEnv)
	}
	return opts, nil
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, opts options) (*entities.User, error) {
	repo := postgres.New(ctx, log, cfg)
	if err := repo.OnStart(ctx); err != nil {
		return nil, fmt.Errorf("repository start: %w", err)
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	uc := domain.New(log, ctx, repo, auth.NewIssuer(cfg.Auth), auth.NewHasher(cfg.Auth.BcryptCost), domain.Config{
		Timeout:        cfg.HTTP.RequestTimeout,
		InviteTTL:      cfg.Teams.InviteTTL,
		InviteAttempts: cfg.Teams.InviteAttempts,
	})

	return uc.CreateAdmin(ctx, entities.User{
		Email:     opts.Email,
		FirstName: opts.FirstName,
		LastName:  opts.LastName,
	}, opts.Password)
}

func main() {
	os.Exit(createAdmin())
}

func createAdmin() int {
	opts, err := parseFlags(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	admin, err := run(ctx, cfg, log, opts)
	switch {
	case errors.Is(err, entities.ErrEmailTaken):
		log.Errorw("user with this email already exists", "email", opts.Email)
		return 1
	case err != nil:
		log.Errorw("create admin failed", "error", err)
		return 1
	}
	log.Infow("admin ready", "user_id", admin.ID, "email", admin.Email)
	return 0
}
