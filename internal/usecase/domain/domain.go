package domain

import (
	"context"
	"time"

	"team-task-manager/internal/auth"
	"team-task-manager/internal/repository"

	"go.uber.org/zap"
)

// TokenIssuer signs and validates JWTs.
type TokenIssuer interface {
	IssuePair(p auth.Principal) (auth.TokenPair, error)
	IssueAccess(p auth.Principal) (string, error)
	ParseRefresh(token string) (*auth.Principal, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Config holds usecase tunables.
type Config struct {
	Timeout        time.Duration
	InviteTTL      time.Duration
	InviteAttempts int
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx    context.Context
	log    *zap.SugaredLogger
	repo   repository.Repository
	tokens TokenIssuer
	hasher PasswordHasher

	timeout        time.Duration
	inviteTTL      time.Duration
	inviteAttempts int

	now          func() time.Time
	inviteSuffix func() string
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	tokens TokenIssuer,
	hasher PasswordHasher,
	cfg Config,
) *Usecase {
	return &Usecase{
		ctx:            ctx,
		log:            log.Named("usecase"),
		repo:           repo,
		tokens:         tokens,
		hasher:         hasher,
		timeout:        cfg.Timeout,
		inviteTTL:      cfg.InviteTTL,
		inviteAttempts: cfg.InviteAttempts,
		now:            time.Now,
		inviteSuffix:   uuidDigits,
	}
}

// withTimeout bounds ctx by d; a non-positive d leaves the deadline as is.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
