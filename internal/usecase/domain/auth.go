package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"team-task-manager/internal/auth"
	"team-task-manager/internal/entities"
)

// Login verifies credentials and issues an access/refresh pair carrying current memberships.
func (u *Usecase) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return auth.TokenPair{}, entities.ErrBadCredentials
	}

	creds, err := u.repo.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return auth.TokenPair{}, entities.ErrBadCredentials
		}
		return auth.TokenPair{}, err
	}
	if !u.hasher.Verify(creds.PasswordHash, password) {
		u.log.Warnw("login rejected", "user_id", creds.UserID)
		return auth.TokenPair{}, entities.ErrBadCredentials
	}

	pair, err := u.tokens.IssuePair(auth.Principal{UserID: creds.UserID, Role: creds.Role, Teams: creds.Teams})
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	u.log.Infow("user logged in", "user_id", creds.UserID)
	return pair, nil
}

// Refresh exchanges a refresh token for a new access token with the same claims.
func (u *Usecase) Refresh(_ context.Context, refreshToken string) (string, error) {
	p, err := u.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	access, err := u.tokens.IssueAccess(*p)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}
