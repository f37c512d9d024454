package domain

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"team-task-manager/internal/entities"
)

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email", entities.ErrInvalidArgument)
	}
	return nil
}

// bcrypt ignores input past 72 bytes and x/crypto rejects it outright.
const maxPasswordBytes = 72

func validatePassword(password string) error {
	switch {
	case password == "":
		return fmt.Errorf("%w: password is required", entities.ErrInvalidArgument)
	case len(password) > maxPasswordBytes:
		return fmt.Errorf("%w: password must be at most %d bytes", entities.ErrInvalidArgument, maxPasswordBytes)
	}
	return nil
}

// Register creates a user with a hashed password and the default role.
func (u *Usecase) Register(ctx context.Context, user entities.User, password string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	user.Email = strings.TrimSpace(user.Email)
	if err := validateEmail(user.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.Role = entities.RoleUser

	return u.repo.CreateUser(ctx, user)
}

const (
	adminNameMax        = 20
	adminPasswordMinLen = 6
)

// CreateAdmin creates a global admin. It backs the createadmin command and has no HTTP route.
func (u *Usecase) CreateAdmin(ctx context.Context, user entities.User, password string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	user.Email = strings.TrimSpace(user.Email)
	if err := validateEmail(user.Email); err != nil {
		return nil, err
	}
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	names := []struct{ field, value string }{{"first_name", user.FirstName}, {"last_name", user.LastName}}
	for _, name := range names {
		if n := utf8.RuneCountInString(name.value); n == 0 || n > adminNameMax {
			return nil, fmt.Errorf("%w: %s must be 1..%d characters", entities.ErrInvalidArgument, name.field, adminNameMax)
		}
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if len(password) < adminPasswordMinLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", entities.ErrInvalidArgument, adminPasswordMinLen)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.Role = entities.RoleAdmin

	created, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	u.log.Infow("admin created", "user_id", created.ID)
	return created, nil
}

// ListUsers returns every user.
func (u *Usecase) ListUsers(ctx context.Context) ([]entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListUsers(ctx)
}

// UserWithTeams returns a user and its memberships.
func (u *Usecase) UserWithTeams(ctx context.Context, userID int64) (*entities.UserWithTeams, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetUserWithTeams(ctx, userID)
}

// UpdateUser applies a partial profile update. A new email must be free and a new password is re-hashed.
func (u *Usecase) UpdateUser(ctx context.Context, userID int64, upd entities.UserUpdate) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		existing, err := u.repo.GetUserByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != userID:
			return nil, entities.ErrEmailTaken
		case err != nil && !errors.Is(err, entities.ErrUserNotFound):
			return nil, err
		}
		upd.Email = &email
	}

	upd.PasswordHash = nil
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return nil, err
		}
		hash, err := u.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
		upd.Password = nil
	}

	return u.repo.UpdateUser(ctx, userID, upd)
}

// SetUserRole changes the global role of a user.
func (u *Usecase) SetUserRole(ctx context.Context, userID int64, role entities.GlobalRole) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be one of user, manager, admin", entities.ErrInvalidArgument)
	}
	return u.repo.SetUserRole(ctx, userID, role)
}

// DeleteUser removes a user.
func (u *Usecase) DeleteUser(ctx context.Context, userID int64) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.DeleteUser(ctx, userID)
}

// ListTeamUsers returns users that belong to a team.
func (u *Usecase) ListTeamUsers(ctx context.Context, teamID int64) ([]entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListTeamUsers(ctx, teamID)
}
