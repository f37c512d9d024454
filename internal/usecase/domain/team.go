// Package domain contains application usecases orchestrating domain logic.
package domain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode/utf8"

	"team-task-manager/internal/entities"

	"github.com/google/uuid"
)

const (
	maxTeamName        = 50
	maxTeamDescription = 200
	maxInviteCode      = 20
)

var teamNamePattern = regexp.MustCompile(`^[\p{L}\p{N} _-]+$`)

// uuidDigits returns the first four decimal digits of a random uuid4 read as an integer.
func uuidDigits() string {
	id := uuid.New()
	digits := new(big.Int).SetBytes(id[:]).String()
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits
}

// inviteCode derives a code from a team name: spaces dropped, uppercased, suffixed with "-"+suffix.
// The name part is cut so that the whole code fits maxInviteCode characters.
func inviteCode(name, suffix string) string {
	base := []rune(strings.ToUpper(strings.ReplaceAll(name, " ", "")))
	tail := "-" + suffix
	if room := maxInviteCode - utf8.RuneCountInString(tail); len(base) > room {
		if room < 0 {
			room = 0
		}
		base = base[:room]
	}
	return string(base) + tail
}

func validateTeamName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > maxTeamName {
		return "", fmt.Errorf("%w: team name must be 1..%d characters", entities.ErrInvalidArgument, maxTeamName)
	}
	if !teamNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: team name may contain letters, digits, spaces, '-' and '_'", entities.ErrInvalidArgument)
	}
	return name, nil
}

func validateTeamDescription(desc string) error {
	if utf8.RuneCountInString(desc) > maxTeamDescription {
		return fmt.Errorf("%w: description must be at most %d characters", entities.ErrInvalidArgument, maxTeamDescription)
	}
	return nil
}

// CreateTeam creates a team with a fresh invite code and registers the creator as MANAGER.
// Invite code collisions are retried up to the configured number of attempts.
func (u *Usecase) CreateTeam(ctx context.Context, team entities.Team, creatorID int64) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	name, err := validateTeamName(team.Name)
	if err != nil {
		return nil, err
	}
	if err := validateTeamDescription(team.Description); err != nil {
		return nil, err
	}
	team.Name = name

	taken, err := u.repo.TeamNameTaken(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, entities.ErrTeamExists
	}

	if team.InviteCodeExpiresAt.IsZero() {
		team.InviteCodeExpiresAt = u.now().Add(u.inviteTTL)
	}

	for attempt := 1; attempt <= u.inviteAttempts; attempt++ {
		team.InviteCode = inviteCode(name, u.inviteSuffix())
		created, err := u.repo.CreateTeam(ctx, team, creatorID)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, entities.ErrInviteCodeConflict) {
			return nil, err
		}
		u.log.Warnw("invite code collision", "team", name, "attempt", attempt)
	}
	return nil, entities.ErrInviteCodeExhausted
}

// ListTeams returns all teams.
func (u *Usecase) ListTeams(ctx context.Context) ([]entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListTeams(ctx)
}

// TeamDetails returns a team with members and tasks.
func (u *Usecase) TeamDetails(ctx context.Context, teamID int64) (*entities.TeamDetails, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetTeamDetails(ctx, teamID)
}

var errTeamRenameTaken = fmt.Errorf("%w: Team name already exists", entities.ErrTeamExists)

// UpdateTeam applies a partial update. Renaming regenerates the invite code and its expiry.
func (u *Usecase) UpdateTeam(ctx context.Context, teamID int64, upd entities.TeamUpdate) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	upd.InviteCode, upd.InviteCodeExpiresAt = nil, nil

	if upd.Description != nil {
		if err := validateTeamDescription(*upd.Description); err != nil {
			return nil, err
		}
	}
	if upd.Name != nil {
		name, err := validateTeamName(*upd.Name)
		if err != nil {
			return nil, err
		}
		taken, err := u.repo.TeamNameTaken(ctx, name, teamID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errTeamRenameTaken
		}

		code := inviteCode(name, u.inviteSuffix())
		expires := u.now().Add(u.inviteTTL)
		upd.Name, upd.InviteCode, upd.InviteCodeExpiresAt = &name, &code, &expires
	}

	team, err := u.repo.UpdateTeam(ctx, teamID, upd)
	if errors.Is(err, entities.ErrTeamExists) {
		return nil, errTeamRenameTaken
	}
	return team, err
}

// DeleteTeam removes a team.
func (u *Usecase) DeleteTeam(ctx context.Context, teamID int64) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.DeleteTeam(ctx, teamID)
}

// RegenerateInvite issues a fresh invite code and expiry for a team.
func (u *Usecase) RegenerateInvite(ctx context.Context, teamID int64) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	team, err := u.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= u.inviteAttempts; attempt++ {
		code := inviteCode(team.Name, u.inviteSuffix())
		expires := u.now().Add(u.inviteTTL)
		updated, err := u.repo.UpdateTeam(ctx, teamID, entities.TeamUpdate{InviteCode: &code, InviteCodeExpiresAt: &expires})
		if err == nil {
			u.log.Infow("invite code regenerated", "team_id", teamID)
			return updated, nil
		}
		if !errors.Is(err, entities.ErrInviteCodeConflict) {
			return nil, err
		}
	}
	return nil, entities.ErrInviteCodeExhausted
}

// JoinTeam adds the caller as EXECUTOR of the team owning an active, unexpired invite code.
func (u *Usecase) JoinTeam(ctx context.Context, code string, userID int64) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: invite_code is required", entities.ErrInvalidArgument)
	}

	team, err := u.repo.GetTeamByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !team.IsActive || !u.now().Before(team.InviteCodeExpiresAt) {
		return nil, entities.ErrInviteExpired
	}
	if err := u.repo.JoinTeam(ctx, team.ID, userID, entities.TeamRoleExecutor); err != nil {
		return nil, err
	}
	return team, nil
}
