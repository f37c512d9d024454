package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"team-task-manager/internal/entities"
)

func normalizeMember(add entities.MemberAdd) (entities.MemberAdd, error) {
	add.Email = strings.TrimSpace(add.Email)
	if add.Email == "" {
		return add, fmt.Errorf("%w: email is required", entities.ErrInvalidArgument)
	}
	if add.Role == "" {
		add.Role = entities.TeamRoleExecutor
	}
	if !add.Role.Valid() {
		return add, fmt.Errorf("%w: role must be MANAGER or EXECUTOR", entities.ErrInvalidArgument)
	}
	return add, nil
}

// AddTeamMember adds a user by email.
func (u *Usecase) AddTeamMember(ctx context.Context, teamID int64, add entities.MemberAdd) (*entities.TeamMember, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	add, err := normalizeMember(add)
	if err != nil {
		return nil, err
	}
	if _, err := u.repo.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}

	m, err := u.repo.AddTeamMember(ctx, teamID, add)
	if errors.Is(err, entities.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: User with this email not found", entities.ErrUserNotFound)
	}
	return m, err
}

// AddTeamMembers adds users by email; each entry succeeds or fails on its own.
func (u *Usecase) AddTeamMembers(ctx context.Context, teamID int64, adds []entities.MemberAdd) (entities.BulkAddResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if len(adds) == 0 {
		return entities.BulkAddResult{}, fmt.Errorf("%w: user list must not be empty", entities.ErrInvalidArgument)
	}
	for i := range adds {
		add, err := normalizeMember(adds[i])
		if err != nil {
			return entities.BulkAddResult{}, err
		}
		adds[i] = add
	}
	return u.repo.AddTeamMembers(ctx, teamID, adds)
}

// RemoveTeamMember removes a single member.
func (u *Usecase) RemoveTeamMember(ctx context.Context, teamID, userID int64) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.RemoveTeamMember(ctx, teamID, userID)
}

// RemoveTeamMembers removes members and reports ids that were not members.
func (u *Usecase) RemoveTeamMembers(ctx context.Context, teamID int64, userIDs []int64) (entities.BulkRemoveResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if len(userIDs) == 0 {
		return entities.BulkRemoveResult{}, fmt.Errorf("%w: user_ids must not be empty", entities.ErrInvalidArgument)
	}
	return u.repo.RemoveTeamMembers(ctx, teamID, userIDs)
}

// UpdateTeamMemberRole changes the role of a member.
func (u *Usecase) UpdateTeamMemberRole(ctx context.Context, teamID, userID int64, role entities.TeamRole) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !role.Valid() {
		return fmt.Errorf("%w: role must be MANAGER or EXECUTOR", entities.ErrInvalidArgument)
	}
	return u.repo.UpdateTeamMemberRole(ctx, teamID, userID, role)
}
