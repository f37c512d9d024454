package domain

import (
	"context"
	"fmt"
	"strings"

	"team-task-manager/internal/entities"
)

const maxAssigneeRole = 20

func normalizeAssigneeRole(role string) (string, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return entities.DefaultAssigneeRole, nil
	}
	if len(role) > maxAssigneeRole {
		return "", fmt.Errorf("%w: role must be at most %d characters", entities.ErrInvalidArgument, maxAssigneeRole)
	}
	return role, nil
}

// AddAssignee assigns a user to a team task.
func (u *Usecase) AddAssignee(ctx context.Context, teamID, taskID int64, add entities.AssigneeAdd) (*entities.TaskAssignee, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	role, err := normalizeAssigneeRole(add.Role)
	if err != nil {
		return nil, err
	}
	add.Role = role

	if _, err := u.teamTask(ctx, teamID, taskID); err != nil {
		return nil, err
	}
	return u.repo.AddAssignee(ctx, taskID, add)
}

// AddAssignees assigns several users; each entry succeeds or fails on its own.
func (u *Usecase) AddAssignees(ctx context.Context, teamID, taskID int64, adds []entities.AssigneeAdd) (entities.BulkAddResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if len(adds) == 0 {
		return entities.BulkAddResult{}, fmt.Errorf("%w: user list must not be empty", entities.ErrInvalidArgument)
	}
	for i := range adds {
		role, err := normalizeAssigneeRole(adds[i].Role)
		if err != nil {
			return entities.BulkAddResult{}, err
		}
		adds[i].Role = role
	}

	if _, err := u.teamTask(ctx, teamID, taskID); err != nil {
		return entities.BulkAddResult{}, err
	}
	return u.repo.AddAssignees(ctx, taskID, adds)
}

// RemoveAssignee unassigns a user.
func (u *Usecase) RemoveAssignee(ctx context.Context, teamID, taskID, userID int64) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.teamTask(ctx, teamID, taskID); err != nil {
		return err
	}
	return u.repo.RemoveAssignee(ctx, taskID, userID)
}

// RemoveAssignees unassigns users and reports ids that were not assigned.
func (u *Usecase) RemoveAssignees(ctx context.Context, teamID, taskID int64, userIDs []int64) (entities.BulkRemoveResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if len(userIDs) == 0 {
		return entities.BulkRemoveResult{}, fmt.Errorf("%w: user_ids must not be empty", entities.ErrInvalidArgument)
	}
	if _, err := u.teamTask(ctx, teamID, taskID); err != nil {
		return entities.BulkRemoveResult{}, err
	}
	return u.repo.RemoveAssignees(ctx, taskID, userIDs)
}

// UpdateAssigneeRole changes the role of an assignment.
func (u *Usecase) UpdateAssigneeRole(ctx context.Context, teamID, taskID, userID int64, role string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	role, err := normalizeAssigneeRole(role)
	if err != nil {
		return err
	}
	if _, err := u.teamTask(ctx, teamID, taskID); err != nil {
		return err
	}
	return u.repo.UpdateAssigneeRole(ctx, taskID, userID, role)
}
