package domain

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"team-task-manager/internal/entities"
)

const maxTaskTitle = 100

func validateTaskTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n == 0 || n > maxTaskTitle {
		return "", fmt.Errorf("%w: title must be 1..%d characters", entities.ErrInvalidArgument, maxTaskTitle)
	}
	return title, nil
}

func validateFilter(f entities.TaskFilter) error {
	for _, s := range f.Statuses {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, s)
		}
	}
	for _, p := range f.Priorities {
		if !p.Valid() {
			return fmt.Errorf("%w: unknown priority %q", entities.ErrInvalidArgument, p)
		}
	}
	return nil
}

// CreateTask creates a task in a team. Status and priority fall back to open and MEDIUM.
func (u *Usecase) CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	title, err := validateTaskTitle(task.Title)
	if err != nil {
		return nil, err
	}
	task.Title = title
	if task.Status == "" {
		task.Status = entities.TaskOpen
	}
	if task.Priority == "" {
		task.Priority = entities.PriorityMedium
	}
	if !task.Status.Valid() || !task.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown status or priority", entities.ErrInvalidArgument)
	}

	if _, err := u.repo.GetTeam(ctx, task.TeamID); err != nil {
		return nil, err
	}
	return u.repo.CreateTask(ctx, task)
}

// ListTasks returns every task.
func (u *Usecase) ListTasks(ctx context.Context) ([]entities.Task, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListTasks(ctx)
}

// ListTeamTasks returns tasks of a team narrowed by filter.
func (u *Usecase) ListTeamTasks(ctx context.Context, teamID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return u.repo.ListTeamTasks(ctx, teamID, filter)
}

// ListUserTasks returns tasks the user created or is assigned to.
func (u *Usecase) ListUserTasks(ctx context.Context, userID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return u.repo.ListUserTasks(ctx, userID, filter)
}

// TaskDetails returns a task with creator email and assignees.
func (u *Usecase) TaskDetails(ctx context.Context, taskID int64) (*entities.TaskDetails, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetTaskDetails(ctx, taskID)
}

// teamTask loads a task and hides it when it belongs to another team.
func (u *Usecase) teamTask(ctx context.Context, teamID, taskID int64) (*entities.Task, error) {
	task, err := u.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.TeamID != teamID {
		return nil, entities.ErrTaskNotFound
	}
	return task, nil
}

// UpdateTask applies a partial update to a team task.
func (u *Usecase) UpdateTask(ctx context.Context, teamID, taskID int64, upd entities.TaskUpdate) (*entities.Task, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if upd.Title != nil {
		title, err := validateTaskTitle(*upd.Title)
		if err != nil {
			return nil, err
		}
		upd.Title = &title
	}
	if upd.Priority != nil && !upd.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", entities.ErrInvalidArgument, *upd.Priority)
	}

	if _, err := u.teamTask(ctx, teamID, taskID); err != nil {
		return nil, err
	}
	return u.repo.UpdateTask(ctx, taskID, upd)
}

// DeleteTask removes a team task.
func (u *Usecase) DeleteTask(ctx context.Context, teamID, taskID int64) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.teamTask(ctx, teamID, taskID); err != nil {
		return err
	}
	return u.repo.DeleteTask(ctx, taskID)
}

// ChangeTaskStatus moves a team task to status and records who did it.
func (u *Usecase) ChangeTaskStatus(ctx context.Context, teamID, taskID int64, status entities.TaskStatus, changedBy int64) (*entities.Task, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of open, in_progress, done", entities.ErrInvalidArgument)
	}
	if _, err := u.teamTask(ctx, teamID, taskID); err != nil {
		return nil, err
	}

	task, err := u.repo.UpdateTaskStatus(ctx, taskID, status, changedBy)
	if err != nil {
		return nil, err
	}
	u.log.Infow("task status changed", "task_id", taskID, "status", status, "changed_by", changedBy)
	return task, nil
}

// TaskHistory returns status changes of a task in chronological order.
func (u *Usecase) TaskHistory(ctx context.Context, taskID int64) ([]entities.StatusChange, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.repo.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return u.repo.ListStatusHistory(ctx, taskID)
}

// IsTaskAssignee reports whether the user is assigned to the task.
func (u *Usecase) IsTaskAssignee(ctx context.Context, taskID, userID int64) (bool, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.IsTaskAssignee(ctx, taskID, userID)
}
