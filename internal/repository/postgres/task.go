package postgres

import (
	"context"
	"errors"
	"fmt"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	taskColumns   = "t.id, t.title, t.description, t.creator_id, t.status, t.priority, t.due_date, t.team_id, t.created_at, t.updated_at"
	taskFilterSQL = `
  AND ($2::text[] IS NULL OR t.status = ANY($2))
  AND ($3::text[] IS NULL OR t.priority = ANY($3))`

	insertTaskQuery = `
INSERT INTO tasks AS t (title, description, creator_id, status, priority, due_date, team_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + taskColumns
	selectTaskQuery    = `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id=$1`
	listTasksQuery     = `SELECT ` + taskColumns + ` FROM tasks t ORDER BY t.id`
	listTeamTasksQuery = `SELECT ` + taskColumns + ` FROM tasks t WHERE t.team_id=$1` + taskFilterSQL + ` ORDER BY t.id`
	listUserTasksQuery = `
SELECT ` + taskColumns + ` FROM tasks t
WHERE (t.creator_id=$1 OR EXISTS (SELECT 1 FROM task_assignees ta WHERE ta.task_id = t.id AND ta.user_id = $1))` + taskFilterSQL + `
  AND ($4::bigint IS NULL OR t.team_id = $4)
ORDER BY t.id`
	updateTaskQuery = `
UPDATE tasks AS t SET
    title = COALESCE($2, t.title),
    description = COALESCE($3, t.description),
    priority = COALESCE($4, t.priority),
    due_date = COALESCE($5, t.due_date),
    updated_at = NOW()
WHERE t.id=$1
RETURNING ` + taskColumns
	deleteTaskQuery       = `DELETE FROM tasks WHERE id=$1`
	lockTaskStatusQuery   = `SELECT status FROM tasks WHERE id=$1 FOR UPDATE`
	updateTaskStatusQuery = `UPDATE tasks AS t SET status=$2, updated_at=NOW() WHERE t.id=$1 RETURNING ` + taskColumns
	insertHistoryQuery    = `INSERT INTO task_status_history(task_id, changed_by_id, new_status) VALUES ($1, $2, $3)`
	listHistoryQuery      = `
SELECT id, task_id, changed_by_id, new_status, changed_at
FROM task_status_history
WHERE task_id=$1
ORDER BY changed_at, id`
	isAssigneeQuery    = `SELECT EXISTS (SELECT 1 FROM task_assignees WHERE task_id=$1 AND user_id=$2)`
	creatorEmailsQuery = `SELECT id, email FROM users WHERE id = ANY($1)`
	taskAssigneesQuery = `
SELECT ta.task_id, ta.user_id, u.email, ta.role, ta.assigned_at
FROM task_assignees ta
JOIN users u ON u.id = ta.user_id
WHERE ta.task_id = ANY($1)
ORDER BY ta.assigned_at, ta.user_id`
)

func scanTask(row pgx.Row) (*entities.Task, error) {
	var t entities.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.CreatorID, &t.Status, &t.Priority,
		&t.DueDate, &t.TeamID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]entities.Task, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Task, error) {
		t, err := scanTask(row)
		if err != nil {
			return entities.Task{}, err
		}
		return *t, nil
	})
}

func filterArgs(f entities.TaskFilter) ([]string, []string) {
	var statuses, priorities []string
	for _, s := range f.Statuses {
		statuses = append(statuses, string(s))
	}
	for _, p := range f.Priorities {
		priorities = append(priorities, string(p))
	}
	return statuses, priorities
}

// CreateTask inserts a task.
func (p *Postgres) CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error) {
	created, err := scanTask(p.db.QueryRow(ctx, insertTaskQuery,
		task.Title, task.Description, task.CreatorID, task.Status, task.Priority, task.DueDate, task.TeamID))
	if err != nil {
		if violates(err, codeForeignKeyViolation, "") {
			return nil, entities.ErrTeamNotFound
		}
		p.log.Errorw("failed to insert task", "error", err, "team_id", task.TeamID)
		return nil, fmt.Errorf("insert task: %w", err)
	}

	p.log.Infow("task created", "task_id", created.ID, "team_id", created.TeamID, "creator_id", created.CreatorID)
	return created, nil
}

// GetTask fetches task by id.
func (p *Postgres) GetTask(ctx context.Context, taskID int64) (*entities.Task, error) {
	return p.getTask(ctx, p.db, taskID)
}

func (p *Postgres) getTask(ctx context.Context, q querier, taskID int64) (*entities.Task, error) {
	t, err := scanTask(q.QueryRow(ctx, selectTaskQuery, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// GetTaskDetails fetches task with creator email and assignees.
func (p *Postgres) GetTaskDetails(ctx context.Context, taskID int64) (*entities.TaskDetails, error) {
	t, err := p.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	details, err := p.loadTaskDetails(ctx, p.db, []entities.Task{*t})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (p *Postgres) loadTaskDetails(ctx context.Context, q querier, tasks []entities.Task) ([]entities.TaskDetails, error) {
	out := make([]entities.TaskDetails, 0, len(tasks))
	if len(tasks) == 0 {
		return out, nil
	}

	taskIDs := make([]int64, 0, len(tasks))
	creatorIDs := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
		creatorIDs = append(creatorIDs, t.CreatorID)
	}

	rows, err := q.Query(ctx, creatorEmailsQuery, creatorIDs)
	if err != nil {
		return nil, fmt.Errorf("get creators: %w", err)
	}
	emails := make(map[int64]string, len(creatorIDs))
	var (
		id    int64
		email string
	)
	_, err = pgx.ForEachRow(rows, []any{&id, &email}, func() error {
		emails[id] = email
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan creators: %w", err)
	}

	rows, err = q.Query(ctx, taskAssigneesQuery, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("get assignees: %w", err)
	}
	assignees := make(map[int64][]entities.TaskAssignee, len(taskIDs))
	var (
		taskID int64
		a      entities.TaskAssignee
	)
	_, err = pgx.ForEachRow(rows, []any{&taskID, &a.UserID, &a.Email, &a.Role, &a.AssignedAt}, func() error {
		assignees[taskID] = append(assignees[taskID], a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan assignees: %w", err)
	}

	for _, t := range tasks {
		list := assignees[t.ID]
		if list == nil {
			list = []entities.TaskAssignee{}
		}
		out = append(out, entities.TaskDetails{Task: t, CreatorEmail: emails[t.CreatorID], Assignees: list})
	}
	return out, nil
}

// ListTasks returns all tasks.
func (p *Postgres) ListTasks(ctx context.Context) ([]entities.Task, error) {
	rows, err := p.db.Query(ctx, listTasksQuery)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return tasks, nil
}

// ListTeamTasks returns tasks of a team narrowed by filter.
func (p *Postgres) ListTeamTasks(ctx context.Context, teamID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	statuses, priorities := filterArgs(filter)
	rows, err := p.db.Query(ctx, listTeamTasksQuery, teamID, statuses, priorities)
	if err != nil {
		return nil, fmt.Errorf("list team tasks: %w", err)
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, fmt.Errorf("scan team tasks: %w", err)
	}
	return tasks, nil
}

// ListUserTasks returns tasks created by or assigned to a user.
func (p *Postgres) ListUserTasks(ctx context.Context, userID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	statuses, priorities := filterArgs(filter)
	rows, err := p.db.Query(ctx, listUserTasksQuery, userID, statuses, priorities, filter.TeamID)
	if err != nil {
		return nil, fmt.Errorf("list user tasks: %w", err)
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, fmt.Errorf("scan user tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update.
func (p *Postgres) UpdateTask(ctx context.Context, taskID int64, upd entities.TaskUpdate) (*entities.Task, error) {
	t, err := scanTask(p.db.QueryRow(ctx, updateTaskQuery, taskID, upd.Title, upd.Description, upd.Priority, upd.DueDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		p.log.Errorw("failed to update task", "error", err, "task_id", taskID)
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// DeleteTask removes a task with its assignments, comments and evaluations.
func (p *Postgres) DeleteTask(ctx context.Context, taskID int64) error {
	tag, err := p.db.Exec(ctx, deleteTaskQuery, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrTaskNotFound
	}
	p.log.Infow("task deleted", "task_id", taskID)
	return nil
}

// UpdateTaskStatus sets a new status and records the change. Setting the current status is a no-op.
func (p *Postgres) UpdateTaskStatus(ctx context.Context, taskID int64, status entities.TaskStatus, changedBy int64) (*entities.Task, error) {
	var res *entities.Task
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		var current entities.TaskStatus
		if err := tx.QueryRow(ctx, lockTaskStatusQuery, taskID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrTaskNotFound
			}
			return fmt.Errorf("lock task: %w", err)
		}

		if current == status {
			t, err := p.getTask(ctx, tx, taskID)
			res = t
			return err
		}

		t, err := scanTask(tx.QueryRow(ctx, updateTaskStatusQuery, taskID, status))
		if err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		if _, err := tx.Exec(ctx, insertHistoryQuery, taskID, changedBy, status); err != nil {
			return fmt.Errorf("insert status history: %w", err)
		}
		res = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("task status changed", "task_id", taskID, "status", status, "changed_by", changedBy)
	return res, nil
}

// ListStatusHistory returns status changes of a task in chronological order.
func (p *Postgres) ListStatusHistory(ctx context.Context, taskID int64) ([]entities.StatusChange, error) {
	rows, err := p.db.Query(ctx, listHistoryQuery, taskID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	history, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.StatusChange, error) {
		var c entities.StatusChange
		err := row.Scan(&c.ID, &c.TaskID, &c.ChangedByID, &c.NewStatus, &c.ChangedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan status history: %w", err)
	}
	return history, nil
}

// IsTaskAssignee reports whether userID is assigned to taskID.
func (p *Postgres) IsTaskAssignee(ctx context.Context, taskID, userID int64) (bool, error) {
	var ok bool
	if err := p.db.QueryRow(ctx, isAssigneeQuery, taskID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check assignee: %w", err)
	}
	return ok, nil
}
