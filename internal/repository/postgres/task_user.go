package postgres

import (
	"context"
	"errors"
	"fmt"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	selectAssigneeUser  = `SELECT email FROM users WHERE id=$1`
	insertAssigneeQuery = `
INSERT INTO task_assignees(task_id, user_id, role)
VALUES ($1, $2, $3)
RETURNING assigned_at`
	selectAssigneeCandidates = `
SELECT u.id, u.email, u.first_name, u.last_name, ta.user_id IS NOT NULL
FROM users u
LEFT JOIN task_assignees ta ON ta.user_id = u.id AND ta.task_id = $1
WHERE u.id = ANY($2)`
	deleteAssigneeQuery  = `DELETE FROM task_assignees WHERE task_id=$1 AND user_id=$2`
	deleteAssigneesQuery = `DELETE FROM task_assignees WHERE task_id=$1 AND user_id = ANY($2) RETURNING user_id`
	updateAssigneeRole   = `UPDATE task_assignees SET role=$3 WHERE task_id=$1 AND user_id=$2`
)

// AddAssignee assigns a user to a task.
func (p *Postgres) AddAssignee(ctx context.Context, taskID int64, add entities.AssigneeAdd) (*entities.TaskAssignee, error) {
	a := entities.TaskAssignee{UserID: add.UserID, Role: add.Role}
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := p.getTask(ctx, tx, taskID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, selectAssigneeUser, add.UserID).Scan(&a.Email); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrUserNotFound
			}
			return fmt.Errorf("lookup user: %w", err)
		}
		if err := tx.QueryRow(ctx, insertAssigneeQuery, taskID, add.UserID, add.Role).Scan(&a.AssignedAt); err != nil {
			if violates(err, codeUniqueViolation, "") {
				return entities.ErrAlreadyAssigned
			}
			return fmt.Errorf("insert assignee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("assignee added", "task_id", taskID, "user_id", add.UserID, "role", add.Role)
	return &a, nil
}

// AddAssignees assigns users to a task, collecting a message for every entry that could not be added.
func (p *Postgres) AddAssignees(ctx context.Context, taskID int64, adds []entities.AssigneeAdd) (entities.BulkAddResult, error) {
	res := entities.BulkAddResult{Added: []entities.AddedUser{}, Errors: []string{}}

	ids := make([]int64, 0, len(adds))
	for _, a := range adds {
		ids = append(ids, a.UserID)
	}

	type candidate struct {
		user     entities.AddedUser
		assigned bool
	}

	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := p.getTask(ctx, tx, taskID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, selectAssigneeCandidates, taskID, ids)
		if err != nil {
			return fmt.Errorf("select candidates: %w", err)
		}
		found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (candidate, error) {
			var c candidate
			err := row.Scan(&c.user.ID, &c.user.Email, &c.user.FirstName, &c.user.LastName, &c.assigned)
			return c, err
		})
		if err != nil {
			return fmt.Errorf("scan candidates: %w", err)
		}

		byID := make(map[int64]candidate, len(found))
		for _, c := range found {
			byID[c.user.ID] = c
		}

		for _, a := range adds {
			c, ok := byID[a.UserID]
			switch {
			case !ok:
				res.Errors = append(res.Errors, fmt.Sprintf("User with id %d not found", a.UserID))
				continue
			case c.assigned:
				res.Errors = append(res.Errors, fmt.Sprintf("User with id %d is already assigned to the task", a.UserID))
				continue
			}

			if _, err := tx.Exec(ctx, insertAssigneeQuery, taskID, a.UserID, a.Role); err != nil {
				return fmt.Errorf("insert assignee: %w", err)
			}
			c.assigned = true
			byID[a.UserID] = c
			res.Added = append(res.Added, c.user)
		}
		return nil
	})
	if err != nil {
		return entities.BulkAddResult{}, err
	}

	p.log.Infow("assignees added", "task_id", taskID, "added", len(res.Added), "errors", len(res.Errors))
	return res, nil
}

// RemoveAssignee removes a single assignment.
func (p *Postgres) RemoveAssignee(ctx context.Context, taskID, userID int64) error {
	tag, err := p.db.Exec(ctx, deleteAssigneeQuery, taskID, userID)
	if err != nil {
		return fmt.Errorf("remove assignee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrAssigneeNotFound
	}
	p.log.Infow("assignee removed", "task_id", taskID, "user_id", userID)
	return nil
}

// RemoveAssignees removes assignments and reports ids that had none.
func (p *Postgres) RemoveAssignees(ctx context.Context, taskID int64, userIDs []int64) (entities.BulkRemoveResult, error) {
	rows, err := p.db.Query(ctx, deleteAssigneesQuery, taskID, userIDs)
	if err != nil {
		return entities.BulkRemoveResult{}, fmt.Errorf("remove assignees: %w", err)
	}
	removed, err := collectIDs(rows)
	if err != nil {
		return entities.BulkRemoveResult{}, fmt.Errorf("scan removed assignees: %w", err)
	}

	p.log.Infow("assignees removed", "task_id", taskID, "removed", len(removed))
	return entities.BulkRemoveResult{Removed: removed, NotFound: notFoundIDs(userIDs, removed)}, nil
}

// UpdateAssigneeRole changes the role of an assignment.
func (p *Postgres) UpdateAssigneeRole(ctx context.Context, taskID, userID int64, role string) error {
	tag, err := p.db.Exec(ctx, updateAssigneeRole, taskID, userID, role)
	if err != nil {
		return fmt.Errorf("update assignee role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrAssigneeNotFound
	}
	return nil
}
