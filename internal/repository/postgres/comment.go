package postgres

import (
	"context"
	"errors"
	"fmt"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	commentColumns = "id, task_id, author_id, content, created_at"

	insertCommentQuery = `INSERT INTO comments(task_id, author_id, content) VALUES ($1, $2, $3) RETURNING ` + commentColumns
	selectCommentQuery = `SELECT ` + commentColumns + ` FROM comments WHERE id=$1`
	updateCommentQuery = `UPDATE comments SET content=$2 WHERE id=$1 RETURNING ` + commentColumns
	deleteCommentQuery = `DELETE FROM comments WHERE id=$1`
	listCommentsQuery  = `SELECT ` + commentColumns + ` FROM comments WHERE task_id=$1 ORDER BY created_at DESC, id DESC`
)

func scanComment(row pgx.Row) (*entities.Comment, error) {
	var c entities.Comment
	if err := row.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a comment on a task.
func (p *Postgres) CreateComment(ctx context.Context, comment entities.Comment) (*entities.Comment, error) {
	c, err := scanComment(p.db.QueryRow(ctx, insertCommentQuery, comment.TaskID, comment.AuthorID, comment.Content))
	if err != nil {
		if violates(err, codeForeignKeyViolation, "comments_task_id_fkey") {
			return nil, entities.ErrTaskNotFound
		}
		p.log.Errorw("failed to insert comment", "error", err, "task_id", comment.TaskID)
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// GetComment fetches comment by id.
func (p *Postgres) GetComment(ctx context.Context, commentID int64) (*entities.Comment, error) {
	c, err := scanComment(p.db.QueryRow(ctx, selectCommentQuery, commentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// UpdateComment replaces comment content.
func (p *Postgres) UpdateComment(ctx context.Context, commentID int64, content string) (*entities.Comment, error) {
	c, err := scanComment(p.db.QueryRow(ctx, updateCommentQuery, commentID, content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrCommentNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

// DeleteComment removes a comment.
func (p *Postgres) DeleteComment(ctx context.Context, commentID int64) error {
	tag, err := p.db.Exec(ctx, deleteCommentQuery, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrCommentNotFound
	}
	return nil
}

// ListTaskComments returns comments of a task, newest first.
func (p *Postgres) ListTaskComments(ctx context.Context, taskID int64) ([]entities.Comment, error) {
	rows, err := p.db.Query(ctx, listCommentsQuery, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Comment, error) {
		c, err := scanComment(row)
		if err != nil {
			return entities.Comment{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan comments: %w", err)
	}
	return comments, nil
}
