package domain

import (
	"context"
	"fmt"
	"strings"

	"team-task-manager/internal/entities"
)

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: content must not be empty", entities.ErrInvalidArgument)
	}
	return content, nil
}

// CreateComment leaves a comment on an existing task.
func (u *Usecase) CreateComment(ctx context.Context, comment entities.Comment) (*entities.Comment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	content, err := validateContent(comment.Content)
	if err != nil {
		return nil, err
	}
	comment.Content = content

	if _, err := u.repo.GetTask(ctx, comment.TaskID); err != nil {
		return nil, err
	}
	return u.repo.CreateComment(ctx, comment)
}

// Comment returns a comment by id.
func (u *Usecase) Comment(ctx context.Context, commentID int64) (*entities.Comment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetComment(ctx, commentID)
}

// ListComments returns task comments, newest first.
func (u *Usecase) ListComments(ctx context.Context, taskID int64) ([]entities.Comment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.repo.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return u.repo.ListTaskComments(ctx, taskID)
}

// UpdateComment replaces comment content.
func (u *Usecase) UpdateComment(ctx context.Context, commentID int64, content string) (*entities.Comment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	return u.repo.UpdateComment(ctx, commentID, content)
}

// DeleteComment removes a comment.
func (u *Usecase) DeleteComment(ctx context.Context, commentID int64) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.DeleteComment(ctx, commentID)
}
