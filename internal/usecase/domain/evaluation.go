package domain

import (
	"context"
	"fmt"
	"time"

	"team-task-manager/internal/entities"
)

func validateScore(score int) error {
	if score < entities.MinScore || score > entities.MaxScore {
		return fmt.Errorf("%w: score must be between %d and %d", entities.ErrInvalidArgument, entities.MinScore, entities.MaxScore)
	}
	return nil
}

// dayBounds expands a day range to [from 00:00, to 23:59:59.999999].
func dayBounds(r entities.DateRange) (time.Time, time.Time, error) {
	from := time.Date(r.From.Year(), r.From.Month(), r.From.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(r.To.Year(), r.To.Month(), r.To.Day(), 23, 59, 59, 999999000, time.UTC)
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date must not be after end_date", entities.ErrInvalidArgument)
	}
	return from, to, nil
}

// CreateEvaluation scores a finished task. Every current assignee receives the evaluation.
func (u *Usecase) CreateEvaluation(ctx context.Context, taskID, evaluatorID int64, in entities.EvaluationInput) (*entities.Evaluation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := validateScore(in.Score); err != nil {
		return nil, err
	}

	task, err := u.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != entities.TaskDone {
		return nil, fmt.Errorf("%w: only done tasks can be evaluated", entities.ErrInvalidArgument)
	}

	eval, err := u.repo.CreateEvaluation(ctx, entities.Evaluation{
		TaskID:      taskID,
		EvaluatorID: evaluatorID,
		Score:       in.Score,
		Feedback:    in.Feedback,
	})
	if err != nil {
		return nil, err
	}
	return eval, nil
}

// UpdateEvaluation changes the evaluator's existing evaluation of a task.
func (u *Usecase) UpdateEvaluation(ctx context.Context, taskID, evaluatorID int64, in entities.EvaluationInput) (*entities.Evaluation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := validateScore(in.Score); err != nil {
		return nil, err
	}
	return u.repo.UpdateEvaluation(ctx, taskID, evaluatorID, in)
}

// UserEvaluations returns evaluations the user received, newest first.
func (u *Usecase) UserEvaluations(ctx context.Context, userID int64) ([]entities.Evaluation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListUserEvaluations(ctx, userID)
}

// AverageScore returns the mean received score within whole days, or nil without evaluations.
func (u *Usecase) AverageScore(ctx context.Context, userID int64, r entities.DateRange) (*float64, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	from, to, err := dayBounds(r)
	if err != nil {
		return nil, err
	}
	return u.repo.AverageScore(ctx, userID, from, to)
}

// TaskEvaluations returns evaluations of a task.
func (u *Usecase) TaskEvaluations(ctx context.Context, taskID int64) ([]entities.Evaluation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.repo.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return u.repo.ListTaskEvaluations(ctx, taskID)
}
