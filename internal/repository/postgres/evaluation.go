package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	evaluationColumns = "e.id, e.task_id, e.evaluator_id, e.score, e.feedback, e.created_at, e.updated_at"

	evaluationExistsQuery = `SELECT EXISTS (SELECT 1 FROM evaluations WHERE task_id=$1 AND evaluator_id=$2)`
	insertEvaluationQuery = `
INSERT INTO evaluations AS e (task_id, evaluator_id, score, feedback)
VALUES ($1, $2, $3, $4)
RETURNING ` + evaluationColumns
	insertRecipientsQuery = `
INSERT INTO evaluation_users(evaluation_id, user_id)
SELECT $1, ta.user_id FROM task_assignees ta WHERE ta.task_id = $2`
	updateEvaluationQuery = `
UPDATE evaluations AS e SET score=$3, feedback=$4, updated_at=NOW()
WHERE e.task_id=$1 AND e.evaluator_id=$2
RETURNING ` + evaluationColumns
	evaluationWithNameSelect = `
SELECT ` + evaluationColumns + `, trim(u.first_name || ' ' || u.last_name)
FROM evaluations e
JOIN users u ON u.id = e.evaluator_id`
	listUserEvaluationsQuery = evaluationWithNameSelect + `
JOIN evaluation_users eu ON eu.evaluation_id = e.id
WHERE eu.user_id=$1
ORDER BY e.created_at DESC, e.id DESC`
	listTaskEvaluationsQuery = evaluationWithNameSelect + `
WHERE e.task_id=$1
ORDER BY e.created_at, e.id`
	averageScoreQuery = `
SELECT AVG(e.score)::float8
FROM evaluations e
JOIN evaluation_users eu ON eu.evaluation_id = e.id
WHERE eu.user_id=$1 AND e.created_at BETWEEN $2 AND $3`
)

func scanEvaluation(row pgx.Row, withName bool) (*entities.Evaluation, error) {
	var e entities.Evaluation
	dest := []any{&e.ID, &e.TaskID, &e.EvaluatorID, &e.Score, &e.Feedback, &e.CreatedAt, &e.UpdatedAt}
	if withName {
		dest = append(dest, &e.EvaluatorFullName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEvaluation inserts an evaluation and links it to every current assignee of the task.
func (p *Postgres) CreateEvaluation(ctx context.Context, eval entities.Evaluation) (*entities.Evaluation, error) {
	var created *entities.Evaluation
	var recipients int64
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, evaluationExistsQuery, eval.TaskID, eval.EvaluatorID).Scan(&exists); err != nil {
			return fmt.Errorf("check evaluation: %w", err)
		}
		if exists {
			return entities.ErrEvaluationExists
		}

		e, err := scanEvaluation(tx.QueryRow(ctx, insertEvaluationQuery, eval.TaskID, eval.EvaluatorID, eval.Score, eval.Feedback), false)
		if err != nil {
			switch {
			case violates(err, codeUniqueViolation, ""):
				return entities.ErrEvaluationExists
			case violates(err, codeForeignKeyViolation, "evaluations_task_id_fkey"):
				return entities.ErrTaskNotFound
			}
			return fmt.Errorf("insert evaluation: %w", err)
		}

		tag, err := tx.Exec(ctx, insertRecipientsQuery, e.ID, eval.TaskID)
		if err != nil {
			return fmt.Errorf("insert evaluation recipients: %w", err)
		}
		recipients = tag.RowsAffected()
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("evaluation created", "evaluation_id", created.ID, "task_id", created.TaskID, "recipients", recipients)
	return created, nil
}

// UpdateEvaluation replaces score and feedback of the evaluator's evaluation.
func (p *Postgres) UpdateEvaluation(ctx context.Context, taskID, evaluatorID int64, in entities.EvaluationInput) (*entities.Evaluation, error) {
	e, err := scanEvaluation(p.db.QueryRow(ctx, updateEvaluationQuery, taskID, evaluatorID, in.Score, in.Feedback), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("update evaluation: %w", err)
	}
	return e, nil
}

// ListUserEvaluations returns evaluations the user received.
func (p *Postgres) ListUserEvaluations(ctx context.Context, userID int64) ([]entities.Evaluation, error) {
	return p.listEvaluations(ctx, listUserEvaluationsQuery, userID)
}

// ListTaskEvaluations returns evaluations of a task with evaluator names.
func (p *Postgres) ListTaskEvaluations(ctx context.Context, taskID int64) ([]entities.Evaluation, error) {
	return p.listEvaluations(ctx, listTaskEvaluationsQuery, taskID)
}

func (p *Postgres) listEvaluations(ctx context.Context, query string, arg int64) ([]entities.Evaluation, error) {
	rows, err := p.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	evals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Evaluation, error) {
		e, err := scanEvaluation(row, true)
		if err != nil {
			return entities.Evaluation{}, err
		}
		return *e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan evaluations: %w", err)
	}
	return evals, nil
}

// AverageScore returns the mean score received by a user within [from, to], or nil without evaluations.
func (p *Postgres) AverageScore(ctx context.Context, userID int64, from, to time.Time) (*float64, error) {
	var avg *float64
	if err := p.db.QueryRow(ctx, averageScoreQuery, userID, from, to).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}
	return avg, nil
}
