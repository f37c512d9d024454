package entities

import "time"

const (
	MinScore = 1
	MaxScore = 5
)

// Evaluation is a score given by an evaluator for a task.
type Evaluation struct {
	ID                int64
	TaskID            int64
	EvaluatorID       int64
	Score             int
	Feedback          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	EvaluatorFullName string
}

// EvaluationInput carries score and feedback.
type EvaluationInput struct {
	Score    int
	Feedback string
}
