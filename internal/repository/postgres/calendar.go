package postgres

import (
	"context"
	"fmt"
	"time"

	"team-task-manager/internal/entities"
)

const (
	userTasksDueQuery = `
SELECT ` + taskColumns + ` FROM tasks t
WHERE (t.creator_id=$1 OR EXISTS (SELECT 1 FROM task_assignees ta WHERE ta.task_id = t.id AND ta.user_id = $1))
  AND t.due_date BETWEEN $2 AND $3
ORDER BY t.due_date, t.id`
	teamTasksDueQuery = `
SELECT ` + taskColumns + ` FROM tasks t
WHERE t.team_id=$1 AND t.due_date BETWEEN $2 AND $3
ORDER BY t.due_date, t.id`
	userMeetingsStartingQuery = `
SELECT ` + meetingColumns + ` FROM meetings m
WHERE m.status = 'scheduled'
  AND m.start_at BETWEEN $2 AND $3
  AND EXISTS (SELECT 1 FROM meeting_participants mp WHERE mp.meeting_id = m.id AND mp.user_id = $1)
ORDER BY m.start_at, m.id`
	teamMeetingsStartingQuery = `
SELECT ` + meetingColumns + ` FROM meetings m
WHERE m.status = 'scheduled'
  AND m.start_at BETWEEN $2 AND $3
  AND EXISTS (
    SELECT 1 FROM meeting_participants mp
    JOIN team_users tu ON tu.user_id = mp.user_id
    WHERE mp.meeting_id = m.id AND tu.team_id = $1)
ORDER BY m.start_at, m.id`
)

// UserTasksDue returns tasks created by or assigned to the user with a due date in [from, to].
func (p *Postgres) UserTasksDue(ctx context.Context, userID int64, from, to time.Time) ([]entities.Task, error) {
	return p.tasksDue(ctx, userTasksDueQuery, userID, from, to)
}

// TeamTasksDue returns team tasks with a due date in [from, to].
func (p *Postgres) TeamTasksDue(ctx context.Context, teamID int64, from, to time.Time) ([]entities.Task, error) {
	return p.tasksDue(ctx, teamTasksDueQuery, teamID, from, to)
}

// UserMeetingsStarting returns scheduled meetings of the user starting in [from, to].
func (p *Postgres) UserMeetingsStarting(ctx context.Context, userID int64, from, to time.Time) ([]entities.Meeting, error) {
	return p.meetingsStarting(ctx, userMeetingsStartingQuery, userID, from, to)
}

// TeamMeetingsStarting returns scheduled meetings starting in [from, to] attended by any team member.
func (p *Postgres) TeamMeetingsStarting(ctx context.Context, teamID int64, from, to time.Time) ([]entities.Meeting, error) {
	return p.meetingsStarting(ctx, teamMeetingsStartingQuery, teamID, from, to)
}

func (p *Postgres) tasksDue(ctx context.Context, query string, id int64, from, to time.Time) ([]entities.Task, error) {
	rows, err := p.db.Query(ctx, query, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("calendar tasks: %w", err)
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, fmt.Errorf("scan calendar tasks: %w", err)
	}
	return tasks, nil
}

func (p *Postgres) meetingsStarting(ctx context.Context, query string, id int64, from, to time.Time) ([]entities.Meeting, error) {
	rows, err := p.db.Query(ctx, query, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("calendar meetings: %w", err)
	}
	meetings, err := collectMeetings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan calendar meetings: %w", err)
	}
	return meetings, nil
}
