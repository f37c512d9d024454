package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	meetingColumns = "m.id, m.title, m.description, m.location, m.start_at, m.end_at, m.creator_id, m.status, m.created_at, m.cancelled_at, m.cancelled_by_id"

	insertMeetingQuery = `
INSERT INTO meetings AS m (title, description, location, start_at, end_at, creator_id, status)
VALUES ($1, $2, $3, $4, $5, $6, 'scheduled')
RETURNING ` + meetingColumns
	insertParticipantsQuery = `
INSERT INTO meeting_participants(meeting_id, user_id)
SELECT $1, x FROM unnest($2::bigint[]) AS x
ON CONFLICT DO NOTHING`
	deleteParticipantsQuery = `DELETE FROM meeting_participants WHERE meeting_id=$1 AND user_id = ANY($2)`
	// Keys are taken in ascending order.
	lockParticipantsQuery = `
SELECT pg_advisory_xact_lock(x)
FROM (SELECT DISTINCT x FROM unnest($1::bigint[]) AS x ORDER BY x) AS ids`
	// Coarse window; the exact rule is applied by Meeting.Overlaps.
	busySlotsQuery = `
SELECT mp.user_id, ` + meetingColumns + `
FROM meetings m
JOIN meeting_participants mp ON mp.meeting_id = m.id
WHERE m.status = 'scheduled'
  AND mp.user_id = ANY($1)
  AND m.start_at <= $3
  AND m.end_at >= $2
  AND m.id <> $4`
	selectMeetingQuery = `SELECT ` + meetingColumns + ` FROM meetings m WHERE m.id=$1`
	lockMeetingQuery   = selectMeetingQuery + ` FOR UPDATE`
	saveMeetingQuery   = `
UPDATE meetings AS m SET
    title=$2, description=$3, location=$4, start_at=$5, end_at=$6,
    status=$7, cancelled_at=$8, cancelled_by_id=$9
WHERE m.id=$1
RETURNING ` + meetingColumns
	listMeetingsQuery     = `SELECT ` + meetingColumns + ` FROM meetings m ORDER BY m.start_at, m.id`
	listUserMeetingsQuery = `
SELECT ` + meetingColumns + `
FROM meetings m
JOIN meeting_participants mp ON mp.meeting_id = m.id
WHERE mp.user_id=$1
ORDER BY m.start_at, m.id`
	meetingParticipantsQuery = `
SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.role, u.created_at
FROM users u
JOIN meeting_participants mp ON mp.user_id = u.id
WHERE mp.meeting_id=$1
ORDER BY u.id`
	deleteMeetingQuery = `DELETE FROM meetings WHERE id=$1`
)

func scanMeeting(row pgx.Row) (*entities.Meeting, error) {
	var m entities.Meeting
	if err := row.Scan(meetingDest(&m)...); err != nil {
		return nil, err
	}
	return &m, nil
}

func meetingDest(m *entities.Meeting) []any {
	return []any{&m.ID, &m.Title, &m.Description, &m.Location, &m.StartAt, &m.EndAt,
		&m.CreatorID, &m.Status, &m.CreatedAt, &m.CancelledAt, &m.CancelledByID}
}

func collectMeetings(rows pgx.Rows) ([]entities.Meeting, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Meeting, error) {
		m, err := scanMeeting(row)
		if err != nil {
			return entities.Meeting{}, err
		}
		return *m, nil
	})
}

// busyUsers returns the ids among userIDs that attend a scheduled meeting overlapping [start, end), sorted ascending.
func busyUsers(ctx context.Context, q querier, userIDs []int64, start, end time.Time, excludeMeetingID int64) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := q.Query(ctx, busySlotsQuery, userIDs, start, end, excludeMeetingID)
	if err != nil {
		return nil, fmt.Errorf("check conflicts: %w", err)
	}

	var (
		userID int64
		m      entities.Meeting
	)
	busy := make(map[int64]struct{})
	_, err = pgx.ForEachRow(rows, append([]any{&userID}, meetingDest(&m)...), func() error {
		if m.Overlaps(start, end) {
			busy[userID] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan conflicts: %w", err)
	}

	ids := make([]int64, 0, len(busy))
	for id := range busy {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// lockParticipants serializes scheduling per user until the transaction ends,
// so the busy check and the participant insert cannot interleave with another writer.
func lockParticipants(ctx context.Context, tx pgx.Tx, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, lockParticipantsQuery, userIDs); err != nil {
		return fmt.Errorf("lock participants: %w", err)
	}
	return nil
}

// checkParticipants rejects unknown users and users busy during [start, end).
func checkParticipants(ctx context.Context, q querier, userIDs []int64, start, end time.Time, excludeMeetingID int64) error {
	missing, err := missingUsers(ctx, q, userIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: Users with IDs %s do not exist.", entities.ErrInvalidArgument, entities.FormatIDs(missing))
	}

	busy, err := busyUsers(ctx, q, userIDs, start, end, excludeMeetingID)
	if err != nil {
		return err
	}
	if len(busy) > 0 {
		return &entities.MeetingConflictError{UserIDs: busy}
	}
	return nil
}

// CreateMeeting checks participants and inserts the meeting with them in one transaction.
func (p *Postgres) CreateMeeting(ctx context.Context, meeting entities.Meeting, participantIDs []int64) (*entities.Meeting, error) {
	var created *entities.Meeting
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockParticipants(ctx, tx, participantIDs); err != nil {
			return err
		}
		if err := checkParticipants(ctx, tx, participantIDs, meeting.StartAt, meeting.EndAt, 0); err != nil {
			return err
		}

		m, err := scanMeeting(tx.QueryRow(ctx, insertMeetingQuery, meeting.Title, meeting.Description,
			meeting.Location, meeting.StartAt, meeting.EndAt, meeting.CreatorID))
		if err != nil {
			return fmt.Errorf("insert meeting: %w", err)
		}
		if _, err := tx.Exec(ctx, insertParticipantsQuery, m.ID, participantIDs); err != nil {
			return fmt.Errorf("insert participants: %w", err)
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("meeting created", "meeting_id", created.ID, "creator_id", created.CreatorID, "participants", len(participantIDs))
	return created, nil
}

// GetMeeting fetches meeting by id.
func (p *Postgres) GetMeeting(ctx context.Context, meetingID int64) (*entities.Meeting, error) {
	return p.getMeeting(ctx, p.db, selectMeetingQuery, meetingID)
}

func (p *Postgres) getMeeting(ctx context.Context, q querier, query string, meetingID int64) (*entities.Meeting, error) {
	m, err := scanMeeting(q.QueryRow(ctx, query, meetingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return m, nil
}

// GetMeetingDetails fetches meeting with creator, canceller and participants.
func (p *Postgres) GetMeetingDetails(ctx context.Context, meetingID int64) (*entities.MeetingDetails, error) {
	m, err := p.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	creator, err := p.GetUser(ctx, m.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("get meeting creator: %w", err)
	}
	details := &entities.MeetingDetails{Meeting: *m, Creator: *creator}

	if m.CancelledByID != nil {
		u, err := p.GetUser(ctx, *m.CancelledByID)
		if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
			return nil, err
		}
		details.CancelledBy = u
	}

	rows, err := p.db.Query(ctx, meetingParticipantsQuery, meetingID)
	if err != nil {
		return nil, fmt.Errorf("get participants: %w", err)
	}
	details.Participants, err = collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("scan participants: %w", err)
	}
	return details, nil
}

// UpdateMeeting locks the meeting, applies mutate, then adds and removes participants in one transaction.
// Added participants are checked against the resulting slot while the meeting stays scheduled.
func (p *Postgres) UpdateMeeting(ctx context.Context, meetingID int64, mutate func(m *entities.Meeting) error, addIDs, removeIDs []int64) (*entities.Meeting, error) {
	var updated *entities.Meeting
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		m, err := p.getMeeting(ctx, tx, lockMeetingQuery, meetingID)
		if err != nil {
			return err
		}
		if err := mutate(m); err != nil {
			return err
		}

		saved, err := scanMeeting(tx.QueryRow(ctx, saveMeetingQuery, m.ID, m.Title, m.Description, m.Location,
			m.StartAt, m.EndAt, m.Status, m.CancelledAt, m.CancelledByID))
		if err != nil {
			return fmt.Errorf("save meeting: %w", err)
		}

		if len(addIDs) > 0 {
			missing, err := missingUsers(ctx, tx, addIDs)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("%w: Users with IDs %s do not exist.", entities.ErrInvalidArgument, entities.FormatIDs(missing))
			}
			if saved.Status == entities.MeetingScheduled {
				if err := lockParticipants(ctx, tx, addIDs); err != nil {
					return err
				}
				busy, err := busyUsers(ctx, tx, addIDs, saved.StartAt, saved.EndAt, saved.ID)
				if err != nil {
					return err
				}
				if len(busy) > 0 {
					return &entities.MeetingConflictError{UserIDs: busy}
				}
			}
			if _, err := tx.Exec(ctx, insertParticipantsQuery, saved.ID, addIDs); err != nil {
				return fmt.Errorf("add participants: %w", err)
			}
		}
		if len(removeIDs) > 0 {
			if _, err := tx.Exec(ctx, deleteParticipantsQuery, saved.ID, removeIDs); err != nil {
				return fmt.Errorf("remove participants: %w", err)
			}
		}

		updated = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("meeting updated", "meeting_id", meetingID, "status", updated.Status,
		"added", len(addIDs), "removed", len(removeIDs))
	return updated, nil
}

// ListUserMeetings returns meetings the user participates in, sorted by start.
func (p *Postgres) ListUserMeetings(ctx context.Context, userID int64) ([]entities.Meeting, error) {
	rows, err := p.db.Query(ctx, listUserMeetingsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list user meetings: %w", err)
	}
	meetings, err := collectMeetings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan meetings: %w", err)
	}
	return meetings, nil
}

// ListMeetings returns all meetings sorted by start.
func (p *Postgres) ListMeetings(ctx context.Context) ([]entities.Meeting, error) {
	rows, err := p.db.Query(ctx, listMeetingsQuery)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	meetings, err := collectMeetings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan meetings: %w", err)
	}
	return meetings, nil
}

// DeleteMeeting removes a meeting and its participants.
func (p *Postgres) DeleteMeeting(ctx context.Context, meetingID int64) error {
	tag, err := p.db.Exec(ctx, deleteMeetingQuery, meetingID)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrMeetingNotFound
	}
	p.log.Infow("meeting deleted", "meeting_id", meetingID)
	return nil
}
