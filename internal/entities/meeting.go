package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MeetingStatus enumerates meeting states.
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCancelled MeetingStatus = "cancelled"
)

// Valid reports whether s is a known meeting status.
func (s MeetingStatus) Valid() bool {
	return s == MeetingScheduled || s == MeetingCancelled
}

// Meeting is a scheduled event with participants.
type Meeting struct {
	ID            int64
	Title         string
	Description   string
	Location      string
	StartAt       time.Time
	EndAt         time.Time
	CreatorID     int64
	Status        MeetingStatus
	CreatedAt     time.Time
	CancelledAt   *time.Time
	CancelledByID *int64
}

// Overlaps reports whether the [start, end) slot of m collides with [start, end).
// Touching boundaries do not collide.
func (m Meeting) Overlaps(start, end time.Time) bool {
	s, e := m.StartAt, m.EndAt
	return (!s.After(start) && e.After(start)) ||
		(s.Before(end) && !e.Before(end)) ||
		(!s.Before(start) && !e.After(end))
}

// MeetingDetails is a meeting with resolved people.
type MeetingDetails struct {
	Meeting
	Creator      User
	CancelledBy  *User
	Participants []User
}

// MeetingCreate is the input for a new meeting.
type MeetingCreate struct {
	Title          string
	Description    string
	Location       string
	StartAt        time.Time
	EndAt          time.Time
	ParticipantIDs []int64
}

// MeetingUpdate is a partial meeting update.
type MeetingUpdate struct {
	Title                *string
	Description          *string
	Location             *string
	StartAt              *time.Time
	EndAt                *time.Time
	Status               *MeetingStatus
	AddParticipantIDs    []int64
	RemoveParticipantIDs []int64
}

// MeetingConflictError lists users that are busy for a slot.
type MeetingConflictError struct {
	UserIDs []int64
}

func (e *MeetingConflictError) Error() string {
	return fmt.Sprintf("Users with IDs %s already have meetings at that time.", FormatIDs(e.UserIDs))
}

// FormatIDs renders ids as a bracketed comma separated list, e.g. [3, 4].
func FormatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Is matches ErrMeetingConflict.
func (e *MeetingConflictError) Is(target error) bool {
	return target == ErrMeetingConflict
}
