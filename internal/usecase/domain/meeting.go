package domain

import (
	"context"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"team-task-manager/internal/entities"
)

const (
	maxMeetingTitle    = 100
	maxMeetingLocation = 200
)

func validateMeetingText(title, location *string) error {
	if title != nil && utf8.RuneCountInString(*title) > maxMeetingTitle {
		return fmt.Errorf("%w: title must be at most %d characters", entities.ErrInvalidArgument, maxMeetingTitle)
	}
	if location != nil && utf8.RuneCountInString(*location) > maxMeetingLocation {
		return fmt.Errorf("%w: location must be at most %d characters", entities.ErrInvalidArgument, maxMeetingLocation)
	}
	return nil
}

func validateSlot(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: end_at must be after start_at", entities.ErrInvalidArgument)
	}
	return nil
}

// participantSet returns the distinct ids plus extra, sorted ascending.
func participantSet(ids []int64, extra ...int64) []int64 {
	seen := make(map[int64]struct{}, len(ids)+len(extra))
	out := make([]int64, 0, len(ids)+len(extra))
	for _, id := range append(append([]int64{}, ids...), extra...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// applyMeetingPatch copies set fields onto m. Cancelling a meeting that is
// not yet cancelled stamps the time and the caller.
func applyMeetingPatch(m *entities.Meeting, upd entities.MeetingUpdate, callerID int64, now time.Time) error {
	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.Description != nil {
		m.Description = *upd.Description
	}
	if upd.Location != nil {
		m.Location = *upd.Location
	}
	if upd.StartAt != nil {
		m.StartAt = *upd.StartAt
	}
	if upd.EndAt != nil {
		m.EndAt = *upd.EndAt
	}
	if err := validateSlot(m.StartAt, m.EndAt); err != nil {
		return err
	}

	if upd.Status != nil {
		if *upd.Status == entities.MeetingCancelled && m.Status != entities.MeetingCancelled {
			m.CancelledAt = &now
			m.CancelledByID = &callerID
		}
		m.Status = *upd.Status
	}
	return nil
}

// CreateMeeting schedules a meeting. The creator always participates.
func (u *Usecase) CreateMeeting(ctx context.Context, creatorID int64, in entities.MeetingCreate) (*entities.MeetingDetails, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := validateMeetingText(&in.Title, &in.Location); err != nil {
		return nil, err
	}
	if err := validateSlot(in.StartAt, in.EndAt); err != nil {
		return nil, err
	}

	participants := participantSet(in.ParticipantIDs, creatorID)
	created, err := u.repo.CreateMeeting(ctx, entities.Meeting{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
		CreatorID:   creatorID,
		Status:      entities.MeetingScheduled,
	}, participants)
	if err != nil {
		return nil, err
	}
	return u.repo.GetMeetingDetails(ctx, created.ID)
}

// UpdateMeeting patches a meeting and its participant list.
func (u *Usecase) UpdateMeeting(ctx context.Context, meetingID, callerID int64, upd entities.MeetingUpdate) (*entities.MeetingDetails, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := validateMeetingText(upd.Title, upd.Location); err != nil {
		return nil, err
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: status must be scheduled or cancelled", entities.ErrInvalidArgument)
	}

	now := u.now()
	mutate := func(m *entities.Meeting) error {
		return applyMeetingPatch(m, upd, callerID, now)
	}
	add := participantSet(upd.AddParticipantIDs)
	remove := participantSet(upd.RemoveParticipantIDs)

	if _, err := u.repo.UpdateMeeting(ctx, meetingID, mutate, add, remove); err != nil {
		return nil, err
	}
	return u.repo.GetMeetingDetails(ctx, meetingID)
}

// Meeting returns a meeting by id.
func (u *Usecase) Meeting(ctx context.Context, meetingID int64) (*entities.Meeting, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetMeeting(ctx, meetingID)
}

// MeetingDetails returns a meeting with its people.
func (u *Usecase) MeetingDetails(ctx context.Context, meetingID int64) (*entities.MeetingDetails, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.GetMeetingDetails(ctx, meetingID)
}

// UserMeetings returns meetings the user participates in, sorted by start.
func (u *Usecase) UserMeetings(ctx context.Context, userID int64) ([]entities.Meeting, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListUserMeetings(ctx, userID)
}

// ListMeetings returns every meeting.
func (u *Usecase) ListMeetings(ctx context.Context) ([]entities.Meeting, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListMeetings(ctx)
}

// DeleteMeeting removes a meeting.
func (u *Usecase) DeleteMeeting(ctx context.Context, meetingID int64) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.DeleteMeeting(ctx, meetingID)
}
