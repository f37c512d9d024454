package domain

import (
	"context"
	"sort"
	"time"

	"team-task-manager/internal/entities"

	"golang.org/x/sync/errgroup"
)

const (
	calendarDateLayout = "2006-01-02"
	untitledMeeting    = "Untitled"
)

type (
	taskRangeFunc    func(ctx context.Context, id int64, from, to time.Time) ([]entities.Task, error)
	meetingRangeFunc func(ctx context.Context, id int64, from, to time.Time) ([]entities.Meeting, error)
)

// UserCalendar merges due tasks and scheduled meetings of a user by day.
func (u *Usecase) UserCalendar(ctx context.Context, userID int64, r entities.DateRange) ([]entities.CalendarDay, error) {
	return u.calendar(ctx, userID, r, u.repo.UserTasksDue, u.repo.UserMeetingsStarting)
}

// TeamCalendar merges due team tasks and scheduled meetings of team members by day.
func (u *Usecase) TeamCalendar(ctx context.Context, teamID int64, r entities.DateRange) ([]entities.CalendarDay, error) {
	return u.calendar(ctx, teamID, r, u.repo.TeamTasksDue, u.repo.TeamMeetingsStarting)
}

func (u *Usecase) calendar(ctx context.Context, id int64, r entities.DateRange, tasksFn taskRangeFunc, meetingsFn meetingRangeFunc) ([]entities.CalendarDay, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	from, to, err := dayBounds(r)
	if err != nil {
		return nil, err
	}

	var (
		tasks    []entities.Task
		meetings []entities.Meeting
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = tasksFn(gctx, id, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		meetings, err = meetingsFn(gctx, id, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildCalendar(tasks, meetings), nil
}

// buildCalendar groups events by UTC date. Days ascend and events within a day are ordered by time.
func buildCalendar(tasks []entities.Task, meetings []entities.Meeting) []entities.CalendarDay {
	byDay := make(map[string][]entities.CalendarEvent)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		at := t.DueDate.UTC()
		key := at.Format(calendarDateLayout)
		byDay[key] = append(byDay[key], entities.CalendarEvent{
			Type: entities.EventTask, ID: t.ID, Title: t.Title, At: at,
		})
	}
	for _, m := range meetings {
		title := m.Title
		if title == "" {
			title = untitledMeeting
		}
		start, end := m.StartAt.UTC(), m.EndAt.UTC()
		key := start.Format(calendarDateLayout)
		byDay[key] = append(byDay[key], entities.CalendarEvent{
			Type: entities.EventMeeting, ID: m.ID, Title: title, At: start, End: &end,
		})
	}

	days := make([]entities.CalendarDay, 0, len(byDay))
	for date, events := range byDay {
		sort.SliceStable(events, func(i, j int) bool { return events[i].At.Before(events[j].At) })
		days = append(days, entities.CalendarDay{Date: date, Events: events})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
