package entities

import "time"

// CalendarEventType distinguishes calendar entries.
type CalendarEventType string

const (
	EventTask    CalendarEventType = "task"
	EventMeeting CalendarEventType = "meeting"
)

// CalendarEvent is a task deadline or a meeting slot.
type CalendarEvent struct {
	Type  CalendarEventType
	ID    int64
	Title string
	// At is the due date for tasks and the start for meetings.
	At  time.Time
	End *time.Time
}

// CalendarDay groups events of one date.
type CalendarDay struct {
	Date   string
	Events []CalendarEvent
}

// DateRange is an inclusive range of whole days.
type DateRange struct {
	From time.Time
	To   time.Time
}
