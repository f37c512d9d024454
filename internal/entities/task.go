package entities

import "time"

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	// TaskOpen is the initial status.
	TaskOpen TaskStatus = "open"
	// TaskInProgress marks work started.
	TaskInProgress TaskStatus = "in_progress"
	// TaskDone marks a finished task.
	TaskDone TaskStatus = "done"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// DefaultAssigneeRole is stored when an assignment carries no role.
const DefaultAssigneeRole = "executor"

// Task is a unit of work owned by a team.
type Task struct {
	ID          int64
	Title       string
	Description string
	CreatorID   int64
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	TeamID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskAssignee is an assignment joined with the user email.
type TaskAssignee struct {
	UserID     int64
	Email      string
	Role       string
	AssignedAt time.Time
}

// TaskDetails is a task with creator email and assignees.
type TaskDetails struct {
	Task
	CreatorEmail string
	Assignees    []TaskAssignee
}

// TaskUpdate is a partial task update.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *TaskPriority
	DueDate     *time.Time
}

// TaskFilter narrows task listings. Empty slices mean no restriction.
type TaskFilter struct {
	Statuses   []TaskStatus
	Priorities []TaskPriority
	TeamID     *int64
}

// StatusChange is a task status history record.
type StatusChange struct {
	ID          int64
	TaskID      int64
	ChangedByID int64
	NewStatus   TaskStatus
	ChangedAt   time.Time
}

// AssigneeAdd requests assigning a user to a task.
type AssigneeAdd struct {
	UserID int64
	Role   string
}
