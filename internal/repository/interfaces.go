// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"
	"time"

	"team-task-manager/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// UserInterface exposes user-related operations.
type UserInterface interface {
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
	ListUsers(ctx context.Context) ([]entities.User, error)
	GetUser(ctx context.Context, userID int64) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	GetUserWithTeams(ctx context.Context, userID int64) (*entities.UserWithTeams, error)
	UpdateUser(ctx context.Context, userID int64, upd entities.UserUpdate) (*entities.User, error)
	SetUserRole(ctx context.Context, userID int64, role entities.GlobalRole) (*entities.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	GetCredentials(ctx context.Context, email string) (*entities.Credentials, error)
	MissingUsers(ctx context.Context, userIDs []int64) ([]int64, error)
}

// TeamInterface exposes team-related operations.
type TeamInterface interface {
	TeamNameTaken(ctx context.Context, name string, excludeTeamID int64) (bool, error)
	CreateTeam(ctx context.Context, team entities.Team, managerID int64) (*entities.Team, error)
	ListTeams(ctx context.Context) ([]entities.Team, error)
	GetTeam(ctx context.Context, teamID int64) (*entities.Team, error)
	GetTeamByInviteCode(ctx context.Context, code string) (*entities.Team, error)
	GetTeamDetails(ctx context.Context, teamID int64) (*entities.TeamDetails, error)
	UpdateTeam(ctx context.Context, teamID int64, upd entities.TeamUpdate) (*entities.Team, error)
	DeleteTeam(ctx context.Context, teamID int64) error
}

// TeamMemberInterface exposes team membership operations.
type TeamMemberInterface interface {
	AddTeamMember(ctx context.Context, teamID int64, add entities.MemberAdd) (*entities.TeamMember, error)
	AddTeamMembers(ctx context.Context, teamID int64, adds []entities.MemberAdd) (entities.BulkAddResult, error)
	JoinTeam(ctx context.Context, teamID, userID int64, role entities.TeamRole) error
	RemoveTeamMember(ctx context.Context, teamID, userID int64) error
	RemoveTeamMembers(ctx context.Context, teamID int64, userIDs []int64) (entities.BulkRemoveResult, error)
	UpdateTeamMemberRole(ctx context.Context, teamID, userID int64, role entities.TeamRole) error
	ListTeamUsers(ctx context.Context, teamID int64) ([]entities.User, error)
}

// TaskInterface exposes task operations.
type TaskInterface interface {
	CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error)
	GetTask(ctx context.Context, taskID int64) (*entities.Task, error)
	GetTaskDetails(ctx context.Context, taskID int64) (*entities.TaskDetails, error)
	ListTasks(ctx context.Context) ([]entities.Task, error)
	ListTeamTasks(ctx context.Context, teamID int64, filter entities.TaskFilter) ([]entities.Task, error)
	ListUserTasks(ctx context.Context, userID int64, filter entities.TaskFilter) ([]entities.Task, error)
	UpdateTask(ctx context.Context, taskID int64, upd entities.TaskUpdate) (*entities.Task, error)
	DeleteTask(ctx context.Context, taskID int64) error
	UpdateTaskStatus(ctx context.Context, taskID int64, status entities.TaskStatus, changedBy int64) (*entities.Task, error)
	ListStatusHistory(ctx context.Context, taskID int64) ([]entities.StatusChange, error)
	IsTaskAssignee(ctx context.Context, taskID, userID int64) (bool, error)
}

// TaskAssigneeInterface exposes task assignment operations.
type TaskAssigneeInterface interface {
	AddAssignee(ctx context.Context, taskID int64, add entities.AssigneeAdd) (*entities.TaskAssignee, error)
	AddAssignees(ctx context.Context, taskID int64, adds []entities.AssigneeAdd) (entities.BulkAddResult, error)
	RemoveAssignee(ctx context.Context, taskID, userID int64) error
	RemoveAssignees(ctx context.Context, taskID int64, userIDs []int64) (entities.BulkRemoveResult, error)
	UpdateAssigneeRole(ctx context.Context, taskID, userID int64, role string) error
}

// CommentInterface exposes comment operations.
type CommentInterface interface {
	CreateComment(ctx context.Context, comment entities.Comment) (*entities.Comment, error)
	GetComment(ctx context.Context, commentID int64) (*entities.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, content string) (*entities.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
	ListTaskComments(ctx context.Context, taskID int64) ([]entities.Comment, error)
}

// EvaluationInterface exposes evaluation operations.
type EvaluationInterface interface {
	CreateEvaluation(ctx context.Context, eval entities.Evaluation) (*entities.Evaluation, error)
	UpdateEvaluation(ctx context.Context, taskID, evaluatorID int64, in entities.EvaluationInput) (*entities.Evaluation, error)
	ListUserEvaluations(ctx context.Context, userID int64) ([]entities.Evaluation, error)
	ListTaskEvaluations(ctx context.Context, taskID int64) ([]entities.Evaluation, error)
	AverageScore(ctx context.Context, userID int64, from, to time.Time) (*float64, error)
}

// MeetingInterface exposes meeting operations.
type MeetingInterface interface {
	CreateMeeting(ctx context.Context, meeting entities.Meeting, participantIDs []int64) (*entities.Meeting, error)
	GetMeeting(ctx context.Context, meetingID int64) (*entities.Meeting, error)
	GetMeetingDetails(ctx context.Context, meetingID int64) (*entities.MeetingDetails, error)
	// UpdateMeeting locks the meeting, applies mutate, then adds and removes participants in one transaction.
	UpdateMeeting(ctx context.Context, meetingID int64, mutate func(m *entities.Meeting) error, addIDs, removeIDs []int64) (*entities.Meeting, error)
	ListUserMeetings(ctx context.Context, userID int64) ([]entities.Meeting, error)
	ListMeetings(ctx context.Context) ([]entities.Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID int64) error
}

// CalendarInterface exposes range queries for calendar views.
type CalendarInterface interface {
	UserTasksDue(ctx context.Context, userID int64, from, to time.Time) ([]entities.Task, error)
	UserMeetingsStarting(ctx context.Context, userID int64, from, to time.Time) ([]entities.Meeting, error)
	TeamTasksDue(ctx context.Context, teamID int64, from, to time.Time) ([]entities.Task, error)
	TeamMeetingsStarting(ctx context.Context, teamID int64, from, to time.Time) ([]entities.Meeting, error)
}
