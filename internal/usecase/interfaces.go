package usecase

import (
	"context"

	"team-task-manager/internal/auth"
	"team-task-manager/internal/entities"
)

// AuthUsecaseInterface abstracts login and token refresh.
type AuthUsecaseInterface interface {
	Login(ctx context.Context, email, password string) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// UserUsecaseInterface abstracts user-related operations for delivery layer.
type UserUsecaseInterface interface {
	Register(ctx context.Context, user entities.User, password string) (*entities.User, error)
	ListUsers(ctx context.Context) ([]entities.User, error)
	UserWithTeams(ctx context.Context, userID int64) (*entities.UserWithTeams, error)
	UpdateUser(ctx context.Context, userID int64, upd entities.UserUpdate) (*entities.User, error)
	SetUserRole(ctx context.Context, userID int64, role entities.GlobalRole) (*entities.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	ListTeamUsers(ctx context.Context, teamID int64) ([]entities.User, error)
}

// AdminUsecaseInterface abstracts admin bootstrap used by the createadmin command.
type AdminUsecaseInterface interface {
	CreateAdmin(ctx context.Context, user entities.User, password string) (*entities.User, error)
}

// TeamUsecaseInterface abstracts team-related operations.
type TeamUsecaseInterface interface {
	CreateTeam(ctx context.Context, team entities.Team, creatorID int64) (*entities.Team, error)
	ListTeams(ctx context.Context) ([]entities.Team, error)
	TeamDetails(ctx context.Context, teamID int64) (*entities.TeamDetails, error)
	UpdateTeam(ctx context.Context, teamID int64, upd entities.TeamUpdate) (*entities.Team, error)
	DeleteTeam(ctx context.Context, teamID int64) error
	RegenerateInvite(ctx context.Context, teamID int64) (*entities.Team, error)
	JoinTeam(ctx context.Context, code string, userID int64) (*entities.Team, error)
}

// TeamMemberUsecaseInterface abstracts team membership management.
type TeamMemberUsecaseInterface interface {
	AddTeamMember(ctx context.Context, teamID int64, add entities.MemberAdd) (*entities.TeamMember, error)
	AddTeamMembers(ctx context.Context, teamID int64, adds []entities.MemberAdd) (entities.BulkAddResult, error)
	RemoveTeamMember(ctx context.Context, teamID, userID int64) error
	RemoveTeamMembers(ctx context.Context, teamID int64, userIDs []int64) (entities.BulkRemoveResult, error)
	UpdateTeamMemberRole(ctx context.Context, teamID, userID int64, role entities.TeamRole) error
}

// TaskUsecaseInterface abstracts task operations.
type TaskUsecaseInterface interface {
	CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error)
	ListTasks(ctx context.Context) ([]entities.Task, error)
	ListTeamTasks(ctx context.Context, teamID int64, filter entities.TaskFilter) ([]entities.Task, error)
	ListUserTasks(ctx context.Context, userID int64, filter entities.TaskFilter) ([]entities.Task, error)
	TaskDetails(ctx context.Context, taskID int64) (*entities.TaskDetails, error)
	UpdateTask(ctx context.Context, teamID, taskID int64, upd entities.TaskUpdate) (*entities.Task, error)
	DeleteTask(ctx context.Context, teamID, taskID int64) error
	ChangeTaskStatus(ctx context.Context, teamID, taskID int64, status entities.TaskStatus, changedBy int64) (*entities.Task, error)
	TaskHistory(ctx context.Context, taskID int64) ([]entities.StatusChange, error)
	IsTaskAssignee(ctx context.Context, taskID, userID int64) (bool, error)
}

// TaskAssigneeUsecaseInterface abstracts task assignment management.
type TaskAssigneeUsecaseInterface interface {
	AddAssignee(ctx context.Context, teamID, taskID int64, add entities.AssigneeAdd) (*entities.TaskAssignee, error)
	AddAssignees(ctx context.Context, teamID, taskID int64, adds []entities.AssigneeAdd) (entities.BulkAddResult, error)
	RemoveAssignee(ctx context.Context, teamID, taskID, userID int64) error
	RemoveAssignees(ctx context.Context, teamID, taskID int64, userIDs []int64) (entities.BulkRemoveResult, error)
	UpdateAssigneeRole(ctx context.Context, teamID, taskID, userID int64, role string) error
}

// CommentUsecaseInterface abstracts task comments.
type CommentUsecaseInterface interface {
	CreateComment(ctx context.Context, comment entities.Comment) (*entities.Comment, error)
	Comment(ctx context.Context, commentID int64) (*entities.Comment, error)
	ListComments(ctx context.Context, taskID int64) ([]entities.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, content string) (*entities.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

// EvaluationUsecaseInterface abstracts task evaluations.
type EvaluationUsecaseInterface interface {
	CreateEvaluation(ctx context.Context, taskID, evaluatorID int64, in entities.EvaluationInput) (*entities.Evaluation, error)
	UpdateEvaluation(ctx context.Context, taskID, evaluatorID int64, in entities.EvaluationInput) (*entities.Evaluation, error)
	UserEvaluations(ctx context.Context, userID int64) ([]entities.Evaluation, error)
	AverageScore(ctx context.Context, userID int64, r entities.DateRange) (*float64, error)
	TaskEvaluations(ctx context.Context, taskID int64) ([]entities.Evaluation, error)
}

// MeetingUsecaseInterface abstracts meetings.
type MeetingUsecaseInterface interface {
	CreateMeeting(ctx context.Context, creatorID int64, in entities.MeetingCreate) (*entities.MeetingDetails, error)
	UpdateMeeting(ctx context.Context, meetingID, callerID int64, upd entities.MeetingUpdate) (*entities.MeetingDetails, error)
	Meeting(ctx context.Context, meetingID int64) (*entities.Meeting, error)
	MeetingDetails(ctx context.Context, meetingID int64) (*entities.MeetingDetails, error)
	UserMeetings(ctx context.Context, userID int64) ([]entities.Meeting, error)
	ListMeetings(ctx context.Context) ([]entities.Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID int64) error
}

// CalendarUsecaseInterface abstracts calendar views.
type CalendarUsecaseInterface interface {
	UserCalendar(ctx context.Context, userID int64, r entities.DateRange) ([]entities.CalendarDay, error)
	TeamCalendar(ctx context.Context, teamID int64, r entities.DateRange) ([]entities.CalendarDay, error)
}
