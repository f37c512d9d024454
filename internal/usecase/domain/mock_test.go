package domain

import (
	"context"
	"time"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/repository"

	"github.com/stretchr/testify/mock"
)

type repoMock struct {
	mock.Mock
	mutated *entities.Meeting
}

var _ repository.Repository = (*repoMock)(nil)

// get returns args[i] as T, or the zero value when it is nil.
func get[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

func (m *repoMock) OnStart(_ context.Context) error { return nil }
func (m *repoMock) OnStop(_ context.Context) error  { return nil }

// UpdateMeeting applies mutate to a copy of the configured meeting and keeps the result.
func (m *repoMock) UpdateMeeting(ctx context.Context, meetingID int64, mutate func(*entities.Meeting) error, addIDs, removeIDs []int64) (*entities.Meeting, error) {
	args := m.Called(ctx, meetingID, addIDs, removeIDs)
	current := get[*entities.Meeting](args, 0)
	if current == nil {
		return nil, args.Error(1)
	}
	cp := *current
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	m.mutated = &cp
	return &cp, args.Error(1)
}

func (m *repoMock) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) ListUsers(ctx context.Context) ([]entities.User, error) {
	args := m.Called(ctx)
	return get[[]entities.User](args, 0), args.Error(1)
}

func (m *repoMock) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	args := m.Called(ctx, userID)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) GetUserWithTeams(ctx context.Context, userID int64) (*entities.UserWithTeams, error) {
	args := m.Called(ctx, userID)
	return get[*entities.UserWithTeams](args, 0), args.Error(1)
}

func (m *repoMock) UpdateUser(ctx context.Context, userID int64, upd entities.UserUpdate) (*entities.User, error) {
	args := m.Called(ctx, userID, upd)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) SetUserRole(ctx context.Context, userID int64, role entities.GlobalRole) (*entities.User, error) {
	args := m.Called(ctx, userID, role)
	return get[*entities.User](args, 0), args.Error(1)
}

func (m *repoMock) DeleteUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *repoMock) GetCredentials(ctx context.Context, email string) (*entities.Credentials, error) {
	args := m.Called(ctx, email)
	return get[*entities.Credentials](args, 0), args.Error(1)
}

func (m *repoMock) MissingUsers(ctx context.Context, userIDs []int64) ([]int64, error) {
	args := m.Called(ctx, userIDs)
	return get[[]int64](args, 0), args.Error(1)
}

func (m *repoMock) TeamNameTaken(ctx context.Context, name string, excludeTeamID int64) (bool, error) {
	args := m.Called(ctx, name, excludeTeamID)
	return get[bool](args, 0), args.Error(1)
}

func (m *repoMock) CreateTeam(ctx context.Context, team entities.Team, managerID int64) (*entities.Team, error) {
	args := m.Called(ctx, team, managerID)
	return get[*entities.Team](args, 0), args.Error(1)
}

func (m *repoMock) ListTeams(ctx context.Context) ([]entities.Team, error) {
	args := m.Called(ctx)
	return get[[]entities.Team](args, 0), args.Error(1)
}

func (m *repoMock) GetTeam(ctx context.Context, teamID int64) (*entities.Team, error) {
	args := m.Called(ctx, teamID)
	return get[*entities.Team](args, 0), args.Error(1)
}

func (m *repoMock) GetTeamByInviteCode(ctx context.Context, code string) (*entities.Team, error) {
	args := m.Called(ctx, code)
	return get[*entities.Team](args, 0), args.Error(1)
}

func (m *repoMock) GetTeamDetails(ctx context.Context, teamID int64) (*entities.TeamDetails, error) {
	args := m.Called(ctx, teamID)
	return get[*entities.TeamDetails](args, 0), args.Error(1)
}

func (m *repoMock) UpdateTeam(ctx context.Context, teamID int64, upd entities.TeamUpdate) (*entities.Team, error) {
	args := m.Called(ctx, teamID, upd)
	return get[*entities.Team](args, 0), args.Error(1)
}

func (m *repoMock) DeleteTeam(ctx context.Context, teamID int64) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *repoMock) AddTeamMember(ctx context.Context, teamID int64, add entities.MemberAdd) (*entities.TeamMember, error) {
	args := m.Called(ctx, teamID, add)
	return get[*entities.TeamMember](args, 0), args.Error(1)
}

func (m *repoMock) AddTeamMembers(ctx context.Context, teamID int64, adds []entities.MemberAdd) (entities.BulkAddResult, error) {
	args := m.Called(ctx, teamID, adds)
	return get[entities.BulkAddResult](args, 0), args.Error(1)
}

func (m *repoMock) JoinTeam(ctx context.Context, teamID, userID int64, role entities.TeamRole) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *repoMock) RemoveTeamMember(ctx context.Context, teamID, userID int64) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *repoMock) RemoveTeamMembers(ctx context.Context, teamID int64, userIDs []int64) (entities.BulkRemoveResult, error) {
	args := m.Called(ctx, teamID, userIDs)
	return get[entities.BulkRemoveResult](args, 0), args.Error(1)
}

func (m *repoMock) UpdateTeamMemberRole(ctx context.Context, teamID, userID int64, role entities.TeamRole) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *repoMock) ListTeamUsers(ctx context.Context, teamID int64) ([]entities.User, error) {
	args := m.Called(ctx, teamID)
	return get[[]entities.User](args, 0), args.Error(1)
}

func (m *repoMock) CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error) {
	args := m.Called(ctx, task)
	return get[*entities.Task](args, 0), args.Error(1)
}

func (m *repoMock) GetTask(ctx context.Context, taskID int64) (*entities.Task, error) {
	args := m.Called(ctx, taskID)
	return get[*entities.Task](args, 0), args.Error(1)
}

func (m *repoMock) GetTaskDetails(ctx context.Context, taskID int64) (*entities.TaskDetails, error) {
	args := m.Called(ctx, taskID)
	return get[*entities.TaskDetails](args, 0), args.Error(1)
}

func (m *repoMock) ListTasks(ctx context.Context) ([]entities.Task, error) {
	args := m.Called(ctx)
	return get[[]entities.Task](args, 0), args.Error(1)
}

func (m *repoMock) ListTeamTasks(ctx context.Context, teamID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	args := m.Called(ctx, teamID, filter)
	return get[[]entities.Task](args, 0), args.Error(1)
}

func (m *repoMock) ListUserTasks(ctx context.Context, userID int64, filter entities.TaskFilter) ([]entities.Task, error) {
	args := m.Called(ctx, userID, filter)
	return get[[]entities.Task](args, 0), args.Error(1)
}

func (m *repoMock) UpdateTask(ctx context.Context, taskID int64, upd entities.TaskUpdate) (*entities.Task, error) {
	args := m.Called(ctx, taskID, upd)
	return get[*entities.Task](args, 0), args.Error(1)
}

func (m *repoMock) DeleteTask(ctx context.Context, taskID int64) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *repoMock) UpdateTaskStatus(ctx context.Context, taskID int64, status entities.TaskStatus, changedBy int64) (*entities.Task, error) {
	args := m.Called(ctx, taskID, status, changedBy)
	return get[*entities.Task](args, 0), args.Error(1)
}

func (m *repoMock) ListStatusHistory(ctx context.Context, taskID int64) ([]entities.StatusChange, error) {
	args := m.Called(ctx, taskID)
	return get[[]entities.StatusChange](args, 0), args.Error(1)
}

func (m *repoMock) IsTaskAssignee(ctx context.Context, taskID, userID int64) (bool, error) {
	args := m.Called(ctx, taskID, userID)
	return get[bool](args, 0), args.Error(1)
}

func (m *repoMock) AddAssignee(ctx context.Context, taskID int64, add entities.AssigneeAdd) (*entities.TaskAssignee, error) {
	args := m.Called(ctx, taskID, add)
	return get[*entities.TaskAssignee](args, 0), args.Error(1)
}

func (m *repoMock) AddAssignees(ctx context.Context, taskID int64, adds []entities.AssigneeAdd) (entities.BulkAddResult, error) {
	args := m.Called(ctx, taskID, adds)
	return get[entities.BulkAddResult](args, 0), args.Error(1)
}

func (m *repoMock) RemoveAssignee(ctx context.Context, taskID, userID int64) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func (m *repoMock) RemoveAssignees(ctx context.Context, taskID int64, userIDs []int64) (entities.BulkRemoveResult, error) {
	args := m.Called(ctx, taskID, userIDs)
	return get[entities.BulkRemoveResult](args, 0), args.Error(1)
}

func (m *repoMock) UpdateAssigneeRole(ctx context.Context, taskID, userID int64, role string) error {
	args := m.Called(ctx, taskID, userID, role)
	return args.Error(0)
}

func (m *repoMock) CreateComment(ctx context.Context, comment entities.Comment) (*entities.Comment, error) {
	args := m.Called(ctx, comment)
	return get[*entities.Comment](args, 0), args.Error(1)
}

func (m *repoMock) GetComment(ctx context.Context, commentID int64) (*entities.Comment, error) {
	args := m.Called(ctx, commentID)
	return get[*entities.Comment](args, 0), args.Error(1)
}

func (m *repoMock) UpdateComment(ctx context.Context, commentID int64, content string) (*entities.Comment, error) {
	args := m.Called(ctx, commentID, content)
	return get[*entities.Comment](args, 0), args.Error(1)
}

func (m *repoMock) DeleteComment(ctx context.Context, commentID int64) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

func (m *repoMock) ListTaskComments(ctx context.Context, taskID int64) ([]entities.Comment, error) {
	args := m.Called(ctx, taskID)
	return get[[]entities.Comment](args, 0), args.Error(1)
}

func (m *repoMock) CreateEvaluation(ctx context.Context, eval entities.Evaluation) (*entities.Evaluation, error) {
	args := m.Called(ctx, eval)
	return get[*entities.Evaluation](args, 0), args.Error(1)
}

func (m *repoMock) UpdateEvaluation(ctx context.Context, taskID, evaluatorID int64, in entities.EvaluationInput) (*entities.Evaluation, error) {
	args := m.Called(ctx, taskID, evaluatorID, in)
	return get[*entities.Evaluation](args, 0), args.Error(1)
}

func (m *repoMock) ListUserEvaluations(ctx context.Context, userID int64) ([]entities.Evaluation, error) {
	args := m.Called(ctx, userID)
	return get[[]entities.Evaluation](args, 0), args.Error(1)
}

func (m *repoMock) ListTaskEvaluations(ctx context.Context, taskID int64) ([]entities.Evaluation, error) {
	args := m.Called(ctx, taskID)
	return get[[]entities.Evaluation](args, 0), args.Error(1)
}

func (m *repoMock) AverageScore(ctx context.Context, userID int64, from, to time.Time) (*float64, error) {
	args := m.Called(ctx, userID, from, to)
	return get[*float64](args, 0), args.Error(1)
}

func (m *repoMock) CreateMeeting(ctx context.Context, meeting entities.Meeting, participantIDs []int64) (*entities.Meeting, error) {
	args := m.Called(ctx, meeting, participantIDs)
	return get[*entities.Meeting](args, 0), args.Error(1)
}

func (m *repoMock) GetMeeting(ctx context.Context, meetingID int64) (*entities.Meeting, error) {
	args := m.Called(ctx, meetingID)
	return get[*entities.Meeting](args, 0), args.Error(1)
}

func (m *repoMock) GetMeetingDetails(ctx context.Context, meetingID int64) (*entities.MeetingDetails, error) {
	args := m.Called(ctx, meetingID)
	return get[*entities.MeetingDetails](args, 0), args.Error(1)
}

func (m *repoMock) ListUserMeetings(ctx context.Context, userID int64) ([]entities.Meeting, error) {
	args := m.Called(ctx, userID)
	return get[[]entities.Meeting](args, 0), args.Error(1)
}

func (m *repoMock) ListMeetings(ctx context.Context) ([]entities.Meeting, error) {
	args := m.Called(ctx)
	return get[[]entities.Meeting](args, 0), args.Error(1)
}

func (m *repoMock) DeleteMeeting(ctx context.Context, meetingID int64) error {
	args := m.Called(ctx, meetingID)
	return args.Error(0)
}

func (m *repoMock) UserTasksDue(ctx context.Context, userID int64, from, to time.Time) ([]entities.Task, error) {
	args := m.Called(ctx, userID, from, to)
	return get[[]entities.Task](args, 0), args.Error(1)
}

func (m *repoMock) UserMeetingsStarting(ctx context.Context, userID int64, from, to time.Time) ([]entities.Meeting, error) {
	args := m.Called(ctx, userID, from, to)
	return get[[]entities.Meeting](args, 0), args.Error(1)
}

func (m *repoMock) TeamTasksDue(ctx context.Context, teamID int64, from, to time.Time) ([]entities.Task, error) {
	args := m.Called(ctx, teamID, from, to)
	return get[[]entities.Task](args, 0), args.Error(1)
}

func (m *repoMock) TeamMeetingsStarting(ctx context.Context, teamID int64, from, to time.Time) ([]entities.Meeting, error) {
	args := m.Called(ctx, teamID, from, to)
	return get[[]entities.Meeting](args, 0), args.Error(1)
}
