package domain

import (
	"context"
	"strings"
	"testing"
	"time"

	"team-task-manager/config"
	"team-task-manager/internal/auth"
	"team-task-manager/internal/entities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestUsecase(repo *repoMock) (*Usecase, *auth.Issuer) {
	issuer := auth.NewIssuer(config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	uc := New(zap.NewNop().Sugar(), context.Background(), repo, issuer, auth.NewHasher(bcrypt.MinCost), Config{
		Timeout:        time.Second,
		InviteTTL:      24 * time.Hour,
		InviteAttempts: 3,
	})
	uc.now = func() time.Time { return testNow }
	return uc, issuer
}

func TestUsecase_LoginRejectsUnknownEmail(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	repo.On("GetCredentials", mock.Anything, "ghost@example.com").Return(nil, entities.ErrUserNotFound)

	_, err := uc.Login(context.Background(), "ghost@example.com", "pw")
	require.ErrorIs(t, err, entities.ErrBadCredentials)
}

func TestUsecase_LoginIssuesTokensWithMemberships(t *testing.T) {
	repo := &repoMock{}
	uc, issuer := newTestUsecase(repo)

	hash, err := uc.hasher.Hash("secret")
	require.NoError(t, err)
	teams := []entities.Membership{{TeamID: 7, Role: entities.TeamRoleManager}}
	repo.On("GetCredentials", mock.Anything, "a@example.com").Return(&entities.Credentials{
		UserID: 3, PasswordHash: hash, Role: entities.RoleManager, Teams: teams,
	}, nil)

	_, err = uc.Login(context.Background(), "a@example.com", "wrong")
	require.ErrorIs(t, err, entities.ErrBadCredentials)

	pair, err := uc.Login(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)

	p, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(3), p.UserID)
	require.Equal(t, entities.RoleManager, p.Role)
	require.Equal(t, teams, p.Teams)

	access, err := uc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	_, err = issuer.ParseAccess(access)
	require.NoError(t, err)

	_, err = uc.Refresh(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestUsecase_RegisterHashesPassword(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	_, err := uc.Register(context.Background(), entities.User{Email: "not-an-email"}, "pw")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = uc.Register(context.Background(), entities.User{Email: "a@example.com"}, "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u entities.User) bool {
		return u.Email == "a@example.com" && u.Role == entities.RoleUser &&
			u.PasswordHash != "" && uc.hasher.Verify(u.PasswordHash, "pw")
	})).Return(&entities.User{ID: 1, Email: "a@example.com"}, nil)

	created, err := uc.Register(context.Background(), entities.User{Email: " a@example.com ", Role: entities.RoleAdmin}, "pw")
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	repo.AssertExpectations(t)
}

func TestUsecase_PasswordOverBcryptLimit(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	long := strings.Repeat("x", 73)

	_, err := uc.Register(context.Background(), entities.User{Email: "a@example.com"}, long)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	require.EqualError(t, err, "invalid argument: password must be at most 72 bytes")

	_, err = uc.UpdateUser(context.Background(), 1, entities.UserUpdate{Password: &long})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	require.Contains(t, err.Error(), "password must be at most 72 bytes")

	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)

	exact := strings.Repeat("x", 72)
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(&entities.User{ID: 2}, nil)
	_, err = uc.Register(context.Background(), entities.User{Email: "b@example.com"}, exact)
	require.NoError(t, err)
}

func TestUsecase_CreateAdmin(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)
	ctx := context.Background()

	valid := entities.User{Email: "root@example.com", FirstName: "Ada", LastName: "Lovelace"}

	cases := []struct {
		name     string
		user     entities.User
		password string
		msg      string
	}{
		{"bad email", entities.User{Email: "root", FirstName: "Ada", LastName: "Lovelace"}, "secret-pw", ""},
		{"empty first name", entities.User{Email: valid.Email, FirstName: "  ", LastName: "Lovelace"}, "secret-pw", "first_name must be 1..20 characters"},
		{"long last name", entities.User{Email: valid.Email, FirstName: "Ada", LastName: strings.Repeat("л", 21)}, "secret-pw", "last_name must be 1..20 characters"},
		{"short password", valid, "12345", "password must be at least 6 characters"},
		{"long password", valid, strings.Repeat("x", 73), "password must be at most 72 bytes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateAdmin(ctx, tc.user, tc.password)
			require.ErrorIs(t, err, entities.ErrInvalidArgument)
			if tc.msg != "" {
				require.Contains(t, err.Error(), tc.msg)
			}
		})
	}
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u entities.User) bool {
		return u.Email == "root@example.com" && u.FirstName == "Ada" && u.LastName == "Lovelace" &&
			u.Role == entities.RoleAdmin && uc.hasher.Verify(u.PasswordHash, "secret-pw")
	})).Return(&entities.User{ID: 1, Email: "root@example.com", Role: entities.RoleAdmin}, nil).Once()

	admin, err := uc.CreateAdmin(ctx, entities.User{Email: " root@example.com ", FirstName: " Ada ", LastName: "Lovelace", Role: entities.RoleUser}, "secret-pw")
	require.NoError(t, err)
	require.Equal(t, entities.RoleAdmin, admin.Role)

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, entities.ErrEmailTaken).Once()
	_, err = uc.CreateAdmin(ctx, valid, "secret-pw")
	require.ErrorIs(t, err, entities.ErrEmailTaken)
	repo.AssertExpectations(t)
}

func TestUsecase_UpdateUserEmailTaken(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	email := "taken@example.com"
	repo.On("GetUserByEmail", mock.Anything, email).Return(&entities.User{ID: 99}, nil)

	_, err := uc.UpdateUser(context.Background(), 1, entities.UserUpdate{Email: &email})
	require.ErrorIs(t, err, entities.ErrEmailTaken)
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_UpdateUserRehashesPassword(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	pw := "new-password"
	repo.On("UpdateUser", mock.Anything, int64(1), mock.MatchedBy(func(upd entities.UserUpdate) bool {
		return upd.Password == nil && upd.PasswordHash != nil && uc.hasher.Verify(*upd.PasswordHash, pw)
	})).Return(&entities.User{ID: 1}, nil)

	_, err := uc.UpdateUser(context.Background(), 1, entities.UserUpdate{Password: &pw})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUsecase_SetUserRoleValidation(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	_, err := uc.SetUserRole(context.Background(), 1, "root")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestInviteCode(t *testing.T) {
	require.Equal(t, "DREAMTEAM-1234", inviteCode("Dream Team", "1234"))
	require.Equal(t, "ABCDEFGHIJKLMNO-4321", inviteCode("abcdefghijklmnopqrstuvwxyz", "4321"))
	require.Len(t, []rune(inviteCode("очень длинное название команды", "1111")), maxInviteCode)
}

func TestUUIDDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		d := uuidDigits()
		require.Len(t, d, 4)
		require.Regexp(t, `^[0-9]{4}$`, d)
	}
}

func TestUsecase_CreateTeamValidation(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	_, err := uc.CreateTeam(context.Background(), entities.Team{Name: "   "}, 1)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = uc.CreateTeam(context.Background(), entities.Team{Name: "bad!name"}, 1)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("TeamNameTaken", mock.Anything, "core", int64(0)).Return(true, nil)
	_, err = uc.CreateTeam(context.Background(), entities.Team{Name: " core "}, 1)
	require.ErrorIs(t, err, entities.ErrTeamExists)
	repo.AssertNotCalled(t, "CreateTeam", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_CreateTeamRetriesInviteCollisions(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	suffixes := []string{"1111", "2222"}
	uc.inviteSuffix = func() string {
		s := suffixes[0]
		suffixes = suffixes[1:]
		return s
	}

	repo.On("TeamNameTaken", mock.Anything, "core", int64(0)).Return(false, nil)
	repo.On("CreateTeam", mock.Anything, mock.MatchedBy(func(t entities.Team) bool {
		return t.InviteCode == "CORE-1111"
	}), int64(5)).Return(nil, entities.ErrInviteCodeConflict).Once()
	repo.On("CreateTeam", mock.Anything, mock.MatchedBy(func(t entities.Team) bool {
		return t.InviteCode == "CORE-2222" && t.InviteCodeExpiresAt.Equal(testNow.Add(24*time.Hour))
	}), int64(5)).Return(&entities.Team{ID: 1, Name: "core", InviteCode: "CORE-2222"}, nil).Once()

	team, err := uc.CreateTeam(context.Background(), entities.Team{Name: "core", IsActive: true}, 5)
	require.NoError(t, err)
	require.Equal(t, "CORE-2222", team.InviteCode)
	repo.AssertExpectations(t)
}

func TestUsecase_CreateTeamInviteExhausted(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	repo.On("TeamNameTaken", mock.Anything, "core", int64(0)).Return(false, nil)
	repo.On("CreateTeam", mock.Anything, mock.Anything, int64(5)).Return(nil, entities.ErrInviteCodeConflict)

	_, err := uc.CreateTeam(context.Background(), entities.Team{Name: "core"}, 5)
	require.ErrorIs(t, err, entities.ErrInviteCodeExhausted)
	repo.AssertNumberOfCalls(t, "CreateTeam", 3)
}

func TestUsecase_UpdateTeamRenameRegeneratesInvite(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)
	uc.inviteSuffix = func() string { return "9999" }

	name := "New Name"
	repo.On("TeamNameTaken", mock.Anything, name, int64(4)).Return(false, nil)
	repo.On("UpdateTeam", mock.Anything, int64(4), mock.MatchedBy(func(upd entities.TeamUpdate) bool {
		return upd.InviteCode != nil && *upd.InviteCode == "NEWNAME-9999" &&
			upd.InviteCodeExpiresAt != nil && upd.InviteCodeExpiresAt.Equal(testNow.Add(24*time.Hour))
	})).Return(&entities.Team{ID: 4, Name: name}, nil)

	_, err := uc.UpdateTeam(context.Background(), 4, entities.TeamUpdate{Name: &name})
	require.NoError(t, err)

	desc := "only description"
	repo.On("UpdateTeam", mock.Anything, int64(5), mock.MatchedBy(func(upd entities.TeamUpdate) bool {
		return upd.InviteCode == nil && upd.Name == nil
	})).Return(&entities.Team{ID: 5}, nil)
	_, err = uc.UpdateTeam(context.Background(), 5, entities.TeamUpdate{Description: &desc})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUsecase_JoinTeam(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	repo.On("GetTeamByInviteCode", mock.Anything, "OLD-1").Return(&entities.Team{
		ID: 1, IsActive: true, InviteCodeExpiresAt: testNow.Add(-time.Minute),
	}, nil)
	repo.On("GetTeamByInviteCode", mock.Anything, "OFF-1").Return(&entities.Team{
		ID: 2, IsActive: false, InviteCodeExpiresAt: testNow.Add(time.Hour),
	}, nil)
	repo.On("GetTeamByInviteCode", mock.Anything, "OK-1").Return(&entities.Team{
		ID: 3, IsActive: true, InviteCodeExpiresAt: testNow.Add(time.Hour),
	}, nil)
	repo.On("JoinTeam", mock.Anything, int64(3), int64(10), entities.TeamRoleExecutor).Return(nil)

	_, err := uc.JoinTeam(context.Background(), "OLD-1", 10)
	require.ErrorIs(t, err, entities.ErrInviteExpired)
	_, err = uc.JoinTeam(context.Background(), "OFF-1", 10)
	require.ErrorIs(t, err, entities.ErrInviteExpired)
	_, err = uc.JoinTeam(context.Background(), "", 10)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	team, err := uc.JoinTeam(context.Background(), "OK-1", 10)
	require.NoError(t, err)
	require.Equal(t, int64(3), team.ID)
	repo.AssertExpectations(t)
}

func TestUsecase_BulkOperationsRejectEmptyLists(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	_, err := uc.AddTeamMembers(context.Background(), 1, nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = uc.RemoveTeamMembers(context.Background(), 1, nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = uc.AddAssignees(context.Background(), 1, 2, nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = uc.RemoveAssignees(context.Background(), 1, 2, []int64{})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestUsecase_AddTeamMembersDefaultsRole(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	repo.On("AddTeamMembers", mock.Anything, int64(1), []entities.MemberAdd{
		{Email: "a@example.com", Role: entities.TeamRoleExecutor},
		{Email: "b@example.com", Role: entities.TeamRoleManager},
	}).Return(entities.BulkAddResult{Added: []entities.AddedUser{{ID: 1}}, Errors: []string{"x"}}, nil)

	res, err := uc.AddTeamMembers(context.Background(), 1, []entities.MemberAdd{
		{Email: " a@example.com"},
		{Email: "b@example.com", Role: entities.TeamRoleManager},
	})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	require.Equal(t, []string{"x"}, res.Errors)
}

func TestUsecase_TaskMustBelongToTeam(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	repo.On("GetTask", mock.Anything, int64(9)).Return(&entities.Task{ID: 9, TeamID: 2}, nil)

	_, err := uc.ChangeTaskStatus(context.Background(), 1, 9, entities.TaskDone, 3)
	require.ErrorIs(t, err, entities.ErrTaskNotFound)
	require.ErrorIs(t, uc.DeleteTask(context.Background(), 1, 9), entities.ErrTaskNotFound)
	_, err = uc.AddAssignee(context.Background(), 1, 9, entities.AssigneeAdd{UserID: 4})
	require.ErrorIs(t, err, entities.ErrTaskNotFound)

	_, err = uc.ChangeTaskStatus(context.Background(), 2, 9, "closed", 3)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("UpdateTaskStatus", mock.Anything, int64(9), entities.TaskDone, int64(3)).
		Return(&entities.Task{ID: 9, TeamID: 2, Status: entities.TaskDone}, nil)
	task, err := uc.ChangeTaskStatus(context.Background(), 2, 9, entities.TaskDone, 3)
	require.NoError(t, err)
	require.Equal(t, entities.TaskDone, task.Status)
}

func TestUsecase_CreateTaskDefaults(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	_, err := uc.CreateTask(context.Background(), entities.Task{Title: " ", TeamID: 1})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("GetTeam", mock.Anything, int64(1)).Return(&entities.Team{ID: 1}, nil)
	repo.On("CreateTask", mock.Anything, mock.MatchedBy(func(t entities.Task) bool {
		return t.Status == entities.TaskOpen && t.Priority == entities.PriorityMedium && t.Title == "Write docs"
	})).Return(&entities.Task{ID: 1}, nil)

	_, err = uc.CreateTask(context.Background(), entities.Task{Title: "Write docs", TeamID: 1, CreatorID: 2})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUsecase_AssigneeRoleDefaults(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	repo.On("GetTask", mock.Anything, int64(9)).Return(&entities.Task{ID: 9, TeamID: 1}, nil)
	repo.On("AddAssignee", mock.Anything, int64(9), entities.AssigneeAdd{UserID: 4, Role: entities.DefaultAssigneeRole}).
		Return(&entities.TaskAssignee{UserID: 4, Role: entities.DefaultAssigneeRole}, nil)

	a, err := uc.AddAssignee(context.Background(), 1, 9, entities.AssigneeAdd{UserID: 4})
	require.NoError(t, err)
	require.Equal(t, entities.DefaultAssigneeRole, a.Role)

	err = uc.UpdateAssigneeRole(context.Background(), 1, 9, 4, "a-role-that-is-far-too-long")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestUsecase_CommentValidation(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	_, err := uc.CreateComment(context.Background(), entities.Comment{TaskID: 1, Content: "  "})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("GetTask", mock.Anything, int64(404)).Return(nil, entities.ErrTaskNotFound)
	_, err = uc.CreateComment(context.Background(), entities.Comment{TaskID: 404, Content: "hi"})
	require.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestUsecase_CreateEvaluationRules(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	_, err := uc.CreateEvaluation(context.Background(), 1, 2, entities.EvaluationInput{Score: 6})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("GetTask", mock.Anything, int64(1)).Return(&entities.Task{ID: 1, Status: entities.TaskInProgress}, nil)
	_, err = uc.CreateEvaluation(context.Background(), 1, 2, entities.EvaluationInput{Score: 4})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("GetTask", mock.Anything, int64(2)).Return(&entities.Task{ID: 2, Status: entities.TaskDone}, nil)
	repo.On("CreateEvaluation", mock.Anything, entities.Evaluation{TaskID: 2, EvaluatorID: 3, Score: 5, Feedback: "great"}).
		Return(&entities.Evaluation{ID: 1, TaskID: 2, Score: 5}, nil)
	eval, err := uc.CreateEvaluation(context.Background(), 2, 3, entities.EvaluationInput{Score: 5, Feedback: "great"})
	require.NoError(t, err)
	require.Equal(t, 5, eval.Score)
}

func TestUsecase_AverageScoreBounds(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	day := func(d int) time.Time { return time.Date(2030, 1, d, 0, 0, 0, 0, time.UTC) }

	_, err := uc.AverageScore(context.Background(), 1, entities.DateRange{From: day(5), To: day(4)})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	avg := 4.5
	repo.On("AverageScore", mock.Anything, int64(1), day(4),
		time.Date(2030, 1, 5, 23, 59, 59, 999999000, time.UTC)).Return(&avg, nil)

	got, err := uc.AverageScore(context.Background(), 1, entities.DateRange{From: day(4), To: day(5)})
	require.NoError(t, err)
	require.InDelta(t, 4.5, *got, 0.0001)
}

func TestUsecase_CreateMeetingAddsCreator(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	start := testNow
	_, err := uc.CreateMeeting(context.Background(), 1, entities.MeetingCreate{StartAt: start, EndAt: start})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("CreateMeeting", mock.Anything, mock.MatchedBy(func(m entities.Meeting) bool {
		return m.CreatorID == 5 && m.Status == entities.MeetingScheduled
	}), []int64{2, 5, 9}).Return(&entities.Meeting{ID: 11}, nil)
	repo.On("GetMeetingDetails", mock.Anything, int64(11)).Return(&entities.MeetingDetails{Meeting: entities.Meeting{ID: 11}}, nil)

	details, err := uc.CreateMeeting(context.Background(), 5, entities.MeetingCreate{
		Title: "Planning", StartAt: start, EndAt: start.Add(time.Hour), ParticipantIDs: []int64{9, 2, 9},
	})
	require.NoError(t, err)
	require.Equal(t, int64(11), details.ID)
	repo.AssertExpectations(t)
}

func TestUsecase_UpdateMeetingCancelStampsCaller(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	current := &entities.Meeting{
		ID: 3, StartAt: testNow, EndAt: testNow.Add(time.Hour), CreatorID: 1, Status: entities.MeetingScheduled,
	}
	repo.On("UpdateMeeting", mock.Anything, int64(3), []int64{4}, []int64{}).Return(current, nil)
	repo.On("GetMeetingDetails", mock.Anything, int64(3)).Return(&entities.MeetingDetails{}, nil)

	status := entities.MeetingCancelled
	_, err := uc.UpdateMeeting(context.Background(), 3, 1, entities.MeetingUpdate{
		Status: &status, AddParticipantIDs: []int64{4, 4},
	})
	require.NoError(t, err)
	require.NotNil(t, repo.mutated)
	require.Equal(t, entities.MeetingCancelled, repo.mutated.Status)
	require.Equal(t, testNow, *repo.mutated.CancelledAt)
	require.Equal(t, int64(1), *repo.mutated.CancelledByID)
}

func TestApplyMeetingPatch(t *testing.T) {
	base := entities.Meeting{StartAt: testNow, EndAt: testNow.Add(time.Hour), Status: entities.MeetingScheduled}

	t.Run("end before start", func(t *testing.T) {
		m := base
		end := testNow.Add(-time.Minute)
		err := applyMeetingPatch(&m, entities.MeetingUpdate{EndAt: &end}, 1, testNow)
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
	})

	t.Run("already cancelled keeps stamps", func(t *testing.T) {
		stamped := testNow.Add(-time.Hour)
		by := int64(8)
		m := base
		m.Status, m.CancelledAt, m.CancelledByID = entities.MeetingCancelled, &stamped, &by

		status := entities.MeetingCancelled
		require.NoError(t, applyMeetingPatch(&m, entities.MeetingUpdate{Status: &status}, 1, testNow))
		require.Equal(t, stamped, *m.CancelledAt)
		require.Equal(t, int64(8), *m.CancelledByID)
	})

	t.Run("fields copied", func(t *testing.T) {
		m := base
		title, loc := "Retro", "Room 1"
		require.NoError(t, applyMeetingPatch(&m, entities.MeetingUpdate{Title: &title, Location: &loc}, 1, testNow))
		require.Equal(t, "Retro", m.Title)
		require.Equal(t, "Room 1", m.Location)
		require.Nil(t, m.CancelledAt)
	})
}

func TestBuildCalendar(t *testing.T) {
	at := func(day, hour int) time.Time { return time.Date(2030, 2, day, hour, 0, 0, 0, time.UTC) }
	due1, due2 := at(2, 18), at(1, 9)

	days := buildCalendar(
		[]entities.Task{
			{ID: 1, Title: "Report", DueDate: &due1},
			{ID: 2, Title: "Deploy", DueDate: &due2},
			{ID: 3, Title: "No date"},
		},
		[]entities.Meeting{
			{ID: 10, StartAt: at(2, 10), EndAt: at(2, 11)},
		},
	)

	require.Len(t, days, 2)
	require.Equal(t, "2030-02-01", days[0].Date)
	require.Equal(t, "2030-02-02", days[1].Date)

	require.Len(t, days[1].Events, 2)
	require.Equal(t, entities.EventMeeting, days[1].Events[0].Type)
	require.Equal(t, "Untitled", days[1].Events[0].Title)
	require.Equal(t, at(2, 11), *days[1].Events[0].End)
	require.Equal(t, entities.EventTask, days[1].Events[1].Type)
	require.Equal(t, int64(1), days[1].Events[1].ID)
}

func TestUsecase_TeamCalendarQueriesRange(t *testing.T) {
	repo := &repoMock{}
	uc, _ := newTestUsecase(repo)

	from := time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2030, 2, 3, 23, 59, 59, 999999000, time.UTC)
	due := time.Date(2030, 2, 3, 8, 0, 0, 0, time.UTC)

	repo.On("TeamTasksDue", mock.Anything, int64(1), from, to).Return([]entities.Task{{ID: 1, Title: "t", DueDate: &due}}, nil)
	repo.On("TeamMeetingsStarting", mock.Anything, int64(1), from, to).Return([]entities.Meeting{}, nil)

	days, err := uc.TeamCalendar(context.Background(), 1, entities.DateRange{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, "2030-02-03", days[0].Date)
	repo.AssertExpectations(t)

	_, err = uc.UserCalendar(context.Background(), 1, entities.DateRange{From: to, To: from})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}
