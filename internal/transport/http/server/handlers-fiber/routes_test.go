package handlers_fiber

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"team-task-manager/internal/auth"
	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/dto"
	"team-task-manager/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tokenTable map[string]*auth.Principal

func (t tokenTable) ParseAccess(token string) (*auth.Principal, error) {
	p, ok := t[token]
	if !ok {
		return nil, entities.ErrUnauthorized
	}
	return p, nil
}

// stubUsecase overrides only the operations exercised below; any other call panics.
type stubUsecase struct {
	usecase.InterfaceUsecase

	meetingCreator int64
	updatedMeeting bool
}

func (s *stubUsecase) Login(_ context.Context, email, password string) (auth.TokenPair, error) {
	if email == "ann@example.com" && password == "secret" {
		return auth.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
	}
	return auth.TokenPair{}, entities.ErrBadCredentials
}

func (s *stubUsecase) UserWithTeams(_ context.Context, userID int64) (*entities.UserWithTeams, error) {
	return &entities.UserWithTeams{
		User:  entities.User{ID: userID, Email: "ann@example.com", Role: entities.RoleUser},
		Teams: []entities.UserTeam{{TeamID: 3, TeamName: "Core", Role: entities.TeamRoleExecutor}},
	}, nil
}

func (s *stubUsecase) Meeting(_ context.Context, meetingID int64) (*entities.Meeting, error) {
	if meetingID != 7 {
		return nil, entities.ErrMeetingNotFound
	}
	return &entities.Meeting{ID: meetingID, CreatorID: s.meetingCreator}, nil
}

func (s *stubUsecase) UpdateMeeting(_ context.Context, meetingID, _ int64, _ entities.MeetingUpdate) (*entities.MeetingDetails, error) {
	s.updatedMeeting = true
	return &entities.MeetingDetails{Meeting: entities.Meeting{ID: meetingID, CreatorID: s.meetingCreator}}, nil
}

func (s *stubUsecase) ListTeamTasks(_ context.Context, teamID int64, _ entities.TaskFilter) ([]entities.Task, error) {
	return []entities.Task{{ID: 1, TeamID: teamID, Title: "ship"}}, nil
}

func (s *stubUsecase) UserCalendar(_ context.Context, _ int64, _ entities.DateRange) ([]entities.CalendarDay, error) {
	due := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	return []entities.CalendarDay{{
		Date:   "2024-05-02",
		Events: []entities.CalendarEvent{{Type: entities.EventTask, ID: 4, Title: "report", At: due}},
	}}, nil
}

func newTestApp(uc *stubUsecase) *fiber.App {
	tokens := tokenTable{
		"admin": {UserID: 1, Role: entities.RoleAdmin},
		"ann": {
			UserID: 2,
			Role:   entities.RoleUser,
			Teams:  []entities.Membership{{TeamID: 3, Role: entities.TeamRoleExecutor}},
		},
	}
	app := fiber.New()
	RegisterRoutes(app, NewHandler(zap.NewNop().Sugar(), uc), tokens)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRoutesLogin(t *testing.T) {
	app := newTestApp(&stubUsecase{})

	resp := doRequest(t, app, http.MethodPost, "/auth/login", "", `{"email":"ann@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tokens dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
	require.Equal(t, dto.TokenResponse{AccessToken: "a", RefreshToken: "r", TokenType: "bearer"}, tokens)

	resp = doRequest(t, app, http.MethodPost, "/auth/login", "", `{"email":"ann@example.com","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Incorrect email or password", decodeError(t, resp).Error.Message)
}

func TestRoutesRequireToken(t *testing.T) {
	app := newTestApp(&stubUsecase{})

	resp := doRequest(t, app, http.MethodGet, "/users/me", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/teams/3/tasks", "forged", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutesMe(t *testing.T) {
	app := newTestApp(&stubUsecase{})

	resp := doRequest(t, app, http.MethodGet, "/users/me", "ann", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me dto.UserWithTeams
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	require.Equal(t, int64(2), me.ID)
	require.Len(t, me.Teams, 1)
	require.Equal(t, "Core", me.Teams[0].TeamName)
}

func TestRoutesGuards(t *testing.T) {
	app := newTestApp(&stubUsecase{})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"user cannot list users", http.MethodGet, "/users", "ann", http.StatusForbidden},
		{"user cannot create team", http.MethodPost, "/teams", "ann", http.StatusForbidden},
		{"deleting users is disabled", http.MethodDelete, "/users/2", "admin", http.StatusForbidden},
		{"listing all tasks is disabled", http.MethodGet, "/tasks", "admin", http.StatusForbidden},
		{"non member cannot read team tasks", http.MethodGet, "/teams/9/tasks", "ann", http.StatusForbidden},
		{"executor cannot create task", http.MethodPost, "/teams/3/tasks", "ann", http.StatusForbidden},
		{"admin must be member to manage users", http.MethodPost, "/teams/3/users", "admin", http.StatusForbidden},
		{"executor cannot evaluate", http.MethodPost, "/tasks/1/evaluations", "ann", http.StatusForbidden},
		{"member reads team tasks", http.MethodGet, "/teams/3/tasks", "ann", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, tt.method, tt.path, tt.token, "")
			require.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRoutesMeetingCreatorOnly(t *testing.T) {
	uc := &stubUsecase{meetingCreator: 1}
	app := newTestApp(uc)

	resp := doRequest(t, app, http.MethodPatch, "/meetings/7", "ann", `{"title":"sync"}`)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.False(t, uc.updatedMeeting)

	resp = doRequest(t, app, http.MethodPatch, "/meetings/8", "ann", `{"title":"sync"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPatch, "/meetings/7", "admin", `{"title":"sync"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, uc.updatedMeeting)
}

func TestRoutesCalendar(t *testing.T) {
	app := newTestApp(&stubUsecase{})

	resp := doRequest(t, app, http.MethodGet, "/calendar?start_date=2024-05-01&end_date=2024-05-31", "ann", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cal dto.Calendar
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cal))
	require.Len(t, cal["2024-05-02"], 1)
	require.Equal(t, "task", cal["2024-05-02"][0].Type)
	require.NotNil(t, cal["2024-05-02"][0].DueDate)

	resp = doRequest(t, app, http.MethodGet, "/calendar?start_date=bad&end_date=2024-05-31", "ann", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
