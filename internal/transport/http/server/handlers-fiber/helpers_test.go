package handlers_fiber

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		msg    string
	}{
		{
			name:   "email taken",
			err:    entities.ErrEmailTaken,
			status: http.StatusBadRequest,
			code:   dto.EMAILTAKEN,
			msg:    "Email already registered",
		},
		{
			name:   "wrapped detail",
			err:    fmt.Errorf("%w: title must be 1..100 characters", entities.ErrInvalidArgument),
			status: http.StatusBadRequest,
			code:   dto.INVALIDARGUMENT,
			msg:    "title must be 1..100 characters",
		},
		{
			name:   "password over bcrypt limit",
			err:    fmt.Errorf("%w: password must be at most 72 bytes", entities.ErrInvalidArgument),
			status: http.StatusBadRequest,
			code:   dto.INVALIDARGUMENT,
			msg:    "password must be at most 72 bytes",
		},
		{
			name:   "unknown email",
			err:    fmt.Errorf("%w: User with this email not found", entities.ErrUserNotFound),
			status: http.StatusNotFound,
			code:   dto.NOTFOUND,
			msg:    "User with this email not found",
		},
		{
			name:   "context wrap keeps default",
			err:    fmt.Errorf("update team: %w", entities.ErrTeamNotFound),
			status: http.StatusNotFound,
			code:   dto.NOTFOUND,
			msg:    "Team not found",
		},
		{
			name:   "bad credentials",
			err:    entities.ErrBadCredentials,
			status: http.StatusUnauthorized,
			code:   dto.UNAUTHORIZED,
			msg:    "Incorrect email or password",
		},
		{
			name:   "meeting conflict",
			err:    &entities.MeetingConflictError{UserIDs: []int64{2, 3}},
			status: http.StatusBadRequest,
			code:   dto.MEETINGCONFLICT,
			msg:    "Users with IDs [2, 3] already have meetings at that time.",
		},
		{
			name:   "internal",
			err:    fmt.Errorf("boom"),
			status: http.StatusInternalServerError,
			code:   dto.INTERNAL,
			msg:    "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return writeError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)
			body := decodeError(t, resp)
			require.Equal(t, tt.code, body.Error.Code)
			require.Equal(t, tt.msg, body.Error.Message)
		})
	}
}

func TestIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/teams/:team_id", func(c *fiber.Ctx) error {
		id, err := idParam(c, paramTeamID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(id)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teams/12", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var id int64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&id))
	require.Equal(t, int64(12), id)

	for _, raw := range []string{"abc", "0", "-3"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teams/"+raw, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, raw)
		require.Equal(t, "team_id must be a positive integer", decodeError(t, resp).Error.Message)
	}
}

func TestDateRange(t *testing.T) {
	var got entities.DateRange
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		r, err := dateRange(c)
		if err != nil {
			return writeError(c, err)
		}
		got = r
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?start_date=2024-03-01&end_date=2024-03-31", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.From)
	require.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), got.To)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/?start_date=03/01/2024&end_date=2024-03-31", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "start_date must be YYYY-MM-DD", decodeError(t, resp).Error.Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/?start_date=2024-03-01", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTaskFilter(t *testing.T) {
	var got entities.TaskFilter
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		f, err := taskFilter(c, true)
		if err != nil {
			return writeError(c, err)
		}
		got = f
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?status=open&status=done&priority=high,low&team_id=4", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, []entities.TaskStatus{entities.TaskOpen, entities.TaskDone}, got.Statuses)
	require.Equal(t, []entities.TaskPriority{"HIGH", "LOW"}, got.Priorities)
	require.NotNil(t, got.TeamID)
	require.Equal(t, int64(4), *got.TeamID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/?team_id=x", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
