// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"context"

	"team-task-manager/internal/transport/http/middleware"
	"team-task-manager/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	paramUserID    = "user_id"
	paramTeamID    = "team_id"
	paramTaskID    = "task_id"
	paramCommentID = "comment_id"
	paramMeetingID = "meeting_id"
)

// Handler serves the REST API using service layer interfaces.
type Handler struct {
	log *zap.SugaredLogger
	uc  usecase.InterfaceUsecase
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase) *Handler {
	return &Handler{
		log: log.Named("http"),
		uc:  usecase,
	}
}

func (h *Handler) isAssignee(ctx context.Context, taskID, userID int64) (bool, error) {
	return h.uc.IsTaskAssignee(ctx, taskID, userID)
}

func (h *Handler) commentAuthor(ctx context.Context, id int64) (int64, error) {
	c, err := h.uc.Comment(ctx, id)
	if err != nil {
		return 0, err
	}
	return c.AuthorID, nil
}

func (h *Handler) meetingCreator(ctx context.Context, id int64) (int64, error) {
	m, err := h.uc.Meeting(ctx, id)
	if err != nil {
		return 0, err
	}
	return m.CreatorID, nil
}

// RegisterRoutes mounts every endpoint with its authentication and permission guards.
// Static segments such as /users/me are registered before their parameterised siblings.
func RegisterRoutes(router fiber.Router, h *Handler, tokens middleware.AccessParser) {
	authn := middleware.Authenticate(tokens)

	router.Post("/auth/login", h.Login)
	router.Post("/auth/refresh", h.Refresh)

	users := router.Group("/users")
	users.Post("/", h.Register)
	users.Get("/", authn, middleware.IsAdmin(), h.ListUsers)
	users.Get("/me", authn, h.Me)
	users.Put("/me", authn, h.UpdateMe)
	users.Get("/:user_id", authn, middleware.IsAdmin(), h.GetUser)
	users.Put("/:user_id/role", authn, middleware.IsAdmin(), h.SetUserRole)
	users.Delete("/:user_id", authn, middleware.BlockEveryone(), h.DeleteUser)

	teams := router.Group("/teams", authn)
	teams.Post("/", middleware.IsAdmin(), h.CreateTeam)
	teams.Get("/", h.ListTeams)
	teams.Post("/join", h.JoinTeam)
	teams.Get("/:team_id", middleware.IsTeamMember(), h.GetTeam)
	teams.Put("/:team_id", middleware.IsAdminAndMember(), h.UpdateTeam)
	teams.Delete("/:team_id", middleware.IsAdminAndMember(), h.DeleteTeam)
	teams.Post("/:team_id/invite", middleware.AdminOrManagerInTeam(), h.RegenerateInvite)
	teams.Get("/:team_id/calendar", middleware.IsTeamMember(), h.TeamCalendar)

	teams.Get("/:team_id/users", middleware.IsTeamMember(), h.ListTeamUsers)
	teams.Post("/:team_id/users/bulk", middleware.IsAdminAndMember(), h.AddTeamMembers)
	teams.Post("/:team_id/users", middleware.IsAdminAndMember(), h.AddTeamMember)
	teams.Delete("/:team_id/users", middleware.IsAdminAndMember(), h.RemoveTeamMembers)
	teams.Delete("/:team_id/users/:user_id", middleware.IsAdminAndMember(), h.RemoveTeamMember)
	teams.Patch("/:team_id/users/:user_id/role", middleware.IsAdminAndMember(), h.UpdateTeamMemberRole)

	teams.Post("/:team_id/tasks", middleware.AdminOrManagerInTeam(), h.CreateTask)
	teams.Get("/:team_id/tasks", middleware.IsTeamMember(), h.ListTeamTasks)
	teams.Put("/:team_id/tasks/:task_id", middleware.AdminOrManagerInTeam(), h.UpdateTask)
	teams.Delete("/:team_id/tasks/:task_id", middleware.AdminOrManagerInTeam(), h.DeleteTask)
	teams.Patch("/:team_id/tasks/:task_id/status", middleware.CanChangeStatus(h.isAssignee), h.ChangeTaskStatus)

	assignees := teams.Group("/:team_id/tasks/:task_id/assignees", middleware.AdminOrManagerInTeam())
	assignees.Post("/", h.AddAssignees)
	assignees.Delete("/", h.RemoveAssignees)
	assignees.Post("/:user_id", h.AddAssignee)
	assignees.Delete("/:user_id", h.RemoveAssignee)
	assignees.Patch("/:user_id/role", h.UpdateAssigneeRole)

	tasks := router.Group("/tasks", authn)
	tasks.Get("/", middleware.BlockEveryone(), h.ListTasks)
	tasks.Get("/my", h.MyTasks)
	tasks.Get("/:task_id", h.GetTask)
	tasks.Get("/:task_id/history", h.TaskHistory)
	tasks.Post("/:task_id/comments", h.CreateComment)
	tasks.Get("/:task_id/comments", h.ListComments)
	tasks.Post("/:task_id/evaluations", middleware.AdminOrManager(), h.CreateEvaluation)
	tasks.Put("/:task_id/evaluations", middleware.AdminOrManager(), h.UpdateEvaluation)
	tasks.Get("/:task_id/evaluations", h.TaskEvaluations)

	comments := router.Group("/comments", authn)
	comments.Put("/:comment_id", middleware.CreatorOnly(paramCommentID, h.commentAuthor), h.UpdateComment)
	comments.Delete("/:comment_id", middleware.CreatorOrAdmin(paramCommentID, h.commentAuthor), h.DeleteComment)

	evaluations := router.Group("/evaluations", authn)
	evaluations.Get("/my", h.MyEvaluations)
	evaluations.Get("/my/average", h.MyAverageScore)

	meetings := router.Group("/meetings", authn)
	meetings.Post("/", h.CreateMeeting)
	meetings.Get("/", middleware.IsAdmin(), h.ListMeetings)
	meetings.Get("/my", h.MyMeetings)
	meetings.Get("/:meeting_id", h.GetMeeting)
	meetings.Patch("/:meeting_id", middleware.CreatorOnly(paramMeetingID, h.meetingCreator), h.UpdateMeeting)
	meetings.Delete("/:meeting_id", middleware.CreatorOrAdmin(paramMeetingID, h.meetingCreator), h.DeleteMeeting)

	router.Get("/calendar", authn, h.MyCalendar)
}
