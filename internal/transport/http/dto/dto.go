// Package dto defines the JSON shapes of the HTTP API.
package dto

import "time"

// ErrorCode is a machine readable error kind.
type ErrorCode string

const (
	INVALIDARGUMENT  ErrorCode = "INVALID_ARGUMENT"
	UNAUTHORIZED     ErrorCode = "UNAUTHORIZED"
	FORBIDDEN        ErrorCode = "FORBIDDEN"
	NOTFOUND         ErrorCode = "NOT_FOUND"
	EMAILTAKEN       ErrorCode = "EMAIL_TAKEN"
	TEAMEXISTS       ErrorCode = "TEAM_EXISTS"
	INVITECONFLICT   ErrorCode = "INVITE_CONFLICT"
	INVITEEXPIRED    ErrorCode = "INVITE_EXPIRED"
	ALREADYMEMBER    ErrorCode = "ALREADY_MEMBER"
	ALREADYASSIGNED  ErrorCode = "ALREADY_ASSIGNED"
	EVALUATIONEXISTS ErrorCode = "EVALUATION_EXISTS"
	MEETINGCONFLICT  ErrorCode = "MEETING_CONFLICT"
	INTERNAL         ErrorCode = "INTERNAL"
)

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse wraps every non-2xx answer.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewError builds an ErrorResponse.
func NewError(code ErrorCode, msg string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: msg}}
}

// Auth

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// Users

type UserCreate struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type UserUpdate struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UserTeam struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	Role     string `json:"role"`
}

type UserWithTeams struct {
	User
	Teams []UserTeam `json:"teams"`
}

type RoleUpdate struct {
	Role string `json:"role"`
}

// Teams

type TeamCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type TeamUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type Team struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	InviteCode          string    `json:"invite_code"`
	InviteCodeExpiresAt time.Time `json:"invite_code_expires_at"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

type TeamMember struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TeamDetails struct {
	Team
	TeamUsers []TeamMember  `json:"team_users"`
	Tasks     []TaskDetails `json:"tasks"`
}

type JoinRequest struct {
	InviteCode string `json:"invite_code"`
}

type MemberAdd struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AddedUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type BulkAddResponse struct {
	Added  []AddedUser `json:"added"`
	Errors []string    `json:"errors"`
}

type UserIDs struct {
	UserIDs []int64 `json:"user_ids"`
}

type BulkRemoveResponse struct {
	Removed  []int64 `json:"removed"`
	NotFound []int64 `json:"not_found"`
}

// Tasks

type TaskCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type TaskUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatorID   int64      `json:"creator_id"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	TeamID      int64      `json:"team_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type TaskAssignee struct {
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	AssignedAt time.Time `json:"assigned_at"`
}

type TaskDetails struct {
	Task
	CreatorEmail string         `json:"creator_email"`
	Assignees    []TaskAssignee `json:"assignees"`
}

type StatusUpdate struct {
	Status string `json:"status"`
}

type StatusChange struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	ChangedByID int64     `json:"changed_by_id"`
	NewStatus   string    `json:"new_status"`
	ChangedAt   time.Time `json:"changed_at"`
}

type AssigneeAdd struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

type AssigneeRole struct {
	Role string `json:"role"`
}

type AssigneeRoleUpdate struct {
	NewRole string `json:"new_role"`
}

// Comments

type CommentInput struct {
	Content string `json:"content"`
}

type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Evaluations

type EvaluationInput struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type Evaluation struct {
	ID                int64     `json:"id"`
	TaskID            int64     `json:"task_id"`
	EvaluatorID       int64     `json:"evaluator_id"`
	Score             int       `json:"score"`
	Feedback          string    `json:"feedback"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	EvaluatorFullName string    `json:"evaluator_full_name,omitempty"`
}

type AverageScore struct {
	AverageScore *float64 `json:"average_score"`
}

// Meetings

type MeetingCreate struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	ParticipantIDs []int64   `json:"participant_ids"`
}

type MeetingUpdate struct {
	Title                *string    `json:"title"`
	Description          *string    `json:"description"`
	Location             *string    `json:"location"`
	StartAt              *time.Time `json:"start_at"`
	EndAt                *time.Time `json:"end_at"`
	Status               *string    `json:"status"`
	AddParticipantIDs    []int64    `json:"add_participant_ids"`
	RemoveParticipantIDs []int64    `json:"remove_participant_ids"`
}

type Meeting struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	StartAt       time.Time  `json:"start_at"`
	EndAt         time.Time  `json:"end_at"`
	CreatorID     int64      `json:"creator_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CancelledAt   *time.Time `json:"cancelled_at"`
	CancelledByID *int64     `json:"cancelled_by_id"`
}

type Person struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type MeetingDetails struct {
	Meeting
	Creator      Person   `json:"creator"`
	CancelledBy  *Person  `json:"cancelled_by"`
	Participants []Person `json:"participants"`
}

// Calendar

type CalendarEvent struct {
	Type    string     `json:"type"`
	ID      int64      `json:"id"`
	Title   string     `json:"title"`
	DueDate *time.Time `json:"due_date,omitempty"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
}

// Calendar maps YYYY-MM-DD to the events of that day; encoding/json emits keys in ascending order.
type Calendar map[string][]CalendarEvent
