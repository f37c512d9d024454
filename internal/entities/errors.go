// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized signals missing or invalid credentials.
	ErrUnauthorized = errors.New("could not validate credentials")
	// ErrBadCredentials signals a failed login.
	ErrBadCredentials = errors.New("incorrect email or password")
	// ErrForbidden signals an authenticated caller without permission.
	ErrForbidden = errors.New("not enough permissions")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken signals email uniqueness conflict.
	ErrEmailTaken = errors.New("email already registered")

	// ErrTeamExists signals team name conflict.
	ErrTeamExists = errors.New("team exists")
	// ErrTeamNotFound signals missing team.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInviteCodeConflict signals invite code uniqueness conflict.
	ErrInviteCodeConflict = errors.New("invite code conflict")
	// ErrInviteCodeExhausted signals that no unique invite code was found within the attempt budget.
	ErrInviteCodeExhausted = errors.New("failed to generate unique invite code")
	// ErrInviteNotFound signals an unknown invite code.
	ErrInviteNotFound = errors.New("invite code not found")
	// ErrInviteExpired signals an expired invite code or inactive team.
	ErrInviteExpired = errors.New("invite code expired")
	// ErrAlreadyMember signals a duplicate team membership.
	ErrAlreadyMember = errors.New("user is already a member of the team")
	// ErrNotMember signals a missing team membership.
	ErrNotMember = errors.New("user is not a member of the team")

	// ErrTaskNotFound signals missing task.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAlreadyAssigned signals a duplicate task assignment.
	ErrAlreadyAssigned = errors.New("user already assigned to this task")
	// ErrAssigneeNotFound signals a missing task assignment.
	ErrAssigneeNotFound = errors.New("executor not found for this task")

	// ErrCommentNotFound signals missing comment.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrEvaluationExists signals a second evaluation by the same evaluator.
	ErrEvaluationExists = errors.New("evaluation already exists for this evaluator")
	// ErrEvaluationNotFound signals missing evaluation.
	ErrEvaluationNotFound = errors.New("evaluation not found")

	// ErrMeetingNotFound signals missing meeting.
	ErrMeetingNotFound = errors.New("meeting not found")
	// ErrMeetingConflict signals overlapping scheduled meetings of participants.
	ErrMeetingConflict = errors.New("meeting conflict")
)
