package usecase

import (
	"context"

	"team-task-manager/internal/repository"
	"team-task-manager/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	AuthUsecaseInterface
	UserUsecaseInterface
	AdminUsecaseInterface
	TeamUsecaseInterface
	TeamMemberUsecaseInterface
	TaskUsecaseInterface
	TaskAssigneeUsecaseInterface
	CommentUsecaseInterface
	EvaluationUsecaseInterface
	MeetingUsecaseInterface
	CalendarUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	tokens domain.TokenIssuer,
	hasher domain.PasswordHasher,
	cfg domain.Config,
) InterfaceUsecase {
	return domain.New(log, ctx, repo, tokens, hasher, cfg)
}
