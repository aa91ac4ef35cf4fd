package businessflow

import (
	"context"

	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
)

// UserFlow handles admin user management
type UserFlow interface {
	Get(ctx context.Context, userID uint) (*dto.UserInfo, error)
	List(ctx context.Context, limit, offset int) ([]dto.UserInfo, error)
	ListActive(ctx context.Context, limit, offset int) ([]dto.UserInfo, error)
	Promote(ctx context.Context, userID uint) error
	Demote(ctx context.Context, userID uint) error
	Activate(ctx context.Context, userID uint) error
	Deactivate(ctx context.Context, userID uint) error
}

// UserFlowImpl implements the user management business flow
type UserFlowImpl struct {
	userRepo repository.UserRepository
}

// NewUserFlow creates a new user flow instance
func NewUserFlow(userRepo repository.UserRepository) UserFlow {
	return &UserFlowImpl{userRepo: userRepo}
}

func (uf *UserFlowImpl) Get(ctx context.Context, userID uint) (*dto.UserInfo, error) {
	user, err := uf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	info := ToUserInfo(*user)
	return &info, nil
}

func (uf *UserFlowImpl) List(ctx context.Context, limit, offset int) ([]dto.UserInfo, error) {
	users, err := uf.userRepo.ByFilter(ctx, models.UserFilter{}, "id DESC", limit, offset)
	if err != nil {
		return nil, err
	}
	return toUserInfos(users), nil
}

func (uf *UserFlowImpl) ListActive(ctx context.Context, limit, offset int) ([]dto.UserInfo, error) {
	users, err := uf.userRepo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return toUserInfos(users), nil
}

func (uf *UserFlowImpl) Promote(ctx context.Context, userID uint) error {
	return uf.setRole(ctx, userID, models.RoleAdministrator)
}

func (uf *UserFlowImpl) Demote(ctx context.Context, userID uint) error {
	return uf.setRole(ctx, userID, models.RoleStandard)
}

func (uf *UserFlowImpl) Activate(ctx context.Context, userID uint) error {
	return uf.userRepo.Activate(ctx, userID)
}

func (uf *UserFlowImpl) Deactivate(ctx context.Context, userID uint) error {
	return uf.userRepo.Deactivate(ctx, userID)
}

func (uf *UserFlowImpl) setRole(ctx context.Context, userID uint, role string) error {
	user, err := uf.userRepo.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.Role = role
	return uf.userRepo.Update(ctx, user)
}

func toUserInfos(users []*models.User) []dto.UserInfo {
	infos := make([]dto.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, ToUserInfo(*user))
	}
	return infos
}
