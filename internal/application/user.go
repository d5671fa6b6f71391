package app

import (
	"context"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// UserService ведёт состояние диалога пользователей бота.
type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateProcessing)
}

// FinishCheck запоминает сохранённую проверку и возвращает пользователя в меню.
// inspectionID 0 означает, что проверка не удалась.
func (s *UserService) FinishCheck(ctx context.Context, userID, chatID, inspectionID int64) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if inspectionID != 0 {
		user.LastInspectionID = inspectionID
	}
	user.SetState(entity.StateMainMenu)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Cancel(ctx context.Context, userID int64) error {
	return s.repo.UpdateState(ctx, userID, entity.StateMainMenu)
}
