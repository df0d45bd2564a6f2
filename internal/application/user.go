package app

import (
	"context"

	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/domain/port"
)

// UserService управляет сессиями пользователей бота
type UserService struct {
	userRepo port.UserRepository
}

// NewUserService создаёт новый сервис пользователей
func NewUserService(userRepo port.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetOrCreate возвращает пользователя, создавая при первом обращении
func (s *UserService) GetOrCreate(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.userRepo.Get(ctx, userID, chatID)
}

// BeginCheck переводит пользователя в режим ожидания фото
func (s *UserService) BeginCheck(ctx context.Context, userID int64) error {
	return s.userRepo.UpdateState(ctx, userID, entity.StateAwaitingPhoto)
}

// BeginBatch переводит пользователя в режим ожидания списка ссылок
func (s *UserService) BeginBatch(ctx context.Context, userID int64) error {
	return s.userRepo.UpdateState(ctx, userID, entity.StateAwaitingBatch)
}

// Cancel возвращает пользователя в главное меню
func (s *UserService) Cancel(ctx context.Context, userID int64) error {
	return s.userRepo.UpdateState(ctx, userID, entity.StateMainMenu)
}

// SetMode переключает режим конвейера для пользователя
func (s *UserService) SetMode(ctx context.Context, userID, chatID int64, mode entity.PipelineMode) error {
	user, err := s.userRepo.Get(ctx, userID, chatID)
	if err != nil {
		return err
	}
	user.SetMode(mode)
	return s.userRepo.Save(ctx, user)
}
