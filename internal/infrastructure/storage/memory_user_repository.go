package storage

import (
	"context"
	"sync"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище состояний диалога бота.
// Наружу отдаются копии, чтобы обработчики разных апдейтов не делили одну структуру.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		return &user, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Пока ждали блокировку, пользователя мог создать другой апдейт.
	if user, exists := r.users[userID]; exists {
		return &user, nil
	}
	newUser := entity.NewUser(userID, chatID)
	r.users[userID] = *newUser

	return newUser, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние пользователя, неизвестный ID игнорируется
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
		r.users[userID] = user
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
