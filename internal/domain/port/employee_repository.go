package port

import (
	"context"

	"ppe-inspector/internal/domain/entity"
)

// EmployeeRepository интерфейс хранилища сотрудников
type EmployeeRepository interface {
	// Create сохраняет сотрудника, entity.ErrDuplicateRegistration при повторе номера
	Create(ctx context.Context, e *entity.Employee) error

	// List возвращает сотрудников от новых к старым
	List(ctx context.Context) ([]entity.Employee, error)

	// FindByName ищет сотрудника по имени и фамилии, entity.ErrNotFound если нет
	FindByName(ctx context.Context, name, surname string) (*entity.Employee, error)
}
