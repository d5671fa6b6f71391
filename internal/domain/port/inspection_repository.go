package port

import (
	"context"

	"ppe-inspector/internal/domain/entity"
)

// InspectionRepository интерфейс хранилища проверок
type InspectionRepository interface {
	// Create сохраняет запись и проставляет ей ID
	Create(ctx context.Context, insp *entity.Inspection) error

	// List возвращает записи от новых к старым, limit <= 0 означает без ограничения
	List(ctx context.Context, limit int) ([]entity.Inspection, error)

	// Stats возвращает общее число записей и число соответствующих
	Stats(ctx context.Context) (total, compliant int, err error)

	// Delete удаляет запись, entity.ErrNotFound если записи нет
	Delete(ctx context.Context, id int64) error

	// Clear удаляет все записи
	Clear(ctx context.Context) error
}
