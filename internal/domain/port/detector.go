package port

import (
	"context"
	"image"

	"ppe-inspector/internal/domain/entity"
)

// ObjectDetector интерфейс детектора объектов
type ObjectDetector interface {
	// Detect запускает инференс и возвращает все боксы не ниже порога уверенности модели
	Detect(ctx context.Context, img image.Image) ([]entity.Detection, error)

	// Close освобождает ресурсы модели
	Close() error
}

// HealthChecker детектор, который умеет проверить доступность бэкенда.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}
