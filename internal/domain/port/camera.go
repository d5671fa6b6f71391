package port

import (
	"context"
	"image"
)

// Camera локальная камера
type Camera interface {
	// Capture снимает один кадр
	Capture(ctx context.Context) (image.Image, error)

	// Frame возвращает кадр в JPEG для видеопотока
	Frame() ([]byte, error)

	// Close освобождает устройство
	Close() error
}
