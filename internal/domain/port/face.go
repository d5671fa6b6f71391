package port

import (
	"context"
	"image"
)

// FaceEncoder строит векторы лиц
type FaceEncoder interface {
	// Encode возвращает по одному вектору на каждое найденное лицо
	Encode(ctx context.Context, img image.Image) ([][]float32, error)
}
