//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

type CLAHEEnhancer struct{}

// NewCLAHEEnhancer создаёт улучшатель-заглушку (без OpenCV).
func NewCLAHEEnhancer() *CLAHEEnhancer {
	return &CLAHEEnhancer{}
}

// Enhance возвращает ошибку, если сборка без тега gocv.
func (e *CLAHEEnhancer) Enhance(img image.Image) (image.Image, error) {
	_ = img
	return nil, entity.ErrNotAvailable
}

var _ port.ImageEnhancer = (*CLAHEEnhancer)(nil)
