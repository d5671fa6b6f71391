package port

import (
	"image"

	"ppe-inspector/internal/domain/entity"
)

// QualityAssessor оценивает резкость и яркость снимка
type QualityAssessor interface {
	Assess(img image.Image) entity.QualityVerdict
}

// ImageEnhancer улучшает снимок плохого качества
type ImageEnhancer interface {
	// Enhance возвращает новое изображение, исходное не изменяется
	Enhance(img image.Image) (image.Image, error)
}
