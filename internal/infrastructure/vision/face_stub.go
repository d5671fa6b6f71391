//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

type SFaceEncoder struct{}

// NewSFaceEncoder возвращает ошибку, если сборка без тега gocv.
func NewSFaceEncoder(detectorModel, recognizerModel string) (*SFaceEncoder, error) {
	_, _ = detectorModel, recognizerModel
	return nil, entity.ErrNotAvailable
}

// Encode возвращает ошибку, если сборка без тега gocv.
func (e *SFaceEncoder) Encode(ctx context.Context, img image.Image) ([][]float32, error) {
	_ = ctx
	_ = img
	return nil, entity.ErrNotAvailable
}

func (e *SFaceEncoder) Close() error {
	return nil
}

var _ port.FaceEncoder = (*SFaceEncoder)(nil)
