//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

type DNNDetector struct{}

// NewDNNDetector возвращает ошибку, если сборка без тега gocv.
func NewDNNDetector(modelPath string, names []string, inputSize int, floor float64) (*DNNDetector, error) {
	_, _, _, _ = modelPath, names, inputSize, floor
	return nil, entity.ErrNotAvailable
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *DNNDetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	_ = ctx
	_ = img
	return nil, entity.ErrNotAvailable
}

func (d *DNNDetector) Close() error {
	return nil
}

var _ port.ObjectDetector = (*DNNDetector)(nil)
