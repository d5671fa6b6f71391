//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"
	"time"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

type Camera struct{}

// NewCamera возвращает ошибку, если сборка без тега gocv.
func NewCamera(index int, delay time.Duration) (*Camera, error) {
	_ = delay
	if index < 0 {
		return nil, entity.ErrCameraDisabled
	}
	return nil, entity.ErrNotAvailable
}

func (c *Camera) Capture(ctx context.Context) (image.Image, error) {
	_ = ctx
	return nil, entity.ErrNotAvailable
}

func (c *Camera) Frame() ([]byte, error) {
	return nil, entity.ErrNotAvailable
}

func (c *Camera) Close() error {
	return nil
}

var _ port.Camera = (*Camera)(nil)
