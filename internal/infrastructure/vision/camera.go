//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// Camera локальная веб-камера. Кадры отражаются по горизонтали.
type Camera struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	delay   time.Duration
	closed  bool
}

// NewCamera открывает камеру с индексом index. Отрицательный индекс выключает камеру.
func NewCamera(index int, delay time.Duration) (*Camera, error) {
	if index < 0 {
		return nil, entity.ErrCameraDisabled
	}
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}
	log.Info().Int("index", index).Msg("camera opened")
	return &Camera{capture: vc, delay: delay}, nil
}

func (c *Camera) read() (gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return gocv.Mat{}, entity.ErrCameraClosed
	}

	frame := gocv.NewMat()
	if ok := c.capture.Read(&frame); !ok || frame.Empty() {
		frame.Close()
		return gocv.Mat{}, fmt.Errorf("camera: failed to read frame")
	}

	flipped := gocv.NewMat()
	gocv.Flip(frame, &flipped, 1)
	frame.Close()
	return flipped, nil
}

// Capture ждёт задержку перед съёмкой и возвращает кадр.
func (c *Camera) Capture(ctx context.Context) (image.Image, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	frame, err := c.read()
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	return frame.ToImage()
}

// Frame возвращает текущий кадр в JPEG для видеопотока.
func (c *Camera) Frame() ([]byte, error) {
	frame, err := c.read()
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return nil, fmt.Errorf("camera: encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.capture.Close()
}

var _ port.Camera = (*Camera)(nil)
