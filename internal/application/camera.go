package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// CameraOpener открывает камеру по требованию.
type CameraOpener func() (port.Camera, error)

// CameraService держит камеру открытой между запросами и отдаёт её кадры.
// Stop освобождает устройство, следующий запрос откроет его снова.
// Устройство закрывается только когда им никто не пользуется.
type CameraService struct {
	mu          sync.Mutex
	open        CameraOpener
	current     *cameraLease
	inspections *InspectionService
}

// cameraLease открытое устройство и число текущих пользователей.
type cameraLease struct {
	camera   port.Camera
	users    int
	stopping bool
}

func NewCameraService(open CameraOpener, inspections *InspectionService) *CameraService {
	return &CameraService{open: open, inspections: inspections}
}

func (s *CameraService) acquire() (*cameraLease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open == nil {
		return nil, entity.ErrCameraDisabled
	}
	if s.current == nil {
		cam, err := s.open()
		if err != nil {
			return nil, err
		}
		s.current = &cameraLease{camera: cam}
	}
	s.current.users++
	return s.current, nil
}

func (s *CameraService) release(l *cameraLease) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.users--
	if l.stopping && l.users == 0 {
		err := l.camera.Close()
		log.Info().Err(err).Msg("camera released after last user")
	}
}

// Inspect снимает кадр и прогоняет его через проверку СИЗ.
func (s *CameraService) Inspect(ctx context.Context) (*InspectionOutput, error) {
	lease, err := s.acquire()
	if err != nil {
		return nil, err
	}

	img, err := lease.camera.Capture(ctx)
	s.release(lease)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	filename := fmt.Sprintf("camera_%s.jpg", time.Now().UTC().Format("20060102T150405"))
	return s.inspections.Validate(ctx, img, filename, entity.SourceCamera)
}

// Frame текущий кадр в JPEG.
func (s *CameraService) Frame() ([]byte, error) {
	lease, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer s.release(lease)
	return lease.camera.Frame()
}

// Stop закрывает камеру, если она открыта. Если кадр сейчас снимается,
// устройство закроется после него.
func (s *CameraService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lease := s.current
	if lease == nil {
		return nil
	}
	s.current = nil
	lease.stopping = true
	if lease.users > 0 {
		log.Info().Int("users", lease.users).Msg("camera release deferred")
		return nil
	}
	err := lease.camera.Close()
	log.Info().Err(err).Msg("camera released")
	return err
}

// Enabled настроена ли камера вообще.
func (s *CameraService) Enabled() bool {
	return s.open != nil
}
