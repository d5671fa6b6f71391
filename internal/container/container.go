package container

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"ppe-inspector/config"
	app "ppe-inspector/internal/application"
	"ppe-inspector/internal/domain/port"
	"ppe-inspector/internal/infrastructure/storage"
	"ppe-inspector/internal/infrastructure/vision"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	EmployeeService   *app.EmployeeService
	CameraService     *app.CameraService
	Decoder           port.ImageDecoder

	store    *storage.SQLiteStore
	detector port.ObjectDetector
	encoder  *vision.SFaceEncoder
}

// New собирает сервисы приложения по конфигурации.
// Без детектора сервис не запускается, без распознавания лиц и камеры работает.
func New(cfg *config.Config) (*Container, error) {
	detector, err := NewDetector(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		detector.Close()
		return nil, err
	}

	photos, err := storage.NewDiskPhotoStore(cfg.PhotoDir)
	if err != nil {
		detector.Close()
		store.Close()
		return nil, err
	}

	c := &Container{
		Decoder:  vision.NewDecoder(),
		store:    store,
		detector: detector,
	}

	var faces port.FaceEncoder
	encoder, err := vision.NewSFaceEncoder(cfg.FaceDetectorModel, cfg.FaceRecognizerModel)
	if err != nil {
		log.Warn().Err(err).Msg("face recognition disabled")
	} else {
		c.encoder = encoder
		faces = encoder
	}

	location := cfg.Location()
	compliance := app.NewComplianceService(vision.NewQualityAssessor(), vision.NewCLAHEEnhancer(), detector, cfg.ResolverConfig())

	c.UserService = app.NewUserService(storage.NewMemoryUserRepository())
	c.EmployeeService = app.NewEmployeeService(store.Employees(), photos, c.Decoder, faces, cfg.FaceTolerance, location)
	c.InspectionService = app.NewInspectionService(compliance, store.Inspections(), c.EmployeeService, location)

	var opener app.CameraOpener
	if cfg.CameraIndex >= 0 {
		index, delay := cfg.CameraIndex, cfg.CaptureDelay
		opener = func() (port.Camera, error) {
			return vision.NewCamera(index, delay)
		}
	}
	c.CameraService = app.NewCameraService(opener, c.InspectionService)

	return c, nil
}

const startupHealthTimeout = 5 * time.Second

// NewDetector создаёт детектор выбранного бэкенда.
func NewDetector(cfg *config.Config) (port.ObjectDetector, error) {
	switch cfg.InferenceBackend {
	case config.BackendRemote:
		log.Info().Str("url", cfg.InferenceURL).Msg("using remote inference service")
		detector := vision.NewRemoteDetector(vision.RemoteDetectorOpts{
			BaseURL:   cfg.InferenceURL,
			InputSize: cfg.InferenceSize,
			Floor:     cfg.ConfidenceFloor,
		})

		ctx, cancel := context.WithTimeout(context.Background(), startupHealthTimeout)
		defer cancel()
		if err := detector.CheckHealth(ctx); err != nil {
			log.Warn().Err(err).Str("url", cfg.InferenceURL).Msg("inference service is not reachable yet")
		}
		return detector, nil

	case config.BackendDNN:
		names := vision.DefaultClassNames
		if _, err := os.Stat(cfg.LabelsPath); err == nil {
			if names, err = vision.LoadClassNames(cfg.LabelsPath); err != nil {
				return nil, err
			}
		} else {
			log.Warn().Str("path", cfg.LabelsPath).Msg("labels file not found, using default class names")
		}

		detector, err := vision.NewDNNDetector(cfg.ModelPath, names, cfg.InferenceSize, cfg.ConfidenceFloor)
		if err != nil {
			return nil, fmt.Errorf("load detector: %w", err)
		}
		return detector, nil
	}
	return nil, fmt.Errorf("unknown inference backend %q", cfg.InferenceBackend)
}

// Close освобождает камеру, модели и базу.
func (c *Container) Close() error {
	errs := []error{c.CameraService.Stop(), c.detector.Close()}
	if c.encoder != nil {
		errs = append(errs, c.encoder.Close())
	}
	errs = append(errs, c.store.Close())
	return errors.Join(errs...)
}

