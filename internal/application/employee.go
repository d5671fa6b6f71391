package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// DefaultFaceTolerance максимальное расстояние между векторами одного лица.
const DefaultFaceTolerance = 0.6

type EmployeeService struct {
	repo      port.EmployeeRepository
	photos    port.PhotoStore
	decoder   port.ImageDecoder
	encoder   port.FaceEncoder
	tolerance float64
	location  *time.Location
	now       func() time.Time
	randN     func(n int) int
}

// NewEmployeeService создаёт сервис регистрации и входа по лицу.
// encoder может быть nil, тогда регистрация идёт без вектора лица, а вход недоступен.
func NewEmployeeService(repo port.EmployeeRepository, photos port.PhotoStore, decoder port.ImageDecoder, encoder port.FaceEncoder, tolerance float64, location *time.Location) *EmployeeService {
	if tolerance <= 0 {
		tolerance = DefaultFaceTolerance
	}
	if location == nil {
		location = time.UTC
	}
	return &EmployeeService{
		repo:      repo,
		photos:    photos,
		decoder:   decoder,
		encoder:   encoder,
		tolerance: tolerance,
		location:  location,
		now:       time.Now,
		randN:     rand.IntN,
	}
}

// registrationNo префикс плюс четыре случайные цифры
func (s *EmployeeService) registrationNo(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, 1000+s.randN(9000))
}

// Register регистрирует сотрудника по фото лица.
func (s *EmployeeService) Register(ctx context.Context, name, surname string, photo []byte) (*entity.Employee, error) {
	name, surname = strings.TrimSpace(name), strings.TrimSpace(surname)
	if name == "" || surname == "" {
		return nil, fmt.Errorf("%w: name and surname required", entity.ErrInvalidInput)
	}

	img, err := s.decoder.Decode(photo)
	if err != nil {
		return nil, err
	}

	embedding, err := s.singleFace(ctx, img)
	switch {
	case errors.Is(err, entity.ErrNotAvailable):
		log.Warn().Msg("face encoder unavailable, registering without face embedding")
	case err != nil:
		return nil, err
	}

	now := s.now().In(s.location)
	emp := &entity.Employee{
		Name:           name,
		Surname:        surname,
		RegistrationNo: s.registrationNo(fmt.Sprintf("%d", now.Year())),
		Department:     entity.DepartmentMobile,
		FaceEmbedding:  embedding,
		CreatedAt:      now,
	}

	if s.photos != nil {
		filename, err := s.photos.Save("user_"+emp.RegistrationNo, photo)
		if err != nil {
			return nil, fmt.Errorf("save photo: %w", err)
		}
		emp.PhotoFilename = filename
	}

	if err := s.repo.Create(ctx, emp); err != nil {
		if emp.PhotoFilename != "" {
			if rmErr := s.photos.Remove(emp.PhotoFilename); rmErr != nil {
				log.Warn().Err(rmErr).Str("photo", emp.PhotoFilename).Msg("failed to remove orphaned photo")
			}
		}
		return nil, err
	}

	log.Info().
		Str("registration_no", emp.RegistrationNo).
		Bool("face", emp.HasFace()).
		Msg("employee registered")

	return emp, nil
}

func (s *EmployeeService) singleFace(ctx context.Context, img image.Image) ([]float32, error) {
	if s.encoder == nil {
		return nil, entity.ErrNotAvailable
	}
	faces, err := s.encoder.Encode(ctx, img)
	if err != nil {
		return nil, err
	}
	switch len(faces) {
	case 0:
		return nil, entity.ErrNoFace
	case 1:
		return faces[0], nil
	default:
		return nil, entity.ErrMultipleFaces
	}
}

// Login ищет сотрудника с ближайшим вектором лица в пределах допуска.
func (s *EmployeeService) Login(ctx context.Context, photo []byte) (*entity.Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	known := make([]entity.Employee, 0, len(employees))
	for _, e := range employees {
		if e.HasFace() {
			known = append(known, e)
		}
	}
	if len(known) == 0 {
		return nil, entity.ErrNoEmployees
	}
	if s.encoder == nil {
		return nil, entity.ErrNotAvailable
	}

	img, err := s.decoder.Decode(photo)
	if err != nil {
		return nil, err
	}
	faces, err := s.encoder.Encode(ctx, img)
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, entity.ErrNoFace
	}
	probe := faces[0]

	var (
		best     *entity.Employee
		bestDist = s.tolerance
	)
	for i := range known {
		d := entity.FaceDistance(known[i].FaceEmbedding, probe)
		if d <= bestDist {
			best, bestDist = &known[i], d
		}
	}
	if best == nil {
		log.Info().Msg("face not recognized")
		return nil, entity.ErrFaceNotRecognized
	}

	log.Info().Str("registration_no", best.RegistrationNo).Float64("distance", bestDist).Msg("employee logged in")
	return best, nil
}

// List возвращает всех сотрудников.
func (s *EmployeeService) List(ctx context.Context) ([]entity.Employee, error) {
	return s.repo.List(ctx)
}

// PhotoPath путь к сохранённой фотографии сотрудника.
func (s *EmployeeService) PhotoPath(filename string) (string, error) {
	if s.photos == nil {
		return "", entity.ErrNotFound
	}
	return s.photos.Path(filename)
}

// EnsureExternal находит сотрудника по имени или заводит его с префиксом EXT.
func (s *EmployeeService) EnsureExternal(ctx context.Context, name, surname, department string) (*entity.Employee, error) {
	emp, err := s.repo.FindByName(ctx, name, surname)
	if err == nil {
		return emp, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}

	if strings.TrimSpace(department) == "" {
		department = entity.DepartmentUnknown
	}
	emp = &entity.Employee{
		Name:           name,
		Surname:        surname,
		RegistrationNo: s.registrationNo("EXT"),
		Department:     department,
		CreatedAt:      s.now().In(s.location),
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}
