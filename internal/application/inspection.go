package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// DefaultRecentLimit сколько записей отдаёт Recent без явного лимита.
const DefaultRecentLimit = 100

// Формат даты и времени во внешних записях
const (
	externalDateLayout = "02.01.2006 15:04:05"
	externalPassed     = "passed"
)

type InspectionService struct {
	compliance *ComplianceService
	repo       port.InspectionRepository
	employees  *EmployeeService
	location   *time.Location
	now        func() time.Time
}

// InspectionOutput результат проверки и сохранённая запись.
type InspectionOutput struct {
	Result     *entity.ComplianceResult
	Inspection *entity.Inspection
}

// ExternalRecord запись о проверке из сторонней системы.
type ExternalRecord struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Department string `json:"department"`
	Status     string `json:"status"` // "passed" или любое другое значение
	Date       string `json:"date"`   // 02.01.2006
	Time       string `json:"time"`   // 15:04:05
}

// Validate проверяет обязательные поля внешней записи.
func (r ExternalRecord) Validate() error {
	missing := make([]string, 0)
	for field, v := range map[string]string{
		"name": r.Name, "surname": r.Surname, "department": r.Department,
		"status": r.Status, "date": r.Date, "time": r.Time,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: missing fields: %s", entity.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// ImportOutput итог импорта внешней записи.
type ImportOutput struct {
	Employee   *entity.Employee
	Inspection *entity.Inspection
}

// NewInspectionService создаёт сервис учёта проверок СИЗ.
func NewInspectionService(compliance *ComplianceService, repo port.InspectionRepository, employees *EmployeeService, location *time.Location) *InspectionService {
	if location == nil {
		location = time.UTC
	}
	return &InspectionService{
		compliance: compliance,
		repo:       repo,
		employees:  employees,
		location:   location,
		now:        time.Now,
	}
}

func (s *InspectionService) timestamp() time.Time {
	return s.now().In(s.location)
}

// Validate проверяет снимок и сохраняет результат.
func (s *InspectionService) Validate(ctx context.Context, img image.Image, imageFilename, source string) (*InspectionOutput, error) {
	if s.compliance == nil {
		return nil, errors.New("compliance checker is not configured")
	}

	result, err := s.compliance.Check(ctx, img)
	if err != nil {
		return nil, err
	}

	insp := entity.NewInspection(result.Verdict, s.timestamp(), imageFilename, source)
	if err := s.repo.Create(ctx, insp); err != nil {
		return nil, fmt.Errorf("save inspection: %w", err)
	}
	log.Info().Int64("id", insp.ID).Str("source", source).Bool("compliant", insp.Compliant).Msg("inspection saved")

	return &InspectionOutput{Result: result, Inspection: insp}, nil
}

// CheckHealth доступен ли детектор.
func (s *InspectionService) CheckHealth(ctx context.Context) error {
	return s.compliance.CheckHealth(ctx)
}

// Recent возвращает последние проверки.
func (s *InspectionService) Recent(ctx context.Context, limit int) ([]entity.Inspection, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.list(ctx, limit)
}

// All возвращает все проверки.
func (s *InspectionService) All(ctx context.Context) ([]entity.Inspection, error) {
	return s.list(ctx, 0)
}

func (s *InspectionService) list(ctx context.Context, limit int) ([]entity.Inspection, error) {
	inspections, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range inspections {
		inspections[i].Timestamp = inspections[i].Timestamp.In(s.location)
	}
	return inspections, nil
}

// Stats считает статистику соответствия.
func (s *InspectionService) Stats(ctx context.Context) (entity.InspectionStats, error) {
	total, compliant, err := s.repo.Stats(ctx)
	if err != nil {
		return entity.InspectionStats{}, err
	}
	return entity.NewInspectionStats(total, compliant), nil
}

// Delete удаляет одну проверку.
func (s *InspectionService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Clear удаляет все проверки.
func (s *InspectionService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Import сохраняет внешнюю запись и при необходимости заводит сотрудника.
func (s *InspectionService) Import(ctx context.Context, rec ExternalRecord) (*ImportOutput, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if s.employees == nil {
		return nil, errors.New("employee service is not configured")
	}

	emp, err := s.employees.EnsureExternal(ctx, rec.Name, rec.Surname, rec.Department)
	if err != nil {
		return nil, err
	}

	ts, err := time.ParseInLocation(externalDateLayout, rec.Date+" "+rec.Time, s.location)
	if err != nil {
		log.Warn().Err(err).Str("date", rec.Date).Str("time", rec.Time).Msg("bad external timestamp, using current time")
		ts = s.timestamp()
	}

	passed := strings.EqualFold(strings.TrimSpace(rec.Status), externalPassed)
	insp := &entity.Inspection{
		Timestamp:     ts,
		Helmet:        passed,
		Vest:          passed,
		Compliant:     passed,
		ImageFilename: fmt.Sprintf("external_%s_%s.jpg", rec.Name, rec.Surname),
		Source:        entity.SourceExternal,
	}
	if err := s.repo.Create(ctx, insp); err != nil {
		return nil, fmt.Errorf("save inspection: %w", err)
	}

	log.Info().
		Str("registration_no", emp.RegistrationNo).
		Bool("passed", passed).
		Msg("external inspection imported")

	return &ImportOutput{Employee: emp, Inspection: insp}, nil
}
