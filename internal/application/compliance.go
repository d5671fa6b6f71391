package app

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// ComplianceService конвейер проверки СИЗ: качество, улучшение, инференс, вердикт.
// Не хранит состояния между вызовами и безопасен для параллельного использования,
// если таков детектор.
type ComplianceService struct {
	assessor port.QualityAssessor
	enhancer port.ImageEnhancer
	detector port.ObjectDetector
	resolver ResolverConfig
}

// NewComplianceService создаёт конвейер проверки.
func NewComplianceService(assessor port.QualityAssessor, enhancer port.ImageEnhancer, detector port.ObjectDetector, resolver ResolverConfig) *ComplianceService {
	return &ComplianceService{
		assessor: assessor,
		enhancer: enhancer,
		detector: detector,
		resolver: resolver,
	}
}

// CheckHealth проверяет бэкенд инференса, если детектор это умеет.
func (s *ComplianceService) CheckHealth(ctx context.Context) error {
	if s.detector == nil {
		return entity.ErrNotAvailable
	}
	if hc, ok := s.detector.(port.HealthChecker); ok {
		return hc.CheckHealth(ctx)
	}
	return nil
}

// Check проверяет снимок и возвращает полный вердикт или ошибку.
func (s *ComplianceService) Check(ctx context.Context, img image.Image) (*entity.ComplianceResult, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}
	if img == nil || img.Bounds().Empty() {
		return nil, entity.ErrInvalidImage
	}

	quality := s.assessor.Assess(img)
	log.Debug().
		Float64("sharpness", quality.Sharpness).
		Float64("brightness", quality.Brightness).
		Strs("issues", quality.Issues).
		Msg("image quality")

	enhanced := false
	if !quality.IsGood && s.enhancer != nil {
		out, err := s.enhancer.Enhance(img)
		if err != nil {
			// Улучшение необязательно, инференс идёт по исходному снимку.
			log.Warn().Err(err).Msg("image enhancement failed")
		} else {
			img = out
			enhanced = true
		}
	}

	detections, err := s.detector.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	verdict := Resolve(detections, s.resolver)
	for _, r := range verdict.Resolutions {
		log.Debug().
			Str("equipment", string(r.Equipment)).
			Bool("present", r.Present).
			Str("rule", string(r.Rule)).
			Float64("top_positive", r.TopPositive).
			Float64("top_negative", r.TopNegative).
			Msg("class resolved")
	}
	log.Info().
		Int("detections", len(detections)).
		Bool("success", verdict.Success).
		Strs("missing", verdict.MissingNames()).
		Bool("enhanced", enhanced).
		Msg("compliance check finished")

	return &entity.ComplianceResult{
		Verdict:  verdict,
		Quality:  quality,
		Enhanced: enhanced,
	}, nil
}
