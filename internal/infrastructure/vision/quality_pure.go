//go:build !gocv
// +build !gocv

package vision

import "ppe-inspector/internal/domain/port"

// NewQualityAssessor оценщик качества для текущей сборки.
func NewQualityAssessor() port.QualityAssessor {
	return NewLaplacianAssessor()
}
