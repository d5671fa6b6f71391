//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQualityAssessor_PixelFallback(t *testing.T) {
	assert.IsType(t, &LaplacianAssessor{}, NewQualityAssessor())
}
