package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppe-inspector/internal/domain/entity"
)

func uniformImage(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func stripes(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if x%2 == 1 {
				v = 255
			}
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestLuminance(t *testing.T) {
	gray := Luminance(uniformImage(2, 2, 255))
	assert.Equal(t, uint8(255), gray.GrayAt(0, 0).Y)

	red := image.NewRGBA(image.Rect(0, 0, 1, 1))
	red.Set(0, 0, color.RGBA{R: 255, A: 255})
	// 255*4899/16384 = 76.2
	assert.Equal(t, uint8(76), Luminance(red).GrayAt(0, 0).Y)
}

func TestLuminance_NonRGBAAndOffsetBounds(t *testing.T) {
	src := image.NewGray(image.Rect(10, 10, 14, 13))
	for i := range src.Pix {
		src.Pix[i] = 90
	}
	gray := Luminance(src)
	require.Equal(t, image.Rect(0, 0, 4, 3), gray.Bounds())
	assert.Equal(t, uint8(90), gray.GrayAt(3, 2).Y)

	sub := uniformImage(8, 8, 40).SubImage(image.Rect(2, 2, 5, 5))
	assert.Equal(t, 40.0, MeanBrightness(Luminance(sub)))
}

func TestLaplacianAssessor_Uniform(t *testing.T) {
	v := NewLaplacianAssessor().Assess(uniformImage(16, 16, 120))

	assert.Equal(t, 0.0, v.Sharpness)
	assert.Equal(t, 120.0, v.Brightness)
	assert.False(t, v.IsGood)
	assert.Equal(t, []string{entity.IssueVeryBlurry}, v.Issues)
}

func TestLaplacianAssessor_Stripes(t *testing.T) {
	v := NewLaplacianAssessor().Assess(stripes(8, 8))

	// Каждый отклик лапласиана равен ±510, среднее 0.
	assert.InDelta(t, 260100.0, v.Sharpness, 1e-6)
	assert.InDelta(t, 127.5, v.Brightness, 1e-9)
	assert.True(t, v.IsGood)
	assert.Empty(t, v.Issues)
}

func TestLaplacianAssessor_DarkAndBright(t *testing.T) {
	dark := NewLaplacianAssessor().Assess(uniformImage(4, 4, 10))
	assert.Contains(t, dark.Issues, entity.IssueTooDark)

	bright := NewLaplacianAssessor().Assess(uniformImage(4, 4, 250))
	assert.Contains(t, bright.Issues, entity.IssueTooBright)
}

func TestLaplacianVariance_SinglePixel(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.Pix[0] = 200
	assert.Equal(t, 0.0, LaplacianVariance(gray))
}
