package vision

import (
	"image"
	"image/draw"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// LaplacianAssessor оценивает качество снимка по дисперсии лапласиана и средней яркости.
type LaplacianAssessor struct{}

func NewLaplacianAssessor() *LaplacianAssessor {
	return &LaplacianAssessor{}
}

// Assess считает метрики и раскладывает их по полосам качества.
func (a *LaplacianAssessor) Assess(img image.Image) entity.QualityVerdict {
	gray := Luminance(img)
	return entity.ClassifyQuality(LaplacianVariance(gray), MeanBrightness(gray))
}

// Luminance переводит изображение в 8-битную яркость с весами 0.299/0.587/0.114.
func Luminance(img image.Image) *image.Gray {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(b)
		draw.Draw(rgba, b, img, b.Min, draw.Src)
	}

	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := rgba.Pix[(y+b.Min.Y-rgba.Rect.Min.Y)*rgba.Stride+(b.Min.X-rgba.Rect.Min.X)*4:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl := uint32(src[x*4]), uint32(src[x*4+1]), uint32(src[x*4+2])
			// Фиксированная точка как в OpenCV: коэффициенты * 2^14.
			dst[x] = uint8((r*4899 + g*9617 + bl*1868 + 8192) >> 14)
		}
	}
	return gray
}

// reflect101 отражает индекс за границей без повтора крайнего пикселя: -1 -> 1, n -> n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

// LaplacianVariance дисперсия отклика ядра [0 1 0; 1 -4 1; 0 1 0].
func LaplacianVariance(gray *image.Gray) float64 {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	at := func(x, y int) float64 {
		return float64(gray.Pix[reflect101(y, h)*gray.Stride+reflect101(x, w)])
	}

	n := float64(w * h)
	var sum, sumSq float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*at(x, y)
			sum += l
			sumSq += l * l
		}
	}
	mean := sum / n
	return sumSq/n - mean*mean
}

// MeanBrightness средняя яркость 0..255.
func MeanBrightness(gray *image.Gray) float64 {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	var sum uint64
	for y := 0; y < h; y++ {
		for _, v := range gray.Pix[y*gray.Stride : y*gray.Stride+w] {
			sum += uint64(v)
		}
	}
	return float64(sum) / float64(w*h)
}

var _ port.QualityAssessor = (*LaplacianAssessor)(nil)
