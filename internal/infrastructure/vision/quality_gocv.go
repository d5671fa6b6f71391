//go:build gocv
// +build gocv

package vision

import (
	"image"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// GoCVAssessor считает те же метрики, что LaplacianAssessor, средствами OpenCV.
type GoCVAssessor struct {
	fallback *LaplacianAssessor
}

func NewGoCVAssessor() *GoCVAssessor {
	return &GoCVAssessor{fallback: NewLaplacianAssessor()}
}

// NewQualityAssessor оценщик качества для текущей сборки.
func NewQualityAssessor() port.QualityAssessor {
	return NewGoCVAssessor()
}

func (a *GoCVAssessor) Assess(img image.Image) entity.QualityVerdict {
	src, err := imageToMat(img)
	if err != nil {
		log.Debug().Err(err).Msg("quality: image conversion failed, using pixel assessor")
		return a.fallback.Assess(img)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(gray, &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(laplacian, &mean, &stddev)

	sd := stddev.GetDoubleAt(0, 0)
	brightness := gray.Mean().Val1

	return entity.ClassifyQuality(sd*sd, brightness)
}

var _ port.QualityAssessor = (*GoCVAssessor)(nil)
