//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"ppe-inspector/internal/domain/port"
)

// CLAHEEnhancer выравнивает контраст по каналу L и слегка повышает резкость.
type CLAHEEnhancer struct {
	ClipLimit  float64
	TileGrid   image.Point
	SharpBlend float64
}

func NewCLAHEEnhancer() *CLAHEEnhancer {
	return &CLAHEEnhancer{
		ClipLimit:  2.0,
		TileGrid:   image.Pt(8, 8),
		SharpBlend: 0.3,
	}
}

// Enhance возвращает новый снимок, исходный не меняется.
func (e *CLAHEEnhancer) Enhance(img image.Image) (image.Image, error) {
	mat, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(mat, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	for i := range channels {
		defer channels[i].Close()
	}

	clahe := gocv.NewCLAHEWithParams(e.ClipLimit, e.TileGrid)
	defer clahe.Close()

	l := gocv.NewMat()
	defer l.Close()
	clahe.Apply(channels[0], &l)

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge([]gocv.Mat{l, channels[1], channels[2]}, &merged)

	contrast := gocv.NewMat()
	defer contrast.Close()
	gocv.CvtColor(merged, &contrast, gocv.ColorLabToBGR)

	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			kernel.SetFloatAt(y, x, -1)
		}
	}
	kernel.SetFloatAt(1, 1, 9)

	sharp := gocv.NewMat()
	defer sharp.Close()
	gocv.Filter2D(contrast, &sharp, -1, kernel, image.Pt(-1, -1), 0, gocv.BorderDefault)

	out := gocv.NewMat()
	defer out.Close()
	gocv.AddWeighted(contrast, 1-e.SharpBlend, sharp, e.SharpBlend, 0, &out)

	return out.ToImage()
}

var _ port.ImageEnhancer = (*CLAHEEnhancer)(nil)
