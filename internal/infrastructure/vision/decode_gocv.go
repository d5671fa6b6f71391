//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// Decoder декодирует снимок через OpenCV, IMReadColor поворачивает его по EXIF.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", entity.ErrInvalidImage)
	}
	mat, err := decodeToMat(data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return mat.ToImage()
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), fmt.Errorf("%w: failed to decode image", entity.ErrInvalidImage)
}

// imageToMat переводит image.Image в BGR Mat.
func imageToMat(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("%w: empty image", entity.ErrInvalidImage)
	}
	return mat, nil
}

var _ port.ImageDecoder = (*Decoder)(nil)
