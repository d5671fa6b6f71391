//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// Decoder декодирует JPEG и PNG средствами стандартной библиотеки.
// EXIF-ориентация без OpenCV не учитывается.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", entity.ErrInvalidImage)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	return img, nil
}

var _ port.ImageDecoder = (*Decoder)(nil)
