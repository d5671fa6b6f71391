package port

import "image"

// ImageDecoder декодирует загруженные байты в изображение с учётом ориентации
type ImageDecoder interface {
	Decode(data []byte) (image.Image, error)
}
