//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"ppe-inspector/internal/domain/port"
)

// SFaceEncoder ищет лица YuNet и строит векторы SFace.
type SFaceEncoder struct {
	mu         sync.Mutex
	detector   gocv.FaceDetectorYN
	recognizer gocv.FaceRecognizerSF
}

func NewSFaceEncoder(detectorModel, recognizerModel string) (*SFaceEncoder, error) {
	for _, path := range []string{detectorModel, recognizerModel} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("face model %q: %w", path, err)
		}
	}
	return &SFaceEncoder{
		detector:   gocv.NewFaceDetectorYN(detectorModel, "", image.Pt(320, 320)),
		recognizer: gocv.NewFaceRecognizerSF(recognizerModel, ""),
	}, nil
}

// Encode возвращает по одному нормированному вектору на каждое найденное лицо.
func (e *SFaceEncoder) Encode(ctx context.Context, img image.Image) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.detector.SetInputSize(image.Pt(mat.Cols(), mat.Rows()))
	faces := gocv.NewMat()
	defer faces.Close()
	e.detector.Detect(mat, &faces)

	encodings := make([][]float32, 0, faces.Rows())
	for i := 0; i < faces.Rows(); i++ {
		vec, err := e.encodeFace(mat, faces.RowRange(i, i+1))
		if err != nil {
			return nil, err
		}
		encodings = append(encodings, vec)
	}
	return encodings, nil
}

func (e *SFaceEncoder) encodeFace(mat, box gocv.Mat) ([]float32, error) {
	defer box.Close()

	aligned := gocv.NewMat()
	defer aligned.Close()
	e.recognizer.AlignCrop(mat, box, &aligned)

	feature := gocv.NewMat()
	defer feature.Close()
	e.recognizer.Feature(aligned, &feature)

	data, err := feature.DataPtrFloat32()
	if err != nil {
		return nil, err
	}
	return normalize(data), nil
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	norm := math.Sqrt(sum)
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func (e *SFaceEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detector.Close()
	e.recognizer.Close()
	return nil
}

var _ port.FaceEncoder = (*SFaceEncoder)(nil)
