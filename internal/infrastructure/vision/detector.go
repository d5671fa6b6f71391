//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// nmsIoU порог перекрытия для подавления немаксимумов.
const nmsIoU = 0.7

// DNNDetector запускает YOLO-модель в формате ONNX через OpenCV DNN.
type DNNDetector struct {
	mu        sync.Mutex
	net       gocv.Net
	names     []string
	inputSize int
	floor     float32
}

// NewDNNDetector загружает модель. Без файла модели работа невозможна.
func NewDNNDetector(modelPath string, names []string, inputSize int, floor float64) (*DNNDetector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file %q: %w", modelPath, err)
	}
	if inputSize <= 0 {
		inputSize = DefaultInputSize
	}
	if len(names) == 0 {
		names = DefaultClassNames
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model %q", modelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, err
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, err
	}

	log.Info().Str("model", modelPath).Int("classes", len(names)).Int("input", inputSize).Msg("dnn model loaded")

	return &DNNDetector{
		net:       net,
		names:     names,
		inputSize: inputSize,
		floor:     float32(floor),
	}, nil
}

// Detect возвращает все детекции выше порога уверенности после NMS по классам.
func (d *DNNDetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	size := image.Pt(d.inputSize, d.inputSize)
	blob := gocv.BlobFromImage(mat, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	dims := out.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected model output shape %v", dims)
	}
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, err
	}

	scaleX := float64(mat.Cols()) / float64(d.inputSize)
	scaleY := float64(mat.Rows()) / float64(d.inputSize)
	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())
	candidates, err := decodeYOLO(data, dims[1], dims[2], d.floor, scaleX, scaleY, bounds)
	if err != nil {
		return nil, err
	}

	byClass := make(map[int][]yoloCandidate)
	for _, c := range candidates {
		byClass[c.class] = append(byClass[c.class], c)
	}

	detections := make([]entity.Detection, 0, len(candidates))
	for _, group := range byClass {
		boxes := make([]image.Rectangle, len(group))
		scores := make([]float32, len(group))
		for i, c := range group {
			boxes[i] = c.box
			scores[i] = c.score
		}
		for _, idx := range gocv.NMSBoxes(boxes, scores, d.floor, nmsIoU) {
			detections = append(detections, group[idx].toDetection(d.names))
		}
	}

	return detections, nil
}

func (d *DNNDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

var _ port.ObjectDetector = (*DNNDetector)(nil)
