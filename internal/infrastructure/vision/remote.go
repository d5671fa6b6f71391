package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// remoteBox детекция в ответе сервиса инференса.
type remoteBox struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Class  string  `json:"class"`
	Conf   float64 `json:"confidence"`
}

type remoteResponse struct {
	Detections []remoteBox `json:"detections"`
}

type RemoteDetectorOpts struct {
	BaseURL   string
	InputSize int
	Floor     float64
	Timeout   time.Duration
}

// RemoteDetector отправляет снимок во внешний сервис инференса по HTTP.
type RemoteDetector struct {
	httpClient *resty.Client
	inputSize  int
	floor      float64
}

func NewRemoteDetector(opts RemoteDetectorOpts) *RemoteDetector {
	if opts.InputSize <= 0 {
		opts.InputSize = DefaultInputSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &RemoteDetector{
		httpClient: resty.New().
			SetBaseURL(opts.BaseURL).
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json"),
		inputSize: opts.InputSize,
		floor:     opts.Floor,
	}
}

// Detect кодирует снимок в JPEG и отправляет его на /predict.
func (d *RemoteDetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}

	var result remoteResponse
	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", "image.jpg", &buf).
		SetFormData(map[string]string{
			"conf":  strconv.FormatFloat(d.floor, 'f', -1, 64),
			"imgsz": strconv.Itoa(d.inputSize),
		}).
		SetResult(&result).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode())
	}

	detections := make([]entity.Detection, 0, len(result.Detections))
	for _, b := range result.Detections {
		if b.Conf < d.floor {
			continue
		}
		detections = append(detections, entity.Detection{
			Label:      b.Class,
			Confidence: b.Conf,
			Box:        image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height),
		})
	}
	return detections, nil
}

// CheckHealth проверяет доступность сервиса инференса.
func (d *RemoteDetector) CheckHealth(ctx context.Context) error {
	resp, err := d.httpClient.R().SetContext(ctx).Get("/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode())
	}
	return nil
}

func (d *RemoteDetector) Close() error {
	return nil
}

var (
	_ port.ObjectDetector = (*RemoteDetector)(nil)
	_ port.HealthChecker  = (*RemoteDetector)(nil)
)
