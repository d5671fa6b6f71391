package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	app "ppe-inspector/internal/application"
	"ppe-inspector/internal/domain/entity"
)

// Бэкенды инференса
const (
	BackendDNN    = "dnn"
	BackendRemote = "remote"
)

type Config struct {
	HTTPPort      string
	DBPath        string
	PhotoDir      string
	Timezone      string
	LogLevel      string
	TelegramToken string

	InferenceBackend string
	ModelPath        string
	LabelsPath       string
	InferenceURL     string
	InferenceSize    int
	ConfidenceFloor  float64

	HelmetMinConfidence float64
	VestMinConfidence   float64
	MaskMinConfidence   float64
	NearTieRatio        float64
	NearTieClasses      []entity.Equipment
	RequireMask         bool

	FaceDetectorModel   string
	FaceRecognizerModel string
	FaceTolerance       float64

	CameraIndex  int
	CaptureDelay time.Duration
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "5002"),
		DBPath:        getEnv("DB_PATH", "ppe_inspections.db"),
		PhotoDir:      getEnv("PHOTO_DIR", "users"),
		Timezone:      getEnv("TIMEZONE", "Europe/Istanbul"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		InferenceBackend: strings.ToLower(getEnv("INFERENCE_BACKEND", BackendDNN)),
		ModelPath:        getEnv("MODEL_PATH", "models/ppe.onnx"),
		LabelsPath:       getEnv("LABELS_PATH", "models/data.yaml"),
		InferenceURL:     getEnv("INFERENCE_URL", "http://localhost:8000"),
		InferenceSize:    getEnvInt("INFERENCE_SIZE", 640, &errs),
		ConfidenceFloor:  getEnvFloat("CONFIDENCE_FLOOR", 0.01, &errs),

		HelmetMinConfidence: getEnvFloat("HELMET_MIN_CONFIDENCE", 0.40, &errs),
		VestMinConfidence:   getEnvFloat("VEST_MIN_CONFIDENCE", 0.25, &errs),
		MaskMinConfidence:   getEnvFloat("MASK_MIN_CONFIDENCE", 0.35, &errs),
		NearTieRatio:        getEnvFloat("NEAR_TIE_RATIO", 0.8, &errs),
		RequireMask:         getEnvBool("REQUIRE_MASK", false, &errs),

		FaceDetectorModel:   getEnv("FACE_DETECTOR_MODEL", "models/face_detection_yunet.onnx"),
		FaceRecognizerModel: getEnv("FACE_RECOGNIZER_MODEL", "models/face_recognition_sface.onnx"),
		FaceTolerance:       getEnvFloat("FACE_TOLERANCE", 0.6, &errs),

		CameraIndex:  getEnvInt("CAMERA_INDEX", -1, &errs),
		CaptureDelay: getEnvDuration("CAPTURE_DELAY", 3*time.Second, &errs),
	}

	classes, err := parseClasses(getEnv("NEAR_TIE_CLASSES", "helmet,vest,mask"))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.NearTieClasses = classes

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет диапазоны значений.
func (c *Config) Validate() error {
	var errs []error

	for name, v := range map[string]float64{
		"HELMET_MIN_CONFIDENCE": c.HelmetMinConfidence,
		"VEST_MIN_CONFIDENCE":   c.VestMinConfidence,
		"MASK_MIN_CONFIDENCE":   c.MaskMinConfidence,
		"NEAR_TIE_RATIO":        c.NearTieRatio,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0, 1], got %v", name, v))
		}
	}
	if c.ConfidenceFloor <= 0 || c.ConfidenceFloor >= 1 {
		errs = append(errs, fmt.Errorf("CONFIDENCE_FLOOR must be in (0, 1), got %v", c.ConfidenceFloor))
	}
	if c.InferenceSize <= 0 || c.InferenceSize%32 != 0 {
		errs = append(errs, fmt.Errorf("INFERENCE_SIZE must be a positive multiple of 32, got %d", c.InferenceSize))
	}
	switch c.InferenceBackend {
	case BackendDNN:
	case BackendRemote:
		if c.InferenceURL == "" {
			errs = append(errs, errors.New("INFERENCE_URL is required for the remote backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown INFERENCE_BACKEND %q", c.InferenceBackend))
	}
	if c.FaceTolerance <= 0 {
		errs = append(errs, fmt.Errorf("FACE_TOLERANCE must be positive, got %v", c.FaceTolerance))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}

	return errors.Join(errs...)
}

// Location часовой пояс для отметок времени проверок.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ResolverConfig собирает политику классов из порогов.
func (c *Config) ResolverConfig() app.ResolverConfig {
	nearTie := make(map[entity.Equipment]bool, len(c.NearTieClasses))
	for _, e := range c.NearTieClasses {
		nearTie[e] = true
	}

	thresholds := map[entity.Equipment]float64{
		entity.Helmet: c.HelmetMinConfidence,
		entity.Vest:   c.VestMinConfidence,
		entity.Mask:   c.MaskMinConfidence,
	}

	classes := []entity.Equipment{entity.Helmet, entity.Vest}
	if c.RequireMask {
		classes = append(classes, entity.Mask)
	}

	policies := make([]app.ClassPolicy, 0, len(classes))
	for _, e := range classes {
		policies = append(policies, app.ClassPolicy{
			Equipment:     e,
			MinConfidence: thresholds[e],
			NearTie:       nearTie[e],
		})
	}

	return app.ResolverConfig{Classes: policies, NearTieRatio: c.NearTieRatio}
}

func parseClasses(raw string) ([]entity.Equipment, error) {
	out := make([]entity.Equipment, 0, 3)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		e, ok := entity.ParseEquipment(part)
		if !ok {
			return nil, fmt.Errorf("NEAR_TIE_CLASSES: unknown class %q", part)
		}
		out = append(out, e)
	}
	return out, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int, errs *[]error) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultVal
	}
	return n
}

func getEnvFloat(key string, defaultVal float64, errs *[]error) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultVal
	}
	return f
}

func getEnvBool(key string, defaultVal bool, errs *[]error) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration, errs *[]error) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultVal
	}
	return d
}
