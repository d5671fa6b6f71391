package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "ppe-inspector/internal/application"
	"ppe-inspector/internal/domain/entity"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5002", cfg.HTTPPort)
	assert.Equal(t, BackendDNN, cfg.InferenceBackend)
	assert.Equal(t, 640, cfg.InferenceSize)
	assert.Equal(t, 0.40, cfg.HelmetMinConfidence)
	assert.Equal(t, 0.25, cfg.VestMinConfidence)
	assert.Equal(t, -1, cfg.CameraIndex)
	assert.Equal(t, []entity.Equipment{entity.Helmet, entity.Vest, entity.Mask}, cfg.NearTieClasses)

	assert.Equal(t, app.DefaultResolverConfig(), cfg.ResolverConfig())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("INFERENCE_BACKEND", "Remote")
	t.Setenv("INFERENCE_URL", "http://inference:8000")
	t.Setenv("HELMET_MIN_CONFIDENCE", "0.5")
	t.Setenv("NEAR_TIE_CLASSES", "vest")
	t.Setenv("REQUIRE_MASK", "true")
	t.Setenv("CAPTURE_DELAY", "500ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, cfg.InferenceBackend)
	assert.Equal(t, "500ms", cfg.CaptureDelay.String())

	rc := cfg.ResolverConfig()
	require.Len(t, rc.Classes, 3)
	assert.Equal(t, app.ClassPolicy{Equipment: entity.Helmet, MinConfidence: 0.5, NearTie: false}, rc.Classes[0])
	assert.Equal(t, app.ClassPolicy{Equipment: entity.Vest, MinConfidence: 0.25, NearTie: true}, rc.Classes[1])
	assert.Equal(t, app.ClassPolicy{Equipment: entity.Mask, MinConfidence: 0.35, NearTie: false}, rc.Classes[2])
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"HELMET_MIN_CONFIDENCE": "1.5",
		"CONFIDENCE_FLOOR":      "0",
		"INFERENCE_SIZE":        "100",
		"INFERENCE_BACKEND":     "tensorrt",
		"NEAR_TIE_CLASSES":      "helmet,gloves",
		"CAMERA_INDEX":          "front",
		"TIMEZONE":              "Mars/Olympus",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
