package rest

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ppe-inspector/internal/domain/entity"
)

// frameInterval пауза между кадрами видеопотока.
const frameInterval = 40 * time.Millisecond

func (h *Handler) handleCapture(c *gin.Context) {
	if h.cameras == nil {
		respondError(c, entity.ErrCameraDisabled)
		return
	}

	out, err := h.cameras.Inspect(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newValidateResponse(out))
}

func (h *Handler) handleVideoFeed(c *gin.Context) {
	if h.cameras == nil || !h.cameras.Enabled() {
		respondError(c, entity.ErrCameraDisabled)
		return
	}
	// Первый кадр до заголовков, чтобы ошибка ушла обычным JSON.
	first, err := h.cameras.Frame()
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	c.Header("Cache-Control", "no-cache")

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	frame := first
	c.Stream(func(w io.Writer) bool {
		if frame == nil {
			select {
			case <-c.Request.Context().Done():
				return false
			case <-ticker.C:
			}
			var err error
			if frame, err = h.cameras.Frame(); err != nil {
				log.Info().Err(err).Msg("video feed ended")
				return false
			}
		}

		if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame)); err != nil {
			return false
		}
		if _, err := w.Write(frame); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return false
		}
		frame = nil
		return true
	})
}

func (h *Handler) handleStop(c *gin.Context) {
	if h.cameras == nil || !h.cameras.Enabled() {
		respondError(c, entity.ErrCameraDisabled)
		return
	}
	if err := h.cameras.Stop(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Camera closed"})
}
