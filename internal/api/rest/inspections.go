package rest

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	app "ppe-inspector/internal/application"
	"ppe-inspector/internal/domain/entity"
)

// validateResponse ответ на проверку снимка.
type validateResponse struct {
	Success       bool                      `json:"success"`
	DetectedItems map[entity.Equipment]bool `json:"detected_items"`
	MissingItems  []entity.Equipment        `json:"missing_items"`
	Message       string                    `json:"message"`
	Quality       entity.QualityVerdict     `json:"quality"`
	Enhanced      bool                      `json:"enhanced"`
	Resolutions   []entity.Resolution       `json:"resolutions"`
	InspectionID  int64                     `json:"inspection_id"`
}

func newValidateResponse(out *app.InspectionOutput) validateResponse {
	v := out.Result.Verdict
	return validateResponse{
		Success:       v.Success,
		DetectedItems: v.Detected,
		MissingItems:  v.Missing,
		Message:       v.Message(),
		Quality:       out.Result.Quality,
		Enhanced:      out.Result.Enhanced,
		Resolutions:   v.Resolutions,
		InspectionID:  out.Inspection.ID,
	}
}

var errImageTooLarge = fmt.Errorf("%w: image too large, limit is %d MB", entity.ErrInvalidInput, maxUploadSize>>20)

// readUpload читает файл из multipart-поля field.
func readUpload(c *gin.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: no %s provided", entity.ErrInvalidInput, field)
	}
	if fh.Size > maxUploadSize {
		return nil, "", errImageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	if len(data) > maxUploadSize {
		return nil, "", errImageTooLarge
	}
	return data, fh.Filename, nil
}

func (h *Handler) handleValidateImage(c *gin.Context) {
	data, filename, err := readUpload(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	img, err := h.decoder.Decode(data)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.inspections.Validate(c.Request.Context(), img, filename, entity.SourceHTTP)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newValidateResponse(out))
}

func (h *Handler) handleInspections(c *gin.Context) {
	limit := app.DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, fmt.Errorf("%w: bad limit %q", entity.ErrInvalidInput, raw))
			return
		}
		limit = n
	}

	inspections, err := h.inspections.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inspections)
}

func (h *Handler) handleInspectionsWithID(c *gin.Context) {
	inspections, err := h.inspections.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inspections)
}

func (h *Handler) handleStats(c *gin.Context) {
	stats, err := h.inspections.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) handleDeleteInspection(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("%w: bad id %q", entity.ErrInvalidInput, c.Param("id")))
		return
	}

	if err := h.inspections.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Inspection deleted"})
}

func (h *Handler) handleClearAll(c *gin.Context) {
	if err := h.inspections.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All inspections deleted"})
}

func (h *Handler) handleImportInspection(c *gin.Context) {
	var rec app.ExternalRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		respondError(c, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err))
		return
	}

	out, err := h.inspections.Import(c.Request.Context(), rec)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Inspection imported",
		"inspection_id": out.Inspection.ID,
		"employee":      out.Employee,
	})
}
