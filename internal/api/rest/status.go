package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var endpoints = []string{
	"POST /validate_image",
	"GET /api/inspections",
	"GET /api/inspections_with_id",
	"GET /api/stats",
	"DELETE /api/delete_inspection/:id",
	"DELETE /api/clear_all",
	"POST /api/import_inspection",
	"POST /api/register_user",
	"POST /api/login_user",
	"GET /api/users",
	"GET /users/:filename",
	"GET /capture",
	"GET /video_feed",
	"GET /stop",
	"GET /health",
}

// healthTimeout сколько ждать ответа бэкенда инференса.
const healthTimeout = 3 * time.Second

func (h *Handler) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.inspections.CheckHealth(ctx); err != nil {
		log.Warn().Err(err).Msg("inference backend unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "degraded",
			"inference": "unavailable",
			"error":     err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "inference": "ok"})
}

func (h *Handler) handleInfo(c *gin.Context) {
	system := gin.H{}
	if vm, err := mem.VirtualMemory(); err == nil {
		system["memory_used_percent"] = vm.UsedPercent
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		system["cpu_used_percent"] = pct[0]
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "running",
		"message":   "PPE inspection API",
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"camera":    h.cameras != nil && h.cameras.Enabled(),
		"endpoints": endpoints,
		"system":    system,
	})
}
