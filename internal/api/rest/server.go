package rest

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	app "ppe-inspector/internal/application"
	"ppe-inspector/internal/domain/port"
)

// maxUploadSize предел размера загружаемого снимка.
const maxUploadSize = 16 << 20

// Handler HTTP-обработчики сервиса проверки СИЗ.
type Handler struct {
	inspections *app.InspectionService
	employees   *app.EmployeeService
	cameras     *app.CameraService
	decoder     port.ImageDecoder
	started     time.Time
}

func NewHandler(inspections *app.InspectionService, employees *app.EmployeeService, cameras *app.CameraService, decoder port.ImageDecoder) *Handler {
	return &Handler{
		inspections: inspections,
		employees:   employees,
		cameras:     cameras,
		decoder:     decoder,
		started:     time.Now(),
	}
}

// NewRouter собирает gin-движок со всеми маршрутами.
func NewRouter(h *Handler, debug bool) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.MaxMultipartMemory = maxUploadSize

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/health", h.handleHealth)
	router.POST("/validate_image", h.handleValidateImage)

	router.GET("/capture", h.handleCapture)
	router.GET("/video_feed", h.handleVideoFeed)
	router.GET("/stop", h.handleStop)

	router.GET("/users/:filename", h.handleUserPhoto)

	api := router.Group("/api")
	api.GET("", h.handleInfo)
	api.GET("/inspections", h.handleInspections)
	api.GET("/inspections_with_id", h.handleInspectionsWithID)
	api.GET("/stats", h.handleStats)
	api.DELETE("/delete_inspection/:id", h.handleDeleteInspection)
	api.DELETE("/clear_all", h.handleClearAll)
	api.POST("/import_inspection", h.handleImportInspection)

	api.POST("/register_user", h.handleRegisterUser)
	api.POST("/login_user", h.handleLoginUser)
	api.GET("/users", h.handleUsers)

	return router
}
