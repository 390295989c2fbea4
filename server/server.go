package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"kmleditor/database"
	"kmleditor/internal/config"
	"kmleditor/kml"
	"kmleditor/server/handlers"
	"kmleditor/server/middleware"
	"kmleditor/server/services"
)

// Server HTTP-сервер редактора KML.
//
// Держит загруженный документ, журнал операций и собранный роутер.
type Server struct {
	config        *config.Config
	editorService *services.EditorService
	history       *database.HistoryDB
	httpServer    *http.Server

	httpHandler http.Handler
	handlerOnce sync.Once
}

// NewServer загружает KML-документ и журнал и собирает сервер.
func NewServer(cfg *config.Config) (*Server, error) {
	doc, err := kml.Load(cfg.KMLPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load KML document: %w", err)
	}
	doc.ImageHeight = cfg.ImageHeight

	history, err := database.OpenHistoryDB(cfg.HistoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	return &Server{
		config:        cfg,
		editorService: services.NewEditorService(doc, history),
		history:       history,
	}, nil
}

// buildHTTPHandler собирает gin-роутер со всеми middleware и маршрутами.
func (s *Server) buildHTTPHandler() http.Handler {
	// release для продакшена, переопределяется через GIN_MODE
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinRateLimitMiddleware(s.config.RateLimitPerSecond, s.config.RateLimitBurst))
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())

	handlers.RegisterSwaggerRoutes(router, "localhost:"+s.config.Port)

	polygonHandler := handlers.NewPolygonHandler(s.editorService)
	updateHandler := handlers.NewUpdateHandler(s.editorService, s.config.UploadDir, s.config.MergeWithExisting)
	historyHandler := handlers.NewHistoryHandler(s.history)

	api := router.Group("/api")
	{
		api.GET("/polygons", polygonHandler.HandlePolygonsListGin)
		api.GET("/polygons/:name", polygonHandler.HandlePolygonGetGin)
		api.POST("/updates/preview", updateHandler.HandleUpdatePreviewGin)
		api.POST("/updates/apply", updateHandler.HandleUpdateApplyGin)
		api.GET("/history", historyHandler.HandleHistoryListGin)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "polygons": len(s.editorService.PolygonNames())})
	})

	return router
}

func (s *Server) ensureHTTPHandler() http.Handler {
	s.handlerOnce.Do(func() {
		s.httpHandler = s.buildHTTPHandler()
	})
	return s.httpHandler
}

// Start запускает HTTP сервер и блокируется до его остановки.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.ensureHTTPHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Сервер запускается",
		"port", s.config.Port,
		"kml", s.config.KMLPath,
		"polygons", len(s.editorService.PolygonNames()))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown останавливает сервер и закрывает журнал операций.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// ServeHTTP реализует http.Handler для тестов
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.ensureHTTPHandler().ServeHTTP(w, r)
}
