package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
)

// NewRouter assembles the document host. Reads are open, writes require the
// configured credential.
func NewRouter(kv repositories.KeyValueStore, writeToken string, logger *slog.Logger) *gin.Engine {
	handler := NewDocumentHandler(kv, logger)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", handler.Health)
	router.GET("/raw/:path", handler.GetRaw)

	contents := router.Group("/contents")
	{
		contents.GET("/:path", handler.GetContents)
		contents.PUT("/:path", WriteAuthMiddleware(writeToken), handler.PutContents)
	}

	return router
}
