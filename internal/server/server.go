// Package server is the reference chatbot backend: a gin router over the
// indexing and answering service.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ragchat/internal/metrics"
	"ragchat/internal/service"
)

// maxUploadMemory caps how much of a multipart upload is held in memory.
const maxUploadMemory = 32 << 20

// NewRouter wires the HTTP API onto svc. An empty ginMode keeps gin's current mode.
func NewRouter(svc *service.RAGService, ginMode string) *gin.Engine {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory
	router.Use(gin.Logger(), gin.Recovery(), metricsMiddleware())

	h := NewHandler(svc)
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if dir := svc.UploadDir(); dir != "" {
		router.Static("/uploads", dir)
	}

	api := router.Group("/api")
	api.POST("/upload", h.Upload)
	api.GET("/indexed", h.Indexed)
	api.POST("/chat", h.Chat)
	api.GET("/history", h.History)
	return router
}

// metricsMiddleware records every request under its route pattern.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
