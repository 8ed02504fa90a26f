package api

import (
	"webhook-message-service/docs"
	"webhook-message-service/internal/cache"
	"webhook-message-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires the HTTP surface. limiter may be nil, in which case
// the webhook endpoint runs unthrottled.
func NewRouter(h *Handler, metricsSet *metrics.Metrics, logger zerolog.Logger, limiter cache.RateLimiter) *gin.Engine {

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger, metricsSet))
	docs.SwaggerInfo.BasePath = "/"

	webhookHandlers := []gin.HandlerFunc{h.webhookHandler}
	if limiter != nil {
		webhookHandlers = append([]gin.HandlerFunc{RateLimit(limiter, logger)}, webhookHandlers...)
	}
	router.POST("/webhook", webhookHandlers...)

	router.GET("/messages", h.listMessagesHandler)
	router.GET("/stats", h.statsHandler)

	router.GET("/health/live", h.livenessHandler)
	router.GET("/health/ready", h.readinessHandler)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metricsSet.Registry, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
