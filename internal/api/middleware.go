package api

import (
	"net/http"
	"strconv"
	"time"

	"webhook-message-service/internal/cache"
	"webhook-message-service/internal/metrics"
	"webhook-message-service/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const outcomeContextKey = "request_outcome"

// RequestOutcome is the per-request record each pipeline stage fills
// in. The logging middleware reads it once at the end of the request,
// there is no ambient mutable logging state.
type RequestOutcome struct {
	RequestID string
	Result    string
	MessageID string
	Duplicate *bool
}

// OutcomeFromContext returns the outcome record the logging middleware
// attached to this request.
func OutcomeFromContext(c *gin.Context) *RequestOutcome {
	return c.MustGet(outcomeContextKey).(*RequestOutcome)
}

// RequestLogger assigns a correlation id, tracks request metrics, and
// emits one structured log line per request.
func RequestLogger(logger zerolog.Logger, metricsSet *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		outcome := &RequestOutcome{RequestID: uuid.NewString()}
		c.Set(outcomeContextKey, outcome)

		start := time.Now()
		c.Next()
		latencyMs := float64(time.Since(start)) / float64(time.Millisecond)

		status := c.Writer.Status()
		metricsSet.HTTPRequestsTotal.
			WithLabelValues(c.Request.URL.Path, strconv.Itoa(status)).Inc()
		metricsSet.RequestLatencyMs.Observe(latencyMs)

		event := logger.Info().
			Str("request_id", outcome.RequestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Float64("latency_ms", latencyMs)
		if outcome.MessageID != "" {
			event = event.Str("message_id", outcome.MessageID)
		}
		if outcome.Duplicate != nil {
			event = event.Bool("dup", *outcome.Duplicate)
		}
		if outcome.Result != "" {
			event = event.Str("result", outcome.Result)
		}
		event.Msg("request processed")
	}
}

// RateLimit rejects webhook callers that exceed their window budget.
// Limiter faults fail open so a Redis outage cannot drop webhooks.
func RateLimit(limiter cache.RateLimiter, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Error().Err(err).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": types.ErrRateLimited.Error()})
			return
		}
		c.Next()
	}
}
