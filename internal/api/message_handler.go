package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"webhook-message-service/internal/api/dto"
	"webhook-message-service/internal/domain"
	"webhook-message-service/internal/metrics"
	"webhook-message-service/internal/services"
	"webhook-message-service/internal/signature"
	"webhook-message-service/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// maxWebhookBodyBytes caps inbound payloads before signature
// verification runs, so oversized bodies cannot tie up HMAC work.
const maxWebhookBodyBytes = 1 << 20

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type Handler struct {
	messageService services.MessageService
	verifier       *signature.Verifier
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	secretSet      bool
}

func NewHandler(messageService services.MessageService, verifier *signature.Verifier,
	metricsSet *metrics.Metrics, logger zerolog.Logger, secretSet bool) *Handler {
	return &Handler{
		messageService: messageService,
		verifier:       verifier,
		metrics:        metricsSet,
		logger:         logger,
		secretSet:      secretSet,
	}
}

// webhookHandler
// @Summary      Receives a webhook message
// @Description  Verifies the HMAC-SHA256 signature over the raw body, validates the payload and stores it idempotently by message_id.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        X-Signature  header    string                     true  "hex HMAC-SHA256 of the raw body"
// @Param        message      body      dto.WebhookMessageRequest  true  "Message payload"
// @Success      200  {object}  dto.StatusResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /webhook [post]
func (h *Handler) webhookHandler(c *gin.Context) {
	outcome := OutcomeFromContext(c)

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: types.ErrPayloadTooLarge.Error()})
		return
	}

	// The signature covers the raw bytes exactly as received.
	// Re-serializing the body first would change it byte-for-byte.
	if !h.verifier.Verify(body, c.GetHeader("X-Signature")) {
		h.finishWebhook(c, outcome, metrics.ResultInvalidSignature)
		h.logger.Error().Str("request_id", outcome.RequestID).
			Str("result", outcome.Result).Msg("invalid signature")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: types.ErrInvalidSignature.Error()})
		return
	}

	req, err := dto.ParseWebhookMessage(body)
	if err != nil {
		h.finishWebhook(c, outcome, metrics.ResultValidationError)
		h.logger.Error().Str("request_id", outcome.RequestID).
			Str("result", outcome.Result).Err(err).Msg("validation error")
		var vErr *dto.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid payload", Details: vErr.Details})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	created, err := h.messageService.IngestMessage(c.Request.Context(), domain.Message{
		MessageID: req.MessageID,
		From:      req.From,
		To:        req.To,
		Ts:        req.Ts,
		Text:      req.Text,
	})
	if err != nil {
		h.finishWebhook(c, outcome, metrics.ResultStorageError)
		h.logger.Error().Str("request_id", outcome.RequestID).
			Str("result", outcome.Result).Err(err).Msg("storage fault")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "unexpected error occurred while storing message"})
		return
	}

	outcome.MessageID = req.MessageID
	duplicate := !created
	outcome.Duplicate = &duplicate
	if created {
		h.finishWebhook(c, outcome, metrics.ResultCreated)
	} else {
		h.finishWebhook(c, outcome, metrics.ResultDuplicate)
	}

	// Duplicates respond 200 like first inserts: replaying a webhook
	// must look like a success to the sender.
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}

// finishWebhook records the terminal outcome: one counter increment
// per webhook request, tagged by result.
func (h *Handler) finishWebhook(c *gin.Context, outcome *RequestOutcome, result string) {
	outcome.Result = result
	h.metrics.WebhookRequestsTotal.WithLabelValues(result).Inc()
}

// listMessagesHandler
// @Summary      Lists stored messages
// @Description  Returns messages ordered by (ts, message_id) with pagination and optional filters. Filters compose with AND.
// @Tags         Messages
// @Produce      json
// @Param        limit   query  int     false  "page size, 1..100"  default(50)
// @Param        offset  query  int     false  "rows to skip"       default(0)
// @Param        from    query  string  false  "exact sender match"
// @Param        since   query  string  false  "inclusive lower bound on ts"
// @Param        q       query  string  false  "substring match on text (case-sensitive)"
// @Success      200  {object}  dto.MessagesListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /messages [get]
func (h *Handler) listMessagesHandler(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit < 1 || limit > maxListLimit {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid limit: must be an integer between 1 and 100"})
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid offset: must be a non-negative integer"})
		return
	}

	filter := domain.ListFilter{
		Limit:  limit,
		Offset: offset,
		From:   c.Query("from"),
		Since:  c.Query("since"),
		Query:  c.Query("q"),
	}

	messages, total, err := h.messageService.ListMessages(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error().Str("request_id", OutcomeFromContext(c).RequestID).
			Err(err).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "unexpected error occurred while fetching messages"})
		return
	}

	c.JSON(http.StatusOK, dto.MessagesListResponse{
		Data:   lo.Map(messages, func(msg domain.Message, _ int) dto.MessageResponse { return toMessageResponse(msg) }),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// statsHandler
// @Summary      Returns aggregate message statistics
// @Tags         Messages
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /stats [get]
func (h *Handler) statsHandler(c *gin.Context) {
	stats, err := h.messageService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error().Str("request_id", OutcomeFromContext(c).RequestID).
			Err(err).Msg("failed to compute stats")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "unexpected error occurred while computing stats"})
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalMessages: stats.TotalMessages,
		SendersCount:  stats.SendersCount,
		MessagesPerSender: lo.Map(stats.TopSenders, func(sc domain.SenderCount, _ int) dto.SenderCountResponse {
			return dto.SenderCountResponse{From: sc.From, Count: sc.Count}
		}),
		FirstMessageTs: stats.FirstMessageTs,
		LastMessageTs:  stats.LastMessageTs,
	})
}

func toMessageResponse(msg domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		MessageID: msg.MessageID,
		From:      msg.From,
		To:        msg.To,
		Ts:        msg.Ts,
		Text:      msg.Text,
	}
}
