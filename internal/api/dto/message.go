package dto

// WebhookMessageRequest is the inbound webhook payload. Unknown fields
// are ignored; everything listed here is checked by Validate before the
// message reaches storage.
type WebhookMessageRequest struct {
	MessageID string  `json:"message_id" validate:"required"`
	From      string  `json:"from" validate:"required,msisdn"`
	To        string  `json:"to" validate:"required,msisdn"`
	Ts        string  `json:"ts" validate:"required,iso8601utc"`
	Text      *string `json:"text" validate:"omitempty,max=4096"`
}

type MessageResponse struct {
	MessageID string  `json:"message_id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Ts        string  `json:"ts"`
	Text      *string `json:"text"`
}

type MessagesListResponse struct {
	Data   []MessageResponse `json:"data"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type SenderCountResponse struct {
	From  string `json:"from"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	TotalMessages     int64                 `json:"total_messages"`
	SendersCount      int64                 `json:"senders_count"`
	MessagesPerSender []SenderCountResponse `json:"messages_per_sender"`
	FirstMessageTs    *string               `json:"first_message_ts"`
	LastMessageTs     *string               `json:"last_message_ts"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
