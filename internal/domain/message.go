package domain

// CreatedAtLayout renders server-assigned timestamps as ISO-8601 UTC
// with microsecond precision and a trailing Z, so they sort
// lexicographically in chronological order like the ts column.
const CreatedAtLayout = "2006-01-02T15:04:05.000000Z"

type Message struct {
	MessageID string  `json:"message_id" db:"message_id"`
	From      string  `json:"from" db:"from_msisdn"`
	To        string  `json:"to" db:"to_msisdn"`
	Ts        string  `json:"ts" db:"ts"`
	Text      *string `json:"text" db:"text"`
	CreatedAt string  `json:"created_at" db:"created_at"`
}

// ListFilter carries the pagination bounds and filters for a listing
// call. Bounds are validated at the API layer before the store is hit.
type ListFilter struct {
	Limit  int
	Offset int
	From   string
	Since  string
	Query  string
}

type SenderCount struct {
	From  string `json:"from"`
	Count int64  `json:"count"`
}

type Stats struct {
	TotalMessages  int64
	SendersCount   int64
	TopSenders     []SenderCount
	FirstMessageTs *string
	LastMessageTs  *string
}
