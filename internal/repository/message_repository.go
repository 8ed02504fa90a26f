package repository

import (
	"context"
	"fmt"
	"strings"

	"webhook-message-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository interface {
	// Inserts the message unless its message_id is already present.
	// Returns created=false on a duplicate; duplicates are not errors.
	Insert(ctx context.Context, message *domain.Message) (bool, error)
	// Returns one page of messages matching the filter plus the total
	// matching count independent of limit/offset.
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Message, int64, error)
	// Computes aggregate statistics over all stored messages.
	Stats(ctx context.Context) (domain.Stats, error)
	// Trivial round-trip used by the readiness probe.
	Ping(ctx context.Context) error
}

type messageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) MessageRepository {
	return &messageRepository{db: db}
}

// Insert relies on the primary key on message_id for idempotency:
// concurrent inserts of the same id race inside Postgres, exactly one
// wins and the rest report zero affected rows. No app-level locking.
func (r *messageRepository) Insert(ctx context.Context, message *domain.Message) (bool, error) {
	sql := `
        INSERT INTO messages (message_id, from_msisdn, to_msisdn, ts, text, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (message_id) DO NOTHING`

	cmdTag, err := r.db.Exec(ctx, sql,
		message.MessageID, message.From, message.To, message.Ts, message.Text, message.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("unexpected error while inserting message: %w", err)
	}

	return cmdTag.RowsAffected() == 1, nil
}

// buildListFilter renders the AND-composed WHERE clause for a listing
// call. Substring matching on text uses LIKE, so it follows the
// engine's default collation: case-sensitive.
func buildListFilter(filter domain.ListFilter) (string, []any) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.From != "" {
		args = append(args, filter.From)
		clauses = append(clauses, fmt.Sprintf("from_msisdn = $%d", len(args)))
	}
	if filter.Since != "" {
		// ISO-8601 UTC strings sort chronologically, string compare
		// is the intended semantics here.
		args = append(args, filter.Since)
		clauses = append(clauses, fmt.Sprintf("ts >= $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		clauses = append(clauses, fmt.Sprintf("text LIKE $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "1=1", args
	}
	return strings.Join(clauses, " AND "), args
}

func (r *messageRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Message, int64, error) {
	where, args := buildListFilter(filter)

	var total int64
	countSQL := "SELECT COUNT(*) FROM messages WHERE " + where
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("unexpected error while counting messages: %w", err)
	}

	// Ordering by (ts, message_id) is part of the API contract, it
	// keeps pages stable across requests.
	listSQL := fmt.Sprintf(`
        SELECT message_id, from_msisdn, to_msisdn, ts, text, created_at
        FROM messages
        WHERE %s
        ORDER BY ts ASC, message_id ASC
        LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("unexpected error while listing messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.MessageID, &msg.From, &msg.To, &msg.Ts, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, 0, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *messageRepository) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats

	summarySQL := `
        SELECT COUNT(*), COUNT(DISTINCT from_msisdn), MIN(ts), MAX(ts)
        FROM messages`
	err := r.db.QueryRow(ctx, summarySQL).Scan(
		&stats.TotalMessages, &stats.SendersCount, &stats.FirstMessageTs, &stats.LastMessageTs)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("unexpected error while computing stats: %w", err)
	}

	// Secondary sort on the sender keeps equal-count rankings
	// deterministic across identical data.
	topSendersSQL := `
        SELECT from_msisdn, COUNT(*) AS count
        FROM messages
        GROUP BY from_msisdn
        ORDER BY count DESC, from_msisdn ASC
        LIMIT 10`
	rows, err := r.db.Query(ctx, topSendersSQL)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("unexpected error while ranking senders: %w", err)
	}
	defer rows.Close()

	stats.TopSenders = make([]domain.SenderCount, 0, 10)
	for rows.Next() {
		var sc domain.SenderCount
		if err := rows.Scan(&sc.From, &sc.Count); err != nil {
			return domain.Stats{}, err
		}
		stats.TopSenders = append(stats.TopSenders, sc)
	}
	if err := rows.Err(); err != nil {
		return domain.Stats{}, err
	}

	return stats, nil
}

func (r *messageRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}
