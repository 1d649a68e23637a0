package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LLMRequestEventData is the payload appended for every LLM call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored audit log row.
type LLMRequestEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = default 50)
	Purpose string // filter by purpose when non-empty
}

// AuditLog provides append and query access to the LLM request audit log.
// The llm package's audit decorator writes through this interface; a nil
// implementation is valid for disabling the log.
type AuditLog interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)
}

// AuditLog returns the sqlite-backed audit log for this store.
func (s *Store) AuditLog() AuditLog {
	return &auditLog{db: s.db}
}

type auditLog struct {
	db *sql.DB
}

func (a *auditLog) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	const q = `
INSERT INTO llm_request_events
	(timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := a.db.ExecContext(ctx, q,
		time.Now().UTC().Format(time.RFC3339),
		data.Provider,
		data.Model,
		data.Purpose,
		data.InputTokens,
		data.OutputTokens,
		data.LatencyMs,
		data.Success,
		data.ErrorMessage,
		data.RequestBody,
		data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (a *auditLog) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	q := `
SELECT id, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
FROM llm_request_events`
	args := []any{}
	if opts.Purpose != "" {
		q += " WHERE purpose = ?"
		args = append(args, opts.Purpose)
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := a.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (a *auditLog) GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error) {
	const q = `
SELECT id, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
FROM llm_request_events WHERE id = ?`

	row := a.db.QueryRowContext(ctx, q, id)
	e, err := scanLLMEvent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("LLM event %d not found", id)
	}
	return e, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(r rowScanner) (*LLMRequestEvent, error) {
	var e LLMRequestEvent
	var ts string
	err := r.Scan(
		&e.ID,
		&ts,
		&e.Provider,
		&e.Model,
		&e.Purpose,
		&e.InputTokens,
		&e.OutputTokens,
		&e.LatencyMs,
		&e.Success,
		&e.ErrorMessage,
		&e.RequestBody,
		&e.ResponseBody,
	)
	if err != nil {
		return nil, err
	}
	e.Timestamp, _ = time.Parse(time.RFC3339, ts)
	return &e, nil
}
