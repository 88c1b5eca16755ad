package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Record is one audited action.
type Record struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"` // resend_webhook, export_json, print_proof, bulk_export
	Kind       string         `json:"kind"`
	ResultID   string         `json:"result_id"`
	BusinessID string         `json:"business_id,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	Outcome    string         `json:"outcome"` // success or failure
	Message    string         `json:"message,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Store writes and reads audit records.
type Store struct {
	db  *DB
	log zerolog.Logger
}

// NewStore creates an audit store.
func NewStore(db *DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("component", "audit").Logger(),
	}
}

// Append writes one record. ID and CreatedAt are filled in when empty. The
// free-form detail map is encoded with msgpack into a blob column.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var detail []byte
	if len(rec.Detail) > 0 {
		encoded, err := msgpack.Marshal(rec.Detail)
		if err != nil {
			return fmt.Errorf("failed to encode action detail: %w", err)
		}
		detail = encoded
	}

	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO action_log (id, action, kind, result_id, business_id, session_id, outcome, message, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Action, rec.Kind, rec.ResultID, rec.BusinessID, rec.SessionID,
		rec.Outcome, rec.Message, detail, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}

	s.log.Debug().
		Str("action", rec.Action).
		Str("result_id", rec.ResultID).
		Str("outcome", rec.Outcome).
		Msg("Audit record appended")

	return nil
}

// AppendBulkExport records a scheduled wallet bulk-export request. The date
// window stands in for the result id since no single record is involved.
func (s *Store) AppendBulkExport(ctx context.Context, window, outcome, message string) error {
	return s.Append(ctx, Record{
		Action:   "bulk_export",
		Kind:     "wallet",
		ResultID: window,
		Outcome:  outcome,
		Message:  message,
	})
}

// Recent returns the latest records, newest first. limit is clamped to 500.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, action, kind, result_id, business_id, session_id, outcome, message, detail, created_at
		FROM action_log
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var detail []byte
		if err := rows.Scan(
			&rec.ID, &rec.Action, &rec.Kind, &rec.ResultID, &rec.BusinessID,
			&rec.SessionID, &rec.Outcome, &rec.Message, &detail, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}

		if len(detail) > 0 {
			if err := msgpack.Unmarshal(detail, &rec.Detail); err != nil {
				// A corrupt detail blob must not hide the rest of the record.
				s.log.Warn().Err(err).Str("id", rec.ID).Msg("Failed to decode action detail")
			}
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// HealthCheck verifies the underlying database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// CountByAction returns how many records exist per action name.
func (s *Store) CountByAction(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT action, COUNT(*) FROM action_log GROUP BY action`)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("failed to scan audit count: %w", err)
		}
		counts[action] = count
	}

	return counts, rows.Err()
}
