package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RecipientDirectory lists users eligible to receive alerts. Empty results
// are a valid outcome, not an error.
type RecipientDirectory interface {
	ListAlertRecipients(ctx context.Context) ([]Recipient, error)
}

// PGStore implements DedupStore and RecipientDirectory against Postgres
// using the prepared statements registered in internal/db.
type PGStore struct {
	pool  *pgxpool.Pool
	roles []string
}

// NewPGStore wraps a pool as the alert record store and recipient directory.
// roles is the allow-list of roles that receive alerts.
func NewPGStore(pool *pgxpool.Pool, roles []string) *PGStore {
	return &PGStore{pool: pool, roles: roles}
}

// Claim inserts the signature with ON CONFLICT DO NOTHING. A zero rows
// affected means another dispatch already owns this signature.
func (s *PGStore) Claim(ctx context.Context, signature string, violations []Violation) (bool, error) {
	payload, err := json.Marshal(violations)
	if err != nil {
		return false, fmt.Errorf("encode violations: %w", err)
	}
	tag, err := s.pool.Exec(ctx, "claim_alert_signature", signature, payload)
	if err != nil {
		return false, fmt.Errorf("claim signature: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecordDispatch stores who was actually notified and when.
func (s *PGStore) RecordDispatch(ctx context.Context, signature string, recipients []Recipient) error {
	payload, err := json.Marshal(recipients)
	if err != nil {
		return fmt.Errorf("encode recipients: %w", err)
	}
	_, err = s.pool.Exec(ctx, "record_alert_dispatch", signature, payload)
	return err
}

// ListAlertRecipients returns users on the role allow-list with a usable
// contact number.
func (s *PGStore) ListAlertRecipients(ctx context.Context) ([]Recipient, error) {
	rows, err := s.pool.Query(ctx, "list_alert_recipients", s.roles)
	if err != nil {
		return nil, fmt.Errorf("list alert recipients: %w", err)
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.Name, &r.Role, &r.Contact); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}

// RecentAlerts returns the newest alert records for operator visibility.
func (s *PGStore) RecentAlerts(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, "recent_alerts", limit)
	if err != nil {
		return nil, fmt.Errorf("recent alerts: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec           Record
			violationsRaw []byte
			recipientsRaw []byte
			sentAt        *time.Time
		)
		if err := rows.Scan(&rec.Signature, &violationsRaw, &recipientsRaw, &sentAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert record: %w", err)
		}
		if len(violationsRaw) > 0 {
			if err := json.Unmarshal(violationsRaw, &rec.Violations); err != nil {
				return nil, fmt.Errorf("decode violations: %w", err)
			}
		}
		if len(recipientsRaw) > 0 {
			if err := json.Unmarshal(recipientsRaw, &rec.Recipients); err != nil {
				return nil, fmt.Errorf("decode recipients: %w", err)
			}
		}
		if sentAt != nil {
			t := sentAt.UTC()
			rec.SentAt = &t
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}
