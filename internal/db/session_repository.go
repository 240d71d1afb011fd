package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// SessionRepository persists model.Session values.
type SessionRepository struct {
	q querier
}

// Get loads a single session by id.
func (r *SessionRepository) Get(ctx context.Context, id uint64) (*model.Session, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT data FROM sessions WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session %d: %w", id, err)
	}
	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding session %d: %w", id, err)
	}
	s.ID = id
	return &s, nil
}

// List loads every session.
func (r *SessionRepository) List(ctx context.Context) ([]model.Session, error) {
	rows, err := r.q.Query(ctx, `SELECT id, data FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var id uint64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		var s model.Session
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decoding session %d: %w", id, err)
		}
		s.ID = id
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Upsert inserts or replaces a session.
func (r *SessionRepository) Upsert(ctx context.Context, s model.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session %d: %w", s.ID, err)
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO sessions (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		s.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("upserting session %d: %w", s.ID, err)
	}
	return nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting session %d: %w", id, err)
	}
	return nil
}
