package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// ChallengeRepository persists model.RawChallenge values.
type ChallengeRepository struct {
	q querier
}

// Get loads a single raw challenge by id.
func (r *ChallengeRepository) Get(ctx context.Context, id uint64) (*model.RawChallenge, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT data FROM challenges WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying challenge %d: %w", id, err)
	}
	var c model.RawChallenge
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decoding challenge %d: %w", id, err)
	}
	c.ID = id
	return &c, nil
}

// List loads every raw challenge.
func (r *ChallengeRepository) List(ctx context.Context) ([]model.RawChallenge, error) {
	rows, err := r.q.Query(ctx, `SELECT id, data FROM challenges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing challenges: %w", err)
	}
	defer rows.Close()

	var challenges []model.RawChallenge
	for rows.Next() {
		var id uint64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning challenge row: %w", err)
		}
		var c model.RawChallenge
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding challenge %d: %w", id, err)
		}
		c.ID = id
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

// Upsert inserts or replaces a raw challenge.
func (r *ChallengeRepository) Upsert(ctx context.Context, c model.RawChallenge) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding challenge %d: %w", c.ID, err)
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO challenges (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		c.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("upserting challenge %d: %w", c.ID, err)
	}
	return nil
}

// Delete removes a single raw challenge.
func (r *ChallengeRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting challenge %d: %w", id, err)
	}
	return nil
}

// DeleteAll removes every raw challenge. Used by the second phase of
// DeleteAllChallenges, once any autosave that was in progress when the
// first phase ran has settled (spec.md §4.1.3).
func (r *ChallengeRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM challenges`); err != nil {
		return fmt.Errorf("deleting all challenges: %w", err)
	}
	return nil
}
