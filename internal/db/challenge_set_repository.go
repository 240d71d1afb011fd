package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// ChallengeSetRepository persists model.ChallengeSet values.
type ChallengeSetRepository struct {
	q querier
}

// Get loads a single challenge set by id.
func (r *ChallengeSetRepository) Get(ctx context.Context, id uint64) (*model.ChallengeSet, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT data FROM challenge_sets WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying challenge set %d: %w", id, err)
	}
	var cs model.ChallengeSet
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, fmt.Errorf("decoding challenge set %d: %w", id, err)
	}
	cs.ID = id
	return &cs, nil
}

// List loads every challenge set.
func (r *ChallengeSetRepository) List(ctx context.Context) ([]model.ChallengeSet, error) {
	rows, err := r.q.Query(ctx, `SELECT id, data FROM challenge_sets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing challenge sets: %w", err)
	}
	defer rows.Close()

	var sets []model.ChallengeSet
	for rows.Next() {
		var id uint64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning challenge set row: %w", err)
		}
		var cs model.ChallengeSet
		if err := json.Unmarshal(raw, &cs); err != nil {
			return nil, fmt.Errorf("decoding challenge set %d: %w", id, err)
		}
		cs.ID = id
		sets = append(sets, cs)
	}
	return sets, rows.Err()
}

// Upsert inserts or replaces a challenge set.
func (r *ChallengeSetRepository) Upsert(ctx context.Context, cs model.ChallengeSet) error {
	raw, err := json.Marshal(cs)
	if err != nil {
		return fmt.Errorf("encoding challenge set %d: %w", cs.ID, err)
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO challenge_sets (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		cs.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("upserting challenge set %d: %w", cs.ID, err)
	}
	return nil
}

// Delete removes a challenge set.
func (r *ChallengeSetRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM challenge_sets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting challenge set %d: %w", id, err)
	}
	return nil
}
