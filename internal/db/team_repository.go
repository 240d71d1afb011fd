package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// TeamRepository persists model.Team values.
type TeamRepository struct {
	q querier
}

// Get loads a single team by id.
func (r *TeamRepository) Get(ctx context.Context, id uint64) (*model.Team, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT data FROM teams WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying team %d: %w", id, err)
	}
	var t model.Team
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decoding team %d: %w", id, err)
	}
	t.ID = id
	return &t, nil
}

// List loads every team.
func (r *TeamRepository) List(ctx context.Context) ([]model.Team, error) {
	rows, err := r.q.Query(ctx, `SELECT id, data FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var id uint64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		var t model.Team
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("decoding team %d: %w", id, err)
		}
		t.ID = id
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Upsert inserts or replaces a team.
func (r *TeamRepository) Upsert(ctx context.Context, t model.Team) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding team %d: %w", t.ID, err)
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO teams (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		t.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("upserting team %d: %w", t.ID, err)
	}
	return nil
}

// Delete removes a team.
func (r *TeamRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting team %d: %w", id, err)
	}
	return nil
}
