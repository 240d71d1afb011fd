package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// PlayerRepository persists model.Player values. Per spec.md §9,
// "removing" a player never deletes its row — it blanks the passphrase and
// detaches the player from its team, so GetByPassphrase correctly reports
// it as unreachable while GetByID still resolves historical references.
type PlayerRepository struct {
	q querier
}

// Get loads a single player by id.
func (r *PlayerRepository) Get(ctx context.Context, id uint64) (*model.Player, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT data FROM players WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying player %d: %w", id, err)
	}
	var p model.Player
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding player %d: %w", id, err)
	}
	p.ID = id
	return &p, nil
}

// GetByPassphrase looks up a player by exact passphrase match. Returns nil,
// nil if no player holds that passphrase (including a blanked/removed one,
// since an empty passphrase never matches a non-empty lookup value).
func (r *PlayerRepository) GetByPassphrase(ctx context.Context, passphrase string) (*model.Player, error) {
	var id uint64
	var raw []byte
	err := r.q.QueryRow(ctx,
		`SELECT id, data FROM players WHERE data->>'passphrase' = $1 LIMIT 1`,
		passphrase,
	).Scan(&id, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying player by passphrase: %w", err)
	}
	var p model.Player
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding player %d: %w", id, err)
	}
	p.ID = id
	return &p, nil
}

// List loads every player, including removed (soft-deleted) ones.
func (r *PlayerRepository) List(ctx context.Context) ([]model.Player, error) {
	rows, err := r.q.Query(ctx, `SELECT id, data FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer rows.Close()

	var players []model.Player
	for rows.Next() {
		var id uint64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning player row: %w", err)
		}
		var p model.Player
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decoding player %d: %w", id, err)
		}
		p.ID = id
		players = append(players, p)
	}
	return players, rows.Err()
}

// Upsert inserts or replaces a player, including a soft-delete (blanked
// passphrase) in place.
func (r *PlayerRepository) Upsert(ctx context.Context, p model.Player) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding player %d: %w", p.ID, err)
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO players (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		p.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("upserting player %d: %w", p.ID, err)
	}
	return nil
}
