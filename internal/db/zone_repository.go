package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// ZoneRepository persists model.Zone values. Zones are close to immutable
// reference data (loaded once from a transit-network import), so like
// PlayerRepository it has no Delete — zones are written one at a time by
// Upsert or replaced wholesale via ReplaceAll.
type ZoneRepository struct {
	q querier
}

// Get loads a single zone by id.
func (r *ZoneRepository) Get(ctx context.Context, id uint64) (*model.Zone, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT data FROM zones WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying zone %d: %w", id, err)
	}
	var z model.Zone
	if err := json.Unmarshal(raw, &z); err != nil {
		return nil, fmt.Errorf("decoding zone %d: %w", id, err)
	}
	z.ID = id
	return &z, nil
}

// List loads every zone.
func (r *ZoneRepository) List(ctx context.Context) ([]model.Zone, error) {
	rows, err := r.q.Query(ctx, `SELECT id, data FROM zones ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	defer rows.Close()

	var zones []model.Zone
	for rows.Next() {
		var id uint64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning zone row: %w", err)
		}
		var z model.Zone
		if err := json.Unmarshal(raw, &z); err != nil {
			return nil, fmt.Errorf("decoding zone %d: %w", id, err)
		}
		z.ID = id
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// Upsert inserts or replaces a zone's data.
func (r *ZoneRepository) Upsert(ctx context.Context, z model.Zone) error {
	raw, err := json.Marshal(z)
	if err != nil {
		return fmt.Errorf("encoding zone %d: %w", z.ID, err)
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO zones (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		z.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("upserting zone %d: %w", z.ID, err)
	}
	return nil
}

// ReplaceAll replaces the entire zones collection, used when importing a new
// transit-network snapshot. It issues a DELETE followed by one upsert per
// zone; the replacement is atomic only when called on a Tx's repository.
func (r *ZoneRepository) ReplaceAll(ctx context.Context, zones []model.Zone) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM zones`); err != nil {
		return fmt.Errorf("clearing zones: %w", err)
	}
	for _, z := range zones {
		if err := r.Upsert(ctx, z); err != nil {
			return err
		}
	}
	return nil
}
