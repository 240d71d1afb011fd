// Package db holds the durable collections that back the in-memory game
// state: zones, challenge sets, raw challenges, players, teams and
// sessions. Each collection is a thin repository over a Postgres table,
// following the teacher's repository-per-entity pattern (one file per
// entity, a struct wrapping the shared pool). Every write the engine issues
// as part of an autosave is run inside a single transaction (see WithTx),
// since a snapshot must never be left half-written.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool and exposes one repository per entity kind.
type DB struct {
	pool *pgxpool.Pool

	Zones         *ZoneRepository
	ChallengeSets *ChallengeSetRepository
	Challenges    *ChallengeRepository
	Players       *PlayerRepository
	Teams         *TeamRepository
	Sessions      *SessionRepository
}

// New connects to PostgreSQL and returns a DB handle with all repositories
// wired against the pool.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	d := &DB{pool: pool}
	d.Zones = &ZoneRepository{q: pool}
	d.ChallengeSets = &ChallengeSetRepository{q: pool}
	d.Challenges = &ChallengeRepository{q: pool}
	d.Players = &PlayerRepository{q: pool}
	d.Teams = &TeamRepository{q: pool}
	d.Sessions = &SessionRepository{q: pool}
	return d, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool (for goose migrations and tests).
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Tx is a handle to a single autosave transaction: every repository method
// on it runs against the same underlying pgx.Tx, so either the whole
// snapshot lands or none of it does.
type Tx struct {
	tx            pgx.Tx
	Zones         *ZoneRepository
	ChallengeSets *ChallengeSetRepository
	Challenges    *ChallengeRepository
	Players       *PlayerRepository
	Teams         *TeamRepository
	Sessions      *SessionRepository
}

// WithTx runs fn inside a single transaction, committing if fn returns nil
// and rolling back otherwise. The autosave protocol (spec.md §4.1.5) calls
// this once per tick with the full cloned snapshot.
func (d *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	pgxTx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning autosave transaction: %w", err)
	}
	defer pgxTx.Rollback(ctx) //nolint:errcheck

	t := &Tx{
		tx:            pgxTx,
		Zones:         &ZoneRepository{q: pgxTx},
		ChallengeSets: &ChallengeSetRepository{q: pgxTx},
		Challenges:    &ChallengeRepository{q: pgxTx},
		Players:       &PlayerRepository{q: pgxTx},
		Teams:         &TeamRepository{q: pgxTx},
		Sessions:      &SessionRepository{q: pgxTx},
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return fmt.Errorf("committing autosave transaction: %w", err)
	}
	return nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting each
// repository work unmodified whether it's reading live or writing inside an
// autosave transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgx.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
