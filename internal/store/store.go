// Package store persists match snapshots in Postgres via a pgx pool. The
// engine never touches this; the orchestrator calls in asynchronously and a
// nil pool disables persistence entirely.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. Nil until Connect succeeds; callers must
// check before persisting.
var DB *pgxpool.Pool

// Connect opens the pool and verifies connectivity.
func Connect(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("store: open pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("store: ping: %w", err)
	}
	DB = pool
	logrus.Info("store postgres connected")
	return nil
}

// Migrate creates the match tables if they do not exist.
func Migrate(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("store: not connected")
	}
	_, err := DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_initial_fleets (
			match_id   uuid PRIMARY KEY,
			fleets     jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS match_results (
			match_id   uuid PRIMARY KEY,
			result     jsonb NOT NULL,
			ended_at   timestamptz NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// UpsertInitialFleets saves every seat's starting layout for replay and
// audit. Runs on its own short-lived context so callers can fire and forget.
func UpsertInitialFleets(matchID uuid.UUID, snapshot interface{}) {
	if DB == nil {
		return
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		logrus.WithError(err).WithField("match_id", matchID).Error("store: marshal initial fleets")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = DB.Exec(ctx, `
		INSERT INTO match_initial_fleets (match_id, fleets)
		VALUES ($1, $2)
		ON CONFLICT (match_id) DO UPDATE SET fleets = EXCLUDED.fleets
	`, matchID, body)
	if err != nil {
		logrus.WithError(err).WithField("match_id", matchID).Error("store: upsert initial fleets")
	}
}

// StoreMatchResult saves the final outcome snapshot.
func StoreMatchResult(ctx context.Context, matchID uuid.UUID, snapshot interface{}) {
	if DB == nil {
		return
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		logrus.WithError(err).WithField("match_id", matchID).Error("store: marshal result")
		return
	}
	execCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = DB.Exec(execCtx, `
		INSERT INTO match_results (match_id, result)
		VALUES ($1, $2)
		ON CONFLICT (match_id) DO UPDATE SET result = EXCLUDED.result
	`, matchID, body)
	if err != nil {
		logrus.WithError(err).WithField("match_id", matchID).Error("store: store result")
	}
}

// Close releases the pool.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}
