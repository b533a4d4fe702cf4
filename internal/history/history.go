// Package history publishes match actions to a Redis stream so an external
// historian can rebuild or audit any match. Publishing is best effort: a nil
// client or a failed write never blocks gameplay.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. Nil until Connect succeeds; callers must
// check before publishing.
var Rdb *redis.Client

// MatchActionRecord is one entry in a match's action stream.
type MatchActionRecord struct {
	MatchID       uuid.UUID              `json:"matchId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorSeatID   uuid.UUID              `json:"actorSeatId"` // Nil for match-level events.
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"` // unix ms
}

// Connect initializes the shared client and verifies the connection.
func Connect(addr, password string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("history: redis ping %s: %w", addr, err)
	}
	Rdb = client
	logrus.WithField("addr", addr).Info("historian redis connected")
	return nil
}

// streamKey returns the per-match stream name.
func streamKey(matchID uuid.UUID) string {
	return "match:actions:" + matchID.String()
}

// PublishMatchAction appends one record to the match's stream. The payload is
// serialized as a single JSON field so consumers get the record verbatim.
func PublishMatchAction(ctx context.Context, rec MatchActionRecord) error {
	if Rdb == nil {
		return fmt.Errorf("history: redis client not connected")
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("history: marshal action %d: %w", rec.ActionIndex, err)
	}
	err = Rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey(rec.MatchID),
		Values: map[string]interface{}{
			"idx":  rec.ActionIndex,
			"type": rec.ActionType,
			"body": body,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("history: xadd %s: %w", rec.ActionType, err)
	}
	return nil
}

// MatchActions reads back a match's full action stream, oldest first.
func MatchActions(ctx context.Context, matchID uuid.UUID) ([]MatchActionRecord, error) {
	if Rdb == nil {
		return nil, fmt.Errorf("history: redis client not connected")
	}
	entries, err := Rdb.XRange(ctx, streamKey(matchID), "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("history: xrange %s: %w", matchID, err)
	}
	out := make([]MatchActionRecord, 0, len(entries))
	for _, e := range entries {
		raw, ok := e.Values["body"].(string)
		if !ok {
			continue
		}
		var rec MatchActionRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
