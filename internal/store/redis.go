package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultQueueName = "sniper_keeper_actions"

// RedisRecorder pushes records onto a list for an out-of-process consumer.
type RedisRecorder struct {
	rdb   *redis.Client
	queue string
}

func NewRedisRecorder(rdb *redis.Client, queue string) *RedisRecorder {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisRecorder{rdb: rdb, queue: queue}
}

// ConnectRedis dials and pings before handing back a recorder.
func ConnectRedis(ctx context.Context, addr string, db int, queue string) (*RedisRecorder, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisRecorder(rdb, queue), nil
}

func (r *RedisRecorder) Record(ctx context.Context, gameID uuid.UUID, seq int, events []engine.Event) error {
	payloads, err := encodeRecords(toRecords(gameID, seq, events))
	if err != nil {
		return err
	}
	if len(payloads) == 0 {
		return nil
	}
	if err := r.rdb.RPush(ctx, r.queue, payloads...).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", r.queue, err)
	}
	return nil
}

func (r *RedisRecorder) Close() error { return r.rdb.Close() }

func encodeRecords(recs []ActionRecord) ([]any, error) {
	out := make([]any, 0, len(recs))
	for _, rec := range recs {
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal action record: %w", err)
		}
		out = append(out, string(b))
	}
	return out, nil
}
