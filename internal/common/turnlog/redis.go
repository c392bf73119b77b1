package turnlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dealer-assistant/internal/models"
)

// RedisLog stores turns as JSON in a Redis list. RPUSH is atomic, so no
// client-side locking is needed.
type RedisLog struct {
	client *redis.Client
	key    string
}

func NewRedisLog(client *redis.Client, key string) *RedisLog {
	return &RedisLog{client: client, key: key}
}

func (l *RedisLog) Append(ctx context.Context, entry models.TurnLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	if err := l.client.RPush(ctx, l.key, data).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}
	return nil
}

func (l *RedisLog) Entries(ctx context.Context) ([]models.TurnLogEntry, error) {
	vals, err := l.client.LRange(ctx, l.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	entries := make([]models.TurnLogEntry, 0, len(vals))
	for _, v := range vals {
		var entry models.TurnLogEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *RedisLog) Len(ctx context.Context) (int, error) {
	n, err := l.client.LLen(ctx, l.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen: %w", err)
	}
	return int(n), nil
}
