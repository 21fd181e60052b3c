package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fortuna/gridiron/internal/statlog"
	"github.com/redis/go-redis/v9"
)

// statEventStream carries every committed stat create/update/delete for
// out-of-process consumers (grade sheets, export jobs)
const statEventStream = "stats.events.football"

// RedisPublisher publishes stat events to a Redis stream
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{client: client}, nil
}

// Close closes the Redis connection
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PublishStatEvent appends one committed event to the stream. Fire and
// forget from the write path's perspective; the caller logs failures.
func (rp *RedisPublisher) PublishStatEvent(ctx context.Context, ev statlog.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: statEventStream,
		Values: map[string]interface{}{
			"kind":      string(ev.Kind),
			"game_id":   ev.GameID,
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
