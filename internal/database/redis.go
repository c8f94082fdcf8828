package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"taskboard-api/internal/config"
)

// boardEventsChannel is the Redis channel mirroring every board event across
// processes. Each hub filters on room membership, so one channel suffices.
const boardEventsChannel = "board:events"

// InitRedis initializes the Redis connection used for the cross-process
// event bridge. Returns nil without error when no Redis is configured;
// the service then runs single-process fan-out only.
func InitRedis(cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	var client *redis.Client

	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opts)
	} else if cfg.Addr != "" {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	} else {
		return nil, nil
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	log.Info("Redis connection established",
		zap.String("addr", client.Options().Addr),
		zap.Int("db", cfg.DB))
	return client, nil
}

// boardEventEnvelope wraps a serialized event with its origin hub id so a
// process can skip its own echoes.
type boardEventEnvelope struct {
	Origin  string          `json:"origin"`
	BoardID string          `json:"boardId"`
	Event   json.RawMessage `json:"event"`
}

// PublishBoardEvent mirrors an already-serialized board event to Redis
func PublishBoardEvent(client *redis.Client, boardID, origin string, raw []byte) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	payload, err := json.Marshal(boardEventEnvelope{
		Origin:  origin,
		BoardID: boardID,
		Event:   raw,
	})
	if err != nil {
		return err
	}
	return client.Publish(context.Background(), boardEventsChannel, payload).Err()
}

// SubscribeBoardEvents subscribes to the board event bridge channel
func SubscribeBoardEvents(client *redis.Client) *redis.PubSub {
	return client.Subscribe(context.Background(), boardEventsChannel)
}

// DecodeBoardEvent unpacks a bridge message into origin, board id and the
// raw event bytes.
func DecodeBoardEvent(payload string) (origin, boardID string, raw []byte, err error) {
	var env boardEventEnvelope
	if err = json.Unmarshal([]byte(payload), &env); err != nil {
		return "", "", nil, err
	}
	return env.Origin, env.BoardID, env.Event, nil
}
