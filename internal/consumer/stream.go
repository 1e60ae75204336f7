package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/logging"
	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Batch size for reading messages
	batchSize = 50

	// Block duration when waiting for new messages
	blockDuration = 2 * time.Second

	// Pause after a read error before retrying
	errorBackoff = time.Second
)

// ErrInvalidMessage is returned for stream entries without a decodable update
var ErrInvalidMessage = errors.New("invalid analysis message")

// Broadcaster receives decoded updates
type Broadcaster interface {
	Broadcast(update models.AnalysisUpdate)
}

// StreamConsumer tails the analysis stream and forwards updates to the local hub.
// Every replica reads the whole stream, so no consumer group is used.
type StreamConsumer struct {
	redis  *redis.Client
	stream string
	hub    Broadcaster
	logger *logrus.Entry
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(redisClient *redis.Client, stream string, hub Broadcaster, logger *logrus.Entry) *StreamConsumer {
	return &StreamConsumer{
		redis:  redisClient,
		stream: stream,
		hub:    hub,
		logger: logging.OrDiscard(logger).WithField("stream", stream),
	}
}

// Start consumes new entries until ctx is cancelled. Entries written before
// Start are skipped.
func (sc *StreamConsumer) Start(ctx context.Context) {
	sc.logger.Info("stream consumer started")

	lastID := "$"
	for {
		select {
		case <-ctx.Done():
			sc.logger.Info("stream consumer stopped")
			return
		default:
		}

		streams, err := sc.redis.XRead(ctx, &redis.XReadArgs{
			Streams: []string{sc.stream, lastID},
			Count:   batchSize,
			Block:   blockDuration,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			sc.logger.WithError(err).Warn("stream read failed")
			time.Sleep(errorBackoff)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				lastID = message.ID
				sc.processMessage(message)
			}
		}
	}
}

func (sc *StreamConsumer) processMessage(msg redis.XMessage) {
	update, err := DecodeUpdate(msg.Values)
	if err != nil {
		sc.logger.WithField("message_id", msg.ID).WithError(err).Warn("skipping message")
		return
	}
	sc.hub.Broadcast(update)
}

// DecodeUpdate extracts the update from a stream entry's data field
func DecodeUpdate(values map[string]interface{}) (models.AnalysisUpdate, error) {
	var update models.AnalysisUpdate

	data, ok := values["data"].(string)
	if !ok {
		return update, fmt.Errorf("%w: missing data field", ErrInvalidMessage)
	}
	if err := json.Unmarshal([]byte(data), &update); err != nil {
		return update, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if update.GameID == "" {
		return update, fmt.Errorf("%w: missing game_id", ErrInvalidMessage)
	}
	return update, nil
}
