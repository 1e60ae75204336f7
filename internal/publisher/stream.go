package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/redis/go-redis/v9"
)

// DefaultStream receives one entry per completed analysis run
const DefaultStream = "analysis.completed.cfb"

// streamMaxLen bounds the stream; trimming is approximate
const streamMaxLen = 10000

// StreamPublisher publishes analysis updates to a Redis stream
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// PublishAnalysis publishes an update to the analysis stream
func (p *StreamPublisher) PublishAnalysis(ctx context.Context, update models.AnalysisUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshaling analysis update: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":    string(data),
			"game_id": update.GameID,
			"run_id":  update.RunID,
			"type":    models.MessageTypeAnalysisUpdate,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", p.stream, err)
	}
	return nil
}
