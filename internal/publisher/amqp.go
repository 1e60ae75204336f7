package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
	"github.com/streadway/amqp"
)

// DefaultExchange is the topic exchange analysis events are published to
const DefaultExchange = "cfb.analysis"

// amqpChannel is the part of *amqp.Channel the publisher uses
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes analysis updates to a topic exchange,
// routed as analysis.completed.<game_id>
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	mu       sync.Mutex
}

// NewAMQPPublisher dials the broker and declares the exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 30 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// newAMQPPublisherWithChannel wires a publisher to an existing channel
func newAMQPPublisherWithChannel(channel amqpChannel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{channel: channel, exchange: exchange}
}

// RoutingKey returns the routing key for a game's updates
func RoutingKey(gameID string) string {
	return "analysis.completed." + gameID
}

// PublishAnalysis implements Publisher
func (p *AMQPPublisher) PublishAnalysis(ctx context.Context, update models.AnalysisUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshaling analysis update: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(p.exchange, RoutingKey(update.GameID), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    update.RunID,
		Timestamp:    update.GeneratedAt,
		Type:         models.MessageTypeAnalysisUpdate,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing to exchange %s: %w", p.exchange, err)
	}
	return nil
}

// Close closes the channel and connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
