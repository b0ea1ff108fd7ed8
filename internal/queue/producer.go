package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"lead-service/pkg/logger"
)

// RoutingKeyLeadCaptured routes captured-lead events to downstream consumers
const RoutingKeyLeadCaptured = "k.lead.captured"

// LeadEvent is the message published after a contact attempt is recorded
type LeadEvent struct {
	LeadID   uint   `json:"lead_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	LeadType uint   `json:"lead_type"`
	StoreID  int    `json:"store_id"`
	Tryet    int    `json:"tryet"`
	Created  bool   `json:"created"`
}

// Producer publishes lead events to RabbitMQ. A nil Producer silently
// drops events so the broker stays optional.
type Producer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Connect dials the broker and declares the lead exchange
func Connect(url, exchange string) (*Producer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &Producer{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishLeadCaptured publishes a captured-lead event
func (p *Producer) PublishLeadCaptured(ctx context.Context, event LeadEvent) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode lead event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		RoutingKeyLeadCaptured,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish lead event: %w", err)
	}

	logger.FromContext(ctx).Debug("Lead event published",
		zap.Uint("lead_id", event.LeadID),
		zap.String("routing_key", RoutingKeyLeadCaptured))
	return nil
}

// Close releases the channel and connection
func (p *Producer) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
