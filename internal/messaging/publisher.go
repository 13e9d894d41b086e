package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

// AnalyticsPublisher publishes gameplay analytics events to the broker.
// Delivery is best-effort from the caller's point of view: services log
// publish failures and continue, the player-facing request never fails
// because the analytics pipeline is down.
type AnalyticsPublisher interface {
	PublishChoiceEvent(ctx context.Context, payload models.ChoiceEvent) error
	PublishCompletionEvent(ctx context.Context, payload models.CompletionEvent) error
}

// rabbitMQPublisher implements AnalyticsPublisher over a single AMQP channel.
type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQAnalyticsPublisher opens a channel on the given connection and
// declares the analytics queue. The publisher declares the queue itself so the
// server does not depend on the consumer's startup order. Queue parameters
// must match the consumer's.
func NewRabbitMQAnalyticsPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (AnalyticsPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("analytics publisher: failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("analytics publisher: failed to declare queue '%s': %w", queueName, err)
	}

	logger = logger.Named("AnalyticsPublisher")
	logger.Info("Analytics queue declared", zap.String("queue", queueName))
	return &rabbitMQPublisher{channel: ch, queueName: queueName, logger: logger}, nil
}

// PublishChoiceEvent publishes one recorded player choice.
func (p *rabbitMQPublisher) PublishChoiceEvent(ctx context.Context, payload models.ChoiceEvent) error {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to marshal choice event", zap.String("questID", payload.QuestID), zap.Error(err))
		return fmt.Errorf("failed to marshal choice event for quest %s: %w", payload.QuestID, err)
	}
	return p.publishMessage(ctx, body)
}

// PublishCompletionEvent publishes a quest completion.
func (p *rabbitMQPublisher) PublishCompletionEvent(ctx context.Context, payload models.CompletionEvent) error {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to marshal completion event", zap.String("questID", payload.QuestID), zap.Error(err))
		return fmt.Errorf("failed to marshal completion event for quest %s: %w", payload.QuestID, err)
	}
	return p.publishMessage(ctx, body)
}

// publishMessage sends the body to the queue with a short retry loop.
func (p *rabbitMQPublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		return errors.New("rabbitmq channel is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (default)
			p.queueName, // routing key (queue name)
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        "sentinel-server",
			},
		)
		if err == nil {
			return nil
		}
		p.logger.Warn("Publish attempt failed",
			zap.Int("attempt", attempt),
			zap.String("queue", p.queueName),
			zap.Error(err))
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	return fmt.Errorf("failed to publish to queue %s after retries: %w", p.queueName, err)
}

// NopPublisher discards all events. Used in tests and when the broker is not
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishChoiceEvent(context.Context, models.ChoiceEvent) error     { return nil }
func (NopPublisher) PublishCompletionEvent(context.Context, models.CompletionEvent) error { return nil }
