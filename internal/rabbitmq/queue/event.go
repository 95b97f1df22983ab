package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"

	"github.com/collabhub/notifications-service/internal/config"
)

// EventMessage is the wire shape of a domain event consumed from the bus.
// Producers publish at-least-once; redelivered messages are processed again
// and will create duplicate notifications.
type EventMessage struct {
	EventType        string    `json:"event_type" validate:"required"`
	UserID           string    `json:"user_id" validate:"required"`
	NotificationType string    `json:"notification_type" validate:"required"`
	Title            string    `json:"title" validate:"required"`
	Message          string    `json:"message" validate:"required"`
	Timestamp        time.Time `json:"timestamp" validate:"required"`
	RelatedProjectID *string   `json:"related_project_id,omitempty"`
	RelatedUserID    *string   `json:"related_user_id,omitempty"`
	RelatedTaskID    *string   `json:"related_task_id,omitempty"`
}

// EventQueue wraps the bus topology for notification events: a direct
// exchange bound to a durable main queue, plus a DLQ that receives poison
// messages.
type EventQueue struct {
	consumer     *rabbitmq.Consumer
	dlqPublisher *rabbitmq.Publisher
	dlqName      string
}

// NewEventQueue declares the exchange, main queue and DLQ and binds them.
func NewEventQueue(ch *rabbitmq.Channel, cfg *config.Config) (*EventQueue, error) {
	exchange := rabbitmq.NewExchange(cfg.RabbitMQ.Exchange, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	_, err := qm.DeclareQueue(cfg.RabbitMQ.DLQ, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	mainArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitMQ.DLQ,
	}

	mainQ, err := qm.DeclareQueue(cfg.RabbitMQ.Queue, rabbitmq.QueueConfig{
		Durable: true,
		Args:    mainArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	if err := ch.QueueBind(mainQ.Name, cfg.RabbitMQ.RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the main queue: %w", err)
	}

	cons := rabbitmq.NewConsumer(ch, rabbitmq.NewConsumerConfig(mainQ.Name))

	// Poison messages are re-published through the default exchange, which
	// routes by queue name.
	dlqPub := rabbitmq.NewPublisher(ch, "")

	return &EventQueue{
		consumer:     cons,
		dlqPublisher: dlqPub,
		dlqName:      cfg.RabbitMQ.DLQ,
	}, nil
}

// Consume delivers raw message bodies to out until ctx is cancelled.
// Deserialization and validation are the message handler's concern, so that
// malformed messages can be dead-lettered instead of silently dropped here.
func (q *EventQueue) Consume(ctx context.Context, out chan<- []byte, strategy retry.Strategy) error {
	msgChan := make(chan []byte)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgChan:
				if !ok {
					return
				}

				out <- m
			}
		}
	}()

	return q.consumer.ConsumeWithRetry(msgChan, strategy)
}

// PublishToDLQ moves a poison message to the dead letter queue.
func (q *EventQueue) PublishToDLQ(body []byte, strategy retry.Strategy) error {
	return q.dlqPublisher.PublishWithRetry(body, q.dlqName, "application/json", strategy)
}
