package worker

import (
	"context"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

//go:generate mockgen -source=consumer.go -destination=../mocks/worker/mock.go -package=mocks
type eventQueue interface {
	Consume(ctx context.Context, out chan<- []byte, strategy retry.Strategy) error
}

type messageHandler interface {
	HandleMessage(ctx context.Context, body []byte, strategy retry.Strategy)
}

// Consumer is the event ingestion loop: a single long-running unit of
// execution that processes one bus message at a time, sequentially, and stops
// gracefully when its context is cancelled.
type Consumer struct {
	queue   eventQueue
	handler messageHandler
}

// NewConsumer creates a new event consumer.
func NewConsumer(q eventQueue, h messageHandler) *Consumer {
	return &Consumer{queue: q, handler: h}
}

// Run consumes messages until ctx is cancelled. The message in flight is
// drained before returning; each store insert is atomic, so at most one
// abandoned create is possible on shutdown and it either landed or it did
// not.
func (c *Consumer) Run(ctx context.Context, strategy retry.Strategy) {
	msgChan := make(chan []byte)

	go func() {
		if err := c.queue.Consume(ctx, msgChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume messages")
		}
	}()

	zlog.Logger.Info().Msg("event consumer started")

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("event consumer stopped")
			return
		case body, ok := <-msgChan:
			if !ok {
				zlog.Logger.Info().Msg("message channel closed, event consumer stopped")
				return
			}

			c.handler.HandleMessage(ctx, body, strategy)
		}
	}
}
